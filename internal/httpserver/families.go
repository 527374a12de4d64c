package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	familysvc "tailorstudio/internal/service/family"
)

func (h *handlers) listFamilies(c *gin.Context) {
	out, err := h.deps.FamilySvc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) createFamily(c *gin.Context) {
	var in familysvc.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}
	created, err := h.deps.FamilySvc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) getFamily(c *gin.Context) {
	out, err := h.deps.FamilySvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// updateFamily takes the full family including its complete member list.
// Members missing from the list are deleted.
func (h *handlers) updateFamily(c *gin.Context) {
	var in familysvc.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}
	out, err := h.deps.FamilySvc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) deleteFamily(c *gin.Context) {
	if err := h.deps.FamilySvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
