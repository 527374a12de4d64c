package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	individualsvc "tailorstudio/internal/service/individual"
)

func (h *handlers) listIndividuals(c *gin.Context) {
	includeMembers, _ := strconv.ParseBool(c.Query("includeMembers"))
	out, err := h.deps.IndividualSvc.List(c.Request.Context(), includeMembers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) createIndividual(c *gin.Context) {
	var in individualsvc.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}
	created, err := h.deps.IndividualSvc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) getIndividual(c *gin.Context) {
	out, err := h.deps.IndividualSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) updateIndividual(c *gin.Context) {
	var in individualsvc.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}
	out, err := h.deps.IndividualSvc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) deleteIndividual(c *gin.Context) {
	if err := h.deps.IndividualSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
