package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	searchsvc "tailorstudio/internal/service/search"
)

func (h *handlers) search(c *gin.Context) {
	mode, err := searchsvc.ParseMode(c.Query("type"))
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.deps.SearchSvc.Search(c.Request.Context(), c.Query("q"), mode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
