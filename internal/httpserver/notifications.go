package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tailorstudio/internal/domain"
	"tailorstudio/internal/notify"
)

// notifications accepts the client's dismissals as repeated
// dismissed=<orderId>:<daysLeft> parameters.
func (h *handlers) notifications(c *gin.Context) {
	dismissed := notify.Dismissals{}
	for _, raw := range c.QueryArray("dismissed") {
		d, err := notify.ParseDismissal(raw)
		if err != nil {
			respondError(c, domain.NewValidationError("dismissed", err.Error()))
			return
		}
		dismissed.Add(d)
	}
	out, err := h.deps.NotificationSvc.Due(c.Request.Context(), dismissed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
