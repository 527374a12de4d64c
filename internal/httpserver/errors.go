package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tailorstudio/internal/domain"
)

// respondError maps domain errors onto HTTP statuses. Anything unexpected
// is logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
	case errors.Is(err, domain.ErrNotFound):
		abortWithError(c, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidCredentials):
		abortWithError(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrUnauthorized):
		abortWithError(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		abortWithError(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrAlreadyExists):
		abortWithError(c, http.StatusConflict, "already exists")
	default:
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "internal error")
	}
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func badBody(c *gin.Context) {
	respondError(c, domain.NewValidationError("body", "must be a valid JSON object"))
}
