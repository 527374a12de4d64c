package httpserver

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"tailorstudio/internal/domain"
)

// upload stores the multipart "images" files under the "uploadId" form
// value, generating one when absent.
func (h *handlers) upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, domain.NewValidationError("body", "must be multipart/form-data"))
		return
	}
	headers := form.File["images"]
	readers := make([]io.Reader, 0, len(headers))
	for i, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			respondError(c, fmt.Errorf("open upload %d: %w", i, err))
			return
		}
		defer f.Close()
		readers = append(readers, f)
	}

	id, urls, err := h.deps.UploadSvc.Accept(c.Request.Context(), c.PostForm("uploadId"), readers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"uploadId": id, "urls": urls})
}
