// Upload endpoint. Accepts base64 data URLs (logos and other briefing
// assets) and stores them in object storage.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ozires/site24h-backend/internal/http/middleware"
)

// UploadRequest carries a base64 data URL.
type UploadRequest struct {
	File string `json:"file" binding:"required"`
}

// Upload stores the file and returns its key and URL.
func (h *Handlers) Upload(c *gin.Context) {
	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "file is required")
		return
	}
	up, err := h.Uploads.Store(c.Request.Context(), middleware.UserIDFrom(c), req.File)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusCreated, up)
}
