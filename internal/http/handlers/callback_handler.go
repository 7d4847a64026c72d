// Site generator callback. Authenticated with an API key rather than a user
// session; the generator reports publication results here.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ozires/site24h-backend/internal/domain"
)

// GeneratorCallbackRequest is the payload posted by the site generator when
// it finishes (or fails) publishing a project.
type GeneratorCallbackRequest struct {
	PreviewURL string `json:"preview_url"`
	PublishURL string `json:"publish_url"`
	Status     string `json:"status" binding:"required"`
}

// GeneratorCallback records the generator's result on the project and
// notifies the owner.
func (h *Handlers) GeneratorCallback(c *gin.Context) {
	var req GeneratorCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status is required")
		return
	}
	err := h.Projects.HandleCallback(c.Request.Context(), c.Param("id"),
		req.PreviewURL, req.PublishURL, domain.ProjectStatus(req.Status))
	if err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}
