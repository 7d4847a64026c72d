package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SettingValueRequest is the body for updating one platform setting.
type SettingValueRequest struct {
	Value string `json:"value"`
}

// ListSettings returns every platform setting with its current value.
// GET /admin/settings
func (h *Handlers) ListSettings(c *gin.Context) {
	all, err := h.Settings.All(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"settings": all})
}

// PutSetting upserts one platform setting.
// PUT /admin/settings/:key
func (h *Handlers) PutSetting(c *gin.Context) {
	var req SettingValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if err := h.Settings.Set(c.Request.Context(), c.Param("key"), req.Value); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}
