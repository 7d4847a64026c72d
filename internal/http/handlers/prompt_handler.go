// Prompt template endpoints (admin only).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreatePromptRequest registers a prompt template under a well-known key.
type CreatePromptRequest struct {
	Key     string `json:"key" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// UpdatePromptRequest applies partial changes to a template.
type UpdatePromptRequest struct {
	Name     *string `json:"name"`
	Content  *string `json:"content"`
	IsActive *bool   `json:"is_active"`
}

// CreatePrompt stores a new template. The key decides which pipeline step
// uses it ("copy_generation" or "html_generation").
func (h *Handlers) CreatePrompt(c *gin.Context) {
	var req CreatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "key, name, and content are required")
		return
	}
	p, err := h.Prompts.Create(c.Request.Context(), req.Key, req.Name, req.Content)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusCreated, p)
}

// ListPrompts returns all templates.
func (h *Handlers) ListPrompts(c *gin.Context) {
	items, err := h.Prompts.List(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"prompts": items})
}

// GetPrompt returns one template.
func (h *Handlers) GetPrompt(c *gin.Context) {
	p, err := h.Prompts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// UpdatePrompt applies partial changes to a template.
func (h *Handlers) UpdatePrompt(c *gin.Context) {
	var req UpdatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid payload")
		return
	}
	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if len(fields) == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "nothing to update")
		return
	}
	if err := h.Prompts.Update(c.Request.Context(), c.Param("id"), fields); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}

// DeletePrompt removes a template. Generation falls back to the built-in
// prompt for its key.
func (h *Handlers) DeletePrompt(c *gin.Context) {
	if err := h.Prompts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}
