// API key endpoints (admin only). The plaintext key is returned exactly once
// at creation; only the bcrypt hash is stored.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ozires/site24h-backend/internal/domain"
)

// CreateApiKeyRequest registers a machine credential.
type CreateApiKeyRequest struct {
	Name        string     `json:"name" binding:"required"`
	Permissions []string   `json:"permissions"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// CreateApiKeyResponse carries the one-time plaintext key.
type CreateApiKeyResponse struct {
	ApiKey *domain.ApiKey `json:"api_key"`
	// Key is shown once; it cannot be recovered later.
	Key string `json:"key"`
}

// CreateApiKey mints a credential for machine callers.
func (h *Handlers) CreateApiKey(c *gin.Context) {
	var req CreateApiKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name is required")
		return
	}
	rec, plaintext, err := h.ApiKeys.Create(c.Request.Context(), req.Name, req.Permissions, req.ExpiresAt)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusCreated, CreateApiKeyResponse{ApiKey: rec, Key: plaintext})
}

// ListApiKeys returns all credentials, hashes excluded.
func (h *Handlers) ListApiKeys(c *gin.Context) {
	items, err := h.ApiKeys.List(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"api_keys": items})
}

// RevokeApiKey deactivates a credential without deleting its history.
func (h *Handlers) RevokeApiKey(c *gin.Context) {
	if err := h.ApiKeys.Revoke(c.Request.Context(), c.Param("id")); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}

// DeleteApiKey removes a credential permanently.
func (h *Handlers) DeleteApiKey(c *gin.Context) {
	if err := h.ApiKeys.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}
