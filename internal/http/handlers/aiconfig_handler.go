// AI provider configuration endpoints (admin only). Credentials are sealed at
// rest; responses carry a masked hint instead of the key.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ozires/site24h-backend/internal/domain"
	"github.com/ozires/site24h-backend/internal/secrets"
	"github.com/ozires/site24h-backend/internal/services"
)

// AiConfigRequest is the JSON payload for creating a provider configuration.
type AiConfigRequest struct {
	Provider    string  `json:"provider" binding:"required"`
	APIKey      string  `json:"api_key" binding:"required"`
	Model       string  `json:"model" binding:"required"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Activate    bool    `json:"activate"`
}

// UpdateAiConfigRequest updates a configuration. Omitted fields are left
// untouched; a new api_key replaces the sealed credential.
type UpdateAiConfigRequest struct {
	APIKey      *string  `json:"api_key"`
	Model       *string  `json:"model"`
	MaxTokens   *int     `json:"max_tokens"`
	Temperature *float64 `json:"temperature"`
}

// AiConfigView is the API shape of a provider configuration. The sealed
// credential never leaves the server; MaskedKey shows enough to recognize it.
type AiConfigView struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	Model       string    `json:"model"`
	MaskedKey   string    `json:"masked_key"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (h *Handlers) aiConfigView(cfg *domain.AiConfig) AiConfigView {
	masked := "********"
	if key, err := h.AiConfigs.Box.Open(cfg.EncryptedKey); err == nil {
		masked = secrets.MaskKey(key)
	}
	return AiConfigView{
		ID:          cfg.ID,
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		MaskedKey:   masked,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		IsActive:    cfg.IsActive,
		CreatedAt:   cfg.CreatedAt,
		UpdatedAt:   cfg.UpdatedAt,
	}
}

// CreateAiConfig registers a provider configuration.
func (h *Handlers) CreateAiConfig(c *gin.Context) {
	var req AiConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "provider, api_key, and model are required")
		return
	}
	cfg, err := h.AiConfigs.Create(c.Request.Context(), services.CreateAiConfigInput{
		Provider:    req.Provider,
		APIKey:      req.APIKey,
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Activate:    req.Activate,
	})
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusCreated, h.aiConfigView(cfg))
}

// ListAiConfigs returns all provider configurations with masked credentials.
func (h *Handlers) ListAiConfigs(c *gin.Context) {
	cfgs, err := h.AiConfigs.List(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	views := make([]AiConfigView, 0, len(cfgs))
	for i := range cfgs {
		views = append(views, h.aiConfigView(&cfgs[i]))
	}
	ok(c, http.StatusOK, gin.H{"configs": views})
}

// ActivateAiConfig makes one configuration the active provider.
func (h *Handlers) ActivateAiConfig(c *gin.Context) {
	if err := h.AiConfigs.Activate(c.Request.Context(), c.Param("id")); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}

// UpdateAiConfig applies partial changes to a configuration.
func (h *Handlers) UpdateAiConfig(c *gin.Context) {
	var req UpdateAiConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid payload")
		return
	}
	err := h.AiConfigs.Update(c.Request.Context(), c.Param("id"), services.UpdateAiConfigInput{
		APIKey:      req.APIKey,
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}

// DeleteAiConfig removes a configuration without usage history.
func (h *Handlers) DeleteAiConfig(c *gin.Context) {
	if err := h.AiConfigs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}
