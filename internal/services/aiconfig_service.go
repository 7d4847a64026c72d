package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ozires/site24h-backend/internal/ai"
	"github.com/ozires/site24h-backend/internal/domain"
	"github.com/ozires/site24h-backend/internal/repo"
	"github.com/ozires/site24h-backend/internal/secrets"
)

// GeneratorFactory builds a TextGenerator from a provider configuration and
// a decrypted credential. Swapped for a fake in tests.
type GeneratorFactory func(baseURL, apiKey, model string) ai.TextGenerator

// AiConfigService manages provider configurations. Credentials are sealed
// with AES-GCM before they touch the database and never leave this service
// in plaintext.
type AiConfigService struct {
	DB      *gorm.DB
	Box     *secrets.Box
	Factory GeneratorFactory
}

// NewAiConfigService constructs an AiConfigService with the real generator
// factory.
func NewAiConfigService(db *gorm.DB, box *secrets.Box) *AiConfigService {
	return &AiConfigService{
		DB:  db,
		Box: box,
		Factory: func(baseURL, apiKey, model string) ai.TextGenerator {
			return ai.NewOpenAICompatGenerator(baseURL, apiKey, model)
		},
	}
}

// CreateInput carries a new provider configuration.
type CreateAiConfigInput struct {
	Provider    string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Activate    bool
}

// Create seals the credential and stores the configuration. When Activate is
// set, or when this is the first configuration, it becomes the active one.
func (s *AiConfigService) Create(ctx context.Context, in CreateAiConfigInput) (*domain.AiConfig, error) {
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" || strings.TrimSpace(in.APIKey) == "" || strings.TrimSpace(in.Model) == "" {
		return nil, validationError("provider, api key, and model are required")
	}
	if ai.BaseURLFor(provider) == "" {
		return nil, validationError("unknown provider: "+provider)
	}
	if in.MaxTokens <= 0 {
		in.MaxTokens = 4096
	}
	if in.Temperature <= 0 {
		in.Temperature = 0.7
	}

	sealed, err := s.Box.Seal(strings.TrimSpace(in.APIKey))
	if err != nil {
		return nil, err
	}

	existing, err := repo.ListAiConfigs(ctx, s.DB)
	if err != nil {
		return nil, err
	}

	cfg, err := repo.CreateAiConfig(ctx, s.DB, &domain.AiConfig{
		ID:           uuid.NewString(),
		Provider:     provider,
		EncryptedKey: sealed,
		Model:        strings.TrimSpace(in.Model),
		MaxTokens:    in.MaxTokens,
		Temperature:  in.Temperature,
	})
	if err != nil {
		return nil, err
	}

	if in.Activate || len(existing) == 0 {
		if err := repo.ActivateAiConfig(ctx, s.DB, cfg.ID); err != nil {
			return nil, err
		}
		cfg.IsActive = true
	}
	return cfg, nil
}

// List returns every configuration. EncryptedKey is excluded from JSON by
// the model's tags.
func (s *AiConfigService) List(ctx context.Context) ([]domain.AiConfig, error) {
	return repo.ListAiConfigs(ctx, s.DB)
}

// Activate makes one configuration active, deactivating all others in the
// same transaction.
func (s *AiConfigService) Activate(ctx context.Context, id string) error {
	if err := repo.ActivateAiConfig(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrAiConfigNotFound
		}
		return err
	}
	return nil
}

// UpdateAiConfigInput carries field changes; nil fields are untouched.
type UpdateAiConfigInput struct {
	APIKey      *string
	Model       *string
	MaxTokens   *int
	Temperature *float64
}

// Update applies changes. A new API key is sealed before storage.
func (s *AiConfigService) Update(ctx context.Context, id string, in UpdateAiConfigInput) error {
	fields := map[string]any{}
	if in.APIKey != nil && strings.TrimSpace(*in.APIKey) != "" {
		sealed, err := s.Box.Seal(strings.TrimSpace(*in.APIKey))
		if err != nil {
			return err
		}
		fields["encrypted_key"] = sealed
	}
	if in.Model != nil {
		fields["model"] = strings.TrimSpace(*in.Model)
	}
	if in.MaxTokens != nil && *in.MaxTokens > 0 {
		fields["max_tokens"] = *in.MaxTokens
	}
	if in.Temperature != nil && *in.Temperature > 0 {
		fields["temperature"] = *in.Temperature
	}
	if len(fields) == 0 {
		return nil
	}

	if err := repo.UpdateAiConfig(ctx, s.DB, id, fields); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrAiConfigNotFound
		}
		return err
	}
	return nil
}

// Delete removes a configuration without usage history. Configurations that
// have been billed against are kept for audit.
func (s *AiConfigService) Delete(ctx context.Context, id string) error {
	n, err := repo.CountAiUsageForConfig(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrAiConfigInUse
	}
	if err := repo.DeleteAiConfig(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrAiConfigNotFound
		}
		return err
	}
	return nil
}

// GeneratorForActive opens the active configuration's credential and builds
// a generator for it.
func (s *AiConfigService) GeneratorForActive(ctx context.Context) (ai.TextGenerator, *domain.AiConfig, error) {
	cfg, err := repo.GetActiveAiConfig(ctx, s.DB)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrNoActiveAiConfig
		}
		return nil, nil, err
	}

	apiKey, err := s.Box.Open(cfg.EncryptedKey)
	if err != nil {
		return nil, nil, err
	}
	return s.Factory(ai.BaseURLFor(cfg.Provider), apiKey, cfg.Model), cfg, nil
}

// LogUsage records one AI call for the audit trail. Failures are swallowed
// upstream; usage logging must never break generation.
func (s *AiConfigService) LogUsage(ctx context.Context, configID string, templateID, projectID, userID *string, res *ai.Result, latency time.Duration, callErr error) error {
	l := &domain.AiUsageLog{
		ID:         uuid.NewString(),
		ConfigID:   configID,
		TemplateID: templateID,
		ProjectID:  projectID,
		UserID:     userID,
		LatencyMS:  latency.Milliseconds(),
		Success:    callErr == nil,
	}
	if res != nil {
		l.PromptTokens = res.PromptTokens
		l.CompletionTokens = res.CompletionTokens
	}
	if callErr != nil {
		l.Error = callErr.Error()
	}
	return repo.CreateAiUsageLog(ctx, s.DB, l)
}
