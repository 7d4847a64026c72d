package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ozires/site24h-backend/internal/domain"
	"github.com/ozires/site24h-backend/internal/repo"
)

const apiKeyPrefix = "s24_"

// ApiKeyService manages hashed machine credentials. The plaintext key is
// returned exactly once, at creation.
type ApiKeyService struct {
	DB *gorm.DB
}

// NewApiKeyService constructs an ApiKeyService.
func NewApiKeyService(db *gorm.DB) *ApiKeyService {
	return &ApiKeyService{DB: db}
}

// Create mints a key. expiresAt nil means the key never expires.
func (s *ApiKeyService) Create(ctx context.Context, name string, permissions []string, expiresAt *time.Time) (*domain.ApiKey, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", validationError("name is required")
	}

	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", err
	}
	plaintext := apiKeyPrefix + hex.EncodeToString(raw)

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	var perms datatypes.JSON
	if len(permissions) > 0 {
		b, err := json.Marshal(permissions)
		if err != nil {
			return nil, "", err
		}
		perms = datatypes.JSON(b)
	}

	k, err := repo.CreateApiKey(ctx, s.DB, &domain.ApiKey{
		ID:          repo.NewApiKeyID(),
		Name:        name,
		KeyHash:     string(hash),
		Prefix:      plaintext[:12],
		Permissions: perms,
		ExpiresAt:   expiresAt,
		Active:      true,
	})
	if err != nil {
		return nil, "", err
	}
	return k, plaintext, nil
}

// List returns every key record, hashes excluded by JSON tags.
func (s *ApiKeyService) List(ctx context.Context) ([]domain.ApiKey, error) {
	return repo.ListApiKeys(ctx, s.DB)
}

// Verify matches a presented key against the active credentials and stamps
// last-used on a hit. The prefix narrows candidates before the bcrypt
// comparison; the full hash check is what authenticates.
func (s *ApiKeyService) Verify(ctx context.Context, presented string) (*domain.ApiKey, error) {
	presented = strings.TrimSpace(presented)
	if !strings.HasPrefix(presented, apiKeyPrefix) {
		return nil, ErrApiKeyInvalid
	}

	now := time.Now().UTC()
	keys, err := repo.ListActiveApiKeys(ctx, s.DB, now)
	if err != nil {
		return nil, err
	}
	for i := range keys {
		k := &keys[i]
		if !strings.HasPrefix(presented, k.Prefix) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(k.KeyHash), []byte(presented)) == nil {
			_ = repo.TouchApiKey(ctx, s.DB, k.ID, now)
			return k, nil
		}
	}
	return nil, ErrApiKeyInvalid
}

// Revoke deactivates a key without deleting its record.
func (s *ApiKeyService) Revoke(ctx context.Context, id string) error {
	if err := repo.DeactivateApiKey(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrApiKeyNotFound
		}
		return err
	}
	return nil
}

// Delete removes a key record entirely.
func (s *ApiKeyService) Delete(ctx context.Context, id string) error {
	if err := repo.DeleteApiKey(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrApiKeyNotFound
		}
		return err
	}
	return nil
}
