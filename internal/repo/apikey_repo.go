// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for machine API
// keys. Authentication intentionally scans every active, unexpired key and
// compares hashes one by one; there is no index lookup on the secret.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ozires/site24h-backend/internal/domain"
)

// CreateApiKey inserts a key row; KeyHash must already be a bcrypt hash.
func CreateApiKey(ctx context.Context, db *gorm.DB, k *domain.ApiKey) (*domain.ApiKey, error) {
	k.ID = uuid.NewString()
	k.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(k).Error; err != nil {
		return nil, err
	}
	return k, nil
}

// ListApiKeys returns every key row, newest first.
func ListApiKeys(ctx context.Context, db *gorm.DB) ([]domain.ApiKey, error) {
	var out []domain.ApiKey
	err := db.WithContext(ctx).Order("created_at desc").Find(&out).Error
	return out, err
}

// ListActiveApiKeys returns keys that are active and not expired at now.
func ListActiveApiKeys(ctx context.Context, db *gorm.DB, now time.Time) ([]domain.ApiKey, error) {
	var out []domain.ApiKey
	err := db.WithContext(ctx).
		Where("active = ?", true).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Find(&out).Error
	return out, err
}

// TouchApiKey stamps last_used_at after a successful match.
func TouchApiKey(ctx context.Context, db *gorm.DB, id string, now time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.ApiKey{}).
		Where("id = ?", id).
		Update("last_used_at", now).Error
}

// DeactivateApiKey revokes a key without deleting its audit trail.
func DeactivateApiKey(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Model(&domain.ApiKey{}).
		Where("id = ?", id).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteApiKey removes a key row.
func DeleteApiKey(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.ApiKey{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// NewApiKeyID returns a fresh key row ID. Exposed for services that build
// the row before hashing.
func NewApiKeyID() string { return uuid.NewString() }
