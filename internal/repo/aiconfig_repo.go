// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for AI provider
// configurations and the append-only usage log.
//
// The single-active invariant for AiConfig is enforced here inside one
// transaction (deactivate-all, then activate), never by read-then-write at
// the call site, so two concurrent activations cannot leave two rows active.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ozires/site24h-backend/internal/domain"
)

// CreateAiConfig inserts a provider credential set. The key must already be
// sealed by the secrets package.
func CreateAiConfig(ctx context.Context, db *gorm.DB, cfg *domain.AiConfig) (*domain.AiConfig, error) {
	cfg.ID = uuid.NewString()
	cfg.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(cfg).Error; err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetAiConfig fetches one config by ID, or ErrNotFound.
func GetAiConfig(ctx context.Context, db *gorm.DB, id string) (*domain.AiConfig, error) {
	var c domain.AiConfig
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// GetActiveAiConfig returns the single active config, or ErrNotFound when
// none is activated.
func GetActiveAiConfig(ctx context.Context, db *gorm.DB) (*domain.AiConfig, error) {
	var c domain.AiConfig
	if err := db.WithContext(ctx).Where("is_active = ?", true).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListAiConfigs returns every config, newest first.
func ListAiConfigs(ctx context.Context, db *gorm.DB) ([]domain.AiConfig, error) {
	var out []domain.AiConfig
	err := db.WithContext(ctx).Order("created_at desc").Find(&out).Error
	return out, err
}

// ActivateAiConfig makes exactly one config active. The deactivate and
// activate writes run in a single transaction.
func ActivateAiConfig(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.AiConfig{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		res := tx.Model(&domain.AiConfig{}).
			Where("id = ?", id).
			Update("is_active", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// UpdateAiConfig applies a column map to one config.
func UpdateAiConfig(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.AiConfig{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAiConfig removes one config. The caller is responsible for the
// usage-history guard.
func DeleteAiConfig(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.AiConfig{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateAiUsageLog appends one usage row; success and failure are both
// recorded.
func CreateAiUsageLog(ctx context.Context, db *gorm.DB, l *domain.AiUsageLog) error {
	l.ID = uuid.NewString()
	l.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(l).Error
}

// CountAiUsageForConfig counts usage rows referencing one config. A nonzero
// count blocks config deletion.
func CountAiUsageForConfig(ctx context.Context, db *gorm.DB, configID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.AiUsageLog{}).
		Where("config_id = ?", configID).
		Count(&total).Error
	return total, err
}

// ListAiUsagePage returns usage rows, newest first.
func ListAiUsagePage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.AiUsageLog, error) {
	var out []domain.AiUsageLog
	err := db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountAiUsage returns the total number of usage rows.
func CountAiUsage(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.AiUsageLog{}).Count(&total).Error
	return total, err
}
