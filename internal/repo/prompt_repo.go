// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for prompt
// templates. Key uniqueness is guaranteed by the database unique index;
// CreatePromptTemplate maps the violation to ErrDuplicate instead of
// checking first and racing.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ozires/site24h-backend/internal/domain"
)

// CreatePromptTemplate inserts a template, returning ErrDuplicate when the
// key is already taken.
func CreatePromptTemplate(ctx context.Context, db *gorm.DB, t *domain.PromptTemplate) (*domain.PromptTemplate, error) {
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return t, nil
}

// GetPromptTemplate fetches a template by ID, or ErrNotFound.
func GetPromptTemplate(ctx context.Context, db *gorm.DB, id string) (*domain.PromptTemplate, error) {
	var t domain.PromptTemplate
	if err := db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// GetActivePromptByKey fetches the active template for a key, or ErrNotFound.
func GetActivePromptByKey(ctx context.Context, db *gorm.DB, key string) (*domain.PromptTemplate, error) {
	var t domain.PromptTemplate
	err := db.WithContext(ctx).
		Where("key = ? AND is_active = ?", key, true).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListPromptTemplates returns every template ordered by key.
func ListPromptTemplates(ctx context.Context, db *gorm.DB) ([]domain.PromptTemplate, error) {
	var out []domain.PromptTemplate
	err := db.WithContext(ctx).Order("key asc").Find(&out).Error
	return out, err
}

// UpdatePromptTemplate applies a column map to one template. Key changes
// hitting an existing key return ErrDuplicate.
func UpdatePromptTemplate(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.PromptTemplate{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return ErrDuplicate
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePromptTemplate removes one template.
func DeletePromptTemplate(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.PromptTemplate{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementPromptUsage bumps the usage counter after a successful render.
func IncrementPromptUsage(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).
		Model(&domain.PromptTemplate{}).
		Where("id = ?", id).
		Update("usage_count", gorm.Expr("usage_count + 1")).Error
}
