package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ozires/site24h-backend/internal/domain"
)

// GetSystemConfig returns the value for a settings key, or ErrNotFound.
func GetSystemConfig(ctx context.Context, db *gorm.DB, key string) (string, error) {
	var row domain.SystemConfig
	if err := db.WithContext(ctx).Where("key = ?", key).First(&row).Error; err != nil {
		return "", err
	}
	return row.Value, nil
}

// SetSystemConfig upserts one settings row.
func SetSystemConfig(ctx context.Context, db *gorm.DB, key, value string) error {
	row := domain.SystemConfig{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
}
