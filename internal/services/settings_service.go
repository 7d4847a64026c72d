package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/ozires/site24h-backend/internal/repo"
)

// Platform settings keys. Only allowlisted keys can be written so the
// settings table does not become a dumping ground.
const (
	SettingWebhookURL     = "webhook_url"
	SettingSupportEmail   = "support_email"
	SettingMaintenanceMsg = "maintenance_message"
)

var settingKeys = map[string]struct{}{
	SettingWebhookURL:     {},
	SettingSupportEmail:   {},
	SettingMaintenanceMsg: {},
}

// ErrUnknownSetting is returned for keys outside the allowlist.
var ErrUnknownSetting = errors.New("unknown setting key")

// SettingsService reads and writes platform-wide key/value settings.
type SettingsService struct {
	DB *gorm.DB
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

// Get returns the value for key, or "" when unset.
func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	if _, ok := settingKeys[key]; !ok {
		return "", ErrUnknownSetting
	}
	v, err := repo.GetSystemConfig(ctx, s.DB, key)
	if errors.Is(err, repo.ErrNotFound) {
		return "", nil
	}
	return v, err
}

// Set upserts the value for an allowlisted key.
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	if _, ok := settingKeys[key]; !ok {
		return ErrUnknownSetting
	}
	return repo.SetSystemConfig(ctx, s.DB, key, strings.TrimSpace(value))
}

// All returns every allowlisted key with its current value; unset keys map
// to "".
func (s *SettingsService) All(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(settingKeys))
	for key := range settingKeys {
		v, err := s.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}
