package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ozires/site24h-backend/internal/storage"
)

// UploadService stores client media (logos, reference images) submitted as
// base64 data URLs.
type UploadService struct {
	Objects  storage.ObjectStore
	MaxBytes int64
}

// NewUploadService constructs an UploadService.
func NewUploadService(store storage.ObjectStore, maxBytes int64) *UploadService {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &UploadService{Objects: store, MaxBytes: maxBytes}
}

// StoredUpload describes a persisted object.
type StoredUpload struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Store validates a data URL and writes it under uploads/<user>/<uuid>.
// The returned URL is presigned for a week unless a public base is
// configured.
func (s *UploadService) Store(ctx context.Context, userID, dataURL string) (*StoredUpload, error) {
	up, err := storage.ParseDataURL(dataURL, s.MaxBytes)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("uploads/%s/%s.%s", userID, uuid.NewString(), up.Extension)
	if err := s.Objects.Put(ctx, key, bytes.NewReader(up.Data), int64(len(up.Data)), up.ContentType); err != nil {
		return nil, err
	}

	url := s.Objects.PublicURL(key)
	if url == "" {
		url, err = s.Objects.PresignGet(ctx, key, 7*24*time.Hour)
		if err != nil {
			return nil, err
		}
	}
	return &StoredUpload{Key: key, URL: url}, nil
}
