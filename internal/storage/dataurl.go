package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Allowed upload MIME types and their file extensions.
var imageExtensions = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpg",
	"image/webp":    "webp",
	"image/svg+xml": "svg",
}

// Data URL validation errors.
var (
	ErrNotDataURL      = errors.New("storage: not a data URL")
	ErrUnsupportedType = errors.New("storage: unsupported media type")
	ErrTooLarge        = errors.New("storage: upload exceeds size limit")
)

// Upload is a decoded client upload.
type Upload struct {
	ContentType string
	Extension   string
	Data        []byte
}

// ParseDataURL decodes a base64 data URL ("data:image/png;base64,....") and
// enforces the MIME allowlist and the size limit. The size check runs on the
// encoded length first so oversized payloads are rejected before decoding.
func ParseDataURL(raw string, maxBytes int64) (*Upload, error) {
	rest, ok := strings.CutPrefix(raw, "data:")
	if !ok {
		return nil, ErrNotDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, ErrNotDataURL
	}
	contentType, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" {
		return nil, ErrNotDataURL
	}

	ext, allowed := imageExtensions[contentType]
	if !allowed {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	// Base64 expands by 4/3, so decoded size is bounded by 3/4 of the
	// payload length.
	if int64(len(payload))/4*3 > maxBytes {
		return nil, ErrTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: bad base64", ErrNotDataURL)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrTooLarge
	}

	return &Upload{ContentType: contentType, Extension: ext, Data: data}, nil
}
