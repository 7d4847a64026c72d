package storage

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func dataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func TestParseDataURL_Success(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	up, err := ParseDataURL(dataURL("image/png", raw), 1024)
	if err != nil {
		t.Fatalf("ParseDataURL: %v", err)
	}
	if up.ContentType != "image/png" || up.Extension != "png" {
		t.Fatalf("upload = %+v", up)
	}
	if string(up.Data) != string(raw) {
		t.Fatal("payload mismatch")
	}
}

func TestParseDataURL_Rejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"plain url", "https://example.com/logo.png", ErrNotDataURL},
		{"no comma", "data:image/png;base64", ErrNotDataURL},
		{"not base64 encoding", "data:image/png;charset=utf8,abc", ErrNotDataURL},
		{"disallowed type", dataURL("application/pdf", []byte("x")), ErrUnsupportedType},
		{"bad payload", "data:image/png;base64,!!!", ErrNotDataURL},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseDataURL(tc.raw, 1024); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParseDataURL_SizeLimit(t *testing.T) {
	big := strings.Repeat("a", 2048)
	if _, err := ParseDataURL(dataURL("image/jpeg", []byte(big)), 1024); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("got %v, want ErrTooLarge", err)
	}
	if _, err := ParseDataURL(dataURL("image/jpeg", []byte(big)), 4096); err != nil {
		t.Fatalf("under limit rejected: %v", err)
	}
}
