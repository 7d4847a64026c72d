package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestApiKey_CreateAndVerify(t *testing.T) {
	db := newTestDB(t)
	svc := NewApiKeyService(db)
	ctx := context.Background()

	rec, plaintext, err := svc.Create(ctx, "n8n callback", []string{"projects:callback"}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(plaintext, "s24_") {
		t.Fatalf("plaintext = %q", plaintext)
	}
	if rec.KeyHash == plaintext {
		t.Fatal("hash equals plaintext")
	}
	if !strings.HasPrefix(plaintext, rec.Prefix) {
		t.Fatalf("prefix %q not a prefix of key", rec.Prefix)
	}

	got, err := svc.Verify(ctx, plaintext)
	if err != nil || got.ID != rec.ID {
		t.Fatalf("Verify = %+v, %v", got, err)
	}
}

func TestApiKey_VerifyRejections(t *testing.T) {
	db := newTestDB(t)
	svc := NewApiKeyService(db)
	ctx := context.Background()

	rec, plaintext, _ := svc.Create(ctx, "automation", nil, nil)

	if _, err := svc.Verify(ctx, "wrong-scheme-key"); !errors.Is(err, ErrApiKeyInvalid) {
		t.Fatalf("bad prefix = %v", err)
	}
	if _, err := svc.Verify(ctx, "s24_deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef"); !errors.Is(err, ErrApiKeyInvalid) {
		t.Fatalf("unknown key = %v", err)
	}

	if err := svc.Revoke(ctx, rec.ID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := svc.Verify(ctx, plaintext); !errors.Is(err, ErrApiKeyInvalid) {
		t.Fatalf("revoked key = %v", err)
	}
}

func TestApiKey_ExpiredKeyRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewApiKeyService(db)
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	_, plaintext, err := svc.Create(ctx, "expired", nil, &past)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Verify(ctx, plaintext); !errors.Is(err, ErrApiKeyInvalid) {
		t.Fatalf("expired key = %v", err)
	}
}
