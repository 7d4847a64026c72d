package repo

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/ozires/site24h-backend/internal/domain"
)

func TestCreatePromptTemplate_DuplicateKeyRejectedByDB(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	_, err := CreatePromptTemplate(ctx, db, &domain.PromptTemplate{
		ID:      uuid.NewString(),
		Key:     "copy_generation",
		Name:    "Copy generation",
		Content: "Write copy for {{siteName}}",
	})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err = CreatePromptTemplate(ctx, db, &domain.PromptTemplate{
		ID:      uuid.NewString(),
		Key:     "copy_generation",
		Name:    "Shadow",
		Content: "other",
	})
	if err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate on same key, got %v", err)
	}
}

func TestUpdatePromptTemplate_KeyCollisionMapsToDuplicate(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	a, _ := CreatePromptTemplate(ctx, db, &domain.PromptTemplate{
		ID: uuid.NewString(), Key: "copy_generation", Name: "a", Content: "x",
	})
	b, _ := CreatePromptTemplate(ctx, db, &domain.PromptTemplate{
		ID: uuid.NewString(), Key: "html_generation", Name: "b", Content: "y",
	})

	if err := UpdatePromptTemplate(ctx, db, b.ID, map[string]any{"key": a.Key}); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate renaming onto taken key, got %v", err)
	}
	if err := UpdatePromptTemplate(ctx, db, "missing", map[string]any{"name": "z"}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetActivePromptByKey_SkipsInactive(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	tmpl, _ := CreatePromptTemplate(ctx, db, &domain.PromptTemplate{
		ID: uuid.NewString(), Key: "copy_generation", Name: "a", Content: "x", IsActive: true,
	})

	got, err := GetActivePromptByKey(ctx, db, "copy_generation")
	if err != nil || got.ID != tmpl.ID {
		t.Fatalf("GetActivePromptByKey = %+v, %v", got, err)
	}

	if err := UpdatePromptTemplate(ctx, db, tmpl.ID, map[string]any{"is_active": false}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := GetActivePromptByKey(ctx, db, "copy_generation"); err == nil {
		t.Fatal("expected miss for inactive template")
	}
}

func TestIncrementPromptUsage(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	tmpl, _ := CreatePromptTemplate(ctx, db, &domain.PromptTemplate{
		ID: uuid.NewString(), Key: "copy_generation", Name: "a", Content: "x",
	})

	for i := 0; i < 3; i++ {
		if err := IncrementPromptUsage(ctx, db, tmpl.ID); err != nil {
			t.Fatalf("IncrementPromptUsage: %v", err)
		}
	}

	got, _ := GetPromptTemplate(ctx, db, tmpl.ID)
	if got.UsageCount != 3 {
		t.Fatalf("usage_count = %d, want 3", got.UsageCount)
	}
}
