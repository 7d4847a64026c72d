package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ozires/site24h-backend/internal/domain"
	"github.com/ozires/site24h-backend/internal/repo"
)

// Well-known prompt template keys used by the generation pipeline.
const (
	PromptKeyCopy = "copy_generation"
	PromptKeyHTML = "html_generation"
)

// Built-in prompts used when no active template exists for a key. They keep
// the pipeline functional on a fresh install before an admin customizes
// anything.
var defaultPrompts = map[string]string{
	PromptKeyCopy: "You are a senior conversion copywriter. Write complete landing page copy " +
		"(headline, subheadline, about section, services, call to action) for the site " +
		"{{siteName}}, a {{businessType}} business. Description: {{description}}. " +
		"Target audience: {{targetAudience}}. Main services: {{mainServices}}. " +
		"Write in the language of the briefing.",
	PromptKeyHTML: "You are a front-end developer. Produce a single self-contained HTML5 file " +
		"(inline CSS, no external assets) for a landing page named {{siteName}} in a " +
		"{{style}} style using the brand colors {{brandColors}}. Use exactly this copy:\n\n{{copy}}\n\n" +
		"Include the contact information: {{contactInfo}}. Return only the HTML.",
}

// PromptService manages prompt templates and renders them with briefing
// variables.
type PromptService struct {
	DB *gorm.DB
}

// NewPromptService constructs a PromptService.
func NewPromptService(db *gorm.DB) *PromptService {
	return &PromptService{DB: db}
}

// Create adds a template. Key collisions are reported as ErrPromptKeyTaken;
// uniqueness is enforced by the database index, not by a pre-read.
func (s *PromptService) Create(ctx context.Context, key, name, content string) (*domain.PromptTemplate, error) {
	key = strings.TrimSpace(key)
	name = strings.TrimSpace(name)
	if key == "" || name == "" || strings.TrimSpace(content) == "" {
		return nil, validationError("key, name, and content are required")
	}

	t, err := repo.CreatePromptTemplate(ctx, s.DB, &domain.PromptTemplate{
		ID:       uuid.NewString(),
		Key:      key,
		Name:     name,
		Content:  content,
		IsActive: true,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrPromptKeyTaken
		}
		return nil, err
	}
	return t, nil
}

// List returns every template.
func (s *PromptService) List(ctx context.Context) ([]domain.PromptTemplate, error) {
	return repo.ListPromptTemplates(ctx, s.DB)
}

// Get returns one template.
func (s *PromptService) Get(ctx context.Context, id string) (*domain.PromptTemplate, error) {
	t, err := repo.GetPromptTemplate(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPromptNotFound
		}
		return nil, err
	}
	return t, nil
}

// Update applies field changes to a template.
func (s *PromptService) Update(ctx context.Context, id string, fields map[string]any) error {
	if err := repo.UpdatePromptTemplate(ctx, s.DB, id, fields); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return ErrPromptNotFound
		case errors.Is(err, repo.ErrDuplicate):
			return ErrPromptKeyTaken
		}
		return err
	}
	return nil
}

// Delete removes a template. Generation falls back to the built-in prompt
// for that key.
func (s *PromptService) Delete(ctx context.Context, id string) error {
	if err := repo.DeletePromptTemplate(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrPromptNotFound
		}
		return err
	}
	return nil
}

// Resolve returns the rendered prompt for key plus the ID of the template
// that produced it, so usage rows can link back to the template. The active
// template wins (its usage counter is incremented); built-in defaults return
// a nil template ID.
func (s *PromptService) Resolve(ctx context.Context, key string, vars map[string]string) (string, *string, error) {
	if t, err := repo.GetActivePromptByKey(ctx, s.DB, key); err == nil {
		_ = repo.IncrementPromptUsage(ctx, s.DB, t.ID)
		return RenderPrompt(t.Content, vars), &t.ID, nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		return "", nil, err
	}

	def, ok := defaultPrompts[key]
	if !ok {
		return "", nil, ErrPromptNotFound
	}
	return RenderPrompt(def, vars), nil, nil
}

// RenderPrompt substitutes {{name}} placeholders. Unknown placeholders are
// replaced with an empty string so a stale template never leaks braces into
// an AI prompt.
func RenderPrompt(content string, vars map[string]string) string {
	var b strings.Builder
	for {
		start := strings.Index(content, "{{")
		if start < 0 {
			b.WriteString(content)
			break
		}
		end := strings.Index(content[start:], "}}")
		if end < 0 {
			b.WriteString(content)
			break
		}
		b.WriteString(content[:start])
		name := strings.TrimSpace(content[start+2 : start+end])
		b.WriteString(vars[name])
		content = content[start+end+2:]
	}
	return b.String()
}
