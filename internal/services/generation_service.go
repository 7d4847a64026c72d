package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ozires/site24h-backend/internal/ai"
	"github.com/ozires/site24h-backend/internal/domain"
	"github.com/ozires/site24h-backend/internal/jobs"
	"github.com/ozires/site24h-backend/internal/repo"
)

// GenerationService is the worker-side handler for queued generation jobs.
// It resolves the prompt, calls the active AI provider, and advances the
// project. When no provider is configured, revision jobs fall back to the
// legacy heuristic editor so feedback is never silently dropped.
type GenerationService struct {
	DB        *gorm.DB
	AiConfigs *AiConfigService
	Prompts   *PromptService
	Notifier  *NotificationService

	// MaxAttempts mirrors the queue's retry limit so the final failure
	// can move the project back to PENDING and alert the admins.
	MaxAttempts int
}

// NewGenerationService constructs a GenerationService.
func NewGenerationService(db *gorm.DB, cfgs *AiConfigService, prompts *PromptService, notifier *NotificationService, maxAttempts int) *GenerationService {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &GenerationService{
		DB:          db,
		AiConfigs:   cfgs,
		Prompts:     prompts,
		Notifier:    notifier,
		MaxAttempts: maxAttempts,
	}
}

// Handle processes one job. Returning an error requeues the job until the
// retry limit; the final failure reverts the project and notifies.
func (s *GenerationService) Handle(ctx context.Context, job jobs.JobStatus) error {
	var err error
	switch job.Kind {
	case jobs.KindCopy:
		err = s.generateCopy(ctx, job.ProjectID)
	case jobs.KindHTML:
		err = s.generateHTML(ctx, job.ProjectID)
	default:
		// Unknown kinds are acked without retry.
		return nil
	}

	if err != nil && job.Attempts >= s.MaxAttempts {
		s.failProject(ctx, job.ProjectID, err)
	}
	return err
}

func (s *GenerationService) generateCopy(ctx context.Context, projectID string) error {
	p, err := repo.GetProject(ctx, s.DB, projectID)
	if err != nil {
		return err
	}
	if p.Status != domain.StatusProcessing && p.Status != domain.StatusCopyRevision {
		return nil // project moved on; stale job
	}

	b, err := repo.GetBriefing(ctx, s.DB, projectID)
	if err != nil {
		return err
	}

	vars := briefingVars(b)
	if p.CopyFeedback != "" {
		vars["feedback"] = p.CopyFeedback
	}

	prompt, tmplID, err := s.Prompts.Resolve(ctx, PromptKeyCopy, vars)
	if err != nil {
		return err
	}
	userPrompt := prompt
	if p.CopyFeedback != "" && p.Copy != "" {
		userPrompt = fmt.Sprintf("%s\n\nRevise this existing copy according to the feedback %q:\n\n%s",
			prompt, p.CopyFeedback, p.Copy)
	}

	text, err := s.callProvider(ctx, p, userPrompt, tmplID)
	if err != nil {
		if errors.Is(err, ErrNoActiveAiConfig) && p.Status == domain.StatusCopyRevision && p.Copy != "" {
			// Legacy mode: apply the feedback heuristically.
			text = ApplyHeuristicRevision(p.Copy, p.CopyFeedback)
		} else {
			return err
		}
	}

	if err := repo.UpdateProject(ctx, s.DB, p.ID, map[string]any{
		"status": domain.StatusCopyReady,
		"copy":   text,
	}); err != nil {
		return err
	}

	_, _ = repo.CreateProjectLog(ctx, s.DB, p.ID, "", "copy_generated", "copy generated", nil)
	_ = s.Notifier.Notify(ctx, p.UserID, &p.ID, domain.NotifCopyReady,
		"Copy ready", "The text for your landing page is ready.")
	return nil
}

func (s *GenerationService) generateHTML(ctx context.Context, projectID string) error {
	p, err := repo.GetProject(ctx, s.DB, projectID)
	if err != nil {
		return err
	}
	if !domain.CanGenerateHTML(p.Status) && p.Status != domain.StatusHTMLRevision {
		return nil // stale job
	}
	if strings.TrimSpace(p.Copy) == "" {
		return fmt.Errorf("html generation: %w", ErrEmptyContent)
	}

	b, err := repo.GetBriefing(ctx, s.DB, projectID)
	if err != nil {
		return err
	}

	vars := briefingVars(b)
	vars["copy"] = p.Copy
	if p.HTMLFeedback != "" {
		vars["feedback"] = p.HTMLFeedback
	}

	prompt, tmplID, err := s.Prompts.Resolve(ctx, PromptKeyHTML, vars)
	if err != nil {
		return err
	}
	userPrompt := prompt
	if p.HTMLFeedback != "" && p.HTMLContent != "" {
		userPrompt = fmt.Sprintf("%s\n\nRevise this existing page according to the feedback %q:\n\n%s",
			prompt, p.HTMLFeedback, p.HTMLContent)
	}

	text, err := s.callProvider(ctx, p, userPrompt, tmplID)
	if err != nil {
		if errors.Is(err, ErrNoActiveAiConfig) && p.Status == domain.StatusHTMLRevision && p.HTMLContent != "" {
			text = ApplyHeuristicRevision(p.HTMLContent, p.HTMLFeedback)
		} else {
			return err
		}
	}

	if err := repo.UpdateProject(ctx, s.DB, p.ID, map[string]any{
		"status":       domain.StatusPreview,
		"html_content": text,
	}); err != nil {
		return err
	}

	_, _ = repo.CreateProjectLog(ctx, s.DB, p.ID, "", "html_generated", "html generated", nil)
	_ = s.Notifier.Notify(ctx, p.UserID, &p.ID, domain.NotifPreviewReady,
		"Preview ready", "A preview of your landing page is ready for review.")
	if p.AssignedAdminID != nil && *p.AssignedAdminID != "" {
		_ = s.Notifier.Notify(ctx, *p.AssignedAdminID, &p.ID, domain.NotifPreviewReady,
			"Preview generated", "The generated page went out for client review.")
	}
	return nil
}

// callProvider runs one AI call against the active configuration, recording
// usage either way.
func (s *GenerationService) callProvider(ctx context.Context, p *domain.Project, userPrompt string, templateID *string) (string, error) {
	gen, cfg, err := s.AiConfigs.GeneratorForActive(ctx)
	if err != nil {
		return "", err
	}

	start := time.Now()
	res, err := gen.GenerateText(ctx, ai.Request{
		UserPrompt:  userPrompt,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	})
	_ = s.AiConfigs.LogUsage(ctx, cfg.ID, templateID, &p.ID, &p.UserID, res, time.Since(start), err)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// failProject reverts a project to PENDING after the last retry and alerts
// both sides.
func (s *GenerationService) failProject(ctx context.Context, projectID string, cause error) {
	p, err := repo.GetProject(ctx, s.DB, projectID)
	if err != nil {
		return
	}
	_ = repo.UpdateProjectStatus(ctx, s.DB, p.ID, domain.StatusPending)
	_, _ = repo.CreateProjectLog(ctx, s.DB, p.ID, "", "generation_failed", cause.Error(), nil)
	_ = s.Notifier.Notify(ctx, p.UserID, &p.ID, domain.NotifGenerationFailed,
		"Generation failed", "We hit a problem generating your page. The team has been notified.")
	_ = s.Notifier.NotifyAdmins(ctx, &p.ID, domain.NotifGenerationFailed,
		"Generation failed", "A generation job exhausted its retries: "+cause.Error())
}

func briefingVars(b *domain.Briefing) map[string]string {
	return map[string]string{
		"siteName":       b.SiteName,
		"businessType":   b.BusinessType,
		"description":    b.Description,
		"targetAudience": b.TargetAudience,
		"mainServices":   b.MainServices,
		"contactInfo":    b.ContactInfo,
		"brandColors":    b.BrandColors,
		"style":          b.Style,
	}
}
