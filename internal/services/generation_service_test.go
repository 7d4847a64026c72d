package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ozires/site24h-backend/internal/ai"
	"github.com/ozires/site24h-backend/internal/domain"
	"github.com/ozires/site24h-backend/internal/jobs"
	"github.com/ozires/site24h-backend/internal/repo"
	"github.com/ozires/site24h-backend/internal/secrets"
)

type genEnv struct {
	svc    *GenerationService
	cfgs   *AiConfigService
	gen    *fakeGenerator
	userID string
}

func newGenEnv(t *testing.T, withConfig bool) *genEnv {
	t.Helper()
	db := newTestDB(t)
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, db, "client@site24h.test", "hash", "Client", domain.RoleUser)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	box, err := secrets.New("test-secret")
	if err != nil {
		t.Fatalf("secrets: %v", err)
	}

	gen := &fakeGenerator{text: "generated output"}
	cfgs := NewAiConfigService(db, box)
	cfgs.Factory = func(baseURL, apiKey, model string) ai.TextGenerator { return gen }

	if withConfig {
		if _, err := cfgs.Create(ctx, CreateAiConfigInput{
			Provider: "groq", APIKey: "gsk_test", Model: "llama-3.3-70b-versatile", Activate: true,
		}); err != nil {
			t.Fatalf("seed ai config: %v", err)
		}
	}

	notifier := NewNotificationService(db)
	svc := NewGenerationService(db, cfgs, NewPromptService(db), notifier, 3)
	return &genEnv{svc: svc, cfgs: cfgs, gen: gen, userID: user.ID}
}

func (e *genEnv) seedProject(t *testing.T, status domain.ProjectStatus) *domain.Project {
	t.Helper()
	ctx := context.Background()
	p, err := repo.CreateProject(ctx, e.svc.DB, e.userID, nil)
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	if _, err := repo.UpsertBriefing(ctx, e.svc.DB, &domain.Briefing{
		ProjectID: p.ID, SiteName: "Padaria Sol", BusinessType: "bakery",
	}); err != nil {
		t.Fatalf("seed briefing: %v", err)
	}
	if err := repo.UpdateProjectStatus(ctx, e.svc.DB, p.ID, status); err != nil {
		t.Fatalf("set status: %v", err)
	}
	p.Status = status
	return p
}

func TestHandle_CopyGenerationAdvancesProject(t *testing.T) {
	e := newGenEnv(t, true)
	ctx := context.Background()
	p := e.seedProject(t, domain.StatusProcessing)

	err := e.svc.Handle(ctx, jobs.JobStatus{ID: "j1", ProjectID: p.ID, Kind: jobs.KindCopy, Attempts: 1})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	got, _ := repo.GetProject(ctx, e.svc.DB, p.ID)
	if got.Status != domain.StatusCopyReady || got.Copy != "generated output" {
		t.Fatalf("after copy job: %+v", got)
	}
	if len(e.gen.seen) != 1 {
		t.Fatalf("generator calls = %d", len(e.gen.seen))
	}

	// Usage was logged.
	n, _ := repo.CountAiUsage(ctx, e.svc.DB)
	if n != 1 {
		t.Fatalf("usage logs = %d", n)
	}
}

func TestHandle_HTMLGenerationUsesCopy(t *testing.T) {
	e := newGenEnv(t, true)
	ctx := context.Background()
	p := e.seedProject(t, domain.StatusCopyReady)
	_ = repo.UpdateProject(ctx, e.svc.DB, p.ID, map[string]any{"copy": "Approved copy"})

	admin, err := repo.CreateUser(ctx, e.svc.DB, "admin@site24h.test", "hash", "Admin", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	_ = repo.UpdateProject(ctx, e.svc.DB, p.ID, map[string]any{"assigned_admin_id": admin.ID})

	if err := e.svc.Handle(ctx, jobs.JobStatus{ID: "j1", ProjectID: p.ID, Kind: jobs.KindHTML, Attempts: 1}); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	// The generated page goes straight out for client review.
	got, _ := repo.GetProject(ctx, e.svc.DB, p.ID)
	if got.Status != domain.StatusPreview || got.HTMLContent != "generated output" {
		t.Fatalf("after html job: %+v", got)
	}
	if unread, _ := repo.CountNotifications(ctx, e.svc.DB, e.userID, true); unread == 0 {
		t.Fatal("owner not told the preview is ready")
	}
	if unread, _ := repo.CountNotifications(ctx, e.svc.DB, admin.ID, true); unread == 0 {
		t.Fatal("assigned admin not told the preview went out")
	}
}

func TestHandle_HTMLGenerationNeedsCopy(t *testing.T) {
	e := newGenEnv(t, true)
	ctx := context.Background()
	p := e.seedProject(t, domain.StatusProcessing)

	err := e.svc.Handle(ctx, jobs.JobStatus{ID: "j1", ProjectID: p.ID, Kind: jobs.KindHTML, Attempts: 1})
	if !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("html job without copy = %v", err)
	}

	got, _ := repo.GetProject(ctx, e.svc.DB, p.ID)
	if got.Status != domain.StatusProcessing || got.HTMLContent != "" {
		t.Fatalf("copyless job touched project: %+v", got)
	}
	if len(e.gen.seen) != 0 {
		t.Fatal("generator called without copy")
	}
}

func TestHandle_UsageLinksActiveTemplate(t *testing.T) {
	e := newGenEnv(t, true)
	ctx := context.Background()

	tmpl, err := NewPromptService(e.svc.DB).Create(ctx, PromptKeyCopy, "Custom", "Copy for {{siteName}}")
	if err != nil {
		t.Fatalf("Create template: %v", err)
	}

	p := e.seedProject(t, domain.StatusProcessing)
	if err := e.svc.Handle(ctx, jobs.JobStatus{ID: "j1", ProjectID: p.ID, Kind: jobs.KindCopy, Attempts: 1}); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	var usage domain.AiUsageLog
	if err := e.svc.DB.WithContext(ctx).First(&usage).Error; err != nil {
		t.Fatalf("load usage: %v", err)
	}
	if usage.TemplateID == nil || *usage.TemplateID != tmpl.ID {
		t.Fatalf("usage template id = %v, want %s", usage.TemplateID, tmpl.ID)
	}
}

func TestHandle_StaleJobIsNoop(t *testing.T) {
	e := newGenEnv(t, true)
	ctx := context.Background()
	p := e.seedProject(t, domain.StatusPreview)

	if err := e.svc.Handle(ctx, jobs.JobStatus{ID: "j1", ProjectID: p.ID, Kind: jobs.KindCopy, Attempts: 1}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	got, _ := repo.GetProject(ctx, e.svc.DB, p.ID)
	if got.Status != domain.StatusPreview || got.Copy != "" {
		t.Fatalf("stale job touched project: %+v", got)
	}
	if len(e.gen.seen) != 0 {
		t.Fatal("generator called for stale job")
	}
}

func TestHandle_HeuristicFallbackWithoutProvider(t *testing.T) {
	e := newGenEnv(t, false)
	ctx := context.Background()
	p := e.seedProject(t, domain.StatusCopyRevision)
	_ = repo.UpdateProject(ctx, e.svc.DB, p.ID, map[string]any{
		"copy":          "Original copy.",
		"copy_feedback": "mais detalhes",
	})

	if err := e.svc.Handle(ctx, jobs.JobStatus{ID: "j1", ProjectID: p.ID, Kind: jobs.KindCopy, Attempts: 1}); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	got, _ := repo.GetProject(ctx, e.svc.DB, p.ID)
	if got.Status != domain.StatusCopyReady {
		t.Fatalf("status = %s", got.Status)
	}
	if got.Copy == "Original copy." || got.Copy == "" {
		t.Fatalf("heuristic revision not applied: %q", got.Copy)
	}
}

func TestHandle_NoProviderFreshGenerationFails(t *testing.T) {
	e := newGenEnv(t, false)
	ctx := context.Background()
	p := e.seedProject(t, domain.StatusProcessing)

	if err := e.svc.Handle(ctx, jobs.JobStatus{ID: "j1", ProjectID: p.ID, Kind: jobs.KindCopy, Attempts: 1}); err == nil {
		t.Fatal("expected error without provider")
	}
	got, _ := repo.GetProject(ctx, e.svc.DB, p.ID)
	if got.Status != domain.StatusProcessing {
		t.Fatalf("mid-retry status = %s", got.Status)
	}
}

func TestHandle_FinalFailureRevertsToPending(t *testing.T) {
	e := newGenEnv(t, true)
	e.gen.err = errBoom
	ctx := context.Background()
	p := e.seedProject(t, domain.StatusProcessing)

	if err := e.svc.Handle(ctx, jobs.JobStatus{ID: "j1", ProjectID: p.ID, Kind: jobs.KindCopy, Attempts: 3}); err == nil {
		t.Fatal("expected error")
	}

	got, _ := repo.GetProject(ctx, e.svc.DB, p.ID)
	if got.Status != domain.StatusPending {
		t.Fatalf("status = %s, want PENDING after final failure", got.Status)
	}
	unread, _ := repo.CountNotifications(ctx, e.svc.DB, e.userID, true)
	if unread == 0 {
		t.Fatal("owner not notified of failure")
	}
}
