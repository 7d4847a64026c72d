package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ozires/site24h-backend/internal/domain"
	"github.com/ozires/site24h-backend/internal/jobs"
	"github.com/ozires/site24h-backend/internal/repo"
	"github.com/ozires/site24h-backend/internal/webhook"
)

// GenerationQueue is the subset of the job queue the pipeline needs.
type GenerationQueue interface {
	Enqueue(ctx context.Context, projectID, kind string) (jobs.JobStatus, error)
	GetJob(ctx context.Context, jobID string) (jobs.JobStatus, bool, error)
}

// SiteDispatcher forwards approved projects to the external site generator.
type SiteDispatcher interface {
	Configured() bool
	Dispatch(ctx context.Context, p webhook.Payload) (*webhook.Result, error)
}

// BriefingInput is a client's landing page briefing.
type BriefingInput struct {
	SiteName       string `json:"siteName"`
	BusinessType   string `json:"businessType"`
	Description    string `json:"description"`
	TargetAudience string `json:"targetAudience"`
	MainServices   string `json:"mainServices"`
	ContactInfo    string `json:"contactInfo"`
	BrandColors    string `json:"brandColors"`
	Style          string `json:"style"`
	LogoURL        string `json:"logoUrl,omitempty"`
}

// ProjectService implements the project pipeline: briefing intake, the
// status state machine, generation scheduling, and delivery.
type ProjectService struct {
	DB             *gorm.DB
	Queue          GenerationQueue
	Dispatcher     SiteDispatcher
	Notifier       *NotificationService
	IdempotencyTTL time.Duration
	CallbackURL    string
}

// NewProjectService constructs a ProjectService.
func NewProjectService(db *gorm.DB, q GenerationQueue, d SiteDispatcher, n *NotificationService, idemTTL time.Duration, callbackURL string) *ProjectService {
	if idemTTL <= 0 {
		idemTTL = 24 * time.Hour
	}
	return &ProjectService{
		DB:             db,
		Queue:          q,
		Dispatcher:     d,
		Notifier:       n,
		IdempotencyTTL: idemTTL,
		CallbackURL:    callbackURL,
	}
}

// SubmitBriefing creates a project in PENDING from a briefing. When idemKey
// is non-empty the submission is replay-safe: a repeated key returns the
// original project with replayed=true instead of creating a duplicate.
func (s *ProjectService) SubmitBriefing(ctx context.Context, userID string, in BriefingInput, idemKey string) (*domain.Project, bool, error) {
	if strings.TrimSpace(in.SiteName) == "" {
		return nil, false, validationError("siteName is required")
	}

	if idemKey != "" {
		if rec, err := repo.GetIdempotency(ctx, s.DB, userID, repo.ScopeSubmitBriefing, idemKey, time.Now().UTC()); err == nil {
			p, err := repo.GetProjectForUser(ctx, s.DB, rec.ProjectID, userID)
			if err != nil {
				return nil, false, err
			}
			return p, true, nil
		} else if !errors.Is(err, repo.ErrNotFound) {
			return nil, false, err
		}
	}

	data, err := json.Marshal(in)
	if err != nil {
		return nil, false, err
	}

	p, err := repo.CreateProject(ctx, s.DB, userID, datatypes.JSON(data))
	if err != nil {
		return nil, false, err
	}
	if _, err := repo.UpsertBriefing(ctx, s.DB, &domain.Briefing{
		ProjectID:      p.ID,
		SiteName:       strings.TrimSpace(in.SiteName),
		BusinessType:   strings.TrimSpace(in.BusinessType),
		Description:    strings.TrimSpace(in.Description),
		TargetAudience: strings.TrimSpace(in.TargetAudience),
		MainServices:   strings.TrimSpace(in.MainServices),
		ContactInfo:    strings.TrimSpace(in.ContactInfo),
		BrandColors:    strings.TrimSpace(in.BrandColors),
		Style:          strings.TrimSpace(in.Style),
	}); err != nil {
		return nil, false, err
	}

	if idemKey != "" {
		if _, err := repo.CreateIdempotency(ctx, s.DB, userID, repo.ScopeSubmitBriefing, idemKey, p.ID, 201, s.IdempotencyTTL); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return nil, false, ErrDuplicateSubmission
			}
			return nil, false, err
		}
	}

	s.log(ctx, p.ID, userID, "briefing_submitted", "briefing submitted: "+in.SiteName, nil)
	_ = s.Notifier.NotifyAdmins(ctx, &p.ID, domain.NotifBriefingSubmitted,
		"New briefing", "A new briefing was submitted: "+in.SiteName)

	return p, false, nil
}

// GetForUser returns a project owned by userID.
func (s *ProjectService) GetForUser(ctx context.Context, id, userID string) (*domain.Project, error) {
	p, err := repo.GetProjectForUser(ctx, s.DB, id, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

// Get returns any project (admin view).
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	p, err := repo.GetProject(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListPage returns a page of projects. userID empty lists all (admin view);
// status empty skips the status filter.
func (s *ProjectService) ListPage(ctx context.Context, userID string, status domain.ProjectStatus, page, pageSize int) ([]domain.Project, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	total, err := repo.CountProjects(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Project{}, 0, nil
	}

	items, err := repo.ListProjectsPage(ctx, s.DB, userID, status, (page-1)*pageSize, pageSize)
	return items, total, err
}

// Briefing returns the typed briefing for a project.
func (s *ProjectService) Briefing(ctx context.Context, projectID string) (*domain.Briefing, error) {
	b, err := repo.GetBriefing(ctx, s.DB, projectID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return b, nil
}

// UpdateBriefing lets the owner rework the briefing of an existing project.
// The typed row is upserted and the raw submission JSON refreshed.
func (s *ProjectService) UpdateBriefing(ctx context.Context, userID, projectID string, in BriefingInput) (*domain.Project, error) {
	if strings.TrimSpace(in.SiteName) == "" {
		return nil, validationError("siteName is required")
	}
	p, err := s.GetForUser(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	if err := repo.UpdateProject(ctx, s.DB, p.ID, map[string]any{"data": datatypes.JSON(data)}); err != nil {
		return nil, err
	}
	if _, err := repo.UpsertBriefing(ctx, s.DB, &domain.Briefing{
		ProjectID:      p.ID,
		SiteName:       strings.TrimSpace(in.SiteName),
		BusinessType:   strings.TrimSpace(in.BusinessType),
		Description:    strings.TrimSpace(in.Description),
		TargetAudience: strings.TrimSpace(in.TargetAudience),
		MainServices:   strings.TrimSpace(in.MainServices),
		ContactInfo:    strings.TrimSpace(in.ContactInfo),
		BrandColors:    strings.TrimSpace(in.BrandColors),
		Style:          strings.TrimSpace(in.Style),
	}); err != nil {
		return nil, err
	}

	s.log(ctx, p.ID, userID, "briefing_updated", "briefing updated by the client", nil)
	return s.GetForUser(ctx, projectID, userID)
}

// Cancel lets the owner cancel a project the pipeline has not picked up.
func (s *ProjectService) Cancel(ctx context.Context, userID, projectID, reason string) error {
	p, err := s.GetForUser(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !domain.CanCancel(p.Status) {
		return ErrInvalidTransition
	}

	now := time.Now().UTC()
	if err := repo.UpdateProject(ctx, s.DB, p.ID, map[string]any{
		"status":        domain.StatusCancelled,
		"cancelled_at":  &now,
		"cancel_reason": strings.TrimSpace(reason),
	}); err != nil {
		return err
	}

	s.log(ctx, p.ID, userID, "cancelled", "project cancelled by client", nil)
	_ = s.Notifier.Notify(ctx, p.UserID, &p.ID, domain.NotifProjectCancelled,
		"Project cancelled", "Your project has been cancelled.")
	_ = s.Notifier.NotifyAdmins(ctx, &p.ID, domain.NotifProjectCancelled,
		"Project cancelled", "The client cancelled a pending project.")
	return nil
}

// ClientApprove records the client's approval of the preview and forwards
// the project to the site generator. Delivery failure leaves the project in
// APPROVED and raises a notification; approval itself is never rolled back.
func (s *ProjectService) ClientApprove(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	p, err := s.GetForUser(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !domain.CanClientApprove(p.Status) {
		return nil, ErrInvalidTransition
	}

	if err := repo.UpdateProjectStatus(ctx, s.DB, p.ID, domain.StatusApproved); err != nil {
		return nil, err
	}
	p.Status = domain.StatusApproved

	s.log(ctx, p.ID, userID, "client_approved", "client approved the preview", nil)
	_ = s.Notifier.NotifyStatus(ctx, userID, p.ID, domain.StatusApproved)

	if s.Dispatcher != nil && s.Dispatcher.Configured() {
		if updated, err := s.DispatchToGenerator(ctx, p.ID); err == nil {
			return updated, nil
		}
		// Failure already notified; approval stands.
	}
	return p, nil
}

// RequestRevision lets the owner send the preview back with feedback.
func (s *ProjectService) RequestRevision(ctx context.Context, userID, projectID, feedback string) error {
	p, err := s.GetForUser(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !domain.CanClientApprove(p.Status) {
		return ErrInvalidTransition
	}
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return validationError("feedback is required")
	}

	if err := repo.UpdateProject(ctx, s.DB, p.ID, map[string]any{
		"status":        domain.StatusRevision,
		"html_feedback": feedback,
	}); err != nil {
		return err
	}

	s.log(ctx, p.ID, userID, "revision_requested", "client requested changes", nil)
	_ = s.Notifier.Notify(ctx, p.UserID, &p.ID, domain.NotifRevisionRequested,
		"Revision requested", "Your change request was sent to the team.")
	_ = s.Notifier.NotifyAdmins(ctx, &p.ID, domain.NotifRevisionRequested,
		"Revision requested", "The client requested changes to a preview.")
	return nil
}

// ApproveBriefing moves a fresh submission into production: the project is
// assigned to the approving admin and a copy generation job is queued.
func (s *ProjectService) ApproveBriefing(ctx context.Context, adminID, projectID string) error {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return err
	}
	if !domain.CanApproveBriefing(p.Status) {
		return ErrInvalidTransition
	}

	if err := repo.UpdateProject(ctx, s.DB, p.ID, map[string]any{
		"status":            domain.StatusProcessing,
		"assigned_admin_id": &adminID,
	}); err != nil {
		return err
	}

	if _, err := s.Queue.Enqueue(ctx, p.ID, jobs.KindCopy); err != nil {
		return err
	}

	s.log(ctx, p.ID, adminID, "briefing_approved", "briefing approved, copy generation queued", nil)
	_ = s.Notifier.Notify(ctx, p.UserID, &p.ID, domain.NotifBriefingApproved,
		"Briefing approved", "Your briefing was approved and production started.")
	return nil
}

// SaveCopy stores admin-edited copy and marks it ready for client review.
// Admin override: allowed in any status.
func (s *ProjectService) SaveCopy(ctx context.Context, adminID, projectID, copyText string) error {
	if strings.TrimSpace(copyText) == "" {
		return ErrEmptyContent
	}
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return err
	}

	if err := repo.UpdateProject(ctx, s.DB, p.ID, map[string]any{
		"status": domain.StatusCopyReady,
		"copy":   copyText,
	}); err != nil {
		return err
	}

	s.log(ctx, p.ID, adminID, "copy_saved", "copy saved by admin", nil)
	_ = s.Notifier.Notify(ctx, p.UserID, &p.ID, domain.NotifCopyReady,
		"Copy ready", "The text for your landing page is ready.")
	return nil
}

// RequestCopyRevision records feedback on the copy and queues a regenerate.
// Admin override: allowed in any status.
func (s *ProjectService) RequestCopyRevision(ctx context.Context, adminID, projectID, feedback string) error {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return err
	}

	if err := repo.UpdateProject(ctx, s.DB, p.ID, map[string]any{
		"status":        domain.StatusCopyRevision,
		"copy_feedback": strings.TrimSpace(feedback),
	}); err != nil {
		return err
	}
	if _, err := s.Queue.Enqueue(ctx, p.ID, jobs.KindCopy); err != nil {
		return err
	}

	s.log(ctx, p.ID, adminID, "copy_revision", "copy revision queued", nil)
	_ = s.Notifier.Notify(ctx, p.UserID, &p.ID, domain.NotifCopyRevision,
		"Copy in revision", "The text of your page is being revised.")
	return nil
}

// GenerateCopy queues a fresh copy generation run. Admin override: allowed
// in any status; the worker moves the project to COPY_READY on success.
func (s *ProjectService) GenerateCopy(ctx context.Context, adminID, projectID string) error {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return err
	}
	if _, err := s.Queue.Enqueue(ctx, p.ID, jobs.KindCopy); err != nil {
		return err
	}
	s.log(ctx, p.ID, adminID, "copy_generation_queued", "copy generation queued", nil)
	return nil
}

// GenerateHTML queues HTML generation. Strict gate: the project must be in
// production or past the copy stage, and the copy must be non-empty.
func (s *ProjectService) GenerateHTML(ctx context.Context, adminID, projectID string) error {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return err
	}
	if !domain.CanGenerateHTML(p.Status) {
		return ErrInvalidTransition
	}
	if strings.TrimSpace(p.Copy) == "" {
		return ErrEmptyContent
	}
	if _, err := s.Queue.Enqueue(ctx, p.ID, jobs.KindHTML); err != nil {
		return err
	}
	s.log(ctx, p.ID, adminID, "html_generation_queued", "html generation queued", nil)
	return nil
}

// SaveHTML stores admin-edited HTML and marks it ready. Admin override:
// allowed in any status.
func (s *ProjectService) SaveHTML(ctx context.Context, adminID, projectID, html string) error {
	if strings.TrimSpace(html) == "" {
		return ErrEmptyContent
	}
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return err
	}

	if err := repo.UpdateProject(ctx, s.DB, p.ID, map[string]any{
		"status":       domain.StatusHTMLReady,
		"html_content": html,
	}); err != nil {
		return err
	}

	s.log(ctx, p.ID, adminID, "html_saved", "html saved by admin", nil)
	_ = s.Notifier.Notify(ctx, p.UserID, &p.ID, domain.NotifHTMLReady,
		"Page ready", "The HTML of your landing page is ready.")
	return nil
}

// RequestHTMLRevision records feedback on the HTML and queues a regenerate.
// Admin override: allowed in any status.
func (s *ProjectService) RequestHTMLRevision(ctx context.Context, adminID, projectID, feedback string) error {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return err
	}

	if err := repo.UpdateProject(ctx, s.DB, p.ID, map[string]any{
		"status":        domain.StatusHTMLRevision,
		"html_feedback": strings.TrimSpace(feedback),
	}); err != nil {
		return err
	}
	if _, err := s.Queue.Enqueue(ctx, p.ID, jobs.KindHTML); err != nil {
		return err
	}

	s.log(ctx, p.ID, adminID, "html_revision", "html revision queued", nil)
	_ = s.Notifier.Notify(ctx, p.UserID, &p.ID, domain.NotifHTMLRevision,
		"Page in revision", "The HTML of your page is being revised.")
	return nil
}

// SendPreview publishes a preview URL to the client and moves the project
// into client review. There must be a generated page to show.
func (s *ProjectService) SendPreview(ctx context.Context, adminID, projectID, previewURL string) error {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(p.HTMLContent) == "" {
		return ErrEmptyContent
	}
	fields := map[string]any{"status": domain.StatusPreview}
	if u := strings.TrimSpace(previewURL); u != "" {
		fields["preview_url"] = u
	}
	if err := repo.UpdateProject(ctx, s.DB, p.ID, fields); err != nil {
		return err
	}

	s.log(ctx, p.ID, adminID, "preview_sent", "preview sent to client", nil)
	_ = s.Notifier.NotifyStatus(ctx, p.UserID, p.ID, domain.StatusPreview)
	return nil
}

// SetStatus is the admin-override status endpoint. Only a curated subset of
// states may be forced; the client is notified with the canonical message.
func (s *ProjectService) SetStatus(ctx context.Context, adminID, projectID string, status domain.ProjectStatus) error {
	if !status.AdminSettable() {
		return ErrInvalidStatus
	}
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return err
	}

	if err := repo.UpdateProjectStatus(ctx, s.DB, p.ID, status); err != nil {
		return err
	}

	meta, _ := json.Marshal(map[string]string{"from": string(p.Status), "to": string(status)})
	s.log(ctx, p.ID, adminID, "status_forced", "status set by admin", datatypes.JSON(meta))
	_ = s.Notifier.NotifyStatus(ctx, p.UserID, p.ID, status)
	return nil
}

// AssignAdmin sets the responsible admin for a project.
func (s *ProjectService) AssignAdmin(ctx context.Context, projectID, adminID string) error {
	if err := repo.UpdateProject(ctx, s.DB, projectID, map[string]any{
		"assigned_admin_id": &adminID,
	}); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	return nil
}

// DispatchToGenerator forwards an approved project to the site generator.
// On success the project is COMPLETED and carries the returned URLs. On
// failure the status is untouched and the owner plus admins are notified.
func (s *ProjectService) DispatchToGenerator(ctx context.Context, projectID string) (*domain.Project, error) {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !domain.CanDispatchWebhook(p.Status) {
		return nil, ErrInvalidTransition
	}

	payload := webhook.Payload{
		ProjectID:   p.ID,
		HTMLContent: p.HTMLContent,
		Copy:        p.Copy,
		Briefing:    json.RawMessage(p.Data),
		CallbackURL: s.CallbackURL,
	}
	if b, err := repo.GetBriefing(ctx, s.DB, p.ID); err == nil {
		payload.SiteName = b.SiteName
	}

	res, err := s.Dispatcher.Dispatch(ctx, payload)
	if err != nil {
		typ := domain.NotifWebhookFailed
		title := "Delivery failed"
		if errors.Is(err, webhook.ErrTimeout) {
			typ = domain.NotifWebhookTimeout
			title = "Delivery timed out"
		}
		_ = s.Notifier.Notify(ctx, p.UserID, &p.ID, typ, title,
			"We could not deliver your site for publication. The team has been notified.")
		_ = s.Notifier.NotifyAdmins(ctx, &p.ID, typ, title,
			"Forwarding the project to the site generator failed: "+err.Error())
		s.log(ctx, p.ID, "", "dispatch_failed", err.Error(), nil)
		return nil, err
	}

	fields := map[string]any{"status": domain.StatusCompleted}
	if res.PreviewURL != "" {
		fields["preview_url"] = res.PreviewURL
	}
	if res.PublishURL != "" {
		fields["final_url"] = res.PublishURL
	}
	if err := repo.UpdateProject(ctx, s.DB, p.ID, fields); err != nil {
		return nil, err
	}
	p.Status = domain.StatusCompleted
	if res.PreviewURL != "" {
		p.PreviewURL = res.PreviewURL
	}
	if res.PublishURL != "" {
		p.FinalURL = res.PublishURL
	}

	s.log(ctx, p.ID, "", "dispatched", "project sent to site generator", nil)
	_ = s.Notifier.NotifyStatus(ctx, p.UserID, p.ID, domain.StatusCompleted)
	return p, nil
}

// HandleCallback processes the generator's asynchronous callback. URLs are
// stored when present; a supplied status must be a known state. The owner is
// notified with the canonical message for the new status.
func (s *ProjectService) HandleCallback(ctx context.Context, projectID, previewURL, publishURL string, status domain.ProjectStatus) error {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return err
	}

	fields := map[string]any{}
	if u := strings.TrimSpace(previewURL); u != "" {
		fields["preview_url"] = u
	}
	if u := strings.TrimSpace(publishURL); u != "" {
		fields["final_url"] = u
	}
	if status != "" {
		if !status.Valid() {
			return ErrInvalidStatus
		}
		fields["status"] = status
	}
	if len(fields) == 0 {
		return nil
	}

	if err := repo.UpdateProject(ctx, s.DB, p.ID, fields); err != nil {
		return err
	}

	s.log(ctx, p.ID, "", "generator_callback", "callback from site generator", nil)
	if status != "" {
		_ = s.Notifier.NotifyStatus(ctx, p.UserID, p.ID, status)
	}
	return nil
}

// Logs returns a page of a project's audit trail.
func (s *ProjectService) Logs(ctx context.Context, projectID string, page, pageSize int) ([]domain.ProjectLog, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	return repo.ListProjectLogs(ctx, s.DB, projectID, (page-1)*pageSize, pageSize)
}

// AddChatMessage appends a message to a project's thread. Non-admin callers
// must own the project.
func (s *ProjectService) AddChatMessage(ctx context.Context, userID string, isAdmin bool, projectID, content string) (*domain.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if err := s.authorize(ctx, userID, isAdmin, projectID); err != nil {
		return nil, err
	}
	return repo.CreateChatMessage(ctx, s.DB, projectID, userID, content)
}

// ChatPage returns a page of a project's thread in chronological order.
func (s *ProjectService) ChatPage(ctx context.Context, userID string, isAdmin bool, projectID string, page, pageSize int) ([]domain.ChatMessage, int64, error) {
	if err := s.authorize(ctx, userID, isAdmin, projectID); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}

	total, err := repo.CountChatMessages(ctx, s.DB, projectID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.ChatMessage{}, 0, nil
	}
	items, err := repo.ListChatMessagesPage(ctx, s.DB, projectID, (page-1)*pageSize, pageSize)
	return items, total, err
}

// JobStatus exposes the state of a generation job for polling.
func (s *ProjectService) JobStatus(ctx context.Context, jobID string) (jobs.JobStatus, bool, error) {
	return s.Queue.GetJob(ctx, jobID)
}

func (s *ProjectService) authorize(ctx context.Context, userID string, isAdmin bool, projectID string) error {
	if isAdmin {
		_, err := s.Get(ctx, projectID)
		return err
	}
	_, err := s.GetForUser(ctx, projectID, userID)
	return err
}

func (s *ProjectService) log(ctx context.Context, projectID, userID, action, description string, meta datatypes.JSON) {
	_, _ = repo.CreateProjectLog(ctx, s.DB, projectID, userID, action, description, meta)
}
