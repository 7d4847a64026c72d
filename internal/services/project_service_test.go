package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ozires/site24h-backend/internal/domain"
	"github.com/ozires/site24h-backend/internal/jobs"
	"github.com/ozires/site24h-backend/internal/repo"
	"github.com/ozires/site24h-backend/internal/webhook"
)

type pipelineEnv struct {
	svc     *ProjectService
	queue   *fakeQueue
	disp    *fakeDispatcher
	userID  string
	adminID string
}

func newPipelineEnv(t *testing.T) *pipelineEnv {
	t.Helper()
	db := newTestDB(t)
	ctx := context.Background()

	admin, err := repo.CreateUser(ctx, db, "admin@site24h.test", "hash", "Admin", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	user, err := repo.CreateUser(ctx, db, "client@site24h.test", "hash", "Client", domain.RoleUser)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	q := &fakeQueue{}
	d := &fakeDispatcher{configured: true, res: &webhook.Result{
		PreviewURL: "https://preview.example/p",
		PublishURL: "https://sites.example/p",
	}}
	svc := NewProjectService(db, q, d, NewNotificationService(db), time.Hour, "https://api.site24h.test/api/webhooks/generator")
	return &pipelineEnv{svc: svc, queue: q, disp: d, userID: user.ID, adminID: admin.ID}
}

func (e *pipelineEnv) submit(t *testing.T) *domain.Project {
	t.Helper()
	p, replayed, err := e.svc.SubmitBriefing(context.Background(), e.userID, BriefingInput{
		SiteName:     "Padaria Sol",
		BusinessType: "bakery",
		Description:  "Artisan bakery in Lisbon",
	}, "")
	if err != nil || replayed {
		t.Fatalf("SubmitBriefing = replayed=%v, err=%v", replayed, err)
	}
	return p
}

func TestSubmitBriefing_IdempotentReplay(t *testing.T) {
	e := newPipelineEnv(t)
	ctx := context.Background()

	in := BriefingInput{SiteName: "Padaria Sol"}
	first, replayed, err := e.svc.SubmitBriefing(ctx, e.userID, in, "idem-1")
	if err != nil || replayed {
		t.Fatalf("first submit: replayed=%v err=%v", replayed, err)
	}

	second, replayed, err := e.svc.SubmitBriefing(ctx, e.userID, in, "idem-1")
	if err != nil || !replayed {
		t.Fatalf("replay: replayed=%v err=%v", replayed, err)
	}
	if second.ID != first.ID {
		t.Fatalf("replay created a new project: %s vs %s", second.ID, first.ID)
	}

	// A fresh key creates a second project.
	third, _, err := e.svc.SubmitBriefing(ctx, e.userID, in, "idem-2")
	if err != nil || third.ID == first.ID {
		t.Fatalf("fresh key: %+v, %v", third, err)
	}
}

func TestSubmitBriefing_NotifiesAdminsAndStoresBriefing(t *testing.T) {
	e := newPipelineEnv(t)
	ctx := context.Background()
	p := e.submit(t)

	b, err := e.svc.Briefing(ctx, p.ID)
	if err != nil || b.SiteName != "Padaria Sol" {
		t.Fatalf("Briefing = %+v, %v", b, err)
	}

	n, _ := repo.CountNotifications(ctx, e.svc.DB, e.adminID, true)
	if n != 1 {
		t.Fatalf("admin notifications = %d, want 1", n)
	}
}

func TestUpdateBriefing_ReworksStoredBriefing(t *testing.T) {
	e := newPipelineEnv(t)
	ctx := context.Background()
	p := e.submit(t)

	updated, err := e.svc.UpdateBriefing(ctx, e.userID, p.ID, BriefingInput{
		SiteName:     "Padaria Sol e Mar",
		BusinessType: "bakery",
		Style:        "rustic",
	})
	if err != nil {
		t.Fatalf("UpdateBriefing: %v", err)
	}
	if updated.ID != p.ID {
		t.Fatalf("update returned a different project: %s", updated.ID)
	}

	b, err := e.svc.Briefing(ctx, p.ID)
	if err != nil || b.SiteName != "Padaria Sol e Mar" || b.Style != "rustic" {
		t.Fatalf("Briefing after update = %+v, %v", b, err)
	}

	if _, err := e.svc.UpdateBriefing(ctx, e.userID, p.ID, BriefingInput{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty siteName = %v, want ErrValidation", err)
	}
	// Only the owner can rework the briefing.
	if _, err := e.svc.UpdateBriefing(ctx, e.adminID, p.ID, BriefingInput{SiteName: "X"}); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("foreign update = %v, want ErrProjectNotFound", err)
	}
}

func TestGenerateCopy_QueuesInAnyStatus(t *testing.T) {
	e := newPipelineEnv(t)
	ctx := context.Background()
	p := e.submit(t)

	if err := e.svc.GenerateCopy(ctx, e.adminID, p.ID); err != nil {
		t.Fatalf("GenerateCopy: %v", err)
	}
	if err := e.svc.GenerateCopy(ctx, e.adminID, p.ID); err != nil {
		t.Fatalf("GenerateCopy again: %v", err)
	}
	if len(e.queue.enqueued) != 2 || e.queue.enqueued[1].Kind != jobs.KindCopy {
		t.Fatalf("enqueued = %+v", e.queue.enqueued)
	}

	logs, err := e.svc.Logs(ctx, p.ID, 1, 50)
	if err != nil {
		t.Fatalf("Logs: %v", err)
	}
	var queuedLogs int
	for _, l := range logs {
		if l.Action == "copy_generation_queued" {
			queuedLogs++
		}
	}
	if queuedLogs != 2 {
		t.Fatalf("copy_generation_queued logs = %d, want 2", queuedLogs)
	}
}

func TestApproveBriefing_GateAndEnqueue(t *testing.T) {
	e := newPipelineEnv(t)
	ctx := context.Background()
	p := e.submit(t)

	if err := e.svc.ApproveBriefing(ctx, e.adminID, p.ID); err != nil {
		t.Fatalf("ApproveBriefing: %v", err)
	}
	got, _ := e.svc.Get(ctx, p.ID)
	if got.Status != domain.StatusProcessing || got.AssignedAdminID == nil || *got.AssignedAdminID != e.adminID {
		t.Fatalf("after approve: %+v", got)
	}
	if len(e.queue.enqueued) != 1 || e.queue.enqueued[0].Kind != jobs.KindCopy {
		t.Fatalf("enqueued = %+v", e.queue.enqueued)
	}

	// Second approval hits the strict gate.
	if err := e.svc.ApproveBriefing(ctx, e.adminID, p.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("re-approve = %v, want ErrInvalidTransition", err)
	}
}

func TestCancel_OnlyWhilePending(t *testing.T) {
	e := newPipelineEnv(t)
	ctx := context.Background()
	p := e.submit(t)

	if err := e.svc.Cancel(ctx, e.userID, p.ID, "changed my mind"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	got, _ := e.svc.Get(ctx, p.ID)
	if got.Status != domain.StatusCancelled || got.CancelledAt == nil || got.CancelReason != "changed my mind" {
		t.Fatalf("after cancel: %+v", got)
	}
	if unread, _ := repo.CountNotifications(ctx, e.svc.DB, e.userID, true); unread == 0 {
		t.Fatal("owner not told about the cancellation")
	}

	p2 := e.submit(t)
	_ = e.svc.ApproveBriefing(ctx, e.adminID, p2.ID)
	if err := e.svc.Cancel(ctx, e.userID, p2.ID, "too late"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("cancel after pickup = %v", err)
	}
}

func TestClientApprove_DispatchesAndCompletes(t *testing.T) {
	e := newPipelineEnv(t)
	ctx := context.Background()
	p := e.submit(t)

	// Not in PREVIEW yet.
	if _, err := e.svc.ClientApprove(ctx, e.userID, p.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("approve from PENDING = %v", err)
	}

	if err := e.svc.SaveHTML(ctx, e.adminID, p.ID, "<html></html>"); err != nil {
		t.Fatalf("SaveHTML: %v", err)
	}
	if err := e.svc.SendPreview(ctx, e.adminID, p.ID, "https://preview.example/p"); err != nil {
		t.Fatalf("SendPreview: %v", err)
	}

	got, err := e.svc.ClientApprove(ctx, e.userID, p.ID)
	if err != nil {
		t.Fatalf("ClientApprove: %v", err)
	}
	if got.Status != domain.StatusCompleted {
		t.Fatalf("status = %s, want COMPLETED", got.Status)
	}
	if got.FinalURL != "https://sites.example/p" {
		t.Fatalf("final url = %q", got.FinalURL)
	}
	if len(e.disp.calls) != 1 || e.disp.calls[0].ProjectID != p.ID {
		t.Fatalf("dispatch calls = %+v", e.disp.calls)
	}
}

func TestClientApprove_DeliveryFailureKeepsApproved(t *testing.T) {
	e := newPipelineEnv(t)
	e.disp.err = webhook.ErrTimeout
	ctx := context.Background()
	p := e.submit(t)
	_ = e.svc.SaveHTML(ctx, e.adminID, p.ID, "<html></html>")
	_ = e.svc.SendPreview(ctx, e.adminID, p.ID, "")

	before, _ := repo.CountNotifications(ctx, e.svc.DB, e.userID, true)
	got, err := e.svc.ClientApprove(ctx, e.userID, p.ID)
	if err != nil {
		t.Fatalf("ClientApprove: %v", err)
	}
	if got.Status != domain.StatusApproved {
		t.Fatalf("status = %s, want APPROVED after failed delivery", got.Status)
	}
	after, _ := repo.CountNotifications(ctx, e.svc.DB, e.userID, true)
	if after <= before {
		t.Fatal("owner not told about the failed delivery")
	}
}

func TestSendPreview_RequiresGeneratedPage(t *testing.T) {
	e := newPipelineEnv(t)
	ctx := context.Background()
	p := e.submit(t)

	if err := e.svc.SendPreview(ctx, e.adminID, p.ID, "https://preview.example/p"); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("preview without html = %v, want ErrEmptyContent", err)
	}
	got, _ := e.svc.Get(ctx, p.ID)
	if got.Status != domain.StatusPending {
		t.Fatalf("status = %s, want PENDING untouched", got.Status)
	}
}

func TestRequestRevision_RequiresPreviewAndFeedback(t *testing.T) {
	e := newPipelineEnv(t)
	ctx := context.Background()
	p := e.submit(t)

	if err := e.svc.RequestRevision(ctx, e.userID, p.ID, "x"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("revision from PENDING = %v", err)
	}

	_ = e.svc.SaveHTML(ctx, e.adminID, p.ID, "<html></html>")
	_ = e.svc.SendPreview(ctx, e.adminID, p.ID, "")
	if err := e.svc.RequestRevision(ctx, e.userID, p.ID, "  "); err == nil {
		t.Fatal("blank feedback accepted")
	}
	before, _ := repo.CountNotifications(ctx, e.svc.DB, e.userID, true)
	if err := e.svc.RequestRevision(ctx, e.userID, p.ID, "darker colors"); err != nil {
		t.Fatalf("RequestRevision: %v", err)
	}
	got, _ := e.svc.Get(ctx, p.ID)
	if got.Status != domain.StatusRevision || got.HTMLFeedback != "darker colors" {
		t.Fatalf("after revision: %+v", got)
	}
	after, _ := repo.CountNotifications(ctx, e.svc.DB, e.userID, true)
	if after <= before {
		t.Fatal("owner not told the revision was queued")
	}
}

func TestAdminContentOps_AllowedInAnyStatus(t *testing.T) {
	e := newPipelineEnv(t)
	ctx := context.Background()
	p := e.submit(t)

	// Still PENDING; override operations work anyway.
	if err := e.svc.SaveCopy(ctx, e.adminID, p.ID, "Great headline"); err != nil {
		t.Fatalf("SaveCopy: %v", err)
	}
	if err := e.svc.SaveHTML(ctx, e.adminID, p.ID, "<html></html>"); err != nil {
		t.Fatalf("SaveHTML: %v", err)
	}
	if err := e.svc.RequestCopyRevision(ctx, e.adminID, p.ID, "more punch"); err != nil {
		t.Fatalf("RequestCopyRevision: %v", err)
	}
	if err := e.svc.RequestHTMLRevision(ctx, e.adminID, p.ID, "mobile first"); err != nil {
		t.Fatalf("RequestHTMLRevision: %v", err)
	}
	if len(e.queue.enqueued) != 2 {
		t.Fatalf("revision ops queued %d jobs, want 2", len(e.queue.enqueued))
	}

	if err := e.svc.SaveCopy(ctx, e.adminID, p.ID, "  "); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("blank copy = %v", err)
	}
}

func TestGenerateHTML_StrictGate(t *testing.T) {
	e := newPipelineEnv(t)
	ctx := context.Background()
	p := e.submit(t)

	if err := e.svc.GenerateHTML(ctx, e.adminID, p.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("html gen from PENDING = %v", err)
	}
	_ = e.svc.ApproveBriefing(ctx, e.adminID, p.ID)

	// In production but without copy there is nothing to build the page from.
	if err := e.svc.GenerateHTML(ctx, e.adminID, p.ID); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("html gen without copy = %v", err)
	}

	if err := e.svc.SaveCopy(ctx, e.adminID, p.ID, "Great headline"); err != nil {
		t.Fatalf("SaveCopy: %v", err)
	}
	// COPY_READY with copy present: generation may start.
	if err := e.svc.GenerateHTML(ctx, e.adminID, p.ID); err != nil {
		t.Fatalf("html gen from COPY_READY: %v", err)
	}
	last := e.queue.enqueued[len(e.queue.enqueued)-1]
	if last.Kind != jobs.KindHTML {
		t.Fatalf("enqueued kind = %s", last.Kind)
	}
}

func TestSetStatus_OnlySettableStates(t *testing.T) {
	e := newPipelineEnv(t)
	ctx := context.Background()
	p := e.submit(t)

	if err := e.svc.SetStatus(ctx, e.adminID, p.ID, domain.ProjectStatus("COPY_READY")); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("non-settable status = %v", err)
	}
	if err := e.svc.SetStatus(ctx, e.adminID, p.ID, domain.StatusPublished); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	got, _ := e.svc.Get(ctx, p.ID)
	if got.Status != domain.StatusPublished {
		t.Fatalf("status = %s", got.Status)
	}

	// Client got the canonical published notification.
	unread, _ := repo.CountNotifications(ctx, e.svc.DB, e.userID, true)
	if unread == 0 {
		t.Fatal("expected owner notification on forced status")
	}
}

func TestDispatch_StrictGateOnApproved(t *testing.T) {
	e := newPipelineEnv(t)
	ctx := context.Background()
	p := e.submit(t)

	if _, err := e.svc.DispatchToGenerator(ctx, p.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("dispatch from PENDING = %v", err)
	}
}

func TestHandleCallback_UpdatesURLsAndStatus(t *testing.T) {
	e := newPipelineEnv(t)
	ctx := context.Background()
	p := e.submit(t)

	if err := e.svc.HandleCallback(ctx, p.ID, "https://preview.example/x", "https://sites.example/x", domain.StatusPublished); err != nil {
		t.Fatalf("HandleCallback: %v", err)
	}
	got, _ := e.svc.Get(ctx, p.ID)
	if got.Status != domain.StatusPublished || got.PreviewURL == "" || got.FinalURL == "" {
		t.Fatalf("after callback: %+v", got)
	}

	if err := e.svc.HandleCallback(ctx, p.ID, "", "", domain.ProjectStatus("NONSENSE")); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("bad status = %v", err)
	}
}

func TestOwnership_ForeignProjectHidden(t *testing.T) {
	e := newPipelineEnv(t)
	ctx := context.Background()
	p := e.submit(t)

	other, _ := repo.CreateUser(ctx, e.svc.DB, "other@site24h.test", "hash", "Other", domain.RoleUser)
	if _, err := e.svc.GetForUser(ctx, p.ID, other.ID); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("foreign get = %v", err)
	}
	if err := e.svc.Cancel(ctx, other.ID, p.ID, "not mine"); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("foreign cancel = %v", err)
	}
}

func TestChat_OwnershipAndOrdering(t *testing.T) {
	e := newPipelineEnv(t)
	ctx := context.Background()
	p := e.submit(t)

	if _, err := e.svc.AddChatMessage(ctx, e.userID, false, p.ID, "hello"); err != nil {
		t.Fatalf("client message: %v", err)
	}
	if _, err := e.svc.AddChatMessage(ctx, e.adminID, true, p.ID, "hi there"); err != nil {
		t.Fatalf("admin message: %v", err)
	}

	msgs, total, err := e.svc.ChatPage(ctx, e.userID, false, p.ID, 1, 10)
	if err != nil || total != 2 || len(msgs) != 2 {
		t.Fatalf("ChatPage = %d/%d, %v", len(msgs), total, err)
	}
	if msgs[0].Content != "hello" {
		t.Fatalf("not chronological: %+v", msgs)
	}

	other, _ := repo.CreateUser(ctx, e.svc.DB, "other@site24h.test", "hash", "Other", domain.RoleUser)
	if _, _, err := e.svc.ChatPage(ctx, other.ID, false, p.ID, 1, 10); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("foreign chat = %v", err)
	}
}
