package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ozires/site24h-backend/internal/http/middleware"
	"github.com/ozires/site24h-backend/internal/jobs"
	"github.com/ozires/site24h-backend/internal/repo"
	"github.com/ozires/site24h-backend/internal/secrets"
	"github.com/ozires/site24h-backend/internal/services"
	"github.com/ozires/site24h-backend/internal/webhook"
)

func init() { gin.SetMode(gin.TestMode) }

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("handlers_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

type stubQueue struct {
	enqueued []jobs.JobStatus
	err      error
}

func (f *stubQueue) Enqueue(ctx context.Context, projectID, kind string) (jobs.JobStatus, error) {
	if f.err != nil {
		return jobs.JobStatus{}, f.err
	}
	j := jobs.JobStatus{
		ID:        fmt.Sprintf("job-%d", len(f.enqueued)+1),
		ProjectID: projectID,
		Kind:      kind,
		Status:    jobs.StatusQueued,
	}
	f.enqueued = append(f.enqueued, j)
	return j, nil
}

func (f *stubQueue) GetJob(ctx context.Context, jobID string) (jobs.JobStatus, bool, error) {
	for _, j := range f.enqueued {
		if j.ID == jobID {
			return j, true, nil
		}
	}
	return jobs.JobStatus{}, false, nil
}

type stubDispatcher struct {
	configured bool
	res        *webhook.Result
	err        error
	calls      []webhook.Payload
}

func (f *stubDispatcher) Configured() bool { return f.configured }

func (f *stubDispatcher) Dispatch(ctx context.Context, p webhook.Payload) (*webhook.Result, error) {
	f.calls = append(f.calls, p)
	if f.err != nil {
		return nil, f.err
	}
	if f.res != nil {
		return f.res, nil
	}
	return &webhook.Result{}, nil
}

type stubStore struct {
	objects map[string][]byte
	err     error
}

func (f *stubStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if f.err != nil {
		return f.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = data
	return nil
}

func (f *stubStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "http://store.test/presigned/" + key, nil
}

func (f *stubStore) Delete(ctx context.Context, key string) error { return nil }

func (f *stubStore) PublicURL(key string) string { return "" }

// handlerEnv wires a full engine with real services on sqlite and stub
// externals, plus seeded admin and client accounts.
type handlerEnv struct {
	db         *gorm.DB
	h          *Handlers
	r          *gin.Engine
	queue      *stubQueue
	dispatcher *stubDispatcher

	adminToken  string
	adminID     string
	clientToken string
	clientID    string
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()

	db := newHandlerDB(t)
	box, err := secrets.New("handler-test-secret")
	if err != nil {
		t.Fatalf("secrets: %v", err)
	}

	queue := &stubQueue{}
	dispatcher := &stubDispatcher{
		configured: true,
		res:        &webhook.Result{PreviewURL: "http://sites.test/p", PublishURL: "http://sites.test/f"},
	}

	auth := services.NewAuthService(db, "handler-jwt", time.Hour)
	notifs := services.NewNotificationService(db)
	h := &Handlers{
		Auth:      auth,
		Users:     services.NewUserService(db),
		Projects:  services.NewProjectService(db, queue, dispatcher, notifs, time.Hour, "http://api.test/callback"),
		Notifs:    notifs,
		Tickets:   services.NewTicketService(db, notifs),
		AiConfigs: services.NewAiConfigService(db, box),
		Prompts:   services.NewPromptService(db),
		ApiKeys:   services.NewApiKeyService(db),
		Uploads:   services.NewUploadService(&stubStore{}, 1<<20),
		Reports:   services.NewReportService(db),
		Settings:  services.NewSettingsService(db),
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)

	session := r.Group("", middleware.SessionAuth(auth), middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{},
		func(ctx context.Context, userID, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, repo.ScopeSubmitBriefing, key, now)
			return err == nil && rec != nil, nil
		},
	))
	{
		session.GET("/auth/me", h.Me)
		session.POST("/projects", h.SubmitBriefing)
		session.GET("/projects", h.ListProjects)
		session.GET("/projects/:id", h.GetProject)
		session.PUT("/projects/:id", h.UpdateBriefing)
		session.GET("/projects/:id/briefing", h.GetBriefing)
		session.POST("/projects/:id/approve", h.ApprovePreview)
		session.POST("/projects/:id/revision", h.RequestRevision)
		session.POST("/projects/:id/cancel", h.CancelProject)
		session.GET("/projects/:id/chat", h.ProjectChat)
		session.POST("/projects/:id/chat", h.PostChatMessage)
		session.GET("/notifications", h.ListNotifications)
		session.PUT("/notifications/:id/read", h.MarkNotificationRead)
		session.POST("/tickets", h.CreateTicket)
		session.GET("/tickets", h.ListTickets)
		session.GET("/tickets/:id", h.GetTicket)
		session.POST("/tickets/:id/reply", h.ReplyTicket)
		session.POST("/tickets/:id/close", h.CloseTicket)
		session.POST("/uploads", h.Upload)
	}

	admin := r.Group("/admin", middleware.SessionAuth(auth), middleware.RequireAdmin())
	{
		admin.GET("/projects", h.AdminListProjects)
		admin.GET("/projects/:id", h.AdminGetProject)
		admin.POST("/projects/:id/approve-briefing", h.ApproveBriefing)
		admin.PUT("/projects/:id/copy", h.SaveCopy)
		admin.POST("/projects/:id/copy/generate", h.GenerateCopy)
		admin.POST("/projects/:id/copy/revision", h.RequestCopyRevision)
		admin.POST("/projects/:id/html/generate", h.GenerateHTML)
		admin.PUT("/projects/:id/html", h.SaveHTML)
		admin.POST("/projects/:id/preview", h.SendPreview)
		admin.PUT("/projects/:id/status", h.SetProjectStatus)
		admin.POST("/projects/:id/dispatch", h.DispatchProject)
		admin.GET("/projects/:id/logs", h.ProjectLogs)
		admin.GET("/jobs/:jobID", h.JobStatus)
		admin.GET("/users", h.ListUsers)
		admin.PUT("/users/:id/role", h.UpdateUserRole)
		admin.POST("/ai-configs", h.CreateAiConfig)
		admin.GET("/ai-configs", h.ListAiConfigs)
		admin.POST("/api-keys", h.CreateApiKey)
		admin.GET("/reports/overview", h.ReportOverview)
		admin.GET("/settings", h.ListSettings)
		admin.PUT("/settings/:key", h.PutSetting)
	}

	callbacks := r.Group("/callbacks", middleware.ApiKeyAuth(h.ApiKeys))
	{
		callbacks.POST("/projects/:id", h.GeneratorCallback)
	}

	env := &handlerEnv{db: db, h: h, r: r, queue: queue, dispatcher: dispatcher}

	// First registration becomes the admin.
	admin1 := env.register(t, "admin@site24h.test", "Admin")
	env.adminToken, env.adminID = admin1.token, admin1.id
	client := env.register(t, "client@site24h.test", "Client")
	env.clientToken, env.clientID = client.token, client.id
	return env
}

type account struct {
	id    string
	token string
}

func (e *handlerEnv) register(t *testing.T, email, name string) account {
	t.Helper()

	w := e.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": email, "password": "supersecret", "name": name,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: %d %s", email, w.Code, w.Body.String())
	}
	var u struct {
		ID string `json:"id"`
	}
	decodeBody(t, w, &u)

	w = e.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"email": email, "password": "supersecret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, w.Code, w.Body.String())
	}
	var lr struct {
		Token string `json:"token"`
	}
	decodeBody(t, w, &lr)
	return account{id: u.ID, token: lr.Token}
}

// do performs a JSON request; token empty means unauthenticated.
func (e *handlerEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return e.doHeaders(t, method, path, token, body, nil)
}

func (e *handlerEnv) doHeaders(t *testing.T, method, path, token string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

// submitProject creates a project for the client and returns its ID.
func (e *handlerEnv) submitProject(t *testing.T) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/projects", e.clientToken, gin.H{
		"siteName":     "Padaria do João",
		"businessType": "bakery",
		"description":  "Artisan bread and pastries",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", w.Code, w.Body.String())
	}
	var p struct {
		ID string `json:"id"`
	}
	decodeBody(t, w, &p)
	return p.ID
}

func errCodeOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var e ErrorResponse
	decodeBody(t, w, &e)
	return e.Code
}
