package httpapi

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

	"github.com/ozires/site24h-backend/internal/config"
	"github.com/ozires/site24h-backend/internal/jobs"
	"github.com/ozires/site24h-backend/internal/repo"
	"github.com/ozires/site24h-backend/internal/secrets"
	"github.com/ozires/site24h-backend/internal/webhook"
)

func init() { gin.SetMode(gin.TestMode) }

type noopQueue struct{}

func (noopQueue) Enqueue(ctx context.Context, projectID, kind string) (jobs.JobStatus, error) {
	return jobs.JobStatus{ID: "job-1", ProjectID: projectID, Kind: kind, Status: jobs.StatusQueued}, nil
}

func (noopQueue) GetJob(ctx context.Context, jobID string) (jobs.JobStatus, bool, error) {
	return jobs.JobStatus{}, false, nil
}

type noopDispatcher struct{}

func (noopDispatcher) Configured() bool { return false }

func (noopDispatcher) Dispatch(ctx context.Context, p webhook.Payload) (*webhook.Result, error) {
	return &webhook.Result{}, nil
}

type noopStore struct{}

func (noopStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return nil
}

func (noopStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "http://store.test/" + key, nil
}

func (noopStore) Delete(ctx context.Context, key string) error { return nil }

func (noopStore) PublicURL(key string) string { return "" }

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("router_%d.db", time.Now().UnixNano()))
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

	box, err := secrets.New("router-test-secret")
	if err != nil {
		t.Fatalf("secrets: %v", err)
	}

	cfg := config.Config{
		APIBasePath:    "/api/v1",
		JWTSecret:      "router-jwt",
		SessionTTL:     time.Hour,
		IdempotencyTTL: time.Hour,
		MaxUploadBytes: 1 << 20,
		RateRPS:        100,
		RateBurst:      100,
	}

	r := gin.New()
	RegisterRoutes(r, db, Deps{
		Queue:      noopQueue{},
		Dispatcher: noopDispatcher{},
		Store:      noopStore{},
		Box:        box,
	}, cfg)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r := newTestEngine(t)

	w := doJSON(t, r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("no request id on response")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("security headers missing")
	}

	if w := doJSON(t, r, http.MethodGet, "/metrics", "", nil); w.Code != http.StatusOK {
		t.Fatalf("metrics: %d", w.Code)
	}
}

func TestRouter_Fallbacks(t *testing.T) {
	r := newTestEngine(t)

	w := doJSON(t, r, http.MethodGet, "/nope", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("no route: %d", w.Code)
	}
	var er struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil || er.Code != "not_found" {
		t.Fatalf("envelope = %s (%v)", w.Body.String(), err)
	}

	w = doJSON(t, r, http.MethodDelete, "/health", "", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("no method: %d", w.Code)
	}
}

func TestRouter_AuthFlowEndToEnd(t *testing.T) {
	r := newTestEngine(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": "founder@site24h.test", "password": "supersecret", "name": "Founder",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "founder@site24h.test", "password": "supersecret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	var lr struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &lr); err != nil || lr.Token == "" {
		t.Fatalf("login body = %s", w.Body.String())
	}

	if w := doJSON(t, r, http.MethodGet, "/api/v1/auth/me", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("me without token: %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/api/v1/auth/me", lr.Token, nil); w.Code != http.StatusOK {
		t.Fatalf("me: %d %s", w.Code, w.Body.String())
	}

	// The first account is the admin and can reach the admin surface.
	if w := doJSON(t, r, http.MethodGet, "/api/v1/admin/projects", lr.Token, nil); w.Code != http.StatusOK {
		t.Fatalf("admin list: %d %s", w.Code, w.Body.String())
	}
}

func TestRouter_IdempotentSubmitThroughFullStack(t *testing.T) {
	r := newTestEngine(t)

	doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": "c@site24h.test", "password": "supersecret", "name": "C",
	})
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "c@site24h.test", "password": "supersecret",
	})
	var lr struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &lr)

	submit := func() *httptest.ResponseRecorder {
		var buf bytes.Buffer
		_ = json.NewEncoder(&buf).Encode(gin.H{"siteName": "Oficina Central"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+lr.Token)
		req.Header.Set("Idempotency-Key", "stack-key-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := submit(); w.Code != http.StatusCreated {
		t.Fatalf("first submit: %d %s", w.Code, w.Body.String())
	}
	if w := submit(); w.Code != http.StatusOK {
		t.Fatalf("replay: %d %s", w.Code, w.Body.String())
	}
}
