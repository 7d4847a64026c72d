package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ozires/site24h-backend/internal/ai"
	"github.com/ozires/site24h-backend/internal/jobs"
	"github.com/ozires/site24h-backend/internal/repo"
	"github.com/ozires/site24h-backend/internal/webhook"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("svc_test_%d.db", time.Now().UnixNano()))
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

// fakeQueue records enqueued jobs in memory.
type fakeQueue struct {
	enqueued []jobs.JobStatus
	err      error
}

func (f *fakeQueue) Enqueue(ctx context.Context, projectID, kind string) (jobs.JobStatus, error) {
	if f.err != nil {
		return jobs.JobStatus{}, f.err
	}
	j := jobs.JobStatus{ID: fmt.Sprintf("job-%d", len(f.enqueued)+1), ProjectID: projectID, Kind: kind, Status: jobs.StatusQueued}
	f.enqueued = append(f.enqueued, j)
	return j, nil
}

func (f *fakeQueue) GetJob(ctx context.Context, jobID string) (jobs.JobStatus, bool, error) {
	for _, j := range f.enqueued {
		if j.ID == jobID {
			return j, true, nil
		}
	}
	return jobs.JobStatus{}, false, nil
}

// fakeDispatcher returns a canned result or error.
type fakeDispatcher struct {
	configured bool
	res        *webhook.Result
	err        error
	calls      []webhook.Payload
}

func (f *fakeDispatcher) Configured() bool { return f.configured }

func (f *fakeDispatcher) Dispatch(ctx context.Context, p webhook.Payload) (*webhook.Result, error) {
	f.calls = append(f.calls, p)
	if f.err != nil {
		return nil, f.err
	}
	if f.res != nil {
		return f.res, nil
	}
	return &webhook.Result{}, nil
}

// fakeGenerator returns fixed text or an error.
type fakeGenerator struct {
	text string
	err  error
	seen []ai.Request
}

func (f *fakeGenerator) GenerateText(ctx context.Context, req ai.Request) (*ai.Result, error) {
	f.seen = append(f.seen, req)
	if f.err != nil {
		return nil, f.err
	}
	return &ai.Result{Text: f.text, PromptTokens: 10, CompletionTokens: 20}, nil
}

var errBoom = errors.New("boom")
