package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/ozires/site24h-backend/internal/domain"
	"github.com/ozires/site24h-backend/internal/repo"
)

// Overview is the admin dashboard aggregate.
type Overview struct {
	Users          int64                          `json:"users"`
	Projects       int64                          `json:"projects"`
	ProjectsByStat map[domain.ProjectStatus]int64 `json:"projects_by_status"`
	Tickets        int64                          `json:"tickets"`
	AiCalls        int64                          `json:"ai_calls"`
}

// ReportService aggregates platform metrics for the admin dashboard.
type ReportService struct {
	DB *gorm.DB
}

// NewReportService constructs a ReportService.
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

// Overview collects the dashboard counters in one call.
func (s *ReportService) Overview(ctx context.Context) (*Overview, error) {
	users, err := repo.CountUsers(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	projects, err := repo.CountProjects(ctx, s.DB, "")
	if err != nil {
		return nil, err
	}
	byStatus, err := repo.ProjectStatusCounts(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	tickets, err := repo.CountTickets(ctx, s.DB, "")
	if err != nil {
		return nil, err
	}
	aiCalls, err := repo.CountAiUsage(ctx, s.DB)
	if err != nil {
		return nil, err
	}

	return &Overview{
		Users:          users,
		Projects:       projects,
		ProjectsByStat: byStatus,
		Tickets:        tickets,
		AiCalls:        aiCalls,
	}, nil
}

// UsagePage returns a page of AI usage records, newest first.
func (s *ReportService) UsagePage(ctx context.Context, page, pageSize int) ([]domain.AiUsageLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}

	total, err := repo.CountAiUsage(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.AiUsageLog{}, 0, nil
	}

	items, err := repo.ListAiUsagePage(ctx, s.DB, (page-1)*pageSize, pageSize)
	return items, total, err
}
