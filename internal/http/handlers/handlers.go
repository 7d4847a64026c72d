package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ozires/site24h-backend/internal/services"
	"github.com/ozires/site24h-backend/internal/utils"
)

// Handlers groups the HTTP endpoints of the platform. Handlers stay
// transport-thin: they validate input, call the services, and translate
// results into HTTP responses.
type Handlers struct {
	Auth      *services.AuthService
	Users     *services.UserService
	Projects  *services.ProjectService
	Notifs    *services.NotificationService
	Tickets   *services.TicketService
	AiConfigs *services.AiConfigService
	Prompts   *services.PromptService
	ApiKeys   *services.ApiKeyService
	Uploads   *services.UploadService
	Reports   *services.ReportService
	Settings  *services.SettingsService
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	tp := utils.TotalPages(total, pageSize)
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: tp,
		HasNext:    page < tp,
	}
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
