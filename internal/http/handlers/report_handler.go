// Reporting endpoints (admin only).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ozires/site24h-backend/internal/domain"
)

// UsageResponse wraps a page of AI usage log entries.
type UsageResponse struct {
	Usage      []domain.AiUsageLog `json:"usage"`
	Pagination Pagination          `json:"pagination"`
}

// ReportOverview returns the dashboard aggregates.
func (h *Handlers) ReportOverview(c *gin.Context) {
	ov, err := h.Reports.Overview(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, ov)
}

// ReportUsage returns AI usage history, newest first.
func (h *Handlers) ReportUsage(c *gin.Context) {
	page, pageSize := clampPagination(c)
	items, total, err := h.Reports.UsagePage(c.Request.Context(), page, pageSize)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, UsageResponse{
		Usage:      items,
		Pagination: newPagination(page, pageSize, total),
	})
}
