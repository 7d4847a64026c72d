// Admin project pipeline endpoints. All routes here sit behind the admin
// gate and operate on any project regardless of owner.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ozires/site24h-backend/internal/domain"
	"github.com/ozires/site24h-backend/internal/http/middleware"
)

// ContentRequest carries copy or HTML content saved by an admin.
type ContentRequest struct {
	Content string `json:"content"`
}

// FeedbackRequest carries revision feedback for the generation worker.
type FeedbackRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// PreviewRequest carries the preview URL sent to the client.
type PreviewRequest struct {
	PreviewURL string `json:"preview_url" binding:"required,url"`
}

// SetStatusRequest forces a project into one of the admin-settable states.
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AssignRequest assigns a project to an admin.
type AssignRequest struct {
	AdminID string `json:"admin_id" binding:"required"`
}

// AdminListProjects returns projects across all users, optionally filtered
// by status.
func (h *Handlers) AdminListProjects(c *gin.Context) {
	page, pageSize := clampPagination(c)
	status := domain.ProjectStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown status filter")
		return
	}

	items, total, err := h.Projects.ListPage(c.Request.Context(), "", status, page, pageSize)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, ListProjectsResponse{
		Projects:   items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// AdminGetProject returns any project by ID.
func (h *Handlers) AdminGetProject(c *gin.Context) {
	p, err := h.Projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// ApproveBriefing accepts a pending briefing and schedules copy generation.
func (h *Handlers) ApproveBriefing(c *gin.Context) {
	if err := h.Projects.ApproveBriefing(c.Request.Context(), middleware.UserIDFrom(c), c.Param("id")); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}

// SaveCopy stores admin-edited copy on the project.
func (h *Handlers) SaveCopy(c *gin.Context) {
	var req ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid payload")
		return
	}
	if err := h.Projects.SaveCopy(c.Request.Context(), middleware.UserIDFrom(c), c.Param("id"), req.Content); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}

// RequestCopyRevision queues a copy regeneration with admin feedback.
func (h *Handlers) RequestCopyRevision(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "feedback is required")
		return
	}
	if err := h.Projects.RequestCopyRevision(c.Request.Context(), middleware.UserIDFrom(c), c.Param("id"), req.Feedback); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}

// GenerateCopy schedules a fresh copy generation run.
func (h *Handlers) GenerateCopy(c *gin.Context) {
	if err := h.Projects.GenerateCopy(c.Request.Context(), middleware.UserIDFrom(c), c.Param("id")); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}

// GenerateHTML schedules HTML generation for a project in production.
func (h *Handlers) GenerateHTML(c *gin.Context) {
	if err := h.Projects.GenerateHTML(c.Request.Context(), middleware.UserIDFrom(c), c.Param("id")); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}

// SaveHTML stores admin-edited HTML on the project.
func (h *Handlers) SaveHTML(c *gin.Context) {
	var req ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid payload")
		return
	}
	if err := h.Projects.SaveHTML(c.Request.Context(), middleware.UserIDFrom(c), c.Param("id"), req.Content); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}

// RequestHTMLRevision queues an HTML regeneration with admin feedback.
func (h *Handlers) RequestHTMLRevision(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "feedback is required")
		return
	}
	if err := h.Projects.RequestHTMLRevision(c.Request.Context(), middleware.UserIDFrom(c), c.Param("id"), req.Feedback); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}

// SendPreview publishes the preview URL to the client for sign-off.
func (h *Handlers) SendPreview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "preview_url is required")
		return
	}
	if err := h.Projects.SendPreview(c.Request.Context(), middleware.UserIDFrom(c), c.Param("id"), req.PreviewURL); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}

// SetProjectStatus forces a project into an admin-settable state.
func (h *Handlers) SetProjectStatus(c *gin.Context) {
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status is required")
		return
	}
	if err := h.Projects.SetStatus(c.Request.Context(), middleware.UserIDFrom(c), c.Param("id"), domain.ProjectStatus(req.Status)); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}

// AssignProject assigns a project to an admin.
func (h *Handlers) AssignProject(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "admin_id is required")
		return
	}
	if err := h.Projects.AssignAdmin(c.Request.Context(), c.Param("id"), req.AdminID); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}

// DispatchProject pushes an approved project to the site generator.
func (h *Handlers) DispatchProject(c *gin.Context) {
	p, err := h.Projects.DispatchToGenerator(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// ProjectLogs returns the audit trail of a project, newest first.
func (h *Handlers) ProjectLogs(c *gin.Context) {
	page, pageSize := clampPagination(c)
	logs, err := h.Projects.Logs(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"logs": logs})
}

// JobStatus reports the state of a generation job.
func (h *Handlers) JobStatus(c *gin.Context) {
	st, found, err := h.Projects.JobStatus(c.Request.Context(), c.Param("jobID"))
	if err != nil {
		failFromErr(c, err)
		return
	}
	if !found {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "job not found")
		return
	}
	ok(c, http.StatusOK, st)
}
