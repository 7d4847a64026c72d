// Client-facing project endpoints.
//
//   - POST   /projects                  (submit briefing, idempotent)
//   - GET    /projects                  (list own, paginated)
//   - GET    /projects/{id}            (detail)
//   - PUT    /projects/{id}            (briefing edit)
//   - GET    /projects/{id}/briefing   (stored briefing)
//   - POST   /projects/{id}/approve    (approve preview)
//   - POST   /projects/{id}/revision   (request changes on preview)
//   - POST   /projects/{id}/cancel     (cancel while pending)
//   - GET    /projects/{id}/chat       (chat history, paginated)
//   - POST   /projects/{id}/chat       (post a chat message)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ozires/site24h-backend/internal/domain"
	"github.com/ozires/site24h-backend/internal/http/middleware"
	"github.com/ozires/site24h-backend/internal/services"
)

// ListProjectsResponse wraps a page of projects.
type ListProjectsResponse struct {
	Projects   []domain.Project `json:"projects"`
	Pagination Pagination       `json:"pagination"`
}

// RevisionRequest carries the client's change request for a preview.
type RevisionRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// CancelRequest optionally records why the project was cancelled.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// ChatMessageRequest is the JSON payload for posting a chat message.
type ChatMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// ChatPageResponse wraps a page of chat messages in chronological order.
type ChatPageResponse struct {
	Messages   []domain.ChatMessage `json:"messages"`
	Pagination Pagination           `json:"pagination"`
}

// SubmitBriefing creates a project from a briefing. Retries carrying the same
// Idempotency-Key return the original project with 200 instead of creating a
// duplicate.
func (h *Handlers) SubmitBriefing(c *gin.Context) {
	var in services.BriefingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid briefing payload")
		return
	}

	idemKey, _ := middleware.GetIdempotencyKey(c)
	p, replayed, err := h.Projects.SubmitBriefing(c.Request.Context(), middleware.UserIDFrom(c), in, idemKey)
	if err != nil {
		failFromErr(c, err)
		return
	}
	status := http.StatusCreated
	if replayed {
		status = http.StatusOK
	}
	ok(c, status, p)
}

// UpdateBriefing reworks the briefing of a project the caller owns.
func (h *Handlers) UpdateBriefing(c *gin.Context) {
	var in services.BriefingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid briefing payload")
		return
	}
	p, err := h.Projects.UpdateBriefing(c.Request.Context(), middleware.UserIDFrom(c), c.Param("id"), in)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// ListProjects returns the caller's projects, optionally filtered by status.
func (h *Handlers) ListProjects(c *gin.Context) {
	page, pageSize := clampPagination(c)
	status := domain.ProjectStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown status filter")
		return
	}

	items, total, err := h.Projects.ListPage(c.Request.Context(), middleware.UserIDFrom(c), status, page, pageSize)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, ListProjectsResponse{
		Projects:   items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// GetProject returns one of the caller's projects.
func (h *Handlers) GetProject(c *gin.Context) {
	p, err := h.Projects.GetForUser(c.Request.Context(), c.Param("id"), middleware.UserIDFrom(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// GetBriefing returns the typed briefing of one of the caller's projects.
func (h *Handlers) GetBriefing(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.Projects.GetForUser(c.Request.Context(), id, middleware.UserIDFrom(c)); err != nil {
		failFromErr(c, err)
		return
	}
	b, err := h.Projects.Briefing(c.Request.Context(), id)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, b)
}

// ApprovePreview records the client's approval and hands the project to the
// site generator.
func (h *Handlers) ApprovePreview(c *gin.Context) {
	p, err := h.Projects.ClientApprove(c.Request.Context(), middleware.UserIDFrom(c), c.Param("id"))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// RequestRevision sends the preview back with the client's feedback.
func (h *Handlers) RequestRevision(c *gin.Context) {
	var req RevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "feedback is required")
		return
	}
	if err := h.Projects.RequestRevision(c.Request.Context(), middleware.UserIDFrom(c), c.Param("id"), req.Feedback); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}

// CancelProject cancels a project that has not entered production yet.
func (h *Handlers) CancelProject(c *gin.Context) {
	var req CancelRequest
	_ = c.ShouldBindJSON(&req) // body is optional
	if err := h.Projects.Cancel(c.Request.Context(), middleware.UserIDFrom(c), c.Param("id"), req.Reason); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}

// ProjectChat returns the chat history for a project the caller can access.
func (h *Handlers) ProjectChat(c *gin.Context) {
	page, pageSize := clampPagination(c)
	msgs, total, err := h.Projects.ChatPage(c.Request.Context(),
		middleware.UserIDFrom(c), middleware.IsAdmin(c), c.Param("id"), page, pageSize)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, ChatPageResponse{
		Messages:   msgs,
		Pagination: newPagination(page, pageSize, total),
	})
}

// PostChatMessage appends a message to the project chat.
func (h *Handlers) PostChatMessage(c *gin.Context) {
	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content is required")
		return
	}
	msg, err := h.Projects.AddChatMessage(c.Request.Context(),
		middleware.UserIDFrom(c), middleware.IsAdmin(c), c.Param("id"), req.Content)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusCreated, msg)
}
