// Support ticket endpoints. Clients see their own tickets; admins see all of
// them through the same handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ozires/site24h-backend/internal/domain"
	"github.com/ozires/site24h-backend/internal/http/middleware"
)

// CreateTicketRequest opens a support ticket.
type CreateTicketRequest struct {
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// TicketReplyRequest appends a message to a ticket thread.
type TicketReplyRequest struct {
	Message string `json:"message" binding:"required"`
}

// ListTicketsResponse wraps a page of tickets.
type ListTicketsResponse struct {
	Tickets    []domain.Ticket `json:"tickets"`
	Pagination Pagination      `json:"pagination"`
}

// TicketDetailResponse returns a ticket together with its thread.
type TicketDetailResponse struct {
	Ticket   *domain.Ticket         `json:"ticket"`
	Messages []domain.TicketMessage `json:"messages"`
}

// CreateTicket opens a ticket and notifies the admins.
func (h *Handlers) CreateTicket(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "subject and message are required")
		return
	}
	tk, err := h.Tickets.Create(c.Request.Context(), middleware.UserIDFrom(c), req.Subject, req.Message)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusCreated, tk)
}

// ListTickets returns the caller's tickets, or all tickets for admins.
func (h *Handlers) ListTickets(c *gin.Context) {
	page, pageSize := clampPagination(c)

	userID := middleware.UserIDFrom(c)
	if middleware.IsAdmin(c) {
		userID = ""
	}
	items, total, err := h.Tickets.ListPage(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, ListTicketsResponse{
		Tickets:    items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// GetTicket returns a ticket and its full thread.
func (h *Handlers) GetTicket(c *gin.Context) {
	tk, msgs, err := h.Tickets.Get(c.Request.Context(), middleware.UserIDFrom(c), middleware.IsAdmin(c), c.Param("id"))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, TicketDetailResponse{Ticket: tk, Messages: msgs})
}

// ReplyTicket appends a reply. An admin reply moves an open ticket to
// IN_PROGRESS and notifies the opener.
func (h *Handlers) ReplyTicket(c *gin.Context) {
	var req TicketReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message is required")
		return
	}
	msg, err := h.Tickets.Reply(c.Request.Context(), middleware.UserIDFrom(c), middleware.IsAdmin(c), c.Param("id"), req.Message)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusCreated, msg)
}

// CloseTicket closes a ticket.
func (h *Handlers) CloseTicket(c *gin.Context) {
	if err := h.Tickets.Close(c.Request.Context(), middleware.UserIDFrom(c), middleware.IsAdmin(c), c.Param("id")); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}
