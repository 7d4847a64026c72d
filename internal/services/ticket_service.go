package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/ozires/site24h-backend/internal/domain"
	"github.com/ozires/site24h-backend/internal/repo"
)

// TicketService implements the support ticket subsystem.
type TicketService struct {
	DB       *gorm.DB
	Notifier *NotificationService
}

// NewTicketService constructs a TicketService.
func NewTicketService(db *gorm.DB, n *NotificationService) *TicketService {
	return &TicketService{DB: db, Notifier: n}
}

// Create opens a ticket with its first message.
func (s *TicketService) Create(ctx context.Context, userID, subject, message string) (*domain.Ticket, error) {
	subject = strings.TrimSpace(subject)
	message = strings.TrimSpace(message)
	if subject == "" || message == "" {
		return nil, validationError("subject and message are required")
	}

	t, err := repo.CreateTicket(ctx, s.DB, userID, subject)
	if err != nil {
		return nil, err
	}
	if _, err := repo.CreateTicketMessage(ctx, s.DB, t.ID, userID, message); err != nil {
		return nil, err
	}

	_ = s.Notifier.NotifyAdmins(ctx, nil, "TICKET_OPENED", "New support ticket", subject)
	return t, nil
}

// ListPage returns tickets for a user, or all tickets when userID is empty
// (admin view).
func (s *TicketService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Ticket, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	total, err := repo.CountTickets(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Ticket{}, 0, nil
	}

	items, err := repo.ListTicketsPage(ctx, s.DB, userID, (page-1)*pageSize, pageSize)
	return items, total, err
}

// Get returns a ticket with its thread. Non-admin callers must own it.
func (s *TicketService) Get(ctx context.Context, userID string, isAdmin bool, id string) (*domain.Ticket, []domain.TicketMessage, error) {
	t, err := repo.GetTicket(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrTicketNotFound
		}
		return nil, nil, err
	}
	if !isAdmin && t.UserID != userID {
		return nil, nil, ErrTicketNotFound
	}

	msgs, err := repo.ListTicketMessages(ctx, s.DB, id)
	if err != nil {
		return nil, nil, err
	}
	return t, msgs, nil
}

// Reply appends to a ticket thread. An admin reply moves an OPEN ticket to
// IN_PROGRESS and notifies the opener.
func (s *TicketService) Reply(ctx context.Context, userID string, isAdmin bool, id, message string) (*domain.TicketMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, validationError("message is required")
	}

	t, _, err := s.Get(ctx, userID, isAdmin, id)
	if err != nil {
		return nil, err
	}

	m, err := repo.CreateTicketMessage(ctx, s.DB, t.ID, userID, message)
	if err != nil {
		return nil, err
	}

	if isAdmin {
		if t.Status == domain.TicketOpen {
			_ = repo.UpdateTicketStatus(ctx, s.DB, t.ID, domain.TicketInProgress)
		}
		if t.UserID != userID {
			_ = s.Notifier.Notify(ctx, t.UserID, nil, "TICKET_REPLY", "Support replied", t.Subject)
		}
	}
	return m, nil
}

// Close marks a ticket CLOSED.
func (s *TicketService) Close(ctx context.Context, userID string, isAdmin bool, id string) error {
	t, _, err := s.Get(ctx, userID, isAdmin, id)
	if err != nil {
		return err
	}
	return repo.UpdateTicketStatus(ctx, s.DB, t.ID, domain.TicketClosed)
}
