// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the support
// ticket subsystem, which lives outside the project pipeline.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ozires/site24h-backend/internal/domain"
)

// CreateTicket opens a new ticket in OPEN.
func CreateTicket(ctx context.Context, db *gorm.DB, userID, subject string) (*domain.Ticket, error) {
	t := &domain.Ticket{
		ID:        uuid.NewString(),
		UserID:    userID,
		Subject:   subject,
		Status:    domain.TicketOpen,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// GetTicket fetches a ticket by ID, or ErrNotFound.
func GetTicket(ctx context.Context, db *gorm.DB, id string) (*domain.Ticket, error) {
	var t domain.Ticket
	if err := db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// CountTickets counts tickets for userID; empty userID counts all.
func CountTickets(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	q := db.WithContext(ctx).Model(&domain.Ticket{})
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var total int64
	err := q.Count(&total).Error
	return total, err
}

// ListTicketsPage returns a page of tickets, newest first. userID empty
// lists across all users (admin view).
func ListTicketsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Ticket, error) {
	q := db.WithContext(ctx).Model(&domain.Ticket{})
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var out []domain.Ticket
	err := q.Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateTicketStatus moves a ticket between OPEN, IN_PROGRESS, and CLOSED.
func UpdateTicketStatus(ctx context.Context, db *gorm.DB, id string, status domain.TicketStatus) error {
	res := db.WithContext(ctx).
		Model(&domain.Ticket{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateTicketMessage appends one message to a ticket thread.
func CreateTicketMessage(ctx context.Context, db *gorm.DB, ticketID, userID, content string) (*domain.TicketMessage, error) {
	m := &domain.TicketMessage{
		ID:        uuid.NewString(),
		TicketID:  ticketID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// ListTicketMessages returns a ticket thread in chronological order.
func ListTicketMessages(ctx context.Context, db *gorm.DB, ticketID string) ([]domain.TicketMessage, error) {
	var out []domain.TicketMessage
	err := db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}
