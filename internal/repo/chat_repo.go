// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// project-scoped chat thread between a client and the admins.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ozires/site24h-backend/internal/domain"
)

// CreateChatMessage appends one message to a project's thread.
func CreateChatMessage(ctx context.Context, db *gorm.DB, projectID, userID, content string) (*domain.ChatMessage, error) {
	m := &domain.ChatMessage{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// CountChatMessages returns the thread length for a project.
func CountChatMessages(ctx context.Context, db *gorm.DB, projectID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.ChatMessage{}).
		Where("project_id = ?", projectID).
		Count(&total).Error
	return total, err
}

// ListChatMessagesPage returns a page of a project's thread in
// chronological order.
func ListChatMessagesPage(ctx context.Context, db *gorm.DB, projectID string, offset, limit int) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	err := db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
