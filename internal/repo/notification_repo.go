// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for Notification
// rows. Every mutating helper is scoped by user ID so a recipient can only
// touch their own rows; bulk operations carry the same scope.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ozires/site24h-backend/internal/domain"
)

// CreateNotification inserts exactly one notification row. There is no
// retry or queueing; the write is the delivery.
func CreateNotification(ctx context.Context, db *gorm.DB, userID string, projectID *string, typ, title, message string) (*domain.Notification, error) {
	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProjectID: projectID,
		Type:      typ,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// CountNotifications returns the total rows for userID; unreadOnly restricts
// to unread ones.
func CountNotifications(ctx context.Context, db *gorm.DB, userID string, unreadOnly bool) (int64, error) {
	q := db.WithContext(ctx).Model(&domain.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	var total int64
	err := q.Count(&total).Error
	return total, err
}

// ListNotificationsPage returns a page of the user's notifications, newest
// first.
func ListNotificationsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Notification, error) {
	var out []domain.Notification
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// MarkNotificationRead flips one notification to read, enforcing ownership.
func MarkNotificationRead(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllNotificationsRead flips every unread notification for userID.
func MarkAllNotificationsRead(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}

// DeleteNotification removes one notification, enforcing ownership.
func DeleteNotification(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteReadNotifications clears every read notification for userID.
func DeleteReadNotifications(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	res := db.WithContext(ctx).
		Where("user_id = ? AND read = ?", userID, true).
		Delete(&domain.Notification{})
	return res.RowsAffected, res.Error
}
