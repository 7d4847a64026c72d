package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ozires/site24h-backend/internal/domain"
	"github.com/ozires/site24h-backend/internal/repo"
)

// NotificationService manages per-user notifications and the fan-out helpers
// used by the project pipeline.
type NotificationService struct {
	DB *gorm.DB
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// Notify creates one notification. Failures are returned to the caller, but
// pipeline code treats notification failures as non-fatal.
func (s *NotificationService) Notify(ctx context.Context, userID string, projectID *string, typ, title, message string) error {
	_, err := repo.CreateNotification(ctx, s.DB, userID, projectID, typ, title, message)
	return err
}

// NotifyStatus sends the canonical notification for a project status to the
// project owner.
func (s *NotificationService) NotifyStatus(ctx context.Context, userID, projectID string, status domain.ProjectStatus) error {
	typ, title, message := domain.StatusMessage(status)
	return s.Notify(ctx, userID, &projectID, typ, title, message)
}

// NotifyAdmins fans one notification out to every administrator.
func (s *NotificationService) NotifyAdmins(ctx context.Context, projectID *string, typ, title, message string) error {
	admins, err := repo.ListAdmins(ctx, s.DB)
	if err != nil {
		return err
	}
	for _, a := range admins {
		if _, err := repo.CreateNotification(ctx, s.DB, a.ID, projectID, typ, title, message); err != nil {
			return err
		}
	}
	return nil
}

// ListPage returns a page of the user's notifications with the unread count.
func (s *NotificationService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Notification, int64, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	total, err := repo.CountNotifications(ctx, s.DB, userID, false)
	if err != nil {
		return nil, 0, 0, err
	}
	unread, err := repo.CountNotifications(ctx, s.DB, userID, true)
	if err != nil {
		return nil, 0, 0, err
	}
	if total == 0 {
		return []domain.Notification{}, 0, 0, nil
	}

	items, err := repo.ListNotificationsPage(ctx, s.DB, userID, (page-1)*pageSize, pageSize)
	return items, total, unread, err
}

// MarkRead marks one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	if err := repo.MarkNotificationRead(ctx, s.DB, id, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

// MarkAllRead marks every unread notification for the user.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return repo.MarkAllNotificationsRead(ctx, s.DB, userID)
}

// Delete removes one of the user's notifications.
func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	if err := repo.DeleteNotification(ctx, s.DB, id, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

// DeleteRead purges the user's read notifications.
func (s *NotificationService) DeleteRead(ctx context.Context, userID string) (int64, error) {
	return repo.DeleteReadNotifications(ctx, s.DB, userID)
}
