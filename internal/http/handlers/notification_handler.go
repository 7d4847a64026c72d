// Notification endpoints for the authenticated user.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ozires/site24h-backend/internal/domain"
	"github.com/ozires/site24h-backend/internal/http/middleware"
)

// ListNotificationsResponse wraps a page of notifications with the unread
// counter shown in the UI badge.
type ListNotificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	Unread        int64                 `json:"unread"`
	Pagination    Pagination            `json:"pagination"`
}

// ListNotifications returns the caller's notifications, newest first.
func (h *Handlers) ListNotifications(c *gin.Context) {
	page, pageSize := clampPagination(c)
	items, total, unread, err := h.Notifs.ListPage(c.Request.Context(), middleware.UserIDFrom(c), page, pageSize)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, ListNotificationsResponse{
		Notifications: items,
		Unread:        unread,
		Pagination:    newPagination(page, pageSize, total),
	})
}

// MarkNotificationRead marks one notification as read.
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	if err := h.Notifs.MarkRead(c.Request.Context(), middleware.UserIDFrom(c), c.Param("id")); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}

// MarkAllNotificationsRead marks every unread notification as read.
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	n, err := h.Notifs.MarkAllRead(c.Request.Context(), middleware.UserIDFrom(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"marked": n})
}

// DeleteNotification removes one notification.
func (h *Handlers) DeleteNotification(c *gin.Context) {
	if err := h.Notifs.Delete(c.Request.Context(), middleware.UserIDFrom(c), c.Param("id")); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}

// DeleteReadNotifications removes every read notification.
func (h *Handlers) DeleteReadNotifications(c *gin.Context) {
	n, err := h.Notifs.DeleteRead(c.Request.Context(), middleware.UserIDFrom(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"deleted": n})
}
