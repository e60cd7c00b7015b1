package scanner_client

import (
	"context"
	"net/http"

	"dashboard/internal/models"
)

var (
	opListNotifications = operation{name: "list notifications", fallback: "Failed to fetch notifications"}
	opUnreadCount       = operation{name: "unread notification count", fallback: "Failed to fetch unread count"}
	opMarkRead          = operation{name: "mark notifications read", fallback: "Failed to mark notifications as read"}
	opMarkAllRead       = operation{name: "mark all notifications read", fallback: "Failed to mark all as read"}
)

// ListNotifications fetches a page of notifications in server order.
// GET /admin/notifications/?skip=&limit=
func (c *Client) ListNotifications(ctx context.Context, page Page) ([]models.Notification, error) {
	var list []models.Notification
	if err := c.doJSON(ctx, opListNotifications, http.MethodGet, "/admin/notifications/", page.query(DefaultNotificationLimit), nil, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Notification{}
	}
	return list, nil
}

// UnreadNotificationCount returns the bare unread counter.
// GET /admin/notifications/unread_count/
func (c *Client) UnreadNotificationCount(ctx context.Context) (int, error) {
	var count int
	if err := c.doJSON(ctx, opUnreadCount, http.MethodGet, "/admin/notifications/unread_count/", nil, nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}

type markReadRequest struct {
	LogIDs []int64 `json:"log_ids"`
}

// MarkNotificationsRead marks the given ids read. Marking already-read ids is
// harmless; an empty id list returns without a request.
// POST /admin/notifications/mark_read/
func (c *Client) MarkNotificationsRead(ctx context.Context, ids []int64) (*models.Ack, error) {
	if len(ids) == 0 {
		return &models.Ack{}, nil
	}
	var ack models.Ack
	if err := c.doJSON(ctx, opMarkRead, http.MethodPost, "/admin/notifications/mark_read/", nil, markReadRequest{LogIDs: ids}, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// MarkAllNotificationsRead marks every notification read.
// POST /admin/notifications/mark_all_read/
func (c *Client) MarkAllNotificationsRead(ctx context.Context) (*models.Ack, error) {
	var ack models.Ack
	if err := c.doJSON(ctx, opMarkAllRead, http.MethodPost, "/admin/notifications/mark_all_read/", nil, nil, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}
