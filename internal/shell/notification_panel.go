package shell

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"dashboard/internal/models"
	"dashboard/internal/readmodel"
	"dashboard/internal/scanner_client"
	"dashboard/internal/view"
)

// NotificationGateway lists notifications and marks them read.
type NotificationGateway interface {
	ListNotifications(ctx context.Context, page scanner_client.Page) ([]models.Notification, error)
	MarkNotificationsRead(ctx context.Context, ids []int64) (*models.Ack, error)
	MarkAllNotificationsRead(ctx context.Context) (*models.Ack, error)
}

// PanelSnapshot is the rendered state of the panel.
type PanelSnapshot struct {
	Items       view.State[[]models.Notification]
	ActionError string
}

// NotificationPanel lists the newest notifications and marks them read.
type NotificationPanel struct {
	gw     NotificationGateway
	badge  *Badge
	logger *zap.Logger

	Items *view.Source[[]models.Notification]

	mu        sync.Mutex
	actionErr string
}

func NewNotificationPanel(gw NotificationGateway, badge *Badge, store *readmodel.Store, logger *zap.Logger) *NotificationPanel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationPanel{
		gw:     gw,
		badge:  badge,
		logger: logger.Named("notification_panel"),
		Items:  view.NewSource[[]models.Notification](readmodel.Notifications, store, "Failed to fetch notifications"),
	}
}

// Load fetches the newest scanner_client.DefaultNotificationLimit entries.
func (p *NotificationPanel) Load(ctx context.Context) {
	p.setActionError("")
	err := p.Items.Load(ctx, func(ctx context.Context) ([]models.Notification, error) {
		return p.gw.ListNotifications(ctx, scanner_client.Page{Limit: scanner_client.DefaultNotificationLimit})
	})
	if err != nil {
		p.logger.Warn("Notification list failed", zap.Error(err))
	}
}

// MarkRead marks one entry read, flips only that entry and re-fetches the
// unread count once. Entries that are already read or not listed are left
// alone without a request.
func (p *NotificationPanel) MarkRead(ctx context.Context, id int64) error {
	item, ok := p.find(id)
	if !ok || item.IsRead {
		return nil
	}
	if _, err := p.gw.MarkNotificationsRead(ctx, []int64{id}); err != nil {
		p.setActionError(scanner_client.Detail(err, "Failed to mark notification as read"))
		p.logger.Warn("Mark read failed", zap.Int64("notification_id", id), zap.Error(err))
		return err
	}
	p.setActionError("")
	p.Items.Patch(func(list []models.Notification) []models.Notification {
		out := make([]models.Notification, len(list))
		copy(out, list)
		for i := range out {
			if out[i].ID == id {
				out[i].IsRead = true
			}
		}
		return out
	})
	if p.badge != nil {
		p.badge.Refresh(ctx)
	}
	return nil
}

// MarkAllRead marks everything read and sets the badge to 0 without a
// count fetch.
func (p *NotificationPanel) MarkAllRead(ctx context.Context) error {
	if _, err := p.gw.MarkAllNotificationsRead(ctx); err != nil {
		p.setActionError(scanner_client.Detail(err, "Failed to mark all as read"))
		p.logger.Warn("Mark all read failed", zap.Error(err))
		return err
	}
	p.setActionError("")
	p.Items.Patch(func(list []models.Notification) []models.Notification {
		out := make([]models.Notification, len(list))
		copy(out, list)
		for i := range out {
			out[i].IsRead = true
		}
		return out
	})
	if p.badge != nil {
		p.badge.Set(0)
	}
	return nil
}

// Snapshot copies the panel state.
func (p *NotificationPanel) Snapshot() PanelSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PanelSnapshot{Items: p.Items.Snapshot(), ActionError: p.actionErr}
}

func (p *NotificationPanel) find(id int64) (models.Notification, bool) {
	for _, n := range p.Items.Snapshot().Value {
		if n.ID == id {
			return n, true
		}
	}
	return models.Notification{}, false
}

func (p *NotificationPanel) setActionError(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actionErr = msg
}
