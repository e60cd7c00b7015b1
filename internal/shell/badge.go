// Package shell holds the widgets shared by every page: the notification
// badge and panel, the history sidebar, the popovers and the profile.
package shell

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"dashboard/internal/readmodel"
	"dashboard/internal/view"
)

// CountGateway reads the unread notification count.
type CountGateway interface {
	UnreadNotificationCount(ctx context.Context) (int, error)
}

// Badge shows the unread notification count on the bell.
type Badge struct {
	gw     CountGateway
	logger *zap.Logger
	count  *view.Source[int]
}

func NewBadge(gw CountGateway, store *readmodel.Store, logger *zap.Logger) *Badge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Badge{
		gw:     gw,
		logger: logger.Named("badge"),
		count:  view.NewSource[int](readmodel.UnreadCount, store, "Failed to fetch unread count"),
	}
}

// Refresh fetches the count. A failed fetch leaves the badge at 0.
func (b *Badge) Refresh(ctx context.Context) {
	if err := b.count.Load(ctx, b.gw.UnreadNotificationCount); err != nil {
		b.logger.Warn("Unread count failed", zap.Error(err))
	}
}

// Set replaces the count without a fetch and discards any fetch in flight.
func (b *Badge) Set(n int) {
	if n < 0 {
		n = 0
	}
	b.count.Override(n)
}

// Count is the held unread count.
func (b *Badge) Count() int {
	return b.count.Snapshot().Value
}

// Label is the badge text; empty means the badge is hidden.
func (b *Badge) Label() string {
	return BadgeLabel(b.Count())
}

// BadgeLabel renders n: hidden at 0, "9+" above 9.
func BadgeLabel(n int) string {
	switch {
	case n <= 0:
		return ""
	case n > 9:
		return "9+"
	default:
		return strconv.Itoa(n)
	}
}
