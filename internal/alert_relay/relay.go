// Package alert_relay forwards new scanner notifications to a chat. It reads
// notifications only and never marks them read.
package alert_relay

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"dashboard/internal/models"
	"dashboard/internal/scanner_client"
)

// Source is the notification surface the relay polls.
type Source interface {
	UnreadNotificationCount(ctx context.Context) (int, error)
	ListNotifications(ctx context.Context, page scanner_client.Page) ([]models.Notification, error)
}

// Sender delivers one alert.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Relay polls the unread count and forwards notifications it has not seen.
type Relay struct {
	src      Source
	sender   Sender
	interval time.Duration
	logger   *zap.Logger

	seen      map[int64]struct{}
	lastCount int
	primed    bool
	retry     bool
}

func NewRelay(src Source, sender Sender, interval time.Duration, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Relay{
		src:      src,
		sender:   sender,
		interval: interval,
		logger:   logger.Named("alert_relay"),
		seen:     make(map[int64]struct{}),
	}
}

// Run polls until ctx is cancelled. Notifications already unread at start
// are taken as seen.
func (r *Relay) Run(ctx context.Context) {
	r.logger.Info("Alert relay started.", zap.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	if err := r.prime(ctx); err != nil {
		r.logger.Warn("Failed to read initial notifications", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Alert relay stopped.")
			return
		case <-ticker.C:
			if !r.primed {
				if err := r.prime(ctx); err != nil {
					r.logger.Warn("Failed to read initial notifications", zap.Error(err))
				}
				continue
			}
			sent, err := r.Poll(ctx)
			if err != nil {
				r.logger.Warn("Notification poll failed", zap.Error(err))
				continue
			}
			if sent > 0 {
				r.logger.Info("Forwarded notifications", zap.Int("count", sent))
			}
		}
	}
}

func (r *Relay) prime(ctx context.Context) error {
	count, err := r.src.UnreadNotificationCount(ctx)
	if err != nil {
		return err
	}
	list, err := r.src.ListNotifications(ctx, scanner_client.Page{Limit: scanner_client.DefaultNotificationLimit})
	if err != nil {
		return err
	}
	for _, n := range list {
		r.seen[n.ID] = struct{}{}
	}
	r.lastCount = count
	r.primed = true
	return nil
}

// Poll runs one cycle. The listing is fetched only when the unread count
// grew or an earlier send failed. A notification counts as seen only once it
// was sent. It returns how many alerts were sent.
func (r *Relay) Poll(ctx context.Context) (int, error) {
	count, err := r.src.UnreadNotificationCount(ctx)
	if err != nil {
		return 0, err
	}
	if count <= r.lastCount && !r.retry {
		r.lastCount = count
		return 0, nil
	}

	list, err := r.src.ListNotifications(ctx, scanner_client.Page{Limit: scanner_client.DefaultNotificationLimit})
	if err != nil {
		return 0, err
	}

	sent, failed := 0, 0
	seen := make(map[int64]struct{}, len(list))
	// the listing is newest first; alerts go out oldest first
	for i := len(list) - 1; i >= 0; i-- {
		n := list[i]
		if _, ok := r.seen[n.ID]; ok || n.IsRead {
			seen[n.ID] = struct{}{}
			continue
		}
		if err := r.sender.Send(ctx, FormatAlert(n)); err != nil {
			r.logger.Error("Failed to forward notification", zap.Int64("notification_id", n.ID), zap.Error(err))
			failed++
			continue
		}
		seen[n.ID] = struct{}{}
		sent++
	}
	r.seen = seen
	r.lastCount = count
	r.retry = failed > 0
	return sent, nil
}

// FormatAlert renders a notification as a chat message.
func FormatAlert(n models.Notification) string {
	var b strings.Builder
	b.WriteString("🔔 ")
	if n.ActionType != "" {
		fmt.Fprintf(&b, "[%s] ", n.ActionType)
	}
	if n.Username != nil && *n.Username != "" {
		fmt.Fprintf(&b, "%s: ", *n.Username)
	}
	b.WriteString(n.Message)
	if !n.Timestamp.IsZero() {
		fmt.Fprintf(&b, " (%s)", n.Timestamp.Format("2006-01-02 15:04"))
	}
	return b.String()
}
