package shell

import (
	"context"
	"sync"

	"dashboard/internal/models"
	"dashboard/internal/scanner_client"
)

// fakeGateway is an in-memory notification and history backend.
type fakeGateway struct {
	mu            sync.Mutex
	notifications []models.Notification
	history       []models.ScanHistoryEntry
	calls         map[string]int
	fail          map[string]error
	pages         []scanner_client.Page
	marked        [][]int64
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{calls: map[string]int{}, fail: map[string]error{}}
}

func (f *fakeGateway) begin(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.fail[op]
}

func (f *fakeGateway) called(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeGateway) failWith(op, detail string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[op] = &scanner_client.Error{Op: op, Kind: scanner_client.KindServer, StatusCode: 500, Detail: detail}
}

func (f *fakeGateway) UnreadNotificationCount(ctx context.Context) (int, error) {
	if err := f.begin("UnreadNotificationCount"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, item := range f.notifications {
		if !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeGateway) ListNotifications(ctx context.Context, page scanner_client.Page) ([]models.Notification, error) {
	if err := f.begin("ListNotifications"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages = append(f.pages, page)
	end := page.Limit
	if end > len(f.notifications) {
		end = len(f.notifications)
	}
	return append([]models.Notification{}, f.notifications[:end]...), nil
}

func (f *fakeGateway) MarkNotificationsRead(ctx context.Context, ids []int64) (*models.Ack, error) {
	if err := f.begin("MarkNotificationsRead"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = append(f.marked, ids)
	for i := range f.notifications {
		for _, id := range ids {
			if f.notifications[i].ID == id {
				f.notifications[i].IsRead = true
			}
		}
	}
	return &models.Ack{Message: "Notifications marked as read"}, nil
}

func (f *fakeGateway) MarkAllNotificationsRead(ctx context.Context) (*models.Ack, error) {
	if err := f.begin("MarkAllNotificationsRead"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notifications {
		f.notifications[i].IsRead = true
	}
	return &models.Ack{Message: "All notifications marked as read"}, nil
}

func (f *fakeGateway) ListScanHistory(ctx context.Context, page scanner_client.Page) ([]models.ScanHistoryEntry, error) {
	if err := f.begin("ListScanHistory"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages = append(f.pages, page)
	end := page.Limit
	if end > len(f.history) {
		end = len(f.history)
	}
	return append([]models.ScanHistoryEntry{}, f.history[:end]...), nil
}

func unread(ids ...int64) []models.Notification {
	out := make([]models.Notification, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Notification{ID: id, ActionType: "scan", Message: "Scan finished"})
	}
	return out
}
