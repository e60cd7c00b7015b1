package view

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"dashboard/internal/models"
	"dashboard/internal/scanner_client"
)

// HistoryPageSize is the page size of the full history listing.
const HistoryPageSize = 50

// HistoryGateway reads scan history.
type HistoryGateway interface {
	ListScanHistory(ctx context.Context, page scanner_client.Page) ([]models.ScanHistoryEntry, error)
}

// HistorySnapshot is one rendered page of history.
type HistorySnapshot struct {
	Entries State[[]models.ScanHistoryEntry]
	Page    scanner_client.Page
	HasPrev bool
	HasNext bool
}

// HistoryPage lists the full scan history in pages of HistoryPageSize.
type HistoryPage struct {
	gw     HistoryGateway
	logger *zap.Logger

	Entries *Source[[]models.ScanHistoryEntry]

	mu   sync.Mutex
	page scanner_client.Page
}

func NewHistoryPage(gw HistoryGateway, logger *zap.Logger) *HistoryPage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryPage{
		gw:      gw,
		logger:  logger.Named("history_page"),
		// the shared scan_history resource belongs to the sidebar window
		Entries: NewSource[[]models.ScanHistoryEntry]("", nil, "Failed to fetch scan history"),
		page:    scanner_client.Page{Limit: HistoryPageSize},
	}
}

// Mount loads the first page.
func (h *HistoryPage) Mount(ctx context.Context) error {
	return h.Goto(ctx, 0)
}

// Goto loads the page starting at skip.
func (h *HistoryPage) Goto(ctx context.Context, skip int) error {
	page := scanner_client.Page{Skip: skip, Limit: HistoryPageSize}.Resolve(HistoryPageSize)
	h.mu.Lock()
	h.page = page
	h.mu.Unlock()

	err := h.Entries.Load(ctx, func(ctx context.Context) ([]models.ScanHistoryEntry, error) {
		return h.gw.ListScanHistory(ctx, page)
	})
	if err != nil {
		h.logger.Warn("History page failed", zap.Int("skip", page.Skip), zap.Error(err))
	}
	return ctx.Err()
}

// Next loads the following page.
func (h *HistoryPage) Next(ctx context.Context) error {
	h.mu.Lock()
	skip := h.page.Skip + h.page.Limit
	h.mu.Unlock()
	return h.Goto(ctx, skip)
}

// Prev loads the preceding page; it stays on the first page at offset 0.
func (h *HistoryPage) Prev(ctx context.Context) error {
	h.mu.Lock()
	skip := h.page.Skip - h.page.Limit
	h.mu.Unlock()
	if skip < 0 {
		skip = 0
	}
	return h.Goto(ctx, skip)
}

// Snapshot copies the page state. A full page implies there may be more.
func (h *HistoryPage) Snapshot() HistorySnapshot {
	h.mu.Lock()
	page := h.page
	h.mu.Unlock()
	entries := h.Entries.Snapshot()
	return HistorySnapshot{
		Entries: entries,
		Page:    page,
		HasPrev: page.Skip > 0,
		HasNext: entries.Status == Success && len(entries.Value) == page.Limit,
	}
}
