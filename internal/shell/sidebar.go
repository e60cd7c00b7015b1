package shell

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"dashboard/internal/models"
	"dashboard/internal/readmodel"
	"dashboard/internal/scanner_client"
	"dashboard/internal/view"
)

const maxItemText = 30

// HistoryGateway reads the scan history.
type HistoryGateway interface {
	ListScanHistory(ctx context.Context, page scanner_client.Page) ([]models.ScanHistoryEntry, error)
}

// SidebarItem is one rendered history link.
type SidebarItem struct {
	ID    int64
	Text  string
	Title string
}

// SidebarSnapshot is the rendered sidebar.
type SidebarSnapshot struct {
	History     view.State[[]models.ScanHistoryEntry]
	Items       []SidebarItem
	ShowViewAll bool
}

// Sidebar lists the newest scan history entries.
type Sidebar struct {
	gw      HistoryGateway
	logger  *zap.Logger
	History *view.Source[[]models.ScanHistoryEntry]
}

func NewSidebar(gw HistoryGateway, store *readmodel.Store, logger *zap.Logger) *Sidebar {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sidebar{
		gw:      gw,
		logger:  logger.Named("sidebar"),
		History: view.NewSource[[]models.ScanHistoryEntry](readmodel.ScanHistory, store, "Failed to fetch scan history"),
	}
}

// Refresh fetches the newest scanner_client.DefaultHistoryLimit entries.
func (s *Sidebar) Refresh(ctx context.Context) {
	err := s.History.Load(ctx, func(ctx context.Context) ([]models.ScanHistoryEntry, error) {
		return s.gw.ListScanHistory(ctx, scanner_client.Page{Limit: scanner_client.DefaultHistoryLimit})
	})
	if err != nil {
		s.logger.Warn("Sidebar history failed", zap.Error(err))
	}
}

// Snapshot renders the held entries.
func (s *Sidebar) Snapshot() SidebarSnapshot {
	history := s.History.Snapshot()
	items := make([]SidebarItem, 0, len(history.Value))
	for _, e := range history.Value {
		items = append(items, SidebarItem{ID: e.ID, Text: ItemText(e), Title: ItemTitle(e)})
	}
	return SidebarSnapshot{History: history, Items: items, ShowViewAll: len(items) > 0}
}

// ItemText renders an entry as "SUN 14 FEB - File 'x.csv' scan", cut to 30
// characters plus "..." when longer.
func ItemText(e models.ScanHistoryEntry) string {
	t := e.ScanDate.Time
	date := fmt.Sprintf("%s %d %s",
		strings.ToUpper(t.Format("Mon")), t.Day(), strings.ToUpper(t.Format("Jan")))

	summary := e.Summary()
	if summary == "" {
		summary = "Scan processed"
	}
	if e.FileName != "" {
		summary = fmt.Sprintf("File '%s' scan", e.FileName)
	}

	text := date + " - " + summary
	if runes := []rune(text); len(runes) > maxItemText {
		return string(runes[:maxItemText]) + "..."
	}
	return text
}

// ItemTitle is the hover text: the result summary or "Scan ID: n".
func ItemTitle(e models.ScanHistoryEntry) string {
	if s := e.Summary(); s != "" {
		return s
	}
	return fmt.Sprintf("Scan ID: %d", e.ID)
}
