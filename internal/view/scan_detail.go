package view

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"dashboard/internal/models"
	"dashboard/internal/scanner_client"
)

// ScanDetailGateway reads one scan history entry.
type ScanDetailGateway interface {
	GetScanHistoryEntry(ctx context.Context, id int64) (*models.ScanHistoryEntry, error)
}

// ScanDetail shows one scan with its decoded results.
type ScanDetail struct {
	gw     ScanDetailGateway
	logger *zap.Logger

	Entry *Source[*models.ScanHistoryEntry]

	mu sync.Mutex
	id int64
}

func NewScanDetail(gw ScanDetailGateway, logger *zap.Logger) *ScanDetail {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScanDetail{
		gw:     gw,
		logger: logger.Named("scan_detail"),
		// single entries are not shared through the read model
		Entry: NewSource[*models.ScanHistoryEntry]("", nil, "Failed to fetch scan details"),
	}
}

// Mount fetches the entry with the given id.
func (s *ScanDetail) Mount(ctx context.Context, id int64) error {
	s.mu.Lock()
	s.id = id
	s.mu.Unlock()

	if id <= 0 {
		tok := s.Entry.Begin()
		s.Entry.Resolve(tok, nil, scanner_client.NewValidationError("get scan history entry", "Invalid scan ID."))
		return nil
	}
	if err := s.Entry.Load(ctx, func(ctx context.Context) (*models.ScanHistoryEntry, error) {
		return s.gw.GetScanHistoryEntry(ctx, id)
	}); err != nil {
		s.logger.Warn("Scan detail failed", zap.Int64("scan_id", id), zap.Error(err))
	}
	return ctx.Err()
}

// ID is the scan last mounted.
func (s *ScanDetail) ID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Snapshot copies the state.
func (s *ScanDetail) Snapshot() State[*models.ScanHistoryEntry] {
	return s.Entry.Snapshot()
}
