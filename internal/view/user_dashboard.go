package view

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"dashboard/internal/forms"
	"dashboard/internal/models"
	"dashboard/internal/readmodel"
	"dashboard/internal/scanner_client"
)

// UserGateway is the part of the scanner client the user dashboard uses.
type UserGateway interface {
	ListModels(ctx context.Context) ([]models.TrainedModel, error)
	SubmitScan(ctx context.Context, payload *scanner_client.MultipartPayload) (*models.ScanHistoryEntry, error)
}

// UserSnapshot is everything the user dashboard renders.
type UserSnapshot struct {
	Models    State[[]models.TrainedModel]
	Scanning  bool
	Result    *models.ScanHistoryEntry
	ScanError string
}

// UserDashboard lists models ready for scanning and submits scans.
type UserDashboard struct {
	gw     UserGateway
	userID int64
	logger *zap.Logger

	Models *Source[[]models.TrainedModel]

	mu        sync.Mutex
	scanning  bool
	result    *models.ScanHistoryEntry
	scanErr   string
	afterScan []func(context.Context)
}

// NewUserDashboard creates the controller. userID is sent with every scan.
func NewUserDashboard(gw UserGateway, store *readmodel.Store, userID int64, logger *zap.Logger) *UserDashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserDashboard{
		gw:     gw,
		userID: userID,
		logger: logger.Named("user_dashboard"),
		Models: NewSource[[]models.TrainedModel](readmodel.Models, store, "Could not load available models."),
	}
}

// AfterScan registers fn to run after every scan that reached the backend.
func (d *UserDashboard) AfterScan(fn func(context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.afterScan = append(d.afterScan, fn)
}

// Mount loads the full model list; Snapshot narrows it to the models ready
// for scanning.
func (d *UserDashboard) Mount(ctx context.Context) error {
	if err := d.Models.Load(ctx, d.gw.ListModels); err != nil {
		d.logger.Warn("Model list failed", zap.Error(err))
	}
	return ctx.Err()
}

// Scan validates and submits a scan. The previous result is cleared first,
// so a failed scan never shows a stale result.
func (d *UserDashboard) Scan(ctx context.Context, form forms.Scan) error {
	form.UserID = d.userID

	d.mu.Lock()
	d.result = nil
	d.scanErr = ""
	d.mu.Unlock()

	payload, err := form.Payload()
	if err != nil {
		d.setScanError(scanner_client.Detail(err, "An error occurred during scan."))
		return err
	}

	d.mu.Lock()
	d.scanning = true
	d.mu.Unlock()

	entry, err := d.gw.SubmitScan(ctx, payload)

	d.mu.Lock()
	d.scanning = false
	if err != nil {
		d.scanErr = scanner_client.Detail(err, "An error occurred during scan.")
	} else {
		d.result = entry
	}
	hooks := append([]func(context.Context){}, d.afterScan...)
	d.mu.Unlock()

	if err == nil {
		d.logger.Info("Scan completed",
			zap.Int64("scan_id", entry.ID),
			zap.String("file", entry.FileName),
			zap.Bool("threat", entry.IsThreatDetected))
	}
	for _, fn := range hooks {
		fn(ctx)
	}
	return err
}

// Snapshot copies the page state for rendering.
func (d *UserDashboard) Snapshot() UserSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	available := d.Models.Snapshot()
	available.Value = models.ReadyForScanning(available.Value)
	return UserSnapshot{
		Models:    available,
		Scanning:  d.scanning,
		Result:    d.result,
		ScanError: d.scanErr,
	}
}

func (d *UserDashboard) setScanError(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scanErr = msg
}
