package view

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dashboard/internal/forms"
	"dashboard/internal/models"
	"dashboard/internal/readmodel"
	"dashboard/internal/scanner_client"
)

// AdminGateway is the part of the scanner client the admin dashboard uses.
type AdminGateway interface {
	ListDatasets(ctx context.Context) ([]models.Dataset, error)
	UploadDataset(ctx context.Context, payload *scanner_client.MultipartPayload) (*models.Dataset, error)
	DeleteDataset(ctx context.Context, id int64) (*models.Dataset, error)
	ListModels(ctx context.Context) ([]models.TrainedModel, error)
	TrainModel(ctx context.Context, payload *scanner_client.MultipartPayload) (*models.TrainedModel, error)
	DeleteModel(ctx context.Context, id int64) (*models.TrainedModel, error)
}

// Feedback is the inline message pair shown under a form.
type Feedback struct {
	Message string
	Error   string
}

// AdminSnapshot is everything the admin dashboard page renders.
type AdminSnapshot struct {
	Datasets       State[[]models.Dataset]
	Models         State[[]models.TrainedModel]
	ActionError    string
	Upload         Feedback
	Train          Feedback
	TrainForm      forms.ModelTrain
	ShowUploadForm bool
}

// AdminDashboard controls the admin page: two independent sources
// (datasets and models) plus upload, train and delete actions.
type AdminDashboard struct {
	gw     AdminGateway
	store  *readmodel.Store
	logger *zap.Logger

	Datasets *Source[[]models.Dataset]
	Models   *Source[[]models.TrainedModel]

	mu             sync.Mutex
	actionErr      string
	upload         Feedback
	train          Feedback
	trainForm      forms.ModelTrain
	showUploadForm bool
}

// NewAdminDashboard creates the controller in the idle state.
func NewAdminDashboard(gw AdminGateway, store *readmodel.Store, logger *zap.Logger) *AdminDashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminDashboard{
		gw:        gw,
		store:     store,
		logger:    logger.Named("admin_dashboard"),
		Datasets:  NewSource[[]models.Dataset](readmodel.Datasets, store, "Failed to fetch datasets"),
		Models:    NewSource[[]models.TrainedModel](readmodel.Models, store, "Failed to fetch models"),
		trainForm: forms.NewModelTrain(),
	}
}

// Mount loads datasets and models concurrently. Failures land in each
// source's own error state; Mount only reports context cancellation.
func (d *AdminDashboard) Mount(ctx context.Context) error {
	d.mu.Lock()
	d.actionErr = ""
	d.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.RefreshDatasets(gctx)
		return nil
	})
	g.Go(func() error {
		d.RefreshModels(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// RefreshDatasets re-fetches the full dataset list.
func (d *AdminDashboard) RefreshDatasets(ctx context.Context) {
	if err := d.Datasets.Load(ctx, d.gw.ListDatasets); err != nil {
		d.logger.Warn("Dataset refresh failed", zap.Error(err))
	}
}

// RefreshModels re-fetches the full model list.
func (d *AdminDashboard) RefreshModels(ctx context.Context) {
	if err := d.Models.Load(ctx, d.gw.ListModels); err != nil {
		d.logger.Warn("Model refresh failed", zap.Error(err))
	}
}

// ShowUploadForm toggles the upload form.
func (d *AdminDashboard) ShowUploadForm(show bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.showUploadForm = show
	if !show {
		d.upload = Feedback{}
	}
}

// UploadDataset validates the form, uploads, and re-fetches datasets.
// Validation failures return before any request.
func (d *AdminDashboard) UploadDataset(ctx context.Context, form forms.DatasetUpload) error {
	payload, err := form.Payload()
	if err != nil {
		d.setUpload(Feedback{Error: scanner_client.Detail(err, "Failed to upload dataset.")})
		return err
	}

	dataset, err := d.gw.UploadDataset(ctx, payload)
	if err != nil {
		d.setUpload(Feedback{Error: scanner_client.Detail(err, "Failed to upload dataset.")})
	} else {
		d.logger.Info("Dataset uploaded", zap.Int64("dataset_id", dataset.ID), zap.String("name", dataset.Name))
		d.mu.Lock()
		d.upload = Feedback{Message: "Dataset uploaded successfully!"}
		d.showUploadForm = false
		d.mu.Unlock()
	}
	d.invalidate(readmodel.Datasets)
	d.RefreshDatasets(ctx)
	return err
}

// DeleteDataset deletes a dataset and re-fetches both datasets and models,
// since models may reference the removed dataset.
func (d *AdminDashboard) DeleteDataset(ctx context.Context, id int64) error {
	_, err := d.gw.DeleteDataset(ctx, id)
	d.mu.Lock()
	if err != nil {
		d.actionErr = scanner_client.Detail(err, fmt.Sprintf("Failed to delete dataset ID %d", id))
	} else {
		d.actionErr = ""
	}
	d.mu.Unlock()
	if err == nil {
		d.logger.Info("Dataset deleted", zap.Int64("dataset_id", id))
	}

	d.invalidate(readmodel.Datasets)
	d.invalidate(readmodel.Models)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { d.RefreshDatasets(gctx); return nil })
	g.Go(func() error { d.RefreshModels(gctx); return nil })
	_ = g.Wait()
	return err
}

// TrainModel validates the training form, trains, and re-fetches models.
// Form values other than name, dataset and target column are kept.
func (d *AdminDashboard) TrainModel(ctx context.Context, form forms.ModelTrain) error {
	d.mu.Lock()
	d.trainForm = form
	d.mu.Unlock()

	payload, err := form.Payload()
	if err != nil {
		d.setTrain(Feedback{Error: scanner_client.Detail(err, "Failed to train model.")})
		return err
	}

	model, err := d.gw.TrainModel(ctx, payload)
	if err != nil {
		d.setTrain(Feedback{Error: scanner_client.Detail(err, "Failed to train model.")})
	} else {
		d.logger.Info("Model trained", zap.Int64("model_id", model.ID), zap.String("accuracy", model.AccuracyLabel()))
		d.mu.Lock()
		d.train = Feedback{Message: fmt.Sprintf("Model %q trained successfully! Accuracy: %s", model.Name, model.AccuracyLabel())}
		d.trainForm.Name = ""
		d.trainForm.DatasetID = ""
		d.trainForm.TargetColumn = ""
		d.mu.Unlock()
	}
	d.invalidate(readmodel.Models)
	d.RefreshModels(ctx)
	return err
}

// DeleteModel deletes a model and re-fetches models.
func (d *AdminDashboard) DeleteModel(ctx context.Context, id int64) error {
	_, err := d.gw.DeleteModel(ctx, id)
	d.mu.Lock()
	if err != nil {
		d.actionErr = scanner_client.Detail(err, fmt.Sprintf("Failed to delete model ID %d", id))
	} else {
		d.actionErr = ""
	}
	d.mu.Unlock()

	d.invalidate(readmodel.Models)
	d.RefreshModels(ctx)
	return err
}

// Snapshot copies the page state for rendering.
func (d *AdminDashboard) Snapshot() AdminSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return AdminSnapshot{
		Datasets:       d.Datasets.Snapshot(),
		Models:         d.Models.Snapshot(),
		ActionError:    d.actionErr,
		Upload:         d.upload,
		Train:          d.train,
		TrainForm:      d.trainForm,
		ShowUploadForm: d.showUploadForm,
	}
}

func (d *AdminDashboard) setUpload(f Feedback) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.upload = f
}

func (d *AdminDashboard) setTrain(f Feedback) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.train = f
}

func (d *AdminDashboard) invalidate(r readmodel.Resource) {
	if d.store != nil {
		d.store.Invalidate(r)
	}
}
