package view

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dashboard/internal/models"
	"dashboard/internal/scanner_client"
)

// DatasetDetailGateway reads one dataset and the model list.
type DatasetDetailGateway interface {
	GetDataset(ctx context.Context, id int64) (*models.Dataset, error)
	ListModels(ctx context.Context) ([]models.TrainedModel, error)
}

// DatasetDetailSnapshot is the dataset with the models trained on it.
type DatasetDetailSnapshot struct {
	ID      int64
	Dataset State[*models.Dataset]
	Models  State[[]models.TrainedModel]
}

// DatasetDetail shows a dataset and the models trained on it.
type DatasetDetail struct {
	gw     DatasetDetailGateway
	logger *zap.Logger

	Dataset *Source[*models.Dataset]
	Models  *Source[[]models.TrainedModel]

	mu sync.Mutex
	id int64
}

func NewDatasetDetail(gw DatasetDetailGateway, logger *zap.Logger) *DatasetDetail {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DatasetDetail{
		gw:      gw,
		logger:  logger.Named("dataset_detail"),
		Dataset: NewSource[*models.Dataset]("", nil, "Failed to fetch dataset"),
		// filtered lists stay local; only full collections go to the read model
		Models: NewSource[[]models.TrainedModel]("", nil, "Failed to fetch models"),
	}
}

// Mount fetches the dataset and the model list concurrently.
func (d *DatasetDetail) Mount(ctx context.Context, id int64) error {
	d.mu.Lock()
	d.id = id
	d.mu.Unlock()

	if id <= 0 {
		tok := d.Dataset.Begin()
		d.Dataset.Resolve(tok, nil, scanner_client.NewValidationError("get dataset", "Invalid dataset ID."))
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := d.Dataset.Load(gctx, func(ctx context.Context) (*models.Dataset, error) {
			return d.gw.GetDataset(ctx, id)
		}); err != nil {
			d.logger.Warn("Dataset detail failed", zap.Int64("dataset_id", id), zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		_ = d.Models.Load(gctx, func(ctx context.Context) ([]models.TrainedModel, error) {
			list, err := d.gw.ListModels(ctx)
			if err != nil {
				return nil, err
			}
			return TrainedOn(list, id), nil
		})
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Snapshot copies the state.
func (d *DatasetDetail) Snapshot() DatasetDetailSnapshot {
	d.mu.Lock()
	id := d.id
	d.mu.Unlock()
	return DatasetDetailSnapshot{ID: id, Dataset: d.Dataset.Snapshot(), Models: d.Models.Snapshot()}
}

// TrainedOn keeps the models trained on datasetID.
func TrainedOn(list []models.TrainedModel, datasetID int64) []models.TrainedModel {
	out := make([]models.TrainedModel, 0, len(list))
	for _, m := range list {
		if m.DatasetID == datasetID {
			out = append(out, m)
		}
	}
	return out
}
