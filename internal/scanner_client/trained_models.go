package scanner_client

import (
	"context"
	"fmt"
	"net/http"

	"dashboard/internal/models"
)

var (
	opListModels  = operation{name: "list models", fallback: "Failed to fetch models"}
	opGetModel    = operation{name: "get model", fallback: "Failed to fetch model"}
	opDeleteModel = operation{name: "delete model", fallback: "Failed to delete model"}
	opTrainModel  = operation{name: "train model", fallback: "Model training failed"}
)

// ListModels fetches every model, trained or not.
// GET /admin/models/
func (c *Client) ListModels(ctx context.Context) ([]models.TrainedModel, error) {
	var list []models.TrainedModel
	if err := c.doJSON(ctx, opListModels, http.MethodGet, "/admin/models/", nil, nil, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.TrainedModel{}
	}
	return list, nil
}

// GetModel fetches a single model.
// GET /admin/models/{id}
func (c *Client) GetModel(ctx context.Context, id int64) (*models.TrainedModel, error) {
	var model models.TrainedModel
	if err := c.doJSON(ctx, opGetModel, http.MethodGet, fmt.Sprintf("/admin/models/%d", id), nil, nil, &model); err != nil {
		return nil, err
	}
	return &model, nil
}

// DeleteModel removes a model and echoes the deleted record.
// DELETE /admin/models/{id}
func (c *Client) DeleteModel(ctx context.Context, id int64) (*models.TrainedModel, error) {
	var model models.TrainedModel
	if err := c.doJSON(ctx, opDeleteModel, http.MethodDelete, fmt.Sprintf("/admin/models/%d", id), nil, nil, &model); err != nil {
		return nil, err
	}
	return &model, nil
}

// TrainModel starts a synchronous training run and returns the stored model.
// POST /admin/models/train/
func (c *Client) TrainModel(ctx context.Context, payload *MultipartPayload) (*models.TrainedModel, error) {
	var model models.TrainedModel
	if err := c.doMultipart(ctx, opTrainModel, "/admin/models/train/", payload, &model); err != nil {
		return nil, err
	}
	return &model, nil
}
