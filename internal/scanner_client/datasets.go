package scanner_client

import (
	"context"
	"fmt"
	"net/http"

	"dashboard/internal/models"
)

var (
	opListDatasets  = operation{name: "list datasets", fallback: "Failed to fetch datasets"}
	opGetDataset    = operation{name: "get dataset", fallback: "Failed to fetch dataset"}
	opUploadDataset = operation{name: "upload dataset", fallback: "Dataset upload failed"}
	opDeleteDataset = operation{name: "delete dataset", fallback: "Failed to delete dataset"}
)

// ListDatasets fetches every uploaded dataset.
// GET /admin/datasets/
func (c *Client) ListDatasets(ctx context.Context) ([]models.Dataset, error) {
	var datasets []models.Dataset
	if err := c.doJSON(ctx, opListDatasets, http.MethodGet, "/admin/datasets/", nil, nil, &datasets); err != nil {
		return nil, err
	}
	if datasets == nil {
		datasets = []models.Dataset{}
	}
	return datasets, nil
}

// GetDataset fetches a single dataset.
// GET /admin/datasets/{id}
func (c *Client) GetDataset(ctx context.Context, id int64) (*models.Dataset, error) {
	var dataset models.Dataset
	if err := c.doJSON(ctx, opGetDataset, http.MethodGet, fmt.Sprintf("/admin/datasets/%d", id), nil, nil, &dataset); err != nil {
		return nil, err
	}
	return &dataset, nil
}

// UploadDataset posts a multipart payload with name, description and file.
// POST /admin/datasets/
func (c *Client) UploadDataset(ctx context.Context, payload *MultipartPayload) (*models.Dataset, error) {
	var dataset models.Dataset
	if err := c.doMultipart(ctx, opUploadDataset, "/admin/datasets/", payload, &dataset); err != nil {
		return nil, err
	}
	return &dataset, nil
}

// DeleteDataset removes a dataset. The backend echoes the deleted record.
// DELETE /admin/datasets/{id}
func (c *Client) DeleteDataset(ctx context.Context, id int64) (*models.Dataset, error) {
	var dataset models.Dataset
	if err := c.doJSON(ctx, opDeleteDataset, http.MethodDelete, fmt.Sprintf("/admin/datasets/%d", id), nil, nil, &dataset); err != nil {
		return nil, err
	}
	return &dataset, nil
}
