package scanner_client

import (
	"context"
	"fmt"
	"net/http"

	"dashboard/internal/models"
)

var (
	opListScanHistory = operation{name: "list scan history", fallback: "Failed to fetch scan history"}
	opGetScanEntry    = operation{name: "get scan history entry", fallback: "Failed to fetch scan details"}
	opSubmitScan      = operation{name: "submit scan", fallback: "File scan failed"}
)

// ListScanHistory fetches a page of scan history, newest first.
// GET /admin/scan-history/?skip=&limit=
func (c *Client) ListScanHistory(ctx context.Context, page Page) ([]models.ScanHistoryEntry, error) {
	var entries []models.ScanHistoryEntry
	if err := c.doJSON(ctx, opListScanHistory, http.MethodGet, "/admin/scan-history/", page.query(DefaultHistoryLimit), nil, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.ScanHistoryEntry{}
	}
	return entries, nil
}

// GetScanHistoryEntry fetches one scan.
// GET /admin/scan-history/{id}
func (c *Client) GetScanHistoryEntry(ctx context.Context, id int64) (*models.ScanHistoryEntry, error) {
	var entry models.ScanHistoryEntry
	if err := c.doJSON(ctx, opGetScanEntry, http.MethodGet, fmt.Sprintf("/admin/scan-history/%d", id), nil, nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// SubmitScan uploads a file for scanning with model_id and user_id fields
// and returns the created history entry.
// POST /user/scan/
func (c *Client) SubmitScan(ctx context.Context, payload *MultipartPayload) (*models.ScanHistoryEntry, error) {
	var entry models.ScanHistoryEntry
	if err := c.doMultipart(ctx, opSubmitScan, "/user/scan/", payload, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
