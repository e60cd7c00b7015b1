package models

import "encoding/json"

// ScanHistoryEntry represents one completed scan. Entries are append-only.
type ScanHistoryEntry struct {
	ID               int64           `json:"id"`
	FileName         string          `json:"file_name"`
	ScanDate         Timestamp       `json:"scan_date"`
	UserID           int64           `json:"user_id"`
	ModelID          int64           `json:"model_id"`
	IsThreatDetected bool            `json:"is_threat_detected"`
	Results          json.RawMessage `json:"results"`
}

// ThreatSample is one flagged row reported back by a scan.
type ThreatSample struct {
	ItemIndex   int     `json:"item_index_in_file"`
	Probability float64 `json:"probability_of_threat"`
}

// ScanResults holds the keys of the free-form results payload the dashboard knows how to show.
type ScanResults struct {
	Summary              string         `json:"summary"`
	TotalItemsScanned    *int           `json:"total_items_scanned,omitempty"`
	ThreatsDetectedCount *int           `json:"threats_detected_count,omitempty"`
	OverallThreat        *bool          `json:"is_overall_threat_detected,omitempty"`
	ThreatSamples        []ThreatSample `json:"detailed_threat_info_sample,omitempty"`
	Error                *string        `json:"error,omitempty"`
}

// ScanResults decodes the known result keys. Unknown or malformed payloads
// yield a zero value; the raw payload is still available in Results.
func (e ScanHistoryEntry) ScanResults() ScanResults {
	var res ScanResults
	if len(e.Results) == 0 {
		return res
	}
	_ = json.Unmarshal(e.Results, &res)
	return res
}

// Summary returns results.summary, or "" when absent.
func (e ScanHistoryEntry) Summary() string {
	return e.ScanResults().Summary
}

// PrettyResults renders the raw results payload indented for display.
func (e ScanHistoryEntry) PrettyResults() string {
	if len(e.Results) == 0 {
		return "null"
	}
	var v any
	if err := json.Unmarshal(e.Results, &v); err != nil {
		return string(e.Results)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(e.Results)
	}
	return string(out)
}
