package models

import "fmt"

// TrainedModel represents a clustering+classification model.
// Accuracy and ModelPath stay nil until training succeeded.
type TrainedModel struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	DatasetID    int64          `json:"dataset_id"`
	Accuracy     *float64       `json:"accuracy"`
	ModelPath    *string        `json:"model_path"`
	CreationDate Timestamp      `json:"creation_date"`
	Parameters   map[string]any `json:"parameters,omitempty"`
	OwnerID      int64          `json:"owner_id"`
}

// Trained reports whether the model has both a stored artifact and an accuracy.
func (m TrainedModel) Trained() bool {
	return m.ModelPath != nil && *m.ModelPath != "" && m.Accuracy != nil
}

// AccuracyLabel formats accuracy as a percentage with two decimals, or "N/A".
func (m TrainedModel) AccuracyLabel() string {
	if m.Accuracy == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", *m.Accuracy*100)
}

// ReadyForScanning keeps only trained models, preserving server order.
func ReadyForScanning(list []TrainedModel) []TrainedModel {
	ready := make([]TrainedModel, 0, len(list))
	for _, m := range list {
		if m.Trained() {
			ready = append(ready, m)
		}
	}
	return ready
}
