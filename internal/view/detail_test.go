package view

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"dashboard/internal/models"
)

func TestScanDetail(t *testing.T) {
	gw := newFakeGateway()
	gw.history = []models.ScanHistoryEntry{{ID: 5, FileName: "mail.csv", Results: json.RawMessage(`{"summary":"2 threats"}`)}}
	s := NewScanDetail(gw, zaptest.NewLogger(t))

	require.NoError(t, s.Mount(context.Background(), 5))
	snap := s.Snapshot()
	require.Equal(t, Success, snap.Status)
	assert.Equal(t, "2 threats", snap.Value.Summary())
	assert.Equal(t, int64(5), s.ID())

	require.NoError(t, s.Mount(context.Background(), 6))
	snap = s.Snapshot()
	assert.True(t, snap.Failed())
	assert.Nil(t, snap.Value)
	assert.Equal(t, "Scan history entry not found", snap.Err)
}

func TestScanDetailRejectsInvalidID(t *testing.T) {
	gw := newFakeGateway()
	s := NewScanDetail(gw, zaptest.NewLogger(t))

	require.NoError(t, s.Mount(context.Background(), 0))
	assert.Equal(t, "Invalid scan ID.", s.Snapshot().Err)
	assert.Equal(t, 0, gw.total())
}

func TestDatasetDetail(t *testing.T) {
	gw := newFakeGateway()
	gw.datasets = []models.Dataset{{ID: 1, Name: "Logs"}, {ID: 2, Name: "Mail"}}
	gw.models = []models.TrainedModel{trainedModel(10, "a"), {ID: 11, Name: "b", DatasetID: 2}}
	d := NewDatasetDetail(gw, zaptest.NewLogger(t))

	require.NoError(t, d.Mount(context.Background(), 1))
	snap := d.Snapshot()
	assert.Equal(t, int64(1), snap.ID)
	require.Equal(t, Success, snap.Dataset.Status)
	assert.Equal(t, "Logs", snap.Dataset.Value.Name)
	require.Len(t, snap.Models.Value, 1)
	assert.Equal(t, int64(10), snap.Models.Value[0].ID)
}

func TestDatasetDetailSourcesFailIndependently(t *testing.T) {
	gw := newFakeGateway()
	gw.datasets = []models.Dataset{{ID: 1, Name: "Logs"}}
	gw.failWith("ListModels", "Model registry offline")
	d := NewDatasetDetail(gw, zaptest.NewLogger(t))

	require.NoError(t, d.Mount(context.Background(), 1))
	snap := d.Snapshot()
	assert.Equal(t, Success, snap.Dataset.Status)
	assert.Equal(t, "Model registry offline", snap.Models.Err)
}

func TestDatasetDetailRejectsInvalidID(t *testing.T) {
	gw := newFakeGateway()
	d := NewDatasetDetail(gw, zaptest.NewLogger(t))

	require.NoError(t, d.Mount(context.Background(), -3))
	assert.Equal(t, "Invalid dataset ID.", d.Snapshot().Dataset.Err)
	assert.Equal(t, 0, gw.total())
}

func TestTrainedOn(t *testing.T) {
	list := []models.TrainedModel{{ID: 1, DatasetID: 1}, {ID: 2, DatasetID: 2}, {ID: 3, DatasetID: 1}}
	got := TrainedOn(list, 1)
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[1].ID)
	assert.NotNil(t, TrainedOn(nil, 1))
}
