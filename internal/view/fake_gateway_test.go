package view

import (
	"context"
	"errors"
	"sync"

	"dashboard/internal/models"
	"dashboard/internal/scanner_client"
)

// fakeGateway is an in-memory scanner backend that counts calls.
type fakeGateway struct {
	mu       sync.Mutex
	datasets []models.Dataset
	models   []models.TrainedModel
	history  []models.ScanHistoryEntry
	calls    map[string]int
	fail     map[string]error
	pages    []scanner_client.Page
	nextID   int64
	trainAcc float64
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{calls: map[string]int{}, fail: map[string]error{}, nextID: 100, trainAcc: 0.935}
}

func (f *fakeGateway) called(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeGateway) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeGateway) failWith(op string, detail string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[op] = &scanner_client.Error{Op: op, Kind: scanner_client.KindServer, StatusCode: 500, Detail: detail}
}

func (f *fakeGateway) begin(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.fail[op]
}

func (f *fakeGateway) ListDatasets(ctx context.Context) ([]models.Dataset, error) {
	if err := f.begin("ListDatasets"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Dataset{}, f.datasets...), nil
}

func (f *fakeGateway) GetDataset(ctx context.Context, id int64) (*models.Dataset, error) {
	if err := f.begin("GetDataset"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.datasets {
		if d.ID == id {
			d := d
			return &d, nil
		}
	}
	return nil, &scanner_client.Error{Kind: scanner_client.KindServer, StatusCode: 404, Detail: "Dataset not found"}
}

func (f *fakeGateway) UploadDataset(ctx context.Context, payload *scanner_client.MultipartPayload) (*models.Dataset, error) {
	if err := f.begin("UploadDataset"); err != nil {
		return nil, err
	}
	name, _ := payload.Field("name")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	d := models.Dataset{ID: f.nextID, Name: name, FilePath: "/uploads/" + payload.Filename()}
	f.datasets = append(f.datasets, d)
	return &d, nil
}

func (f *fakeGateway) DeleteDataset(ctx context.Context, id int64) (*models.Dataset, error) {
	if err := f.begin("DeleteDataset"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, d := range f.datasets {
		if d.ID == id {
			f.datasets = append(f.datasets[:i:i], f.datasets[i+1:]...)
			kept := f.models[:0:0]
			for _, m := range f.models {
				if m.DatasetID != id {
					kept = append(kept, m)
				}
			}
			f.models = kept
			return &d, nil
		}
	}
	return nil, &scanner_client.Error{Kind: scanner_client.KindServer, StatusCode: 404, Detail: "Dataset not found"}
}

func (f *fakeGateway) ListModels(ctx context.Context) ([]models.TrainedModel, error) {
	if err := f.begin("ListModels"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.TrainedModel{}, f.models...), nil
}

func (f *fakeGateway) TrainModel(ctx context.Context, payload *scanner_client.MultipartPayload) (*models.TrainedModel, error) {
	if err := f.begin("TrainModel"); err != nil {
		return nil, err
	}
	name, _ := payload.Field("name")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	acc := f.trainAcc
	path := "/models/" + name + ".pkl"
	m := models.TrainedModel{ID: f.nextID, Name: name, Accuracy: &acc, ModelPath: &path}
	f.models = append(f.models, m)
	return &m, nil
}

func (f *fakeGateway) DeleteModel(ctx context.Context, id int64) (*models.TrainedModel, error) {
	if err := f.begin("DeleteModel"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.models {
		if m.ID == id {
			f.models = append(f.models[:i:i], f.models[i+1:]...)
			return &m, nil
		}
	}
	return nil, &scanner_client.Error{Kind: scanner_client.KindServer, StatusCode: 404, Detail: "Model not found"}
}

func (f *fakeGateway) ListScanHistory(ctx context.Context, page scanner_client.Page) ([]models.ScanHistoryEntry, error) {
	if err := f.begin("ListScanHistory"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages = append(f.pages, page)
	if page.Skip >= len(f.history) {
		return []models.ScanHistoryEntry{}, nil
	}
	end := page.Skip + page.Limit
	if end > len(f.history) {
		end = len(f.history)
	}
	return append([]models.ScanHistoryEntry{}, f.history[page.Skip:end]...), nil
}

func (f *fakeGateway) GetScanHistoryEntry(ctx context.Context, id int64) (*models.ScanHistoryEntry, error) {
	if err := f.begin("GetScanHistoryEntry"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.history {
		if e.ID == id {
			e := e
			return &e, nil
		}
	}
	return nil, &scanner_client.Error{Kind: scanner_client.KindServer, StatusCode: 404, Detail: "Scan history entry not found"}
}

func (f *fakeGateway) SubmitScan(ctx context.Context, payload *scanner_client.MultipartPayload) (*models.ScanHistoryEntry, error) {
	if err := f.begin("SubmitScan"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	e := models.ScanHistoryEntry{ID: f.nextID, FileName: payload.Filename(), IsThreatDetected: true}
	f.history = append([]models.ScanHistoryEntry{e}, f.history...)
	return &e, nil
}

var errBoom = errors.New("boom")
