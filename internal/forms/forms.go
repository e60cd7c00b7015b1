// Package forms validates user input and builds the multipart payloads the
// gateways send. Every check here runs before any network call.
package forms

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"dashboard/internal/scanner_client"
	"dashboard/internal/trainparams"
)

const (
	MsgDatasetRequired = "Name and a dataset file are required."
	MsgTrainRequired   = "Model Name and Dataset are required."
	MsgParamsSyntax    = "Invalid JSON format for K-Means or SVM parameters. Please check syntax."
	MsgScanRequired    = "Please select a model and a file to scan."
)

// Test split bounds accepted by the training endpoint.
const (
	MinTestSize     = 0.1
	MaxTestSize     = 0.5
	DefaultTestSize = "0.2"
)

// FileInput is an uploaded file as received from the browser.
type FileInput struct {
	Filename string
	Content  io.Reader
}

func (f *FileInput) present() bool {
	return f != nil && f.Content != nil && strings.TrimSpace(f.Filename) != ""
}

// DatasetUpload is the dataset upload form.
type DatasetUpload struct {
	Name        string
	Description string
	File        *FileInput
}

// Payload validates the form and builds the upload body (name, description, file).
func (f DatasetUpload) Payload() (*scanner_client.MultipartPayload, error) {
	if !f.File.present() || strings.TrimSpace(f.Name) == "" {
		return nil, scanner_client.NewValidationError("upload dataset", MsgDatasetRequired)
	}
	p := scanner_client.NewMultipartPayload().
		AddField("name", f.Name).
		AddField("description", f.Description).
		SetFile("file", f.File.Filename, f.File.Content)
	return p, nil
}

// ModelTrain is the model training form; all values arrive as text.
type ModelTrain struct {
	Name         string
	DatasetID    string
	TargetColumn string
	KMeansParams string
	SVMParams    string
	TestSize     string
	RandomState  string
}

// NewModelTrain returns the form with its initial values.
func NewModelTrain() ModelTrain {
	return ModelTrain{
		KMeansParams: trainparams.DefaultKMeansJSON,
		SVMParams:    trainparams.DefaultSVMJSON,
		TestSize:     DefaultTestSize,
		RandomState:  "42",
	}
}

// Payload validates every field and builds the training body. Parameter text
// is parsed and re-serialized, so malformed JSON never reaches the backend.
func (f ModelTrain) Payload() (*scanner_client.MultipartPayload, error) {
	const op = "train model"

	if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.DatasetID) == "" {
		return nil, scanner_client.NewValidationError(op, MsgTrainRequired)
	}
	datasetID, err := strconv.ParseInt(strings.TrimSpace(f.DatasetID), 10, 64)
	if err != nil || datasetID <= 0 {
		return nil, scanner_client.NewValidationError(op, "Selected dataset is not valid.")
	}

	kmeans, err := trainparams.ParseKMeans(f.KMeansParams)
	if err != nil {
		return nil, paramsError(op, err)
	}
	svm, err := trainparams.ParseSVM(f.SVMParams)
	if err != nil {
		return nil, paramsError(op, err)
	}
	kmeansJSON, err := kmeans.JSON()
	if err != nil {
		return nil, paramsError(op, err)
	}
	svmJSON, err := svm.JSON()
	if err != nil {
		return nil, paramsError(op, err)
	}

	testSizeText := strings.TrimSpace(f.TestSize)
	if testSizeText == "" {
		testSizeText = DefaultTestSize
	}
	testSize, err := strconv.ParseFloat(testSizeText, 64)
	if err != nil {
		return nil, scanner_client.NewValidationError(op, "Test split size must be a number.")
	}
	if testSize < MinTestSize || testSize > MaxTestSize {
		return nil, scanner_client.NewValidationError(op, fmt.Sprintf("Test split size must be between %.1f and %.1f.", MinTestSize, MaxTestSize))
	}

	var randomState *int64
	if text := strings.TrimSpace(f.RandomState); text != "" {
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, scanner_client.NewValidationError(op, "Random state must be an integer.")
		}
		randomState = &v
	}

	p := scanner_client.NewMultipartPayload().
		AddField("name", f.Name).
		AddField("dataset_id", strconv.FormatInt(datasetID, 10))
	if target := strings.TrimSpace(f.TargetColumn); target != "" {
		p.AddField("target_column_name", target)
	}
	p.AddField("kmeans_params_str", kmeansJSON).
		AddField("svm_params_str", svmJSON).
		AddField("test_size", strconv.FormatFloat(testSize, 'f', -1, 64))
	if randomState != nil {
		p.AddField("random_state", strconv.FormatInt(*randomState, 10))
	}
	return p, nil
}

func paramsError(op string, err error) error {
	var fieldErr *trainparams.FieldError
	if errors.As(err, &fieldErr) {
		return &scanner_client.Error{Op: op, Kind: scanner_client.KindValidation, Detail: fieldErr.Error(), Err: err}
	}
	return &scanner_client.Error{Op: op, Kind: scanner_client.KindValidation, Detail: MsgParamsSyntax, Err: err}
}

// Scan is the user scan form. UserID comes from configuration, not input.
type Scan struct {
	ModelID string
	UserID  int64
	File    *FileInput
}

// Payload validates the form and builds the scan body (file, model_id, user_id).
func (f Scan) Payload() (*scanner_client.MultipartPayload, error) {
	const op = "submit scan"
	modelText := strings.TrimSpace(f.ModelID)
	if modelText == "" || !f.File.present() {
		return nil, scanner_client.NewValidationError(op, MsgScanRequired)
	}
	modelID, err := strconv.ParseInt(modelText, 10, 64)
	if err != nil || modelID <= 0 {
		return nil, scanner_client.NewValidationError(op, "Selected model is not valid.")
	}
	p := scanner_client.NewMultipartPayload().
		AddField("model_id", strconv.FormatInt(modelID, 10)).
		AddField("user_id", strconv.FormatInt(f.UserID, 10)).
		SetFile("file", f.File.Filename, f.File.Content)
	return p, nil
}
