package scanner_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is where the scanning backend listens in a local setup.
const DefaultBaseURL = "http://127.0.0.1:8001/api/v1"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 32 << 20

// Recorder receives one observation per gateway call.
type Recorder interface {
	ObserveRequest(op string, kind Kind, elapsed time.Duration)
}

// Client is the single transport to the scanning backend REST API.
// All gateways share its base URL, HTTP client and logger.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
	recorder   Recorder
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets a per-request timeout. Zero keeps the transport default.
// It applies to a copy of the HTTP client, never the one passed in.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// NewClient creates a new scanning backend client.
func NewClient(baseURL string, logger *zap.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger.Named("scanner_client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// operation names a gateway call and carries its fallback message.
type operation struct {
	name     string
	fallback string
}

// doJSON issues a request with an optional JSON body and decodes a JSON response into out.
func (c *Client) doJSON(ctx context.Context, op operation, method, path string, query url.Values, body any, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op.name, Kind: KindValidation, Detail: op.fallback, Err: fmt.Errorf("failed to marshal request: %w", err)}
		}
		reader = bytes.NewReader(jsonData)
	}
	return c.do(ctx, op, method, path, query, reader, "application/json", out)
}

// doMultipart posts a multipart form and decodes a JSON response into out.
func (c *Client) doMultipart(ctx context.Context, op operation, path string, payload *MultipartPayload, out any) error {
	if payload == nil {
		return NewValidationError(op.name, op.fallback)
	}
	body, contentType, err := payload.encode()
	if err != nil {
		return &Error{Op: op.name, Kind: KindValidation, Detail: op.fallback, Err: fmt.Errorf("failed to encode multipart payload: %w", err)}
	}
	return c.do(ctx, op, http.MethodPost, path, nil, body, contentType, out)
}

func (c *Client) do(ctx context.Context, op operation, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	start := time.Now()
	err := c.roundTrip(ctx, op, method, path, query, body, contentType, out)
	elapsed := time.Since(start)

	var kind Kind
	if err != nil {
		kind = err.Kind
	}
	if c.recorder != nil {
		c.recorder.ObserveRequest(op.name, kind, elapsed)
	}
	if err != nil {
		c.logger.Error("Scanner request failed",
			zap.String("op", op.name),
			zap.String("method", method),
			zap.String("path", path),
			zap.String("kind", err.Kind.String()),
			zap.Int("status", err.StatusCode),
			zap.Duration("elapsed", elapsed),
			zap.NamedError("cause", err.Err))
		return err
	}
	c.logger.Debug("Scanner request completed",
		zap.String("op", op.name),
		zap.String("method", method),
		zap.String("path", path),
		zap.Duration("elapsed", elapsed))
	return nil
}

// roundTrip returns *Error rather than error so the caller never sees a nil
// interface wrapping a nil pointer.
func (c *Client) roundTrip(ctx context.Context, op operation, method, path string, query url.Values, body io.Reader, contentType string, out any) *Error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Op: op.name, Kind: KindTransport, Detail: op.fallback, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	if body != nil && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: op.name, Kind: KindTransport, Detail: op.fallback, Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &Error{Op: op.name, Kind: KindTransport, Detail: op.fallback, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail := serverDetail(data)
		if detail == "" {
			detail = op.fallback
		}
		return &Error{
			Op:         op.name,
			Kind:       KindServer,
			StatusCode: resp.StatusCode,
			Detail:     detail,
			Err:        fmt.Errorf("scanner returned status %d", resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Op: op.name, Kind: KindDecode, StatusCode: resp.StatusCode, Detail: op.fallback, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
