package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jarcoal/httpmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"dashboard/internal/config"
	"dashboard/internal/metrics"
	"dashboard/internal/scanner_client"
	"dashboard/internal/session"
)

const testBaseURL = "http://scanner.test/api/v1"

type testServer struct {
	handler http.Handler
	mt      *httpmock.MockTransport
	cookie  *http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)

	cfg := config.Default()
	cfg.Scanner.BaseURL = testBaseURL

	registry := prometheus.NewRegistry()
	gatewayMetrics, err := metrics.NewGatewayMetrics(registry)
	require.NoError(t, err)

	mt := httpmock.NewMockTransport()
	client := scanner_client.NewClient(cfg.Scanner.BaseURL, logger,
		scanner_client.WithHTTPClient(&http.Client{Transport: mt}),
		scanner_client.WithRecorder(gatewayMetrics))
	sessions := session.NewManager(client, session.Settings{
		UserID:    cfg.Scanner.UserID,
		AdminName: cfg.Profile.AdminName,
		UserName:  cfg.Profile.UserName,
	}, time.Minute, logger)

	srv, err := NewServer(cfg, sessions, registry, logger)
	require.NoError(t, err)
	return &testServer{handler: srv.Handler(), mt: mt}
}

func (ts *testServer) postForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if ts.cookie != nil {
		req.AddCookie(ts.cookie)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) do(t *testing.T, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if ts.cookie != nil {
		req.AddCookie(ts.cookie)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			ts.cookie = c
		}
	}
	return rec
}

func registerBackend(mt *httpmock.MockTransport, unread int) {
	mt.RegisterResponder(http.MethodGet, testBaseURL+"/admin/datasets/",
		httpmock.NewStringResponder(http.StatusOK, `[{"id": 1, "name": "Logs", "description": null, "file_path": "/data/uploads/logs.csv", "upload_date": "2024-05-01T10:00:00", "owner_id": 1}]`))
	mt.RegisterResponder(http.MethodGet, testBaseURL+"/admin/models/",
		httpmock.NewStringResponder(http.StatusOK, `[]`))
	mt.RegisterResponder(http.MethodGet, testBaseURL+"/admin/scan-history/",
		httpmock.NewStringResponder(http.StatusOK, `[]`))
	mt.RegisterResponder(http.MethodGet, testBaseURL+"/admin/notifications/unread_count/",
		httpmock.NewStringResponder(http.StatusOK, strconv.Itoa(unread)))
	mt.RegisterResponder(http.MethodGet, testBaseURL+"/admin/notifications/",
		httpmock.NewStringResponder(http.StatusOK, `[{"id": 5, "action_type": "scan", "message": "Scan finished", "timestamp": "2024-05-01T10:00:00", "is_read": false}]`))
	mt.RegisterResponder(http.MethodPost, testBaseURL+"/admin/notifications/mark_all_read/",
		httpmock.NewStringResponder(http.StatusOK, `{"message": "All notifications marked as read"}`))
}

func TestHealthCheckHasNoSession(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, ts.cookie)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, testBaseURL, body["scanner_url"])
}

func TestAdminPageRendersAndStartsSession(t *testing.T) {
	ts := newTestServer(t)
	registerBackend(ts.mt, 12)

	rec := ts.do(t, http.MethodGet, "/admin", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, ts.cookie)

	body := rec.Body.String()
	assert.Contains(t, body, "Admin Dashboard")
	assert.Contains(t, body, "Logs")
	assert.Contains(t, body, "9+")
	assert.Contains(t, body, "Josh Armstrong")

	calls := ts.mt.GetTotalCallCount()
	rec = ts.do(t, http.MethodGet, "/api/shell/admin/badge", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count": 12, "label": "9+"}`, rec.Body.String())
	assert.Equal(t, calls, ts.mt.GetTotalCallCount(), "badge state is served from the session")
}

func TestMarkAllReadThroughAPI(t *testing.T) {
	ts := newTestServer(t)
	registerBackend(ts.mt, 3)

	rec := ts.do(t, http.MethodPost, "/api/shell/admin/popover/notifications", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"popover": "notifications", "open": true}`, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/shell/admin/notifications", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var panel struct {
		Status string `json:"status"`
		Items  []struct {
			ID     int64 `json:"id"`
			IsRead bool  `json:"is_read"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &panel))
	assert.Equal(t, "success", panel.Status)
	require.Len(t, panel.Items, 1)
	assert.False(t, panel.Items[0].IsRead)

	rec = ts.do(t, http.MethodPost, "/api/shell/admin/notifications/read-all", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Badge struct {
			Count int    `json:"count"`
			Label string `json:"label"`
		} `json:"badge"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Badge.Count)
	assert.Empty(t, resp.Badge.Label)

	rec = ts.do(t, http.MethodPost, "/api/shell/admin/pointer", `{"region": "content"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"popover": "", "closed": true}`, rec.Body.String())
}

func TestAPIRejectsBadInput(t *testing.T) {
	ts := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/shell/guest/badge", "").Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/api/shell/admin/popover/settings", "").Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/api/shell/admin/pointer", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/api/shell/user/notifications/abc/read", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	registerBackend(ts.mt, 0)
	ts.do(t, http.MethodGet, "/admin", "")

	rec := ts.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `scanner_gateway_requests_total{op="list datasets",outcome="success"} 1`)
}

func TestShellActionsRerenderCurrentPage(t *testing.T) {
	ts := newTestServer(t)
	registerBackend(ts.mt, 2)
	mt := ts.mt
	mt.RegisterResponder(http.MethodGet, testBaseURL+"/admin/models/",
		httpmock.NewStringResponder(http.StatusOK, `[{"id": 3, "name": "Phish detector", "dataset_id": 1, "accuracy": 0.9, "model_path": "/m/3.pkl"}]`))

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/user", "").Code)

	rec := ts.postForm(t, "/shell/popover/profile", url.Values{"page": {"user"}})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "User Dashboard")
	assert.Contains(t, body, "Phish detector")
	assert.Contains(t, body, "Test User")

	rec = ts.postForm(t, "/shell/pointer", url.Values{"page": {"user"}, "region": {"content"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User Dashboard")
}

func TestUploadWithoutFileMakesNoBackendCall(t *testing.T) {
	ts := newTestServer(t)
	registerBackend(ts.mt, 0)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/admin", "").Code)
	calls := ts.mt.GetTotalCallCount()

	rec := ts.postForm(t, "/admin/datasets", url.Values{"name": {"Logs"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Name and a dataset file are required.")
	assert.Equal(t, calls, ts.mt.GetTotalCallCount())
}

func TestEveryPageLoadRefetchesShell(t *testing.T) {
	ts := newTestServer(t)
	registerBackend(ts.mt, 2)
	unreadKey := "GET " + testBaseURL + "/admin/notifications/unread_count/"
	historyKey := "GET " + testBaseURL + "/admin/scan-history/"

	unread := 2
	ts.mt.RegisterResponder(http.MethodGet, testBaseURL+"/admin/notifications/unread_count/",
		func(*http.Request) (*http.Response, error) {
			return httpmock.NewStringResponse(http.StatusOK, strconv.Itoa(unread)), nil
		})

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/admin", "").Code)
	unread = 5
	rec := ts.do(t, http.MethodGet, "/admin", "")
	require.Equal(t, http.StatusOK, rec.Code)

	calls := ts.mt.GetCallCountInfo()
	assert.Equal(t, 2, calls[unreadKey])
	assert.Equal(t, 2, calls[historyKey])
	assert.Contains(t, rec.Body.String(), `<span class="indicator">5</span>`)

	rec = ts.postForm(t, "/shell/pointer", url.Values{"page": {"admin"}, "region": {"content"}})
	require.Equal(t, http.StatusOK, rec.Code)
	calls = ts.mt.GetCallCountInfo()
	assert.Equal(t, 2, calls[unreadKey], "shell actions render the held state")
	assert.Equal(t, 2, calls[historyKey])
}
