package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendwise/spendwise/internal/handler/dto"
	"github.com/spendwise/spendwise/internal/metrics"
)

func TestHandler_Hello(t *testing.T) {
	rec := httptest.NewRecorder()
	New().Hello(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var info ServiceInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&info))
	assert.Equal(t, ServiceInfo{Service: "spendwise", Version: Version}, info)
}

func TestHandler_ErrorResponses(t *testing.T) {
	h := New()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantCode   string
	}{
		{"not found", h.NotFound, http.StatusNotFound, "NOT_FOUND"},
		{"method not allowed", h.MethodNotAllowed, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler(rec, httptest.NewRequest(http.MethodPost, "/", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name     string
		body     string
		wantErr  bool
		wantName string
	}{
		{"object", `{"name":"food"}`, false, "food"},
		{"empty body", ``, false, ""},
		{"malformed", `{"name":`, true, ""},
		{"wrong type", `{"name":7}`, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst payload
			err := decodeJSON(httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(tt.body)), &dst)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, dst.Name)
		})
	}
}

func TestWriteDecodeError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(`{"description":"`+strings.Repeat("x", 64)+`"}`))
	rec := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(rec, req.Body, 8)

	var dst map[string]any
	err := decodeJSON(req, &dst)
	require.Error(t, err)

	writeDecodeError(rec, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = httptest.NewRecorder()
	writeDecodeError(rec, &json.SyntaxError{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_JSON")
}

func TestMetricsHandler(t *testing.T) {
	recorder := metrics.NewInMemory()
	recorder.IncLogin("failed")
	recorder.IncLogin("failed")
	recorder.IncExpenseCreated()

	rec := httptest.NewRecorder()
	NewMetricsHandler(recorder).Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain; version=0.0.4"))

	body := rec.Body.String()
	for _, line := range []string{
		"# TYPE spendwise_logins_total counter",
		`spendwise_logins_total{status="failed"} 2`,
		`spendwise_logins_total{status="success"} 0`,
		"spendwise_expenses_created_total 1",
		"# TYPE spendwise_report_duration_seconds summary",
		"spendwise_report_duration_seconds_count 0",
		"spendwise_report_duration_seconds_sum 0.000000",
	} {
		assert.Contains(t, body, line+"\n")
	}

	rec = httptest.NewRecorder()
	NewMetricsHandler(nil).Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
