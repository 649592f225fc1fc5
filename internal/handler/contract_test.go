package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"

	"github.com/spendwise/spendwise/internal/service"
)

// loadSpec loads and validates the OpenAPI document.
func loadSpec(t *testing.T) (*openapi3.T, routers.Router) {
	t.Helper()

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(filepath.Join("..", "..", "docs", "api", "openapi.yaml"))
	if err != nil {
		t.Fatalf("failed to load OpenAPI document: %v", err)
	}

	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("OpenAPI document validation failed: %v", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		t.Fatalf("failed to create router from document: %v", err)
	}

	return doc, router
}

func TestOpenAPIDocumentValid(t *testing.T) {
	doc, _ := loadSpec(t)

	expectedPaths := []string{
		"/api/register",
		"/api/login",
		"/expenses",
		"/expenses/range",
		"/expenses/{id}",
		"/categories",
		"/healthz",
		"/readyz",
	}
	for _, name := range service.ReportNames() {
		expectedPaths = append(expectedPaths, "/reports/"+name)
	}

	for _, path := range expectedPaths {
		if doc.Paths.Find(path) == nil {
			t.Errorf("expected path %s not found in document", path)
		}
	}
}

// contractClient issues requests against the in-process router and checks
// each response against the document.
type contractClient struct {
	t       *testing.T
	handler http.Handler
	spec    routers.Router
}

func (c *contractClient) call(method, path, token string, body any) (int, []byte) {
	c.t.Helper()

	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
	}

	req := httptest.NewRequest(method, "http://example.com"+path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	respBody := rec.Body.Bytes()

	route, pathParams, err := c.spec.FindRoute(req)
	if err != nil {
		c.t.Fatalf("%s %s: could not find route in document: %v", method, path, err)
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
		},
		Status: rec.Code,
		Header: rec.Header(),
		Body:   io.NopCloser(bytes.NewReader(respBody)),
	}
	if err := openapi3filter.ValidateResponse(context.Background(), input); err != nil {
		c.t.Errorf("%s %s: response does not match document: %v\nbody: %s", method, path, err, respBody)
	}

	return rec.Code, respBody
}

func TestResponsesMatchDocument(t *testing.T) {
	_, spec := loadSpec(t)
	handler, _, _ := newTestRouter(t, newMemoryDenylist())
	c := &contractClient{t: t, handler: handler, spec: spec}

	status, body := c.call(http.MethodPost, "/api/register", "", map[string]string{
		"username": "dora", "email": "dora@x.com", "password": "pw123",
	})
	if status != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", status, body)
	}
	var session struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	token := session.Token

	_, body = c.call(http.MethodPost, "/expenses", token, map[string]any{
		"amount": 12.5, "description": "lunch", "category": "food", "created_at": "2024-03-05T12:00:00Z",
	})
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode expense: %v", err)
	}

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       any
		wantStatus int
	}{
		{"healthz", http.MethodGet, "/healthz", "", nil, http.StatusOK},
		{"readyz", http.MethodGet, "/readyz", "", nil, http.StatusOK},
		{"register conflict", http.MethodPost, "/api/register", "", map[string]string{"username": "dora", "email": "d2@x.com", "password": "pw"}, http.StatusBadRequest},
		{"login", http.MethodPost, "/api/login", "", map[string]string{"username": "dora", "password": "pw123"}, http.StatusOK},
		{"login bad credentials", http.MethodPost, "/api/login", "", map[string]string{"username": "dora", "password": "nope"}, http.StatusBadRequest},
		{"me", http.MethodGet, "/api/me", token, nil, http.StatusOK},
		{"list expenses", http.MethodGet, "/expenses?month=3&year=2024", token, nil, http.StatusOK},
		{"list unauthorized", http.MethodGet, "/expenses", "", nil, http.StatusUnauthorized},
		{"list bad month", http.MethodGet, "/expenses?month=0&year=2024", token, nil, http.StatusBadRequest},
		{"range", http.MethodGet, "/expenses/range?startDate=2024-03-01&endDate=2024-03-31", token, nil, http.StatusOK},
		{"get", http.MethodGet, "/expenses/" + created.ID, token, nil, http.StatusOK},
		{"get missing", http.MethodGet, "/expenses/missing", token, nil, http.StatusNotFound},
		{"update", http.MethodPut, "/expenses/" + created.ID, token, map[string]any{"amount": 13, "description": "lunch", "category": "food"}, http.StatusOK},
		{"category summary", http.MethodGet, "/reports/category-summary", token, nil, http.StatusOK},
		{"monthly summary", http.MethodGet, "/reports/monthly-summary?month=3&year=2024", token, nil, http.StatusOK},
		{"monthly summary missing year", http.MethodGet, "/reports/monthly-summary?month=3", token, nil, http.StatusBadRequest},
		{"weekly summary", http.MethodGet, "/reports/weekly-summary?startDate=2024-03-04&endDate=2024-03-10", token, nil, http.StatusOK},
		{"yearly summary", http.MethodGet, "/reports/yearly-summary?year=2024", token, nil, http.StatusOK},
		{"weekly category summary", http.MethodGet, "/reports/weekly-category-summary?startDate=2024-03-04&endDate=2024-03-10", token, nil, http.StatusOK},
		{"yearly category summary", http.MethodGet, "/reports/yearly-category-summary?year=2024", token, nil, http.StatusOK},
		{"range category summary", http.MethodGet, "/reports/range-category-summary?startDate=2024-01-01&endDate=2024-12-31", token, nil, http.StatusOK},
		{"range daily summary", http.MethodGet, "/reports/range-daily-summary?startDate=2024-03-01&endDate=2024-03-31", token, nil, http.StatusOK},
		{"create category", http.MethodPost, "/categories", token, map[string]string{"name": "food"}, http.StatusCreated},
		{"duplicate category", http.MethodPost, "/categories", token, map[string]string{"name": "food"}, http.StatusConflict},
		{"list categories", http.MethodGet, "/categories", token, nil, http.StatusOK},
		{"delete category", http.MethodDelete, "/categories", token, map[string]string{"name": "food"}, http.StatusOK},
		{"delete category again", http.MethodDelete, "/categories", token, map[string]string{"name": "food"}, http.StatusNotFound},
		{"delete expense", http.MethodDelete, "/expenses/" + created.ID, token, nil, http.StatusOK},
		{"logout", http.MethodPost, "/api/logout", token, nil, http.StatusOK},
		{"me after logout", http.MethodGet, "/api/me", token, nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.t = t
			status, body := c.call(tt.method, tt.path, tt.token, tt.body)
			if status != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, status, body)
			}
		})
	}
}
