package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/waterfall/pkg/pipeline"
	"github.com/matzehuels/waterfall/pkg/store"
)

const modelJSON = `{
	"title": "Q3",
	"categories": [
		{"label": "Start", "values": [100]},
		{"label": "Sales", "values": [40]},
		{"label": "Costs", "values": [-25]},
		{"label": "End", "total": true}
	]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(nil, nil, logger)
	s := New(runner, st, logger,
		WithDefaults(pipeline.Options{Width: 600, Height: 300}),
		WithMetricsHandler(http.NotFoundHandler()),
	)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp := do(t, http.MethodGet, srv.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestRequestIDPropagation(t *testing.T) {
	srv := newTestServer(t)
	const id = "7f9c2ba4-e88f-4b7e-9d3a-2f1d0c1b6a55"

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}

	// Malformed IDs are replaced.
	req.Header.Set(RequestIDHeader, "<script>")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got == "<script>" || got == "" {
		t.Errorf("request id = %q, want a generated uuid", got)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	srv := newTestServer(t)
	resp := do(t, http.MethodPost, srv.URL+"/v1/layout", `{"model": `+modelJSON+`}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var out struct {
		Width      float64 `json:"width"`
		Categories int     `json:"categories"`
		Clusters   []struct {
			Category int `json:"category"`
		} `json:"clusters"`
	}
	decode(t, resp, &out)
	if out.Width != 600 {
		t.Errorf("width = %v, want server default 600", out.Width)
	}
	if out.Categories != 4 || len(out.Clusters) != 4 {
		t.Errorf("categories = %d, clusters = %d", out.Categories, len(out.Clusters))
	}
}

func TestRenderEndpoint(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name        string
		query       string
		status      int
		contentType string
	}{
		{"default svg", "", http.StatusOK, "image/svg+xml"},
		{"json", "?format=json", http.StatusOK, "application/json"},
		{"bad format", "?format=gif", http.StatusBadRequest, "application/json"},
		{"bad width", "?width=wide", http.StatusBadRequest, "application/json"},
		{"negative height", "?height=-5", http.StatusBadRequest, "application/json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+"/v1/render"+tt.query, `{"model": `+modelJSON+`}`)
			if resp.StatusCode != tt.status {
				body, _ := io.ReadAll(resp.Body)
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tt.status, body)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("content type = %q, want %q", got, tt.contentType)
			}
		})
	}
}

func TestRenderEndpointViewport(t *testing.T) {
	srv := newTestServer(t)
	resp := do(t, http.MethodPost, srv.URL+"/v1/render?width=320&height=200&scale=3&start=150", `{"model": `+modelJSON+`}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(body, []byte(`viewBox="0 0 320.0 200.0"`)) {
		t.Errorf("svg viewBox not sized to viewport: %.120s", body)
	}
}

func TestRenderBadBody(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"no model", `{}`},
		{"unknown field", `{"model": {"categories": []}, "extra": 1}`},
		{"invalid model", `{"model": {"categories": [], "scale": -1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+"/v1/render", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			var e errorResponse
			decode(t, resp, &e)
			if e.Error == "" || e.RequestID == "" {
				t.Errorf("error response = %+v", e)
			}
		})
	}
}

func TestChartLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/v1/charts", modelJSON)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var rec store.Record
	decode(t, resp, &rec)
	if rec.ID == "" || rec.Model.Title != "Q3" {
		t.Fatalf("created record = %+v", rec)
	}
	if loc := resp.Header.Get("Location"); loc != "/v1/charts/"+rec.ID {
		t.Errorf("Location = %q", loc)
	}

	resp = do(t, http.MethodGet, srv.URL+"/v1/charts/"+rec.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}

	updated := strings.Replace(modelJSON, `"Q3"`, `"Q4"`, 1)
	resp = do(t, http.MethodPut, srv.URL+"/v1/charts/"+rec.ID, updated)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put status = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, srv.URL+"/v1/charts", "")
	var list struct {
		Charts []store.Record `json:"charts"`
	}
	decode(t, resp, &list)
	if len(list.Charts) != 1 || list.Charts[0].Model.Title != "Q4" {
		t.Errorf("list = %+v", list.Charts)
	}

	resp = do(t, http.MethodGet, srv.URL+"/v1/charts/"+rec.ID+"/render?format=svg&labels=true", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("render status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Cache"); got != "miss" {
		t.Errorf("X-Cache = %q, want miss", got)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(body, []byte("Q4")) {
		t.Error("rendered svg missing updated title")
	}

	resp = do(t, http.MethodDelete, srv.URL+"/v1/charts/"+rec.ID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, srv.URL+"/v1/charts/"+rec.ID, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d", resp.StatusCode)
	}
}

func TestChartBadID(t *testing.T) {
	srv := newTestServer(t)
	resp := do(t, http.MethodPut, srv.URL+"/v1/charts/bad.id", modelJSON)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestNoStoreDisablesCharts(t *testing.T) {
	s := New(pipeline.NewRunner(nil, nil, log.New(io.Discard)), nil, log.New(io.Discard))
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp := do(t, http.MethodGet, srv.URL+"/v1/charts", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
