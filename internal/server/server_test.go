package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lazypower/keepsharp/internal/engine"
	"github.com/lazypower/keepsharp/internal/store"
)

var fixedNow = time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

func testServer(t *testing.T) *Server {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	e := engine.New(db, nil)
	e.Now = func() time.Time { return fixedNow }
	if err := e.Init(context.Background(), nil); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return New(e, nil, "test-version")
}

// do sends a request with an optional JSON body and returns the recorder.
func do(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, "GET", "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]any
	decode(t, w, &body)

	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["version"] != "test-version" {
		t.Errorf("version = %v, want test-version", body["version"])
	}
	if body["db"] != true {
		t.Errorf("db = %v, want true", body["db"])
	}
}

func TestRequestIDHeaderAccepted(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest("GET", "/api/health", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestUnknownRoute(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, "GET", "/api/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{"/api/skills/missing", http.StatusNotFound},
		{"/api/logs?limit=abc", http.StatusBadRequest},
		{"/api/logs?limit=-1", http.StatusBadRequest},
		{"/api/logs?skill_id=missing", http.StatusNotFound},
		{"/api/history?days=x", http.StatusBadRequest},
		{"/api/export?format=pdf", http.StatusBadRequest},
	}

	srv := testServer(t)
	for _, tt := range tests {
		w := do(t, srv, "GET", tt.path, nil)
		if w.Code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, w.Code, tt.want)
			continue
		}
		var body map[string]string
		decode(t, w, &body)
		if body["error"] == "" {
			t.Errorf("GET %s: missing error message", tt.path)
		}
	}
}
