package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"barn-chat-backend/internal/queue"

	"github.com/prometheus/client_golang/prometheus"
)

func newTestServer(t *testing.T, registrars ...RouteRegistrar) (*APIServer, *queue.RequestQueueManager) {
	t.Helper()
	reg := prometheus.NewRegistry()
	rqm := queue.NewRequestQueueManager(10, 2)
	t.Cleanup(rqm.Shutdown)
	s := NewAPIServer(Config{ListenAddr: ":0", Registerer: reg, Gatherer: reg}, rqm, nil, registrars...)
	return s, rqm
}

func TestSanitizePath(t *testing.T) {
	cases := map[string]string{
		"":                                  "/",
		"/":                                 "/",
		"/api/ws/v1/health":                 "/api/ws/v1/health",
		"/api/ws/v1/rooms/north-barn/users": "/api/ws/v1/rooms/:room/users",
		"/api/ws/v1/rooms/":                 "/api/ws/v1/rooms",
		"/a/b/c/d/e/f/g/h/i":                "/a/b/c/d/e/f/g/...",
		"relative/path":                     "/relative/path",
	}
	for in, want := range cases {
		if got := sanitizePath(in); got != want {
			t.Errorf("sanitizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMakeHTTPHandleFuncMapsErrors(t *testing.T) {
	s, _ := newTestServer(t)

	h := s.MakeHTTPHandleFunc(func(w http.ResponseWriter, r *http.Request) error {
		return &HTTPError{StatusCode: http.StatusNotFound, Message: "Room not found", ErrorLog: errors.New("no such room")}
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/rooms/x/users", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Room not found") {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}

	h = s.MakeHTTPHandleFunc(func(w http.ResponseWriter, r *http.Request) error {
		return fmt.Errorf("boom")
	})
	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestMakeHTTPHandleFuncQueueClosed(t *testing.T) {
	s, rqm := newTestServer(t)
	rqm.Shutdown()

	h := s.MakeHTTPHandleFunc(func(w http.ResponseWriter, r *http.Request) error {
		t.Error("handler should not run on a closed queue")
		return nil
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRoutesExposeMetrics(t *testing.T) {
	s, _ := newTestServer(t, func(mux *http.ServeMux, s *APIServer) {
		mux.HandleFunc("/ping", s.MakeHTTPHandleFunc(func(w http.ResponseWriter, r *http.Request) error {
			return WriteJSON(w, http.StatusOK, map[string]string{"message": "pong"})
		}))
	})
	handler := s.Routes()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("ping failed: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "barn_chat_http_requests_total") {
		t.Fatalf("metrics output missing request counter:\n%s", rec.Body.String())
	}
}

func TestNewAPIServerSharesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewAPIServer(Config{ListenAddr: ":1", Registerer: reg}, nil, nil)
	second := NewAPIServer(Config{ListenAddr: ":1", Registerer: reg}, nil, nil)
	if first.metrics.requests != second.metrics.requests {
		t.Fatal("identical collectors should be reused")
	}
}
