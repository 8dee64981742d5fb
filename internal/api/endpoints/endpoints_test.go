package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"barn-chat-backend/internal/api"
	"barn-chat-backend/internal/api/middleware"
	internaljwt "barn-chat-backend/internal/jwt"
	"barn-chat-backend/internal/queue"
	"barn-chat-backend/internal/websocket"

	"github.com/prometheus/client_golang/prometheus"
)

type fakePresence struct {
	rooms   []string
	rosters map[string][]string
	err     error
}

func (f *fakePresence) Rooms(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rooms, nil
}

func (f *fakePresence) Roster(ctx context.Context, room string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	names, ok := f.rosters[room]
	if !ok {
		return nil, websocket.ErrRoomNotFound
	}
	return names, nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	notices []websocket.Notice
}

func (p *recordingPublisher) PublishNotice(ctx context.Context, n websocket.Notice) error {
	if strings.TrimSpace(n.Text) == "" {
		return websocket.ErrEmptyNotice
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, n)
	return nil
}

func (p *recordingPublisher) snapshot() []websocket.Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]websocket.Notice(nil), p.notices...)
}

const testAPIKey = "barn_test-key"

type testEnv struct {
	handler   http.Handler
	signer    *internaljwt.Signer
	publisher *recordingPublisher
}

func setupHandler(t *testing.T, presence *fakePresence) testEnv {
	t.Helper()

	hash, err := internaljwt.HashKey(testAPIKey)
	if err != nil {
		t.Fatalf("hash key: %v", err)
	}
	signer := internaljwt.NewSigner("test-secret", internaljwt.RoleService, time.Minute)
	publisher := &recordingPublisher{}

	queueManager := queue.NewRequestQueueManager(10, 1)
	t.Cleanup(queueManager.Shutdown)

	reg := prometheus.NewRegistry()
	server := api.NewAPIServer(api.Config{ListenAddr: ":0", Registerer: reg, Gatherer: reg}, queueManager, nil)

	chat := NewChatEndpoints(nil, presence, publisher, "/api/rooms/")
	auth := NewAuthEndpoints(signer, hash)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/rooms", server.MakeHTTPHandleFunc(chat.Rooms))
	mux.HandleFunc("/api/rooms/", server.MakeHTTPHandleFunc(chat.RoomUsers))
	mux.HandleFunc("/api/notices", server.MakeHTTPHandleFunc(chat.Notices, middleware.ValidateJWTMiddleware(signer)))
	mux.HandleFunc("/api/auth/token", server.MakeHTTPHandleFunc(auth.Token))
	mux.HandleFunc("/api/chat", server.MakeHTTPHandleFunc(chat.Chat))

	return testEnv{handler: mux, signer: signer, publisher: publisher}
}

func doJSONRequest[T any](t *testing.T, handler http.Handler, method, target string, body interface{}, headers map[string]string, expectedStatus int) T {
	t.Helper()

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		payload = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, target, payload)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != expectedStatus {
		t.Fatalf("expected status %d, got %d: %s", expectedStatus, rec.Code, rec.Body.String())
	}

	var result T
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	return result
}

func TestRoomsEndpoint(t *testing.T) {
	env := setupHandler(t, &fakePresence{rooms: []string{"calving", "north-barn"}})

	resp := doJSONRequest[RoomsResponse](t, env.handler, http.MethodGet, "/api/rooms", nil, nil, http.StatusOK)
	if len(resp.Rooms) != 2 || resp.Rooms[0] != "calving" || resp.Rooms[1] != "north-barn" {
		t.Fatalf("unexpected rooms %v", resp.Rooms)
	}

	doJSONRequest[api.ApiError](t, env.handler, http.MethodPost, "/api/rooms", nil, nil, http.StatusMethodNotAllowed)
}

func TestRoomsEndpointEmptyList(t *testing.T) {
	env := setupHandler(t, &fakePresence{rooms: []string{}})

	req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if got := strings.TrimSpace(rec.Body.String()); got != `{"rooms":[]}` {
		t.Fatalf("expected empty JSON array, got %s", got)
	}
}

func TestRoomUsersEndpoint(t *testing.T) {
	env := setupHandler(t, &fakePresence{rosters: map[string][]string{
		"north-barn": {"Sam", "Alex"},
	}})

	resp := doJSONRequest[RoomUsersResponse](t, env.handler, http.MethodGet, "/api/rooms/north-barn/users", nil, nil, http.StatusOK)
	if resp.Room != "north-barn" || len(resp.Users) != 2 || resp.Users[0].Name != "Sam" || resp.Users[1].Name != "Alex" {
		t.Fatalf("unexpected roster %#v", resp)
	}

	errResp := doJSONRequest[api.ApiError](t, env.handler, http.MethodGet, "/api/rooms/empty-pen/users", nil, nil, http.StatusNotFound)
	if errResp.Error != "Room not found" {
		t.Fatalf("unexpected error message %q", errResp.Error)
	}

	doJSONRequest[api.ApiError](t, env.handler, http.MethodGet, "/api/rooms/north-barn", nil, nil, http.StatusNotFound)
	doJSONRequest[api.ApiError](t, env.handler, http.MethodGet, "/api/rooms/north-barn/users/extra", nil, nil, http.StatusNotFound)
}

func TestRoomsEndpointHubStopped(t *testing.T) {
	env := setupHandler(t, &fakePresence{err: websocket.ErrHubStopped})
	doJSONRequest[api.ApiError](t, env.handler, http.MethodGet, "/api/rooms", nil, nil, http.StatusServiceUnavailable)
}

func TestTokenAndNoticeFlow(t *testing.T) {
	env := setupHandler(t, &fakePresence{})

	doJSONRequest[api.ApiError](t, env.handler, http.MethodPost, "/api/auth/token", map[string]string{"apiKey": "barn_wrong"}, nil, http.StatusUnauthorized)
	doJSONRequest[api.ApiError](t, env.handler, http.MethodPost, "/api/auth/token", map[string]string{}, nil, http.StatusBadRequest)

	token := doJSONRequest[internaljwt.TokenResponse](t, env.handler, http.MethodPost, "/api/auth/token", map[string]string{"apiKey": testAPIKey}, nil, http.StatusOK)
	if token.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if _, err := env.signer.ParseToken(token.AccessToken); err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}

	notice := map[string]string{"room": "north-barn", "text": "Vet arrives at 3pm"}

	req := httptest.NewRequest(http.MethodPost, "/api/notices", strings.NewReader(`{"room":"north-barn","text":"x"}`))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("notice without token should be rejected, got %d", rec.Code)
	}

	auth := map[string]string{"Authorization": "Bearer " + token.AccessToken}
	doJSONRequest[ApiMessageResponse](t, env.handler, http.MethodPost, "/api/notices", notice, auth, http.StatusAccepted)
	doJSONRequest[api.ApiError](t, env.handler, http.MethodPost, "/api/notices", map[string]string{"room": "north-barn", "text": "  "}, auth, http.StatusBadRequest)

	got := env.publisher.snapshot()
	if len(got) != 1 || got[0].Room != "north-barn" || got[0].Text != "Vet arrives at 3pm" {
		t.Fatalf("unexpected published notices %#v", got)
	}
}

func TestChatEndpointWithoutUpgrader(t *testing.T) {
	env := setupHandler(t, &fakePresence{})
	doJSONRequest[api.ApiError](t, env.handler, http.MethodGet, "/api/chat", nil, nil, http.StatusServiceUnavailable)
}

func TestHealthEndpoint(t *testing.T) {
	healthy := NewUtilsEndpoints(map[string]HealthChecker{
		"hub": func(*http.Request) error { return nil },
	})
	rec := httptest.NewRecorder()
	if err := healthy.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil)); err != nil {
		t.Fatalf("health: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"hub":"ok"`) {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}

	failing := NewUtilsEndpoints(map[string]HealthChecker{
		"redis": func(*http.Request) error { return io.ErrUnexpectedEOF },
	})
	rec = httptest.NewRecorder()
	if err := failing.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil)); err != nil {
		t.Fatalf("health: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
