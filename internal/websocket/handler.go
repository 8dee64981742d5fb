package websocket

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

type HandlerConfig struct {
	Client ClientConfig
	// AllowedOrigins restricts the Origin header on upgrade. Empty or "*"
	// allows every origin.
	AllowedOrigins []string
}

type Handler struct {
	hub       *Hub
	upgrader  websocket.Upgrader
	client    ClientConfig
	publisher NoticePublisher
}

// NewHandler wires the hub to the HTTP surface. A nil publisher injects
// notices directly into the hub.
func NewHandler(h *Hub, cfg HandlerConfig, publisher NoticePublisher) *Handler {
	if publisher == nil {
		publisher = h
	}
	return &Handler{
		hub: h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
		client:    cfg.Client,
		publisher: publisher,
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

func (h *Handler) Hub() *Hub {
	return h.hub
}

func (h *Handler) Publisher() NoticePublisher {
	return h.publisher
}

// ServeChat upgrades the request and attaches a fresh, unbound connection to
// the hub. It returns as soon as the pumps are running.
func (h *Handler) ServeChat(w http.ResponseWriter, r *http.Request) error {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the request.
		log.Printf("[WEBSOCKET]: upgrade failed: %v", err)
		return nil
	}

	conn, err := h.hub.Connect(r.Context())
	if err != nil {
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "chat unavailable"), deadline())
		_ = ws.Close()
		log.Printf("[WEBSOCKET]: connect failed: %v", err)
		return nil
	}

	newWSClient(ws, conn, h.hub, h.client).start()
	log.Printf("[WEBSOCKET]: client %s connected from %s", conn.ID(), r.RemoteAddr)
	return nil
}
