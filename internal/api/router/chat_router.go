package router

import (
	"log"
	"net/http"
	"strings"

	"barn-chat-backend/internal/api"
	"barn-chat-backend/internal/api/endpoints"
	"barn-chat-backend/internal/api/middleware"
)

func ChatRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		handler := s.Handler()
		if handler == nil {
			log.Printf("[HTTP]: chat routes skipped, no websocket handler configured")
			return
		}
		hub := handler.Hub()

		base := strings.TrimRight(prefix, "/")
		chatEndpoints := endpoints.NewChatEndpoints(handler, hub, handler.Publisher(), base+"/rooms/")

		limiter := middleware.ConnectionLimiter(s.MaxConnections(), func(r *http.Request) (int, error) {
			stats, err := hub.Stats(r.Context())
			if err != nil {
				return 0, err
			}
			return stats.Connections, nil
		})

		mux.HandleFunc(base+"/chat", s.MakeHTTPHandleFunc(chatEndpoints.Chat, limiter))
		mux.HandleFunc(base+"/rooms", s.MakeHTTPHandleFunc(chatEndpoints.Rooms))
		mux.HandleFunc(base+"/rooms/", s.MakeHTTPHandleFunc(chatEndpoints.RoomUsers))

		if signer := s.Signer(); signer != nil {
			mux.HandleFunc(base+"/notices", s.MakeHTTPHandleFunc(chatEndpoints.Notices, middleware.ValidateJWTMiddleware(signer)))
		} else {
			log.Printf("[HTTP]: %s/notices disabled, SERVICE_SECRET not set", base)
		}
	}
}
