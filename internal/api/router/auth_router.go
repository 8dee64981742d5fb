package router

import (
	"log"
	"net/http"

	"barn-chat-backend/internal/api"
	"barn-chat-backend/internal/api/endpoints"
)

func AuthRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		if s.Signer() == nil || s.ServiceKeyHash() == "" {
			log.Printf("[HTTP]: %s/auth/token disabled, SERVICE_SECRET or SERVICE_KEY_HASH not set", prefix)
			return
		}
		authEndpoints := endpoints.NewAuthEndpoints(s.Signer(), s.ServiceKeyHash())
		mux.HandleFunc(prefix+"/auth/token", s.MakeHTTPHandleFunc(authEndpoints.Token))
	}
}
