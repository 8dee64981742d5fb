package router

import (
	"net/http"

	"barn-chat-backend/internal/api"
	"barn-chat-backend/internal/api/endpoints"
)

func UtilsRoutes(prefix string, checks map[string]endpoints.HealthChecker) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		utilsEndpoints := endpoints.NewUtilsEndpoints(checks)
		mux.HandleFunc(prefix+"/hello-world", s.MakeHTTPHandleFunc(utilsEndpoints.HelloWorld))
		mux.HandleFunc(prefix+"/health", s.MakeHTTPHandleFunc(utilsEndpoints.Health))
	}
}
