package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"barn-chat-backend/internal/api/middleware"
	"barn-chat-backend/internal/queue"
)

type apiFunc func(http.ResponseWriter, *http.Request) error

func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func (s *APIServer) corsConfig() middleware.CORSConfig {
	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return middleware.CORSConfig{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Requested-With", "Authorization", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           600,
	}
}

// MakeHTTPHandleFunc runs f on the request queue behind CORS and access
// logging. routeMiddleware runs before the job is queued, outermost first.
func (s *APIServer) MakeHTTPHandleFunc(f apiFunc, routeMiddleware ...middleware.Middleware) http.HandlerFunc {
	baseHandler := func(w http.ResponseWriter, r *http.Request) {
		errc := make(chan error, 1)

		job := queue.Job{
			Fn: func() error {
				return f(w, r)
			},
			Errc: errc,
		}

		if err := s.requestQueueManager.EnqueueJob(job); err != nil {
			if errors.Is(err, queue.ErrQueueClosed) {
				WriteJSON(w, http.StatusServiceUnavailable, ApiError{Error: "Server is shutting down"})
				return
			}
			WriteJSON(w, http.StatusInternalServerError, ApiError{Error: "Internal server error"})
			return
		}

		if err := <-errc; err != nil {
			writeError(w, r, err)
		}
	}

	finalHandler := middleware.Chain(baseHandler, routeMiddleware...)

	return middleware.Chain(finalHandler, middleware.CORS(s.corsConfig()), middleware.Logging())
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.RequestID(r.Context())

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.ErrorLog != nil {
			log.Printf("[HTTP]: request %s: %v", reqID, httpErr.ErrorLog)
		}
		WriteJSON(w, httpErr.StatusCode, ApiError{Error: httpErr.Message})
		return
	}
	log.Printf("[HTTP]: request %s: unhandled error: %v", reqID, err)
	WriteJSON(w, http.StatusInternalServerError, ApiError{Error: "Internal server error"})
}
