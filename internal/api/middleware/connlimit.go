package middleware

import (
	"log"
	"net/http"
)

// ConnectionCounter reports how many chat connections are currently open.
type ConnectionCounter func(r *http.Request) (int, error)

// ConnectionLimiter refuses new websocket sessions once max are open.
// A max of zero or less disables the limit.
func ConnectionLimiter(max int, counter ConnectionCounter) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if max <= 0 {
				next(w, r)
				return
			}

			count, err := counter(r)
			if err != nil {
				log.Printf("[HTTP]: connection limiter could not count connections: %v", err)
				http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
				return
			}
			if count >= max {
				log.Printf("[HTTP]: connection limit reached (%d)", count)
				http.Error(w, "Too Many Active Connections", http.StatusTooManyRequests)
				return
			}

			next(w, r)
		}
	}
}
