package middleware

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"barn-chat-backend/utils"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID returns the id Logging attached to ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// accessRecorder tracks status and body size. A hijacked connection is
// reported as 101.
type accessRecorder struct {
	http.ResponseWriter
	status   int
	size     int
	hijacked bool
}

func (r *accessRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *accessRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

func (r *accessRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *accessRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("accessRecorder: underlying ResponseWriter does not support hijacking")
	}
	r.hijacked = true
	return h.Hijack()
}

func (r *accessRecorder) finalStatus() int {
	switch {
	case r.hijacked:
		return http.StatusSwitchingProtocols
	case r.status == 0:
		return http.StatusOK
	default:
		return r.status
	}
}

type LogEntry struct {
	Time      string `json:"time"`
	RequestID string `json:"request_id"`
	Method    string `json:"method"`
	URI       string `json:"uri"`
	Status    int    `json:"status"`
	Size      int    `json:"size"`
	Duration  string `json:"duration"`
	ClientIP  string `json:"client_ip"`
	UserAgent string `json:"user_agent"`
}

// Logging writes one JSON access line per request. An incoming X-Request-ID
// is kept, otherwise a new one is generated; either way it is echoed in the
// response and stored in the request context.
func Logging() Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, reqID)
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, reqID))

			rec := &accessRecorder{ResponseWriter: w}
			next(rec, r)

			line, err := json.Marshal(LogEntry{
				Time:      start.Format(time.RFC3339),
				RequestID: reqID,
				Method:    r.Method,
				URI:       r.URL.RequestURI(),
				Status:    rec.finalStatus(),
				Size:      rec.size,
				Duration:  time.Since(start).String(),
				ClientIP:  utils.RealClientIP(r),
				UserAgent: r.UserAgent(),
			})
			if err != nil {
				log.Printf("[HTTP]: marshal access log: %v", err)
				return
			}
			log.Println(string(line))
		}
	}
}
