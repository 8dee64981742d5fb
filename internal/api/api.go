package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	internaljwt "barn-chat-backend/internal/jwt"
	"barn-chat-backend/internal/queue"
	"barn-chat-backend/internal/websocket"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouteRegistrar func(mux *http.ServeMux, s *APIServer)

type Config struct {
	ListenAddr     string
	AllowedOrigins []string
	// Signer issues and verifies service tokens. Nil disables the
	// authenticated routes.
	Signer         *internaljwt.Signer
	ServiceKeyHash string
	MaxConnections int
	// Registerer defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

type APIServer struct {
	cfg                 Config
	requestQueueManager *queue.RequestQueueManager
	routeRegistrars     []RouteRegistrar
	handler             *websocket.Handler
	metrics             *metrics

	mu     sync.Mutex
	server *http.Server
}

func NewAPIServer(cfg Config, rqm *queue.RequestQueueManager, handler *websocket.Handler, registrars ...RouteRegistrar) *APIServer {
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.DefaultRegisterer
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	return &APIServer{
		cfg:                 cfg,
		requestQueueManager: rqm,
		handler:             handler,
		routeRegistrars:     registrars,
		metrics:             newMetrics(cfg.Registerer, cfg.ListenAddr, rqm),
	}
}

// Routes builds the instrumented mux with every registered route plus /metrics.
func (s *APIServer) Routes() http.Handler {
	mux := http.NewServeMux()

	for _, reg := range s.routeRegistrars {
		reg(mux, s)
	}

	mux.Handle("/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{}))

	return s.metrics.instrument(mux)
}

// Run serves until Shutdown is called. A clean shutdown returns nil.
func (s *APIServer) Run() error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	log.Printf("[HTTP]: server listening on http://localhost%s", s.cfg.ListenAddr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests. Hijacked websocket connections are not
// tracked by net/http and must be closed through the hub.
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *APIServer) Handler() *websocket.Handler {
	return s.handler
}

func (s *APIServer) Signer() *internaljwt.Signer {
	return s.cfg.Signer
}

func (s *APIServer) ServiceKeyHash() string {
	return s.cfg.ServiceKeyHash
}

func (s *APIServer) MaxConnections() int {
	return s.cfg.MaxConnections
}
