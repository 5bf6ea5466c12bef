package server

import (
	"context"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zhengjr9/llm-stream-sim/internal/completion"
	"github.com/zhengjr9/llm-stream-sim/internal/config"
)

// Server is the HTTP front of the completions simulator.
type Server struct {
	httpServer *http.Server
}

// New constructs a Server from the given config.
func New(cfg *config.Config) *Server {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	completions := completion.NewHandler(cfg.MaxBodyBytes)
	router.Handle("/v1/chat/completions", completions).Methods(http.MethodPost)
	router.HandleFunc("/v1/chat/completions", preflight).Methods(http.MethodOptions)

	router.HandleFunc("/health", health).Methods(http.MethodGet)
	router.HandleFunc("/", info).Methods(http.MethodGet)
	if cfg.MetricsEnabled {
		router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}

	var handler http.Handler = router
	handler = loggingMiddleware(handler)
	handler = corsMiddleware(handler)
	handler = requestIDMiddleware(handler)
	handler = recoveryMiddleware(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Start begins listening and blocks until the server is stopped.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on l and blocks until the server is stopped.
func (s *Server) Serve(l net.Listener) error {
	return s.httpServer.Serve(l)
}

// Handler returns the underlying http.Handler (for use in tests with httptest.NewServer).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Shutdown gracefully stops the server, letting in-flight streams finish
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
