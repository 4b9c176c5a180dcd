// Package api provides the HTTP API server for reconkit. It exposes the
// tool-execution engine over a versioned REST surface together with health,
// metrics and authorization-gate endpoints.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reconkit/reconkit/internal/api/handlers"
	"github.com/reconkit/reconkit/internal/api/middleware"
	"github.com/reconkit/reconkit/internal/auth"
	"github.com/reconkit/reconkit/internal/config"
	"github.com/reconkit/reconkit/internal/logging"
	"github.com/reconkit/reconkit/internal/metrics"
	"github.com/reconkit/reconkit/internal/recon"
)

const (
	// Connection-level timeouts for the embedded http.Server. The write
	// timeout is derived from the configured request timeout so long tool
	// runs are not cut off mid-response.
	readTimeout       = 30 * time.Second
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 120 * time.Second
	writeTimeoutSlack = 30 * time.Second
)

// Server represents the reconkit API server
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	config     *config.Config
	engine     *recon.Engine
	gate       *auth.Gate
	logger     *logging.Logger
	registry   *metrics.Registry
}

// New creates a new API server instance. The logger may be nil, in which
// case the process-wide default logger is used.
func New(cfg *config.Config, engine *recon.Engine, gate *auth.Gate, logger *logging.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if engine == nil {
		return nil, fmt.Errorf("tool engine is required")
	}
	if gate == nil {
		return nil, fmt.Errorf("authorization gate is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	s := &Server{
		router:   mux.NewRouter(),
		config:   cfg,
		engine:   engine,
		gate:     gate,
		logger:   logger.WithComponent("api"),
		registry: metrics.NewRegistry(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.API.ListenAddr, strconv.Itoa(cfg.API.Port)),
		Handler:           s.router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      cfg.API.RequestTimeout + writeTimeoutSlack,
		IdleTimeout:       idleTimeout,
	}

	return s, nil
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(s.gate, s.logger, s.registry)
	api.HandleFunc("/health", healthHandler.Health).Methods("GET")
	api.HandleFunc("/health/live", healthHandler.Liveness).Methods("GET")
	api.HandleFunc("/health/ready", healthHandler.Readiness).Methods("GET")

	// Prometheus exposition
	api.Handle("/metrics", promhttp.HandlerFor(
		metrics.GetGlobalMetrics().GetRegistry(),
		promhttp.HandlerOpts{},
	)).Methods("GET")

	// Authorization gate
	authzHandler := handlers.NewAuthorizationHandler(s.gate, s.logger, s.registry)
	api.HandleFunc("/authorization", authzHandler.Get).Methods("GET")
	api.HandleFunc("/authorization", authzHandler.Update).Methods("POST")

	// Tool endpoints
	toolsHandler := handlers.NewToolsHandler(s.engine, s.gate, s.logger, s.registry)
	tools := api.PathPrefix("/tools").Subrouter()
	tools.HandleFunc("/whois", toolsHandler.Whois).Methods("POST")
	tools.HandleFunc("/dns", toolsHandler.DNS).Methods("POST")
	tools.HandleFunc("/reverse-dns", toolsHandler.ReverseDNS).Methods("POST")
	tools.HandleFunc("/ping", toolsHandler.Ping).Methods("POST")
	tools.HandleFunc("/portscan", toolsHandler.PortScan).Methods("POST")
	tools.HandleFunc("/headers", toolsHandler.Headers).Methods("POST")
	tools.HandleFunc("/tech-detect", toolsHandler.TechDetect).Methods("POST")
	tools.HandleFunc("/subdomain-enum", toolsHandler.SubdomainEnum).Methods("POST")
	tools.HandleFunc("/social-lookup", toolsHandler.SocialLookup).Methods("POST")
	tools.HandleFunc("/email-harvest", toolsHandler.EmailHarvest).Methods("POST")
	tools.HandleFunc("/wayback", toolsHandler.Wayback).Methods("POST")
	tools.HandleFunc("/subnet-calc", toolsHandler.SubnetCalc).Methods("POST")

	// Service index for clients poking at the root
	s.router.HandleFunc("/", s.handleIndex).Methods("GET")
}

// setupMiddleware configures the middleware chain. Registration order is
// outermost first: security headers and logging wrap everything, while
// authentication runs innermost so rejected requests are still logged and
// counted.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.SecurityHeaders())

	if s.config.Logging.RequestLogging {
		s.router.Use(middleware.Logging(s.logger))
	}

	s.router.Use(middleware.Metrics(s.registry))
	s.router.Use(middleware.Recovery(s.logger))

	if s.config.API.CORS.Enabled {
		corsOrigins := gorillahandlers.AllowedOrigins(s.config.API.CORS.AllowedOrigins)
		corsMethods := gorillahandlers.AllowedMethods(s.config.API.CORS.AllowedMethods)
		corsHeaders := gorillahandlers.AllowedHeaders(s.config.API.CORS.AllowedHeaders)
		s.router.Use(gorillahandlers.CORS(corsOrigins, corsMethods, corsHeaders))
	}

	if s.config.API.RateLimit.Enabled {
		s.router.Use(middleware.RateLimit(
			s.config.API.RateLimit.Requests,
			s.config.API.RateLimit.Window,
			s.logger,
		))
	}

	s.router.Use(s.limitBody)
	s.router.Use(middleware.ContentType())
	s.router.Use(middleware.RequestTimeout(s.config.API.RequestTimeout))

	if s.config.API.APIKeyHash != "" {
		s.router.Use(middleware.Authentication(s.config.API.APIKeyHash, s.logger))
	}
}

// limitBody caps request bodies at the configured maximum before any handler
// reads them.
func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, s.config.API.MaxRequestSize)
		}
		next.ServeHTTP(w, r)
	})
}

// handleIndex serves a small service index at the root path.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	index := map[string]interface{}{
		"service":       "reconkit",
		"api":           "/api/v1",
		"health":        "/api/v1/health",
		"metrics":       "/api/v1/metrics",
		"authorization": "/api/v1/authorization",
		"tools":         "/api/v1/tools",
	}
	if err := json.NewEncoder(w).Encode(index); err != nil {
		s.logger.Error("Failed to encode index response", "error", err)
	}
}

// Start starts the API server and blocks until the context is canceled or
// the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting API server",
		"address", s.httpServer.Addr,
		"auth_enabled", s.config.API.APIKeyHash != "",
		"cors_enabled", s.config.API.CORS.Enabled,
		"rate_limit_enabled", s.config.API.RateLimit.Enabled,
	)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Stop()
	case err := <-errChan:
		return fmt.Errorf("failed to start server: %w", err)
	}
}

// Stop gracefully shuts down the API server
func (s *Server) Stop() error {
	s.logger.Info("Stopping API server")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.API.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server gracefully: %w", err)
	}

	s.logger.Info("API server stopped")
	return nil
}

// GetRouter returns the underlying router, primarily for testing
func (s *Server) GetRouter() *mux.Router {
	return s.router
}

// GetAddress returns the address the server listens on
func (s *Server) GetAddress() string {
	return s.httpServer.Addr
}

// GetMetricsRegistry returns the in-memory metrics registry backing the
// middleware and handlers.
func (s *Server) GetMetricsRegistry() *metrics.Registry {
	return s.registry
}

// IsRunning reports whether the listener is accepting connections
func (s *Server) IsRunning() bool {
	conn, err := net.DialTimeout("tcp", s.httpServer.Addr, time.Second)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
