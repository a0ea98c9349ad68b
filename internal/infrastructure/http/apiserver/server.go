// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/fridgeraider/fridgeraider/internal/infrastructure/config"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/http/handlers"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/http/middleware"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/monitoring"
	"github.com/fridgeraider/fridgeraider/pkg/healthcheck"
)

// APIServer represents the JSON API HTTP server
type APIServer struct {
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
	router   *chi.Mux
	handlers *handlers.APIHandlers
	health   *healthcheck.HealthCheck
	metrics  *monitoring.MetricsCollector
	openAPI  *OpenAPIHandler
	started  time.Time
}

// NewAPIServer creates a new API server instance
func NewAPIServer(
	cfg *config.Config,
	log *zap.Logger,
	h *handlers.APIHandlers,
	health *healthcheck.HealthCheck,
	metrics *monitoring.MetricsCollector,
	tracing *monitoring.TracingProvider,
) *APIServer {
	s := &APIServer{
		config:   cfg,
		logger:   log.Named("apiserver"),
		handlers: h,
		health:   health,
		metrics:  metrics,
		openAPI:  NewOpenAPIHandler(log),
		started:  time.Now(),
	}

	s.router = s.setupRoutes()

	var handler http.Handler = s.router
	if tracing != nil && tracing.Enabled() {
		handler = otelhttp.NewHandler(handler, cfg.Monitoring.ServiceName)
	}

	s.server = &http.Server{
		Addr:           cfg.Server.Address(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return s
}

// setupRoutes configures the API routes
func (s *APIServer) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	if s.config.Server.EnableCORS {
		r.Use(middleware.CORS(s.config.Server.AllowedOrigins))
	}
	if s.metrics != nil {
		r.Use(middleware.Metrics(s.metrics))
	}

	r.Get("/health", s.handleHealthCheck)
	r.Get("/health/ready", s.health.ReadinessHandler())
	if s.metrics != nil && s.config.Monitoring.EnableMetrics {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/openapi.yaml", s.openAPI.ServeOpenAPISpec)
		r.Get("/openapi.json", s.openAPI.ServeOpenAPIJSON)

		// The socket outlives any request timeout and must not be compressed.
		if s.config.Features.EnableChatStream {
			r.Get("/chat/stream", s.handlers.ChatStream)
		}

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Timeout(s.config.Server.RequestTimeout))
			if s.config.Server.EnableCompression {
				r.Use(chimiddleware.Compress(5))
			}
			r.Use(middleware.JSONOnly())
			s.handlers.Mount(r)
		})
	})

	return r
}

// Router returns the route tree without tracing
func (s *APIServer) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *APIServer) Start() error {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")
	return s.server.Shutdown(ctx)
}

func (s *APIServer) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "healthy",
		"service":   s.config.App.Name,
		"version":   s.config.App.Version,
		"timestamp": time.Now().Unix(),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
	if err != nil {
		s.logger.Error("Failed to encode health response", zap.Error(err))
	}
}
