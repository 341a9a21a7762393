package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/plansheet/plansheet/internal/store"
	"github.com/plansheet/plansheet/internal/workbook"
)

// Server is the Plansheet HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	handlers   *Handlers
	logger     *slog.Logger
}

// Handler returns the root HTTP handler for use in tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ServerConfig holds all dependencies and configuration for creating a Server.
type ServerConfig struct {
	// Required dependencies.
	Assembler *workbook.Assembler
	Artifacts store.Store
	Logger    *slog.Logger

	// HTTP server settings.
	Port                int
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	BaseURL             string
	ArtifactTTL         time.Duration
	MaxRequestBodyBytes int64
	Version             string
}

// New creates a new HTTP server with all routes configured.
func New(cfg ServerConfig) *Server {
	h := NewHandlers(HandlersDeps{
		Assembler:           cfg.Assembler,
		Artifacts:           cfg.Artifacts,
		Logger:              cfg.Logger,
		BaseURL:             cfg.BaseURL,
		ArtifactTTL:         cfg.ArtifactTTL,
		MaxRequestBodyBytes: cfg.MaxRequestBodyBytes,
		Version:             cfg.Version,
	})

	mux := http.NewServeMux()

	// Generation. The method-less pattern catches everything the two
	// method-specific patterns don't, so unsupported methods get the JSON
	// 405 body instead of the mux's plain-text one.
	mux.HandleFunc("POST /generate", h.HandleGenerate)
	mux.HandleFunc("OPTIONS /generate", h.HandlePreflight)
	mux.HandleFunc("/generate", h.HandleMethodNotAllowed)

	// Retrieval. The trailing-slash and bare forms carry no ID.
	mux.HandleFunc("GET /download/{id}", h.HandleDownload)
	mux.HandleFunc("GET /download/", h.HandleMissingID)
	mux.HandleFunc("GET /download", h.HandleMissingID)

	// Health (no CORS requirements, but the headers are harmless).
	mux.HandleFunc("GET /health", h.HandleHealth)

	// Middleware chain (outermost executes first):
	// request ID → CORS → tracing → logging → recovery → handler.
	var handler http.Handler = mux
	handler = recoveryMiddleware(cfg.Logger, handler)
	handler = loggingMiddleware(cfg.Logger, handler)
	handler = tracingMiddleware(handler)
	handler = corsMiddleware(handler)
	handler = requestIDMiddleware(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		handler:  handler,
		handlers: h,
		logger:   cfg.Logger,
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
