package webhook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Server represents the webhook HTTP server.
type Server struct {
	config Config
	auth   *Authenticator
	logger *slog.Logger
	server *http.Server
}

// New creates a new webhook server instance.
func New(config Config, secrets SecretSource, logger *slog.Logger) *Server {
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = DefaultMaxBodySize
	}
	if config.SignatureHeader == "" {
		config.SignatureHeader = DefaultSignatureHeader
	}
	if len(config.Paths) == 0 {
		config.Paths = []string{DefaultPath}
	}

	return &Server{
		config: config,
		auth:   NewAuthenticator(secrets),
		logger: logger,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// Start listens on the configured address and serves until ctx is done (blocking).
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return fmt.Errorf("webhook server listen failed: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.server = &http.Server{
		Handler:      s.setupRoutes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("webhook server listening", "addr", ln.Addr().String(), "paths", s.config.Paths)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("webhook server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("webhook server error: %w", err)
	}
}

// setupRoutes configures the HTTP router.
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get(HealthPath, s.handleHealth)
	for _, path := range s.config.Paths {
		r.Post(path, s.handleWebhook)
	}

	return r
}

// loggingMiddleware logs HTTP requests (excludes payloads).
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok")
}

// handleWebhook authenticates a delivery and answers with a bare status code.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, s.config.MaxBodySize+1))
	if err != nil {
		s.logger.Warn("failed to read webhook body", "request_id", reqID, "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if int64(len(body)) > s.config.MaxBodySize {
		s.logger.Warn("webhook payload too large",
			"request_id", reqID,
			"max_body_size", s.config.MaxBodySize,
		)
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		return
	}

	values := r.Header.Values(s.config.SignatureHeader)
	var signature string
	if len(values) > 0 {
		signature = values[0]
	}

	outcome := s.auth.Authenticate(body, signature, len(values) > 0)
	switch outcome {
	case ConfigurationError:
		s.logger.Error("webhook secret is not set", "request_id", reqID, "outcome", outcome.String())
	case MissingSignature:
		s.logger.Warn("webhook signature missing",
			"request_id", reqID,
			"outcome", outcome.String(),
			"header", s.config.SignatureHeader,
		)
	case InvalidSignature:
		s.logger.Warn("webhook signature invalid", "request_id", reqID, "outcome", outcome.String())
	case Authenticated:
		s.logger.Info("webhook received",
			"request_id", reqID,
			"outcome", outcome.String(),
			"delivery_id", uuid.NewString(),
			"bytes", len(body),
			"body", DescribeBody(body),
		)
	}

	w.WriteHeader(outcome.StatusCode())
}
