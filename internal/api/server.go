// Package api exposes the generation pipeline and publish client over HTTP.
//
// Every endpoint answers with one envelope shape:
//
//	{"success": true,  "data": ...}
//	{"success": false, "error": ...}
//
// /health and /ready sit outside the middleware stack so probes are never
// rate limited or logged per request.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/reelforge/reelforge/internal/creds"
	"github.com/reelforge/reelforge/internal/log"
)

const (
	// DefaultAddr is the default address for the HTTP server.
	DefaultAddr = "127.0.0.1:8080"

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout is the timeout for reading request headers.
	// This prevents Slowloris attacks (CWE-400).
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout = 30 * time.Second

	// WriteTimeout is the maximum duration for writing the response.
	// Generation pipelines block on two model calls, two uploads and a
	// transcode, so this is generous.
	WriteTimeout = 5 * time.Minute

	// IdleTimeout is the maximum time to wait for the next request on
	// keep-alive connections.
	IdleTimeout = 120 * time.Second
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger      log.Logger
	Generator   Generator    // Required
	Publisher   Publisher    // Required
	Credentials creds.Source // Required
	CORSOrigins []string     // Allowed origins for CORS
	TrustProxy  bool         // Trust X-Real-IP/X-Forwarded-For headers (behind reverse proxy)
	RateBurst   int          // Rate limiter burst size per IP (0 = default 30)
}

// Server is the JSON API HTTP server.
type Server struct {
	mux    *http.ServeMux
	logger log.Logger
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gh := &generateHandler{generator: cfg.Generator, logger: logger}
	sh := &shareHandler{publisher: cfg.Publisher, source: cfg.Credentials, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/generate", gh.generate)
	mux.HandleFunc("POST /api/v1/share", sh.share)

	// Rate limiter: per-IP token bucket (1 token/sec refill)
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 30
	}
	rl := newRateLimiter(1.0, burst)

	// Build middleware stack (outermost first):
	//   Recovery → RequestID → Logging → CORS → RateLimit → Routes
	// RequestID must be before Logging so request ids and responses line up.
	// CORS must be before RateLimit so preflight OPTIONS gets proper CORS headers.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Health probes bypass the middleware stack.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health(logger))
	topMux.HandleFunc("GET /ready", readiness(logger))
	topMux.Handle("/", handler)

	return &Server{mux: topMux, logger: logger}
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run starts the HTTP server and blocks until ctx is canceled or the
// listener fails. Shutdown is graceful with ShutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
