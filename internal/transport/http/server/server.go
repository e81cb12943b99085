package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vedran77/pulse-mirror/internal/transport/http/handlers"
	"github.com/vedran77/pulse-mirror/internal/transport/http/middleware"
)

const shutdownTimeout = 5 * time.Second

// Config holds the listen address. A non-empty JWTSecret protects /metrics
// and /api.
type Config struct {
	Addr      string
	JWTSecret string
}

// Server exposes health, status and Prometheus metrics for a running
// session.
type Server struct {
	srv *http.Server
	log *zap.Logger
}

func New(cfg Config, session handlers.StatusReader, gatherer prometheus.Gatherer, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("http")
	return &Server{
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           middleware.Logging(log)(Routes(cfg, session, gatherer)),
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

// Routes builds the mux. Exposed for tests.
func Routes(cfg Config, session handlers.StatusReader, gatherer prometheus.Gatherer) http.Handler {
	status := handlers.NewStatusHandler(session)

	protect := func(h http.Handler) http.Handler { return h }
	if cfg.JWTSecret != "" {
		protect = middleware.Auth(cfg.JWTSecret)
	}

	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", status.Health)

	// Protected
	mux.Handle("GET /metrics", protect(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	mux.Handle("GET /api/v1/status", protect(http.HandlerFunc(status.Status)))

	return mux
}

// Run serves until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.srv.Addr))
		errc <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
