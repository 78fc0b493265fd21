// Package server exposes the text analyzer over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/keagan/tagcannon/internal/metrics"
)

// Server is a thin wrapper over chi + stdlib http.Server
type Server struct {
	logger  zerolog.Logger
	metrics *metrics.Metrics
	mux     *chi.Mux
	srv     *http.Server
}

// New builds the router. m may be nil, which disables /metrics.
func New(logger zerolog.Logger, addr string, m *metrics.Metrics) *Server {
	s := &Server{
		logger:  logger.With().Str("component", "http").Logger(),
		metrics: m,
		mux:     chi.NewRouter(),
	}

	s.mux.Use(middleware.RequestID)
	s.mux.Use(middleware.Recoverer)
	s.mux.Use(requestLogger(s.logger))
	s.mux.Use(m.Middleware)

	s.mux.Get("/healthz", s.handleHealth)
	s.mux.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
	})
	if m != nil {
		s.mux.Handle("/metrics", m.Handler())
	}

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Addr returns the listening address
func (s *Server) Addr() string { return s.srv.Addr }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.srv.Addr).Msg("http listening")
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info().Msg("shutting down")
		return s.srv.Shutdown(shutdownCtx)
	}
}

// requestLogger logs each request with its status and duration.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			evt := logger.Info()
			if status >= 500 {
				evt = logger.Error()
			} else if status >= 400 {
				evt = logger.Warn()
			}

			evt.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Dur("duration_ms", time.Since(start)).
				Int("bytes_sent", ww.BytesWritten()).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
