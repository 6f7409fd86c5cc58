// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

// Package server serves the rendered API reference of an OpenRPC document over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/woozymasta/openrpcdoc"
)

// RevisionHeader carries the revision ID of the snapshot a response was built from.
const RevisionHeader = "X-Document-Revision"

const (
	defaultShutdownTimeout   = 10 * time.Second
	defaultReadHeaderTimeout = 10 * time.Second
)

// Server routes HTTP requests to the current document snapshot.
type Server struct {
	holder   *Holder
	metrics  *Collector
	gatherer prometheus.Gatherer
	logger   zerolog.Logger
	router   chi.Router

	// ShutdownTimeout bounds graceful shutdown in Run.
	ShutdownTimeout time.Duration
}

// New creates a server. A nil gatherer exposes the default Prometheus registry.
func New(holder *Holder, metrics *Collector, gatherer prometheus.Gatherer, logger zerolog.Logger) *Server {
	s := &Server{
		holder:          holder,
		metrics:         metrics,
		gatherer:        gatherer,
		logger:          logger,
		ShutdownTimeout: defaultShutdownTimeout,
	}

	if metrics != nil {
		metrics.ObserveSnapshot(holder.Get())
		holder.OnChange(func(snapshot *Snapshot) {
			metrics.DocumentReloads.Inc()
			metrics.ObserveSnapshot(snapshot)
		})
		holder.OnError(func(error) {
			metrics.DocumentReloadErrors.Inc()
		})
	}

	s.router = s.newRouter()
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", listener.Addr().String()).Msg("serving api reference")
		errCh <- httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		s.logger.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	return nil
}

func (s *Server) newRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newLoggingMiddleware(s.logger))
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}

	r.Use(s.revisionMiddleware)

	r.Get("/", s.handlePage)
	r.Get("/reference.md", s.handleMarkdown)
	r.Get("/openrpc.json", s.handleDocumentJSON)
	r.Get("/openrpc.yaml", s.handleDocumentYAML)
	r.Get("/health", s.handleHealth)
	r.Get("/check", s.handleCheck)

	r.Route("/methods", func(r chi.Router) {
		r.Get("/", s.handleMethods)
		r.Get("/{name}", s.handleMethod)
		r.Get("/{name}/example", s.handleMethodExample)
	})

	r.Route("/schemas", func(r chi.Router) {
		r.Get("/", s.handleSchemas)
		r.Get("/{name}", s.handleSchema)
		r.Get("/{name}/example", s.handleSchemaExample)
	})

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	} else {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// revisionMiddleware stamps every response with the current snapshot revision.
func (s *Server) revisionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snapshot := s.holder.Get()
		w.Header().Set(RevisionHeader, snapshot.Revision)
		next.ServeHTTP(w, r.WithContext(withSnapshot(r.Context(), snapshot)))
	})
}

// newLoggingMiddleware logs HTTP requests at debug level.
func newLoggingMiddleware(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
				return
			}

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}

type snapshotKey struct{}

func withSnapshot(ctx context.Context, snapshot *Snapshot) context.Context {
	return context.WithValue(ctx, snapshotKey{}, snapshot)
}

// snapshotFrom returns the snapshot pinned by revisionMiddleware, so one
// request never mixes two revisions.
func (s *Server) snapshotFrom(r *http.Request) *Snapshot {
	if snapshot, ok := r.Context().Value(snapshotKey{}).(*Snapshot); ok {
		return snapshot
	}

	return s.holder.Get()
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(value)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeBody(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// errorStatus maps library errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, openrpcdoc.ErrUnknownMethod), errors.Is(err, openrpcdoc.ErrUnknownSchema):
		return http.StatusNotFound
	case errors.Is(err, openrpcdoc.ErrUnknownExampleMode), errors.Is(err, openrpcdoc.ErrUnknownExampleFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func exampleContentType(format string) string {
	if strings.EqualFold(strings.TrimSpace(format), string(openrpcdoc.ExampleFormatYAML)) {
		return "application/yaml"
	}

	return "application/json"
}
