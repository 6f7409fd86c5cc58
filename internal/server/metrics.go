// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/woozymasta/openrpcdoc"
)

const metricsNamespace = "openrpcdoc"

// Collector holds Prometheus metrics of the documentation server.
type Collector struct {
	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Document metrics
	DocumentReloads      prometheus.Counter
	DocumentReloadErrors prometheus.Counter
	DocumentLastReload   prometheus.Gauge
	CheckIssues          *prometheus.GaugeVec
}

// NewMetrics creates a collector registered on the default registry.
func NewMetrics() *Collector {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates a collector on a custom registry.
// Tests use it to avoid global state.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "requests_total",
				Help:      "Total number of HTTP requests served",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "route"},
		),
		DocumentReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "document_reloads_total",
				Help:      "Total number of successful document reloads",
			},
		),
		DocumentReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "document_reload_errors_total",
				Help:      "Total number of failed document reloads",
			},
		),
		DocumentLastReload: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "document_last_reload_timestamp",
				Help:      "Unix timestamp of the current document revision",
			},
		),
		CheckIssues: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "check_issues",
				Help:      "Integrity issues of the current document by severity",
			},
			[]string{"severity"},
		),
	}
}

// ObserveSnapshot records document gauges for a newly published snapshot.
func (m *Collector) ObserveSnapshot(snapshot *Snapshot) {
	m.DocumentLastReload.Set(float64(snapshot.LoadedAt.Unix()))
	m.CheckIssues.WithLabelValues(string(openrpcdoc.SeverityError)).Set(float64(len(snapshot.Report.Errors())))
	m.CheckIssues.WithLabelValues(string(openrpcdoc.SeverityWarning)).Set(float64(len(snapshot.Report.Warnings())))
}

// Middleware records request count and duration labeled by chi route pattern.
func (m *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
