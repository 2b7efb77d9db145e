// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes Prometheus instrumentation for the API server.

# Series

  - charted_authn_attempts_total{scheme,outcome}
  - charted_authn_backend_duration_seconds{backend}
  - charted_http_requests_total{method,route,status}
  - charted_http_request_duration_seconds{method,route}

Metrics registers into its own [prometheus.Registry], so tests can build as
many instances as they like.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors.
//
// It implements authn.Observer.
type Metrics struct {
	registry *prometheus.Registry

	AuthnAttemptsTotal   *prometheus.CounterVec
	AuthnBackendDuration *prometheus.HistogramVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates and registers every collector, plus the Go runtime and process
// collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		AuthnAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "charted_authn_attempts_total",
				Help: "Authentication attempts by credential scheme and outcome",
			},
			[]string{"scheme", "outcome"},
		),
		AuthnBackendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "charted_authn_backend_duration_seconds",
				Help:    "Password verification latency by authenticator backend",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"backend"},
		),

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "charted_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "charted_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	registry.MustRegister(
		m.AuthnAttemptsTotal,
		m.AuthnBackendDuration,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// # Authentication

// ObserveAttempt counts one credential resolution.
func (m *Metrics) ObserveAttempt(scheme, outcome string) {
	m.AuthnAttemptsTotal.WithLabelValues(scheme, outcome).Inc()
}

// ObserveBackend records how long a password check took.
func (m *Metrics) ObserveBackend(backend string, elapsed time.Duration) {
	m.AuthnBackendDuration.WithLabelValues(backend).Observe(elapsed.Seconds())
}

// # HTTP

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (writer *statusWriter) WriteHeader(status int) {
	writer.status = status
	writer.ResponseWriter.WriteHeader(status)
}

// Instrument records request counts and latency labelled by the matched chi
// route pattern. Unmatched requests share the "unmatched" route label.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: writer, status: http.StatusOK}

		next.ServeHTTP(wrapped, request)

		route := "unmatched"
		if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		m.HTTPRequestsTotal.WithLabelValues(request.Method, route, strconv.Itoa(wrapped.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(request.Method, route).Observe(time.Since(start).Seconds())
	})
}
