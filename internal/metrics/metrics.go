package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors used by the console, the CLI and the API.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Backend calls made by the inventory client
	ClientRequestsTotal   *prometheus.CounterVec
	ClientRequestDuration *prometheus.HistogramVec

	LoginsTotal    *prometheus.CounterVec
	TransfersTotal *prometheus.CounterVec

	// Inbound HTTP requests served by fiber apps
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New registers all collectors on reg using prefix for metric names.
func New(reg *prometheus.Registry, prefix string) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ClientRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_client_requests_total",
				Help: "Total number of backend requests issued by the inventory client",
			},
			[]string{"endpoint", "status"},
		),
		ClientRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_client_request_duration_seconds",
				Help:    "Duration of backend requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		LoginsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_logins_total",
				Help: "Total number of login attempts by result",
			},
			[]string{"result"},
		),
		TransfersTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_transfers_total",
				Help: "Total number of product transfers by data source and result",
			},
			[]string{"mode", "result"},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		gatherer: reg,
	}
}

// ObserveClient records one backend call. status 0 means the request never
// got a response.
func (m *Metrics) ObserveClient(endpoint string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.ClientRequestsTotal.WithLabelValues(endpoint, label).Inc()
	m.ClientRequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *Metrics) RecordLogin(result string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordTransfer(mode, result string) {
	if m == nil {
		return
	}
	m.TransfersTotal.WithLabelValues(mode, result).Inc()
}

func (m *Metrics) ObserveHTTP(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	s := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, s).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, s).Observe(d.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
