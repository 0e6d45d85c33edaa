package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors. Each Server owns its own
// registry so several can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	Requests     *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
	StoreErrors  *prometheus.CounterVec
	EntriesAdded *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sltp_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),

		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sltp_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"route"},
		),

		StoreErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sltp_store_errors_total",
				Help: "Journal store failures by operation",
			},
			[]string{"op"},
		),

		EntriesAdded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sltp_entries_added_total",
				Help: "Ledger entries added through the API by kind",
			},
			[]string{"kind"},
		),
	}

	m.registry.MustRegister(m.Requests, m.Duration, m.StoreErrors, m.EntriesAdded)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// instrument records count and latency per route template, so /api/days/{date}
// is one series however many dates are asked for.
func (m *Metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m.Requests.WithLabelValues(route, strconv.Itoa(wrapper.statusCode)).Inc()
		m.Duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
