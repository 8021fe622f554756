package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's prometheus instruments. One instance lives for
// the process and is shared by the middleware and the store.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	DatasetRecords  *prometheus.GaugeVec
	DatasetReloads  prometheus.Counter
}

// NewMetrics creates and registers the service instruments along with the
// standard Go runtime and process collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hdpulse_http_requests_total",
			Help: "HTTP requests served, by method, path pattern, and status.",
		}, []string{"method", "path", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hdpulse_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		DatasetRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hdpulse_dataset_records",
			Help: "Records in the loaded dataset, by admission mode subset.",
		}, []string{"mode"}),
		DatasetReloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hdpulse_dataset_reloads_total",
			Help: "Dataset reloads triggered by source file changes.",
		}),
	}

	registry.MustRegister(m.RequestsTotal, m.RequestDuration, m.DatasetRecords, m.DatasetReloads)
	return m
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// SetDatasetSize records the subset sizes of the currently loaded dataset.
func (m *Metrics) SetDatasetSize(all, gate, hd int) {
	m.DatasetRecords.WithLabelValues("all").Set(float64(all))
	m.DatasetRecords.WithLabelValues("gate").Set(float64(gate))
	m.DatasetRecords.WithLabelValues("hd").Set(float64(hd))
}
