// Package metrics holds the Prometheus collectors exposed at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use as a nil pointer; every Observe* method is then a no-op.
type Metrics struct {
	Registry            *prometheus.Registry
	HTTPRequests        *prometheus.CounterVec
	HTTPLatency         *prometheus.HistogramVec
	BlobsStored         *prometheus.CounterVec
	BlobRemovals        *prometheus.CounterVec
	CompensatingDeletes *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		BlobsStored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blobs_stored_total",
			Help:      "Images written to the blob store by namespace.",
		}, []string{"namespace"}),
		BlobRemovals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blob_removals_total",
			Help:      "Blob removals by namespace and result.",
		}, []string{"namespace", "result"}),
		CompensatingDeletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compensating_deletes_total",
			Help:      "Blobs removed because a dependent write failed, by operation.",
		}, []string{"operation"}),
	}

	registry.MustRegister(
		m.HTTPRequests,
		m.HTTPLatency,
		m.BlobsStored,
		m.BlobRemovals,
		m.CompensatingDeletes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveBlobStored(namespace string) {
	if m == nil {
		return
	}
	m.BlobsStored.WithLabelValues(namespace).Inc()
}

func (m *Metrics) ObserveBlobRemoved(namespace string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.BlobRemovals.WithLabelValues(namespace, result).Inc()
}

func (m *Metrics) ObserveCompensation(operation string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.CompensatingDeletes.WithLabelValues(operation).Add(float64(n))
}
