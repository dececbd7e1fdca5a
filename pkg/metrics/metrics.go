// Package metrics holds the Prometheus collectors shared by the register and
// the sales API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pos"

// Metrics is a set of collectors bound to one registry.
type Metrics struct {
	registry *prometheus.Registry

	saveAttempts    *prometheus.CounterVec
	salesCreated    *prometheus.CounterVec
	receiptsPrinted *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		saveAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sale_save_attempts_total",
			Help:      "Register save attempts by result.",
		}, []string{"result"}),
		salesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_created_total",
			Help:      "Sales persisted by the sales API by payment status.",
		}, []string{"payment_status"}),
		receiptsPrinted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipts_printed_total",
			Help:      "Receipts rendered by target (printer type or pdf).",
		}, []string{"target"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// SaveAttempt counts one register save; result is success, error, empty,
// in_progress or stale.
func (m *Metrics) SaveAttempt(result string) {
	m.saveAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) SaleCreated(paymentStatus string) {
	m.salesCreated.WithLabelValues(paymentStatus).Inc()
}

func (m *Metrics) ReceiptPrinted(target string) {
	m.receiptsPrinted.WithLabelValues(target).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
