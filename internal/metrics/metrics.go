// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPRequests counts served requests by method, route template and status.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "hisaab",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Total HTTP requests by method, route and status code.",
}, []string{"method", "route", "status"})

// HTTPDuration observes request latency by method and route template.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "hisaab",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route"})

// StoreMutations counts store writes by record kind and operation.
var StoreMutations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "hisaab",
	Subsystem: "store",
	Name:      "mutations_total",
	Help:      "Total store mutations by record kind and operation.",
}, []string{"kind", "op"})

// BackupOperations counts backup operations by operation and outcome.
var BackupOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "hisaab",
	Subsystem: "backup",
	Name:      "operations_total",
	Help:      "Total backup operations by operation and result.",
}, []string{"op", "result"})

// RestoredRecords counts records replayed by restores, split by result.
var RestoredRecords = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "hisaab",
	Subsystem: "backup",
	Name:      "restored_records_total",
	Help:      "Records replayed during restore by result.",
}, []string{"result"})

// ObserveStoreMutation has the store observer signature and feeds StoreMutations.
func ObserveStoreMutation(kind, op string) {
	StoreMutations.WithLabelValues(kind, op).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
