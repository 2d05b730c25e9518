// Package metrics holds the Prometheus instruments of the versioning engine.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mtlprog/agentdesk/internal/domain"
)

// Cache results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics groups the service's collectors. A nil *Metrics records nothing.
type Metrics struct {
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	CacheRequests     *prometheus.CounterVec
}

// New registers the collectors on reg. A nil reg gets a private registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		Operations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "agentdesk_version_operations_total",
			Help: "Versioning operations by outcome.",
		}, []string{"operation", "result"}),

		OperationDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agentdesk_version_operation_duration_seconds",
			Help:    "Latency of versioning operations.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation"}),

		CacheRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "agentdesk_version_cache_requests_total",
			Help: "Version list cache lookups by result.",
		}, []string{"result"}),
	}
}

// ObserveOperation records one operation that started at start and ended with err.
func (m *Metrics) ObserveOperation(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(operation, Result(err)).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveCache records one cache lookup.
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}

// Result maps an error to its metric label.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrTransient):
		return "transient"
	default:
		return "error"
	}
}
