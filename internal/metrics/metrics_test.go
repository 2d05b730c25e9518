package metrics_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/metrics"
)

func TestResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{fmt.Errorf("lookup: %w", domain.ErrVersionNotFound), "not_found"},
		{domain.ErrVersionNameTaken, "invalid"},
		{domain.ErrDeleteCurrentVersion, "conflict"},
		{fmt.Errorf("query: %w: %w", domain.ErrTransient, errors.New("conn reset")), "transient"},
		{errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, metrics.Result(tt.err))
	}
}

func TestObserveOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveOperation("publish", time.Now(), nil)
	m.ObserveOperation("publish", time.Now(), nil)
	m.ObserveOperation("publish", time.Now(), domain.ErrStaleVersion)
	m.ObserveCache(metrics.CacheHit)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("publish", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("publish", "conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues(metrics.CacheHit)))
}

func TestNilMetrics(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveOperation("rollback", time.Now(), nil)
		m.ObserveCache(metrics.CacheMiss)
	})
}
