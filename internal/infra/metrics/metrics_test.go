package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilIsSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.HTTPRequest("/Players/{id}", 200)
	m.HTTPRetry("rate_limited")
	m.RefreshCycle("ok", time.Second, 3)
	m.PlayerDropped("malformed")
	m.Notification("forbidden")
}

func TestMetrics_Counts(t *testing.T) {
	t.Parallel()

	m := New(prometheus.NewRegistry())
	m.HTTPRequest("/{game}", 429)
	m.HTTPRequest("/{game}", 429)
	m.RefreshCycle("ok", 2*time.Second, 7)
	m.RefreshCycle("failed", time.Second, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/{game}", "429")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.playersIndexed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.refreshCycles.WithLabelValues("failed")))
}
