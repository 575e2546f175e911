package retrieval

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicMetricsCollector(t *testing.T) {
	var m BasicMetricsCollector
	boom := errors.New("boom")

	m.RecordIndex(2*time.Millisecond, nil)
	m.RecordIndex(4*time.Millisecond, boom)
	m.RecordUnindex(time.Millisecond, nil)
	m.RecordReindex(10, 2, time.Second)
	m.RecordQuery(5, time.Millisecond, nil)
	m.RecordQuery(0, time.Millisecond, boom)

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats.IndexCount)
	assert.Equal(t, int64(1), stats.IndexErrors)
	assert.Equal(t, (3 * time.Millisecond).Nanoseconds(), stats.IndexAvgNanos)
	assert.Equal(t, int64(1), stats.UnindexCount)
	assert.Equal(t, int64(0), stats.UnindexErrors)
	assert.Equal(t, int64(1), stats.ReindexCount)
	assert.Equal(t, int64(10), stats.ReindexItems)
	assert.Equal(t, int64(2), stats.ReindexStale)
	assert.Equal(t, int64(2), stats.QueryCount)
	assert.Equal(t, int64(1), stats.QueryErrors)
	assert.Equal(t, int64(5), stats.QueryMatches)
}

func TestNoopMetricsCollector(t *testing.T) {
	var m MetricsCollector = NoopMetricsCollector{}
	m.RecordIndex(time.Millisecond, nil)
	m.RecordQuery(1, time.Millisecond, nil)
}

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewPrometheusCollector("retrieval", reg)
	require.NoError(t, err)

	var _ MetricsCollector = c

	c.RecordIndex(time.Millisecond, nil)
	c.RecordIndex(time.Millisecond, errors.New("boom"))
	c.RecordReindex(7, 3, time.Millisecond)
	c.RecordQuery(4, time.Millisecond, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.ops.WithLabelValues("index")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.errors.WithLabelValues("index")))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.reindex))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.stale))
	assert.Equal(t, 1, testutil.CollectAndCount(c.matches))

	_, err = NewPrometheusCollector("retrieval", reg)
	assert.Error(t, err, "duplicate registration")
}
