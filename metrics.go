package retrieval

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see
// PrometheusCollector for a ready-made implementation.
type MetricsCollector interface {
	// RecordIndex is called after each index operation.
	RecordIndex(duration time.Duration, err error)

	// RecordUnindex is called after each unindex operation.
	RecordUnindex(duration time.Duration, err error)

	// RecordReindex is called after each reindex pass.
	// count is the number of records visited, stale the number dropped.
	RecordReindex(count, stale int, duration time.Duration)

	// RecordQuery is called after each query evaluation.
	// total is the number of matching records before limiting.
	RecordQuery(total int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordIndex(time.Duration, error)      {}
func (NoopMetricsCollector) RecordUnindex(time.Duration, error)    {}
func (NoopMetricsCollector) RecordReindex(int, int, time.Duration) {}
func (NoopMetricsCollector) RecordQuery(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	IndexCount      atomic.Int64
	IndexErrors     atomic.Int64
	IndexTotalNanos atomic.Int64
	UnindexCount    atomic.Int64
	UnindexErrors   atomic.Int64
	ReindexCount    atomic.Int64
	ReindexItems    atomic.Int64
	ReindexStale    atomic.Int64
	QueryCount      atomic.Int64
	QueryErrors     atomic.Int64
	QueryTotalNanos atomic.Int64
	QueryMatches    atomic.Int64
}

// RecordIndex implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIndex(duration time.Duration, err error) {
	b.IndexCount.Add(1)
	b.IndexTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.IndexErrors.Add(1)
	}
}

// RecordUnindex implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUnindex(_ time.Duration, err error) {
	b.UnindexCount.Add(1)
	if err != nil {
		b.UnindexErrors.Add(1)
	}
}

// RecordReindex implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReindex(count, stale int, _ time.Duration) {
	b.ReindexCount.Add(1)
	b.ReindexItems.Add(int64(count))
	b.ReindexStale.Add(int64(stale))
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(total int, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
		return
	}
	b.QueryMatches.Add(int64(total))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		IndexCount:    b.IndexCount.Load(),
		IndexErrors:   b.IndexErrors.Load(),
		IndexAvgNanos: avg(b.IndexTotalNanos.Load(), b.IndexCount.Load()),
		UnindexCount:  b.UnindexCount.Load(),
		UnindexErrors: b.UnindexErrors.Load(),
		ReindexCount:  b.ReindexCount.Load(),
		ReindexItems:  b.ReindexItems.Load(),
		ReindexStale:  b.ReindexStale.Load(),
		QueryCount:    b.QueryCount.Load(),
		QueryErrors:   b.QueryErrors.Load(),
		QueryAvgNanos: avg(b.QueryTotalNanos.Load(), b.QueryCount.Load()),
		QueryMatches:  b.QueryMatches.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	IndexCount    int64
	IndexErrors   int64
	IndexAvgNanos int64
	UnindexCount  int64
	UnindexErrors int64
	ReindexCount  int64
	ReindexItems  int64
	ReindexStale  int64
	QueryCount    int64
	QueryErrors   int64
	QueryAvgNanos int64
	QueryMatches  int64
}
