package catalog

import (
	"log/slog"
	"math/rand/v2"

	"github.com/hupe1980/retrieval"
	"github.com/hupe1980/retrieval/codec"
	"github.com/hupe1980/retrieval/index"
	"github.com/hupe1980/retrieval/internal/throttle"
	"github.com/hupe1980/retrieval/query"
	"github.com/hupe1980/retrieval/snapshot"
	"github.com/hupe1980/retrieval/uidmap"
)

type options struct {
	logger           *retrieval.Logger
	metricsCollector retrieval.MetricsCollector
	mapperOptions    []uidmap.Option
	builder          *query.Builder
	analyzer         index.Analyzer
	reindex          *throttle.Config
	snapshot         snapshot.Options
	cache            bool
	cacheSize        int
}

// Option configures a Catalog.
type Option func(*options)

// WithLogger configures structured logging for catalog operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := retrieval.NewJSONLogger(slog.LevelInfo)
//	c, _ := catalog.New(s, r, catalog.WithLogger(logger))
func WithLogger(logger *retrieval.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(retrieval.NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = retrieval.NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &retrieval.BasicMetricsCollector{}
//	c, _ := catalog.New(s, r, catalog.WithMetricsCollector(metrics))
//	// ... use c ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc retrieval.MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithMaxProbes bounds the id generator's probe count per record.
func WithMaxProbes(n int) Option {
	return func(o *options) {
		o.mapperOptions = append(o.mapperOptions, uidmap.WithMaxProbes(n))
	}
}

// WithRand sets the random source of the id generator. Intended for tests.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.mapperOptions = append(o.mapperOptions, uidmap.WithRand(r))
	}
}

// WithQueryBuilder sets the builder QueryMapping uses to pick default
// comparators. If nil is passed, query.DefaultBuilder is used.
func WithQueryBuilder(b *query.Builder) Option {
	return func(o *options) {
		o.builder = b
	}
}

// WithAnalyzer sets the analyzer of text indexes created by MakeIndexes.
// If nil is passed, index.StandardAnalyzer is used.
func WithAnalyzer(a index.Analyzer) Option {
	return func(o *options) {
		o.analyzer = a
	}
}

// WithReindexRate limits ReindexAll to recordsPerSec resolved records per
// second using up to workers concurrent resolver calls. A rate of 0 means
// unlimited.
func WithReindexRate(recordsPerSec, workers int) Option {
	return func(o *options) {
		o.reindex = &throttle.Config{
			RecordsPerSec: recordsPerSec,
			MaxWorkers:    int64(workers),
		}
	}
}

// WithSnapshotCodec sets the codec Save encodes with. If nil is passed,
// codec.Default is used.
func WithSnapshotCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.snapshot.Codec = c
	}
}

// WithSnapshotCompression sets the compression Save applies.
func WithSnapshotCompression(c snapshot.Compression) Option {
	return func(o *options) {
		o.snapshot.Compression = c
	}
}

// WithResolverCache wraps the item resolver in an LRU cache holding up to
// size items. size <= 0 selects resolver.DefaultCacheSize.
func WithResolverCache(size int) Option {
	return func(o *options) {
		o.cache = true
		o.cacheSize = size
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: retrieval.NoopMetricsCollector{},
		logger:           retrieval.NoopLogger(),
		builder:          query.DefaultBuilder(),
		snapshot:         snapshot.DefaultOptions(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = retrieval.NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = retrieval.NoopMetricsCollector{}
	}
	if o.builder == nil {
		o.builder = query.DefaultBuilder()
	}
	return o
}
