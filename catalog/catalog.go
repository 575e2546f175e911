package catalog

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/retrieval"
	"github.com/hupe1980/retrieval/index"
	"github.com/hupe1980/retrieval/internal/throttle"
	"github.com/hupe1980/retrieval/model"
	"github.com/hupe1980/retrieval/query"
	"github.com/hupe1980/retrieval/resolver"
	"github.com/hupe1980/retrieval/result"
	"github.com/hupe1980/retrieval/schema"
	"github.com/hupe1980/retrieval/uidmap"
)

// Catalog indexes the documents of one schema and answers queries with
// results keyed by UID.
//
// Mutations are serialized by the catalog. Queries may run concurrently
// with each other. Item resolution always happens outside the catalog lock,
// so a resolver may read from the catalog.
type Catalog struct {
	mu       sync.RWMutex
	schema   *schema.Schema
	mapper   *uidmap.Mapper
	indexer  *index.Indexer
	resolver model.Resolver
	cache    *resolver.Cached
	throttle *throttle.Controller
	logger   *retrieval.Logger
	metrics  retrieval.MetricsCollector
	opts     options
}

// New creates a catalog bound to s. Items are resolved through r.
func New(s *schema.Schema, r model.Resolver, optFns ...Option) (*Catalog, error) {
	if r == nil {
		return nil, retrieval.InvalidArgumentf("missing item resolver")
	}

	opts := applyOptions(optFns)

	c := &Catalog{
		mapper:   uidmap.New(opts.mapperOptions...),
		indexer:  index.NewIndexer(),
		resolver: r,
		logger:   opts.logger,
		metrics:  opts.metricsCollector,
		opts:     opts,
	}
	if opts.cache {
		c.cache = resolver.NewCached(r, opts.cacheSize)
		c.resolver = c.cache
	}
	if opts.reindex != nil {
		c.throttle = throttle.New(*opts.reindex)
	}

	if err := c.Bind(s); err != nil {
		return nil, err
	}
	return c, nil
}

// Bind replaces the schema and rebuilds the index set from it.
func (c *Catalog) Bind(s *schema.Schema) error {
	if s == nil {
		return retrieval.InvalidArgumentf("missing schema")
	}
	if err := s.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.schema = s
	if err := c.makeIndexesLocked(); err != nil {
		return err
	}
	c.logger.WithSchema(s.Name).Info("schema bound", "indexes", c.indexer.Len())
	return nil
}

// Schema returns the bound schema.
func (c *Catalog) Schema() *schema.Schema {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.schema
}

// Indexes returns the index names derived from the bound schema, in field
// declaration order.
func (c *Catalog) Indexes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return schema.Indexes(c.schema)
}

// MakeIndexes reconciles the index set with the schema: indexes still
// derived are kept with their content, missing ones are created empty and
// indexes no longer derived are dropped. Call ReindexAll to populate new
// indexes for documents indexed before.
func (c *Catalog) MakeIndexes() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.makeIndexesLocked()
}

func (c *Catalog) makeIndexesLocked() error {
	want := schema.Indexes(c.schema)

	for _, name := range c.indexer.Names() {
		if !slices.Contains(want, name) {
			c.indexer.Delete(name)
			c.logger.WithIndex(name).Debug("index dropped")
		}
	}

	var created []string
	for _, name := range want {
		if _, ok := c.indexer.Get(name); ok {
			continue
		}
		idx, err := index.ForName(name, c.opts.analyzer)
		if err != nil {
			return fmt.Errorf("make index %s: %w", name, err)
		}
		c.indexer.Set(idx)
		created = append(created, name)
	}
	if len(created) > 0 && c.mapper.Len() > 0 {
		c.logger.Warn("new indexes are empty until reindexed", "indexes", created, "records", c.mapper.Len())
	}
	return nil
}

// Index binds the document's UID to a new RID and stores it in every
// index. Indexing a UID that is already bound fails with ErrDuplicateKey;
// use Reindex to refresh a document.
func (c *Catalog) Index(ctx context.Context, doc any) (model.Pair, error) {
	start := time.Now()

	pair, err := c.index(doc)

	c.metrics.RecordIndex(time.Since(start), err)
	c.logger.LogIndex(ctx, string(pair.UID), int64(pair.RID), err)

	return pair, err
}

func (c *Catalog) index(doc any) (model.Pair, error) {
	uid, err := model.ParseUID(doc)
	if err != nil {
		return model.Pair{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	pair, err := c.mapper.Add(uid)
	if err != nil {
		return model.Pair{UID: uid}, err
	}
	if err := c.indexer.IndexDoc(pair.RID, doc); err != nil {
		c.indexer.UnindexDoc(pair.RID)
		_ = c.mapper.Remove(pair.RID)
		return pair, err
	}
	return pair, nil
}

// Unindex removes the document named by spec (a document, UID or RID)
// from every index and unbinds its UID. Unbound specs fail with
// ErrNotFound.
func (c *Catalog) Unindex(ctx context.Context, spec any) error {
	start := time.Now()

	uid, err := c.unindex(spec)

	c.metrics.RecordUnindex(time.Since(start), err)
	c.logger.LogUnindex(ctx, string(uid), err)

	return err
}

func (c *Catalog) unindex(spec any) (model.UID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pair, err := c.mapper.Lookup(spec)
	if err != nil {
		return "", err
	}
	c.indexer.UnindexDoc(pair.RID)
	if err := c.mapper.Remove(pair.RID); err != nil {
		return pair.UID, err
	}
	if c.cache != nil {
		c.cache.Forget(pair.UID)
	}
	return pair.UID, nil
}

// Reindex refreshes one document, or every document when target is nil.
//
// A document is reindexed as given. A UID or RID is resolved first; when it
// no longer resolves the record is stale and is unindexed instead.
func (c *Catalog) Reindex(ctx context.Context, target any) error {
	if target == nil {
		return c.ReindexAll(ctx)
	}

	start := time.Now()
	stale, err := c.reindex(target)
	staleCount := 0
	if stale {
		staleCount = 1
	}

	c.metrics.RecordReindex(1, staleCount, time.Since(start))
	c.logger.LogReindex(ctx, 1, staleCount, err)

	return err
}

func (c *Catalog) reindex(target any) (bool, error) {
	if _, isDoc := target.(model.UIDProvider); isDoc {
		pair, err := c.ids().Lookup(target)
		if err != nil {
			return false, err
		}
		return false, c.reindexDoc(pair, target)
	}

	pair, err := c.ids().Lookup(target)
	if err != nil {
		return false, err
	}
	if c.cache != nil {
		c.cache.Forget(pair.UID)
	}
	doc, err := c.resolver.Resolve(pair.UID)
	if err != nil {
		return false, fmt.Errorf("resolve %s: %w", pair.UID, err)
	}
	if query.IsNil(doc) {
		_, err := c.unindex(pair.RID)
		if err == nil {
			c.logStale(pair)
		}
		return true, err
	}
	return false, c.reindexDoc(pair, doc)
}

func (c *Catalog) reindexDoc(pair model.Pair, doc any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// The record may have been unindexed while its document was resolved.
	if uid, ok := c.mapper.UIDFor(pair.RID); !ok || uid != pair.UID {
		return retrieval.NewKeyError("reindex", pair.UID, retrieval.ErrNotFound)
	}
	if err := c.indexer.ReindexDoc(pair.RID, doc); err != nil {
		return fmt.Errorf("reindex %s: %w", pair.UID, err)
	}
	return nil
}

// reindexBatch is the number of records resolved ahead of indexing.
const reindexBatch = 256

// ReindexAll resolves and reindexes every bound record. Records that no
// longer resolve are unindexed.
//
// Records are resolved concurrently within the configured reindex rate and
// indexed in RID order. The pass is not atomic: when a record fails,
// earlier records stay reindexed and later ones are left untouched.
func (c *Catalog) ReindexAll(ctx context.Context) error {
	start := time.Now()

	count, stale, err := c.reindexAll(ctx)

	c.metrics.RecordReindex(count, stale, time.Since(start))
	c.logger.LogReindex(ctx, count, stale, err)

	return err
}

func (c *Catalog) reindexAll(ctx context.Context) (count, stale int, err error) {
	pairs := c.ids().Items()
	if c.cache != nil {
		c.cache.Purge()
	}

	for batch := range slices.Chunk(pairs, reindexBatch) {
		if err := c.throttle.Wait(ctx, len(batch)); err != nil {
			return count, stale, err
		}

		docs, errs := c.resolveBatch(ctx, batch)
		if err := ctx.Err(); err != nil {
			return count, stale, err
		}

		for i, pair := range batch {
			if errs[i] != nil {
				return count, stale, fmt.Errorf("resolve %s: %w", pair.UID, errs[i])
			}
			count++
			if query.IsNil(docs[i]) {
				if _, err := c.unindex(pair.RID); err != nil && !retrieval.IsNotFound(err) {
					return count, stale, err
				}
				c.logStale(pair)
				stale++
				continue
			}
			if err := c.reindexDoc(pair, docs[i]); err != nil {
				if retrieval.IsNotFound(err) {
					continue
				}
				return count, stale, err
			}
		}
	}
	return count, stale, nil
}

func (c *Catalog) logStale(pair model.Pair) {
	c.logger.WithUID(string(pair.UID)).WithRID(int64(pair.RID)).Debug("stale record unindexed")
}

func (c *Catalog) resolveBatch(ctx context.Context, batch []model.Pair) ([]any, []error) {
	docs := make([]any, len(batch))
	errs := make([]error, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	if c.throttle == nil {
		g.SetLimit(1)
	}
	for i, pair := range batch {
		if err := c.throttle.Acquire(gctx); err != nil {
			for j := i; j < len(batch); j++ {
				errs[j] = err
			}
			break
		}
		g.Go(func() error {
			defer c.throttle.Release()
			docs[i], errs[i] = c.resolver.Resolve(pair.UID)
			return nil
		})
	}
	_ = g.Wait()

	return docs, errs
}

// Query evaluates n and returns the matching records, sorted and limited by
// opts. Literals are normalized before evaluation.
func (c *Catalog) Query(ctx context.Context, n query.Node, opts ...index.QueryOption) (*result.SearchResult, error) {
	start := time.Now()

	res, err := c.query(n, opts)
	total := 0
	if res != nil {
		total = res.Total()
	}

	c.metrics.RecordQuery(total, time.Since(start), err)
	c.logger.LogQuery(ctx, nodeString(n), total, err)

	return res, err
}

func (c *Catalog) query(n query.Node, opts []index.QueryOption) (*result.SearchResult, error) {
	if n == nil {
		return nil, retrieval.InvalidArgumentf("empty query")
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	total, rids, err := c.indexer.Query(query.NormalizeNode(n), opts...)
	if err != nil {
		return nil, err
	}

	pairs := make([]model.Pair, len(rids))
	for i, rid := range rids {
		uid, _ := c.mapper.UIDFor(rid)
		pairs[i] = model.Pair{UID: uid, RID: rid}
	}
	return result.FromPairs(pairs, c.resolver, result.WithParent(c), result.WithTotal(total))
}

// QueryMapping ANDs one predicate per index name in m. Bare values get the
// default comparator of their index; wrap a value with query.With to pick
// another.
func (c *Catalog) QueryMapping(ctx context.Context, m map[string]any, opts ...index.QueryOption) (*result.SearchResult, error) {
	n, err := c.opts.builder.FromMapping(m)
	if err != nil {
		c.metrics.RecordQuery(0, 0, err)
		c.logger.LogQuery(ctx, fmt.Sprint(m), 0, err)
		return nil, err
	}
	return c.Query(ctx, n, opts...)
}

// RCount returns the number of records matching n without building a
// result.
func (c *Catalog) RCount(ctx context.Context, n query.Node) (int, error) {
	start := time.Now()

	total, err := c.rcount(n)

	c.metrics.RecordQuery(total, time.Since(start), err)
	c.logger.LogQuery(ctx, nodeString(n), total, err)

	return total, err
}

func (c *Catalog) rcount(n query.Node) (int, error) {
	if n == nil {
		return 0, retrieval.InvalidArgumentf("empty query")
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	set, err := c.indexer.Evaluate(query.NormalizeNode(n))
	if err != nil {
		return 0, err
	}
	return set.Len(), nil
}

// RCountMapping is RCount for a query mapping.
func (c *Catalog) RCountMapping(ctx context.Context, m map[string]any) (int, error) {
	n, err := c.opts.builder.FromMapping(m)
	if err != nil {
		return 0, err
	}
	return c.RCount(ctx, n)
}

func nodeString(n query.Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.String()
}

// Len returns the number of indexed records.
func (c *Catalog) Len() int { return c.ids().Len() }

// Contains reports whether spec (a document, UID or RID) is indexed.
func (c *Catalog) Contains(spec any) bool { return c.ids().Contains(spec) }

// Get resolves the record named by spec. Unbound specs and records the
// resolver no longer finds report false.
func (c *Catalog) Get(spec any) (any, bool, error) {
	pair, err := c.ids().Lookup(spec)
	if err != nil {
		return nil, false, nil
	}
	item, err := c.resolver.Resolve(pair.UID)
	if err != nil {
		return nil, false, err
	}
	if query.IsNil(item) {
		return nil, false, nil
	}
	return item, true, nil
}

// GetOr is Get returning def on a miss.
func (c *Catalog) GetOr(spec, def any) (any, error) {
	item, ok, err := c.Get(spec)
	if err != nil {
		return nil, err
	}
	if !ok {
		return def, nil
	}
	return item, nil
}

// Item is Get failing with ErrNotFound on a miss.
func (c *Catalog) Item(spec any) (any, error) {
	item, ok, err := c.Get(spec)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, retrieval.NewKeyError("item", spec, retrieval.ErrNotFound)
	}
	return item, nil
}

// Keys returns the indexed UIDs in sorted order.
func (c *Catalog) Keys() []model.UID { return c.ids().Keys() }

// All iterates every indexed record in RID order, resolving items lazily.
// Records the resolver no longer finds yield a nil Value.
func (c *Catalog) All() iter.Seq2[result.Item, error] {
	return func(yield func(result.Item, error) bool) {
		for _, pair := range c.ids().Items() {
			item, err := c.resolver.Resolve(pair.UID)
			if query.IsNil(item) {
				item = nil
			}
			if !yield(result.Item{UID: pair.UID, RID: pair.RID, Value: item}, err) {
				return
			}
		}
	}
}

// Items resolves every indexed record in RID order.
func (c *Catalog) Items() ([]result.Item, error) {
	out := make([]result.Item, 0, c.Len())
	for item, err := range c.All() {
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// Values resolves every indexed record in RID order.
func (c *Catalog) Values() ([]any, error) {
	items, err := c.Items()
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item.Value
	}
	return out, nil
}

// Mapper returns the catalog's UID↔RID mapper. Mutating it directly breaks
// the catalog's consistency. Restore replaces it.
func (c *Catalog) Mapper() *uidmap.Mapper { return c.ids() }

// Indexer returns the catalog's indexes. Restore replaces it.
func (c *Catalog) Indexer() *index.Indexer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexer
}

func (c *Catalog) ids() *uidmap.Mapper {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mapper
}

// Resolver returns the item resolver, including the cache when configured.
func (c *Catalog) Resolver() model.Resolver { return c.resolver }
