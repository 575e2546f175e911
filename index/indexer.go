package index

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/hupe1980/retrieval"
	"github.com/hupe1980/retrieval/model"
	"github.com/hupe1980/retrieval/query"
)

// Indexer holds the named indexes of one catalog and evaluates queries
// against them.
//
// Reads may run concurrently; mutations take an exclusive lock.
type Indexer struct {
	mu      sync.RWMutex
	names   []string
	indexes map[string]Index
}

// NewIndexer creates an Indexer holding indexes in the given order.
func NewIndexer(indexes ...Index) *Indexer {
	ix := &Indexer{indexes: make(map[string]Index)}
	for _, idx := range indexes {
		ix.setLocked(idx)
	}
	return ix
}

// Set adds idx, replacing an index of the same name in place.
func (ix *Indexer) Set(idx Index) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.setLocked(idx)
}

func (ix *Indexer) setLocked(idx Index) {
	if _, ok := ix.indexes[idx.Name()]; !ok {
		ix.names = append(ix.names, idx.Name())
	}
	ix.indexes[idx.Name()] = idx
}

// Get returns the index called name.
func (ix *Indexer) Get(name string) (Index, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	idx, ok := ix.indexes[name]
	return idx, ok
}

// Delete removes the index called name.
func (ix *Indexer) Delete(name string) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, ok := ix.indexes[name]; !ok {
		return false
	}
	delete(ix.indexes, name)
	ix.names = slices.DeleteFunc(ix.names, func(n string) bool { return n == name })
	return true
}

// Names returns the index names in insertion order.
func (ix *Indexer) Names() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return slices.Clone(ix.names)
}

// Len returns the number of indexes.
func (ix *Indexer) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.names)
}

// IndexDoc stores doc under rid in every index.
func (ix *Indexer) IndexDoc(rid model.RID, doc any) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.indexDocLocked(rid, doc)
}

// IndexDocID is IndexDoc for an untyped integer id. Ids outside the signed
// 64-bit range fail with ErrOutOfRange.
func (ix *Indexer) IndexDocID(id any, doc any) error {
	rid, err := model.ParseRID(id)
	if err != nil {
		return err
	}
	return ix.IndexDoc(rid, doc)
}

func (ix *Indexer) indexDocLocked(rid model.RID, doc any) error {
	for _, name := range ix.names {
		if err := ix.indexes[name].IndexDoc(rid, doc); err != nil {
			return fmt.Errorf("index %s: %w", name, err)
		}
	}
	return nil
}

// UnindexDoc removes rid from every index.
func (ix *Indexer) UnindexDoc(rid model.RID) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, idx := range ix.indexes {
		idx.UnindexDoc(rid)
	}
}

// ReindexDoc unindexes rid and indexes doc under it.
func (ix *Indexer) ReindexDoc(rid model.RID, doc any) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, idx := range ix.indexes {
		idx.UnindexDoc(rid)
	}
	return ix.indexDocLocked(rid, doc)
}

// DocIDs returns every rid held by any index.
func (ix *Indexer) DocIDs() *Postings {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := NewPostings()
	for _, idx := range ix.indexes {
		out.Or(idx.DocIDs())
	}
	return out
}

// Clear empties every index.
func (ix *Indexer) Clear() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, idx := range ix.indexes {
		idx.Clear()
	}
}

// Evaluate returns the set of rids matching n.
func (ix *Indexer) Evaluate(n query.Node) (*Postings, error) {
	if n == nil {
		return nil, retrieval.InvalidArgumentf("nil query")
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.eval(n)
}

func (ix *Indexer) eval(n query.Node) (*Postings, error) {
	switch x := n.(type) {
	case *query.Leaf:
		idx, ok := ix.indexes[x.Index]
		if !ok {
			return nil, retrieval.NewKeyError("query", x.Index, retrieval.ErrInvalidArgument)
		}
		return idx.Apply(x.Cmp, x.Args)
	case *query.Boolean:
		sets := make([]*Postings, 0, len(x.Children))
		for _, c := range x.Children {
			s, err := ix.eval(c)
			if err != nil {
				return nil, err
			}
			sets = append(sets, s)
		}
		if x.Op == query.OpAnd {
			return Intersection(sets...), nil
		}
		return Union(sets...), nil
	}
	return nil, retrieval.InvalidArgumentf("unsupported query node %T", n)
}

type queryOptions struct {
	sortIndex string
	reverse   bool
	limit     int
}

// QueryOption configures Query.
type QueryOption func(*queryOptions)

// SortBy orders results by the values of a field index. Documents without
// a value in that index come last.
func SortBy(index string) QueryOption {
	return func(o *queryOptions) { o.sortIndex = index }
}

// Reverse reverses the result order.
func Reverse() QueryOption {
	return func(o *queryOptions) { o.reverse = true }
}

// Limit caps the number of returned rids. n <= 0 means no limit.
func Limit(n int) QueryOption {
	return func(o *queryOptions) { o.limit = n }
}

// Query evaluates n and returns the total number of matches together with
// the (sorted, limited) matching rids. Without SortBy the rids ascend.
func (ix *Indexer) Query(n query.Node, optFns ...QueryOption) (int, []model.RID, error) {
	var opts queryOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	set, err := ix.Evaluate(n)
	if err != nil {
		return 0, nil, err
	}
	total := set.Len()
	rids := set.RIDs()

	if opts.sortIndex != "" {
		ix.mu.RLock()
		idx, ok := ix.indexes[opts.sortIndex]
		if !ok || idx.Kind() != model.KindField {
			ix.mu.RUnlock()
			return 0, nil, retrieval.InvalidArgumentf("cannot sort on index %q", opts.sortIndex)
		}
		sortByIndex(rids, idx)
		ix.mu.RUnlock()
	}
	if opts.reverse {
		slices.Reverse(rids)
	}
	if opts.limit > 0 && len(rids) > opts.limit {
		rids = rids[:opts.limit]
	}
	return total, rids, nil
}

func sortByIndex(rids []model.RID, idx Index) {
	slices.SortStableFunc(rids, func(a, b model.RID) int {
		va, oka := idx.ValueOf(a)
		vb, okb := idx.ValueOf(b)
		switch {
		case oka && okb:
			if c := query.Compare(va, vb); c != 0 {
				return c
			}
			return cmp.Compare(a, b)
		case oka:
			return -1
		case okb:
			return 1
		}
		return cmp.Compare(a, b)
	})
}

// Export returns the state of every index in order.
func (ix *Indexer) Export() ([]State, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]State, 0, len(ix.names))
	for _, name := range ix.names {
		st, err := ix.indexes[name].Export()
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", name, err)
		}
		out = append(out, st)
	}
	return out, nil
}

// Import loads states into the indexes of the same name. States for
// unknown indexes are returned as skipped.
func (ix *Indexer) Import(states []State) (skipped []string, err error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, st := range states {
		idx, ok := ix.indexes[st.Name]
		if !ok {
			skipped = append(skipped, st.Name)
			continue
		}
		if err := idx.Import(st); err != nil {
			return skipped, fmt.Errorf("import %s: %w", st.Name, err)
		}
	}
	return skipped, nil
}
