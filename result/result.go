package result

import (
	"iter"
	"slices"

	"github.com/hupe1980/retrieval"
	"github.com/hupe1980/retrieval/model"
	"github.com/hupe1980/retrieval/query"
)

// IDMapper translates between record ids and UIDs.
// *uidmap.Mapper implements it.
type IDMapper interface {
	UIDFor(rid model.RID) (model.UID, bool)
	RIDFor(v any) (model.RID, bool)
}

// Item is one resolved member of a result.
type Item struct {
	UID   model.UID
	RID   model.RID
	Value any
}

// Option configures a SearchResult.
type Option func(*SearchResult)

// WithParent records the collection that produced the result. The result
// never uses it; it only hands it back from Parent.
func WithParent(parent any) Option {
	return func(r *SearchResult) {
		r.parent = parent
	}
}

// WithTotal sets the number of matches before limiting. Values below Len
// are raised to Len.
func WithTotal(n int) Option {
	return func(r *SearchResult) {
		r.total = n
	}
}

// SearchResult is an ordered, lazily resolved view over record ids.
//
// It is immutable once constructed and safe for concurrent readers,
// provided the mapper and resolver are.
type SearchResult struct {
	total    int
	rids     []model.RID
	set      RIDSet
	mapper   IDMapper
	toUID    map[model.RID]model.UID
	toRID    map[model.UID]model.RID
	resolver model.Resolver
	parent   any
}

// New creates a result over rids, translating ids through mapper.
// size is the number of matches before any limit was applied; it is
// raised to len(rids) when smaller.
func New(size int, rids []model.RID, mapper IDMapper, r model.Resolver, optFns ...Option) (*SearchResult, error) {
	if r == nil {
		return nil, retrieval.InvalidArgumentf("missing item resolver")
	}
	if mapper == nil {
		return nil, retrieval.InvalidArgumentf("missing id mapper")
	}

	res := &SearchResult{
		total:    size,
		rids:     slices.Clone(rids),
		set:      NewRIDSet(rids...),
		mapper:   mapper,
		resolver: r,
	}
	for _, fn := range optFns {
		fn(res)
	}
	res.total = max(res.total, len(res.rids))
	return res, nil
}

// FromPairs creates a result over pairs, keeping private id tables.
func FromPairs(pairs []model.Pair, r model.Resolver, optFns ...Option) (*SearchResult, error) {
	if r == nil {
		return nil, retrieval.InvalidArgumentf("missing item resolver")
	}

	res := &SearchResult{
		total:    len(pairs),
		rids:     make([]model.RID, len(pairs)),
		toUID:    make(map[model.RID]model.UID, len(pairs)),
		toRID:    make(map[model.UID]model.RID, len(pairs)),
		resolver: r,
	}
	for i, p := range pairs {
		res.rids[i] = p.RID
		res.toUID[p.RID] = p.UID
		if p.UID != "" {
			res.toRID[p.UID] = p.RID
		}
	}
	res.set = NewRIDSet(res.rids...)
	for _, fn := range optFns {
		fn(res)
	}
	res.total = max(res.total, len(res.rids))
	return res, nil
}

// Len returns the number of record ids held.
func (r *SearchResult) Len() int { return len(r.rids) }

// Total returns the number of matches before limiting.
func (r *SearchResult) Total() int { return r.total }

// Parent returns the value set by WithParent.
func (r *SearchResult) Parent() any { return r.parent }

// UIDFor translates rid. Stale ids report false.
func (r *SearchResult) UIDFor(rid model.RID) (model.UID, bool) {
	if r.mapper != nil {
		return r.mapper.UIDFor(rid)
	}
	uid, ok := r.toUID[rid]
	return uid, ok && uid != ""
}

// RIDFor translates anything model.ParseUID accepts.
func (r *SearchResult) RIDFor(v any) (model.RID, bool) {
	if r.mapper != nil {
		return r.mapper.RIDFor(v)
	}
	uid, err := model.ParseUID(v)
	if err != nil {
		return 0, false
	}
	rid, ok := r.toRID[uid]
	return rid, ok
}

// Contains reports membership of a RID or UID.
func (r *SearchResult) Contains(spec any) bool {
	_, ok := r.ridOf(spec)
	return ok
}

func (r *SearchResult) ridOf(spec any) (model.RID, bool) {
	var (
		rid model.RID
		ok  bool
	)
	if model.IsRIDLike(spec) {
		parsed, err := model.ParseRID(spec)
		rid, ok = parsed, err == nil
	} else {
		rid, ok = r.RIDFor(spec)
	}
	return rid, ok && r.set.Contains(rid)
}

// Get resolves a member by RID or UID. Non-members, stale ids and
// resolver misses all report false without error; resolver errors are
// returned as is.
func (r *SearchResult) Get(spec any) (any, bool, error) {
	rid, ok := r.ridOf(spec)
	if !ok {
		return nil, false, nil
	}
	uid, ok := r.UIDFor(rid)
	if !ok {
		return nil, false, nil
	}
	return r.resolve(uid)
}

// GetOr is like Get but returns def on a miss or error.
func (r *SearchResult) GetOr(spec, def any) any {
	v, ok, err := r.Get(spec)
	if err != nil || !ok {
		return def
	}
	return v
}

// Item is like Get but reports a miss as ErrNotFound.
func (r *SearchResult) Item(spec any) (any, error) {
	v, ok, err := r.Get(spec)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, retrieval.NewKeyError("item", spec, retrieval.ErrNotFound)
	}
	return v, nil
}

func (r *SearchResult) resolve(uid model.UID) (any, bool, error) {
	v, err := r.resolver.Resolve(uid)
	if err != nil {
		return nil, false, err
	}
	if query.IsNil(v) {
		return nil, false, nil
	}
	return v, true, nil
}

// RecordIDs returns the members as a frozen set.
func (r *SearchResult) RecordIDs() RIDSet { return r.set }

// OrderedRecordIDs returns the members in stored order.
func (r *SearchResult) OrderedRecordIDs() []model.RID { return slices.Clone(r.rids) }

// Keys returns the UIDs in stored order. Stale ids are skipped.
func (r *SearchResult) Keys() []model.UID {
	return slices.Collect(r.KeysSeq())
}

// KeysSeq iterates the UIDs in stored order.
func (r *SearchResult) KeysSeq() iter.Seq[model.UID] {
	return func(yield func(model.UID) bool) {
		for _, rid := range r.rids {
			uid, ok := r.UIDFor(rid)
			if !ok {
				continue
			}
			if !yield(uid) {
				return
			}
		}
	}
}

// All iterates the members in stored order, resolving each item on the
// way. Resolver misses yield a nil Value; a resolver error is yielded once
// and ends the iteration.
func (r *SearchResult) All() iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		for _, rid := range r.rids {
			uid, ok := r.UIDFor(rid)
			if !ok {
				continue
			}
			v, _, err := r.resolve(uid)
			if err != nil {
				yield(Item{UID: uid, RID: rid}, err)
				return
			}
			if !yield(Item{UID: uid, RID: rid, Value: v}, nil) {
				return
			}
		}
	}
}

// ValuesSeq iterates the resolved items in stored order.
func (r *SearchResult) ValuesSeq() iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		for it, err := range r.All() {
			if !yield(it.Value, err) {
				return
			}
		}
	}
}

// Items resolves every member.
func (r *SearchResult) Items() ([]Item, error) {
	out := make([]Item, 0, len(r.rids))
	for it, err := range r.All() {
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

// Values resolves every member and returns the items only.
func (r *SearchResult) Values() ([]any, error) {
	out := make([]any, 0, len(r.rids))
	for v, err := range r.ValuesSeq() {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
