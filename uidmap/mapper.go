package uidmap

import (
	"cmp"
	"iter"
	"math"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/hupe1980/retrieval"
	"github.com/hupe1980/retrieval/model"
)

// Mapper is an in-memory bijection between UIDs and RIDs.
type Mapper struct {
	mu   sync.RWMutex
	uids map[model.UID]model.RID
	rids map[model.RID]model.UID
	opts options
}

// New creates an empty Mapper.
func New(optFns ...Option) *Mapper {
	opts := options{maxProbes: DefaultMaxProbes}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Mapper{
		uids: make(map[model.UID]model.RID),
		rids: make(map[model.RID]model.UID),
		opts: opts,
	}
}

// Add binds the UID derived from v to a newly generated RID.
func (m *Mapper) Add(v any) (model.Pair, error) {
	uid, err := model.ParseUID(v)
	if err != nil {
		return model.Pair{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.uids[uid]; ok {
		return model.Pair{}, retrieval.NewKeyError("add", uid, retrieval.ErrDuplicateKey)
	}
	rid, err := m.generate()
	if err != nil {
		return model.Pair{}, err
	}
	m.bind(uid, rid)
	return model.Pair{UID: uid, RID: rid}, nil
}

// AddWithRID binds the UID derived from v to rid.
func (m *Mapper) AddWithRID(v any, rid model.RID) (model.Pair, error) {
	uid, err := model.ParseUID(v)
	if err != nil {
		return model.Pair{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.uids[uid]; ok {
		return model.Pair{}, retrieval.NewKeyError("add", uid, retrieval.ErrDuplicateKey)
	}
	if _, ok := m.rids[rid]; ok {
		return model.Pair{}, retrieval.NewKeyError("add", rid, retrieval.ErrDuplicateKey)
	}
	m.bind(uid, rid)
	return model.Pair{UID: uid, RID: rid}, nil
}

// Remove unbinds spec, which is either a RID (any integer) or UID-like.
func (m *Mapper) Remove(spec any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pair, err := m.lookup(spec)
	if err != nil {
		return err
	}
	delete(m.uids, pair.UID)
	delete(m.rids, pair.RID)
	return nil
}

// Lookup returns the pair bound to spec or an error wrapping ErrNotFound,
// ErrInvalidArgument or ErrOutOfRange.
func (m *Mapper) Lookup(spec any) (model.Pair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookup(spec)
}

// Get maps a RID to its UID or a UID to its RID.
func (m *Mapper) Get(spec any) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if model.IsRIDLike(spec) {
		rid, err := model.ParseRID(spec)
		if err != nil {
			return nil, false
		}
		uid, ok := m.rids[rid]
		return uid, ok
	}
	uid, err := model.ParseUID(spec)
	if err != nil {
		return nil, false
	}
	rid, ok := m.uids[uid]
	return rid, ok
}

// Equivalent maps a RID to its UID and a UID to its RID, returning def when
// spec is not bound. Slices are mapped element-wise into a []any of the
// same length and order, with def standing in for every miss.
func (m *Mapper) Equivalent(spec, def any) any {
	switch s := spec.(type) {
	case []model.RID:
		return equivalents(m, s, def)
	case []model.UID:
		return equivalents(m, s, def)
	case []string:
		return equivalents(m, s, def)
	case []int64:
		return equivalents(m, s, def)
	case []int:
		return equivalents(m, s, def)
	case []any:
		return equivalents(m, s, def)
	}
	if v, ok := m.Get(spec); ok {
		return v
	}
	return def
}

func equivalents[T any](m *Mapper, specs []T, def any) []any {
	out := make([]any, len(specs))
	for i, s := range specs {
		if v, ok := m.Get(s); ok {
			out[i] = v
		} else {
			out[i] = def
		}
	}
	return out
}

// UIDFor returns the UID bound to rid.
func (m *Mapper) UIDFor(rid model.RID) (model.UID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	uid, ok := m.rids[rid]
	return uid, ok
}

// RIDFor returns the RID bound to the UID derived from v.
func (m *Mapper) RIDFor(v any) (model.RID, bool) {
	uid, err := model.ParseUID(v)
	if err != nil {
		return 0, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rid, ok := m.uids[uid]
	return rid, ok
}

// UIDsFor maps rids in order. The first unbound RID fails with ErrNotFound.
func (m *Mapper) UIDsFor(rids []model.RID) ([]model.UID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.UID, len(rids))
	for i, rid := range rids {
		uid, ok := m.rids[rid]
		if !ok {
			return nil, retrieval.NewKeyError("uids", rid, retrieval.ErrNotFound)
		}
		out[i] = uid
	}
	return out, nil
}

// RIDsFor maps uids in order. The first unbound UID fails with ErrNotFound.
func (m *Mapper) RIDsFor(uids []model.UID) ([]model.RID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.RID, len(uids))
	for i, uid := range uids {
		rid, ok := m.uids[uid]
		if !ok {
			return nil, retrieval.NewKeyError("rids", uid, retrieval.ErrNotFound)
		}
		out[i] = rid
	}
	return out, nil
}

// Contains reports whether spec (UID-like or RID) is bound.
func (m *Mapper) Contains(spec any) bool {
	_, ok := m.Get(spec)
	return ok
}

// Len returns the number of bound pairs.
func (m *Mapper) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.uids)
}

// Keys returns all bound UIDs in lexical order.
func (m *Mapper) Keys() []model.UID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]model.UID, 0, len(m.uids))
	for uid := range m.uids {
		keys = append(keys, uid)
	}
	slices.Sort(keys)
	return keys
}

// Values returns all bound RIDs in ascending order.
func (m *Mapper) Values() []model.RID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vals := make([]model.RID, 0, len(m.rids))
	for rid := range m.rids {
		vals = append(vals, rid)
	}
	slices.Sort(vals)
	return vals
}

// Items returns all bound pairs ordered by RID.
func (m *Mapper) Items() []model.Pair {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]model.Pair, 0, len(m.rids))
	for rid, uid := range m.rids {
		items = append(items, model.Pair{UID: uid, RID: rid})
	}
	slices.SortFunc(items, func(a, b model.Pair) int { return cmp.Compare(a.RID, b.RID) })
	return items
}

// All iterates the bound pairs. Order is unspecified and the mapper must
// not be mutated during iteration.
func (m *Mapper) All() iter.Seq2[model.UID, model.RID] {
	return func(yield func(model.UID, model.RID) bool) {
		m.mu.RLock()
		defer m.mu.RUnlock()
		for uid, rid := range m.uids {
			if !yield(uid, rid) {
				return
			}
		}
	}
}

// Pairs is an alias for Items, used when exporting state.
func (m *Mapper) Pairs() []model.Pair { return m.Items() }

// Restore replaces the mapper state with pairs.
func (m *Mapper) Restore(pairs []model.Pair) error {
	uids := make(map[model.UID]model.RID, len(pairs))
	rids := make(map[model.RID]model.UID, len(pairs))
	for _, p := range pairs {
		uid, err := model.ParseUID(p.UID)
		if err != nil {
			return err
		}
		if _, ok := uids[uid]; ok {
			return retrieval.NewKeyError("restore", uid, retrieval.ErrDuplicateKey)
		}
		if _, ok := rids[p.RID]; ok {
			return retrieval.NewKeyError("restore", p.RID, retrieval.ErrDuplicateKey)
		}
		uids[uid] = p.RID
		rids[p.RID] = uid
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.uids = uids
	m.rids = rids
	return nil
}

// Clear removes every pair.
func (m *Mapper) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uids = make(map[model.UID]model.RID)
	m.rids = make(map[model.RID]model.UID)
}

func (m *Mapper) bind(uid model.UID, rid model.RID) {
	m.uids[uid] = rid
	m.rids[rid] = uid
}

func (m *Mapper) lookup(spec any) (model.Pair, error) {
	if model.IsRIDLike(spec) {
		rid, err := model.ParseRID(spec)
		if err != nil {
			return model.Pair{}, err
		}
		uid, ok := m.rids[rid]
		if !ok {
			return model.Pair{}, retrieval.NewKeyError("lookup", rid, retrieval.ErrNotFound)
		}
		return model.Pair{UID: uid, RID: rid}, nil
	}
	uid, err := model.ParseUID(spec)
	if err != nil {
		return model.Pair{}, err
	}
	rid, ok := m.uids[uid]
	if !ok {
		return model.Pair{}, retrieval.NewKeyError("lookup", uid, retrieval.ErrNotFound)
	}
	return model.Pair{UID: uid, RID: rid}, nil
}

// generate returns a free RID. Must be called with mu held.
func (m *Mapper) generate() (model.RID, error) {
	cand := m.randomRID()
	for probes := 0; probes < m.opts.maxProbes; probes++ {
		if _, taken := m.rids[cand]; !taken {
			return cand, nil
		}
		if cand == math.MaxInt64 {
			cand = m.randomRID()
			continue
		}
		cand++
	}
	return 0, retrieval.ErrExhaustedKeyspace
}

func (m *Mapper) randomRID() model.RID {
	if m.opts.rng != nil {
		return model.RID(int64(m.opts.rng.Uint64()))
	}
	return model.RID(int64(rand.Uint64()))
}
