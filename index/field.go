package index

import (
	"slices"
	"sort"

	"github.com/hupe1980/retrieval"
	"github.com/hupe1980/retrieval/model"
	"github.com/hupe1980/retrieval/query"
)

type fieldEntry struct {
	value    query.Value
	postings *Postings
}

// FieldIndex maps each normalized value to the documents holding it.
//
// Entries are kept sorted by value so range predicates walk a contiguous
// slice. The Missing sentinel sorts last and never satisfies a range.
type FieldIndex struct {
	name    string
	disc    Discriminator
	entries []fieldEntry
	fwd     map[model.RID]query.Value
}

// NewFieldIndex creates an empty field index.
func NewFieldIndex(name string, disc Discriminator) *FieldIndex {
	return &FieldIndex{
		name: name,
		disc: disc,
		fwd:  make(map[model.RID]query.Value),
	}
}

var _ Index = (*FieldIndex)(nil)

// Name implements Index.
func (fi *FieldIndex) Name() string { return fi.name }

// Kind implements Index.
func (fi *FieldIndex) Kind() model.IndexKind { return model.KindField }

// Len implements Index.
func (fi *FieldIndex) Len() int { return len(fi.fwd) }

// IndexDoc implements Index.
func (fi *FieldIndex) IndexDoc(rid model.RID, doc any) error {
	raw, ok := fi.disc.Discriminate(doc)
	if !ok {
		fi.UnindexDoc(rid)
		return nil
	}
	v := query.Normalize(raw)

	if old, held := fi.fwd[rid]; held {
		if query.Equal(old, v) {
			return nil
		}
		fi.UnindexDoc(rid)
	}

	i, found := fi.search(v)
	if !found {
		fi.entries = slices.Insert(fi.entries, i, fieldEntry{value: v, postings: NewPostings()})
	}
	fi.entries[i].postings.Add(rid)
	fi.fwd[rid] = v
	return nil
}

// UnindexDoc implements Index.
func (fi *FieldIndex) UnindexDoc(rid model.RID) {
	v, ok := fi.fwd[rid]
	if !ok {
		return
	}
	delete(fi.fwd, rid)

	i, found := fi.search(v)
	if !found {
		return
	}
	p := fi.entries[i].postings
	p.Remove(rid)
	if p.IsEmpty() {
		fi.entries = slices.Delete(fi.entries, i, i+1)
	}
}

// DocIDs implements Index.
func (fi *FieldIndex) DocIDs() *Postings {
	out := NewPostings()
	for _, e := range fi.entries {
		out.Or(e.postings)
	}
	return out
}

// ValueOf implements Index.
func (fi *FieldIndex) ValueOf(rid model.RID) (query.Value, bool) {
	v, ok := fi.fwd[rid]
	return v, ok
}

// Values returns the distinct indexed values in ascending order.
func (fi *FieldIndex) Values() []query.Value {
	out := make([]query.Value, len(fi.entries))
	for i, e := range fi.entries {
		out[i] = e.value
	}
	return out
}

// Apply implements Index.
func (fi *FieldIndex) Apply(c query.Comparator, args []query.Value) (*Postings, error) {
	switch c {
	case query.CmpEq:
		return fi.eq(args[0]), nil
	case query.CmpNotEq:
		out := fi.DocIDs()
		out.AndNot(fi.eq(args[0]))
		return out, nil
	case query.CmpAny:
		out := NewPostings()
		for _, a := range args {
			out.Or(fi.eq(a))
		}
		return out, nil
	case query.CmpGe:
		return fi.between(&args[0], true, nil, false), nil
	case query.CmpGt:
		return fi.between(&args[0], false, nil, false), nil
	case query.CmpLe:
		return fi.between(nil, false, &args[0], true), nil
	case query.CmpLt:
		return fi.between(nil, false, &args[0], false), nil
	case query.CmpInRange, query.CmpNotInRange:
		lo, hi := args[0], args[1]
		if !lo.IsMissing() && !hi.IsMissing() && !query.SameDomain(lo, hi) {
			return nil, retrieval.InvalidArgumentf("%s(%s): bounds %s and %s are not comparable", c, fi.name, lo, hi)
		}
		in := fi.between(&lo, true, &hi, true)
		if c == query.CmpInRange {
			return in, nil
		}
		out := fi.DocIDs()
		out.AndNot(in)
		return out, nil
	}
	return nil, retrieval.InvalidArgumentf("%s: unsupported comparator %q for field index", fi.name, c)
}

func (fi *FieldIndex) eq(v query.Value) *Postings {
	if i, found := fi.search(v); found {
		return fi.entries[i].postings.Clone()
	}
	return NewPostings()
}

// between unions the entries within the given bounds that share the
// bounds' domain. A nil bound is open. Missing sorts after every real
// value, so it matches an open upper bound only.
func (fi *FieldIndex) between(lo *query.Value, loIncl bool, hi *query.Value, hiIncl bool) *Postings {
	out := NewPostings()

	var domain query.Value
	switch {
	case lo != nil && !lo.IsMissing():
		domain = *lo
	case hi != nil && !hi.IsMissing():
		domain = *hi
	default:
		return out
	}
	if (lo != nil && lo.IsMissing()) || (hi != nil && hi.IsMissing()) {
		return out
	}

	start := sort.Search(len(fi.entries), func(i int) bool {
		e := fi.entries[i].value
		if !query.SameDomain(e, domain) {
			return query.Compare(e, domain) > 0
		}
		if lo == nil {
			return true
		}
		c := query.Compare(e, *lo)
		return c > 0 || (loIncl && c == 0)
	})

	for _, e := range fi.entries[start:] {
		if !query.SameDomain(e.value, domain) {
			break
		}
		if hi != nil {
			c := query.Compare(e.value, *hi)
			if c > 0 || (!hiIncl && c == 0) {
				break
			}
		}
		out.Or(e.postings)
	}
	if hi == nil && len(fi.entries) > 0 {
		if last := fi.entries[len(fi.entries)-1]; last.value.IsMissing() {
			out.Or(last.postings)
		}
	}
	return out
}

func (fi *FieldIndex) search(v query.Value) (int, bool) {
	return slices.BinarySearchFunc(fi.entries, v, func(e fieldEntry, t query.Value) int {
		return query.Compare(e.value, t)
	})
}

// Export implements Index.
func (fi *FieldIndex) Export() (State, error) {
	st := State{Name: fi.name, Kind: model.KindField, Entries: make([]Entry, 0, len(fi.entries))}
	for _, e := range fi.entries {
		ent, err := exportEntry(e.value, e.postings)
		if err != nil {
			return State{}, err
		}
		st.Entries = append(st.Entries, ent)
	}
	return st, nil
}

// Import implements Index.
func (fi *FieldIndex) Import(st State) error {
	if st.Kind != model.KindField {
		return retrieval.InvalidArgumentf("%s: cannot import %s state", fi.name, st.Kind)
	}
	entries := make([]fieldEntry, 0, len(st.Entries))
	fwd := make(map[model.RID]query.Value)
	for _, e := range st.Entries {
		p, err := importEntry(e)
		if err != nil {
			return err
		}
		entries = append(entries, fieldEntry{value: e.Value, postings: p})
		for rid := range p.All() {
			fwd[rid] = e.Value
		}
	}
	slices.SortFunc(entries, func(a, b fieldEntry) int { return query.Compare(a.value, b.value) })
	fi.entries = entries
	fi.fwd = fwd
	return nil
}

// Clear implements Index.
func (fi *FieldIndex) Clear() {
	fi.entries = nil
	fi.fwd = make(map[model.RID]query.Value)
}
