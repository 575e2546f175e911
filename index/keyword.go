package index

import (
	"slices"

	"github.com/hupe1980/retrieval"
	"github.com/hupe1980/retrieval/model"
	"github.com/hupe1980/retrieval/query"
)

type keywordEntry struct {
	value    query.Value
	postings *Postings
}

// KeywordIndex maps every element of a collection value to the documents
// holding it. A scalar value is treated as a one-element collection and a
// nil value as the single keyword Missing.
type KeywordIndex struct {
	name     string
	disc     Discriminator
	inverted map[string]*keywordEntry
	fwd      map[model.RID][]string
}

// NewKeywordIndex creates an empty keyword index.
func NewKeywordIndex(name string, disc Discriminator) *KeywordIndex {
	return &KeywordIndex{
		name:     name,
		disc:     disc,
		inverted: make(map[string]*keywordEntry),
		fwd:      make(map[model.RID][]string),
	}
}

var _ Index = (*KeywordIndex)(nil)

// Name implements Index.
func (ki *KeywordIndex) Name() string { return ki.name }

// Kind implements Index.
func (ki *KeywordIndex) Kind() model.IndexKind { return model.KindKeyword }

// Len implements Index.
func (ki *KeywordIndex) Len() int { return len(ki.fwd) }

// IndexDoc implements Index.
func (ki *KeywordIndex) IndexDoc(rid model.RID, doc any) error {
	raw, ok := ki.disc.Discriminate(doc)
	ki.UnindexDoc(rid)
	if !ok {
		return nil
	}

	var values []query.Value
	if query.IsNil(raw) {
		values = []query.Value{query.Missing()}
	} else {
		values = query.NormalizeAll(query.Elements(raw))
	}
	if len(values) == 0 {
		return nil
	}

	keys := make([]string, 0, len(values))
	for _, v := range values {
		k := v.Key()
		if slices.Contains(keys, k) {
			continue
		}
		keys = append(keys, k)

		e, ok := ki.inverted[k]
		if !ok {
			e = &keywordEntry{value: v, postings: NewPostings()}
			ki.inverted[k] = e
		}
		e.postings.Add(rid)
	}
	ki.fwd[rid] = keys
	return nil
}

// UnindexDoc implements Index.
func (ki *KeywordIndex) UnindexDoc(rid model.RID) {
	keys, ok := ki.fwd[rid]
	if !ok {
		return
	}
	delete(ki.fwd, rid)

	for _, k := range keys {
		e, ok := ki.inverted[k]
		if !ok {
			continue
		}
		e.postings.Remove(rid)
		if e.postings.IsEmpty() {
			delete(ki.inverted, k)
		}
	}
}

// DocIDs implements Index.
func (ki *KeywordIndex) DocIDs() *Postings {
	out := NewPostings()
	for rid := range ki.fwd {
		out.Add(rid)
	}
	return out
}

// ValueOf implements Index. Keyword indexes are not sortable.
func (ki *KeywordIndex) ValueOf(model.RID) (query.Value, bool) { return query.Value{}, false }

// Keywords returns the keywords held by rid.
func (ki *KeywordIndex) Keywords(rid model.RID) []query.Value {
	keys := ki.fwd[rid]
	out := make([]query.Value, 0, len(keys))
	for _, k := range keys {
		if e, ok := ki.inverted[k]; ok {
			out = append(out, e.value)
		}
	}
	return out
}

// Apply implements Index.
func (ki *KeywordIndex) Apply(c query.Comparator, args []query.Value) (*Postings, error) {
	switch c {
	case query.CmpEq, query.CmpAny:
		return ki.any(args), nil
	case query.CmpAll:
		sets := make([]*Postings, len(args))
		for i, a := range args {
			sets[i] = ki.lookup(a)
		}
		return Intersection(sets...), nil
	case query.CmpNotEq, query.CmpDoesNotContain:
		out := ki.DocIDs()
		out.AndNot(ki.any(args))
		return out, nil
	}
	return nil, retrieval.InvalidArgumentf("%s: unsupported comparator %q for keyword index", ki.name, c)
}

func (ki *KeywordIndex) any(args []query.Value) *Postings {
	out := NewPostings()
	for _, a := range args {
		if e, ok := ki.inverted[a.Key()]; ok {
			out.Or(e.postings)
		}
	}
	return out
}

func (ki *KeywordIndex) lookup(v query.Value) *Postings {
	if e, ok := ki.inverted[v.Key()]; ok {
		return e.postings
	}
	return NewPostings()
}

// Export implements Index.
func (ki *KeywordIndex) Export() (State, error) {
	return exportInverted(ki.name, model.KindKeyword, ki.inverted)
}

// Import implements Index.
func (ki *KeywordIndex) Import(st State) error {
	if st.Kind != model.KindKeyword {
		return retrieval.InvalidArgumentf("%s: cannot import %s state", ki.name, st.Kind)
	}
	inverted := make(map[string]*keywordEntry, len(st.Entries))
	fwd := make(map[model.RID][]string)
	for _, e := range st.Entries {
		p, err := importEntry(e)
		if err != nil {
			return err
		}
		k := e.Value.Key()
		inverted[k] = &keywordEntry{value: e.Value, postings: p}
		for rid := range p.All() {
			fwd[rid] = append(fwd[rid], k)
		}
	}
	ki.inverted = inverted
	ki.fwd = fwd
	return nil
}

// Clear implements Index.
func (ki *KeywordIndex) Clear() {
	ki.inverted = make(map[string]*keywordEntry)
	ki.fwd = make(map[model.RID][]string)
}

func exportInverted(name string, kind model.IndexKind, inverted map[string]*keywordEntry) (State, error) {
	keys := make([]string, 0, len(inverted))
	for k := range inverted {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	st := State{Name: name, Kind: kind, Entries: make([]Entry, 0, len(keys))}
	for _, k := range keys {
		e := inverted[k]
		ent, err := exportEntry(e.value, e.postings)
		if err != nil {
			return State{}, err
		}
		st.Entries = append(st.Entries, ent)
	}
	return st, nil
}
