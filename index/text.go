package index

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hupe1980/retrieval"
	"github.com/hupe1980/retrieval/model"
	"github.com/hupe1980/retrieval/query"
)

// TextIndex maps analyzed tokens to the documents containing them.
type TextIndex struct {
	name     string
	disc     Discriminator
	analyzer Analyzer
	inverted map[string]*keywordEntry
	fwd      map[model.RID][]string
	terms    []string // sorted distinct terms
}

// NewTextIndex creates an empty text index. A nil analyzer selects
// StandardAnalyzer.
func NewTextIndex(name string, disc Discriminator, analyzer Analyzer) *TextIndex {
	if analyzer == nil {
		analyzer = StandardAnalyzer()
	}
	return &TextIndex{
		name:     name,
		disc:     disc,
		analyzer: analyzer,
		inverted: make(map[string]*keywordEntry),
		fwd:      make(map[model.RID][]string),
	}
}

var _ Index = (*TextIndex)(nil)

// Name implements Index.
func (ti *TextIndex) Name() string { return ti.name }

// Kind implements Index.
func (ti *TextIndex) Kind() model.IndexKind { return model.KindText }

// Len implements Index.
func (ti *TextIndex) Len() int { return len(ti.fwd) }

// IndexDoc implements Index. Collections are indexed as the concatenation
// of their elements' text.
func (ti *TextIndex) IndexDoc(rid model.RID, doc any) error {
	raw, ok := ti.disc.Discriminate(doc)
	ti.UnindexDoc(rid)
	if !ok || query.IsNil(raw) {
		return nil
	}

	tokens := ti.analyzer.Tokens(textOf(raw))
	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if slices.Contains(terms, tok) {
			continue
		}
		terms = append(terms, tok)

		e, ok := ti.inverted[tok]
		if !ok {
			e = &keywordEntry{value: query.String(tok), postings: NewPostings()}
			ti.inverted[tok] = e
			i, _ := slices.BinarySearch(ti.terms, tok)
			ti.terms = slices.Insert(ti.terms, i, tok)
		}
		e.postings.Add(rid)
	}
	ti.fwd[rid] = terms
	return nil
}

// UnindexDoc implements Index.
func (ti *TextIndex) UnindexDoc(rid model.RID) {
	terms, ok := ti.fwd[rid]
	if !ok {
		return
	}
	delete(ti.fwd, rid)

	for _, t := range terms {
		e, ok := ti.inverted[t]
		if !ok {
			continue
		}
		e.postings.Remove(rid)
		if e.postings.IsEmpty() {
			delete(ti.inverted, t)
			if i, found := slices.BinarySearch(ti.terms, t); found {
				ti.terms = slices.Delete(ti.terms, i, i+1)
			}
		}
	}
}

// DocIDs implements Index.
func (ti *TextIndex) DocIDs() *Postings {
	out := NewPostings()
	for rid := range ti.fwd {
		out.Add(rid)
	}
	return out
}

// ValueOf implements Index. Text indexes are not sortable.
func (ti *TextIndex) ValueOf(model.RID) (query.Value, bool) { return query.Value{}, false }

// Apply implements Index.
func (ti *TextIndex) Apply(c query.Comparator, args []query.Value) (*Postings, error) {
	switch c {
	case query.CmpContains:
		s, ok := args[0].AsString()
		if !ok {
			return nil, retrieval.InvalidArgumentf("%s: contains needs text, got %s", ti.name, args[0])
		}
		return ti.contains(s), nil
	case query.CmpDoesNotContain:
		out := ti.DocIDs()
		if s, ok := args[0].AsString(); ok {
			out.AndNot(ti.contains(s))
		}
		return out, nil
	}
	return nil, retrieval.InvalidArgumentf("%s: unsupported comparator %q for text index", ti.name, c)
}

// contains intersects the documents of every query token. A word ending
// in '*' matches its last token as a prefix. Text without tokens matches
// nothing.
func (ti *TextIndex) contains(text string) *Postings {
	var sets []*Postings
	for _, word := range strings.Fields(text) {
		prefix := strings.HasSuffix(word, "*")
		tokens := ti.analyzer.Tokens(strings.TrimRight(word, "*"))
		for i, tok := range tokens {
			if prefix && i == len(tokens)-1 {
				sets = append(sets, ti.prefixed(tok))
				continue
			}
			if e, ok := ti.inverted[tok]; ok {
				sets = append(sets, e.postings)
			} else {
				return NewPostings()
			}
		}
	}
	return Intersection(sets...)
}

func (ti *TextIndex) prefixed(prefix string) *Postings {
	out := NewPostings()
	i, _ := slices.BinarySearch(ti.terms, prefix)
	for _, t := range ti.terms[i:] {
		if !strings.HasPrefix(t, prefix) {
			break
		}
		out.Or(ti.inverted[t].postings)
	}
	return out
}

// Export implements Index.
func (ti *TextIndex) Export() (State, error) {
	return exportInverted(ti.name, model.KindText, ti.inverted)
}

// Import implements Index.
func (ti *TextIndex) Import(st State) error {
	if st.Kind != model.KindText {
		return retrieval.InvalidArgumentf("%s: cannot import %s state", ti.name, st.Kind)
	}
	inverted := make(map[string]*keywordEntry, len(st.Entries))
	fwd := make(map[model.RID][]string)
	terms := make([]string, 0, len(st.Entries))
	for _, e := range st.Entries {
		term, ok := e.Value.AsString()
		if !ok {
			return retrieval.InvalidArgumentf("%s: non-text term %s", ti.name, e.Value)
		}
		p, err := importEntry(e)
		if err != nil {
			return err
		}
		inverted[term] = &keywordEntry{value: e.Value, postings: p}
		terms = append(terms, term)
		for rid := range p.All() {
			fwd[rid] = append(fwd[rid], term)
		}
	}
	slices.Sort(terms)
	ti.inverted = inverted
	ti.fwd = fwd
	ti.terms = terms
	return nil
}

// Clear implements Index.
func (ti *TextIndex) Clear() {
	ti.inverted = make(map[string]*keywordEntry)
	ti.fwd = make(map[model.RID][]string)
	ti.terms = nil
}

func textOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if query.IsCollection(v) {
		parts := make([]string, 0)
		for _, e := range query.Elements(v) {
			parts = append(parts, textOf(e))
		}
		return strings.Join(parts, " ")
	}
	switch n := query.Normalize(v); n.Kind {
	case query.KindString:
		return n.S
	case query.KindMissing:
		return ""
	default:
		return fmt.Sprint(n.Interface())
	}
}
