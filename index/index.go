package index

import (
	"github.com/hupe1980/retrieval/model"
	"github.com/hupe1980/retrieval/query"
)

// Index is a named, typed mapping from normalized values to posting sets.
type Index interface {
	// Name returns the index name, "<kind>_<field>" for derived indexes.
	Name() string

	// Kind returns the index kind.
	Kind() model.IndexKind

	// IndexDoc extracts the document's value and stores rid under it.
	// A rid already held is re-indexed. A document without the field is
	// not stored.
	IndexDoc(rid model.RID, doc any) error

	// UnindexDoc removes rid from every posting set. It is a no-op for ids
	// the index never held.
	UnindexDoc(rid model.RID)

	// DocIDs returns the set of indexed record ids.
	DocIDs() *Postings

	// Len returns the number of indexed documents.
	Len() int

	// Apply evaluates a comparator against the index.
	Apply(c query.Comparator, args []query.Value) (*Postings, error)

	// ValueOf returns the sort key of rid, if the index supports sorting.
	ValueOf(rid model.RID) (query.Value, bool)

	// Export returns the index content.
	Export() (State, error)

	// Import replaces the index content.
	Import(State) error

	// Clear removes every entry.
	Clear()
}

// State is the exported content of an index: one entry per distinct value
// (or keyword, or token) with its posting set.
type State struct {
	Name    string          `msgpack:"name" json:"name"`
	Kind    model.IndexKind `msgpack:"kind" json:"kind"`
	Entries []Entry         `msgpack:"entries" json:"entries"`
}

// Entry is one posting set in a State. Postings hold the portable Roaring
// serialization of the set.
type Entry struct {
	Value    query.Value `msgpack:"v" json:"v"`
	Postings []byte      `msgpack:"p" json:"p"`
}

func exportEntry(v query.Value, p *Postings) (Entry, error) {
	data, err := p.MarshalBinary()
	if err != nil {
		return Entry{}, err
	}
	return Entry{Value: v, Postings: data}, nil
}

func importEntry(e Entry) (*Postings, error) {
	p := NewPostings()
	if err := p.UnmarshalBinary(e.Postings); err != nil {
		return nil, err
	}
	return p, nil
}
