package result

import (
	"encoding/binary"
	"iter"

	"github.com/cespare/xxhash/v2"

	"github.com/hupe1980/retrieval/index"
	"github.com/hupe1980/retrieval/model"
)

// RIDSet is an immutable set of record ids. The zero value is empty.
type RIDSet struct {
	p *index.Postings
}

// NewRIDSet creates a set holding rids.
func NewRIDSet(rids ...model.RID) RIDSet {
	return RIDSet{p: index.NewPostings(rids...)}
}

// Contains reports whether rid is a member.
func (s RIDSet) Contains(rid model.RID) bool {
	return s.p != nil && s.p.Contains(rid)
}

// Len returns the number of members.
func (s RIDSet) Len() int {
	if s.p == nil {
		return 0
	}
	return s.p.Len()
}

// Slice returns the members in ascending order.
func (s RIDSet) Slice() []model.RID {
	if s.p == nil {
		return nil
	}
	return s.p.RIDs()
}

// All iterates the members in ascending order.
func (s RIDSet) All() iter.Seq[model.RID] {
	return func(yield func(model.RID) bool) {
		if s.p == nil {
			return
		}
		for rid := range s.p.All() {
			if !yield(rid) {
				return
			}
		}
	}
}

// Union returns s ∪ o.
func (s RIDSet) Union(o RIDSet) RIDSet {
	return RIDSet{p: index.Union(s.postings(), o.postings())}
}

// Intersect returns s ∩ o.
func (s RIDSet) Intersect(o RIDSet) RIDSet {
	return RIDSet{p: index.Intersection(s.postings(), o.postings())}
}

// Difference returns s − o.
func (s RIDSet) Difference(o RIDSet) RIDSet {
	p := s.postings().Clone()
	p.AndNot(o.postings())
	return RIDSet{p: p}
}

// Equal reports whether both sets hold the same members.
func (s RIDSet) Equal(o RIDSet) bool {
	if s.Len() != o.Len() {
		return false
	}
	return s.Intersect(o).Len() == s.Len()
}

// Hash returns a content hash. Equal sets hash equally regardless of the
// order their members were added in.
func (s RIDSet) Hash() uint64 {
	d := xxhash.New()
	var buf [8]byte
	for rid := range s.All() {
		binary.BigEndian.PutUint64(buf[:], uint64(rid))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

func (s RIDSet) postings() *index.Postings {
	if s.p == nil {
		return index.NewPostings()
	}
	return s.p
}
