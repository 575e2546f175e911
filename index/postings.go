package index

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/retrieval/model"
)

const signBit = uint64(1) << 63

func toKey(rid model.RID) uint64 { return uint64(rid) ^ signBit }

func fromKey(k uint64) model.RID { return model.RID(int64(k ^ signBit)) }

// Postings is a set of record ids.
// It wraps a 64-bit Roaring Bitmap; iteration is in ascending RID order.
type Postings struct {
	rb *roaring64.Bitmap
}

// NewPostings creates a set holding rids.
func NewPostings(rids ...model.RID) *Postings {
	p := &Postings{rb: roaring64.New()}
	for _, rid := range rids {
		p.rb.Add(toKey(rid))
	}
	return p
}

// Add adds rid to the set.
func (p *Postings) Add(rid model.RID) { p.rb.Add(toKey(rid)) }

// Remove removes rid from the set.
func (p *Postings) Remove(rid model.RID) { p.rb.Remove(toKey(rid)) }

// Contains reports whether rid is in the set.
func (p *Postings) Contains(rid model.RID) bool { return p.rb.Contains(toKey(rid)) }

// Len returns the cardinality of the set.
func (p *Postings) Len() int { return int(p.rb.GetCardinality()) }

// IsEmpty returns true if the set is empty.
func (p *Postings) IsEmpty() bool { return p.rb.IsEmpty() }

// Clone returns an independent copy.
func (p *Postings) Clone() *Postings { return &Postings{rb: p.rb.Clone()} }

// And intersects p with o in place.
func (p *Postings) And(o *Postings) { p.rb.And(o.rb) }

// Or unions o into p in place.
func (p *Postings) Or(o *Postings) { p.rb.Or(o.rb) }

// AndNot removes o's members from p in place.
func (p *Postings) AndNot(o *Postings) { p.rb.AndNot(o.rb) }

// RIDs returns the members in ascending order.
func (p *Postings) RIDs() []model.RID {
	out := make([]model.RID, 0, p.Len())
	it := p.rb.Iterator()
	for it.HasNext() {
		out = append(out, fromKey(it.Next()))
	}
	return out
}

// All iterates the members in ascending order.
func (p *Postings) All() iter.Seq[model.RID] {
	return func(yield func(model.RID) bool) {
		it := p.rb.Iterator()
		for it.HasNext() {
			if !yield(fromKey(it.Next())) {
				return
			}
		}
	}
}

// MarshalBinary returns the portable Roaring serialization.
func (p *Postings) MarshalBinary() ([]byte, error) { return p.rb.MarshalBinary() }

// UnmarshalBinary replaces the set with a portable Roaring serialization.
func (p *Postings) UnmarshalBinary(data []byte) error {
	rb := roaring64.New()
	if err := rb.UnmarshalBinary(data); err != nil {
		return err
	}
	p.rb = rb
	return nil
}

// Union returns the union of sets as a new set.
func Union(sets ...*Postings) *Postings {
	out := NewPostings()
	for _, s := range sets {
		out.rb.Or(s.rb)
	}
	return out
}

// Intersection returns the intersection of sets as a new set. No sets
// yields an empty set.
func Intersection(sets ...*Postings) *Postings {
	if len(sets) == 0 {
		return NewPostings()
	}
	out := sets[0].Clone()
	for _, s := range sets[1:] {
		out.rb.And(s.rb)
	}
	return out
}
