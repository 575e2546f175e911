package result

import (
	"github.com/hupe1980/retrieval"
	"github.com/hupe1980/retrieval/model"
)

// Operand is any UID-keyed collection that can take part in set
// operations. Only operands of the receiver's own type are accepted.
type Operand interface {
	Len() int
	Keys() []model.UID
}

func searchOperand(o Operand) (*SearchResult, error) {
	other, ok := o.(*SearchResult)
	if !ok || other == nil {
		return nil, retrieval.ErrHeterogeneousOperands
	}
	return other, nil
}

// Union returns the receiver's members followed by the members of o the
// receiver lacks.
func (r *SearchResult) Union(o Operand) (*SearchResult, error) {
	other, err := searchOperand(o)
	if err != nil {
		return nil, err
	}

	pairs := r.pairs(r.rids)
	for _, rid := range other.rids {
		if r.set.Contains(rid) {
			continue
		}
		uid, _ := other.UIDFor(rid)
		pairs = append(pairs, model.Pair{UID: uid, RID: rid})
	}
	return r.derive(pairs)
}

// Intersection returns the common members in the order of the smaller
// operand; on a tie the order of o is used.
func (r *SearchResult) Intersection(o Operand) (*SearchResult, error) {
	other, err := searchOperand(o)
	if err != nil {
		return nil, err
	}

	common := r.set.Intersect(other.set)
	smallest := other
	if r.set.Len() < other.set.Len() {
		smallest = r
	}

	pairs := make([]model.Pair, 0, common.Len())
	for _, rid := range smallest.rids {
		if common.Contains(rid) {
			uid, _ := smallest.UIDFor(rid)
			pairs = append(pairs, model.Pair{UID: uid, RID: rid})
		}
	}
	return r.derive(pairs)
}

// Difference returns the receiver's members missing from o.
func (r *SearchResult) Difference(o Operand) (*SearchResult, error) {
	other, err := searchOperand(o)
	if err != nil {
		return nil, err
	}

	keep := make([]model.RID, 0, len(r.rids))
	for _, rid := range r.rids {
		if !other.set.Contains(rid) {
			keep = append(keep, rid)
		}
	}
	return r.derive(r.pairs(keep))
}

func (r *SearchResult) pairs(rids []model.RID) []model.Pair {
	out := make([]model.Pair, 0, len(rids))
	for _, rid := range rids {
		uid, _ := r.UIDFor(rid)
		out = append(out, model.Pair{UID: uid, RID: rid})
	}
	return out
}

func (r *SearchResult) derive(pairs []model.Pair) (*SearchResult, error) {
	return FromPairs(pairs, r.resolver, WithParent(r.parent))
}
