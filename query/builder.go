package query

import (
	"slices"
	"strings"

	"github.com/hupe1980/retrieval"
)

// Spec pairs an explicit comparator with its arguments in a query mapping.
type Spec struct {
	Cmp  Comparator
	Args []any
}

// With overrides the default comparator for one mapping entry.
func With(c Comparator, args ...any) Spec {
	return Spec{Cmp: c, Args: args}
}

// Builder turns index-name → value mappings into predicate trees.
//
// The default comparator for a bare value is picked by the longest matching
// index-name prefix in Defaults, else Fallback.
type Builder struct {
	Defaults map[string]Comparator
	Fallback Comparator
}

// DefaultBuilder returns a Builder mapping "text_" to CmpContains,
// "keyword_" to CmpAny and everything else to CmpEq.
func DefaultBuilder() *Builder {
	return &Builder{
		Defaults: map[string]Comparator{
			"text_":    CmpContains,
			"keyword_": CmpAny,
		},
		Fallback: CmpEq,
	}
}

// DefaultComparator returns the comparator used for a bare value on index.
func (b *Builder) DefaultComparator(index string) Comparator {
	best, bestLen := b.Fallback, -1
	for prefix, c := range b.Defaults {
		if strings.HasPrefix(index, prefix) && len(prefix) > bestLen {
			best, bestLen = c, len(prefix)
		}
	}
	if best == "" {
		return CmpEq
	}
	return best
}

// Leaf builds a single predicate for index from a mapping value.
func (b *Builder) Leaf(index string, v any) (*Leaf, error) {
	if s, ok := v.(Spec); ok {
		return NewLeaf(index, s.Cmp, s.Args...)
	}
	if s, ok := v.(*Spec); ok && s != nil {
		return NewLeaf(index, s.Cmp, s.Args...)
	}

	c := b.DefaultComparator(index)
	switch c {
	case CmpAny, CmpAll:
		return NewLeaf(index, c, Elements(v)...)
	case CmpInRange, CmpNotInRange:
		return NewLeaf(index, c, Elements(v)...)
	}
	if IsCollection(v) {
		return nil, retrieval.InvalidArgumentf("%s(%s): collection argument %v", c, index, v)
	}
	return NewLeaf(index, c, v)
}

// FromMapping ANDs one predicate per entry, ordered by index name. A mapping
// with one entry yields that predicate alone.
func (b *Builder) FromMapping(m map[string]any) (Node, error) {
	if len(m) == 0 {
		return nil, retrieval.InvalidArgumentf("empty query mapping")
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	nodes := make([]Node, 0, len(keys))
	for _, k := range keys {
		l, err := b.Leaf(k, m[k])
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, l)
	}
	if len(nodes) == 1 {
		return nodes[0], nil
	}
	return And(nodes...), nil
}
