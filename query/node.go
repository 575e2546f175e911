package query

import (
	"fmt"
	"strings"

	"github.com/hupe1980/retrieval"
)

// Comparator selects how a leaf matches the values of its index.
type Comparator string

const (
	// CmpEq matches values equal to the argument.
	CmpEq Comparator = "eq"
	// CmpNotEq matches values not equal to the argument.
	CmpNotEq Comparator = "not_eq"
	// CmpAny matches documents holding any of the arguments.
	CmpAny Comparator = "any"
	// CmpAll matches documents holding all of the arguments.
	CmpAll Comparator = "all"
	// CmpContains matches text containing every token of the argument.
	CmpContains Comparator = "contains"
	// CmpDoesNotContain is the complement of CmpContains (or of CmpAny for
	// keyword indexes).
	CmpDoesNotContain Comparator = "does_not_contain"
	// CmpGe matches values >= the argument.
	CmpGe Comparator = "ge"
	// CmpGt matches values > the argument.
	CmpGt Comparator = "gt"
	// CmpLe matches values <= the argument.
	CmpLe Comparator = "le"
	// CmpLt matches values < the argument.
	CmpLt Comparator = "lt"
	// CmpInRange matches values in the closed interval [lo, hi].
	CmpInRange Comparator = "in_range"
	// CmpNotInRange matches values outside [lo, hi].
	CmpNotInRange Comparator = "not_in_range"
)

// arity returns the required argument count; -1 means one or more.
func (c Comparator) arity() (int, bool) {
	switch c {
	case CmpEq, CmpNotEq, CmpContains, CmpDoesNotContain, CmpGe, CmpGt, CmpLe, CmpLt:
		return 1, true
	case CmpInRange, CmpNotInRange:
		return 2, true
	case CmpAny, CmpAll:
		return -1, true
	}
	return 0, false
}

// IsRange reports whether c is an ordered comparison.
func (c Comparator) IsRange() bool {
	switch c {
	case CmpGe, CmpGt, CmpLe, CmpLt, CmpInRange, CmpNotInRange:
		return true
	}
	return false
}

// Node is a predicate tree node.
type Node interface {
	fmt.Stringer
	// Validate checks the node and its children.
	Validate() error
}

// Leaf is a predicate over a single index.
type Leaf struct {
	Index string
	Cmp   Comparator
	Args  []Value
}

// NewLeaf creates a leaf with normalized arguments and checks its arity.
func NewLeaf(index string, c Comparator, args ...any) (*Leaf, error) {
	l := leaf(index, c, args...)
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

func leaf(index string, c Comparator, args ...any) *Leaf {
	return &Leaf{Index: index, Cmp: c, Args: NormalizeAll(args)}
}

// Eq matches documents whose value equals v.
func Eq(index string, v any) *Leaf { return leaf(index, CmpEq, v) }

// NotEq matches documents whose value differs from v.
func NotEq(index string, v any) *Leaf { return leaf(index, CmpNotEq, v) }

// Any matches documents holding any of vs.
func Any(index string, vs ...any) *Leaf { return leaf(index, CmpAny, vs...) }

// All matches documents holding every one of vs.
func All(index string, vs ...any) *Leaf { return leaf(index, CmpAll, vs...) }

// Contains matches text documents containing every token of text.
// A trailing '*' on a token matches it as a prefix.
func Contains(index, text string) *Leaf { return leaf(index, CmpContains, text) }

// DoesNotContain is the complement of Contains.
func DoesNotContain(index string, v any) *Leaf { return leaf(index, CmpDoesNotContain, v) }

// Ge matches values >= v.
func Ge(index string, v any) *Leaf { return leaf(index, CmpGe, v) }

// Gt matches values > v.
func Gt(index string, v any) *Leaf { return leaf(index, CmpGt, v) }

// Le matches values <= v.
func Le(index string, v any) *Leaf { return leaf(index, CmpLe, v) }

// Lt matches values < v.
func Lt(index string, v any) *Leaf { return leaf(index, CmpLt, v) }

// InRange matches values in [lo, hi].
func InRange(index string, lo, hi any) *Leaf { return leaf(index, CmpInRange, lo, hi) }

// NotInRange matches values outside [lo, hi].
func NotInRange(index string, lo, hi any) *Leaf { return leaf(index, CmpNotInRange, lo, hi) }

// Validate implements Node.
func (l *Leaf) Validate() error {
	if l == nil {
		return retrieval.InvalidArgumentf("nil predicate")
	}
	if l.Index == "" {
		return retrieval.InvalidArgumentf("%s: empty index name", l.Cmp)
	}
	n, ok := l.Cmp.arity()
	if !ok {
		return retrieval.InvalidArgumentf("unknown comparator %q", l.Cmp)
	}
	switch {
	case n < 0 && len(l.Args) == 0:
		return retrieval.InvalidArgumentf("%s(%s): needs at least one argument", l.Cmp, l.Index)
	case n >= 0 && len(l.Args) != n:
		return retrieval.InvalidArgumentf("%s(%s): needs %d argument(s), got %d", l.Cmp, l.Index, n, len(l.Args))
	}
	if l.Cmp == CmpContains {
		if _, ok := l.Args[0].AsString(); !ok {
			return retrieval.InvalidArgumentf("contains(%s): argument must be text", l.Index)
		}
	}
	return nil
}

func (l *Leaf) String() string {
	args := make([]string, len(l.Args))
	for i, a := range l.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s, %s)", l.Cmp, l.Index, strings.Join(args, ", "))
}

// BoolOp combines child result sets.
type BoolOp string

const (
	// OpAnd intersects child results.
	OpAnd BoolOp = "and"
	// OpOr unions child results.
	OpOr BoolOp = "or"
)

// Boolean combines child nodes.
type Boolean struct {
	Op       BoolOp
	Children []Node
}

// And intersects the results of nodes.
func And(nodes ...Node) *Boolean { return &Boolean{Op: OpAnd, Children: nodes} }

// Or unions the results of nodes.
func Or(nodes ...Node) *Boolean { return &Boolean{Op: OpOr, Children: nodes} }

// Validate implements Node.
func (b *Boolean) Validate() error {
	if b == nil {
		return retrieval.InvalidArgumentf("nil predicate")
	}
	if b.Op != OpAnd && b.Op != OpOr {
		return retrieval.InvalidArgumentf("unknown boolean operator %q", b.Op)
	}
	if len(b.Children) == 0 {
		return retrieval.InvalidArgumentf("%s: no operands", b.Op)
	}
	for _, c := range b.Children {
		if c == nil {
			return retrieval.InvalidArgumentf("%s: nil operand", b.Op)
		}
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (b *Boolean) String() string {
	parts := make([]string, len(b.Children))
	for i, c := range b.Children {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%s(%s)", b.Op, strings.Join(parts, ", "))
}

// NormalizeNode returns a copy of n with every literal normalized and
// nested booleans of the same operator flattened. It is idempotent.
func NormalizeNode(n Node) Node {
	switch x := n.(type) {
	case *Leaf:
		args := make([]Value, len(x.Args))
		for i, a := range x.Args {
			args[i] = Normalize(a)
		}
		return &Leaf{Index: x.Index, Cmp: x.Cmp, Args: args}
	case *Boolean:
		out := &Boolean{Op: x.Op}
		for _, c := range x.Children {
			nc := NormalizeNode(c)
			if nb, ok := nc.(*Boolean); ok && nb.Op == x.Op {
				out.Children = append(out.Children, nb.Children...)
				continue
			}
			out.Children = append(out.Children, nc)
		}
		return out
	}
	return n
}
