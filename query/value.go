package query

import (
	"cmp"
	"math"
	"strconv"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindMissing marks an absent (nil) value. It is the zero Kind.
	KindMissing Kind = iota
	// KindBool represents a boolean value.
	KindBool
	// KindInt represents an integer value.
	KindInt
	// KindFloat represents a float value.
	KindFloat
	// KindString represents a string value.
	KindString
)

// Value is a normalized scalar.
//
// Values are totally ordered: Bool < numbers < String < Missing. Ints and
// floats compare numerically with each other.
//
// NOTE: This is also used for persistence; keep it stable.
type Value struct {
	Kind Kind    `msgpack:"k" json:"k"`
	I64  int64   `msgpack:"i,omitempty" json:"i,omitempty"`
	F64  float64 `msgpack:"f,omitempty" json:"f,omitempty"`
	S    string  `msgpack:"s,omitempty" json:"s,omitempty"`
	B    bool    `msgpack:"b,omitempty" json:"b,omitempty"`
}

// Missing returns the sentinel for absent values.
func Missing() Value { return Value{Kind: KindMissing} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Int returns an int64 Value.
func Int(v int64) Value { return Value{Kind: KindInt, I64: v} }

// Float returns a float64 Value.
func Float(v float64) Value { return Value{Kind: KindFloat, F64: v} }

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, S: v} }

// IsMissing reports whether v is the Missing sentinel.
func (v Value) IsMissing() bool { return v.Kind == KindMissing }

// IsNumber reports whether v is an Int or a Float.
func (v Value) IsNumber() bool { return v.Kind == KindInt || v.Kind == KindFloat }

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.S, true
}

// Interface returns the plain Go value: nil, bool, int64, float64 or string.
func (v Value) Interface() any {
	switch v.Kind {
	case KindBool:
		return v.B
	case KindInt:
		return v.I64
	case KindFloat:
		return v.F64
	case KindString:
		return v.S
	default:
		return nil
	}
}

// Key returns a stable string representation for use in maps.
//
// Numerically equal Ints and Floats share a key.
func (v Value) Key() string {
	switch v.Kind {
	case KindBool:
		if v.B {
			return "b:1"
		}
		return "b:0"
	case KindInt:
		return "n:" + strconv.FormatInt(v.I64, 10)
	case KindFloat:
		if i, ok := exactInt(v.F64); ok {
			return "n:" + strconv.FormatInt(i, 10)
		}
		return "f:" + strconv.FormatUint(math.Float64bits(v.F64), 16)
	case KindString:
		return "s:" + v.S
	default:
		return "missing"
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindInt:
		return strconv.FormatInt(v.I64, 10)
	case KindFloat:
		return strconv.FormatFloat(v.F64, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.S)
	default:
		return "<missing>"
	}
}

// Compare returns -1, 0 or +1 depending on whether a sorts before, equal to
// or after b.
func Compare(a, b Value) int {
	if ra, rb := rank(a.Kind), rank(b.Kind); ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch a.Kind {
	case KindBool:
		return cmp.Compare(boolInt(a.B), boolInt(b.B))
	case KindInt, KindFloat:
		switch {
		case a.Kind == KindInt && b.Kind == KindInt:
			return cmp.Compare(a.I64, b.I64)
		case a.Kind == KindInt:
			return compareIntFloat(a.I64, b.F64)
		case b.Kind == KindInt:
			return -compareIntFloat(b.I64, a.F64)
		}
		return cmp.Compare(a.F64, b.F64)
	case KindString:
		return cmp.Compare(a.S, b.S)
	default:
		return 0
	}
}

// SameDomain reports whether a and b are both booleans, both numbers, both
// strings or both Missing. Range predicates only match within one domain.
func SameDomain(a, b Value) bool { return rank(a.Kind) == rank(b.Kind) }

// Equal reports whether a and b compare equal.
func Equal(a, b Value) bool { return Compare(a, b) == 0 }

func rank(k Kind) int {
	switch k {
	case KindBool:
		return 0
	case KindInt, KindFloat:
		return 1
	case KindString:
		return 2
	default:
		return 3
	}
}

// compareIntFloat compares i and f exactly, without rounding i to a float.
func compareIntFloat(i int64, f float64) int {
	switch {
	case math.IsNaN(f):
		return 1
	case f >= math.MaxInt64:
		return -1
	case f < math.MinInt64:
		return 1
	}
	t := math.Trunc(f)
	if c := cmp.Compare(i, int64(t)); c != 0 {
		return c
	}
	return cmp.Compare(t, f)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func exactInt(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
