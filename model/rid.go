package model

import (
	"math"
	"math/big"

	"github.com/hupe1980/retrieval"
)

// ParseRID converts an integer of any Go integer type into a RID.
//
// Values outside [math.MinInt64, math.MaxInt64] fail with ErrOutOfRange;
// non-integer inputs fail with ErrInvalidArgument.
func ParseRID(v any) (RID, error) {
	switch x := v.(type) {
	case RID:
		return x, nil
	case int:
		return RID(x), nil
	case int8:
		return RID(x), nil
	case int16:
		return RID(x), nil
	case int32:
		return RID(x), nil
	case int64:
		return RID(x), nil
	case uint:
		return fromUint64(uint64(x))
	case uint8:
		return RID(x), nil
	case uint16:
		return RID(x), nil
	case uint32:
		return RID(x), nil
	case uint64:
		return fromUint64(x)
	case *big.Int:
		if x == nil {
			break
		}
		if !x.IsInt64() {
			return 0, &retrieval.RangeError{Value: x.String()}
		}
		return RID(x.Int64()), nil
	}
	return 0, retrieval.InvalidArgumentf("cannot derive rid from %T", v)
}

// IsRIDLike reports whether v is of a type ParseRID accepts.
func IsRIDLike(v any) bool {
	switch v.(type) {
	case RID, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, *big.Int:
		return true
	}
	return false
}

func fromUint64(x uint64) (RID, error) {
	if x > math.MaxInt64 {
		return 0, &retrieval.RangeError{Value: x}
	}
	return RID(x), nil
}
