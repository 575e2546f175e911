package query

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/hupe1980/retrieval/model"
)

// Normalize maps a raw field value or query literal into the normalized
// domain.
//
// Values of unsupported types normalize to their fmt.Sprint string so they
// remain comparable.
func Normalize(v any) Value {
	switch x := v.(type) {
	case nil:
		return Missing()
	case Value:
		return x
	case *Value:
		if x == nil {
			return Missing()
		}
		return *x
	case time.Time:
		return Int(x.Unix())
	case *time.Time:
		if x == nil {
			return Missing()
		}
		return Int(x.Unix())
	case model.Date:
		return Int(x.Ordinal())
	case *model.Date:
		if x == nil {
			return Missing()
		}
		return Int(x.Ordinal())
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int64:
		return Int(x)
	case int32:
		return Int(int64(x))
	case float64:
		return Float(x)
	case string:
		return String(x)
	case []byte:
		return String(string(x))
	case model.UID:
		return String(string(x))
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return Missing()
		}
		return Normalize(rv.Elem().Interface())
	case reflect.Slice, reflect.Map, reflect.Interface:
		if rv.IsNil() {
			return Missing()
		}
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Float(float64(u))
		}
		return Int(int64(u))
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float())
	case reflect.String:
		return String(rv.String())
	}
	return String(fmt.Sprint(v))
}

// NormalizeAll normalizes every element of vs.
func NormalizeAll(vs []any) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = Normalize(v)
	}
	return out
}

// Elements returns the elements of a slice or array value. Scalars (and
// []byte, strings) are returned as a single element; nil yields none.
func Elements(v any) []any {
	if v == nil {
		return nil
	}
	switch x := v.(type) {
	case []any:
		return x
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out
	case []byte, string:
		return []any{v}
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	case reflect.Map:
		// sets are commonly modeled as map[T]struct{} or map[T]bool
		out := make([]any, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			out = append(out, k.Interface())
		}
		return out
	}
	return []any{v}
}

// IsNil reports whether v is nil or a nil pointer, slice, map or interface.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// IsCollection reports whether Elements would unpack v.
func IsCollection(v any) bool {
	switch v.(type) {
	case nil, []byte, string:
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}
