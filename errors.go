package retrieval

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when a UID cannot be derived from an
	// argument or when a query argument is malformed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateKey is returned when a UID or RID is already bound.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrNotFound is returned when a UID or RID is not bound.
	ErrNotFound = errors.New("not found")

	// ErrOutOfRange is returned when a record id lies outside the signed
	// 64-bit id space.
	ErrOutOfRange = errors.New("record id out of range")

	// ErrHeterogeneousOperands is returned by set operations that combine
	// collections of different types.
	ErrHeterogeneousOperands = errors.New("heterogeneous set operation unsupported")

	// ErrExhaustedKeyspace is returned when record id generation gives up
	// after its probe budget.
	ErrExhaustedKeyspace = errors.New("record id keyspace exhausted")
)

// KeyError reports the identifier involved in a lookup or binding failure.
//
// It unwraps to one of the sentinel errors so callers can use errors.Is.
type KeyError struct {
	Key   any
	Op    string
	cause error
}

// NewKeyError creates a KeyError for key wrapping the given sentinel.
func NewKeyError(op string, key any, sentinel error) *KeyError {
	return &KeyError{Key: key, Op: op, cause: sentinel}
}

func (e *KeyError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%v: %v", e.cause, e.Key)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.cause, e.Key)
}

func (e *KeyError) Unwrap() error { return e.cause }

// RangeError reports a record id outside [MinInt64, MaxInt64].
type RangeError struct {
	Value any
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("record id out of range: %v", e.Value)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// InvalidArgumentf formats a message and wraps ErrInvalidArgument.
func InvalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
