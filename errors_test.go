package retrieval

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyError(t *testing.T) {
	err := NewKeyError("remove", "11111111-1111-1111-1111-111111111111", ErrNotFound)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", err)))
	assert.Equal(t, "remove: not found: 11111111-1111-1111-1111-111111111111", err.Error())

	var ke *KeyError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &ke))
	assert.Equal(t, "remove", ke.Op)

	assert.Equal(t, "duplicate key: 42", NewKeyError("", 42, ErrDuplicateKey).Error())
}

func TestRangeError(t *testing.T) {
	err := &RangeError{Value: "9223372036854775808"}
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Contains(t, err.Error(), "9223372036854775808")
}

func TestInvalidArgumentf(t *testing.T) {
	err := InvalidArgumentf("cannot derive uid from %T", 1.5)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, "invalid argument: cannot derive uid from float64", err.Error())
	assert.False(t, IsNotFound(err))
}
