package model

import (
	"bytes"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/retrieval"
)

type doc struct{ id UID }

func (d doc) UID() UID { return d.id }

func TestParseUID(t *testing.T) {
	const canonical = "11111111-1111-1111-1111-111111111111"
	u := uuid.MustParse(canonical)

	tests := []struct {
		name string
		in   any
	}{
		{"string", canonical},
		{"braces", "{" + canonical + "}"},
		{"urn", "urn:uuid:" + canonical},
		{"uid", UID(canonical)},
		{"uuid", u},
		{"uuid pointer", &u},
		{"array", [16]byte(u)},
		{"raw bytes", u[:]},
		{"text bytes", []byte(canonical)},
		{"provider", doc{id: canonical}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUID(tt.in)
			require.NoError(t, err)
			assert.Equal(t, UID(canonical), got)
		})
	}
}

func TestParseUIDInvalid(t *testing.T) {
	for _, in := range []any{"not-a-uuid", 42, nil, []byte{1, 2, 3}, struct{}{}} {
		_, err := ParseUID(in)
		assert.ErrorIs(t, err, retrieval.ErrInvalidArgument, "%v", in)
	}
}

func TestNewUID(t *testing.T) {
	a := NewUID()
	b := NewUID()
	assert.NotEqual(t, a, b)

	parsed, err := ParseUID(a)
	require.NoError(t, err)
	assert.Equal(t, a, parsed)

	fixed, err := NewUIDFrom(bytes.NewReader(make([]byte, 16)))
	require.NoError(t, err)
	assert.Equal(t, UID("00000000-0000-4000-8000-000000000000"), fixed)
}

func TestParseRID(t *testing.T) {
	rid, err := ParseRID(int32(-7))
	require.NoError(t, err)
	assert.Equal(t, RID(-7), rid)

	rid, err = ParseRID(uint64(math.MaxInt64))
	require.NoError(t, err)
	assert.Equal(t, RID(math.MaxInt64), rid)

	_, err = ParseRID(uint64(math.MaxInt64) + 1)
	assert.ErrorIs(t, err, retrieval.ErrOutOfRange)

	tooSmall := new(big.Int).Sub(big.NewInt(math.MinInt64), big.NewInt(1))
	_, err = ParseRID(tooSmall)
	assert.ErrorIs(t, err, retrieval.ErrOutOfRange)

	rid, err = ParseRID(big.NewInt(math.MinInt64))
	require.NoError(t, err)
	assert.Equal(t, RID(math.MinInt64), rid)

	_, err = ParseRID("12")
	assert.ErrorIs(t, err, retrieval.ErrInvalidArgument)
}

func TestDateOrdinal(t *testing.T) {
	assert.Equal(t, int64(1), NewDate(1, time.January, 1).Ordinal())
	assert.Equal(t, int64(719163), NewDate(1970, time.January, 1).Ordinal())
	assert.Equal(t, int64(730120), NewDate(2000, time.January, 1).Ordinal())

	d := NewDate(2024, time.February, 29)
	assert.Equal(t, d, DateFromOrdinal(d.Ordinal()))
	assert.Equal(t, "2024-02-29", d.String())
}

func TestIndexName(t *testing.T) {
	assert.Equal(t, "text_bio", IndexName(KindText, "bio"))

	kind, field, ok := SplitIndexName("keyword_favorite_colors")
	require.True(t, ok)
	assert.Equal(t, KindKeyword, kind)
	assert.Equal(t, "favorite_colors", field)

	_, _, ok = SplitIndexName("vector_x")
	assert.False(t, ok)
	_, _, ok = SplitIndexName("field_")
	assert.False(t, ok)
}
