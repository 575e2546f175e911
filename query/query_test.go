package query

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/retrieval"
	"github.com/hupe1980/retrieval/model"
)

type color string

func TestNormalize(t *testing.T) {
	when := time.Date(2020, time.March, 4, 5, 6, 7, 999, time.UTC)
	day := model.NewDate(2000, time.January, 1)

	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Missing()},
		{"time", when, Int(when.Unix())},
		{"time pointer", &when, Int(when.Unix())},
		{"nil time pointer", (*time.Time)(nil), Missing()},
		{"date", day, Int(730120)},
		{"int", 42, Int(42)},
		{"int8", int8(-3), Int(-3)},
		{"uint16", uint16(9), Int(9)},
		{"float32", float32(1.5), Float(1.5)},
		{"string", "red", String("red")},
		{"named string", color("red"), String("red")},
		{"uid", model.UID("x"), String("x")},
		{"bool", true, Bool(true)},
		{"bytes", []byte("abc"), String("abc")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Normalize(got), "idempotent")
			assert.Equal(t, got, Normalize(got.Interface()), "plain round trip")
		})
	}
}

func TestNormalizeEpochSecondsIsNoop(t *testing.T) {
	secs := time.Date(2010, time.May, 1, 0, 0, 0, 0, time.UTC).Unix()
	assert.Equal(t, Int(secs), Normalize(secs))
	assert.Equal(t, Normalize(secs), Normalize(Normalize(secs)))
}

func TestCompareOrder(t *testing.T) {
	ordered := []Value{
		Bool(false),
		Bool(true),
		Int(-5),
		Float(-4.5),
		Int(0),
		Float(1e18),
		String(""),
		String("a"),
		Missing(),
	}
	for i := range ordered {
		for j := range ordered {
			want := 0
			if i < j {
				want = -1
			} else if i > j {
				want = 1
			}
			assert.Equal(t, want, Compare(ordered[i], ordered[j]), "%v vs %v", ordered[i], ordered[j])
		}
	}

	assert.True(t, Equal(Int(1), Float(1)))
	assert.Equal(t, Int(1).Key(), Float(1).Key())
	assert.NotEqual(t, Int(1).Key(), Float(1.5).Key())
	assert.NotEqual(t, Int(1).Key(), String("1").Key())
}

func TestCompareLargeIntsExactly(t *testing.T) {
	const p53 = int64(1) << 53

	assert.Equal(t, 0, Compare(Int(p53), Float(float64(p53))))
	assert.Equal(t, 1, Compare(Int(p53+1), Float(float64(p53))))
	assert.Equal(t, -1, Compare(Float(float64(p53)), Int(p53+1)))
	assert.Equal(t, -1, Compare(Int(math.MaxInt64), Float(math.MaxInt64)))
	assert.Equal(t, 1, Compare(Int(math.MinInt64), Float(-1e19)))
	assert.Equal(t, -1, Compare(Int(-3), Float(-2.5)))
	assert.Equal(t, 1, Compare(Int(-2), Float(-2.5)))
	assert.Equal(t, 1, Compare(Int(0), Float(math.NaN())))

	// transitive across kinds
	a, b, c := Int(p53), Float(float64(p53)), Int(p53+1)
	assert.Equal(t, 0, Compare(a, b))
	assert.Equal(t, -1, Compare(a, c))
	assert.Equal(t, -1, Compare(b, c))
}

func TestLeafValidate(t *testing.T) {
	require.NoError(t, Eq("field_a", 1).Validate())
	require.NoError(t, InRange("field_a", 1, 2).Validate())
	require.NoError(t, Any("keyword_a", "x", "y").Validate())

	assert.ErrorIs(t, Any("keyword_a").Validate(), retrieval.ErrInvalidArgument)
	assert.ErrorIs(t, Eq("", 1).Validate(), retrieval.ErrInvalidArgument)
	assert.ErrorIs(t, (&Leaf{Index: "x", Cmp: "like"}).Validate(), retrieval.ErrInvalidArgument)
	assert.ErrorIs(t, (&Leaf{Index: "text_a", Cmp: CmpContains, Args: []Value{Int(1)}}).Validate(), retrieval.ErrInvalidArgument)
	assert.ErrorIs(t, And().Validate(), retrieval.ErrInvalidArgument)
	assert.ErrorIs(t, Or(Eq("field_a", 1), Lt("", 2)).Validate(), retrieval.ErrInvalidArgument)

	_, err := NewLeaf("field_a", CmpInRange, 1)
	assert.ErrorIs(t, err, retrieval.ErrInvalidArgument)
}

func TestLeafNormalizesLiterals(t *testing.T) {
	day := model.NewDate(2000, time.January, 1)
	l := InRange("field_when", day, nil)
	assert.Equal(t, []Value{Int(day.Ordinal()), Missing()}, l.Args)
	assert.Equal(t, `eq(field_color, "red")`, Eq("field_color", "red").String())
}

func TestNormalizeNode(t *testing.T) {
	n := And(Eq("field_a", 1), And(Eq("field_b", 2), Or(Eq("field_c", 3), Eq("field_d", 4))))
	got := NormalizeNode(n)

	b, ok := got.(*Boolean)
	require.True(t, ok)
	assert.Len(t, b.Children, 3)
	assert.Equal(t, got.String(), NormalizeNode(got).String())
}

func TestBuilderDefaults(t *testing.T) {
	b := DefaultBuilder()
	assert.Equal(t, CmpContains, b.DefaultComparator("text_bio"))
	assert.Equal(t, CmpAny, b.DefaultComparator("keyword_tags"))
	assert.Equal(t, CmpEq, b.DefaultComparator("field_age"))

	custom := &Builder{Defaults: map[string]Comparator{"field_": CmpGe}, Fallback: CmpEq}
	assert.Equal(t, CmpGe, custom.DefaultComparator("field_age"))
	assert.Equal(t, CmpContains, b.DefaultComparator("text_bio"), "builders are independent")
}

func TestBuilderFromMapping(t *testing.T) {
	b := DefaultBuilder()

	n, err := b.FromMapping(map[string]any{
		"text_bio":     "quick fox",
		"keyword_tags": []string{"a", "b"},
		"field_age":    With(CmpInRange, 10, 20),
	})
	require.NoError(t, err)

	and, ok := n.(*Boolean)
	require.True(t, ok)
	assert.Equal(t, OpAnd, and.Op)
	require.Len(t, and.Children, 3)
	assert.Equal(t, InRange("field_age", 10, 20), and.Children[0])
	assert.Equal(t, Any("keyword_tags", "a", "b"), and.Children[1])
	assert.Equal(t, Contains("text_bio", "quick fox"), and.Children[2])

	single, err := b.FromMapping(map[string]any{"field_color": "red"})
	require.NoError(t, err)
	assert.Equal(t, Eq("field_color", "red"), single)

	_, err = b.FromMapping(nil)
	assert.ErrorIs(t, err, retrieval.ErrInvalidArgument)

	_, err = b.FromMapping(map[string]any{"field_color": []string{"red"}})
	assert.ErrorIs(t, err, retrieval.ErrInvalidArgument)
}
