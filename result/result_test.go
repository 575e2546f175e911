package result

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/retrieval"
	"github.com/hupe1980/retrieval/model"
	"github.com/hupe1980/retrieval/uidmap"
)

const (
	uidX = model.UID("11111111-1111-1111-1111-111111111111")
	uidY = model.UID("22222222-2222-2222-2222-222222222222")
	uidZ = model.UID("33333333-3333-3333-3333-333333333333")
	uidW = model.UID("44444444-4444-4444-4444-444444444444")
)

type doc struct{ name string }

type mapResolver struct {
	items map[model.UID]any
	calls []model.UID
	err   error
}

func (m *mapResolver) Resolve(uid model.UID) (any, error) {
	m.calls = append(m.calls, uid)
	if m.err != nil {
		return nil, m.err
	}
	return m.items[uid], nil
}

func newResolver() *mapResolver {
	return &mapResolver{items: map[model.UID]any{
		uidX: &doc{"x"},
		uidY: &doc{"y"},
		uidZ: &doc{"z"},
	}}
}

func fromPairs(t *testing.T, r model.Resolver, pairs ...model.Pair) *SearchResult {
	t.Helper()
	res, err := FromPairs(pairs, r)
	require.NoError(t, err)
	return res
}

func TestSetAlgebraOrdering(t *testing.T) {
	r := newResolver()
	a := fromPairs(t, r, model.Pair{UID: uidX, RID: 1}, model.Pair{UID: uidY, RID: 2})
	b := fromPairs(t, r, model.Pair{UID: uidY, RID: 2}, model.Pair{UID: uidZ, RID: 3})

	u, err := a.Union(b)
	require.NoError(t, err)
	assert.Equal(t, []model.UID{uidX, uidY, uidZ}, u.Keys())

	i, err := a.Intersection(b)
	require.NoError(t, err)
	assert.Equal(t, []model.UID{uidY}, i.Keys())

	d, err := a.Difference(b)
	require.NoError(t, err)
	assert.Equal(t, []model.UID{uidX}, d.Keys())

	// operands untouched
	assert.Equal(t, []model.UID{uidX, uidY}, a.Keys())
	assert.Equal(t, []model.UID{uidY, uidZ}, b.Keys())
}

func TestUnionLaw(t *testing.T) {
	r := newResolver()
	a := fromPairs(t, r, model.Pair{UID: uidZ, RID: 3}, model.Pair{UID: uidX, RID: 1})
	b := fromPairs(t, r, model.Pair{UID: uidW, RID: 4}, model.Pair{UID: uidY, RID: 2})

	u, err := a.Union(b)
	require.NoError(t, err)
	assert.Equal(t, a.Len()+b.Len(), u.Len())
	assert.Equal(t, []model.RID{3, 1, 4, 2}, u.OrderedRecordIDs())

	u, err = a.Union(a)
	require.NoError(t, err)
	assert.Equal(t, a.OrderedRecordIDs(), u.OrderedRecordIDs())
}

func TestIntersectionFollowsSmallerOperand(t *testing.T) {
	r := newResolver()
	big := fromPairs(t, r,
		model.Pair{UID: uidX, RID: 1},
		model.Pair{UID: uidY, RID: 2},
		model.Pair{UID: uidZ, RID: 3},
	)
	small := fromPairs(t, r, model.Pair{UID: uidZ, RID: 3}, model.Pair{UID: uidX, RID: 1})

	got, err := big.Intersection(small)
	require.NoError(t, err)
	assert.Equal(t, []model.RID{3, 1}, got.OrderedRecordIDs())

	got, err = small.Intersection(big)
	require.NoError(t, err)
	assert.Equal(t, []model.RID{3, 1}, got.OrderedRecordIDs())
	assert.True(t, got.RecordIDs().Equal(NewRIDSet(1, 3)))
}

func TestDifferenceLaw(t *testing.T) {
	r := newResolver()
	a := fromPairs(t, r, model.Pair{UID: uidY, RID: 2}, model.Pair{UID: uidX, RID: 1})
	b := fromPairs(t, r, model.Pair{UID: uidZ, RID: 3})

	d, err := a.Difference(b)
	require.NoError(t, err)
	assert.Equal(t, a.OrderedRecordIDs(), d.OrderedRecordIDs())
	assert.Equal(t, a.Keys(), d.Keys())

	d, err = a.Difference(a)
	require.NoError(t, err)
	assert.Zero(t, d.Len())
	assert.Zero(t, d.RecordIDs().Intersect(a.RecordIDs()).Len())
}

func TestHeterogeneousOperands(t *testing.T) {
	r := newResolver()
	a := fromPairs(t, r, model.Pair{UID: uidX, RID: 1})
	c, err := NewCollection([]Item{{UID: uidX, Value: "x"}}, nil)
	require.NoError(t, err)

	_, err = a.Union(c)
	assert.ErrorIs(t, err, retrieval.ErrHeterogeneousOperands)
	_, err = a.Intersection(c)
	assert.ErrorIs(t, err, retrieval.ErrHeterogeneousOperands)
	_, err = a.Difference((*SearchResult)(nil))
	assert.ErrorIs(t, err, retrieval.ErrHeterogeneousOperands)

	_, err = c.Union(a)
	assert.ErrorIs(t, err, retrieval.ErrHeterogeneousOperands)
}

func TestMapperBackedResult(t *testing.T) {
	m := uidmap.New()
	px, err := m.Add(uidX)
	require.NoError(t, err)
	py, err := m.Add(uidY)
	require.NoError(t, err)
	_, err = m.Add(uidZ)
	require.NoError(t, err)

	r := newResolver()
	res, err := New(10, []model.RID{py.RID, px.RID}, m, r, WithParent("catalog"))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Len())
	assert.Equal(t, 10, res.Total())
	assert.Equal(t, "catalog", res.Parent())
	assert.Equal(t, []model.UID{uidY, uidX}, res.Keys())

	assert.True(t, res.Contains(uidX))
	assert.True(t, res.Contains(px.RID))
	assert.True(t, res.Contains(int64(px.RID)))
	assert.False(t, res.Contains(uidZ))
	assert.False(t, res.Contains("not-a-uid"))

	v, ok, err := res.Get(uidY)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "y", v.(*doc).name)

	// non-members are never resolved
	r.calls = nil
	v, ok, err = res.Get(uidZ)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
	assert.Empty(t, r.calls)

	assert.Equal(t, "fallback", res.GetOr(uidZ, "fallback"))
	_, err = res.Item(uidZ)
	assert.ErrorIs(t, err, retrieval.ErrNotFound)

	values, err := res.Values()
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, "y", values[0].(*doc).name)
	assert.Equal(t, "x", values[1].(*doc).name)
}

func TestResolverMissAndError(t *testing.T) {
	r := &mapResolver{items: map[model.UID]any{uidX: (*doc)(nil)}}
	res := fromPairs(t, r, model.Pair{UID: uidX, RID: 1}, model.Pair{UID: uidY, RID: 2})

	_, ok, err := res.Get(uidX)
	require.NoError(t, err)
	assert.False(t, ok)

	items, err := res.Items()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Nil(t, items[0].Value)
	assert.Equal(t, uidY, items[1].UID)

	boom := errors.New("boom")
	r.err = boom
	_, _, err = res.Get(uidX)
	assert.ErrorIs(t, err, boom)
	_, err = res.Values()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "def", res.GetOr(uidX, "def"))
}

func TestLazyResolution(t *testing.T) {
	r := newResolver()
	res := fromPairs(t, r, model.Pair{UID: uidX, RID: 1}, model.Pair{UID: uidY, RID: 2})

	assert.Equal(t, []model.UID{uidX, uidY}, res.Keys())
	assert.Empty(t, r.calls)

	for it, err := range res.All() {
		require.NoError(t, err)
		assert.Equal(t, uidX, it.UID)
		break
	}
	assert.Equal(t, []model.UID{uidX}, r.calls)

	_, _, _ = res.Get(uidX)
	assert.Equal(t, []model.UID{uidX, uidX}, r.calls)
}

func TestConstructionErrors(t *testing.T) {
	_, err := FromPairs(nil, nil)
	assert.ErrorIs(t, err, retrieval.ErrInvalidArgument)

	_, err = New(0, nil, nil, newResolver())
	assert.ErrorIs(t, err, retrieval.ErrInvalidArgument)
}

func TestRIDSet(t *testing.T) {
	a := NewRIDSet(3, -1, 7)
	b := NewRIDSet(7, 3, -1)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), NewRIDSet(3, 7).Hash())
	assert.Equal(t, []model.RID{-1, 3, 7}, a.Slice())

	var zero RIDSet
	assert.Zero(t, zero.Len())
	assert.False(t, zero.Contains(1))
	assert.Equal(t, 3, zero.Union(a).Len())
	assert.Equal(t, []model.RID{-1}, a.Difference(NewRIDSet(3, 7)).Slice())
}
