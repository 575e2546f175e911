package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/retrieval"
	"github.com/hupe1980/retrieval/model"
)

func TestCollection(t *testing.T) {
	c, err := NewCollection([]Item{
		{UID: uidY, Value: "y"},
		{UID: uidX, Value: "x"},
	}, map[string]model.UID{"why": uidY, "ex": uidX, "alias": uidX})
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []model.UID{uidY, uidX}, c.Keys())
	assert.Equal(t, []any{"y", "x"}, c.Values())
	assert.True(t, c.Contains(uidX))
	assert.False(t, c.Contains(uidZ))

	v, ok := c.Get("11111111-1111-1111-1111-111111111111")
	require.True(t, ok)
	assert.Equal(t, "x", v)
	assert.Equal(t, "none", c.GetOr(uidZ, "none"))
	_, err = c.Item(uidZ)
	assert.ErrorIs(t, err, retrieval.ErrNotFound)

	assert.True(t, c.Named())
	name, ok := c.NameFor(uidX)
	require.True(t, ok)
	assert.Equal(t, "alias", name)
	assert.Equal(t, []string{"alias", "ex"}, c.AllNames(uidX))

	v, ok = c.GetByName("why")
	require.True(t, ok)
	assert.Equal(t, "y", v)
	_, ok = c.GetByName("nobody")
	assert.False(t, ok)

	_, err = NewCollection([]Item{{UID: "bogus"}}, nil)
	assert.ErrorIs(t, err, retrieval.ErrInvalidArgument)
}

func TestCollectionAlgebra(t *testing.T) {
	a, err := NewCollection([]Item{{UID: uidX, Value: "x"}, {UID: uidY, Value: "y"}},
		map[string]model.UID{"x": uidX, "y": uidY})
	require.NoError(t, err)
	b, err := NewCollection([]Item{{UID: uidY, Value: "y2"}, {UID: uidZ, Value: "z"}},
		map[string]model.UID{"y": uidY, "z": uidZ})
	require.NoError(t, err)

	u, err := a.Union(b)
	require.NoError(t, err)
	assert.Equal(t, []model.UID{uidX, uidY, uidZ}, u.Keys())
	assert.Equal(t, []any{"x", "y", "z"}, u.Values())
	_, ok := u.UIDForName("z")
	assert.True(t, ok)

	i, err := a.Intersection(b)
	require.NoError(t, err)
	assert.Equal(t, []model.UID{uidY}, i.Keys())
	_, ok = i.UIDForName("x")
	assert.False(t, ok)
	_, ok = i.UIDForName("y")
	assert.True(t, ok)

	d, err := a.Difference(b)
	require.NoError(t, err)
	assert.Equal(t, []model.UID{uidX}, d.Keys())
	_, ok = d.UIDForName("y")
	assert.False(t, ok)

	plain, err := CollectionFromMap(map[model.UID]any{uidZ: 1, uidX: 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, []model.UID{uidX, uidZ}, plain.Keys())
	m, err := a.Union(plain)
	require.NoError(t, err)
	assert.False(t, m.Named())
}
