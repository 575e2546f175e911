package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   int64    `msgpack:"id" json:"id"`
	Tags []string `msgpack:"tags" json:"tags"`
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())

		in := record{ID: -42, Tags: []string{"a", "b"}}
		var out record
		require.NoError(t, c.Unmarshal(MustMarshal(c, in), &out))
		assert.Equal(t, in, out)
	}

	_, ok := ByName("gob")
	assert.False(t, ok)
}

func TestDefaultIsMsgPack(t *testing.T) {
	assert.Equal(t, "msgpack", Default.Name())
	assert.NotPanics(t, func() { MustMarshal(nil, record{}) })
	assert.Panics(t, func() { MustMarshal(JSON{}, make(chan int)) })
}
