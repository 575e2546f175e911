package blobstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, s BlobStore) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Open(ctx, "missing")
	require.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, s.Put(ctx, "snapshots/a", []byte("alpha")))
	require.NoError(t, s.Put(ctx, "snapshots/b", []byte("beta")))
	require.NoError(t, s.Put(ctx, "other", []byte("x")))

	data, err := ReadAll(ctx, s, "snapshots/a")
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(data))

	require.NoError(t, s.Put(ctx, "snapshots/a", []byte("alpha2")))
	data, err = ReadAll(ctx, s, "snapshots/a")
	require.NoError(t, err)
	assert.Equal(t, "alpha2", string(data))

	names, err := s.List(ctx, "snapshots/")
	require.NoError(t, err)
	assert.Equal(t, []string{"snapshots/a", "snapshots/b"}, names)

	w, err := s.Create(ctx, "stream")
	require.NoError(t, err)
	_, err = w.Write([]byte("streamed "))
	require.NoError(t, err)
	_, err = w.Write([]byte("data"))
	require.NoError(t, err)

	_, err = s.Open(ctx, "stream")
	require.True(t, errors.Is(err, ErrNotFound), "blob visible before Close")

	require.NoError(t, w.Close())
	require.NoError(t, w.Abort())
	data, err = ReadAll(ctx, s, "stream")
	require.NoError(t, err)
	assert.Equal(t, "streamed data", string(data))

	w, err = s.Create(ctx, "aborted")
	require.NoError(t, err)
	_, err = w.Write([]byte("nope"))
	require.NoError(t, err)
	require.NoError(t, w.Abort())
	_, err = s.Open(ctx, "aborted")
	require.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, s.Delete(ctx, "snapshots/b"))
	require.NoError(t, s.Delete(ctx, "snapshots/b"))
	names, err = s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"other", "snapshots/a", "stream"}, names)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestLocalStore(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	testStore(t, s)

	_, err = s.Open(context.Background(), "../escape")
	assert.Error(t, err)
	assert.Error(t, s.Put(context.Background(), "/abs", nil))
}
