package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_ReadWriteDelete(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "tasks/t1.yaml", []byte("title: hello")))

	data, err := s.Read(ctx, "tasks/t1.yaml")
	require.NoError(t, err)
	assert.Equal(t, "title: hello", string(data))

	exists, err := s.Exists(ctx, "tasks/t1.yaml")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.Delete(ctx, "tasks/t1.yaml"))

	exists, err = s.Exists(ctx, "tasks/t1.yaml")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_ReadMissing(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Read(context.Background(), "tasks/missing.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_DeleteMissing(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = s.Delete(context.Background(), "tasks/missing.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_List(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "tasks/t1.yaml", []byte("a")))
	require.NoError(t, s.Write(ctx, "tasks/t2.yaml", []byte("b")))
	require.NoError(t, s.Write(ctx, "notes/n1.yaml", []byte("c")))

	paths, err := s.List(ctx, "tasks")
	require.NoError(t, err)
	assert.Equal(t, []string{"tasks/t1.yaml", "tasks/t2.yaml"}, paths)

	paths, err = s.List(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", "/etc/passwd", "../outside.yaml", "tasks/../../outside.yaml", "tasks//t1.yaml", "tasks/./t1.yaml"} {
		err := s.Write(ctx, key, []byte("x"))
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)

		_, err = s.Read(ctx, key)
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
}

func TestLocalStorage_WriteOverwrites(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "prefs/u1.yaml", []byte("v1")))
	require.NoError(t, s.Write(ctx, "prefs/u1.yaml", []byte("v2")))

	data, err := s.Read(ctx, "prefs/u1.yaml")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}
