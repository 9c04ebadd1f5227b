package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectStorePutGetExists(t *testing.T) {
	dir := t.TempDir()
	s := NewObjectStore(dir)

	id, err := s.Put([]byte("hello\n"))
	require.NoError(t, err)
	require.True(t, s.Exists(id))

	got, err := s.Get(id)
	require.NoError(t, err)
	require.Equal(t, []byte("hello\n"), got)
}

func TestObjectStoreDedup(t *testing.T) {
	dir := t.TempDir()
	s := NewObjectStore(dir)

	var id string
	for i := 0; i < 5; i++ {
		var err error
		id, err = s.Put([]byte("same content\n"))
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, ObjectsDir))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, id, entries[0].Name())
}

func TestObjectStoreMissing(t *testing.T) {
	s := NewObjectStore(t.TempDir())
	_, err := s.Get("deadbeef")
	require.Error(t, err)
}

func TestRefStoreSetGetList(t *testing.T) {
	dir := t.TempDir()
	r := NewRefStore(dir)

	require.NoError(t, r.SetRef("main", "c1"))
	id, ok, err := r.GetRef("main")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "c1", id)

	_, ok, err = r.GetRef("nope")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, r.SetRef("dev", "c2"))
	refs, err := r.ListRefs()
	require.NoError(t, err)
	require.Equal(t, map[string]string{"main": "c1", "dev": "c2"}, refs)
}

func TestHeadStateMachine(t *testing.T) {
	dir := t.TempDir()
	r := NewRefStore(dir)

	h, err := r.ReadHead()
	require.NoError(t, err)
	require.Equal(t, HeadEmpty, h.Kind)

	require.NoError(t, r.WriteHeadAttached("main"))
	h, err = r.ReadHead()
	require.NoError(t, err)
	require.Equal(t, HeadAttached, h.Kind)
	require.Equal(t, "main", h.Ref)

	require.NoError(t, r.WriteHeadDetached("c1"))
	h, err = r.ReadHead()
	require.NoError(t, err)
	require.Equal(t, HeadDetached, h.Kind)
	require.Equal(t, "c1", h.CommitID)
}

func TestIsValidRefName(t *testing.T) {
	require.True(t, IsValidRefName("main"))
	require.False(t, IsValidRefName(""))
	require.False(t, IsValidRefName("a/b"))
	require.False(t, IsValidRefName("a\\b"))
}
