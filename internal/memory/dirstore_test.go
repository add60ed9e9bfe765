package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirStore_ListAndRead(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("second"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("first"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignore.txt"), []byte("nope"), 0644))

	s := NewDirStore(dir)
	notes, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "a", notes[0].Name)
	assert.Equal(t, "b", notes[1].Name)

	content, err := s.Read(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "first", content)
}

func TestDirStore_MissingDirYieldsEmptyList(t *testing.T) {
	s := NewDirStore(filepath.Join(t.TempDir(), "nope"))
	notes, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestDirStore_EmptyDirFieldYieldsEmptyList(t *testing.T) {
	s := NewDirStore("")
	notes, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestDirStore_RejectsPathTraversal(t *testing.T) {
	s := NewDirStore(t.TempDir())
	_, err := s.Read(context.Background(), "../etc/passwd")
	assert.Error(t, err)
}
