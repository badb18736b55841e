package spool

import (
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r Raster) []byte {
	t.Helper()
	rc, err := r.Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return data
}

func TestMemorySpool(t *testing.T) {
	s, err := NewMemoryFactory().Acquire()
	require.NoError(t, err)

	r, err := s.Put("main", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "main", r.Name())
	assert.Equal(t, []byte("png-bytes"), readAll(t, r))

	require.NoError(t, s.Release())
	_, err = s.Put("late", []byte("x"))
	assert.ErrorIs(t, err, ErrReleased)
}

func TestDiskSpool_ReleaseRemovesEverything(t *testing.T) {
	fs := afero.NewMemMapFs()
	factory := NewDiskFactory(fs, "/tmp/lifesaver")

	s, err := factory.Acquire()
	require.NoError(t, err)

	main, err := s.Put("main", []byte("main-png"))
	require.NoError(t, err)
	sticker, err := s.Put("sticker", []byte("sticker-png"))
	require.NoError(t, err)

	assert.Equal(t, []byte("main-png"), readAll(t, main))
	assert.Equal(t, []byte("sticker-png"), readAll(t, sticker))

	entries, err := afero.ReadDir(fs, "/tmp/lifesaver")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, s.Release())
	require.NoError(t, s.Release())

	entries, err = afero.ReadDir(fs, "/tmp/lifesaver")
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = s.Put("late", []byte("x"))
	assert.ErrorIs(t, err, ErrReleased)
}

func TestDiskSpool_ConcurrentSpoolsAreIsolated(t *testing.T) {
	fs := afero.NewMemMapFs()
	factory := NewDiskFactory(fs, "/spool")

	a, err := factory.Acquire()
	require.NoError(t, err)
	b, err := factory.Acquire()
	require.NoError(t, err)

	_, err = a.Put("main", []byte("a"))
	require.NoError(t, err)
	rb, err := b.Put("main", []byte("b"))
	require.NoError(t, err)

	require.NoError(t, a.Release())
	assert.Equal(t, []byte("b"), readAll(t, rb))
	require.NoError(t, b.Release())

	entries, err := afero.ReadDir(fs, "/spool")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDiskSpool_OsFs(t *testing.T) {
	root := t.TempDir()
	s, err := NewDiskFactory(afero.NewOsFs(), root).Acquire()
	require.NoError(t, err)

	_, err = s.Put("sticker", []byte("png"))
	require.NoError(t, err)
	require.NoError(t, s.Release())

	entries, err := afero.ReadDir(afero.NewOsFs(), root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
