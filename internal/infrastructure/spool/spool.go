// Package spool holds intermediate rasters for the lifetime of one document
// build. Every raster put into a Spool is gone once Release returns.
package spool

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

var ErrReleased = errors.New("spool already released")

// Raster is a stored intermediate image.
type Raster interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// Spool is a request-scoped store of rasters.
type Spool interface {
	Put(name string, data []byte) (Raster, error)
	Release() error
}

// Factory hands out a fresh Spool per document build.
type Factory interface {
	Acquire() (Spool, error)
}

// memory

type memoryFactory struct{}

func NewMemoryFactory() Factory {
	return memoryFactory{}
}

func (memoryFactory) Acquire() (Spool, error) {
	return &memorySpool{rasters: make(map[string][]byte)}, nil
}

type memorySpool struct {
	mu       sync.Mutex
	rasters  map[string][]byte
	released bool
}

type memoryRaster struct {
	name string
	data []byte
}

func (r memoryRaster) Name() string { return r.name }

func (r memoryRaster) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(r.data)), nil
}

func (s *memorySpool) Put(name string, data []byte) (Raster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil, ErrReleased
	}
	s.rasters[name] = data
	return memoryRaster{name: name, data: data}, nil
}

func (s *memorySpool) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rasters = nil
	s.released = true
	return nil
}

// disk

type diskFactory struct {
	fs  afero.Fs
	dir string
}

// NewDiskFactory spools rasters as files under dir. Each Spool gets its own
// private subdirectory, removed in full on Release.
func NewDiskFactory(fs afero.Fs, dir string) Factory {
	return &diskFactory{fs: fs, dir: dir}
}

func (f *diskFactory) Acquire() (Spool, error) {
	if err := f.fs.MkdirAll(f.dir, 0o700); err != nil {
		return nil, fmt.Errorf("create spool root: %w", err)
	}
	dir, err := afero.TempDir(f.fs, f.dir, "raster-")
	if err != nil {
		return nil, fmt.Errorf("create spool dir: %w", err)
	}
	return &diskSpool{fs: f.fs, dir: dir}, nil
}

type diskSpool struct {
	mu       sync.Mutex
	fs       afero.Fs
	dir      string
	released bool
}

type diskRaster struct {
	fs   afero.Fs
	name string
	path string
}

func (r diskRaster) Name() string { return r.name }

func (r diskRaster) Open() (io.ReadCloser, error) {
	return r.fs.Open(r.path)
}

func (s *diskSpool) Put(name string, data []byte) (Raster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil, ErrReleased
	}

	path := filepath.Join(s.dir, filepath.Base(name)+".png")
	if err := afero.WriteFile(s.fs, path, data, 0o600); err != nil {
		return nil, fmt.Errorf("write raster %s: %w", name, err)
	}
	return diskRaster{fs: s.fs, name: name, path: path}, nil
}

func (s *diskSpool) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil
	}
	s.released = true
	if err := s.fs.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("remove spool dir: %w", err)
	}
	return nil
}
