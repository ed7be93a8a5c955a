// Package store persists finished gene indexes between runs. A snapshot is an
// optimization only: any unreadable, stale, or structurally invalid snapshot
// is reported as a load error so the caller re-ingests the source table.
package store

import (
	"errors"

	"github.com/mnahinkhan/hgfind/internal/gene"
)

// ErrNoSnapshot is returned by Load when no usable snapshot exists.
var ErrNoSnapshot = errors.New("no usable index snapshot")

// Store saves and restores a gene index.
type Store interface {
	// Load returns the persisted index, or an error when the snapshot is
	// absent, corrupt, version-incompatible, or stale.
	Load() (*gene.Index, error)

	// Write persists the index, replacing any previous snapshot.
	Write(idx *gene.Index) error
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	idx *gene.Index
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Load implements Store.
func (m *MemStore) Load() (*gene.Index, error) {
	if m.idx == nil {
		return nil, ErrNoSnapshot
	}
	return m.idx, nil
}

// Write implements Store.
func (m *MemStore) Write(idx *gene.Index) error {
	m.idx = idx
	return nil
}
