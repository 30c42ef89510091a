package search

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/beyond-expertise/backend/internal/textnorm"
)

// The cache is a gob of the index triple (vectorizer, rows, metadata)
// plus the corpus fingerprint it was built from. The format is internal,
// no compatibility is promised across versions.

// Save persists the index to path, creating parent directories.
func (ix *Index) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(ix); err != nil {
		return fmt.Errorf("encode index cache: %w", err)
	}
	return nil
}

// LoadCache reads a previously persisted index. Any read or decode
// problem is returned to the caller, whose recovery is a full rebuild.
func LoadCache(path string, normalizer *textnorm.Normalizer) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cache file: %w", err)
	}
	defer f.Close()

	var ix Index
	if err := gob.NewDecoder(f).Decode(&ix); err != nil {
		return nil, fmt.Errorf("decode index cache: %w", err)
	}
	if len(ix.Rows) != len(ix.Meta) {
		return nil, fmt.Errorf("corrupt index cache: %d rows for %d courses", len(ix.Rows), len(ix.Meta))
	}
	ix.norm = normalizer
	return &ix, nil
}
