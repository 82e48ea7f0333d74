package fs

import (
	"github.com/cespare/xxhash/v2"
	"go.pbuild.dev/pbuild/internal/core/ports"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher fingerprints declaration output content with xxhash. The build
// driver does not use it: its declaration-stability check compares a
// freshly emitted declaration file's bytes with the file on disk directly.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// FingerprintDeclaration returns a content fingerprint for declaration
// file bytes.
func (h *Hasher) FingerprintDeclaration(content []byte) uint64 {
	return xxhash.Sum64(content)
}
