// Package target holds the digests a run tries to recover and the index the
// workers probe.
package target

import (
	"edu/blitzforge/internal/hashes"
)

// Target is one digest to recover. It is immutable for the length of a run.
type Target struct {
	ID        string
	Username  string
	Algorithm hashes.Algorithm
	Digest    []byte
	Salt      []byte
	// LengthHint is the known plaintext length, 0 when unknown.
	LengthHint int
}
