package target

import (
	"bytes"
	"sort"

	"edu/blitzforge/internal/errdefs"
	"edu/blitzforge/internal/hashes"
)

// Group is the set of targets sharing one algorithm and one salt. Every
// candidate is hashed once per group, with the salt written as a prefix.
type Group struct {
	Algorithm hashes.Algorithm
	Salt      []byte
	digests   map[string][]string
	size      int
}

// Lookup returns the IDs of every target in the group whose digest is sum.
func (g *Group) Lookup(sum []byte) []string {
	return g.digests[string(sum)]
}

// Len is the number of targets in the group.
func (g *Group) Len() int { return g.size }

// Index maps digests to target IDs. It is read-only after NewIndex and safe
// for concurrent lookups.
type Index struct {
	groups  []*Group
	byID    map[string]int
	targets []Target
}

// NewIndex validates targets and partitions them by (algorithm, salt). It
// fails on empty or duplicate IDs, unknown algorithms and digests of the
// wrong length.
func NewIndex(targets []Target) (*Index, error) {
	ix := &Index{byID: make(map[string]int, len(targets))}
	type key struct {
		algo hashes.Algorithm
		salt string
	}
	groups := map[key]*Group{}
	for i, t := range targets {
		if t.ID == "" {
			return nil, errdefs.Invalid("target %d has no id", i)
		}
		if _, dup := ix.byID[t.ID]; dup {
			return nil, errdefs.Invalid("duplicate target id %q", t.ID)
		}
		if !t.Algorithm.Valid() {
			return nil, errdefs.Invalid("target %q: unknown algorithm", t.ID)
		}
		if len(t.Digest) != t.Algorithm.Size() {
			return nil, errdefs.Invalid("target %q: %s digest must be %d bytes, got %d",
				t.ID, t.Algorithm, t.Algorithm.Size(), len(t.Digest))
		}
		ix.byID[t.ID] = len(ix.targets)
		ix.targets = append(ix.targets, t)

		k := key{t.Algorithm, string(t.Salt)}
		g, ok := groups[k]
		if !ok {
			g = &Group{Algorithm: t.Algorithm, Salt: bytes.Clone(t.Salt), digests: map[string][]string{}}
			if g.Salt == nil {
				g.Salt = []byte{}
			}
			groups[k] = g
			ix.groups = append(ix.groups, g)
		}
		d := string(t.Digest)
		g.digests[d] = append(g.digests[d], t.ID)
		g.size++
	}
	sort.SliceStable(ix.groups, func(i, j int) bool {
		a, b := ix.groups[i], ix.groups[j]
		if a.Algorithm != b.Algorithm {
			return a.Algorithm < b.Algorithm
		}
		return bytes.Compare(a.Salt, b.Salt) < 0
	})
	return ix, nil
}

// Groups lists the (algorithm, salt) groups in a stable order.
func (ix *Index) Groups() []*Group { return ix.groups }

// Len is the number of targets.
func (ix *Index) Len() int { return len(ix.targets) }

// Targets returns the indexed targets in input order.
func (ix *Index) Targets() []Target { return ix.targets }

// Target looks up a target by ID.
func (ix *Index) Target(id string) (Target, bool) {
	i, ok := ix.byID[id]
	if !ok {
		return Target{}, false
	}
	return ix.targets[i], true
}

// Lookup probes every group of algorithm a salted with salt.
func (ix *Index) Lookup(a hashes.Algorithm, salt, sum []byte) []string {
	for _, g := range ix.groups {
		if g.Algorithm == a && bytes.Equal(g.Salt, salt) {
			return g.Lookup(sum)
		}
	}
	return nil
}

// Amortized reports whether every algorithm has a single salt, so each
// candidate is hashed exactly once per algorithm. With per-target salts the
// hash count per candidate grows with the number of distinct salts.
func (ix *Index) Amortized() bool {
	seen := map[hashes.Algorithm]bool{}
	for _, g := range ix.groups {
		if seen[g.Algorithm] {
			return false
		}
		seen[g.Algorithm] = true
	}
	return true
}
