package engine

import (
	"edu/blitzforge/internal/generator"
	"edu/blitzforge/internal/hashes"
	"edu/blitzforge/internal/target"
)

// scanner owns one Digester per index group. Each worker borrows its own
// scanner, so the salt prefixes are written once per worker and group.
type scanner struct {
	groups []*target.Group
	digs   []*hashes.Digester
}

func newScanner(ix *target.Index) *scanner {
	gs := ix.Groups()
	s := &scanner{groups: gs, digs: make([]*hashes.Digester, len(gs))}
	for i, g := range gs {
		s.digs[i] = hashes.NewDigester(g.Algorithm, g.Salt)
	}
	return s
}

// scan hashes every candidate once per group and calls report for every
// target whose digest matched. It returns the number of digests computed.
func (s *scanner) scan(batch generator.Batch, report func(id string, candidate []byte)) uint64 {
	for i, g := range s.groups {
		s.digs[i].SumBatch(batch, func(j int, sum []byte) {
			for _, id := range g.Lookup(sum) {
				report(id, batch[j])
			}
		})
	}
	return uint64(len(batch)) * uint64(len(s.groups))
}
