package hashes

import (
	"encoding/binary"
	"math/bits"
)

// BlitzSize is the BlitzDigest output length in bytes.
const BlitzSize = 32

const (
	blitzSeed0 = 0x9e3779b97f4a7c15
	blitzSeed1 = 0xc2b2ae3d27d4eb4f
	blitzSeed2 = 0x165667b19e3779f9
	blitzSeed3 = 0x27d4eb2f165667c5

	blitzP1 = 0xff51afd7ed558ccd
	blitzP2 = 0xc4ceb9fe1a85ec53

	blitzChunk = 32
)

// blitzStep xors w into x and runs the two-multiply/two-rotate avalanche.
func blitzStep(x, w uint64) uint64 {
	x ^= w
	x *= blitzP1
	x ^= bits.RotateLeft64(x, -27)
	x *= blitzP2
	x ^= bits.RotateLeft64(x, -31)
	return x
}

// Blitz returns the BlitzDigest of in, a throughput-first 256-bit mixer. It
// is NOT a cryptographic hash: there is no collision or preimage resistance,
// only good avalanche. It never allocates.
func Blitz(in []byte) [BlitzSize]byte {
	var out [BlitzSize]byte
	blitzInto(&out, in)
	return out
}

func blitzInto(out *[BlitzSize]byte, in []byte) {
	l0, l1, l2, l3 := uint64(blitzSeed0), uint64(blitzSeed1), uint64(blitzSeed2), uint64(blitzSeed3)
	n := len(in)

	p := in
	for len(p) >= blitzChunk {
		l0 = blitzStep(l0, binary.LittleEndian.Uint64(p[0:8]))
		l1 = blitzStep(l1, binary.LittleEndian.Uint64(p[8:16]))
		l2 = blitzStep(l2, binary.LittleEndian.Uint64(p[16:24]))
		l3 = blitzStep(l3, binary.LittleEndian.Uint64(p[24:32]))
		p = p[blitzChunk:]
	}

	// tail goes to lane 0 only, as zero-padded words
	for len(p) > 0 {
		var w [8]byte
		k := copy(w[:], p)
		l0 = blitzStep(l0, binary.LittleEndian.Uint64(w[:]))
		p = p[k:]
	}
	l0 = blitzStep(l0, uint64(n))

	acc := (l0 ^ l1) ^ (l2 ^ l3)
	for i := 0; i < 4; i++ {
		acc = blitzStep(acc, 0)
	}

	binary.LittleEndian.PutUint64(out[0:8], blitzStep(l0^acc, 1))
	binary.LittleEndian.PutUint64(out[8:16], blitzStep(l1^acc, 2))
	binary.LittleEndian.PutUint64(out[16:24], blitzStep(l2^acc, 3))
	binary.LittleEndian.PutUint64(out[24:32], blitzStep(l3^acc, 4))
}
