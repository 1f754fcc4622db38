package generator

import (
	"io"

	"edu/blitzforge/internal/errdefs"
)

// BruteForce enumerates every string over one charset for each length from
// min to max, shortest first, odometer order within a length.
type BruteForce struct {
	charset Charset
	minLen  int
	maxLen  int

	length int
	odo    *odometer
	done   bool
}

func NewBruteForce(charset Charset, minLen, maxLen int) (*BruteForce, error) {
	if !charset.valid() {
		return nil, errdefs.Invalid("empty brute force charset")
	}
	if minLen < 0 || maxLen < minLen {
		return nil, errdefs.Invalid("bad length range %d..%d", minLen, maxLen)
	}
	bf := &BruteForce{charset: charset, minLen: minLen, maxLen: maxLen}
	bf.startLength(minLen)
	return bf, nil
}

func (bf *BruteForce) startLength(l int) {
	sets := make([]Charset, l)
	for i := range sets {
		sets[i] = bf.charset
	}
	bf.length = l
	bf.odo = newOdometer(sets)
}

func (bf *BruteForce) Kind() Kind { return KindBruteForce }

// EstimatedSize is the sum of |charset|^l; overflow degrades to unknown.
func (bf *BruteForce) EstimatedSize() (uint64, bool) {
	n, err := lengthRangeSize(uint64(bf.charset.Len()), bf.minLen, bf.maxLen)
	return n, err == nil
}

func (bf *BruteForce) NextBatch(n int) (Batch, error) {
	batch, _ := fill(n, bf.next)
	if len(batch) == 0 {
		return nil, io.EOF
	}
	return batch, nil
}

// Position is the odometer index vector of the next candidate; its length
// is the length being enumerated.
func (bf *BruteForce) Position() []int { return bf.odo.position() }

func (bf *BruteForce) next() ([]byte, bool, error) {
	if bf.done {
		return nil, false, nil
	}
	out := append([]byte(nil), bf.odo.current()...)
	if out == nil {
		out = []byte{}
	}
	if !bf.odo.advance() {
		if bf.length == bf.maxLen {
			bf.done = true
		} else {
			bf.startLength(bf.length + 1)
		}
	}
	return out, true, nil
}
