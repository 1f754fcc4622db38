// Package generator produces candidate passwords in batches.
//
// The variant set is closed: Dictionary, Mask, BruteForce and Hybrid are the
// only implementations of Generator. Generators are single-goroutine objects;
// the engine drives one from its scheduler and hands the batches to workers.
package generator

import (
	"fmt"
)

// Batch is an ordered group of candidates handed to one worker.
type Batch [][]byte

// Kind names a generator variant.
type Kind uint8

const (
	KindDictionary Kind = iota
	KindMask
	KindBruteForce
	KindHybrid
)

func (k Kind) String() string {
	switch k {
	case KindDictionary:
		return "dictionary"
	case KindMask:
		return "mask"
	case KindBruteForce:
		return "bruteforce"
	case KindHybrid:
		return "hybrid"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Cursor is implemented by generators that can report where they are in
// their enumeration. It must be called from the goroutine that drives
// NextBatch.
type Cursor interface {
	Position() []int
}

// Generator is a lazy, finite, non-restartable candidate stream.
//
// NextBatch returns at most n candidates. At end of stream it returns io.EOF
// and never an empty batch with a nil error. Candidates are owned by the
// caller. EstimatedSize reports the total number of candidates the generator
// emits over its life, or false when that is unknown or overflows uint64.
type Generator interface {
	NextBatch(n int) (Batch, error)
	EstimatedSize() (uint64, bool)
	Kind() Kind

	sealed()
}

func (*Dictionary) sealed() {}
func (*Mask) sealed()       {}
func (*BruteForce) sealed() {}
func (*Hybrid) sealed()     {}

// fill pulls candidates from next until the batch holds n or next reports
// done. It is the shared body of every NextBatch.
func fill(n int, next func() ([]byte, bool, error)) (Batch, error) {
	if n <= 0 {
		n = 1
	}
	batch := make(Batch, 0, n)
	for len(batch) < n {
		c, ok, err := next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		batch = append(batch, c)
	}
	return batch, nil
}
