package generator

import (
	"io"

	"edu/blitzforge/internal/errdefs"
)

// Hybrid joins every dictionary candidate with every mask candidate. The
// mask runs fully for one word before the next word is read. By default the
// mask is a suffix; with prefix set it is prepended instead.
type Hybrid struct {
	dict   *Dictionary
	mask   *Mask
	prefix bool

	word  []byte
	words uint64
}

func NewHybrid(dict *Dictionary, mask *Mask, prefix bool) (*Hybrid, error) {
	if dict == nil || mask == nil {
		return nil, errdefs.Invalid("hybrid needs both a dictionary and a mask")
	}
	return &Hybrid{dict: dict, mask: mask, prefix: prefix}, nil
}

func (h *Hybrid) Kind() Kind { return KindHybrid }

func (h *Hybrid) EstimatedSize() (uint64, bool) {
	d, ok := h.dict.EstimatedSize()
	if !ok {
		return 0, false
	}
	m, ok := h.mask.EstimatedSize()
	if !ok {
		return 0, false
	}
	n, err := checkedMul(d, m)
	return n, err == nil
}

func (h *Hybrid) NextBatch(n int) (Batch, error) {
	batch, err := fill(n, h.next)
	if err != nil {
		return nil, err
	}
	if len(batch) == 0 {
		return nil, io.EOF
	}
	return batch, nil
}

// Position is the number of dictionary candidates started followed by the
// mask odometer.
func (h *Hybrid) Position() []int {
	return append([]int{int(h.words)}, h.mask.Position()...)
}

func (h *Hybrid) next() ([]byte, bool, error) {
	for {
		if h.word == nil {
			w, ok, err := h.dict.next()
			if err != nil || !ok {
				return nil, false, err
			}
			h.word = w
			h.words++
			h.mask.reset()
		}
		if h.prefix {
			if c, ok := h.mask.nextInto(nil); ok {
				return append(c, h.word...), true, nil
			}
		} else if c, ok := h.mask.nextInto(h.word); ok {
			return c, true, nil
		}
		h.word = nil
	}
}
