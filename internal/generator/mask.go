package generator

import (
	"io"

	"edu/blitzforge/internal/errdefs"
)

// Mask enumerates the Cartesian product of a pattern of charsets, rightmost
// position fastest.
type Mask struct {
	pattern []Charset
	odo     *odometer
}

// NewMask builds a mask generator over pattern. Every position needs a
// non-empty charset.
func NewMask(pattern []Charset) (*Mask, error) {
	if len(pattern) == 0 {
		return nil, errdefs.Invalid("empty mask pattern")
	}
	for i, cs := range pattern {
		if !cs.valid() {
			return nil, errdefs.Invalid("empty charset at mask position %d", i)
		}
	}
	sets := append([]Charset(nil), pattern...)
	return &Mask{pattern: sets, odo: newOdometer(sets)}, nil
}

// ParseMask parses a hashcat-style mask: ?l ?u ?d ?s ?a, ?1-?4 for the
// custom charsets, ?? for a literal '?', anything else a literal byte.
func ParseMask(mask string, custom ...Charset) (*Mask, error) {
	pattern, err := ParsePattern(mask, custom...)
	if err != nil {
		return nil, err
	}
	return NewMask(pattern)
}

// ParsePattern turns a mask string into its per-position charsets.
func ParsePattern(mask string, custom ...Charset) ([]Charset, error) {
	if mask == "" {
		return nil, errdefs.Invalid("mask required")
	}
	if len(custom) > 4 {
		return nil, errdefs.Invalid("at most 4 custom charsets, got %d", len(custom))
	}
	sets := make([]Charset, 0, len(mask)/2+1)
	for i := 0; i < len(mask); {
		if mask[i] != '?' {
			sets = append(sets, Charset{symbols: []byte{mask[i]}})
			i++
			continue
		}
		if i+1 >= len(mask) {
			return nil, errdefs.Invalid("dangling ? in mask %q", mask)
		}
		switch tok := mask[i+1]; tok {
		case 'l':
			sets = append(sets, Lower)
		case 'u':
			sets = append(sets, Upper)
		case 'd':
			sets = append(sets, Digits)
		case 's':
			sets = append(sets, Special)
		case 'a':
			sets = append(sets, All)
		case '?':
			sets = append(sets, Charset{symbols: []byte{'?'}})
		case '1', '2', '3', '4':
			k := int(tok - '1')
			if k >= len(custom) || !custom[k].valid() {
				return nil, errdefs.Invalid("custom charset ?%c is not defined", tok)
			}
			sets = append(sets, custom[k])
		default:
			return nil, errdefs.Invalid("unknown mask token ?%c", tok)
		}
		i += 2
	}
	return sets, nil
}

func (m *Mask) Kind() Kind { return KindMask }

// Len is the number of positions in the pattern.
func (m *Mask) Len() int { return len(m.pattern) }

func (m *Mask) EstimatedSize() (uint64, bool) {
	n, err := productSize(m.pattern)
	return n, err == nil
}

func (m *Mask) NextBatch(n int) (Batch, error) {
	batch, _ := fill(n, m.next)
	if len(batch) == 0 {
		return nil, io.EOF
	}
	return batch, nil
}

// Position is the odometer index vector of the next candidate.
func (m *Mask) Position() []int { return m.odo.position() }

func (m *Mask) next() ([]byte, bool, error) {
	c, ok := m.nextInto(nil)
	return c, ok, nil
}

// nextInto appends the current candidate to prefix, then advances.
func (m *Mask) nextInto(prefix []byte) ([]byte, bool) {
	if m.odo.done {
		return nil, false
	}
	out := make([]byte, 0, len(prefix)+len(m.pattern))
	out = append(out, prefix...)
	out = append(out, m.odo.current()...)
	m.odo.advance()
	return out, true
}

// reset rewinds the mask in place; Hybrid uses it between base words.
func (m *Mask) reset() {
	m.odo.reset()
}
