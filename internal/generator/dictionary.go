package generator

import (
	"errors"
	"io"

	"edu/blitzforge/internal/errdefs"
)

// Dictionary emits each entry of a LineSource followed by the candidates its
// rules derive from it, in rule order.
type Dictionary struct {
	src   LineSource
	rules []Rule

	base    []byte // entry whose mutations are pending, nil between entries
	rule    int    // next rule to apply to base
	entries uint64
	eof     bool
}

func NewDictionary(src LineSource, rules ...Rule) (*Dictionary, error) {
	if src == nil {
		return nil, errdefs.Invalid("dictionary needs a line source")
	}
	return &Dictionary{src: src, rules: append([]Rule(nil), rules...)}, nil
}

func (d *Dictionary) Kind() Kind { return KindDictionary }

// EstimatedSize is only known when the source can report its length and no
// rules are configured, since a rule may yield nothing for a given entry.
func (d *Dictionary) EstimatedSize() (uint64, bool) {
	if len(d.rules) > 0 {
		return 0, false
	}
	if s, ok := d.src.(Sizer); ok {
		return s.Len()
	}
	return 0, false
}

func (d *Dictionary) NextBatch(n int) (Batch, error) {
	batch, err := fill(n, d.next)
	if err != nil {
		return nil, err
	}
	if len(batch) == 0 {
		return nil, io.EOF
	}
	return batch, nil
}

// Position is the number of base entries read so far followed by the index
// of the next rule to apply to the current one.
func (d *Dictionary) Position() []int { return []int{int(d.entries), d.rule} }

func (d *Dictionary) next() ([]byte, bool, error) {
	for {
		if d.base == nil {
			if d.eof {
				return nil, false, nil
			}
			line, err := d.src.Next()
			if errors.Is(err, io.EOF) {
				d.eof = true
				return nil, false, nil
			}
			if err != nil {
				return nil, false, errdefs.GeneratorIO(err)
			}
			if line == nil {
				line = []byte{}
			}
			d.base, d.rule = line, 0
			d.entries++
			return line, true, nil
		}
		for d.rule < len(d.rules) {
			r := d.rules[d.rule]
			d.rule++
			if out, ok := r.Apply(d.base); ok {
				return out, true, nil
			}
		}
		d.base = nil
	}
}
