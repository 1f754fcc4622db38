package generator

// odometer enumerates the Cartesian product of its sets in mixed radix.
// digits[i] indexes sets[i]; buf mirrors the current candidate so an
// increment only rewrites the positions that changed.
type odometer struct {
	sets   []Charset
	digits []int
	buf    []byte
	done   bool
}

func newOdometer(sets []Charset) *odometer {
	o := &odometer{
		sets:   sets,
		digits: make([]int, len(sets)),
		buf:    make([]byte, len(sets)),
	}
	o.reset()
	return o
}

// reset rewinds to the first combination without reallocating.
func (o *odometer) reset() {
	for i := range o.digits {
		o.digits[i] = 0
		o.buf[i] = o.sets[i].At(0)
	}
	o.done = false
}

// current is the candidate under the cursor. Callers must copy it.
func (o *odometer) current() []byte { return o.buf }

// advance moves to the next combination. It returns false once the carry
// runs past the leftmost position; the odometer is then exhausted.
func (o *odometer) advance() bool {
	for i := len(o.digits) - 1; i >= 0; i-- {
		d := o.digits[i] + 1
		if d < o.sets[i].Len() {
			o.digits[i] = d
			o.buf[i] = o.sets[i].At(d)
			return true
		}
		o.digits[i] = 0
		o.buf[i] = o.sets[i].At(0)
	}
	o.done = true
	return false
}

// position returns a copy of the index vector, for progress reporting.
func (o *odometer) position() []int {
	return append([]int(nil), o.digits...)
}
