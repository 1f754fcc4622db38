package generator

import (
	"math/bits"

	"edu/blitzforge/internal/errdefs"
)

func checkedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, errdefs.ErrOverflow
	}
	return lo, nil
}

func checkedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, errdefs.ErrOverflow
	}
	return sum, nil
}

func checkedPow(base uint64, exp int) (uint64, error) {
	out := uint64(1)
	for i := 0; i < exp; i++ {
		var err error
		if out, err = checkedMul(out, base); err != nil {
			return 0, err
		}
	}
	return out, nil
}

// productSize is the size of the Cartesian product of sets.
func productSize(sets []Charset) (uint64, error) {
	total := uint64(1)
	for _, s := range sets {
		var err error
		if total, err = checkedMul(total, uint64(s.Len())); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// lengthRangeSize is sum over l in [min,max] of base^l.
func lengthRangeSize(base uint64, minLen, maxLen int) (uint64, error) {
	var total uint64
	for l := minLen; l <= maxLen; l++ {
		p, err := checkedPow(base, l)
		if err != nil {
			return 0, err
		}
		if total, err = checkedAdd(total, p); err != nil {
			return 0, err
		}
	}
	return total, nil
}
