package generator

import (
	"edu/blitzforge/internal/errdefs"
)

// Charset is an ordered, non-empty, duplicate-free set of symbol bytes.
type Charset struct {
	symbols []byte
}

// NewCharset validates symbols. Empty and duplicate-bearing sets are rejected.
func NewCharset(symbols string) (Charset, error) {
	if symbols == "" {
		return Charset{}, errdefs.Invalid("empty charset")
	}
	var seen [256]bool
	for i := 0; i < len(symbols); i++ {
		c := symbols[i]
		if seen[c] {
			return Charset{}, errdefs.Invalid("duplicate symbol %q in charset %q", c, symbols)
		}
		seen[c] = true
	}
	return Charset{symbols: []byte(symbols)}, nil
}

// MustCharset is NewCharset for package-level literals.
func MustCharset(symbols string) Charset {
	cs, err := NewCharset(symbols)
	if err != nil {
		panic(err)
	}
	return cs
}

// Mask tokens: ?l lower, ?u upper, ?d digits, ?s specials, ?a all of them
var (
	Lower   = MustCharset("abcdefghijklmnopqrstuvwxyz")
	Upper   = MustCharset("ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	Digits  = MustCharset("0123456789")
	Special = MustCharset("!@#$%^&*()-_=+[]{};:'\",.<>/?|`~")
	All     = MustCharset("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()-_=+[]{};:'\",.<>/?|`~")
)

func (c Charset) Len() int { return len(c.symbols) }

// At returns the i-th symbol.
func (c Charset) At(i int) byte { return c.symbols[i] }

func (c Charset) String() string { return string(c.symbols) }

func (c Charset) valid() bool { return len(c.symbols) > 0 }
