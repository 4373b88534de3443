package bigint

import (
	"fmt"
	"strings"
)

const digits = "0123456789abcdefghijklmnopqrstuvwxyz"

// FromString parses s in the given base (2..36). A single leading '-' is
// accepted. Digits are case-insensitive.
func FromString(s string, base int) (*Int, error) {
	if base < 2 || base > 36 {
		return nil, ErrInvalidBase
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if s == "" {
		return nil, ErrEmptyInput
	}

	var z nat
	for i := 0; i < len(s); i++ {
		d := digitValue(s[i])
		if d >= base {
			return nil, fmt.Errorf("%w %q at offset %d", ErrInvalidDigit, s[i], i)
		}
		z = mulAddWord(z, Word(base), Word(d))
	}
	return newInt(neg, z), nil
}

// FromHex parses a hexadecimal string.
func FromHex(s string) (*Int, error) { return FromString(s, 16) }

// FromDecimal parses a decimal string.
func FromDecimal(s string) (*Int, error) { return FromString(s, 10) }

func digitValue(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'z':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'Z':
		return int(c-'A') + 10
	}
	return 36
}

// Text returns x in the given base (2..36) using lowercase digits. It
// panics on an invalid base.
func (x *Int) Text(base int) string {
	if base < 2 || base > 36 {
		panic(ErrInvalidBase)
	}
	abs := x.abs.norm()
	if len(abs) == 0 {
		return "0"
	}

	// largest power of base that fits in a limb, and its digit count
	bb, ndigits := Word(base), 1
	for DoubleWord(bb)*DoubleWord(base) <= wordMask {
		bb *= Word(base)
		ndigits++
	}

	var out []byte
	q := abs.clone()
	for len(q) > 0 {
		var r Word
		q, r = divWord(q, bb)
		for i := 0; i < ndigits && (len(q) > 0 || r > 0); i++ {
			out = append(out, digits[r%Word(base)])
			r /= Word(base)
		}
	}
	if x.neg {
		out = append(out, '-')
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

// Hex returns x in lowercase hexadecimal.
func (x *Int) Hex() string { return x.Text(16) }

// String returns x in decimal.
func (x *Int) String() string { return x.Text(10) }

// Bytes returns |x| as a minimal big-endian byte slice. Zero is empty.
func (x *Int) Bytes() []byte {
	buf := make([]byte, (x.BitLen()+7)/8)
	return x.FillBytes(buf)
}

// FillBytes writes |x| big-endian into buf, zero-extended on the left, and
// returns buf. It panics if |x| does not fit.
func (x *Int) FillBytes(buf []byte) []byte {
	if (x.BitLen()+7)/8 > len(buf) {
		panic("bigint: value does not fit in buffer")
	}
	for i := range buf {
		buf[i] = 0
	}
	for i, w := range x.abs.norm() {
		for b := 0; b < 4; b++ {
			pos := len(buf) - 1 - (4*i + b)
			if pos < 0 {
				break
			}
			buf[pos] = byte(w >> (8 * uint(b)))
		}
	}
	return buf
}
