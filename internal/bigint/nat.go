package bigint

import "math/bits"

// Word is a single limb. Limbs are 32 bits wide so that the product of two
// limbs plus two carry limbs always fits in a DoubleWord without overflow:
// (2^32-1)^2 + 2(2^32-1) = 2^64-1.
type Word = uint32

// DoubleWord holds intermediate limb products and carries.
type DoubleWord = uint64

const (
	wordBits = 32
	wordMask = 1<<wordBits - 1
)

// nat is an unsigned magnitude stored as little-endian limbs. A normalized
// nat has no most-significant zero limbs; zero is the empty slice.
type nat []Word

func (z nat) norm() nat {
	i := len(z)
	for i > 0 && z[i-1] == 0 {
		i--
	}
	return z[:i]
}

func (z nat) clone() nat {
	if len(z) == 0 {
		return nil
	}
	c := make(nat, len(z))
	copy(c, z)
	return c
}

func natFromUint64(v uint64) nat {
	return nat{Word(v), Word(v >> wordBits)}.norm()
}

func (x nat) cmp(y nat) int {
	x, y = x.norm(), y.norm()
	if len(x) != len(y) {
		if len(x) < len(y) {
			return -1
		}
		return 1
	}
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] != y[i] {
			if x[i] < y[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func (x nat) bitLen() int {
	x = x.norm()
	if len(x) == 0 {
		return 0
	}
	return (len(x)-1)*wordBits + bits.Len32(x[len(x)-1])
}

func (x nat) bit(i int) uint {
	w := i / wordBits
	if i < 0 || w >= len(x) {
		return 0
	}
	return uint(x[w]>>(uint(i)%wordBits)) & 1
}

func addNat(x, y nat) nat {
	if len(x) < len(y) {
		x, y = y, x
	}
	z := make(nat, len(x)+1)
	var c DoubleWord
	for i := range x {
		s := DoubleWord(x[i]) + c
		if i < len(y) {
			s += DoubleWord(y[i])
		}
		z[i] = Word(s)
		c = s >> wordBits
	}
	z[len(x)] = Word(c)
	return z.norm()
}

// subNat returns x-y and requires x >= y.
func subNat(x, y nat) nat {
	z := make(nat, len(x))
	var borrow DoubleWord
	for i := range x {
		yi := DoubleWord(0)
		if i < len(y) {
			yi = DoubleWord(y[i])
		}
		d := DoubleWord(x[i]) - yi - borrow
		z[i] = Word(d)
		borrow = (d >> wordBits) & 1
	}
	if borrow != 0 {
		panic("bigint: subtraction underflow")
	}
	return z.norm()
}

func mulNat(x, y nat) nat {
	x, y = x.norm(), y.norm()
	if len(x) == 0 || len(y) == 0 {
		return nil
	}
	z := make(nat, len(x)+len(y))
	for i, xi := range x {
		var c DoubleWord
		for j, yj := range y {
			t := DoubleWord(z[i+j]) + DoubleWord(xi)*DoubleWord(yj) + c
			z[i+j] = Word(t)
			c = t >> wordBits
		}
		z[i+len(y)] = Word(c)
	}
	return z.norm()
}

// sqrNat computes x*x, forming each cross product once and doubling.
func sqrNat(x nat) nat {
	x = x.norm()
	n := len(x)
	if n == 0 {
		return nil
	}
	z := make(nat, 2*n)
	for i := 0; i < n; i++ {
		var c DoubleWord
		for j := i + 1; j < n; j++ {
			t := DoubleWord(z[i+j]) + DoubleWord(x[i])*DoubleWord(x[j]) + c
			z[i+j] = Word(t)
			c = t >> wordBits
		}
		z[i+n] = Word(c)
	}

	// double the cross products
	var top Word
	for i := range z {
		next := z[i] >> (wordBits - 1)
		z[i] = z[i]<<1 | top
		top = next
	}

	// add the diagonal squares
	var c DoubleWord
	for i := 0; i < n; i++ {
		sq := DoubleWord(x[i]) * DoubleWord(x[i])
		t := DoubleWord(z[2*i]) + (sq & wordMask) + c
		z[2*i] = Word(t)
		t = DoubleWord(z[2*i+1]) + (sq >> wordBits) + (t >> wordBits)
		z[2*i+1] = Word(t)
		c = t >> wordBits
	}
	return z.norm()
}

// mulAddWord computes x*m + a.
func mulAddWord(x nat, m, a Word) nat {
	z := make(nat, len(x)+1)
	c := DoubleWord(a)
	for i, xi := range x {
		t := DoubleWord(xi)*DoubleWord(m) + c
		z[i] = Word(t)
		c = t >> wordBits
	}
	z[len(x)] = Word(c)
	return z.norm()
}

// shlBits shifts x left by s < wordBits bits, returning len(x)+1 limbs
// (not normalized).
func shlBits(x nat, s uint) nat {
	z := make(nat, len(x)+1)
	if s == 0 {
		copy(z, x)
		return z
	}
	var carry Word
	for i, xi := range x {
		z[i] = xi<<s | carry
		carry = xi >> (wordBits - s)
	}
	z[len(x)] = carry
	return z
}

// shrBits shifts x right by s < wordBits bits.
func shrBits(x nat, s uint) nat {
	z := make(nat, len(x))
	if s == 0 {
		copy(z, x)
		return z.norm()
	}
	for i := range x {
		z[i] = x[i] >> s
		if i+1 < len(x) {
			z[i] |= x[i+1] << (wordBits - s)
		}
	}
	return z.norm()
}

// shlWords multiplies x by 2^(32*n).
func shlWords(x nat, n int) nat {
	x = x.norm()
	if len(x) == 0 {
		return nil
	}
	z := make(nat, len(x)+n)
	copy(z[n:], x)
	return z
}

// padded returns x as exactly n limbs. x must fit.
func padded(x nat, n int) nat {
	z := make(nat, n)
	copy(z, x.norm())
	return z
}
