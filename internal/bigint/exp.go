package bigint

// ModPow returns x**e mod m.
//
// m must be positive and e non-negative. m == 1 yields 0 and e == 0 yields
// 1 (for m > 1). A negative x is reduced into [0, m) first.
//
// Odd moduli use Montgomery multiplication, even moduli classical long
// division. Either way every exponent bit runs exactly one squaring, one
// multiplication and a masked select, so the sequence of operations does not
// depend on the exponent's bit values.
func (x *Int) ModPow(e, m *Int) (*Int, error) {
	if m.Sign() <= 0 {
		return nil, ErrInvalidModulus
	}
	if e.Sign() < 0 {
		return nil, ErrNegativeExponent
	}
	if m.abs.cmp(nat{1}) == 0 {
		return &Int{}, nil
	}

	base, err := x.Mod(m)
	if err != nil {
		return nil, err
	}

	var z nat
	if m.IsOdd() {
		z = newMontgomery(m.abs.norm()).exp(base.abs, e.abs.norm())
	} else {
		z = expClassical(base.abs, e.abs.norm(), m.abs.norm())
	}
	return newInt(false, z), nil
}

// ctSelect sets z = a when bit == 1 and z = b when bit == 0, without
// branching on bit. All slices must share a length.
func ctSelect(z, a, b nat, bit uint) {
	mask := -Word(bit & 1)
	for i := range z {
		z[i] = (a[i] & mask) | (b[i] &^ mask)
	}
}

func expClassical(base, e, m nat) nat {
	n := len(m)
	r := padded(nat{1}, n)
	b := padded(base, n)
	t := make(nat, n)

	for i := e.bitLen() - 1; i >= 0; i-- {
		r = padded(modNat(sqrNat(r), m), n)
		copy(t, padded(modNat(mulNat(r, b), m), n))
		ctSelect(r, t, r, e.bit(i))
	}
	return r.norm()
}

// montgomery holds the precomputed values for reduction modulo an odd m
// with R = 2^(32*len(m)).
type montgomery struct {
	m    nat
	n    int
	minv Word // -m^-1 mod 2^32
	rr   nat  // R^2 mod m
}

func newMontgomery(m nat) *montgomery {
	n := len(m)

	// Newton iteration for m[0]^-1 mod 2^32; each step doubles the correct
	// low bits, starting from 3 (m0*m0 == 1 mod 8 for odd m0).
	inv := m[0]
	for i := 0; i < 4; i++ {
		inv *= 2 - m[0]*inv
	}

	rr := modNat(shlWords(nat{1}, 2*n), m)
	return &montgomery{m: m, n: n, minv: -inv, rr: padded(rr, n)}
}

// mul returns x*y*R^-1 mod m for x, y < m given as n limbs (CIOS method).
func (mg *montgomery) mul(x, y nat) nat {
	n, m := mg.n, mg.m
	t := make(nat, n+2)

	for i := 0; i < n; i++ {
		var c DoubleWord
		for j := 0; j < n; j++ {
			s := DoubleWord(t[j]) + DoubleWord(x[i])*DoubleWord(y[j]) + c
			t[j] = Word(s)
			c = s >> wordBits
		}
		s := DoubleWord(t[n]) + c
		t[n] = Word(s)
		t[n+1] = Word(s >> wordBits)

		u := t[0] * mg.minv
		s = DoubleWord(t[0]) + DoubleWord(u)*DoubleWord(m[0])
		c = s >> wordBits
		for j := 1; j < n; j++ {
			s = DoubleWord(t[j]) + DoubleWord(u)*DoubleWord(m[j]) + c
			t[j-1] = Word(s)
			c = s >> wordBits
		}
		s = DoubleWord(t[n]) + c
		t[n-1] = Word(s)
		t[n] = t[n+1] + Word(s>>wordBits)
		t[n+1] = 0
	}

	// t < 2m; subtract m once if t >= m
	d := make(nat, n)
	var borrow DoubleWord
	for i := 0; i < n; i++ {
		v := DoubleWord(t[i]) - DoubleWord(m[i]) - borrow
		d[i] = Word(v)
		borrow = (v >> wordBits) & 1
	}
	// keep the difference when there was no net borrow out of the top limb
	useDiff := uint(1)
	if t[n] == 0 && borrow == 1 {
		useDiff = 0
	}
	z := make(nat, n)
	ctSelect(z, d, t[:n], useDiff)
	return z
}

func (mg *montgomery) exp(base, e nat) nat {
	n := mg.n
	one := padded(nat{1}, n)

	b := mg.mul(padded(base, n), mg.rr) // base*R mod m
	r := mg.mul(one, mg.rr)             // R mod m
	t := make(nat, n)

	for i := e.bitLen() - 1; i >= 0; i-- {
		r = mg.mul(r, r)
		copy(t, mg.mul(r, b))
		ctSelect(r, t, r, e.bit(i))
	}
	return mg.mul(r, one).norm()
}
