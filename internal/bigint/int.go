package bigint

// Int is an arbitrary-precision signed integer. The zero value is 0.
// Values are never mutated by the methods below; each operation returns a
// fresh Int, so an Int may be shared between goroutines.
type Int struct {
	neg bool
	abs nat
}

// FromInt64 returns v as an Int.
func FromInt64(v int64) *Int {
	if v < 0 {
		return &Int{neg: true, abs: natFromUint64(uint64(-v))}
	}
	return &Int{abs: natFromUint64(uint64(v))}
}

// FromBytes interprets b as a big-endian unsigned integer. An empty slice is 0.
func FromBytes(b []byte) *Int {
	z := make(nat, (len(b)+3)/4)
	for i := 0; i < len(b); i++ {
		pos := len(b) - 1 - i
		z[i/4] |= Word(b[pos]) << (8 * uint(i%4))
	}
	return &Int{abs: z.norm()}
}

func newInt(neg bool, abs nat) *Int {
	abs = abs.norm()
	return &Int{neg: neg && len(abs) > 0, abs: abs}
}

// Sign returns -1, 0 or +1.
func (x *Int) Sign() int {
	switch {
	case len(x.abs.norm()) == 0:
		return 0
	case x.neg:
		return -1
	default:
		return 1
	}
}

// IsZero reports whether x == 0.
func (x *Int) IsZero() bool { return x.Sign() == 0 }

// IsOdd reports whether |x| is odd.
func (x *Int) IsOdd() bool { return len(x.abs) > 0 && x.abs[0]&1 == 1 }

// BitLen returns the length of |x| in bits.
func (x *Int) BitLen() int { return x.abs.bitLen() }

// Bit returns bit i of |x|.
func (x *Int) Bit(i int) uint { return x.abs.bit(i) }

// Abs returns |x|.
func (x *Int) Abs() *Int { return newInt(false, x.abs.clone()) }

// Neg returns -x.
func (x *Int) Neg() *Int { return newInt(!x.neg, x.abs.clone()) }

// Cmp compares x and y and returns -1, 0 or +1.
func (x *Int) Cmp(y *Int) int {
	xs, ys := x.Sign(), y.Sign()
	if xs != ys {
		if xs < ys {
			return -1
		}
		return 1
	}
	c := x.abs.cmp(y.abs)
	if xs < 0 {
		return -c
	}
	return c
}

// Add returns x+y.
func (x *Int) Add(y *Int) *Int {
	if x.neg == y.neg {
		return newInt(x.neg, addNat(x.abs, y.abs))
	}
	if x.abs.cmp(y.abs) >= 0 {
		return newInt(x.neg, subNat(x.abs, y.abs))
	}
	return newInt(y.neg, subNat(y.abs, x.abs))
}

// Sub returns x-y.
func (x *Int) Sub(y *Int) *Int {
	return x.Add(&Int{neg: !y.neg, abs: y.abs})
}

// Mul returns x*y.
func (x *Int) Mul(y *Int) *Int {
	return newInt(x.neg != y.neg, mulNat(x.abs, y.abs))
}

// Sqr returns x*x.
func (x *Int) Sqr() *Int {
	return newInt(false, sqrNat(x.abs))
}

// DivRem returns the truncated quotient and remainder of x/y: q is rounded
// toward zero and r has the sign of x, so x = q*y + r.
func (x *Int) DivRem(y *Int) (q, r *Int, err error) {
	if y.IsZero() {
		return nil, nil, ErrDivisionByZero
	}
	qa, ra := divNat(x.abs, y.abs)
	return newInt(x.neg != y.neg, qa), newInt(x.neg, ra), nil
}

// Mod returns the Euclidean remainder x mod m, always in [0, m). m must be
// positive.
func (x *Int) Mod(m *Int) (*Int, error) {
	if m.Sign() <= 0 {
		return nil, ErrInvalidModulus
	}
	r := modNat(x.abs, m.abs)
	if x.neg && len(r) > 0 {
		r = subNat(m.abs, r)
	}
	return newInt(false, r), nil
}
