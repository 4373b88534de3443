package bigint

import "math/bits"

// divWord divides x by a single non-zero limb.
func divWord(x nat, d Word) (q nat, r Word) {
	q = make(nat, len(x))
	var rem DoubleWord
	for i := len(x) - 1; i >= 0; i-- {
		cur := rem<<wordBits | DoubleWord(x[i])
		q[i] = Word(cur / DoubleWord(d))
		rem = cur % DoubleWord(d)
	}
	return q.norm(), Word(rem)
}

// divNat computes the quotient and remainder of u / v. v must be non-zero.
func divNat(u, v nat) (q, r nat) {
	u, v = u.norm(), v.norm()
	if len(v) == 0 {
		panic("bigint: division by zero")
	}
	if u.cmp(v) < 0 {
		return nil, u.clone()
	}
	if len(v) == 1 {
		q, rw := divWord(u, v[0])
		return q, natFromUint64(uint64(rw))
	}
	return divLarge(u, v)
}

// divLarge is Knuth's algorithm D (TAOCP vol. 2, 4.3.1) on 32-bit limbs.
// Requires len(v) >= 2 and u >= v.
func divLarge(u, v nat) (q, r nat) {
	const base = DoubleWord(1) << wordBits

	n := len(v)
	m := len(u) - n
	s := uint(bits.LeadingZeros32(v[n-1]))

	vn := shlBits(v, s)[:n]
	un := shlBits(u, s)
	q = make(nat, m+1)

	for j := m; j >= 0; j-- {
		num := DoubleWord(un[j+n])<<wordBits | DoubleWord(un[j+n-1])
		qhat := num / DoubleWord(vn[n-1])
		rhat := num % DoubleWord(vn[n-1])
		for qhat >= base || qhat*DoubleWord(vn[n-2]) > (rhat<<wordBits|DoubleWord(un[j+n-2])) {
			qhat--
			rhat += DoubleWord(vn[n-1])
			if rhat >= base {
				break
			}
		}

		// multiply and subtract
		var k int64
		for i := 0; i < n; i++ {
			p := qhat * DoubleWord(vn[i])
			t := int64(un[i+j]) - k - int64(p&wordMask)
			un[i+j] = Word(t)
			k = int64(p>>wordBits) - (t >> wordBits)
		}
		t := int64(un[j+n]) - k
		un[j+n] = Word(t)

		q[j] = Word(qhat)
		if t < 0 {
			// qhat was one too large; add v back
			q[j]--
			var c DoubleWord
			for i := 0; i < n; i++ {
				sum := DoubleWord(un[i+j]) + DoubleWord(vn[i]) + c
				un[i+j] = Word(sum)
				c = sum >> wordBits
			}
			un[j+n] = Word(DoubleWord(un[j+n]) + c)
		}
	}

	return q.norm(), shrBits(un[:n], s)
}

// modNat returns x mod m for non-zero m.
func modNat(x, m nat) nat {
	_, r := divNat(x, m)
	return r
}
