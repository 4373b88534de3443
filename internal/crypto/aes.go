package crypto

import (
	"encoding/binary"
	"fmt"
)

// sbox is the AES substitution table. It is derived at init from the
// multiplicative inverse in GF(2^8) followed by the affine transform.
var sbox [256]byte

func init() {
	// p walks the multiplicative group generated by 3 and q tracks its
	// inverse, so each step yields one (value, inverse) pair.
	p, q := byte(1), byte(1)
	for {
		p = p ^ (p << 1) ^ xmask(p)

		q ^= q << 1
		q ^= q << 2
		q ^= q << 4
		if q&0x80 != 0 {
			q ^= 0x09
		}

		sbox[p] = q ^ rotl8(q, 1) ^ rotl8(q, 2) ^ rotl8(q, 3) ^ rotl8(q, 4) ^ 0x63
		if p == 1 {
			break
		}
	}
	// zero has no inverse
	sbox[0] = 0x63
}

func rotl8(b byte, n uint) byte { return b<<n | b>>(8-n) }

// xmask returns the reduction term for doubling b in GF(2^8).
func xmask(b byte) byte {
	if b&0x80 != 0 {
		return 0x1b
	}
	return 0
}

// xtime multiplies b by x (that is, 2) in GF(2^8).
func xtime(b byte) byte { return b<<1 ^ xmask(b) }

// BlockCipher is an AES block cipher for the encrypt direction only.
type BlockCipher struct {
	rk     []uint32
	rounds int
}

// NewBlockCipher expands a 16, 24 or 32 byte key into an AES-128, AES-192 or
// AES-256 cipher.
func NewBlockCipher(key []byte) (*BlockCipher, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: got %d, want 16, 24 or 32", ErrInvalidKeySize, len(key))
	}

	nk := len(key) / 4
	rounds := nk + 6
	rk := make([]uint32, 4*(rounds+1))

	for i := 0; i < nk; i++ {
		rk[i] = binary.BigEndian.Uint32(key[4*i:])
	}

	rcon := byte(1)
	for i := nk; i < len(rk); i++ {
		t := rk[i-1]
		switch {
		case i%nk == 0:
			t = subWord(t<<8|t>>24) ^ uint32(rcon)<<24
			rcon = xtime(rcon)
		case nk > 6 && i%nk == 4:
			t = subWord(t)
		}
		rk[i] = rk[i-nk] ^ t
	}

	return &BlockCipher{rk: rk, rounds: rounds}, nil
}

func subWord(w uint32) uint32 {
	return uint32(sbox[w>>24])<<24 |
		uint32(sbox[w>>16&0xff])<<16 |
		uint32(sbox[w>>8&0xff])<<8 |
		uint32(sbox[w&0xff])
}

// BlockSize returns the AES block size.
func (c *BlockCipher) BlockSize() int { return BlockSize }

// Encrypt encrypts the first block of src into dst. dst and src may overlap
// entirely.
func (c *BlockCipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic("crypto: input not full block")
	}

	// state is column-major, which is the byte order of the block
	var s [BlockSize]byte
	copy(s[:], src)

	c.addRoundKey(&s, 0)
	for r := 1; r < c.rounds; r++ {
		subBytes(&s)
		shiftRows(&s)
		mixColumns(&s)
		c.addRoundKey(&s, r)
	}
	subBytes(&s)
	shiftRows(&s)
	c.addRoundKey(&s, c.rounds)

	copy(dst, s[:])
}

func (c *BlockCipher) addRoundKey(s *[BlockSize]byte, round int) {
	for col := 0; col < 4; col++ {
		w := c.rk[4*round+col]
		s[4*col] ^= byte(w >> 24)
		s[4*col+1] ^= byte(w >> 16)
		s[4*col+2] ^= byte(w >> 8)
		s[4*col+3] ^= byte(w)
	}
}

func subBytes(s *[BlockSize]byte) {
	for i := range s {
		s[i] = sbox[s[i]]
	}
}

// shiftRows rotates row r left by r columns.
func shiftRows(s *[BlockSize]byte) {
	var t [BlockSize]byte
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			t[row+4*col] = s[row+4*((col+row)%4)]
		}
	}
	*s = t
}

func mixColumns(s *[BlockSize]byte) {
	for col := 0; col < 4; col++ {
		a0, a1, a2, a3 := s[4*col], s[4*col+1], s[4*col+2], s[4*col+3]
		s[4*col] = xtime(a0) ^ xtime(a1) ^ a1 ^ a2 ^ a3
		s[4*col+1] = a0 ^ xtime(a1) ^ xtime(a2) ^ a2 ^ a3
		s[4*col+2] = a0 ^ a1 ^ xtime(a2) ^ xtime(a3) ^ a3
		s[4*col+3] = xtime(a0) ^ a0 ^ a1 ^ a2 ^ xtime(a3)
	}
}
