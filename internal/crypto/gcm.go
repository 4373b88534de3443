package crypto

import (
	"encoding/binary"
	"fmt"
)

// fieldElement is an element of GF(2^128) in GCM's bit order: the most
// significant bit of hi is the coefficient of x^0.
type fieldElement struct {
	hi, lo uint64
}

func loadElement(b []byte) fieldElement {
	return fieldElement{
		hi: binary.BigEndian.Uint64(b[:8]),
		lo: binary.BigEndian.Uint64(b[8:16]),
	}
}

func (e fieldElement) store(b []byte) {
	binary.BigEndian.PutUint64(b[:8], e.hi)
	binary.BigEndian.PutUint64(b[8:16], e.lo)
}

// gfMul multiplies x and y in GF(2^128) modulo x^128 + x^7 + x^2 + x + 1.
// It walks all 128 bits of x and masks rather than branches.
func gfMul(x, y fieldElement) fieldElement {
	var z fieldElement
	v := y
	for i := 0; i < 128; i++ {
		var bit uint64
		if i < 64 {
			bit = x.hi >> (63 - i) & 1
		} else {
			bit = x.lo >> (127 - i) & 1
		}
		mask := -bit
		z.hi ^= v.hi & mask
		z.lo ^= v.lo & mask

		lsb := v.lo & 1
		v.lo = v.lo>>1 | v.hi<<63
		v.hi = v.hi>>1 ^ (0xe1<<56)&-lsb
	}
	return z
}

type ghash struct {
	h fieldElement
	y fieldElement
}

// update absorbs data, zero-padding the final partial block.
func (g *ghash) update(data []byte) {
	for len(data) > 0 {
		var block [BlockSize]byte
		n := copy(block[:], data)
		data = data[n:]

		x := loadElement(block[:])
		g.y.hi ^= x.hi
		g.y.lo ^= x.lo
		g.y = gfMul(g.y, g.h)
	}
}

// updateLengths absorbs the bit lengths of the two inputs.
func (g *ghash) updateLengths(a, c int) {
	var block [BlockSize]byte
	binary.BigEndian.PutUint64(block[:8], uint64(a)*8)
	binary.BigEndian.PutUint64(block[8:], uint64(c)*8)
	g.update(block[:])
}

func inc32(ctr *[BlockSize]byte) {
	n := binary.BigEndian.Uint32(ctr[12:])
	binary.BigEndian.PutUint32(ctr[12:], n+1)
}

// SealGCM encrypts and authenticates plaintext with AES-GCM and returns
// ciphertext || tag. The IV must be at least 12 bytes; a 12-byte IV is used
// directly as the counter prefix and any other length is hashed into J0.
func SealGCM(key, iv, plaintext, aad []byte) ([]byte, error) {
	if len(iv) < GCMStandardNonceSize {
		return nil, fmt.Errorf("%w: got %d, want at least %d", ErrInvalidIVSize, len(iv), GCMStandardNonceSize)
	}

	block, err := NewBlockCipher(key)
	if err != nil {
		return nil, err
	}

	var zero, hb [BlockSize]byte
	block.Encrypt(hb[:], zero[:])
	h := loadElement(hb[:])

	var j0 [BlockSize]byte
	if len(iv) == GCMStandardNonceSize {
		copy(j0[:], iv)
		j0[BlockSize-1] = 1
	} else {
		g := ghash{h: h}
		g.update(iv)
		g.updateLengths(0, len(iv))
		g.y.store(j0[:])
	}

	out := make([]byte, len(plaintext), len(plaintext)+GCMTagSize)

	ctr := j0
	var ks [BlockSize]byte
	for off := 0; off < len(plaintext); off += BlockSize {
		inc32(&ctr)
		block.Encrypt(ks[:], ctr[:])
		end := off + BlockSize
		if end > len(plaintext) {
			end = len(plaintext)
		}
		for i := off; i < end; i++ {
			out[i] = plaintext[i] ^ ks[i-off]
		}
	}

	g := ghash{h: h}
	g.update(aad)
	g.update(out)
	g.updateLengths(len(aad), len(out))

	var tag [BlockSize]byte
	block.Encrypt(tag[:], j0[:])
	var s [BlockSize]byte
	g.y.store(s[:])
	for i := range tag {
		tag[i] ^= s[i]
	}

	return append(out, tag[:GCMTagSize]...), nil
}
