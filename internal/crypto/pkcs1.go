package crypto

import (
	"fmt"

	"github.com/unravelin/ravelinjs-sub000/internal/bigint"
)

// WordSource supplies random 32-bit words. It is satisfied by
// *random.Generator.
type WordSource interface {
	RandomWords(n int) ([]uint32, error)
}

// Pad embeds msg in a k-byte PKCS#1 v1.5 type-2 block,
// 00 02 PS 00 msg, and returns it as an integer. Each padding byte is drawn
// separately and redrawn while zero. Errors from src are returned unchanged.
func Pad(msg []byte, k int, src WordSource) (*bigint.Int, error) {
	if k < len(msg)+PKCS1Overhead {
		return nil, fmt.Errorf("%w: %d byte message needs %d bytes, key holds %d",
			ErrPaddingTooLarge, len(msg), len(msg)+PKCS1Overhead, k)
	}

	em := make([]byte, k)
	em[1] = 0x02
	ps := em[2 : k-len(msg)-1]
	for i := range ps {
		for ps[i] == 0 {
			w, err := src.RandomWords(1)
			if err != nil {
				return nil, err
			}
			ps[i] = byte(w[0])
		}
	}
	copy(em[k-len(msg):], msg)

	return bigint.FromBytes(em), nil
}

// EncryptPKCS1 pads msg to the modulus length and raises it to the public
// exponent. The result is big-endian and always exactly pub.Size() bytes.
func EncryptPKCS1(pub *PublicKey, msg []byte, src WordSource) ([]byte, error) {
	k := pub.Size()
	m, err := Pad(msg, k, src)
	if err != nil {
		return nil, err
	}
	if m.Cmp(pub.Modulus) >= 0 {
		return nil, ErrMessageOutOfRange
	}

	c, err := m.ModPow(pub.Exponent, pub.Modulus)
	if err != nil {
		return nil, fmt.Errorf("rsa: %w", err)
	}
	return c.FillBytes(make([]byte, k)), nil
}
