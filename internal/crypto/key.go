package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/unravelin/ravelinjs-sub000/internal/bigint"
)

// PublicKey is an RSA public key parsed from its delimited string form. It is
// not modified after parsing.
type PublicKey struct {
	Modulus  *bigint.Int
	Exponent *bigint.Int

	// Index selects which of the key holder's key pairs was used.
	Index int

	// Signature is the lowercase hex SHA-256 of the raw key string.
	Signature string
}

// ParseKey parses "exponent|modulus" (index 0) or "index|exponent|modulus".
// Exponent and modulus are hex; the index is decimal.
func ParseKey(raw string) (*PublicKey, error) {
	parts := strings.Split(raw, "|")

	var idx, exp, mod string
	switch len(parts) {
	case 2:
		exp, mod = parts[0], parts[1]
	case 3:
		idx, exp, mod = parts[0], parts[1], parts[2]
	default:
		return nil, fmt.Errorf("%w: expected 2 or 3 segments, got %d", ErrInvalidKey, len(parts))
	}

	pub := &PublicKey{}
	if idx != "" {
		n, err := strconv.ParseUint(idx, 10, 31)
		if err != nil {
			return nil, fmt.Errorf("%w: index: %v", ErrInvalidKey, err)
		}
		pub.Index = int(n)
	} else if len(parts) == 3 {
		return nil, fmt.Errorf("%w: index: empty", ErrInvalidKey)
	}

	e, err := bigint.FromHex(exp)
	if err != nil {
		return nil, fmt.Errorf("%w: exponent: %v", ErrInvalidKey, err)
	}
	if e.Sign() <= 0 {
		return nil, fmt.Errorf("%w: exponent must be positive", ErrInvalidKey)
	}

	n, err := bigint.FromHex(mod)
	if err != nil {
		return nil, fmt.Errorf("%w: modulus: %v", ErrInvalidKey, err)
	}
	if n.Cmp(bigint.FromInt64(1)) <= 0 {
		return nil, fmt.Errorf("%w: modulus must be greater than 1", ErrInvalidKey)
	}

	sum := sha256.Sum256([]byte(raw))
	pub.Exponent = e
	pub.Modulus = n
	pub.Signature = hex.EncodeToString(sum[:])
	return pub, nil
}

// Size returns the modulus length in bytes.
func (k *PublicKey) Size() int { return (k.Modulus.BitLen() + 7) / 8 }

// Bits returns the modulus length in bits.
func (k *PublicKey) Bits() int { return k.Modulus.BitLen() }

// String describes the key without its modulus, for logs.
func (k *PublicKey) String() string {
	sig := k.Signature
	if len(sig) > 16 {
		sig = sig[:16]
	}
	return fmt.Sprintf("index=%d bits=%d sig=%s", k.Index, k.Bits(), sig)
}
