package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"testing"
)

func TestSealGCM_KnownAnswer(t *testing.T) {
	// Test case 14 of the original GCM submission: AES-256, zero key, zero IV,
	// one zero block.
	key := make([]byte, 32)
	iv := make([]byte, 12)
	pt := make([]byte, 16)

	got, err := SealGCM(key, iv, pt, nil)
	if err != nil {
		t.Fatalf("SealGCM() error = %v", err)
	}

	want := "cea7403d4d606b6e074ec5d3baf39d18" + "d0d1c8a799996bf0265b98b5d48ab919"
	if hex.EncodeToString(got) != want {
		t.Errorf("SealGCM() = %x, want %s", got, want)
	}
}

func TestSealGCM_EmptyPlaintext(t *testing.T) {
	// Test case 13: AES-256, zero key, zero IV, nothing to encrypt.
	got, err := SealGCM(make([]byte, 32), make([]byte, 12), nil, nil)
	if err != nil {
		t.Fatalf("SealGCM() error = %v", err)
	}
	if want := "530f8afbc74536b9a963b4f1c4cb738b"; hex.EncodeToString(got) != want {
		t.Errorf("SealGCM() = %x, want %s", got, want)
	}
}

func TestSealGCM_MatchesStdlib(t *testing.T) {
	tests := []struct {
		name   string
		ivSize int
		ptSize int
		aad    []byte
	}{
		{"standard iv", 12, 64, nil},
		{"session iv", SessionIVSize, 100, nil},
		{"long iv", 60, 33, nil},
		{"partial block", SessionIVSize, 7, nil},
		{"empty", SessionIVSize, 0, nil},
		{"with aad", 12, 48, []byte("additional data that spans blocks")},
		{"large", SessionIVSize, 10000, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := make([]byte, AESKeySize)
			iv := make([]byte, tt.ivSize)
			pt := make([]byte, tt.ptSize)
			for _, b := range [][]byte{key, iv, pt} {
				if _, err := rand.Read(b); err != nil {
					t.Fatal(err)
				}
			}

			got, err := SealGCM(key, iv, pt, tt.aad)
			if err != nil {
				t.Fatalf("SealGCM() error = %v", err)
			}

			block, err := aes.NewCipher(key)
			if err != nil {
				t.Fatal(err)
			}
			aead, err := cipher.NewGCMWithNonceSize(block, tt.ivSize)
			if err != nil {
				t.Fatal(err)
			}
			want := aead.Seal(nil, iv, pt, tt.aad)
			if !bytes.Equal(got, want) {
				t.Errorf("SealGCM() = %x\nwant        %x", got, want)
			}

			// and the stdlib opens what we sealed
			opened, err := aead.Open(nil, iv, got, tt.aad)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if !bytes.Equal(opened, pt) {
				t.Error("opened plaintext does not match")
			}
		})
	}
}

func TestSealGCM_OutputLength(t *testing.T) {
	pt := []byte(`{"pan":"4111111111111111","month":"1","year":"2030"}`)
	got, err := SealGCM(make([]byte, AESKeySize), make([]byte, SessionIVSize), pt, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(pt)+GCMTagSize {
		t.Errorf("len = %d, want %d", len(got), len(pt)+GCMTagSize)
	}
}

func TestSealGCM_Errors(t *testing.T) {
	_, err := SealGCM(make([]byte, AESKeySize), make([]byte, 11), []byte("x"), nil)
	if !errors.Is(err, ErrInvalidIVSize) {
		t.Errorf("short iv: error = %v, want %v", err, ErrInvalidIVSize)
	}

	_, err = SealGCM(make([]byte, 31), make([]byte, 12), []byte("x"), nil)
	if !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("bad key: error = %v, want %v", err, ErrInvalidKeySize)
	}
}

func TestGFMul_Identity(t *testing.T) {
	// the multiplicative identity is the element with only x^0 set
	one := fieldElement{hi: 1 << 63}
	x := fieldElement{hi: 0x0123456789abcdef, lo: 0xfedcba9876543210}
	if got := gfMul(x, one); got != x {
		t.Errorf("x*1 = %+v, want %+v", got, x)
	}
	if got := gfMul(one, x); got != x {
		t.Errorf("1*x = %+v, want %+v", got, x)
	}
	if got := gfMul(x, fieldElement{}); got != (fieldElement{}) {
		t.Errorf("x*0 = %+v, want 0", got)
	}
}
