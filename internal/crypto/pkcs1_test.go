package crypto

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"testing"
)

var (
	testKeyOnce sync.Once
	testKey     *rsa.PrivateKey
	testKeyErr  error
)

// getTestKey returns a 2048-bit key shared by the tests in this package.
func getTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	testKeyOnce.Do(func() {
		testKey, testKeyErr = rsa.GenerateKey(rand.Reader, 2048)
	})
	if testKeyErr != nil {
		t.Fatal(testKeyErr)
	}
	return testKey
}

// keyString renders a key in its "index|exponent|modulus" form.
func keyString(key *rsa.PublicKey, index int) string {
	return fmt.Sprintf("%d|%x|%s", index, key.E, strings.ToUpper(key.N.Text(16)))
}

// sequenceSource replays fixed words, then fails.
type sequenceSource struct {
	words []uint32
	calls int
}

var errExhausted = errors.New("source exhausted")

func (s *sequenceSource) RandomWords(n int) ([]uint32, error) {
	s.calls++
	if len(s.words) < n {
		return nil, errExhausted
	}
	out := s.words[:n]
	s.words = s.words[n:]
	return out, nil
}

func TestPad_Layout(t *testing.T) {
	msg := []byte("session|iv")
	k := 64

	m, err := Pad(msg, k, ReaderSourceForTesting(rand.Reader))
	if err != nil {
		t.Fatalf("Pad() error = %v", err)
	}

	em := m.FillBytes(make([]byte, k))
	if em[0] != 0x00 || em[1] != 0x02 {
		t.Fatalf("header = %x, want 0002", em[:2])
	}
	sep := k - len(msg) - 1
	for i := 2; i < sep; i++ {
		if em[i] == 0 {
			t.Fatalf("zero padding byte at %d", i)
		}
	}
	if em[sep] != 0 {
		t.Errorf("separator = %#02x, want 0", em[sep])
	}
	if !bytes.Equal(em[sep+1:], msg) {
		t.Errorf("message = %q, want %q", em[sep+1:], msg)
	}
}

func TestPad_RedrawsZeroBytes(t *testing.T) {
	msg := []byte("m")
	k := len(msg) + PKCS1Overhead // 8 padding bytes

	// low bytes: 0, 7, 0, 0, 1, 2, 3, 4, 5, 6, 8
	src := &sequenceSource{words: []uint32{0x100, 7, 0xff00, 0, 1, 2, 3, 4, 5, 6, 8}}
	m, err := Pad(msg, k, src)
	if err != nil {
		t.Fatalf("Pad() error = %v", err)
	}

	em := m.FillBytes(make([]byte, k))
	want := []byte{0, 2, 7, 1, 2, 3, 4, 5, 6, 8, 0, 'm'}
	if !bytes.Equal(em, want) {
		t.Errorf("Pad() = %x, want %x", em, want)
	}
	if src.calls != 11 {
		t.Errorf("draws = %d, want 11", src.calls)
	}
}

func TestPad_TooLarge(t *testing.T) {
	tests := []struct {
		name   string
		msgLen int
		k      int
		ok     bool
	}{
		{"exact fit", 53, 64, true},
		{"one over", 54, 64, false},
		{"tiny key", 1, 8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Pad(make([]byte, tt.msgLen), tt.k, ReaderSourceForTesting(rand.Reader))
			if tt.ok && err != nil {
				t.Errorf("Pad() error = %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrPaddingTooLarge) {
				t.Errorf("Pad() error = %v, want %v", err, ErrPaddingTooLarge)
			}
		})
	}
}

func TestPad_PropagatesSourceError(t *testing.T) {
	_, err := Pad([]byte("m"), 32, &sequenceSource{words: []uint32{1, 2}})
	if !errors.Is(err, errExhausted) {
		t.Errorf("Pad() error = %v, want %v", err, errExhausted)
	}
}

func TestEncryptPKCS1_RoundTrip(t *testing.T) {
	priv := getTestKey(t)
	pub, err := ParseKey(keyString(&priv.PublicKey, 1))
	if err != nil {
		t.Fatalf("ParseKey() error = %v", err)
	}

	msg := []byte("bXlzZXNzaW9ua2V5|bXlpdg==")
	ct, err := EncryptPKCS1(pub, msg, ReaderSourceForTesting(rand.Reader))
	if err != nil {
		t.Fatalf("EncryptPKCS1() error = %v", err)
	}
	if len(ct) != priv.Size() {
		t.Errorf("ciphertext length = %d, want %d", len(ct), priv.Size())
	}

	got, err := rsa.DecryptPKCS1v15(nil, priv, ct)
	if err != nil {
		t.Fatalf("DecryptPKCS1v15() error = %v", err)
	}
	if !bytes.Equal(got, msg) {
		t.Errorf("decrypted = %q, want %q", got, msg)
	}
}

func TestEncryptPKCS1_MatchesRawRSA(t *testing.T) {
	priv := getTestKey(t)
	pub, err := ParseKey(keyString(&priv.PublicKey, 0))
	if err != nil {
		t.Fatal(err)
	}

	// replaying the same padding words makes the output deterministic
	words := make([]uint32, 0, 256)
	for i := 0; i < 256; i++ {
		words = append(words, uint32(i%250+1))
	}
	msg := []byte("hello")

	ct, err := EncryptPKCS1(pub, msg, &sequenceSource{words: append([]uint32(nil), words...)})
	if err != nil {
		t.Fatal(err)
	}
	m, err := Pad(msg, priv.Size(), &sequenceSource{words: append([]uint32(nil), words...)})
	if err != nil {
		t.Fatal(err)
	}

	want := new(big.Int).Exp(new(big.Int).SetBytes(m.Bytes()), big.NewInt(int64(priv.E)), priv.N)
	if !bytes.Equal(ct, want.FillBytes(make([]byte, priv.Size()))) {
		t.Error("ciphertext does not match math/big")
	}
}

func TestEncryptPKCS1_TooSmallKey(t *testing.T) {
	// a 64-bit modulus cannot hold even an empty message
	pub, err := ParseKey("10001|C6E3C3F1B1B8D2A7")
	if err != nil {
		t.Fatal(err)
	}
	_, err = EncryptPKCS1(pub, []byte("x"), ReaderSourceForTesting(rand.Reader))
	if !errors.Is(err, ErrPaddingTooLarge) {
		t.Errorf("EncryptPKCS1() error = %v, want %v", err, ErrPaddingTooLarge)
	}
}
