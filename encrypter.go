package ravelin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/pmylund/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/unravelin/ravelinjs-sub000/internal/crypto"
	"github.com/unravelin/ravelinjs-sub000/internal/random"
)

// Event is one user-interaction sample fed to the generator.
type Event = random.Event

// EventKind is the kind of an Event.
type EventKind = random.EventKind

// Event kinds accepted by AddEvent.
const (
	PointerMove  = random.PointerMove
	KeyPress     = random.KeyPress
	TouchMove    = random.TouchMove
	Orientation  = random.Orientation
	Acceleration = random.Acceleration
	PageLoad     = random.PageLoad
)

// Readiness is the state of an Encrypter's random generator.
type Readiness = random.Level

// Generator readiness levels.
const (
	Unseeded = random.Unseeded
	Seeded   = random.Seeded
	Stale    = random.Stale
)

// KeyInfo describes a public key without exposing its modulus.
type KeyInfo struct {
	Index     int
	Bits      int
	Signature string
}

// Encrypter encrypts card details under an RSA public key. It is safe for
// concurrent use.
type Encrypter struct {
	cfg  *encrypterConfig
	log  *logrus.Logger
	gen  *random.Generator
	keys *cache.Cache

	mu        sync.RWMutex
	key       *crypto.PublicKey
	collector *random.Collector
}

// New creates an Encrypter. The generator is seeded from crypto/rand
// unless WithHostEntropy or WithoutHostEntropy says otherwise.
func New(opts ...Option) (*Encrypter, error) {
	cfg := defaultEncrypterConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	log := cfg.logger
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}

	gen := cfg.generator
	if gen == nil {
		gcfg := cfg.generatorConfig
		if gcfg.Logger == nil {
			gcfg.Logger = log.WithField("component", "generator")
		}
		gen = random.NewGenerator(gcfg)
	}

	if cfg.hostEntropy != nil && cfg.hostEntropyLen > 0 {
		if err := gen.SeedFromHost(cfg.hostEntropy, cfg.hostEntropyLen); err != nil {
			return nil, fmt.Errorf("seed generator: %w", err)
		}
	}

	e := &Encrypter{
		cfg:  cfg,
		log:  log,
		gen:  gen,
		keys: cache.New(cfg.keyCacheTTL, 0),
	}

	if cfg.publicKey != "" {
		if err := e.SetKey(cfg.publicKey); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// SetKey parses raw and makes it the instance key. On error the previous
// key is kept.
func (e *Encrypter) SetKey(raw string) error {
	pub, err := crypto.ParseKey(raw)
	if err != nil {
		return wrapCryptoError("key", err)
	}

	e.mu.Lock()
	e.key = pub
	e.mu.Unlock()

	e.log.WithFields(logrus.Fields{
		"index":     pub.Index,
		"bits":      pub.Bits(),
		"signature": pub.Signature,
	}).Debug("encryption key set")
	return nil
}

// Key describes the instance key. ok is false when no key is set.
func (e *Encrypter) Key() (info KeyInfo, ok bool) {
	e.mu.RLock()
	pub := e.key
	e.mu.RUnlock()
	if pub == nil {
		return KeyInfo{}, false
	}
	return KeyInfo{Index: pub.Index, Bits: pub.Bits(), Signature: pub.Signature}, true
}

// EncryptCard validates card and encrypts it under the instance key, or
// the key given with WithKey.
//
// Validation errors are *InvalidFieldError or ErrCardRequired. A missing key
// is ErrMissingKey. While the generator lacks entropy the error matches
// ErrGeneratorNotReady; collect more events and retry.
func (e *Encrypter) EncryptCard(card *Card, opts ...EncryptOption) (*CipherPayload, error) {
	var cfg encryptConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	nc, err := card.normalize(e.cfg.minPANDigits)
	if err != nil {
		return nil, err
	}

	pub, err := e.resolveKey(cfg.key)
	if err != nil {
		return nil, err
	}

	plaintext, err := json.Marshal(nc)
	if err != nil {
		return nil, fmt.Errorf("encode card: %w", err)
	}

	sessionKey, err := e.gen.RandomBytes(crypto.AESKeySize)
	if err != nil {
		return nil, wrapCryptoError("random", err)
	}
	defer clear(sessionKey)
	iv, err := e.gen.RandomBytes(crypto.SessionIVSize)
	if err != nil {
		return nil, wrapCryptoError("random", err)
	}

	sealed, err := crypto.SealGCM(sessionKey, iv, plaintext, nil)
	clear(plaintext)
	if err != nil {
		return nil, wrapCryptoError("aes", err)
	}

	wrapped := []byte(crypto.ToBase64(sessionKey) + "|" + crypto.ToBase64(iv))
	defer clear(wrapped)
	keyCiphertext, err := crypto.EncryptPKCS1(pub, wrapped, e.gen)
	if err != nil {
		return nil, wrapCryptoError("rsa", err)
	}

	return &CipherPayload{
		MethodType:       MethodTypeCipher,
		CardCiphertext:   crypto.ToBase64(sealed),
		AESKeyCiphertext: crypto.ToBase64(keyCiphertext),
		Algorithm:        crypto.Algorithm,
		SDKVersion:       e.cfg.sdkVersion,
		KeyIndex:         pub.Index,
		KeySignature:     pub.Signature,
	}, nil
}

// resolveKey returns the per-call key when raw is set, else the instance
// key. Per-call keys are parsed once and cached.
func (e *Encrypter) resolveKey(raw string) (*crypto.PublicKey, error) {
	if raw == "" {
		e.mu.RLock()
		pub := e.key
		e.mu.RUnlock()
		if pub == nil {
			return nil, ErrMissingKey
		}
		return pub, nil
	}

	if v, ok := e.keys.Get(raw); ok {
		return v.(*crypto.PublicKey), nil
	}
	pub, err := crypto.ParseKey(raw)
	if err != nil {
		return nil, wrapCryptoError("key", err)
	}
	e.keys.DeleteExpired()
	e.keys.Set(raw, pub, cache.DefaultExpiration)
	e.log.WithField("key", pub.String()).Debug("per-call key cached")
	return pub, nil
}

// Readiness reports whether the generator can currently produce output.
func (e *Encrypter) Readiness() Readiness {
	return e.gen.Readiness()
}

// AddEvent feeds one interaction sample to the generator synchronously.
func (e *Encrypter) AddEvent(ev Event) {
	e.gen.AddEvent(ev)
}

// AddEntropy feeds caller-supplied bytes credited with bits of entropy.
func (e *Encrypter) AddEntropy(data []byte, bits int) {
	e.gen.AddEntropy(data, bits, random.SourceCaller)
}

// StartCollecting starts a background goroutine that absorbs events passed
// to SubmitEvent. It runs until ctx ends or Close is called.
func (e *Encrypter) StartCollecting(ctx context.Context) {
	e.mu.Lock()
	if e.collector == nil {
		e.collector = random.NewCollector(e.gen, e.cfg.collectorBuffer, e.log.WithField("component", "collector"))
	}
	c := e.collector
	e.mu.Unlock()
	c.Start(ctx)
}

// SubmitEvent queues ev for the collector started by StartCollecting. It
// never blocks and reports false when the event was dropped.
func (e *Encrypter) SubmitEvent(ev Event) bool {
	e.mu.RLock()
	c := e.collector
	e.mu.RUnlock()
	if c == nil {
		return false
	}
	return c.Submit(ev)
}

// Close stops event collection. The Encrypter can still encrypt afterwards.
func (e *Encrypter) Close() error {
	e.mu.Lock()
	c := e.collector
	e.mu.Unlock()
	if c != nil {
		c.Stop()
	}
	return nil
}
