package random

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"hash"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/hkdf"

	"github.com/unravelin/ravelinjs-sub000/internal/crypto"
)

const (
	numPools = 32
	keySize  = 32

	// DefaultThresholdBits is the estimated entropy needed before the first
	// draw succeeds.
	DefaultThresholdBits = 256
	// DefaultReseedInterval is the minimum time between pool reseeds.
	DefaultReseedInterval = 30 * time.Second
	// DefaultMaxOutput is the number of bytes emitted under one reseed before
	// the generator counts as stale.
	DefaultMaxOutput = 1 << 20

	// staleBits is the entropy pool 0 must hold before a timed reseed.
	staleBits = 80

	reseedInfo = "ravelin generator reseed v1"
)

// Level is the readiness of a generator.
type Level int

const (
	// Unseeded generators refuse every draw.
	Unseeded Level = iota
	// Seeded generators emit output.
	Seeded
	// Stale generators emit output but reseed on the next draw.
	Stale
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case Unseeded:
		return "unseeded"
	case Seeded:
		return "seeded"
	case Stale:
		return "stale"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Config tunes a Generator. Zero fields take the defaults.
type Config struct {
	ThresholdBits  int
	ReseedInterval time.Duration
	MaxOutput      int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// Logger receives seeding transitions. Defaults to a discarding logger.
	Logger logrus.FieldLogger
}

func (c Config) withDefaults() Config {
	if c.ThresholdBits <= 0 {
		c.ThresholdBits = DefaultThresholdBits
	}
	if c.ReseedInterval <= 0 {
		c.ReseedInterval = DefaultReseedInterval
	}
	if c.MaxOutput <= 0 {
		c.MaxOutput = DefaultMaxOutput
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		c.Logger = l
	}
	return c
}

// Generator is a pool-based generator with an explicit readiness gate. It is
// safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	cfg Config

	pools    [numPools]hash.Hash
	poolBits [numPools]int
	next     map[Source]int

	// collected counts estimated bits absorbed while unseeded.
	collected int
	seeded    bool

	key     [keySize]byte
	counter [crypto.BlockSize]byte
	block   *crypto.BlockCipher

	reseeds     uint64
	lastReseed  time.Time
	sinceReseed int
}

// NewGenerator returns an unseeded generator.
func NewGenerator(cfg Config) *Generator {
	g := &Generator{
		cfg:  cfg.withDefaults(),
		next: make(map[Source]int),
	}
	for i := range g.pools {
		g.pools[i] = sha256.New()
	}
	return g
}

// AddEntropy absorbs data credited with the given number of bits. Negative
// estimates count as zero.
func (g *Generator) AddEntropy(data []byte, bits int, src Source) {
	if bits < 0 {
		bits = 0
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	i := g.next[src]
	g.next[src] = (i + 1) % numPools

	var hdr [24]byte
	binary.BigEndian.PutUint64(hdr[0:], uint64(src))
	binary.BigEndian.PutUint64(hdr[8:], uint64(bits))
	binary.BigEndian.PutUint64(hdr[16:], uint64(len(data)))
	g.pools[i].Write(hdr[:])
	g.pools[i].Write(data)
	g.poolBits[i] += bits

	if g.seeded {
		return
	}
	g.collected += bits
	if g.collected >= g.cfg.ThresholdBits {
		g.reseed(true)
		g.seeded = true
		g.cfg.Logger.WithField("bits", g.collected).Debug("generator seeded")
	}
}

// AddEvent absorbs one interaction sample at its kind's weight.
func (g *Generator) AddEvent(ev Event) {
	if ev.At.IsZero() {
		ev.At = g.cfg.Now()
	}
	g.AddEntropy(ev.encode(), ev.Kind.Weight(), ev.Kind.source())
}

// SeedFromHost reads n bytes from r, typically crypto/rand.Reader, and
// credits them at 8 bits per byte.
func (g *Generator) SeedFromHost(r io.Reader, n int) error {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("read host entropy: %w", err)
	}
	g.AddEntropy(buf, 8*n, SourceHost)
	return nil
}

// Readiness returns the current level.
func (g *Generator) Readiness() Level {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.level()
}

func (g *Generator) level() Level {
	switch {
	case !g.seeded:
		return Unseeded
	case g.sinceReseed > g.cfg.MaxOutput:
		return Stale
	case g.poolBits[0] >= staleBits && g.cfg.Now().Sub(g.lastReseed) >= g.cfg.ReseedInterval:
		return Stale
	default:
		return Seeded
	}
}

// RandomWords returns exactly n 32-bit words, or ErrNotReady.
func (g *Generator) RandomWords(n int) ([]uint32, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d words", ErrInvalidLength, n)
	}
	buf, err := g.RandomBytes(4 * n)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = binary.BigEndian.Uint32(buf[4*i:])
	}
	return out, nil
}

// RandomBytes returns exactly n bytes, or ErrNotReady.
func (g *Generator) RandomBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidLength, n)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.level() {
	case Unseeded:
		return nil, ErrNotReady
	case Stale:
		g.reseed(false)
	}

	out := make([]byte, n)
	g.generate(out)
	g.sinceReseed += n

	// rekey so this output cannot be recomputed from later state
	g.generate(g.key[:])
	g.rekey()
	return out, nil
}

// Read fills p from the generator, so a Generator can serve as an io.Reader.
func (g *Generator) Read(p []byte) (int, error) {
	b, err := g.RandomBytes(len(p))
	if err != nil {
		return 0, err
	}
	return copy(p, b), nil
}

// generate fills out with encrypted counter blocks.
func (g *Generator) generate(out []byte) {
	var ks [crypto.BlockSize]byte
	for off := 0; off < len(out); off += crypto.BlockSize {
		g.incCounter()
		g.block.Encrypt(ks[:], g.counter[:])
		copy(out[off:], ks[:])
	}
}

func (g *Generator) incCounter() {
	for i := len(g.counter) - 1; i >= 0; i-- {
		g.counter[i]++
		if g.counter[i] != 0 {
			return
		}
	}
}

// reseed folds pools into a new key. A full reseed drains every pool;
// otherwise pool i is drained when the reseed count is a multiple of 2^i.
func (g *Generator) reseed(full bool) {
	g.reseeds++

	ikm := make([]byte, 0, numPools*sha256.Size)
	used := 0
	for i := 0; i < numPools; i++ {
		if !full && i > 0 && g.reseeds%(uint64(1)<<uint(i)) != 0 {
			break
		}
		ikm = g.pools[i].Sum(ikm)
		g.pools[i].Reset()
		g.poolBits[i] = 0
		used++
	}

	kdf := hkdf.New(sha256.New, ikm, g.key[:], []byte(reseedInfo))
	if _, err := io.ReadFull(kdf, g.key[:]); err != nil {
		// hkdf only fails past 255 hash lengths of output
		panic(err)
	}
	g.rekey()
	g.incCounter()

	g.lastReseed = g.cfg.Now()
	g.sinceReseed = 0
	g.cfg.Logger.WithFields(logrus.Fields{
		"reseed": g.reseeds,
		"pools":  used,
	}).Debug("generator reseeded")
}

func (g *Generator) rekey() {
	b, err := crypto.NewBlockCipher(g.key[:])
	if err != nil {
		// key is always 32 bytes
		panic(err)
	}
	g.block = b
}
