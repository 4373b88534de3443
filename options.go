package ravelin

import (
	"crypto/rand"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/unravelin/ravelinjs-sub000/internal/random"
)

const (
	defaultHostEntropyBytes = 32
	defaultKeyCacheTTL      = 15 * time.Minute
)

// encrypterConfig holds configuration for an Encrypter.
type encrypterConfig struct {
	logger       *logrus.Logger
	minPANDigits int
	sdkVersion   string
	publicKey    string

	generator       *random.Generator
	generatorConfig random.Config
	hostEntropy     io.Reader
	hostEntropyLen  int

	keyCacheTTL     time.Duration
	collectorBuffer int
}

func defaultEncrypterConfig() *encrypterConfig {
	return &encrypterConfig{
		minPANDigits:   DefaultMinPANDigits,
		sdkVersion:     sdkVersion,
		hostEntropy:    rand.Reader,
		hostEntropyLen: defaultHostEntropyBytes,
		keyCacheTTL:    defaultKeyCacheTTL,
	}
}

// encryptConfig holds per-call configuration for EncryptCard.
type encryptConfig struct {
	key string
}

// transportConfig holds configuration for a Transport.
type transportConfig struct {
	baseURL      string
	endpointPath string
	httpClient   *http.Client
	timeout      time.Duration
	retries      *int
	retryDelay   time.Duration
	retryOn      []int
	customerID   string
	logger       *logrus.Logger
}

// Option configures an Encrypter.
type Option func(*encrypterConfig)

// EncryptOption configures a single EncryptCard call.
type EncryptOption func(*encryptConfig)

// TransportOption configures a Transport.
type TransportOption func(*transportConfig)

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *encrypterConfig) {
		c.logger = logger
	}
}

// WithMinPANDigits sets the minimum number of PAN digits.
// Default: 12
func WithMinPANDigits(n int) Option {
	return func(c *encrypterConfig) {
		c.minPANDigits = n
	}
}

// WithSDKVersion overrides the sdkVersion reported in each payload.
func WithSDKVersion(version string) Option {
	return func(c *encrypterConfig) {
		c.sdkVersion = version
	}
}

// WithPublicKey sets the instance key, as SetKey would.
func WithPublicKey(raw string) Option {
	return func(c *encrypterConfig) {
		c.publicKey = raw
	}
}

// WithGenerator makes the Encrypter draw from g instead of its own
// generator. Host entropy is still fed into g unless WithoutHostEntropy is
// also given.
func WithGenerator(g *random.Generator) Option {
	return func(c *encrypterConfig) {
		c.generator = g
	}
}

// WithGeneratorConfig tunes the Encrypter's own generator.
func WithGeneratorConfig(cfg random.Config) Option {
	return func(c *encrypterConfig) {
		c.generatorConfig = cfg
	}
}

// WithHostEntropy seeds the generator with n bytes read from r at startup.
// Default: 32 bytes from crypto/rand.
func WithHostEntropy(r io.Reader, n int) Option {
	return func(c *encrypterConfig) {
		c.hostEntropy = r
		c.hostEntropyLen = n
	}
}

// WithoutHostEntropy starts the generator unseeded, so EncryptCard fails
// with ErrGeneratorNotReady until enough events have been added.
func WithoutHostEntropy() Option {
	return func(c *encrypterConfig) {
		c.hostEntropy = nil
		c.hostEntropyLen = 0
	}
}

// WithKeyCacheTTL sets how long per-call keys stay parsed.
// Default: 15 minutes
func WithKeyCacheTTL(ttl time.Duration) Option {
	return func(c *encrypterConfig) {
		c.keyCacheTTL = ttl
	}
}

// WithCollectorBuffer sets the event queue length used by StartCollecting.
func WithCollectorBuffer(n int) Option {
	return func(c *encrypterConfig) {
		c.collectorBuffer = n
	}
}

// WithKey encrypts one card under raw instead of the instance key.
func WithKey(raw string) EncryptOption {
	return func(c *encryptConfig) {
		c.key = raw
	}
}

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) TransportOption {
	return func(c *transportConfig) {
		c.baseURL = url
	}
}

// WithEndpointPath sets the path payloads are posted to.
// Default: /v1/paymentmethod
func WithEndpointPath(path string) TransportOption {
	return func(c *transportConfig) {
		c.endpointPath = path
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) TransportOption {
	return func(c *transportConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP timeout. Ignored when WithHTTPClient is used.
func WithTimeout(timeout time.Duration) TransportOption {
	return func(c *transportConfig) {
		c.timeout = timeout
	}
}

// WithRetries sets the number of retries after a failed API call. Zero or a
// negative count disables retrying.
// Default: 3
func WithRetries(count int) TransportOption {
	return func(c *transportConfig) {
		c.retries = &count
	}
}

// WithRetryDelay sets the delay before the first retry. Later retries back
// off exponentially.
// Default: 1 second
func WithRetryDelay(d time.Duration) TransportOption {
	return func(c *transportConfig) {
		c.retryDelay = d
	}
}

// WithRetryOn sets the HTTP status codes that trigger a retry.
// Default: [408, 429, 500, 502, 503, 504]
func WithRetryOn(statusCodes []int) TransportOption {
	return func(c *transportConfig) {
		c.retryOn = statusCodes
	}
}

// WithCustomerID attaches a customer to every submitted payload.
func WithCustomerID(id string) TransportOption {
	return func(c *transportConfig) {
		c.customerID = id
	}
}

// WithTransportLogger sets the logger used for retry diagnostics.
func WithTransportLogger(logger *logrus.Logger) TransportOption {
	return func(c *transportConfig) {
		c.logger = logger
	}
}
