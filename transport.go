package ravelin

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/unravelin/ravelinjs-sub000/internal/api"
)

// DefaultBaseURL is the Ravelin API endpoint used by NewTransport.
const DefaultBaseURL = api.DefaultBaseURL

// Receipt acknowledges a submitted payload.
type Receipt struct {
	PaymentMethodID string
	Status          string
	RequestID       string
	IdempotencyKey  string
}

// Transport delivers cipher payloads to the Ravelin API. It is safe for
// concurrent use.
type Transport struct {
	client     *api.Client
	path       string
	customerID string
	now        func() time.Time
	log        *logrus.Logger
}

// NewTransport creates a Transport authenticated with apiKey.
func NewTransport(apiKey string, opts ...TransportOption) (*Transport, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	cfg := &transportConfig{
		baseURL:      DefaultBaseURL,
		endpointPath: api.PaymentMethodPath,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	log := cfg.logger
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}

	apiOpts := []api.Option{
		api.WithBaseURL(cfg.baseURL),
		api.WithLogger(log.WithField("component", "transport")),
	}
	if cfg.timeout > 0 {
		apiOpts = append(apiOpts, api.WithTimeout(cfg.timeout))
	}
	if cfg.httpClient != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(cfg.httpClient))
	}
	if cfg.retries != nil {
		n := *cfg.retries
		if n <= 0 {
			n = -1 // the api client reads zero as the default count
		}
		apiOpts = append(apiOpts, api.WithRetries(n))
	}
	if cfg.retryDelay > 0 {
		apiOpts = append(apiOpts, api.WithRetryDelay(cfg.retryDelay))
	}
	if cfg.retryOn != nil {
		apiOpts = append(apiOpts, api.WithRetryOn(cfg.retryOn))
	}

	client, err := api.New(apiKey, apiOpts...)
	if err != nil {
		return nil, wrapError(err)
	}

	return &Transport{
		client:     client,
		path:       cfg.endpointPath,
		customerID: cfg.customerID,
		now:        time.Now,
		log:        log,
	}, nil
}

// Send posts payload to the API. Retries reuse one idempotency key, which
// is returned in the Receipt.
func (t *Transport) Send(ctx context.Context, payload *CipherPayload) (*Receipt, error) {
	if payload == nil {
		return nil, errors.New("payload is required")
	}

	key := uuid.NewString()
	req := &api.SubmitPaymentMethodRequest{
		Timestamp:     t.now().UnixMilli(),
		CustomerID:    t.customerID,
		PaymentMethod: payload,
	}

	res, err := t.client.SubmitPaymentMethod(ctx, t.path, key, req)
	if err != nil {
		return nil, wrapError(err)
	}

	t.log.WithFields(logrus.Fields{
		"payment_method_id": res.PaymentMethodID,
		"request_id":        res.RequestID,
	}).Debug("payload submitted")

	return &Receipt{
		PaymentMethodID: res.PaymentMethodID,
		Status:          res.Status,
		RequestID:       res.RequestID,
		IdempotencyKey:  key,
	}, nil
}
