package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.ravelin.com"
	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = 3
	// DefaultRetryDelay is the delay before the first retry.
	DefaultRetryDelay = time.Second

	// RequestIDHeader carries the server's request identifier.
	RequestIDHeader = "X-Request-Id"
	// IdempotencyKeyHeader makes retried submissions safe.
	IdempotencyKeyHeader = "Idempotency-Key"
)

// Config configures a Client.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	MaxRetries int
	RetryDelay time.Duration
	// RetryOn lists the status codes to retry. Nil uses the defaults.
	RetryOn []int
	Logger  logrus.FieldLogger
}

// Client is the HTTP API client. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retry      *retryPolicy
	logger     logrus.FieldLogger
}

// NewClient creates a client from an explicit configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: cfg.HTTPClient,
		retry:      newRetryPolicy(cfg.MaxRetries, cfg.RetryDelay, cfg.RetryOn),
		logger:     cfg.Logger,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if c.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		c.logger = l
	}
	return c, nil
}

// Option configures the API client.
type Option func(*Config)

// WithBaseURL sets the base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithRetries sets the number of retries. Zero keeps the default; a negative
// value disables retrying.
func WithRetries(retries int) Option {
	return func(c *Config) { c.MaxRetries = retries }
}

// WithRetryDelay sets the delay before the first retry.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Config) { c.RetryDelay = d }
}

// WithRetryOn sets the status codes that trigger a retry.
func WithRetryOn(codes []int) Option {
	return func(c *Config) { c.RetryOn = codes }
}

// WithTimeout sets the HTTP timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) { c.HTTPClient = &http.Client{Timeout: timeout} }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) { c.HTTPClient = client }
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Config) { c.Logger = logger }
}

// New creates a client with functional options. The base URL defaults to
// DefaultBaseURL.
func New(apiKey string, opts ...Option) (*Client, error) {
	cfg := Config{APIKey: apiKey, BaseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewClient(cfg)
}

// DoWithHeaders sends a JSON request with extra headers and decodes a JSON
// response into result when it is non-nil. Retryable statuses and transport
// failures are retried with backoff, replaying the request body on each
// attempt. It returns the final response headers.
func (c *Client) DoWithHeaders(ctx context.Context, method, path string, headers map[string]string, body, result interface{}) (http.Header, error) {
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	url := c.baseURL + path
	for attempt := 0; ; attempt++ {
		req, err := c.newRequest(ctx, method, url, headers, data)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !c.retry.allows(attempt) {
				return nil, &NetworkError{Err: err, URL: url, Attempt: attempt + 1}
			}
			c.logger.WithError(err).WithField("attempt", attempt+1).Debug("request failed, retrying")
			if err := c.retry.wait(ctx, attempt, 0); err != nil {
				return nil, err
			}
			continue
		}

		if c.retry.retryStatus(attempt, resp.StatusCode) {
			wait := retryAfter(resp)
			drain(resp)
			c.logger.WithFields(logrus.Fields{
				"status":  resp.StatusCode,
				"attempt": attempt + 1,
			}).Debug("retryable response")
			if err := c.retry.wait(ctx, attempt, wait); err != nil {
				return nil, err
			}
			continue
		}

		return resp.Header, c.handleResponse(resp, result)
	}
}

func (c *Client) newRequest(ctx context.Context, method, url string, headers map[string]string, data []byte) (*http.Request, error) {
	var bodyReader io.Reader
	if data != nil {
		bodyReader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

func (c *Client) handleResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return parseErrorResponse(resp)
	}
	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func parseErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get(RequestIDHeader),
	}

	var errResp struct {
		Error     string `json:"error"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		apiErr.Message = errResp.Error
		if apiErr.Message == "" {
			apiErr.Message = errResp.Message
		}
		if errResp.RequestID != "" {
			apiErr.RequestID = errResp.RequestID
		}
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}
