package api

import (
	"context"
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

const (
	// MaxRetryDelay caps every wait, including one requested by the server.
	MaxRetryDelay = 30 * time.Second

	retryJitter = 0.2
)

// DefaultRetryOn lists the status codes retried when none are configured.
var DefaultRetryOn = []int{
	http.StatusRequestTimeout,
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

// retryPolicy decides whether a failed attempt is repeated and how long to
// wait first. The delay doubles per attempt from baseDelay up to maxDelay.
type retryPolicy struct {
	retries   int
	baseDelay time.Duration
	maxDelay  time.Duration
	jitter    float64
	retryOn   map[int]bool
}

// newRetryPolicy builds a policy from client configuration. retries == 0
// selects DefaultMaxRetries and a negative count disables retrying. A nil
// codes slice selects DefaultRetryOn.
func newRetryPolicy(retries int, baseDelay time.Duration, codes []int) *retryPolicy {
	switch {
	case retries == 0:
		retries = DefaultMaxRetries
	case retries < 0:
		retries = 0
	}
	if baseDelay <= 0 {
		baseDelay = DefaultRetryDelay
	}
	if codes == nil {
		codes = DefaultRetryOn
	}
	return &retryPolicy{
		retries:   retries,
		baseDelay: baseDelay,
		maxDelay:  MaxRetryDelay,
		jitter:    retryJitter,
		retryOn:   statusSet(codes),
	}
}

func statusSet(codes []int) map[int]bool {
	set := make(map[int]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set
}

// allows reports whether another attempt may follow attempt (zero-based).
func (p *retryPolicy) allows(attempt int) bool {
	return attempt < p.retries
}

// retryStatus reports whether a response with status should be retried.
func (p *retryPolicy) retryStatus(attempt, status int) bool {
	return p.allows(attempt) && p.retryOn[status]
}

func (p *retryPolicy) backoff(attempt int) time.Duration {
	d := p.baseDelay
	for i := 0; i < attempt && d < p.maxDelay; i++ {
		d *= 2
	}
	if p.jitter > 0 {
		spread := float64(d) * p.jitter
		d += time.Duration(spread * (2*rand.Float64() - 1))
	}
	return min(d, p.maxDelay)
}

// wait sleeps for the backoff of attempt, or for floor when the server asked
// for longer, never beyond maxDelay. It returns early with ctx's error.
func (p *retryPolicy) wait(ctx context.Context, attempt int, floor time.Duration) error {
	d := min(max(p.backoff(attempt), floor), p.maxDelay)

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryAfter returns the server's requested delay in whole seconds, or zero.
func retryAfter(resp *http.Response) time.Duration {
	secs, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
