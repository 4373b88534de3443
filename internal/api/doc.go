// Package api provides the HTTP client used to deliver encrypted payment
// methods. It handles authentication, request/response serialization, and
// automatic retry logic with exponential backoff for transient failures.
//
// # Client Creation
//
// The package provides two ways to create a client:
//
//   - [NewClient]: Struct-based configuration for explicit setup.
//   - [New]: Functional options pattern, defaulting to [DefaultBaseURL].
//
// The API key is sent as a bearer token on every request.
//
// # Retry Behavior
//
// Requests are retried up to 3 times for these HTTP status codes:
//
//   - 408 Request Timeout
//   - 429 Too Many Requests
//   - 500 Internal Server Error
//   - 502 Bad Gateway
//   - 503 Service Unavailable
//   - 504 Gateway Timeout
//
// The delay doubles with each attempt (1s, 2s, 4s, ...) with 20% jitter. A
// Retry-After header raises the delay up to the 30 second cap. Transport
// failures are retried on the same schedule and surface as [*NetworkError]
// once retries run out.
//
// Submissions carry an Idempotency-Key header so a retried POST cannot create
// a second payment method.
//
// # Error Handling
//
//   - [ErrUnauthorized]: Invalid or expired API key (401, 403).
//   - [ErrRejected]: Malformed payload (400, 422).
//   - [ErrConflict]: Idempotency key reused with another body (409).
//   - [ErrRateLimited]: Rate limit exceeded (429).
//
//	if errors.Is(err, api.ErrRateLimited) {
//	    // back off
//	}
package api
