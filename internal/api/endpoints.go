package api

import (
	"context"
	"net/http"
)

// SubmitPaymentMethod posts an encrypted payment method to path. The
// idempotency key is sent on every attempt so the server can drop
// duplicates created by retries.
func (c *Client) SubmitPaymentMethod(ctx context.Context, path, idempotencyKey string, req *SubmitPaymentMethodRequest) (*SubmitResult, error) {
	if path == "" {
		path = PaymentMethodPath
	}
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers[IdempotencyKeyHeader] = idempotencyKey
	}

	var out SubmitResult
	h, err := c.DoWithHeaders(ctx, http.MethodPost, path, headers, req, &out.SubmitPaymentMethodResponse)
	if err != nil {
		return nil, err
	}
	out.RequestID = h.Get(RequestIDHeader)
	return &out, nil
}
