package api

// PaymentMethodPath is the default submission endpoint.
const PaymentMethodPath = "/v1/paymentmethod"

// SubmitPaymentMethodRequest wraps an encrypted payment method for
// submission.
type SubmitPaymentMethodRequest struct {
	// Timestamp is the client time in milliseconds since the epoch.
	Timestamp int64 `json:"timestamp"`
	// CustomerID optionally ties the card to a customer.
	CustomerID string `json:"customerId,omitempty"`
	// PaymentMethod is the cipher payload, marshalled as-is.
	PaymentMethod interface{} `json:"paymentMethod"`
}

// SubmitPaymentMethodResponse is the server's acknowledgement.
type SubmitPaymentMethodResponse struct {
	PaymentMethodID string `json:"paymentMethodId"`
	Status          string `json:"status,omitempty"`
}

// SubmitResult is a decoded response plus transport metadata.
type SubmitResult struct {
	SubmitPaymentMethodResponse
	RequestID string
}
