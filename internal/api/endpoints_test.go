package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func TestSubmitPaymentMethod(t *testing.T) {
	var (
		mu   sync.Mutex
		keys []string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != PaymentMethodPath {
			t.Errorf("path = %s, want %s", r.URL.Path, PaymentMethodPath)
		}

		mu.Lock()
		keys = append(keys, r.Header.Get(IdempotencyKeyHeader))
		n := len(keys)
		mu.Unlock()
		if n == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		var body struct {
			Timestamp     int64             `json:"timestamp"`
			CustomerID    string            `json:"customerId"`
			PaymentMethod map[string]string `json:"paymentMethod"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Timestamp != 1700000000000 || body.CustomerID != "cust-1" {
			t.Errorf("body = %+v", body)
		}
		if body.PaymentMethod["methodType"] != "paymentMethodCipher" {
			t.Errorf("paymentMethod = %v", body.PaymentMethod)
		}

		w.Header().Set(RequestIDHeader, "req-42")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"paymentMethodId": "pm_123", "status": "stored"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	res, err := client.SubmitPaymentMethod(context.Background(), "", "idem-1", &SubmitPaymentMethodRequest{
		Timestamp:     1700000000000,
		CustomerID:    "cust-1",
		PaymentMethod: map[string]string{"methodType": "paymentMethodCipher"},
	})
	if err != nil {
		t.Fatalf("SubmitPaymentMethod() error = %v", err)
	}

	if res.PaymentMethodID != "pm_123" || res.Status != "stored" {
		t.Errorf("response = %+v", res.SubmitPaymentMethodResponse)
	}
	if res.RequestID != "req-42" {
		t.Errorf("RequestID = %s, want req-42", res.RequestID)
	}
	if len(keys) != 2 || keys[0] != "idem-1" || keys[1] != "idem-1" {
		t.Errorf("idempotency keys = %v, want the same key on both attempts", keys)
	}
}

func TestSubmitPaymentMethod_CustomPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/card" {
			t.Errorf("path = %s, want /v2/card", r.URL.Path)
		}
		if r.Header.Get(IdempotencyKeyHeader) != "" {
			t.Error("unexpected idempotency key")
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	res, err := newTestClient(t, server.URL).SubmitPaymentMethod(context.Background(), "/v2/card", "", &SubmitPaymentMethodRequest{})
	if err != nil {
		t.Fatalf("SubmitPaymentMethod() error = %v", err)
	}
	if res.PaymentMethodID != "" {
		t.Errorf("PaymentMethodID = %q, want empty", res.PaymentMethodID)
	}
}
