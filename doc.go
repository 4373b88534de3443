// Package ravelin encrypts payment card details on the client so that only
// Ravelin, holding the private key, can read them.
//
// Each card is encrypted with a fresh AES-256-GCM session key. The session
// key and IV are then wrapped with RSA PKCS#1 v1.5 under the merchant's
// public key. Random material comes from an internal generator that refuses
// to produce output until it has collected enough entropy; by default it is
// seeded from crypto/rand when the Encrypter is created.
//
// Basic usage:
//
//	enc, err := ravelin.New(ravelin.WithPublicKey("0|10001|BB2D..."))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer enc.Close()
//
//	payload, err := enc.EncryptCard(&ravelin.Card{
//	    PAN:   "4111 1111 1111 1111",
//	    Month: "4",
//	    Year:  "28",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Deliver the payload with your own backend, or:
//	t, err := ravelin.NewTransport(apiKey)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	receipt, err := t.Send(ctx, payload)
//
// Errors can be matched with errors.Is against the sentinel values, or
// with errors.As against *InvalidFieldError, *UnexpectedFieldError,
// *KeyError, *EncryptionError, *APIError and *NetworkError.
package ravelin
