package ravelin

import "encoding/json"

const (
	// MethodTypeCipher identifies an encrypted card to the Ravelin API.
	MethodTypeCipher = "paymentMethodCipher"
)

// CipherPayload is the result of EncryptCard. Field names and the literal
// MethodType and Algorithm values are read by the server and must not change.
type CipherPayload struct {
	MethodType       string `json:"methodType"`
	CardCiphertext   string `json:"cardCiphertext"`
	AESKeyCiphertext string `json:"aesKeyCiphertext"`
	Algorithm        string `json:"algorithm"`
	SDKVersion       string `json:"sdkVersion"`
	KeyIndex         int    `json:"keyIndex"`
	KeySignature     string `json:"keySignature"`
}

// JSON returns the payload encoded as a JSON object.
func (p *CipherPayload) JSON() ([]byte, error) {
	return json.Marshal(p)
}
