package crypto

const (
	// BlockSize is the AES block size in bytes.
	BlockSize = 16

	// AESKeySize is the size of an AES-256 session key in bytes.
	AESKeySize = 32
	// SessionIVSize is the size of the IV drawn for each card encryption.
	// It is four generator words, so GCM derives J0 through GHASH.
	SessionIVSize = 16
	// GCMStandardNonceSize is the IV length for which J0 is IV || 0^31 || 1.
	GCMStandardNonceSize = 12
	// GCMTagSize is the size of the GCM authentication tag in bytes.
	GCMTagSize = 16

	// PKCS1Overhead is the minimum number of bytes type-2 padding adds to a
	// message: the 00 02 header, eight non-zero padding bytes and the 00
	// separator.
	PKCS1Overhead = 11
)

// Algorithm identifies the hybrid scheme in produced payloads. It is part of
// the wire contract.
const Algorithm = "RSA_WITH_AES_256_GCM"
