// Package crypto provides the primitives of the hybrid card encryption
// scheme. Every primitive is implemented here rather than delegated, so the
// output does not depend on what the host runtime provides.
//
// # Algorithm Suite
//
//   - AES (FIPS 197): block cipher with 128, 192 or 256 bit keys. Only the
//     encrypt direction is implemented. The S-box is derived at start-up from
//     GF(2^8) arithmetic.
//
//   - AES-GCM (NIST SP 800-38D): counter mode with a GHASH tag of 128 bits.
//     IVs shorter than 96 bits are rejected; 128-bit session IVs derive the
//     initial counter through GHASH.
//
//   - RSA with PKCS#1 v1.5 type-2 padding (RFC 8017 §7.2): public-key
//     operation only, built on package bigint.
//
// # Keys
//
// Public keys arrive as "exponent|modulus" or "index|exponent|modulus" with
// hex segments. [ParseKey] also records a SHA-256 signature of the raw string
// so a server can tell which key a client used.
//
// # Randomness
//
// [Pad] draws padding from a [WordSource]. In production that is the
// entropy-gated generator of package random; a generator that is not ready
// makes Pad fail with the generator's error.
package crypto
