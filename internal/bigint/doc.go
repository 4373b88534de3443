// Package bigint implements the arbitrary-precision integer arithmetic used
// by the RSA public-key operation.
//
// Magnitudes are little-endian slices of 32-bit limbs with a separate sign.
// Limb products are accumulated in 64-bit words, so every multiply-add step
// (limb*limb + limb + carry) fits without overflow. Carries propagate upward
// as the high half of the 64-bit intermediate; borrows are taken from bit 32
// of the wrapped 64-bit difference.
//
// The package supports construction from hex, decimal or arbitrary-radix
// strings and from big-endian bytes, the four arithmetic operations, Euclidean
// reduction and modular exponentiation with moduli of 2048 bits and beyond.
package bigint
