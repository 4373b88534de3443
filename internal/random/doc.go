// Package random implements the entropy-gated generator that supplies every
// random byte used by card encryption.
//
// Entropy arrives as weighted contributions: host CSPRNG bytes at 8 bits per
// byte, and low-weight interaction events such as pointer movement or key
// presses. Each contribution is hashed into one of 32 SHA-256 pools, chosen
// round-robin per source. Until the estimated total crosses the threshold the
// generator is [Unseeded] and every draw fails with [ErrNotReady].
//
// Output is AES-256 applied to an incrementing 128-bit counter. After every
// request the key is replaced by two more counter blocks, so earlier output
// cannot be recovered from a later state. A seeded generator becomes [Stale]
// once enough fresh entropy has accumulated and the reseed interval has
// passed, or once too much output has been produced under one key; the next
// draw then folds selected pools into a new key before emitting.
package random
