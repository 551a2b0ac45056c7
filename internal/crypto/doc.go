// Package crypto exposes the primitives the rest of devicelink builds on
// (spec.md §4.1): X25519 box precomputation, XSalsa20-Poly1305 and
// ChaCha20-Poly1305 AEAD, a BLAKE2b-keyed KDF with salt and personalization,
// and a CSPRNG wrapper.
//
// All functions return plain []byte or the fixed-size key types from
// internal/domain/types. Authentication failure is reported as
// devicelink/internal/domain/errors.ErrAuthenticationFailed and is always
// fatal to the current frame, never to the session, unless the caller
// documents otherwise.
package crypto
