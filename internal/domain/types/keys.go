// Package types defines the plain data model shared across devicelink: key
// material, identity records, envelopes, and session state. It contains no
// behavior, only wire/state shapes and small helpers on them.
package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// X25519Public is a Curve25519 public key.
type X25519Public [32]byte

// Slice returns the key as a []byte.
func (p X25519Public) Slice() []byte { return p[:] }

func (p X25519Public) MarshalJSON() ([]byte, error) { return marshalHex(p[:]) }

func (p *X25519Public) UnmarshalJSON(b []byte) error { return unmarshalHex(b, p[:]) }

// X25519Private is a Curve25519 secret scalar.
type X25519Private [32]byte

// Slice returns the key as a []byte.
func (k X25519Private) Slice() []byte { return k[:] }

func (k X25519Private) MarshalJSON() ([]byte, error) { return marshalHex(k[:]) }

func (k *X25519Private) UnmarshalJSON(b []byte) error { return unmarshalHex(b, k[:]) }

// SymmetricKey is a generic 32-byte key used by the BLAKE2b key-derivation
// schedule and by AEAD ciphers.
type SymmetricKey [32]byte

// Slice returns the key as a []byte.
func (k SymmetricKey) Slice() []byte { return k[:] }

func (k SymmetricKey) MarshalJSON() ([]byte, error) { return marshalHex(k[:]) }

func (k *SymmetricKey) UnmarshalJSON(b []byte) error { return unmarshalHex(b, k[:]) }

// marshalHex and unmarshalHex give every fixed-size key type identity.json's
// plaintext-hex-string representation (spec.md §6) instead of encoding/json's
// default byte-array-of-numbers form.
func marshalHex(b []byte) ([]byte, error) {
	return json.Marshal(hex.EncodeToString(b))
}

func unmarshalHex(data []byte, dst []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(decoded) != len(dst) {
		return fmt.Errorf("hex key: want %d bytes, got %d", len(dst), len(decoded))
	}
	copy(dst, decoded)
	return nil
}

func mustLen(name string, b []byte, n int) {
	if len(b) != n {
		panic(fmt.Errorf("%s: want %d bytes, got %d", name, n, len(b)))
	}
}

// MustX25519Public copies b (which must be 32 bytes) into an X25519Public.
func MustX25519Public(b []byte) X25519Public {
	mustLen("X25519Public", b, 32)
	var out X25519Public
	copy(out[:], b)
	return out
}

// MustX25519Private copies b (which must be 32 bytes) into an X25519Private.
func MustX25519Private(b []byte) X25519Private {
	mustLen("X25519Private", b, 32)
	var out X25519Private
	copy(out[:], b)
	return out
}

// MustSymmetricKey copies b (which must be 32 bytes) into a SymmetricKey.
func MustSymmetricKey(b []byte) SymmetricKey {
	mustLen("SymmetricKey", b, 32)
	var out SymmetricKey
	copy(out[:], b)
	return out
}
