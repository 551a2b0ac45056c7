package crypto

import (
	dterrors "devicelink/internal/domain/errors"
	"devicelink/internal/domain/types"
)

// SealNonceAhead generates a fresh 24-byte nonce, seals plaintext under key
// with XSalsa20-Poly1305, and returns nonce||ciphertext — the "nonce-ahead
// format" spec.md §4.5 uses for the mediator challenge response, the
// encrypted DeviceInfo, and reflection envelopes.
func SealNonceAhead(key types.SymmetricKey, plaintext []byte) ([]byte, error) {
	nonceBytes, err := RandomBytes(24)
	if err != nil {
		return nil, err
	}
	var nonce [24]byte
	copy(nonce[:], nonceBytes)
	ct := SecretboxSeal(key, nonce, plaintext)
	return append(nonce[:], ct...), nil
}

// OpenNonceAhead is the inverse of SealNonceAhead.
func OpenNonceAhead(key types.SymmetricKey, nonceAhead []byte) ([]byte, error) {
	if len(nonceAhead) < 24 {
		return nil, dterrors.ErrInvalidNonceLength
	}
	var nonce [24]byte
	copy(nonce[:], nonceAhead[:24])
	return SecretboxOpen(key, nonce, nonceAhead[24:])
}
