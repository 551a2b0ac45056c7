package crypto

import (
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/nacl/secretbox"

	dterrors "devicelink/internal/domain/errors"
	"devicelink/internal/domain/types"
)

// SecretboxSeal encrypts plaintext with XSalsa20-Poly1305 under key and the
// given 24-byte nonce, the box construction used for CSP frames, message
// bodies and metadata, mediator nonce-ahead payloads, and blob encryption.
func SecretboxSeal(key types.SymmetricKey, nonce [24]byte, plaintext []byte) []byte {
	var k [32]byte = key
	return secretbox.Seal(nil, plaintext, &nonce, &k)
}

// SecretboxOpen authenticates and decrypts a XSalsa20-Poly1305 box. A
// verification failure returns ErrAuthenticationFailed, never a partial
// plaintext.
func SecretboxOpen(key types.SymmetricKey, nonce [24]byte, ciphertext []byte) ([]byte, error) {
	var k [32]byte = key
	out, ok := secretbox.Open(nil, ciphertext, &nonce, &k)
	if !ok {
		return nil, dterrors.ErrAuthenticationFailed
	}
	return out, nil
}

// ChaChaSeal encrypts plaintext with ChaCha20-Poly1305 under key, nonce and
// aad, the AEAD used by the rendezvous path cipher.
func ChaChaSeal(key types.SymmetricKey, nonce []byte, plaintext, aad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key.Slice())
	if err != nil {
		return nil, err
	}
	if len(nonce) != aead.NonceSize() {
		return nil, dterrors.ErrInvalidNonceLength
	}
	return aead.Seal(nil, nonce, plaintext, aad), nil
}

// ChaChaOpen authenticates and decrypts a ChaCha20-Poly1305 ciphertext. A
// verification failure returns ErrAuthenticationFailed and the frame it
// came from is discarded.
func ChaChaOpen(key types.SymmetricKey, nonce []byte, ciphertext, aad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key.Slice())
	if err != nil {
		return nil, err
	}
	if len(nonce) != aead.NonceSize() {
		return nil, dterrors.ErrInvalidNonceLength
	}
	out, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, dterrors.ErrAuthenticationFailed
	}
	return out, nil
}
