package crypto

import (
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"

	"devicelink/internal/domain/types"
)

// Precompute performs an X25519 scalar multiplication of secret against
// peerPublic and runs the result through HSalsa20 with the standard sigma
// constants and an all-zero 16-byte input, producing the NaCl "box"
// precomputed shared key. golang.org/x/crypto/nacl/box.Precompute does
// exactly this (crypto_box_beforenm).
func Precompute(secret types.X25519Private, peerPublic types.X25519Public) types.SymmetricKey {
	var shared, sec, pub [32]byte
	sec = secret
	pub = peerPublic
	box.Precompute(&shared, &pub, &sec)
	return types.SymmetricKey(shared)
}

// X25519Base computes the public key corresponding to secret via scalar
// multiplication against the curve's base point.
func X25519Base(secret types.X25519Private) types.X25519Public {
	var pub, sec [32]byte
	sec = secret
	curve25519.ScalarBaseMult(&pub, &sec)
	return types.X25519Public(pub)
}

// GenerateX25519 returns a fresh, correctly clamped X25519 key pair.
func GenerateX25519() (types.X25519Private, types.X25519Public, error) {
	pub, priv, err := box.GenerateKey(rngReader)
	if err != nil {
		return types.X25519Private{}, types.X25519Public{}, err
	}
	return types.X25519Private(*priv), types.X25519Public(*pub), nil
}
