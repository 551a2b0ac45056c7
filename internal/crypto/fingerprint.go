package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"devicelink/internal/domain/types"
)

// Fingerprint returns a short hex fingerprint of an X25519 public key,
// for human-readable display and out-of-band verification. It is display
// tooling only; no wire format depends on it.
func Fingerprint(pub types.X25519Public) string {
	sum := sha256.Sum256(pub.Slice())
	return hex.EncodeToString(sum[:10])
}
