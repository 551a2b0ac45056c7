package mediator

import (
	"encoding/hex"
	"fmt"

	"devicelink/internal/domain/types"
)

// URL builds `wss://mediator-<prefix4>.<host>/<prefix8>/<hexKey>` from the
// public device-group key (spec.md §6): hexKey is that key hex-encoded and
// the prefixes are its first 4 and 8 hex characters. No separate
// client-URL-info value is encoded into the path.
func URL(host string, dgpkPublic types.X25519Public) string {
	hexKey := hex.EncodeToString(dgpkPublic.Slice())
	return fmt.Sprintf("wss://mediator-%s.%s/%s/%s", hexKey[:4], host, hexKey[:8], hexKey)
}
