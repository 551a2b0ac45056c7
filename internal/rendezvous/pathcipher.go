package rendezvous

import (
	"encoding/binary"

	"devicelink/internal/crypto"
	"devicelink/internal/domain/types"
)

// pathID is fixed at 1; this module never opens a second relay channel.
const pathID uint32 = 1

// pathCipher seals and opens rendezvous frames with a single symmetric key
// and a nonce of pathId:u32LE || sequence:u32LE || 0x00000000, the
// sequence incrementing independently per direction after every use
// (spec.md §4.3 step 4).
type pathCipher struct {
	key      types.SymmetricKey
	sequence uint32
}

func newPathCipher(key types.SymmetricKey) *pathCipher {
	return &pathCipher{key: key}
}

func (c *pathCipher) nonce() []byte {
	n := make([]byte, 12)
	binary.LittleEndian.PutUint32(n[0:4], pathID)
	binary.LittleEndian.PutUint32(n[4:8], c.sequence)
	c.sequence++
	return n
}

func (c *pathCipher) seal(plaintext []byte) ([]byte, error) {
	return crypto.ChaChaSeal(c.key, c.nonce(), plaintext, nil)
}

func (c *pathCipher) open(ciphertext []byte) ([]byte, error) {
	return crypto.ChaChaOpen(c.key, c.nonce(), ciphertext, nil)
}
