package messaging

import (
	"time"

	"devicelink/internal/crypto"
	"devicelink/internal/domain/types"
	"devicelink/internal/wire"
)

// sealedMessage is one recipient-scoped ciphertext framed as a
// message-with-metadata frame, plus the nonce used to produce it — the
// reflection envelope needs the exact nonce, in fan-out order.
type sealedMessage struct {
	frame []byte
	nonce []byte
}

// sealForRecipient builds the container plaintext (padded body, then a
// leading type byte), encrypts it and its metadata under keys derived
// against recipientPublic under one shared nonce, and assembles the
// message-with-metadata frame (spec.md §4.7 steps 2-5).
func (e *Engine) sealForRecipient(recipientIdentity string, recipientPublic types.X25519Public, messageID uint64, msgType types.MessageType, plainBody []byte, flags byte) (sealedMessage, error) {
	padSeed, err := crypto.RandomBytes(1)
	if err != nil {
		return sealedMessage{}, err
	}
	padLen := int(padSeed[0])%255 + 1 // p in [1,255]

	padded := wire.PadBody(plainBody, padLen)
	container := make([]byte, 0, 1+len(padded))
	container = append(container, byte(msgType))
	container = append(container, padded...)

	nonceBytes, err := crypto.RandomBytes(24)
	if err != nil {
		return sealedMessage{}, err
	}
	var nonce [24]byte
	copy(nonce[:], nonceBytes)

	sharedKey := crypto.Precompute(e.identity.ClientKey, recipientPublic)
	encryptedBody := crypto.SecretboxSeal(sharedKey, nonce, container)

	metadataKey, err := crypto.DeriveMetadataKey(sharedKey)
	if err != nil {
		return sealedMessage{}, err
	}
	metadataPlain := wire.EncodeMetadata(wire.Metadata{
		Padding:         byte(padLen),
		MessageID:       messageID,
		CreatedAtMillis: uint64(time.Now().UnixMilli()),
		Nickname:        e.legacyNickname(),
	})
	encryptedMetadata := crypto.SecretboxSeal(metadataKey, nonce, metadataPlain)

	m := wire.MessageWithMetadata{
		Sender:            e.identity.Identity,
		Receiver:          recipientIdentity,
		MessageID:         messageID,
		CreatedAtSec:      uint32(time.Now().Unix()),
		Flags:             flags,
		EncryptedMetadata: encryptedMetadata,
		MessageNonce:      nonce,
		EncryptedBody:     encryptedBody,
	}
	if e.identity.IsStarPrefixed() {
		copy(m.LegacyNickname[:], e.legacyNickname())
	}
	return sealedMessage{frame: m.Encode(), nonce: nonceBytes}, nil
}
