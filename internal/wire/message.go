package wire

import (
	"encoding/binary"

	dterrors "devicelink/internal/domain/errors"
)

// messageHeaderLen is the fixed portion of a message-with-metadata frame,
// up to and including legacyNickname (spec.md §4.2):
// sender(8) receiver(8) messageId(8) createdAtSec(4) flags(1) reserved(1)
// metadataLen(2) legacyNickname(32).
const messageHeaderLen = 8 + 8 + 8 + 4 + 1 + 1 + 2 + 32

// MessageFlagNoQueue and MessageFlagNoServerAck are used by typing
// indicators, which are neither queued for offline delivery nor acked by
// the chat server.
const (
	MessageFlagNoQueue    byte = 0x02
	MessageFlagNoServerAck byte = 0x04
)

// MessageWithMetadata is the decoded message-with-metadata frame.
// EncryptedBody and EncryptedMetadata are AEAD outputs (ciphertext plus
// tag); both were sealed under MessageNonce, each with its own key.
type MessageWithMetadata struct {
	Sender            string
	Receiver          string
	MessageID         uint64
	CreatedAtSec      uint32
	Flags             byte
	LegacyNickname    [32]byte
	EncryptedMetadata []byte
	MessageNonce      [24]byte
	EncryptedBody     []byte
}

// Encode serializes m into the exact byte layout of spec.md §4.2.
func (m MessageWithMetadata) Encode() []byte {
	out := make([]byte, messageHeaderLen+len(m.EncryptedMetadata)+24+len(m.EncryptedBody))
	sender := padIdentity(m.Sender)
	receiver := padIdentity(m.Receiver)
	copy(out[0:8], sender[:])
	copy(out[8:16], receiver[:])
	binary.LittleEndian.PutUint64(out[16:24], m.MessageID)
	binary.LittleEndian.PutUint32(out[24:28], m.CreatedAtSec)
	out[28] = m.Flags
	out[29] = 0
	binary.LittleEndian.PutUint16(out[30:32], uint16(len(m.EncryptedMetadata)))
	copy(out[32:64], m.LegacyNickname[:])

	off := messageHeaderLen
	copy(out[off:off+len(m.EncryptedMetadata)], m.EncryptedMetadata)
	off += len(m.EncryptedMetadata)
	copy(out[off:off+24], m.MessageNonce[:])
	off += 24
	copy(out[off:], m.EncryptedBody)
	return out
}

// DecodeMessageWithMetadata parses the exact byte layout of spec.md §4.2.
func DecodeMessageWithMetadata(b []byte) (MessageWithMetadata, error) {
	if len(b) < messageHeaderLen+24 {
		return MessageWithMetadata{}, dterrors.ErrMalformedFrame
	}
	metadataLen := int(binary.LittleEndian.Uint16(b[30:32]))
	if len(b) < messageHeaderLen+metadataLen+24 {
		return MessageWithMetadata{}, dterrors.ErrMalformedFrame
	}

	var m MessageWithMetadata
	m.Sender = trimIdentity(b[0:8])
	m.Receiver = trimIdentity(b[8:16])
	m.MessageID = binary.LittleEndian.Uint64(b[16:24])
	m.CreatedAtSec = binary.LittleEndian.Uint32(b[24:28])
	m.Flags = b[28]
	copy(m.LegacyNickname[:], b[32:64])

	off := messageHeaderLen
	m.EncryptedMetadata = append([]byte(nil), b[off:off+metadataLen]...)
	off += metadataLen
	copy(m.MessageNonce[:], b[off:off+24])
	off += 24
	m.EncryptedBody = append([]byte(nil), b[off:]...)
	return m, nil
}
