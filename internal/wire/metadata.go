package wire

import (
	"encoding/binary"

	dterrors "devicelink/internal/domain/errors"
)

// Metadata is the plaintext sealed as a message-with-metadata frame's
// metadata box (spec.md §4.7 step 5): padding, messageId, createdAtMillis,
// and an optional legacy nickname, layout
// `padding(1) || messageId:u64LE(8) || createdAtMillis:u64LE(8) ||
// nicknameLen(1) || nickname`.
type Metadata struct {
	Padding         byte
	MessageID       uint64
	CreatedAtMillis uint64
	Nickname        string
}

func EncodeMetadata(m Metadata) []byte {
	nickname := []byte(m.Nickname)
	if len(nickname) > 255 {
		nickname = nickname[:255]
	}
	out := make([]byte, 1+8+8+1+len(nickname))
	out[0] = m.Padding
	binary.LittleEndian.PutUint64(out[1:9], m.MessageID)
	binary.LittleEndian.PutUint64(out[9:17], m.CreatedAtMillis)
	out[17] = byte(len(nickname))
	copy(out[18:], nickname)
	return out
}

func DecodeMetadata(b []byte) (Metadata, error) {
	if len(b) < 18 {
		return Metadata{}, dterrors.ErrMalformedFrame
	}
	nicknameLen := int(b[17])
	if len(b) < 18+nicknameLen {
		return Metadata{}, dterrors.ErrMalformedFrame
	}
	return Metadata{
		Padding:         b[0],
		MessageID:       binary.LittleEndian.Uint64(b[1:9]),
		CreatedAtMillis: binary.LittleEndian.Uint64(b[9:17]),
		Nickname:        string(b[18 : 18+nicknameLen]),
	}, nil
}
