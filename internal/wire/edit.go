package wire

import (
	"encoding/binary"

	dterrors "devicelink/internal/domain/errors"
)

// Edit is the decoded form of an edit/group-edit message body:
// `targetMessageId:u64LE || text`.
type Edit struct {
	TargetMessageID uint64
	Text            string
}

func EncodeEdit(e Edit) []byte {
	out := make([]byte, 8+len(e.Text))
	binary.LittleEndian.PutUint64(out[:8], e.TargetMessageID)
	copy(out[8:], e.Text)
	return out
}

func DecodeEdit(b []byte) (Edit, error) {
	if len(b) < 8 {
		return Edit{}, dterrors.ErrMalformedFrame
	}
	return Edit{TargetMessageID: binary.LittleEndian.Uint64(b[:8]), Text: string(b[8:])}, nil
}
