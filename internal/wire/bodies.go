package wire

import (
	"encoding/binary"

	dterrors "devicelink/internal/domain/errors"
	"devicelink/internal/domain/types"
)

// reactionTagApply and reactionTagWithdraw are the two field tags a
// Reaction record's messageId+emoji pair is placed into (spec.md §4.7).
const (
	reactionTagApply    byte = 0x01
	reactionTagWithdraw byte = 0x02
)

// EncodeReaction builds `tag(1) || fixed64(messageId) || len-delimited(emoji)`.
func EncodeReaction(r types.Reaction) []byte {
	tag := reactionTagApply
	if r.Action == types.ReactionWithdraw {
		tag = reactionTagWithdraw
	}
	emoji := []byte(r.Emoji)
	out := make([]byte, 1+8+1+len(emoji))
	out[0] = tag
	binary.LittleEndian.PutUint64(out[1:9], r.MessageID)
	out[9] = byte(len(emoji))
	copy(out[10:], emoji)
	return out
}

// DecodeReaction is the inverse of EncodeReaction.
func DecodeReaction(b []byte) (types.Reaction, error) {
	if len(b) < 10 {
		return types.Reaction{}, dterrors.ErrMalformedFrame
	}
	action := types.ReactionApply
	switch b[0] {
	case reactionTagApply:
		action = types.ReactionApply
	case reactionTagWithdraw:
		action = types.ReactionWithdraw
	default:
		return types.Reaction{}, dterrors.ErrMalformedFrame
	}
	messageID := binary.LittleEndian.Uint64(b[1:9])
	emojiLen := int(b[9])
	if len(b) < 10+emojiLen {
		return types.Reaction{}, dterrors.ErrMalformedFrame
	}
	return types.Reaction{MessageID: messageID, Emoji: string(b[10 : 10+emojiLen]), Action: action}, nil
}

// EncodeDeliveryReceipt builds `status:u8 || messageId:u64LE × N`.
func EncodeDeliveryReceipt(r types.DeliveryReceipt) []byte {
	out := make([]byte, 1+8*len(r.MessageIDs))
	out[0] = byte(r.Status)
	for i, id := range r.MessageIDs {
		binary.LittleEndian.PutUint64(out[1+8*i:], id)
	}
	return out
}

// DecodeDeliveryReceipt is the inverse of EncodeDeliveryReceipt.
func DecodeDeliveryReceipt(b []byte) (types.DeliveryReceipt, error) {
	if len(b) < 9 || (len(b)-1)%8 != 0 {
		return types.DeliveryReceipt{}, dterrors.ErrMalformedFrame
	}
	n := (len(b) - 1) / 8
	ids := make([]uint64, n)
	for i := 0; i < n; i++ {
		ids[i] = binary.LittleEndian.Uint64(b[1+8*i:])
	}
	return types.DeliveryReceipt{Status: types.DeliveryReceiptStatus(b[0]), MessageIDs: ids}, nil
}

// EncodeTypingIndicator builds the single-byte typing body.
func EncodeTypingIndicator(t types.TypingIndicator) []byte {
	if t.Typing {
		return []byte{1}
	}
	return []byte{0}
}

// DecodeTypingIndicator is the inverse of EncodeTypingIndicator.
func DecodeTypingIndicator(b []byte) (types.TypingIndicator, error) {
	if len(b) != 1 {
		return types.TypingIndicator{}, dterrors.ErrMalformedFrame
	}
	return types.TypingIndicator{Typing: b[0] == 1}, nil
}

// EncodeGroupSetup builds `groupId(8) || (8-byte identity)*`, members
// listed with the creator excluded.
func EncodeGroupSetup(g types.GroupSetup) []byte {
	out := make([]byte, 8+8*len(g.Members))
	binary.LittleEndian.PutUint64(out[:8], g.GroupID)
	for i, m := range g.Members {
		id := padIdentity(m)
		copy(out[8+8*i:8+8*(i+1)], id[:])
	}
	return out
}

// DecodeGroupSetup is the inverse of EncodeGroupSetup.
func DecodeGroupSetup(b []byte) (types.GroupSetup, error) {
	if len(b) < 8 || (len(b)-8)%8 != 0 {
		return types.GroupSetup{}, dterrors.ErrMalformedFrame
	}
	groupID := binary.LittleEndian.Uint64(b[:8])
	n := (len(b) - 8) / 8
	members := make([]string, n)
	for i := 0; i < n; i++ {
		members[i] = trimIdentity(b[8+8*i : 8+8*(i+1)])
	}
	return types.GroupSetup{GroupID: groupID, Members: members}, nil
}

// EncodeGroupName builds `groupId(8) || name`.
func EncodeGroupName(g types.GroupName) []byte {
	out := make([]byte, 8+len(g.Name))
	binary.LittleEndian.PutUint64(out[:8], g.GroupID)
	copy(out[8:], g.Name)
	return out
}

// DecodeGroupName is the inverse of EncodeGroupName.
func DecodeGroupName(b []byte) (types.GroupName, error) {
	if len(b) < 8 {
		return types.GroupName{}, dterrors.ErrMalformedFrame
	}
	return types.GroupName{GroupID: binary.LittleEndian.Uint64(b[:8]), Name: string(b[8:])}, nil
}
