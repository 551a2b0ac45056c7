package wire

import dterrors "devicelink/internal/domain/errors"

// MediatorFrameType identifies the payload carried by one mediator socket
// message (spec.md §4.2, D2M framing).
type MediatorFrameType uint8

const (
	MediatorServerHello           MediatorFrameType = 0x10
	MediatorClientHello           MediatorFrameType = 0x11
	MediatorServerInfo            MediatorFrameType = 0x12
	MediatorReflectionQueueDry    MediatorFrameType = 0x20
	MediatorRolePromotedToLeader  MediatorFrameType = 0x21
	MediatorReflect               MediatorFrameType = 0x22
	MediatorReflected             MediatorFrameType = 0x23
	MediatorReflectAck            MediatorFrameType = 0x24
	MediatorReflectedAck          MediatorFrameType = 0x25
	MediatorTransactionBegin      MediatorFrameType = 0x30
	MediatorTransactionCommit     MediatorFrameType = 0x31
	MediatorTransactionReject     MediatorFrameType = 0x32
	MediatorTransactionEnd        MediatorFrameType = 0x33
	MediatorProxy                 MediatorFrameType = 0x00
)

// MediatorFrame is one decoded D2M socket message: type byte, three zero
// reserved bytes, and the payload.
type MediatorFrame struct {
	Type    MediatorFrameType
	Payload []byte
}

// EncodeMediatorFrame builds `type:u8 || reserved:3 zero bytes || payload`.
func EncodeMediatorFrame(t MediatorFrameType, payload []byte) []byte {
	out := make([]byte, 4+len(payload))
	out[0] = byte(t)
	copy(out[4:], payload)
	return out
}

// DecodeMediatorFrame splits one socket message into its type and payload.
// Reserved bytes are ignored, per spec (they SHOULD be ignored on receive).
func DecodeMediatorFrame(b []byte) (MediatorFrame, error) {
	if len(b) < 4 {
		return MediatorFrame{}, dterrors.ErrMalformedFrame
	}
	return MediatorFrame{Type: MediatorFrameType(b[0]), Payload: b[4:]}, nil
}
