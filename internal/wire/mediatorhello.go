package wire

import (
	"github.com/fxamacker/cbor/v2"

	dterrors "devicelink/internal/domain/errors"
)

// SlotExhaustPolicy and SlotExpirationPolicy are the mediator ClientHello
// enums this core always sets to Reject/Persistent (spec.md §4.5).
type SlotExhaustPolicy uint8

const SlotExhaustPolicyReject SlotExhaustPolicy = 0

type SlotExpirationPolicy uint8

const SlotExpirationPolicyPersistent SlotExpirationPolicy = 0

// SlotState distinguishes a first connect from a reconnect.
type SlotState uint8

const (
	SlotStateNew      SlotState = 0
	SlotStateExisting SlotState = 1
)

// ServerHelloPayload is the mediator's opening frame: a 16-byte challenge
// and a 32-byte ephemeral server public key.
type ServerHelloPayload struct {
	Challenge []byte `cbor:"1,keyasint"`
	ESK       []byte `cbor:"2,keyasint"`
}

func DecodeServerHello(payload []byte) (ServerHelloPayload, error) {
	var h ServerHelloPayload
	if err := cbor.Unmarshal(payload, &h); err != nil {
		return ServerHelloPayload{}, dterrors.ErrMalformedFrame
	}
	if len(h.Challenge) != 16 || len(h.ESK) != 32 {
		return ServerHelloPayload{}, dterrors.ErrMalformedFrame
	}
	return h, nil
}

// ClientHelloPayload is this device's response to ServerHello.
type ClientHelloPayload struct {
	ProtocolVersion       uint8  `cbor:"1,keyasint"`
	Response              []byte `cbor:"2,keyasint"`
	DeviceID              uint64 `cbor:"3,keyasint"`
	SlotExhaustPolicy     uint8  `cbor:"4,keyasint"`
	SlotExpirationPolicy  uint8  `cbor:"5,keyasint"`
	ExpectedSlotState     uint8  `cbor:"6,keyasint"`
	EncryptedDeviceInfo   []byte `cbor:"7,keyasint"`
}

func EncodeClientHello(p ClientHelloPayload) ([]byte, error) {
	return cbor.Marshal(p)
}

// ServerInfoPayload acknowledges a successful ClientHello. CurrentUnixTime
// may differ from the local clock; the mediator session logs a drift of
// more than 20 minutes but does not treat it as fatal.
type ServerInfoPayload struct {
	CurrentUnixTime int64 `cbor:"1,keyasint"`
}

func DecodeServerInfo(payload []byte) (ServerInfoPayload, error) {
	var s ServerInfoPayload
	if err := cbor.Unmarshal(payload, &s); err != nil {
		return ServerInfoPayload{}, dterrors.ErrMalformedFrame
	}
	return s, nil
}

// DeviceInfo is encrypted with dgdik and sent inside ClientHello.
type DeviceInfo struct {
	Platform    string `cbor:"1,keyasint"`
	Label       string `cbor:"2,keyasint"`
	AppVersion  string `cbor:"3,keyasint"`
}

func EncodeDeviceInfo(d DeviceInfo) ([]byte, error) {
	return cbor.Marshal(d)
}

// ReflectedPayload is the fixed-shape header of a Reflected mediator
// frame: headerLen=16, flags, reflectedId, timestamp, then the encrypted
// envelope (spec.md §4.5).
type ReflectedPayload struct {
	Flags             uint16
	ReflectedID       uint32
	TimestampUnixMS   uint64
	EncryptedEnvelope []byte
}

const reflectedHeaderLen = 16

func EncodeReflected(p ReflectedPayload) []byte {
	out := make([]byte, reflectedHeaderLen+len(p.EncryptedEnvelope))
	out[0] = byte(reflectedHeaderLen)
	putUint16LE(out[2:4], p.Flags)
	putUint32LE(out[4:8], p.ReflectedID)
	putUint64LE(out[8:16], p.TimestampUnixMS)
	copy(out[reflectedHeaderLen:], p.EncryptedEnvelope)
	return out
}

func DecodeReflected(payload []byte) (ReflectedPayload, error) {
	if len(payload) < reflectedHeaderLen {
		return ReflectedPayload{}, dterrors.ErrMalformedFrame
	}
	headerLen := int(payload[0])
	if headerLen != reflectedHeaderLen || len(payload) < headerLen {
		return ReflectedPayload{}, dterrors.ErrMalformedFrame
	}
	return ReflectedPayload{
		Flags:             getUint16LE(payload[2:4]),
		ReflectedID:       getUint32LE(payload[4:8]),
		TimestampUnixMS:   getUint64LE(payload[8:16]),
		EncryptedEnvelope: append([]byte(nil), payload[headerLen:]...),
	}, nil
}

// ReflectFramePayload is the outbound reflect() frame:
// headerLen(=8):u8 | reserved:u8 | flags:u16LE | reflectId:u32LE | encryptedEnvelope.
type ReflectFramePayload struct {
	Flags             uint16
	ReflectID         uint32
	EncryptedEnvelope []byte
}

const reflectHeaderLen = 8

func EncodeReflect(p ReflectFramePayload) []byte {
	out := make([]byte, reflectHeaderLen+len(p.EncryptedEnvelope))
	out[0] = byte(reflectHeaderLen)
	out[1] = 0
	putUint16LE(out[2:4], p.Flags)
	putUint32LE(out[4:8], p.ReflectID)
	copy(out[reflectHeaderLen:], p.EncryptedEnvelope)
	return out
}

func DecodeReflect(payload []byte) (ReflectFramePayload, error) {
	if len(payload) < reflectHeaderLen {
		return ReflectFramePayload{}, dterrors.ErrMalformedFrame
	}
	return ReflectFramePayload{
		Flags:             getUint16LE(payload[2:4]),
		ReflectID:         getUint32LE(payload[4:8]),
		EncryptedEnvelope: append([]byte(nil), payload[reflectHeaderLen:]...),
	}, nil
}

// ReflectAckPayload is `reflectId:u32LE || timestamp:u64LE`.
type ReflectAckPayload struct {
	ReflectID uint32
	Timestamp uint64
}

func DecodeReflectAck(payload []byte) (ReflectAckPayload, error) {
	if len(payload) < 12 {
		return ReflectAckPayload{}, dterrors.ErrMalformedFrame
	}
	return ReflectAckPayload{ReflectID: getUint32LE(payload[:4]), Timestamp: getUint64LE(payload[4:12])}, nil
}

// EncodeReflectedAck builds the `reflectedId:u32LE` ack sent back for a
// Reflected frame.
func EncodeReflectedAck(reflectedID uint32) []byte {
	out := make([]byte, 4)
	putUint32LE(out, reflectedID)
	return out
}
