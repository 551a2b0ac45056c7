package wire

import (
	"github.com/fxamacker/cbor/v2"

	dterrors "devicelink/internal/domain/errors"
	"devicelink/internal/domain/types"
)

// envelopeWire is the CBOR-serializable shadow of types.Envelope. Sync
// variants (contact/group/settings) carry their payload opaquely in Raw
// since the core only needs to pass them through to a higher layer, never
// to interpret their fields (spec.md §9, tagged envelope variants).
type envelopeWire struct {
	Kind            uint8              `cbor:"1,keyasint"`
	DeviceID        uint64             `cbor:"2,keyasint"`
	ProtocolVersion uint8              `cbor:"3,keyasint"`
	PaddingLen      uint8              `cbor:"4,keyasint"`
	Message         *messageSubWire    `cbor:"5,keyasint,omitempty"`
	Raw             []byte             `cbor:"6,keyasint,omitempty"`
}

type messageSubWire struct {
	ConversationIdentity string   `cbor:"1,keyasint"`
	GroupCreatorIdentity string   `cbor:"2,keyasint,omitempty"`
	GroupID              uint64   `cbor:"3,keyasint,omitempty"`
	MessageID            uint64   `cbor:"4,keyasint,omitempty"`
	Nonces               [][]byte `cbor:"5,keyasint,omitempty"`
}

// EncodeEnvelope CBOR-encodes an Envelope for sealing under dgrk. Random
// PaddingLen (0-15 bytes) has already been chosen by the caller and is
// carried as a field, not literal trailing bytes, since CBOR framing is
// self-delimiting.
func EncodeEnvelope(e types.Envelope) ([]byte, error) {
	w := envelopeWire{
		Kind:            uint8(e.Kind),
		DeviceID:        e.DeviceID,
		ProtocolVersion: e.ProtocolVersion,
		PaddingLen:      e.PaddingLen,
		Raw:             e.Raw,
	}
	if e.Message != nil {
		w.Message = &messageSubWire{
			ConversationIdentity: e.Message.ConversationIdentity,
			GroupCreatorIdentity: e.Message.GroupCreatorIdentity,
			GroupID:              e.Message.GroupID,
			MessageID:            e.Message.MessageID,
			Nonces:               e.Message.Nonces,
		}
	}
	return cbor.Marshal(w)
}

// DecodeEnvelope is the inverse of EncodeEnvelope.
func DecodeEnvelope(b []byte) (types.Envelope, error) {
	var w envelopeWire
	if err := cbor.Unmarshal(b, &w); err != nil {
		return types.Envelope{}, dterrors.ErrMalformedFrame
	}
	e := types.Envelope{
		Kind:            types.EnvelopeKind(w.Kind),
		DeviceID:        w.DeviceID,
		ProtocolVersion: w.ProtocolVersion,
		PaddingLen:      w.PaddingLen,
		Raw:             w.Raw,
	}
	if w.Message != nil {
		e.Message = &types.MessageSubEnvelope{
			ConversationIdentity: w.Message.ConversationIdentity,
			GroupCreatorIdentity: w.Message.GroupCreatorIdentity,
			GroupID:              w.Message.GroupID,
			MessageID:            w.Message.MessageID,
			Nonces:               w.Message.Nonces,
		}
	}
	return e, nil
}
