package types

// EnvelopeKind tags the variant carried by a reflected Envelope. The wire
// encoding (CBOR, see internal/wire/envelope.go) is a map keyed by an
// integer discriminant matching these constants, decoded once into a Go
// value and dispatched on Kind rather than probed field-by-field.
type EnvelopeKind uint8

const (
	KindIncomingMessage EnvelopeKind = iota + 1
	KindOutgoingMessage
	KindIncomingMessageUpdate
	KindOutgoingMessageUpdate
	KindContactSync
	KindGroupSync
	KindSettingsSync
	KindOther
)

// String renders the kind for logging.
func (k EnvelopeKind) String() string {
	switch k {
	case KindIncomingMessage:
		return "incomingMessage"
	case KindOutgoingMessage:
		return "outgoingMessage"
	case KindIncomingMessageUpdate:
		return "incomingMessageUpdate"
	case KindOutgoingMessageUpdate:
		return "outgoingMessageUpdate"
	case KindContactSync:
		return "contactSync"
	case KindGroupSync:
		return "groupSync"
	case KindSettingsSync:
		return "settingsSync"
	default:
		return "other"
	}
}

// MessageSubEnvelope is the payload of an incomingMessage/outgoingMessage
// reflection. Nonces carries every per-recipient nonce that CSP fan-out will
// use (or has used) for this logical message, in fan-out order; it is empty
// for self-only group messages.
type MessageSubEnvelope struct {
	ConversationIdentity string   // direct peer identity, or group creator for group messages
	GroupCreatorIdentity string   // set only for group messages
	GroupID              uint64   // set only for group messages
	MessageID            uint64   // 0 when not applicable (e.g. some sync variants)
	Nonces               [][]byte // per-recipient nonces, CSP fan-out order
}

// Envelope is the decoded, tagged-union representation of a reflected
// message. Only the field(s) relevant to Kind are meaningful.
type Envelope struct {
	Kind            EnvelopeKind
	DeviceID        uint64
	ProtocolVersion uint8
	PaddingLen      uint8
	Message         *MessageSubEnvelope // set for the four Message* kinds
	Raw             []byte              // opaque payload for sync/other kinds
}

// ReflectFlags are the 16-bit flags carried in both the outbound reflect
// frame header and the inbound Reflected frame header.
type ReflectFlags uint16

const (
	// FlagEphemeral marks an envelope as not requiring (and not receiving)
	// a ReflectedAck.
	FlagEphemeral ReflectFlags = 1 << 0
)

// Ephemeral reports whether bit 0x0001 is set.
func (f ReflectFlags) Ephemeral() bool { return f&FlagEphemeral != 0 }
