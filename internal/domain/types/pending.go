package types

// ReflectResult is delivered to a pending reflect() waiter on ack, timeout,
// or session teardown.
type ReflectResult struct {
	ReflectID uint32
	Err       error
}

// OutgoingAckKey identifies a pending CSP outgoing-message acknowledgement.
type OutgoingAckKey struct {
	RecipientIdentity string
	MessageID         uint64
}

// OutgoingAckResult is delivered to a pending CSP send waiter.
type OutgoingAckResult struct {
	Key OutgoingAckKey
	Err error
}
