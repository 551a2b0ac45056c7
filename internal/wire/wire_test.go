package wire

import (
	"bytes"
	"testing"

	"devicelink/internal/domain/types"
)

func TestPadBodyBoundary(t *testing.T) {
	// spec scenario 3: body "hi" padded with a naive random pick that would
	// otherwise be too short must widen to reach exactly 32 bytes.
	padded := PadBody([]byte("hi"), 1)
	if len(padded) != 32 {
		t.Fatalf("len = %d, want 32", len(padded))
	}
	if padded[len(padded)-1] != 30 {
		t.Fatalf("pad byte = %d, want 30", padded[len(padded)-1])
	}
	for _, b := range padded[2:] {
		if b != 30 {
			t.Fatalf("expected all padding bytes to equal 30, got %d", b)
		}
	}
}

func TestPadUnpadRoundTrip(t *testing.T) {
	body := []byte("some message body")
	padded := PadBody(body, 40)
	if padded[len(padded)-1] != 40 {
		t.Fatalf("pad byte = %d, want 40", padded[len(padded)-1])
	}
	got, err := UnpadBody(padded)
	if err != nil {
		t.Fatalf("UnpadBody: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Fatalf("round trip = %q, want %q", got, body)
	}
}

func TestGroupMemberContainerRoundTrip(t *testing.T) {
	inner := []byte("inner-data-payload")
	encoded := EncodeGroupMemberContainer("CREATOR1", 424242, inner)

	creator, groupID, gotInner, err := DecodeGroupMemberContainer(encoded)
	if err != nil {
		t.Fatalf("DecodeGroupMemberContainer: %v", err)
	}
	if creator != "CREATOR1" || groupID != 424242 || !bytes.Equal(gotInner, inner) {
		t.Fatalf("round trip mismatch: %q %d %q", creator, groupID, gotInner)
	}
}

func TestGroupCreatorContainerRoundTrip(t *testing.T) {
	inner := []byte("payload")
	encoded := EncodeGroupCreatorContainer(99, inner)
	groupID, gotInner, err := DecodeGroupCreatorContainer(encoded)
	if err != nil {
		t.Fatalf("DecodeGroupCreatorContainer: %v", err)
	}
	if groupID != 99 || !bytes.Equal(gotInner, inner) {
		t.Fatalf("round trip mismatch")
	}
}

func TestReactionRoundTrip(t *testing.T) {
	for _, emoji := range []string{"a", "1234", string(bytes.Repeat([]byte{'x'}, 64))} {
		for _, action := range []types.ReactionAction{types.ReactionApply, types.ReactionWithdraw} {
			r := types.Reaction{MessageID: 12345, Emoji: emoji, Action: action}
			encoded := EncodeReaction(r)
			got, err := DecodeReaction(encoded)
			if err != nil {
				t.Fatalf("DecodeReaction: %v", err)
			}
			if got != r {
				t.Fatalf("round trip mismatch: got %+v, want %+v", got, r)
			}
		}
	}
}

func TestDeliveryReceiptRoundTrip(t *testing.T) {
	r := types.DeliveryReceipt{Status: types.ReceiptAcknowledged, MessageIDs: []uint64{1, 2, 3}}
	got, err := DecodeDeliveryReceipt(EncodeDeliveryReceipt(r))
	if err != nil {
		t.Fatalf("DecodeDeliveryReceipt: %v", err)
	}
	if got.Status != r.Status || len(got.MessageIDs) != 3 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestMessageWithMetadataRoundTrip(t *testing.T) {
	m := MessageWithMetadata{
		Sender:            "SENDER01",
		Receiver:          "RECEIVE1",
		MessageID:         77,
		CreatedAtSec:      1717171717,
		Flags:             0,
		EncryptedMetadata: bytes.Repeat([]byte{0xaa}, 40),
		EncryptedBody:     bytes.Repeat([]byte{0xbb}, 60),
	}
	copy(m.MessageNonce[:], bytes.Repeat([]byte{0xcc}, 24))

	got, err := DecodeMessageWithMetadata(m.Encode())
	if err != nil {
		t.Fatalf("DecodeMessageWithMetadata: %v", err)
	}
	if got.Sender != m.Sender || got.Receiver != m.Receiver || got.MessageID != m.MessageID {
		t.Fatalf("header mismatch: %+v", got)
	}
	if !bytes.Equal(got.EncryptedMetadata, m.EncryptedMetadata) || !bytes.Equal(got.EncryptedBody, m.EncryptedBody) {
		t.Fatalf("payload mismatch")
	}
	if got.MessageNonce != m.MessageNonce {
		t.Fatalf("nonce mismatch")
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	e := types.Envelope{
		Kind:            types.KindOutgoingMessage,
		DeviceID:        0xdeadbeef,
		ProtocolVersion: 1,
		PaddingLen:      3,
		Message: &types.MessageSubEnvelope{
			ConversationIdentity: "PEER0001",
			MessageID:            999,
			Nonces:               [][]byte{bytes.Repeat([]byte{1}, 24), bytes.Repeat([]byte{2}, 24)},
		},
	}
	encoded, err := EncodeEnvelope(e)
	if err != nil {
		t.Fatalf("EncodeEnvelope: %v", err)
	}
	got, err := DecodeEnvelope(encoded)
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}
	if got.Kind != e.Kind || got.DeviceID != e.DeviceID || got.Message.MessageID != e.Message.MessageID {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if len(got.Message.Nonces) != 2 {
		t.Fatalf("expected 2 nonces, got %d", len(got.Message.Nonces))
	}
}

func TestRelayDecoderAccumulatesPartialReads(t *testing.T) {
	var d RelayDecoder
	frame := EncodeRelayFrame([]byte("hello"))

	d.Feed(frame[:2])
	if _, ok := d.Next(); ok {
		t.Fatal("expected no frame yet")
	}
	d.Feed(frame[2:])
	got, ok := d.Next()
	if !ok {
		t.Fatal("expected a complete frame")
	}
	if string(got) != "hello" {
		t.Fatalf("got %q", got)
	}
}
