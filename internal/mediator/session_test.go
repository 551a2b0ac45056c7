package mediator

import (
	"context"
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"devicelink/internal/crypto"
	"devicelink/internal/domain/types"
	"devicelink/internal/wire"
)

// recordingConn is a no-op FrameConn that only records outbound frames, for
// asserting on the reflected-ack traffic handleReflected produces.
type recordingConn struct {
	written [][]byte
}

func (c *recordingConn) ReadMessage(ctx context.Context) ([]byte, error) { <-ctx.Done(); return nil, ctx.Err() }
func (c *recordingConn) WriteMessage(ctx context.Context, b []byte) error {
	c.written = append(c.written, append([]byte(nil), b...))
	return nil
}
func (c *recordingConn) Close() error { return nil }

func newTestSession(t *testing.T, conn *recordingConn, dedupeCheck func(string, uint64) bool, onEnvelope func(types.Envelope)) *Session {
	t.Helper()
	var dgrk types.SymmetricKey
	_, err := rand.Read(dgrk[:])
	require.NoError(t, err)

	return NewSession(conn, types.DeviceGroupKeys{DGRK: dgrk}, 1, Handlers{OnEnvelope: onEnvelope}, dedupeCheck)
}

func sealedReflected(t *testing.T, s *Session, reflectedID uint32, flags uint16, env types.Envelope) []byte {
	t.Helper()
	plaintext, err := wire.EncodeEnvelope(env)
	require.NoError(t, err)
	sealed, err := crypto.SealNonceAhead(s.dgrk, plaintext)
	require.NoError(t, err)
	payload := wire.EncodeReflected(wire.ReflectedPayload{Flags: flags, ReflectedID: reflectedID, EncryptedEnvelope: sealed})
	return wire.EncodeMediatorFrame(wire.MediatorReflected, payload)
}

// TestHandleReflectedDedupeCollapsesToOneSurfacedEnvelope reproduces
// spec.md §8 scenario 1: two Reflected frames (ids 1001, 1002) carrying an
// identical (sender, messageId) pair surface exactly one envelope and ack
// both reflected ids.
func TestHandleReflectedDedupeCollapsesToOneSurfacedEnvelope(t *testing.T) {
	conn := &recordingConn{}
	seen := map[string]bool{}
	dedupeCheck := func(sender string, messageID uint64) bool {
		key := fmt.Sprintf("%s:%d", sender, messageID)
		wasSeen := seen[key]
		seen[key] = true
		return wasSeen
	}

	var surfaced []types.Envelope
	s := newTestSession(t, conn, dedupeCheck, func(env types.Envelope) { surfaced = append(surfaced, env) })

	env := types.Envelope{
		Kind: types.KindIncomingMessage,
		Message: &types.MessageSubEnvelope{
			ConversationIdentity: "UNITTEST",
			MessageID:            42,
		},
	}

	require.NoError(t, s.handleFrame(sealedReflected(t, s, 1001, 0, env)))
	require.NoError(t, s.handleFrame(sealedReflected(t, s, 1002, 0, env)))

	require.Len(t, surfaced, 1)
	require.Len(t, conn.written, 2)

	ack1, err := wire.DecodeMediatorFrame(conn.written[0])
	require.NoError(t, err)
	require.Equal(t, wire.MediatorReflectedAck, ack1.Type)
	require.Equal(t, uint32(1001), decodeReflectedAckID(t, ack1.Payload))

	ack2, err := wire.DecodeMediatorFrame(conn.written[1])
	require.NoError(t, err)
	require.Equal(t, uint32(1002), decodeReflectedAckID(t, ack2.Payload))
}

// TestHandleReflectedEphemeralSurfacesWithoutAck reproduces spec.md §8
// scenario 2: a Reflected frame flagged ephemeral (0x0001) surfaces its
// envelope but receives no reflected-ack.
func TestHandleReflectedEphemeralSurfacesWithoutAck(t *testing.T) {
	conn := &recordingConn{}
	var surfaced []types.Envelope
	s := newTestSession(t, conn, func(string, uint64) bool { return false }, func(env types.Envelope) { surfaced = append(surfaced, env) })

	env := types.Envelope{Kind: types.KindSettingsSync, Raw: []byte("settings-blob")}

	require.NoError(t, s.handleFrame(sealedReflected(t, s, 3001, uint16(types.FlagEphemeral), env)))

	require.Len(t, surfaced, 1)
	require.Empty(t, conn.written)
}

func decodeReflectedAckID(t *testing.T, payload []byte) uint32 {
	t.Helper()
	require.Len(t, payload, 4)
	return uint32(payload[0]) | uint32(payload[1])<<8 | uint32(payload[2])<<16 | uint32(payload[3])<<24
}
