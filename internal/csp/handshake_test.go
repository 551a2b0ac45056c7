package csp

import (
	"context"
	"fmt"
	"testing"

	"devicelink/internal/crypto"
	"devicelink/internal/domain/types"
	"devicelink/internal/wire"
)

// chanTransport is an in-process ProxyTransport pair for testing the
// handshake without a real mediator/relay underneath it.
type chanTransport struct {
	out chan []byte
	in  chan []byte
}

func newChanTransportPair() (client, server *chanTransport) {
	c1 := make(chan []byte, 16)
	c2 := make(chan []byte, 16)
	return &chanTransport{out: c1, in: c2}, &chanTransport{out: c2, in: c1}
}

func (t *chanTransport) ReadProxy(ctx context.Context) ([]byte, error) {
	select {
	case b := <-t.in:
		return b, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (t *chanTransport) WriteProxy(ctx context.Context, b []byte) error {
	t.out <- b
	return nil
}

// TestCSPHandshakeScenario drives Handshake against a scripted server that
// plays the chat-server side exactly as spec.md §8 scenario 4 describes:
// sck || box(tskPublic‖cck, nonce=sck‖1, authKey) then box(16-byte loginAck,
// nonce=sck‖2, transportKey). The real ChatServerKey has no known secret,
// so the test substitutes a locally generated static pair via
// LoginParams.ServerStaticPublic.
func TestCSPHandshakeScenario(t *testing.T) {
	clientTransport, serverTransport := newChanTransportPair()
	conn := NewConn(clientTransport)

	serverStaticSecret, serverStaticPublic, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	clientKey, _, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}

	params := LoginParams{
		Identity:           "TESTUSER",
		ClientKey:          clientKey,
		DeviceID:           42,
		ClientInfo:         "devicelink-test/1.0",
		ServerStaticPublic: serverStaticPublic,
	}

	unblockSeen := make(chan struct{}, 1)
	serverErrCh := make(chan error, 1)
	go runScriptedServer(serverTransport, serverStaticSecret, params, unblockSeen, serverErrCh)

	state, err := Handshake(context.Background(), conn, params)
	if err != nil {
		t.Fatalf("Handshake: %v", err)
	}

	if state.Phase != types.CSPReady {
		t.Fatalf("phase = %v, want Ready", state.Phase)
	}
	if state.ClientSeq != 4 {
		t.Fatalf("clientSeq = %d, want 4 (3 handshake sends + 1 unblock)", state.ClientSeq)
	}
	if state.ServerSeq != 3 {
		t.Fatalf("serverSeq = %d, want 3", state.ServerSeq)
	}

	if err := <-serverErrCh; err != nil {
		t.Fatalf("scripted server: %v", err)
	}
	select {
	case <-unblockSeen:
	default:
		t.Fatal("expected exactly one UnblockIncomingMessages frame")
	}
}

// runScriptedServer plays the chat-server side of the handshake. It does
// not verify the client's vouch (that belongs to the real server), only
// that the wire shape matches what Handshake produces and consumes.
func runScriptedServer(transport *chanTransport, serverStaticSecret types.X25519Private, params LoginParams, unblockSeen chan<- struct{}, errCh chan<- error) {
	ctx := context.Background()
	conn := NewConn(transport)

	clientHello, err := conn.ReadExactly(ctx, 48)
	if err != nil {
		errCh <- err
		return
	}
	tckPublic := types.MustX25519Public(clientHello[:32])
	var cck [16]byte
	copy(cck[:], clientHello[32:])

	tskSecret, tskPublic, err := crypto.GenerateX25519()
	if err != nil {
		errCh <- err
		return
	}

	var sck [16]byte
	for {
		sckBytes, err := crypto.RandomBytes(16)
		if err != nil {
			errCh <- err
			return
		}
		copy(sck[:], sckBytes)
		if sck != cck {
			break
		}
	}

	authKey := crypto.Precompute(serverStaticSecret, tckPublic)
	challengeResponsePlain := append(append([]byte{}, tskPublic.Slice()...), cck[:]...)
	sealed := crypto.SecretboxSeal(authKey, cookieSeqNonce(sck, 1), challengeResponsePlain)

	response := append(append([]byte{}, sck[:]...), sealed...)
	if err := conn.WriteRaw(ctx, response); err != nil {
		errCh <- err
		return
	}

	transportKey := crypto.Precompute(tskSecret, tckPublic)

	if _, err := conn.ReadExactly(ctx, 128+16); err != nil { // login data box
		errCh <- err
		return
	}
	extLen := extensionsLen(params)
	if _, err := conn.ReadExactly(ctx, extLen+16); err != nil { // extensions box
		errCh <- err
		return
	}

	loginAckPlain := make([]byte, 16)
	loginAckBox := crypto.SecretboxSeal(transportKey, cookieSeqNonce(sck, 2), loginAckPlain)
	if err := conn.WriteRaw(ctx, loginAckBox); err != nil {
		errCh <- err
		return
	}

	unblockFrame, err := conn.ReadFrame(ctx)
	if err != nil {
		errCh <- err
		return
	}
	plaintext, err := crypto.SecretboxOpen(transportKey, cookieSeqNonce(cck, 3), unblockFrame)
	if err != nil {
		errCh <- err
		return
	}
	container, err := wire.DecodeCSPContainer(plaintext)
	if err != nil {
		errCh <- err
		return
	}
	if container.Type != wire.CSPUnblockIncomingMessages {
		errCh <- fmt.Errorf("unexpected container type %x, want UnblockIncomingMessages", container.Type)
		return
	}
	unblockSeen <- struct{}{}
	errCh <- nil
}
