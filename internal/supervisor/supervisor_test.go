package supervisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"devicelink/internal/dedupe"
	dterrors "devicelink/internal/domain/errors"
	"devicelink/internal/domain/types"
)

type fakeSender struct {
	sent [][]byte
	err  error
}

func (f *fakeSender) SendProxyBytes(ctx context.Context, b []byte) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, append([]byte(nil), b...))
	return nil
}

func TestProxyBridgeRoundTrips(t *testing.T) {
	sender := &fakeSender{}
	bridge := newProxyBridge(sender)

	if err := bridge.WriteProxy(context.Background(), []byte("hello")); err != nil {
		t.Fatalf("WriteProxy: %v", err)
	}
	if len(sender.sent) != 1 || string(sender.sent[0]) != "hello" {
		t.Fatalf("sender did not receive write: %+v", sender.sent)
	}

	bridge.feed([]byte("world"))
	got, err := bridge.ReadProxy(context.Background())
	if err != nil {
		t.Fatalf("ReadProxy: %v", err)
	}
	if string(got) != "world" {
		t.Fatalf("got %q, want %q", got, "world")
	}
}

func TestProxyBridgeCloseUnblocksRead(t *testing.T) {
	bridge := newProxyBridge(&fakeSender{})
	closeErr := errors.New("boom")

	done := make(chan error, 1)
	go func() {
		_, err := bridge.ReadProxy(context.Background())
		done <- err
	}()

	// give the goroutine a chance to block on the empty channel
	time.Sleep(10 * time.Millisecond)
	bridge.closeWith(closeErr)

	select {
	case err := <-done:
		if !errors.Is(err, closeErr) {
			t.Fatalf("got err %v, want %v", err, closeErr)
		}
	case <-time.After(time.Second):
		t.Fatal("ReadProxy did not unblock after closeWith")
	}
}

func TestProxyBridgeReadContextCancel(t *testing.T) {
	bridge := newProxyBridge(&fakeSender{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := bridge.ReadProxy(ctx); err == nil {
		t.Fatal("expected context cancellation error")
	}
}

func TestProxyBridgeFeedDropsOldestWhenFull(t *testing.T) {
	bridge := newProxyBridge(&fakeSender{})
	for i := 0; i < 40; i++ {
		bridge.feed([]byte{byte(i)})
	}
	// buffer capacity is 32; the oldest entries should have been dropped
	// rather than the goroutine blocking on feed.
	got, err := bridge.ReadProxy(context.Background())
	if err != nil {
		t.Fatalf("ReadProxy: %v", err)
	}
	if got[0] == 0 {
		t.Fatal("expected oldest entries to have been dropped, not the newest kept")
	}
}

func TestWaitForLeaderAndCSPUnblocksOnReady(t *testing.T) {
	s := New(Dependencies{})

	waitDone := make(chan error, 1)
	go func() {
		waitDone <- s.WaitForLeaderAndCSP(context.Background())
	}()

	select {
	case <-waitDone:
		t.Fatal("wait returned before readiness")
	case <-time.After(20 * time.Millisecond):
	}

	s.mu.Lock()
	s.markReadyLocked()
	s.mu.Unlock()

	select {
	case err := <-waitDone:
		if err != nil {
			t.Fatalf("WaitForLeaderAndCSP: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("wait did not unblock after markReadyLocked")
	}
}

func TestWaitForCSPReadyRespectsContextDeadline(t *testing.T) {
	s := New(Dependencies{})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := s.WaitForCSPReady(ctx); err == nil {
		t.Fatal("expected deadline error, got nil")
	}
}

func TestResetReplacesReadinessChannelsAndClearsAccount(t *testing.T) {
	evolving := dedupe.NewEvolvingReplies()
	s := New(Dependencies{AccountID: "acct1", Evolving: evolving})
	key := types.EvolvingReplyKey{AccountID: "acct1", ChatID: "PEER0001", TriggerMessageID: 1}
	evolving.Set(key, types.EvolvingReplyState{AnchorMessageID: 2, LastUpdatedAt: time.Now()}, time.Now())

	s.mu.Lock()
	s.markReadyLocked()
	oldCh := s.leaderCSPCh
	s.mu.Unlock()

	s.reset()

	s.mu.Lock()
	newCh := s.leaderCSPCh
	ready := s.leaderAndCSPReady
	s.mu.Unlock()

	if newCh == oldCh {
		t.Fatal("reset did not replace the closed readiness channel")
	}
	if ready {
		t.Fatal("reset did not clear leaderAndCSPReady")
	}
	select {
	case <-newCh:
		t.Fatal("new readiness channel should not be pre-closed")
	default:
	}
	if _, ok := evolving.Get(key, time.Now()); ok {
		t.Fatal("reset did not clear the account's evolving-reply state")
	}
}

func TestReflectAndSendReturnSessionClosedWithNoLiveSession(t *testing.T) {
	s := New(Dependencies{})
	if err := s.Reflect(context.Background(), types.Envelope{}, false); !errors.Is(err, dterrors.ErrSessionClosed) {
		t.Fatalf("Reflect: got %v, want ErrSessionClosed", err)
	}
	if err := s.SendOutgoingMessage(context.Background(), "peer", 1, nil); !errors.Is(err, dterrors.ErrSessionClosed) {
		t.Fatalf("SendOutgoingMessage: got %v, want ErrSessionClosed", err)
	}
	if err := s.SendContainer(context.Background(), 0, nil); !errors.Is(err, dterrors.ErrSessionClosed) {
		t.Fatalf("SendContainer: got %v, want ErrSessionClosed", err)
	}
}
