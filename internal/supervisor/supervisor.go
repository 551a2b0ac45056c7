// Package supervisor owns the mediator+CSP session pair's lifecycle:
// dial, handshake, leader promotion, CSP handoff over the mediator's
// proxy channel, and reconnect-with-backoff on any unexpected close
// (spec.md §4.10).
package supervisor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"devicelink/internal/csp"
	"devicelink/internal/dedupe"
	dterrors "devicelink/internal/domain/errors"
	"devicelink/internal/domain/interfaces"
	"devicelink/internal/domain/types"
	"devicelink/internal/log"
	"devicelink/internal/mediator"
	"devicelink/internal/messaging"
	"devicelink/internal/metrics"
	"devicelink/internal/wire"
)

var logger = log.New("supervisor")

const reconnectBackoff = 5 * time.Second

// Dependencies bundles everything Supervisor needs to establish and
// re-establish the mediator/CSP session pair.
type Dependencies struct {
	Dialer      interfaces.Dialer
	MediatorURL string

	DeviceKeys   types.DeviceGroupKeys
	DeviceID     uint64
	DeviceInfo   wire.DeviceInfo
	ExistingSlot bool

	LoginParams csp.LoginParams
	DedupeCheck func(sender string, messageID uint64) bool

	// AccountID identifies this account's entries in Evolving, cleared
	// on every teardown (spec.md §5 cancellation rules).
	AccountID string
	Evolving  *dedupe.EvolvingReplies

	OnEnvelope        func(types.Envelope)
	OnIncomingMessage func(wire.MessageWithMetadata)
}

// Supervisor implements interfaces.Supervisor.
type Supervisor struct {
	deps Dependencies

	mu                sync.Mutex
	mediatorSession   *mediator.Session
	cspSession        *csp.Session
	cspReady          bool
	leaderAndCSPReady bool
	cspReadyCh        chan struct{}
	leaderCSPCh       chan struct{}

	cancel context.CancelFunc
	done   chan struct{}
}

var _ interfaces.Supervisor = (*Supervisor)(nil)

// Supervisor doubles as the message engine's mediator/CSP transport: app
// wiring passes the same value for both Config parameters.
var _ messaging.Reflector = (*Supervisor)(nil)
var _ messaging.CSPSender = (*Supervisor)(nil)

func New(deps Dependencies) *Supervisor {
	return &Supervisor{
		deps:        deps,
		cspReadyCh:  make(chan struct{}),
		leaderCSPCh: make(chan struct{}),
	}
}

// SetOnIncomingMessage patches the CSP incoming-message callback after
// construction. Callers that need the Supervisor itself to build their
// callback's closure (as app wiring does) construct the Supervisor with
// a nil callback, build the callback, and call this before Run. Not
// safe to call once Run is running.
func (s *Supervisor) SetOnIncomingMessage(fn func(wire.MessageWithMetadata)) {
	s.deps.OnIncomingMessage = fn
}

// Run drives the connect/handshake/reconnect loop until ctx is
// cancelled or Shutdown is called. Callers run it on its own goroutine.
func (s *Supervisor) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mu.Unlock()
	defer close(s.done)

	for ctx.Err() == nil {
		if err := s.runOnce(ctx); err != nil {
			logger.Warningf("mediator session ended: %v", err)
		}
		s.reset()
		if ctx.Err() != nil {
			return
		}
		metrics.ReconnectAttempts.Inc()
		select {
		case <-time.After(reconnectBackoff):
		case <-ctx.Done():
			return
		}
	}
}

// runOnce dials one mediator connection, completes its handshake, and
// blocks on its read loop. Once this device is promoted to leader it
// spawns the CSP handshake over the mediator's proxy channel in the
// background; a CSP handshake or transport failure does not tear down
// the mediator session, since a peer device may still hold the CSP
// leader role.
func (s *Supervisor) runOnce(ctx context.Context) error {
	conn, err := s.deps.Dialer.Dial(ctx, s.deps.MediatorURL)
	if err != nil {
		return fmt.Errorf("dial mediator: %w", err)
	}

	bridge := newProxyBridge(nil)
	handlers := mediator.Handlers{
		OnRolePromotedToLeader: func() { go s.runCSP(ctx, bridge) },
		OnEnvelope:             s.deps.OnEnvelope,
		OnProxyBytes:           bridge.feed,
		OnClosed:               func(err error) { bridge.closeWith(err) },
	}
	session := mediator.NewSession(conn, s.deps.DeviceKeys, s.deps.DeviceID, handlers, s.deps.DedupeCheck)
	bridge.sender = session

	if err := session.Handshake(ctx, s.deps.ExistingSlot, s.deps.DeviceInfo); err != nil {
		conn.Close()
		return fmt.Errorf("mediator handshake: %w", err)
	}

	s.mu.Lock()
	s.mediatorSession = session
	// Every later connect expects the slot this handshake reserved.
	s.deps.ExistingSlot = true
	s.mu.Unlock()

	return session.RunReadLoop(ctx)
}

// runCSP performs the CSP handshake over bridge and, on success, runs
// its steady-state read loop until the underlying proxy channel closes.
func (s *Supervisor) runCSP(ctx context.Context, bridge *proxyBridge) {
	conn := csp.NewConn(bridge)
	state, err := csp.Handshake(ctx, conn, s.deps.LoginParams)
	if err != nil {
		logger.Warningf("csp handshake failed: %v", err)
		return
	}
	session := csp.NewSession(conn, state, csp.Handlers{OnIncomingMessage: s.deps.OnIncomingMessage})

	s.mu.Lock()
	s.cspSession = session
	s.markReadyLocked()
	s.mu.Unlock()

	if err := session.RunReadLoop(ctx); err != nil {
		logger.Warningf("csp session ended: %v", err)
	}
}

// markReadyLocked closes the readiness channels exactly once per
// connect cycle. Callers must hold s.mu.
func (s *Supervisor) markReadyLocked() {
	if !s.cspReady {
		s.cspReady = true
		close(s.cspReadyCh)
	}
	if !s.leaderAndCSPReady {
		s.leaderAndCSPReady = true
		close(s.leaderCSPCh)
	}
}

// reset clears per-connection state after a session ends, replacing any
// already-closed readiness channels with fresh ones, and drops this
// account's in-memory evolving-reply state (spec.md §5: an unexpected
// close empties the evolving-reply table for the account).
func (s *Supervisor) reset() {
	s.mu.Lock()
	s.mediatorSession = nil
	s.cspSession = nil
	if s.cspReady {
		s.cspReady = false
		s.cspReadyCh = make(chan struct{})
	}
	if s.leaderAndCSPReady {
		s.leaderAndCSPReady = false
		s.leaderCSPCh = make(chan struct{})
	}
	s.mu.Unlock()

	if s.deps.Evolving != nil && s.deps.AccountID != "" {
		s.deps.Evolving.ClearAccount(s.deps.AccountID)
	}
}

// WaitForLeaderAndCSP blocks until this device holds the CSP leader
// role and its CSP session has completed login, or ctx is cancelled.
func (s *Supervisor) WaitForLeaderAndCSP(ctx context.Context) error {
	s.mu.Lock()
	ch := s.leaderCSPCh
	s.mu.Unlock()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitForCSPReady blocks until a CSP session is up, regardless of when
// leader promotion happened relative to CSP login completing.
func (s *Supervisor) WaitForCSPReady(ctx context.Context) error {
	s.mu.Lock()
	ch := s.cspReadyCh
	s.mu.Unlock()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown cancels the reconnect loop, closes the current mediator
// connection if any, and waits for Run to return.
func (s *Supervisor) Shutdown() {
	s.mu.Lock()
	cancel := s.cancel
	mediatorSession := s.mediatorSession
	done := s.done
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if mediatorSession != nil {
		mediatorSession.Close()
	}
	if done != nil {
		<-done
	}
}

// Reflect, SendOutgoingMessage, and SendContainer expose the currently
// live sessions to the message engine (Reflector and CSPSender
// respectively), returning dterrors.ErrSessionClosed when no session is
// up.
func (s *Supervisor) Reflect(ctx context.Context, env types.Envelope, ephemeral bool) error {
	s.mu.Lock()
	session := s.mediatorSession
	s.mu.Unlock()
	if session == nil {
		return dterrors.ErrSessionClosed
	}
	return session.Reflect(ctx, env, ephemeral)
}

func (s *Supervisor) SendOutgoingMessage(ctx context.Context, recipientIdentity string, messageID uint64, frame []byte) error {
	s.mu.Lock()
	session := s.cspSession
	s.mu.Unlock()
	if session == nil {
		return dterrors.ErrSessionClosed
	}
	return session.SendOutgoingMessage(ctx, recipientIdentity, messageID, frame)
}

func (s *Supervisor) SendContainer(ctx context.Context, t wire.CSPContainerType, data []byte) error {
	s.mu.Lock()
	session := s.cspSession
	s.mu.Unlock()
	if session == nil {
		return dterrors.ErrSessionClosed
	}
	return session.SendContainer(ctx, t, data)
}
