package mediator

import (
	"context"
	"sync"
	"time"

	"devicelink/internal/crypto"
	dterrors "devicelink/internal/domain/errors"
	"devicelink/internal/domain/interfaces"
	"devicelink/internal/domain/types"
	"devicelink/internal/log"
	"devicelink/internal/metrics"
	"devicelink/internal/pendingack"
	"devicelink/internal/wire"
)

var logger = log.New("mediator")

const reflectAckTimeout = 15 * time.Second

// Handlers are the callbacks the supervisor/message-engine layer supplies
// to react to steady-state mediator events.
type Handlers struct {
	OnReflectionQueueDry   func()
	OnRolePromotedToLeader func()
	OnEnvelope             func(types.Envelope)
	OnProxyBytes           func([]byte)
	OnClosed               func(error)
}

// Session owns one D2M WebSocket connection: authentication, steady-state
// frame dispatch, and the reflect() send path. All state mutation happens
// under mu, matching spec.md §5's single-writer-per-session discipline.
type Session struct {
	conn interfaces.FrameConn

	dgpkSecret types.X25519Private
	dgpkPublic types.X25519Public
	dgrk       types.SymmetricKey
	dgdik      types.SymmetricKey

	deviceID uint64
	handlers Handlers

	mu           sync.Mutex
	isLeader     bool
	nextReflect  uint32
	dedupeCheck  func(sender string, messageID uint64) (isDuplicate bool)

	pendingReflect *pendingack.Table[uint32, struct{}]
}

// NewSession wraps an already-dialed connection. Handshake must be called
// before any steady-state frame is processed.
func NewSession(conn interfaces.FrameConn, keys types.DeviceGroupKeys, deviceID uint64, handlers Handlers, dedupeCheck func(sender string, messageID uint64) bool) *Session {
	return &Session{
		conn:           conn,
		dgpkSecret:     keys.DGPKSecret,
		dgpkPublic:     keys.DGPKPublic,
		dgrk:           keys.DGRK,
		dgdik:          keys.DGDIK,
		deviceID:       deviceID,
		handlers:       handlers,
		dedupeCheck:    dedupeCheck,
		pendingReflect: pendingack.New[uint32, struct{}](),
	}
}

// Handshake performs the ServerHello/ClientHello/ServerInfo exchange of
// spec.md §4.5 and returns once ServerInfo has been received.
func (s *Session) Handshake(ctx context.Context, existingSlot bool, deviceInfo wire.DeviceInfo) error {
	raw, err := s.conn.ReadMessage(ctx)
	if err != nil {
		return err
	}
	frame, err := wire.DecodeMediatorFrame(raw)
	if err != nil {
		return err
	}
	if frame.Type != wire.MediatorServerHello {
		return dterrors.ErrUnexpectedFrame
	}
	hello, err := wire.DecodeServerHello(frame.Payload)
	if err != nil {
		return err
	}

	esk := types.MustX25519Public(hello.ESK)
	sharedKey := crypto.Precompute(s.dgpkSecret, esk)

	response, err := crypto.SealNonceAhead(sharedKey, hello.Challenge)
	if err != nil {
		return err
	}

	encodedDeviceInfo, err := wire.EncodeDeviceInfo(deviceInfo)
	if err != nil {
		return err
	}
	encryptedDeviceInfo, err := crypto.SealNonceAhead(s.dgdik, encodedDeviceInfo)
	if err != nil {
		return err
	}

	expectedSlotState := wire.SlotStateNew
	if existingSlot {
		expectedSlotState = wire.SlotStateExisting
	}
	clientHello, err := wire.EncodeClientHello(wire.ClientHelloPayload{
		ProtocolVersion:      1,
		Response:             response,
		DeviceID:             s.deviceID,
		SlotExhaustPolicy:    uint8(wire.SlotExhaustPolicyReject),
		SlotExpirationPolicy: uint8(wire.SlotExpirationPolicyPersistent),
		ExpectedSlotState:    uint8(expectedSlotState),
		EncryptedDeviceInfo:  encryptedDeviceInfo,
	})
	if err != nil {
		return err
	}
	if err := s.conn.WriteMessage(ctx, wire.EncodeMediatorFrame(wire.MediatorClientHello, clientHello)); err != nil {
		return err
	}

	raw, err = s.conn.ReadMessage(ctx)
	if err != nil {
		return err
	}
	frame, err = wire.DecodeMediatorFrame(raw)
	if err != nil {
		return err
	}
	if frame.Type != wire.MediatorServerInfo {
		return dterrors.ErrUnexpectedFrame
	}
	info, err := wire.DecodeServerInfo(frame.Payload)
	if err != nil {
		return err
	}
	if drift := time.Since(time.Unix(info.CurrentUnixTime, 0)); drift > 20*time.Minute || drift < -20*time.Minute {
		logger.Warningf("clock drift with mediator server: %s", drift)
	}
	metrics.SessionUp.Set(1)
	return nil
}

// RunReadLoop dispatches steady-state frames until the connection closes.
func (s *Session) RunReadLoop(ctx context.Context) error {
	for {
		raw, err := s.conn.ReadMessage(ctx)
		if err != nil {
			s.teardown(err)
			return err
		}
		if err := s.handleFrame(raw); err != nil {
			logger.Warningf("mediator frame error: %v", err)
		}
	}
}

func (s *Session) handleFrame(raw []byte) error {
	frame, err := wire.DecodeMediatorFrame(raw)
	if err != nil {
		return err
	}
	switch frame.Type {
	case wire.MediatorReflectionQueueDry:
		if s.handlers.OnReflectionQueueDry != nil {
			s.handlers.OnReflectionQueueDry()
		}
	case wire.MediatorRolePromotedToLeader:
		s.mu.Lock()
		s.isLeader = true
		s.mu.Unlock()
		metrics.IsLeader.Set(1)
		if s.handlers.OnRolePromotedToLeader != nil {
			s.handlers.OnRolePromotedToLeader()
		}
	case wire.MediatorReflected:
		return s.handleReflected(frame.Payload)
	case wire.MediatorReflectAck:
		ack, err := wire.DecodeReflectAck(frame.Payload)
		if err != nil {
			return err
		}
		if !s.pendingReflect.Resolve(ack.ReflectID, struct{}{}) {
			logger.Warningf("reflect-ack for unknown id %d", ack.ReflectID)
		}
	case wire.MediatorProxy:
		if s.handlers.OnProxyBytes != nil {
			s.handlers.OnProxyBytes(frame.Payload)
		}
	case wire.MediatorTransactionBegin, wire.MediatorTransactionCommit, wire.MediatorTransactionReject, wire.MediatorTransactionEnd:
		logger.Debugf("transaction frame type=%x", frame.Type)
	default:
		logger.Debugf("unhandled mediator frame type=%x", frame.Type)
	}
	return nil
}

func (s *Session) handleReflected(payload []byte) error {
	r, err := wire.DecodeReflected(payload)
	if err != nil {
		return err
	}
	flags := types.ReflectFlags(r.Flags)

	plaintext, err := crypto.OpenNonceAhead(s.dgrk, r.EncryptedEnvelope)
	if err != nil {
		if flags.Ephemeral() {
			logger.Warningf("reflected envelope %d: decrypt failed, ephemeral, dropping", r.ReflectedID)
			return nil
		}
		logger.Warningf("reflected envelope %d: decrypt failed, acking anyway", r.ReflectedID)
		return s.sendReflectedAck(r.ReflectedID)
	}

	env, err := wire.DecodeEnvelope(plaintext)
	if err != nil {
		if !flags.Ephemeral() {
			return s.sendReflectedAck(r.ReflectedID)
		}
		return err
	}

	duplicate := false
	if (env.Kind == types.KindIncomingMessage || env.Kind == types.KindOutgoingMessage) && env.Message != nil && env.Message.MessageID != 0 {
		sender := env.Message.ConversationIdentity
		if s.dedupeCheck != nil && s.dedupeCheck(sender, env.Message.MessageID) {
			duplicate = true
			metrics.DedupeHits.Inc()
		}
	}

	if !duplicate && s.handlers.OnEnvelope != nil {
		s.handlers.OnEnvelope(env)
	}

	if flags.Ephemeral() {
		return nil
	}
	return s.sendReflectedAck(r.ReflectedID)
}

func (s *Session) sendReflectedAck(reflectedID uint32) error {
	ack := wire.EncodeReflectedAck(reflectedID)
	return s.conn.WriteMessage(context.Background(), wire.EncodeMediatorFrame(wire.MediatorReflectedAck, ack))
}

// Reflect picks a random 0-15 PaddingLen for env, encodes it, seals it
// under dgrk, allocates a fresh reflect id
// and awaits its ack up to 15s. Group-only self messages should encode
// env.Message.Nonces as an empty slice before calling.
func (s *Session) Reflect(ctx context.Context, env types.Envelope, ephemeral bool) error {
	padSeed, err := crypto.RandomBytes(1)
	if err != nil {
		return err
	}
	env.PaddingLen = padSeed[0] % 16
	encoded, err := wire.EncodeEnvelope(env)
	if err != nil {
		return err
	}
	encrypted, err := crypto.SealNonceAhead(s.dgrk, encoded)
	if err != nil {
		return err
	}

	var flags uint16
	if ephemeral {
		flags = uint16(types.FlagEphemeral)
	}

	s.mu.Lock()
	reflectID := s.nextReflect
	for s.pendingReflect.Has(reflectID) {
		reflectID++
	}
	s.nextReflect = reflectID + 1
	s.mu.Unlock()

	frame := wire.EncodeReflect(wire.ReflectFramePayload{Flags: flags, ReflectID: reflectID, EncryptedEnvelope: encrypted})
	if err := s.conn.WriteMessage(ctx, wire.EncodeMediatorFrame(wire.MediatorReflect, frame)); err != nil {
		metrics.ReflectionsSent.WithLabelValues("transport_error").Inc()
		return err
	}

	if ephemeral {
		metrics.ReflectionsSent.WithLabelValues("ephemeral").Inc()
		return nil
	}

	_, err = s.pendingReflect.Await(ctx, reflectID, reflectAckTimeout, dterrors.ErrReflectAckTimeout)
	if err != nil {
		metrics.ReflectionsSent.WithLabelValues("timeout").Inc()
		return err
	}
	metrics.ReflectionsSent.WithLabelValues("ok").Inc()
	return nil
}

// SendProxyBytes writes bytes through the mediator's proxy channel (D2M
// type 0x00), used by the CSP session once this device is leader.
func (s *Session) SendProxyBytes(ctx context.Context, b []byte) error {
	return s.conn.WriteMessage(ctx, wire.EncodeMediatorFrame(wire.MediatorProxy, b))
}

// IsLeader reports whether this device currently holds the CSP leader
// role, per the last RolePromotedToLeader notification.
func (s *Session) IsLeader() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLeader
}

func (s *Session) teardown(err error) {
	metrics.SessionUp.Set(0)
	metrics.IsLeader.Set(0)
	s.pendingReflect.RejectAll(dterrors.ErrTransportClosed)
	if s.handlers.OnClosed != nil {
		s.handlers.OnClosed(err)
	}
}

// Close closes the underlying connection.
func (s *Session) Close() error {
	return s.conn.Close()
}
