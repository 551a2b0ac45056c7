package csp

import (
	"context"
	"time"

	"devicelink/internal/crypto"
	dterrors "devicelink/internal/domain/errors"
	"devicelink/internal/domain/types"
	"devicelink/internal/metrics"
	"devicelink/internal/pendingack"
	"devicelink/internal/wire"
)

const outgoingAckTimeout = 20 * time.Second

const incomingAckSuppressFlag = 0x04

// OutgoingAckKey identifies a pending outgoing-message-ack by recipient
// and message id (spec.md §3).
type OutgoingAckKey struct {
	RecipientIdentity string
	MessageID         uint64
}

// Handlers reacts to steady-state CSP containers.
type Handlers struct {
	OnIncomingMessage func(wire.MessageWithMetadata)
}

// Session runs the steady-state CSP loop once Handshake has returned
// Ready: encrypting/decrypting containers with the negotiated transport
// key and the per-direction nonce discipline, and tracking outgoing acks.
type Session struct {
	conn     *Conn
	state    *types.CSPState
	handlers Handlers

	pendingOutgoing *pendingack.Table[OutgoingAckKey, struct{}]
}

func NewSession(conn *Conn, state *types.CSPState, handlers Handlers) *Session {
	return &Session{
		conn:            conn,
		state:           state,
		handlers:        handlers,
		pendingOutgoing: pendingack.New[OutgoingAckKey, struct{}](),
	}
}

// nextClientNonce returns the next client-direction nonce, incrementing
// ClientSeq. Nonces are never reused, even after a decrypt failure.
func (s *Session) nextClientNonce() [24]byte {
	n := cookieSeqNonce(s.state.ClientCookie, s.state.ClientSeq)
	s.state.ClientSeq++
	return n
}

func (s *Session) nextServerNonce() [24]byte {
	n := cookieSeqNonce(s.state.ServerCookie, s.state.ServerSeq)
	s.state.ServerSeq++
	return n
}

// SendContainer seals and frames one outgoing container.
func (s *Session) SendContainer(ctx context.Context, t wire.CSPContainerType, data []byte) error {
	plaintext := wire.EncodeCSPContainer(t, data)
	sealed := crypto.SecretboxSeal(s.state.TransportKey, s.nextClientNonce(), plaintext)
	return s.conn.WriteFrame(ctx, sealed)
}

// SendOutgoingMessage sends container 0x01 and awaits its matching
// OutgoingMessageAck up to 20s.
func (s *Session) SendOutgoingMessage(ctx context.Context, recipientIdentity string, messageID uint64, frame []byte) error {
	if err := s.SendContainer(ctx, wire.CSPOutgoingMessage, frame); err != nil {
		metrics.MessagesSent.WithLabelValues("outgoing", "transport_error").Inc()
		return err
	}
	key := OutgoingAckKey{RecipientIdentity: recipientIdentity, MessageID: messageID}
	_, err := s.pendingOutgoing.Await(ctx, key, outgoingAckTimeout, dterrors.ErrOutgoingAckTimeout)
	if err != nil {
		metrics.MessagesSent.WithLabelValues("outgoing", "timeout").Inc()
		return err
	}
	metrics.MessagesSent.WithLabelValues("outgoing", "ok").Inc()
	return nil
}

// RunReadLoop dispatches steady-state containers until the connection
// closes or ctx is cancelled.
func (s *Session) RunReadLoop(ctx context.Context) error {
	for {
		encrypted, err := s.conn.ReadFrame(ctx)
		if err != nil {
			s.pendingOutgoing.RejectAll(dterrors.ErrTransportClosed)
			return err
		}
		nonce := s.nextServerNonce()
		plaintext, err := crypto.SecretboxOpen(s.state.TransportKey, nonce, encrypted)
		if err != nil {
			logger.Warningf("csp frame decrypt failed: %v", err)
			continue
		}
		container, err := wire.DecodeCSPContainer(plaintext)
		if err != nil {
			return err
		}
		if err := s.handleContainer(ctx, container); err != nil {
			logger.Warningf("csp container error: %v", err)
		}
	}
}

func (s *Session) handleContainer(ctx context.Context, c wire.CSPContainer) error {
	switch c.Type {
	case wire.CSPEchoRequest:
		return s.SendContainer(ctx, wire.CSPEchoResponse, c.Data)

	case wire.CSPIncomingMessage:
		m, err := wire.DecodeMessageWithMetadata(c.Data)
		if err != nil {
			return err
		}
		metrics.MessagesReceived.WithLabelValues("incoming").Inc()
		if s.handlers.OnIncomingMessage != nil {
			s.handlers.OnIncomingMessage(m)
		}
		if m.Flags&incomingAckSuppressFlag != 0 {
			return nil
		}
		return s.SendContainer(ctx, wire.CSPIncomingMessageAck, wire.EncodeOutgoingMessageAck(m.Sender, m.MessageID))

	case wire.CSPOutgoingMessageAck:
		recipient, messageID, err := wire.DecodeOutgoingMessageAck(c.Data)
		if err != nil {
			return err
		}
		key := OutgoingAckKey{RecipientIdentity: recipient, MessageID: messageID}
		if !s.pendingOutgoing.Resolve(key, struct{}{}) {
			logger.Warningf("outgoing-message-ack for unknown (%s, %d)", recipient, messageID)
		}
		return nil

	default:
		logger.Debugf("unhandled csp container type=%x", c.Type)
		return nil
	}
}
