package messaging

import (
	"context"
	"encoding/binary"

	"devicelink/internal/blob"
	"devicelink/internal/crypto"
	"devicelink/internal/dedupe"
	"devicelink/internal/domain/interfaces"
	"devicelink/internal/domain/types"
	"devicelink/internal/log"
	"devicelink/internal/wire"
)

var logger = log.New("messaging")

// Reflector is the mediator-session surface the engine needs: enqueue an
// envelope for reflection, optionally without awaiting its ack.
type Reflector interface {
	Reflect(ctx context.Context, env types.Envelope, ephemeral bool) error
}

// CSPSender is the CSP-session surface the engine needs: a full send that
// awaits an outgoing-message-ack, and a fire-and-forget container send
// for messages the chat server never acks (typing indicators).
type CSPSender interface {
	SendOutgoingMessage(ctx context.Context, recipientIdentity string, messageID uint64, frame []byte) error
	SendContainer(ctx context.Context, t wire.CSPContainerType, data []byte) error
}

// Engine implements interfaces.MessageEngine (spec.md §4.7).
type Engine struct {
	identity types.Identity
	keys     *keyResolver
	groups   interfaces.GroupStore
	mediator Reflector
	csp      CSPSender
	blob     *blob.Channel
	evolving *dedupe.EvolvingReplies
	streams  *evolvingDispatcher

	deviceGroupPrefix string
	deviceGroupID     string
	blobHost          string
}

var _ interfaces.MessageEngine = (*Engine)(nil)

// Config carries the deployment-specific values NewEngine needs beyond
// its collaborators.
type Config struct {
	DeviceGroupPrefix string
	DeviceGroupID     string
	BlobHost          string

	// EvolvingReply is optional; the zero value falls back to
	// DefaultEvolvingReplyConfig.
	EvolvingReply EvolvingReplyConfig
}

func NewEngine(identity types.Identity, contacts interfaces.ContactStore, groups interfaces.GroupStore, lookup interfaces.PublicKeyResolver, mediatorSession Reflector, cspSession CSPSender, blobChannel *blob.Channel, evolving *dedupe.EvolvingReplies, cfg Config) *Engine {
	streamCfg := cfg.EvolvingReply
	if streamCfg == (EvolvingReplyConfig{}) {
		streamCfg = DefaultEvolvingReplyConfig
	}
	return &Engine{
		identity:          identity,
		keys:              newKeyResolver(contacts, lookup),
		groups:            groups,
		mediator:          mediatorSession,
		csp:               cspSession,
		blob:              blobChannel,
		evolving:          evolving,
		streams:           newEvolvingDispatcher(streamCfg),
		deviceGroupPrefix: cfg.DeviceGroupPrefix,
		deviceGroupID:     cfg.DeviceGroupID,
		blobHost:          cfg.BlobHost,
	}
}

// newMessageID generates a fresh nonzero 64-bit message id.
func newMessageID() (uint64, error) {
	for {
		b, err := crypto.RandomBytes(8)
		if err != nil {
			return 0, err
		}
		id := binary.LittleEndian.Uint64(b)
		if id != 0 {
			return id, nil
		}
	}
}

// legacyNickname returns the nickname carried in the plaintext
// legacyNickname field, which spec.md §4.2 requires to stay all-zero for
// identities that are not star-prefixed.
func (e *Engine) legacyNickname() string {
	if !e.identity.IsStarPrefixed() {
		return ""
	}
	return e.identity.Identity
}
