// Package interfaces defines the contracts devicelink's core is built
// against: persistence, transports, and the external collaborators named in
// spec.md §6 (public-key lookup, agent dispatch, blob HTTP). Concrete
// implementations live in internal/store, internal/directory, and the
// protocol packages; the core only ever depends on these interfaces.
package interfaces

import (
	"context"
	"time"

	"devicelink/internal/domain/types"
)

// IdentityStore persists the long-lived account material (identity.json).
type IdentityStore interface {
	SaveIdentity(id types.Identity) error
	LoadIdentity() (types.Identity, error)
	// SaveDeviceID persists a lazily allocated DeviceID onto the existing
	// identity file without touching any other field.
	SaveDeviceID(deviceID uint64) error
}

// ContactStore persists the resolved contact directory cache
// (contacts.json).
type ContactStore interface {
	SaveContact(c types.Contact) error
	LoadContact(identity string) (types.Contact, bool, error)
	ListContacts() ([]types.Contact, error)
}

// GroupStore persists cached group membership (groups.json).
type GroupStore interface {
	SaveGroup(g types.Group) error
	LoadGroup(creatorIdentity string, groupID uint64) (types.Group, bool, error)
	ListGroups() ([]types.Group, error)
}

// DedupeStore persists the incoming-message dedupe LRU
// (incoming-message-dedupe.json).
type DedupeStore interface {
	Load() (types.DedupeFile, error)
	Save(types.DedupeFile) error
}

// MediaStore persists inbound media blobs under
// media/inbound/<sender>/<timestamp>-<messageId>-<name>.
type MediaStore interface {
	SaveInbound(sender string, timestamp time.Time, messageID uint64, filename string, data []byte) (path string, err error)

	// SaveJoinBlob persists one BlobData frame collected during device-join
	// (spec.md §4.4), keyed by its numeric blob id rather than a sender.
	SaveJoinBlob(id uint32, data []byte) (path string, err error)
}

// PublicKeyResolver is the "public-key lookup contract" of spec.md §6: given
// an 8-char identity, return its 32-byte public key. Implementations accept
// hex, base64, or JSON-embedded key material as equivalent inputs.
type PublicKeyResolver interface {
	ResolvePublicKey(ctx context.Context, identity string) (types.X25519Public, error)
}

// AgentDispatcher is the external collaborator that turns an inbound
// message into a stream of reply fragments (spec.md §6). Fragments are
// delivered in order on the channel Dispatch returns; Kind distinguishes partial/block/final per
// the evolving-reply rules of spec §4.7.
type AgentDispatcher interface {
	Dispatch(ctx context.Context, ctxMsg InboundMessageContext) (<-chan ReplyFragment, error)
}

// InboundMessageContext is the minimal context handed to an AgentDispatcher.
type InboundMessageContext struct {
	AccountID string
	ChatID    string // direct peer identity, or "creator:groupId" for groups
	MessageID uint64
	Text      string
}

// FragmentKind tags a reply fragment from an AgentDispatcher.
type FragmentKind int

const (
	FragmentPartial FragmentKind = iota
	FragmentBlock
	FragmentFinal
)

// ReplyFragment is one chunk of streamed reply text.
type ReplyFragment struct {
	Kind FragmentKind
	Text string
}
