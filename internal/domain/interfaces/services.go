package interfaces

import (
	"context"

	"devicelink/internal/domain/types"
)

// MessageEngine is the C7 message-composition surface the CLI and any
// higher-level host code drive.
type MessageEngine interface {
	SendText(ctx context.Context, recipient string, text string) error
	SendGroupText(ctx context.Context, addr types.GroupAddress, members []string, text string) error
	SendEdit(ctx context.Context, recipient string, targetMessageID uint64, text string) error
	SendGroupEdit(ctx context.Context, addr types.GroupAddress, members []string, targetMessageID uint64, text string) error
	SendTyping(ctx context.Context, recipient string, typing bool) error
	SendReaction(ctx context.Context, recipient string, targetMessageID uint64, emoji string, apply bool) (ReactionOutcome, error)
	SendGroupReaction(ctx context.Context, addr types.GroupAddress, members []string, targetMessageID uint64, emoji string, apply bool) (ReactionOutcome, error)
	SendFile(ctx context.Context, recipient string, file OutgoingFile) error
}

// ReactionOutcome reports how a reaction send was routed per spec §4.7's
// fallback matrix.
type ReactionOutcome struct {
	Mode            string   // "reaction", "legacy", "mixed", "omitted"
	LegacyRecipients []string // members routed to a legacy receipt (group sends)
}

// OutgoingFile is the plaintext input to a file send.
type OutgoingFile struct {
	Data          []byte
	ThumbnailData []byte
	MediaType     string
	FileName      string
	Caption       string
}

// Supervisor exposes the process lifecycle waiters described in spec §4.10.
type Supervisor interface {
	WaitForLeaderAndCSP(ctx context.Context) error
	WaitForCSPReady(ctx context.Context) error
	Shutdown()
}
