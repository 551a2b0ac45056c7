package types

import "time"

// DedupeFileVersion1 is the on-disk schema version written by the dedupe
// store (spec §6): {version:1, updatedAt, keys:[...]}.
const DedupeFileVersion1 = 1

// DedupeFile is the JSON document persisted after every dedupe insertion.
type DedupeFile struct {
	Version   int      `json:"version"`
	UpdatedAt string   `json:"updatedAt"`
	Keys      []string `json:"keys"`
}

// EvolvingReplyKey identifies one evolving-reply session.
type EvolvingReplyKey struct {
	AccountID        string
	ChatID           string
	TriggerMessageID uint64
}

// EvolvingReplyState is the mutable state of one evolving-reply session.
type EvolvingReplyState struct {
	AnchorMessageID uint64
	LastSentText    string
	LastUpdatedAt   time.Time
}

// Expired reports whether the session has been idle past the 15-minute TTL
// as of now.
func (s EvolvingReplyState) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.LastUpdatedAt) > ttl
}
