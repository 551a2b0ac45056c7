package dedupe

import (
	"sync"
	"time"

	"devicelink/internal/domain/types"
)

const evolvingReplyTTL = 15 * time.Minute

// EvolvingReplies tracks in-flight streaming-edit sessions (spec.md
// §4.7, §4.9): the first chunk of a reply anchors a fresh group text;
// every later chunk edits that anchor until the session goes idle past
// its TTL, at which point the next chunk anchors a new one.
type EvolvingReplies struct {
	mu      sync.Mutex
	entries map[types.EvolvingReplyKey]types.EvolvingReplyState
}

func NewEvolvingReplies() *EvolvingReplies {
	return &EvolvingReplies{entries: make(map[types.EvolvingReplyKey]types.EvolvingReplyState)}
}

// Get returns the live (non-expired) state for key, if any.
func (e *EvolvingReplies) Get(key types.EvolvingReplyKey, now time.Time) (types.EvolvingReplyState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.entries[key]
	if !ok || s.Expired(now, evolvingReplyTTL) {
		return types.EvolvingReplyState{}, false
	}
	return s, true
}

// Set records or replaces key's state and opportunistically prunes
// every expired entry in the table.
func (e *EvolvingReplies) Set(key types.EvolvingReplyKey, state types.EvolvingReplyState, now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries[key] = state
	for k, v := range e.entries {
		if v.Expired(now, evolvingReplyTTL) {
			delete(e.entries, k)
		}
	}
}

// Clear drops key's state, e.g. once a final chunk has been sent.
func (e *EvolvingReplies) Clear(key types.EvolvingReplyKey) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.entries, key)
}

// ClearAccount drops every entry belonging to accountID, used on session
// teardown (spec.md §5 cancellation rules).
func (e *EvolvingReplies) ClearAccount(accountID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for k := range e.entries {
		if k.AccountID == accountID {
			delete(e.entries, k)
		}
	}
}
