package messaging

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"devicelink/internal/domain/interfaces"
	"devicelink/internal/domain/types"
	"devicelink/internal/wire"
)

// EvolvingReplyConfig tunes the streaming-edit coalescing rules (spec.md
// §4.7). A partial chunk whose growth over the last emitted text is at or
// below MinCharsDelta, or that arrives before MinInterval has elapsed
// since the last emit, is buffered rather than sent immediately.
type EvolvingReplyConfig struct {
	MinCharsDelta int
	MinInterval   time.Duration
}

// DefaultEvolvingReplyConfig matches typical agent-streaming cadences:
// small token-by-token deltas get batched into fewer, chunkier edits.
var DefaultEvolvingReplyConfig = EvolvingReplyConfig{MinCharsDelta: 8, MinInterval: 750 * time.Millisecond}

type evolvingDispatcher struct {
	cfg EvolvingReplyConfig

	mu    sync.Mutex
	locks map[types.EvolvingReplyKey]*sync.Mutex
}

func newEvolvingDispatcher(cfg EvolvingReplyConfig) *evolvingDispatcher {
	return &evolvingDispatcher{cfg: cfg, locks: make(map[types.EvolvingReplyKey]*sync.Mutex)}
}

func (d *evolvingDispatcher) keyLock(key types.EvolvingReplyKey) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.locks[key]
	if !ok {
		l = &sync.Mutex{}
		d.locks[key] = l
	}
	return l
}

// HandleReplyStream drains an AgentDispatcher's fragment stream for one
// inbound trigger message, applying the anchor/edit/coalesce rules of
// spec.md §4.7. Fragments for the same key are serialized through a
// per-session lock so a later partial can never overtake an in-flight
// edit; fragments for distinct keys proceed independently.
func (e *Engine) HandleReplyStream(ctx context.Context, addr types.GroupAddress, members []string, ctxMsg interfaces.InboundMessageContext, fragments <-chan interfaces.ReplyFragment) error {
	key := types.EvolvingReplyKey{AccountID: ctxMsg.AccountID, ChatID: ctxMsg.ChatID, TriggerMessageID: ctxMsg.MessageID}
	lock := e.streams.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	for fr := range fragments {
		if err := e.applyFragment(ctx, addr, members, key, fr); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) applyFragment(ctx context.Context, addr types.GroupAddress, members []string, key types.EvolvingReplyKey, fr interfaces.ReplyFragment) error {
	now := time.Now()
	state, ok := e.evolving.Get(key, now)
	if !ok {
		if err := e.reanchor(ctx, addr, members, key, fr.Text, now); err != nil {
			return err
		}
		if fr.Kind == interfaces.FragmentFinal {
			e.evolving.Clear(key)
		}
		return nil
	}

	switch fr.Kind {
	case interfaces.FragmentBlock:
		text := fr.Text
		if !extendsPrefix(state.LastSentText, text) {
			text = state.LastSentText + text
		}
		return e.emitEdit(ctx, addr, members, key, state, text, now)
	case interfaces.FragmentFinal:
		defer e.evolving.Clear(key)
		if fr.Text == state.LastSentText {
			return nil
		}
		return e.emitEdit(ctx, addr, members, key, state, fr.Text, now)
	default: // FragmentPartial
		if !extendsPrefix(state.LastSentText, fr.Text) {
			return nil // prefix regression: drop silently
		}
		delta := len(fr.Text) - len(state.LastSentText)
		elapsed := now.Sub(state.LastUpdatedAt)
		if delta <= e.streams.cfg.MinCharsDelta || elapsed < e.streams.cfg.MinInterval {
			return nil // coalesced; next chunk carries the accumulated text
		}
		return e.emitEdit(ctx, addr, members, key, state, fr.Text, now)
	}
}

// emitEdit sends a group-edit against the anchor. A send failure falls
// back to a fresh anchor rather than propagating (spec.md §4.7: "on any
// edit failure, fall back to a fresh group text ... and continue").
func (e *Engine) emitEdit(ctx context.Context, addr types.GroupAddress, members []string, key types.EvolvingReplyKey, state types.EvolvingReplyState, text string, now time.Time) error {
	messageID, err := newMessageID()
	if err != nil {
		return err
	}
	body := wire.EncodeEdit(wire.Edit{TargetMessageID: state.AnchorMessageID, Text: text})
	if err := e.send(ctx, members, &addr, messageID, types.MessageTypeGroupEdit, body, 0); err != nil {
		logger.Warningf("evolving reply edit failed, starting new anchor: %v", err)
		return e.reanchor(ctx, addr, members, key, text, now)
	}
	e.evolving.Set(key, types.EvolvingReplyState{AnchorMessageID: state.AnchorMessageID, LastSentText: text, LastUpdatedAt: now}, now)
	return nil
}

func (e *Engine) reanchor(ctx context.Context, addr types.GroupAddress, members []string, key types.EvolvingReplyKey, text string, now time.Time) error {
	messageID, err := newMessageID()
	if err != nil {
		return err
	}
	if err := e.send(ctx, members, &addr, messageID, types.MessageTypeGroupText, []byte(text), 0); err != nil {
		return fmt.Errorf("evolving reply anchor send: %w", err)
	}
	e.evolving.Set(key, types.EvolvingReplyState{AnchorMessageID: messageID, LastSentText: text, LastUpdatedAt: now}, now)
	return nil
}

func extendsPrefix(last, candidate string) bool {
	return len(candidate) > len(last) && strings.HasPrefix(candidate, last)
}
