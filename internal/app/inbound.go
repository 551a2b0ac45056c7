package app

import (
	"context"
	"encoding/hex"
	"strconv"
	"time"

	"devicelink/internal/blob"
	"devicelink/internal/dedupe"
	"devicelink/internal/domain/interfaces"
	"devicelink/internal/domain/types"
	"devicelink/internal/messaging"
	"devicelink/internal/wire"
)

// inboundPump turns a decoded CSP message-with-metadata frame into
// dedupe bookkeeping, media persistence, and (when an AgentDispatcher is
// configured) a reply. It is the glue spec.md leaves as host-level
// wiring rather than core protocol behavior.
type inboundPump struct {
	identity string
	engine   *messaging.Engine
	dedupe   *dedupe.LRU
	media    interfaces.MediaStore
	blob     *blob.Channel
	groups   interfaces.GroupStore
	agent    interfaces.AgentDispatcher
}

// handle is wired as csp.Handlers.OnIncomingMessage. It runs on the CSP
// session's read-loop goroutine, so any dispatch work is handed off to a
// fresh goroutine rather than blocking further frame processing.
func (p *inboundPump) handle(m wire.MessageWithMetadata) {
	ctx := context.Background()
	msg, duplicate, err := p.engine.ReceiveFrame(ctx, m.Encode(), p.dedupe)
	if err != nil {
		logger.Warningf("inbound frame from %s rejected: %v", m.Sender, err)
		return
	}
	if duplicate {
		return
	}

	switch msg.Type {
	case types.MessageTypeText, types.MessageTypeGroupText:
		go p.dispatch(ctx, msg)
	case types.MessageTypeFile, types.MessageTypeGroupFile:
		go p.saveInboundFile(ctx, msg)
	default:
		// Reactions, edits, receipts, typing, and group-setup/name changes
		// are surfaced to the host layer only, with no reply path.
	}
}

// dispatch runs the configured AgentDispatcher over one inbound text
// message and routes its reply stream: direct chats get a single final
// send, group chats get the full evolving-reply anchor/edit treatment
// (spec.md §4.7 restricts streamed edits to groups).
func (p *inboundPump) dispatch(ctx context.Context, msg *messaging.InboundMessage) {
	if p.agent == nil {
		return
	}

	chatID := msg.Sender
	if msg.Group != nil {
		chatID = groupChatID(*msg.Group)
	}

	fragments, err := p.agent.Dispatch(ctx, interfaces.InboundMessageContext{
		AccountID: p.identity,
		ChatID:    chatID,
		MessageID: msg.MessageID,
		Text:      msg.Text,
	})
	if err != nil {
		logger.Warningf("agent dispatch failed for %s: %v", chatID, err)
		return
	}

	if msg.Group == nil {
		p.sendDirectReply(ctx, msg.Sender, msg.MessageID, fragments)
		return
	}

	members, err := p.groupMembers(*msg.Group)
	if err != nil {
		logger.Warningf("group lookup failed for %s: %v", chatID, err)
		return
	}
	ctxMsg := interfaces.InboundMessageContext{AccountID: p.identity, ChatID: chatID, MessageID: msg.MessageID, Text: msg.Text}
	if err := p.engine.HandleReplyStream(ctx, *msg.Group, members, ctxMsg, fragments); err != nil {
		logger.Warningf("evolving reply stream failed for %s: %v", chatID, err)
	}
}

// sendDirectReply drains fragments and sends only the last one received,
// since direct chats have no anchor/edit mechanism to stream into.
func (p *inboundPump) sendDirectReply(ctx context.Context, recipient string, triggerMessageID uint64, fragments <-chan interfaces.ReplyFragment) {
	var last string
	for fr := range fragments {
		last = fr.Text
	}
	if last == "" {
		return
	}
	if err := p.engine.SendText(ctx, recipient, last); err != nil {
		logger.Warningf("direct reply to %s (trigger %d) failed: %v", recipient, triggerMessageID, err)
	}
}

func (p *inboundPump) saveInboundFile(ctx context.Context, msg *messaging.InboundMessage) {
	keyBytes, err := hex.DecodeString(msg.File.BlobKeyHex)
	if err != nil || len(keyBytes) != 32 {
		logger.Warningf("inbound file from %s: bad blob key", msg.Sender)
		return
	}
	blobKey := types.MustSymmetricKey(keyBytes)

	data, err := p.blob.Download(ctx, msg.File.BlobIDHex, blobKey, p.identity[:4])
	if err != nil {
		logger.Warningf("inbound file from %s: download failed: %v", msg.Sender, err)
		return
	}
	if _, err := p.media.SaveInbound(msg.Sender, time.Now(), msg.MessageID, msg.File.FileName, data); err != nil {
		logger.Warningf("inbound file from %s: save failed: %v", msg.Sender, err)
	}
}

func (p *inboundPump) groupMembers(addr types.GroupAddress) ([]string, error) {
	g, ok, err := p.groups.LoadGroup(addr.CreatorIdentity, addr.GroupID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return g.MemberIdentities, nil
}

func groupChatID(addr types.GroupAddress) string {
	return addr.CreatorIdentity + ":" + strconv.FormatUint(addr.GroupID, 10)
}
