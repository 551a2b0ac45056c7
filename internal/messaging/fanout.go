package messaging

import (
	"context"
	"fmt"

	"devicelink/internal/domain/types"
	"devicelink/internal/wire"
)

// send drives one logical outgoing message end to end (spec.md §4.7):
// resolve keys, seal per recipient, reflect once with the matching nonce
// list, then fan out CSP outgoing containers in the same order. addr is
// nil for a direct message; recipients is empty only for a self-only
// group, which reflects with no nonces and skips CSP entirely.
func (e *Engine) send(ctx context.Context, recipients []string, addr *types.GroupAddress, messageID uint64, msgType types.MessageType, innerBody []byte, flags byte) error {
	plainBody := innerBody
	if addr != nil {
		plainBody = wrapGroupContainer(*addr, innerBody)
	}

	convIdentity := ""
	switch {
	case addr != nil:
		convIdentity = addr.CreatorIdentity
	case len(recipients) == 1:
		convIdentity = recipients[0]
	}

	if len(recipients) == 0 {
		env := types.Envelope{
			Kind: types.KindOutgoingMessage,
			Message: &types.MessageSubEnvelope{
				ConversationIdentity: convIdentity,
				GroupCreatorIdentity: addrCreator(addr),
				GroupID:              addrGroupID(addr),
				MessageID:            messageID,
			},
		}
		return e.mediator.Reflect(ctx, env, false)
	}

	sealed := make([]sealedMessage, len(recipients))
	nonces := make([][]byte, len(recipients))
	for i, r := range recipients {
		pub, err := e.keys.resolve(ctx, r)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", r, err)
		}
		sm, err := e.sealForRecipient(r, pub, messageID, msgType, plainBody, flags)
		if err != nil {
			return fmt.Errorf("seal for %s: %w", r, err)
		}
		sealed[i] = sm
		nonces[i] = sm.nonce
	}

	env := types.Envelope{
		Kind: types.KindOutgoingMessage,
		Message: &types.MessageSubEnvelope{
			ConversationIdentity: convIdentity,
			GroupCreatorIdentity: addrCreator(addr),
			GroupID:              addrGroupID(addr),
			MessageID:            messageID,
			Nonces:               nonces,
		},
	}
	if err := e.mediator.Reflect(ctx, env, false); err != nil {
		return fmt.Errorf("reflect: %w", err)
	}

	for i, r := range recipients {
		if err := e.csp.SendOutgoingMessage(ctx, r, messageID, sealed[i].frame); err != nil {
			return fmt.Errorf("csp send to %s: %w", r, err)
		}
	}
	return nil
}

// sendEphemeral is send's fire-and-forget counterpart for messages the
// chat server neither queues nor acks (typing indicators): CSP sends use
// SendContainer directly and reflection is marked ephemeral.
func (e *Engine) sendEphemeral(ctx context.Context, recipient string, messageID uint64, msgType types.MessageType, plainBody []byte, flags byte) error {
	pub, err := e.keys.resolve(ctx, recipient)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", recipient, err)
	}
	sm, err := e.sealForRecipient(recipient, pub, messageID, msgType, plainBody, flags)
	if err != nil {
		return err
	}

	env := types.Envelope{
		Kind: types.KindOutgoingMessage,
		Message: &types.MessageSubEnvelope{
			ConversationIdentity: recipient,
			MessageID:            messageID,
			Nonces:               [][]byte{sm.nonce},
		},
	}
	if err := e.mediator.Reflect(ctx, env, true); err != nil {
		return fmt.Errorf("reflect: %w", err)
	}
	return e.csp.SendContainer(ctx, wire.CSPOutgoingMessage, sm.frame)
}

func addrCreator(addr *types.GroupAddress) string {
	if addr == nil {
		return ""
	}
	return addr.CreatorIdentity
}

func addrGroupID(addr *types.GroupAddress) uint64 {
	if addr == nil {
		return 0
	}
	return addr.GroupID
}
