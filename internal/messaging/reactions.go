package messaging

import (
	"context"

	dterrors "devicelink/internal/domain/errors"
	"devicelink/internal/domain/interfaces"
	"devicelink/internal/domain/types"
	"devicelink/internal/wire"
)

// thumbsUpEmoji and thumbsDownEmoji list the base emoji plus its five
// Fitzpatrick skin-tone variants (spec.md §4.7 fallback matrix).
var thumbsUpEmoji = map[string]bool{
	"\U0001F44D": true, "\U0001F44D\U0001F3FB": true, "\U0001F44D\U0001F3FC": true,
	"\U0001F44D\U0001F3FD": true, "\U0001F44D\U0001F3FE": true, "\U0001F44D\U0001F3FF": true,
}

var thumbsDownEmoji = map[string]bool{
	"\U0001F44E": true, "\U0001F44E\U0001F3FB": true, "\U0001F44E\U0001F3FC": true,
	"\U0001F44E\U0001F3FD": true, "\U0001F44E\U0001F3FE": true, "\U0001F44E\U0001F3FF": true,
}

// legacyReceiptStatus maps (emoji, apply) to a legacy delivery-receipt
// status per the fallback matrix; ok is false when the pair has no legacy
// equivalent (any other emoji, or a withdraw).
func legacyReceiptStatus(emoji string, apply bool) (status types.DeliveryReceiptStatus, ok bool) {
	if !apply {
		return 0, false
	}
	switch {
	case thumbsUpEmoji[emoji]:
		return types.ReceiptAcknowledged, true
	case thumbsDownEmoji[emoji]:
		return types.ReceiptDeclined, true
	default:
		return 0, false
	}
}

func (e *Engine) SendReaction(ctx context.Context, recipient string, targetMessageID uint64, emoji string, apply bool) (interfaces.ReactionOutcome, error) {
	if l := len(emoji); l < 1 || l > 64 {
		return interfaces.ReactionOutcome{}, dterrors.ErrInvalidEmojiLength
	}
	fm, err := e.keys.featureMask(recipient)
	if err != nil {
		return interfaces.ReactionOutcome{}, err
	}

	messageID, err := newMessageID()
	if err != nil {
		return interfaces.ReactionOutcome{}, err
	}

	if fm != nil && fm.SupportsReactions() {
		action := types.ReactionApply
		if !apply {
			action = types.ReactionWithdraw
		}
		body := wire.EncodeReaction(types.Reaction{MessageID: targetMessageID, Emoji: emoji, Action: action})
		if err := e.send(ctx, []string{recipient}, nil, messageID, types.MessageTypeReaction, body, 0); err != nil {
			return interfaces.ReactionOutcome{}, err
		}
		return interfaces.ReactionOutcome{Mode: "reaction"}, nil
	}

	status, ok := legacyReceiptStatus(emoji, apply)
	if !ok {
		return interfaces.ReactionOutcome{Mode: "omitted"}, nil
	}
	body := wire.EncodeDeliveryReceipt(types.DeliveryReceipt{Status: status, MessageIDs: []uint64{targetMessageID}})
	if err := e.send(ctx, []string{recipient}, nil, messageID, types.MessageTypeDeliveryReceipt, body, 0); err != nil {
		return interfaces.ReactionOutcome{}, err
	}
	return interfaces.ReactionOutcome{Mode: "legacy", LegacyRecipients: []string{recipient}}, nil
}

func (e *Engine) SendGroupReaction(ctx context.Context, addr types.GroupAddress, members []string, targetMessageID uint64, emoji string, apply bool) (interfaces.ReactionOutcome, error) {
	if l := len(emoji); l < 1 || l > 64 {
		return interfaces.ReactionOutcome{}, dterrors.ErrInvalidEmojiLength
	}

	status, hasLegacyMapping := legacyReceiptStatus(emoji, apply)

	var modern, legacy []string
	for _, m := range members {
		fm, err := e.keys.featureMask(m)
		if err != nil {
			return interfaces.ReactionOutcome{}, err
		}
		if fm != nil && fm.SupportsReactions() {
			modern = append(modern, m)
		} else if hasLegacyMapping {
			legacy = append(legacy, m)
		}
	}

	messageID, err := newMessageID()
	if err != nil {
		return interfaces.ReactionOutcome{}, err
	}

	if len(modern) > 0 {
		action := types.ReactionApply
		if !apply {
			action = types.ReactionWithdraw
		}
		body := wire.EncodeReaction(types.Reaction{MessageID: targetMessageID, Emoji: emoji, Action: action})
		if err := e.send(ctx, modern, &addr, messageID, types.MessageTypeGroupReaction, body, 0); err != nil {
			return interfaces.ReactionOutcome{}, err
		}
	}
	if len(legacy) > 0 {
		body := wire.EncodeDeliveryReceipt(types.DeliveryReceipt{Status: status, MessageIDs: []uint64{targetMessageID}})
		if err := e.send(ctx, legacy, &addr, messageID, types.MessageTypeGroupDeliveryAck, body, 0); err != nil {
			return interfaces.ReactionOutcome{}, err
		}
	}

	mode := "reaction"
	switch {
	case len(modern) == 0 && len(legacy) == 0:
		mode = "omitted"
	case len(modern) > 0 && len(legacy) > 0:
		mode = "mixed"
	case len(modern) == 0:
		mode = "legacy"
	}
	return interfaces.ReactionOutcome{Mode: mode, LegacyRecipients: legacy}, nil
}
