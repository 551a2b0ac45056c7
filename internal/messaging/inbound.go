package messaging

import (
	"context"
	"fmt"
	"time"

	"devicelink/internal/crypto"
	"devicelink/internal/dedupe"
	dterrors "devicelink/internal/domain/errors"
	"devicelink/internal/domain/types"
	"devicelink/internal/wire"
)

// InboundMessage is the decrypted, decoded result of ReceiveFrame — the
// value a host layer acts on (render text, save a file reference, apply a
// reaction, and so on). Exactly one of the typed fields is populated,
// selected by Type.
type InboundMessage struct {
	Sender    string
	MessageID uint64
	CreatedAt time.Time
	Type      types.MessageType
	Nickname  string
	Group     *types.GroupAddress // nil for direct messages

	Text            string
	Edit            wire.Edit
	Reaction        types.Reaction
	DeliveryReceipt types.DeliveryReceipt
	Typing          types.TypingIndicator
	GroupSetup      types.GroupSetup
	GroupName       types.GroupName
	File            types.FileMessage
}

// ReceiveFrame decrypts and decodes one message-with-metadata frame
// delivered by the CSP session (spec.md §4.2, §4.7 in reverse). duplicate
// reports a dedupe hit; the caller should ack the message either way but
// must not re-surface a duplicate to the host.
func (e *Engine) ReceiveFrame(ctx context.Context, frame []byte, seen *dedupe.LRU) (msg *InboundMessage, duplicate bool, err error) {
	m, err := wire.DecodeMessageWithMetadata(frame)
	if err != nil {
		return nil, false, err
	}

	senderPublic, err := e.keys.resolve(ctx, m.Sender)
	if err != nil {
		return nil, false, fmt.Errorf("resolve sender %s: %w", m.Sender, err)
	}
	sharedKey := crypto.Precompute(e.identity.ClientKey, senderPublic)

	metadataKey, err := crypto.DeriveMetadataKey(sharedKey)
	if err != nil {
		return nil, false, err
	}
	metadataPlain, err := crypto.SecretboxOpen(metadataKey, m.MessageNonce, m.EncryptedMetadata)
	if err != nil {
		return nil, false, err
	}
	metadata, err := wire.DecodeMetadata(metadataPlain)
	if err != nil {
		return nil, false, err
	}

	dedupeKey := dedupe.Key(m.Sender, metadata.MessageID)
	if seen.Seen(dedupeKey) {
		return nil, true, nil
	}

	bodyPlain, err := crypto.SecretboxOpen(sharedKey, m.MessageNonce, m.EncryptedBody)
	if err != nil {
		return nil, false, err
	}
	if len(bodyPlain) < 1 {
		return nil, false, dterrors.ErrMalformedFrame
	}
	msgType := types.MessageType(bodyPlain[0])
	plainBody, err := wire.UnpadBody(bodyPlain[1:])
	if err != nil {
		return nil, false, err
	}

	if _, err := seen.Insert(dedupeKey); err != nil {
		logger.Warningf("dedupe persist failed for %s: %v", dedupeKey, err)
	}

	out := &InboundMessage{
		Sender:    m.Sender,
		MessageID: metadata.MessageID,
		CreatedAt: time.UnixMilli(int64(metadata.CreatedAtMillis)),
		Type:      msgType,
		Nickname:  metadata.Nickname,
	}

	innerBody := plainBody
	if isGroupMessageType(msgType) {
		addr, inner, err := e.unwrapGroupContainer(m.Sender, plainBody)
		if err != nil {
			return nil, false, err
		}
		out.Group = &addr
		innerBody = inner
	}

	if err := decodeTypedBody(out, msgType, innerBody); err != nil {
		return nil, false, err
	}
	return out, false, nil
}

func isGroupMessageType(t types.MessageType) bool {
	switch t {
	case types.MessageTypeGroupText, types.MessageTypeGroupFile, types.MessageTypeGroupSetup,
		types.MessageTypeGroupName, types.MessageTypeGroupEdit, types.MessageTypeGroupReaction,
		types.MessageTypeGroupDeliveryAck:
		return true
	default:
		return false
	}
}

// unwrapGroupContainer picks the creator or member container layout
// (spec.md §4.2) based on whether sender is the creator of a group we
// already know locally — only the creator omits their own identity from
// the container, since it's implied by who sent it.
func (e *Engine) unwrapGroupContainer(sender string, body []byte) (types.GroupAddress, []byte, error) {
	if e.groups != nil {
		if groups, err := e.groups.ListGroups(); err == nil {
			for _, g := range groups {
				if g.CreatorIdentity != sender {
					continue
				}
				groupID, inner, err := wire.DecodeGroupCreatorContainer(body)
				if err != nil {
					return types.GroupAddress{}, nil, err
				}
				return types.GroupAddress{CreatorIdentity: sender, GroupID: groupID, IsCreator: sender == e.identity.Identity}, inner, nil
			}
		}
	}
	creatorIdentity, groupID, inner, err := wire.DecodeGroupMemberContainer(body)
	if err != nil {
		return types.GroupAddress{}, nil, err
	}
	return types.GroupAddress{CreatorIdentity: creatorIdentity, GroupID: groupID, IsCreator: creatorIdentity == e.identity.Identity}, inner, nil
}

func decodeTypedBody(out *InboundMessage, t types.MessageType, body []byte) error {
	switch t {
	case types.MessageTypeText, types.MessageTypeGroupText:
		out.Text = string(body)
	case types.MessageTypeFile, types.MessageTypeGroupFile:
		fm, err := wire.DecodeFileMessage(body)
		if err != nil {
			return err
		}
		out.File = fm
	case types.MessageTypeEdit, types.MessageTypeGroupEdit:
		edit, err := wire.DecodeEdit(body)
		if err != nil {
			return err
		}
		out.Edit = edit
	case types.MessageTypeReaction, types.MessageTypeGroupReaction:
		r, err := wire.DecodeReaction(body)
		if err != nil {
			return err
		}
		out.Reaction = r
	case types.MessageTypeDeliveryReceipt, types.MessageTypeGroupDeliveryAck:
		dr, err := wire.DecodeDeliveryReceipt(body)
		if err != nil {
			return err
		}
		out.DeliveryReceipt = dr
	case types.MessageTypeTypingIndicator:
		ti, err := wire.DecodeTypingIndicator(body)
		if err != nil {
			return err
		}
		out.Typing = ti
	case types.MessageTypeGroupSetup:
		gs, err := wire.DecodeGroupSetup(body)
		if err != nil {
			return err
		}
		out.GroupSetup = gs
	case types.MessageTypeGroupName:
		gn, err := wire.DecodeGroupName(body)
		if err != nil {
			return err
		}
		out.GroupName = gn
	default:
		return fmt.Errorf("messaging: unknown message type %#x", byte(t))
	}
	return nil
}
