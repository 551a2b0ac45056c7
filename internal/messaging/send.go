package messaging

import (
	"context"
	"encoding/hex"
	"fmt"

	"devicelink/internal/blob"
	dterrors "devicelink/internal/domain/errors"
	"devicelink/internal/domain/interfaces"
	"devicelink/internal/domain/types"
	"devicelink/internal/wire"
)

func (e *Engine) SendText(ctx context.Context, recipient string, text string) error {
	if text == "" {
		return dterrors.ErrEmptyText
	}
	messageID, err := newMessageID()
	if err != nil {
		return err
	}
	return e.send(ctx, []string{recipient}, nil, messageID, types.MessageTypeText, []byte(text), 0)
}

func (e *Engine) SendGroupText(ctx context.Context, addr types.GroupAddress, members []string, text string) error {
	if text == "" {
		return dterrors.ErrEmptyText
	}
	messageID, err := newMessageID()
	if err != nil {
		return err
	}
	return e.send(ctx, members, &addr, messageID, types.MessageTypeGroupText, []byte(text), 0)
}

func (e *Engine) SendEdit(ctx context.Context, recipient string, targetMessageID uint64, text string) error {
	if len(text) > 6000 {
		return dterrors.ErrEditTooLarge
	}
	messageID, err := newMessageID()
	if err != nil {
		return err
	}
	body := wire.EncodeEdit(wire.Edit{TargetMessageID: targetMessageID, Text: text})
	return e.send(ctx, []string{recipient}, nil, messageID, types.MessageTypeEdit, body, 0)
}

func (e *Engine) SendGroupEdit(ctx context.Context, addr types.GroupAddress, members []string, targetMessageID uint64, text string) error {
	if len(text) > 6000 {
		return dterrors.ErrEditTooLarge
	}
	messageID, err := newMessageID()
	if err != nil {
		return err
	}
	body := wire.EncodeEdit(wire.Edit{TargetMessageID: targetMessageID, Text: text})
	return e.send(ctx, members, &addr, messageID, types.MessageTypeGroupEdit, body, 0)
}

func (e *Engine) SendTyping(ctx context.Context, recipient string, typing bool) error {
	messageID, err := newMessageID()
	if err != nil {
		return err
	}
	body := wire.EncodeTypingIndicator(types.TypingIndicator{Typing: typing})
	flags := wire.MessageFlagNoQueue | wire.MessageFlagNoServerAck
	return e.sendEphemeral(ctx, recipient, messageID, types.MessageTypeTypingIndicator, body, flags)
}

func (e *Engine) SendFile(ctx context.Context, recipient string, file interfaces.OutgoingFile) error {
	if e.blob == nil {
		return fmt.Errorf("messaging: no blob channel configured")
	}
	messageID, err := newMessageID()
	if err != nil {
		return err
	}
	uploaded, err := e.blob.Upload(ctx, blob.ScopePublic, e.deviceGroupPrefix, e.identity.DeviceID, e.deviceGroupID, file.Data, file.ThumbnailData)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	fm := types.FileMessage{
		BlobKeyHex: hex.EncodeToString(uploaded.BlobKey.Slice()),
		BlobIDHex:  uploaded.BlobIDHex,
		MediaType:  file.MediaType,
		FileName:   file.FileName,
		FileSize:   int64(len(file.Data)),
		Caption:    file.Caption,
	}
	if uploaded.ThumbnailBlobID != "" {
		fm.ThumbnailBlobID = uploaded.ThumbnailBlobID
		fm.ThumbnailType = file.MediaType
	}
	body, err := wire.EncodeFileMessage(fm)
	if err != nil {
		return fmt.Errorf("encode file message: %w", err)
	}
	return e.send(ctx, []string{recipient}, nil, messageID, types.MessageTypeFile, body, 0)
}
