package types

// MessageType is the single leading byte of a message container's plaintext
// (spec §4.7), shared between direct and group variants.
type MessageType byte

const (
	MessageTypeText              MessageType = 0x01
	MessageTypeFile              MessageType = 0x17
	MessageTypeGroupText         MessageType = 0x41
	MessageTypeGroupFile         MessageType = 0x46
	MessageTypeGroupSetup        MessageType = 0x4A
	MessageTypeGroupName         MessageType = 0x4B
	MessageTypeTypingIndicator   MessageType = 0x90
	MessageTypeDeliveryReceipt   MessageType = 0x80
	MessageTypeEdit              MessageType = 0x91
	MessageTypeGroupEdit         MessageType = 0x92
	MessageTypeReaction          MessageType = 0x93
	MessageTypeGroupReaction     MessageType = 0x94
	MessageTypeGroupDeliveryAck  MessageType = 0x95
)

// DeliveryReceiptStatus is the single status byte of a delivery-receipt
// message body.
type DeliveryReceiptStatus byte

const (
	ReceiptReceived    DeliveryReceiptStatus = 0x01
	ReceiptRead        DeliveryReceiptStatus = 0x02
	ReceiptAcknowledged DeliveryReceiptStatus = 0x03 // legacy "thumbs up"
	ReceiptDeclined    DeliveryReceiptStatus = 0x04 // legacy "thumbs down"
)

// ReactionAction distinguishes applying a reaction from withdrawing one; it
// selects which of the two tagged fields a Reaction record is placed into.
type ReactionAction uint8

const (
	ReactionApply ReactionAction = iota
	ReactionWithdraw
)

// Reaction is the decoded form of a reaction message body.
type Reaction struct {
	MessageID uint64
	Emoji     string
	Action    ReactionAction
}

// DeliveryReceipt is the decoded form of a delivery-receipt message body.
type DeliveryReceipt struct {
	Status     DeliveryReceiptStatus
	MessageIDs []uint64
}

// TypingIndicator is the decoded form of a typing-indicator message body.
type TypingIndicator struct {
	Typing bool
}

// GroupSetup lists a group's members, creator excluded, as sent by the
// creator.
type GroupSetup struct {
	GroupID uint64
	Members []string
}

// GroupName carries a group's display name.
type GroupName struct {
	GroupID uint64
	Name    string
}

// FileMessage is the decoded form of the JSON body carried in innerData of
// file/group-file messages (spec §4.2).
type FileMessage struct {
	RenderingType   int            `json:"j"`
	Legacy          bool           `json:"i,omitempty"`
	BlobKeyHex      string         `json:"k"`
	BlobIDHex       string         `json:"b"`
	MediaType       string         `json:"m"`
	FileName        string         `json:"n,omitempty"`
	FileSize        int64          `json:"s"`
	Caption         string         `json:"d,omitempty"`
	Metadata        map[string]any `json:"x,omitempty"`
	ThumbnailBlobID string         `json:"t,omitempty"`
	ThumbnailType   string         `json:"p,omitempty"`
	CorrelationID   string         `json:"c,omitempty"`
}
