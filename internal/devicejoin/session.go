package devicejoin

import (
	"time"

	dterrors "devicelink/internal/domain/errors"
	"devicelink/internal/domain/interfaces"
	"devicelink/internal/domain/types"
	"devicelink/internal/log"
)

var logger = log.New("devicejoin")

// Decrypter is the minimal surface this package needs from a nominated
// rendezvous session: decrypt an inbound frame, encrypt an outbound one.
type Decrypter interface {
	Decrypt(ciphertext []byte) ([]byte, error)
	Encrypt(plaintext []byte) ([]byte, error)
}

// FrameSource yields successive rendezvous transport frames.
type FrameSource interface {
	ReadFrame() ([]byte, error)
	WriteFrame([]byte) error
}

// Run drives the device-join message stream to completion: Begin exactly
// once and first, zero or more BlobData frames, then exactly one
// EssentialData persisted via stores, followed by sending Registered and
// returning. Any deviation from that order is a fatal protocol error.
func Run(session Decrypter, frames FrameSource, identityStore interfaces.IdentityStore, contactStore interfaces.ContactStore, groupStore interfaces.GroupStore, mediaStore interfaces.MediaStore) error {
	var sawBegin bool
	blobs := map[uint32][]byte{}

	for {
		raw, err := frames.ReadFrame()
		if err != nil {
			return err
		}
		plaintext, err := session.Decrypt(raw)
		if err != nil {
			return err
		}
		msg, err := DecodeMessage(plaintext)
		if err != nil {
			return err
		}

		switch msg.Kind {
		case KindBegin:
			if sawBegin {
				return dterrors.ErrOutOfOrderEssentials
			}
			sawBegin = true

		case KindBlobData:
			if !sawBegin {
				return dterrors.ErrOutOfOrderEssentials
			}
			blobs[msg.BlobID] = msg.BlobBytes

		case KindEssentialData:
			if !sawBegin || msg.Essential == nil {
				return dterrors.ErrOutOfOrderEssentials
			}
			if err := persist(msg.Essential, blobs, identityStore, contactStore, groupStore, mediaStore); err != nil {
				return err
			}
			ack, err := EncodeRegistered()
			if err != nil {
				return err
			}
			encrypted, err := session.Encrypt(ack)
			if err != nil {
				return err
			}
			if err := frames.WriteFrame(encrypted); err != nil {
				return err
			}
			logger.Infof("device-join complete for identity %s", msg.Essential.Identity)
			return nil

		default:
			return dterrors.ErrUnexpectedFrame
		}
	}
}

func persist(e *EssentialData, blobs map[uint32][]byte, identityStore interfaces.IdentityStore, contactStore interfaces.ContactStore, groupStore interfaces.GroupStore, mediaStore interfaces.MediaStore) error {
	id := types.Identity{
		Identity:       e.Identity,
		ClientKey:      e.ClientKey,
		ServerGroup:    e.ServerGroup,
		DeviceGroupKey: e.DeviceGroupKey,
		DeviceCookie:   e.DeviceCookie,
		ContactCount:   len(e.Contacts),
		GroupCount:     len(e.Groups),
		LinkedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	if err := identityStore.SaveIdentity(id); err != nil {
		return err
	}
	for _, c := range e.Contacts {
		if err := contactStore.SaveContact(c); err != nil {
			return err
		}
	}
	for _, g := range e.Groups {
		if err := groupStore.SaveGroup(g); err != nil {
			return err
		}
	}
	for id, data := range blobs {
		if _, err := mediaStore.SaveJoinBlob(id, data); err != nil {
			return err
		}
	}
	return nil
}
