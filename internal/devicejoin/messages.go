package devicejoin

import (
	"github.com/fxamacker/cbor/v2"

	dterrors "devicelink/internal/domain/errors"
	"devicelink/internal/domain/types"
)

// MessageKind tags the join-message stream's variants.
type MessageKind uint8

const (
	KindBegin MessageKind = iota + 1
	KindBlobData
	KindEssentialData
	KindRegistered
)

type contactWire struct {
	Identity    string `cbor:"1,keyasint"`
	PublicKey   []byte `cbor:"2,keyasint"`
	FeatureMask uint32 `cbor:"3,keyasint,omitempty"`
}

type groupWire struct {
	CreatorIdentity string   `cbor:"1,keyasint"`
	GroupID         uint64   `cbor:"2,keyasint"`
	Members         []string `cbor:"3,keyasint,omitempty"`
	Name            string   `cbor:"4,keyasint,omitempty"`
}

// EssentialData is the decoded identity-transfer payload of spec.md §4.4.
type EssentialData struct {
	Identity       string
	ClientKey      types.X25519Private
	ServerGroup    string
	DeviceGroupKey types.SymmetricKey
	DeviceCookie   [16]byte
	Contacts       []types.Contact
	Groups         []types.Group
}

type essentialDataWire struct {
	Identity       string        `cbor:"1,keyasint"`
	ClientKey      []byte        `cbor:"2,keyasint"`
	ServerGroup    string        `cbor:"3,keyasint"`
	DeviceGroupKey []byte        `cbor:"4,keyasint"`
	DeviceCookie   []byte        `cbor:"5,keyasint"`
	Contacts       []contactWire `cbor:"6,keyasint,omitempty"`
	Groups         []groupWire   `cbor:"7,keyasint,omitempty"`
}

// Message is one decoded frame of the join-message stream.
type Message struct {
	Kind      MessageKind
	BlobID    uint32
	BlobBytes []byte
	Essential *EssentialData
}

type messageWire struct {
	Kind      uint8              `cbor:"1,keyasint"`
	BlobID    uint32             `cbor:"2,keyasint,omitempty"`
	BlobBytes []byte             `cbor:"3,keyasint,omitempty"`
	Essential *essentialDataWire `cbor:"4,keyasint,omitempty"`
}

// DecodeMessage decodes one join-stream frame.
func DecodeMessage(b []byte) (Message, error) {
	var w messageWire
	if err := cbor.Unmarshal(b, &w); err != nil {
		return Message{}, dterrors.ErrMalformedFrame
	}
	m := Message{Kind: MessageKind(w.Kind), BlobID: w.BlobID, BlobBytes: w.BlobBytes}
	if w.Essential != nil {
		e := w.Essential
		ed := &EssentialData{
			Identity:    e.Identity,
			ClientKey:   types.MustX25519Private(e.ClientKey),
			ServerGroup: e.ServerGroup,
		}
		ed.DeviceGroupKey = types.MustSymmetricKey(e.DeviceGroupKey)
		copy(ed.DeviceCookie[:], e.DeviceCookie)
		for _, c := range e.Contacts {
			fm := types.FeatureMask(c.FeatureMask)
			ed.Contacts = append(ed.Contacts, types.Contact{
				Identity:    c.Identity,
				PublicKey:   types.MustX25519Public(c.PublicKey),
				FeatureMask: &fm,
			})
		}
		for _, g := range e.Groups {
			ed.Groups = append(ed.Groups, types.Group{
				CreatorIdentity:  g.CreatorIdentity,
				GroupID:          g.GroupID,
				MemberIdentities: g.Members,
				Name:             g.Name,
			})
		}
		m.Essential = ed
	}
	return m, nil
}

// EncodeRegistered builds the single Registered acknowledgement frame.
func EncodeRegistered() ([]byte, error) {
	return cbor.Marshal(messageWire{Kind: uint8(KindRegistered)})
}

// DecodeContactSync decodes a contactSync envelope's opaque Raw payload,
// reusing the same wire shape EssentialData's contact list uses.
func DecodeContactSync(raw []byte) (types.Contact, error) {
	var w contactWire
	if err := cbor.Unmarshal(raw, &w); err != nil {
		return types.Contact{}, dterrors.ErrMalformedFrame
	}
	fm := types.FeatureMask(w.FeatureMask)
	return types.Contact{
		Identity:    w.Identity,
		PublicKey:   types.MustX25519Public(w.PublicKey),
		FeatureMask: &fm,
	}, nil
}

// DecodeGroupSync decodes a groupSync envelope's opaque Raw payload,
// reusing the same wire shape EssentialData's group list uses.
func DecodeGroupSync(raw []byte) (types.Group, error) {
	var w groupWire
	if err := cbor.Unmarshal(raw, &w); err != nil {
		return types.Group{}, dterrors.ErrMalformedFrame
	}
	return types.Group{
		CreatorIdentity:  w.CreatorIdentity,
		GroupID:          w.GroupID,
		MemberIdentities: w.Members,
		Name:             w.Name,
	}, nil
}
