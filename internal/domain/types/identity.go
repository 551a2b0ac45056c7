package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Identity is the long-lived, mostly-read-only account material transferred
// to this device during linking. DeviceID is the only field allocated
// locally (lazily, when the app is first wired up, before its first
// mediator connect) rather than received during device-join.
type Identity struct {
	// Identity is the 8-character uppercase account identifier, ASCII
	// [*0-9A-Z]{8}.
	Identity string `json:"identity"`

	// ClientKey is the 32-byte X25519 long-term secret for this account.
	ClientKey X25519Private `json:"clientKey"`

	// ServerGroup is an opaque routing tag used to pick a chat-server shard.
	ServerGroup string `json:"serverGroup"`

	// DeviceGroupKey (DGK) roots the entire device-group key schedule.
	DeviceGroupKey SymmetricKey `json:"deviceGroupKey"`

	// DeviceCookie is a 16-byte value bound to this device slot.
	DeviceCookie [16]byte `json:"deviceCookie"`

	ContactCount int    `json:"contactCount"`
	GroupCount   int    `json:"groupCount"`
	LinkedAt     string `json:"linkedAt"`

	// DeviceID is a 64-bit opaque value, generated randomly before the
	// first mediator connect and persisted thereafter. Zero means "not yet
	// allocated".
	DeviceID uint64 `json:"deviceId,omitempty"`
}

// IsStarPrefixed reports whether Identity begins with '*', the convention
// used for non-human, system-managed identities. Only these identities
// carry a legacy nickname in a message-with-metadata header; for every
// other identity that field stays all-zero.
func (id Identity) IsStarPrefixed() bool {
	return len(id.Identity) > 0 && id.Identity[0] == '*'
}

// identityJSON mirrors Identity but gives DeviceCookie the same
// plaintext-hex-string representation the other key fields already get from
// their own MarshalJSON (spec.md §6: identity.json is plaintext hex JSON).
type identityJSON struct {
	Identity       string        `json:"identity"`
	ClientKey      X25519Private `json:"clientKey"`
	ServerGroup    string        `json:"serverGroup"`
	DeviceGroupKey SymmetricKey  `json:"deviceGroupKey"`
	DeviceCookie   string        `json:"deviceCookie"`
	ContactCount   int           `json:"contactCount"`
	GroupCount     int           `json:"groupCount"`
	LinkedAt       string        `json:"linkedAt"`
	DeviceID       uint64        `json:"deviceId,omitempty"`
}

func (id Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(identityJSON{
		Identity:       id.Identity,
		ClientKey:      id.ClientKey,
		ServerGroup:    id.ServerGroup,
		DeviceGroupKey: id.DeviceGroupKey,
		DeviceCookie:   hex.EncodeToString(id.DeviceCookie[:]),
		ContactCount:   id.ContactCount,
		GroupCount:     id.GroupCount,
		LinkedAt:       id.LinkedAt,
		DeviceID:       id.DeviceID,
	})
}

func (id *Identity) UnmarshalJSON(b []byte) error {
	var aux identityJSON
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	id.Identity = aux.Identity
	id.ClientKey = aux.ClientKey
	id.ServerGroup = aux.ServerGroup
	id.DeviceGroupKey = aux.DeviceGroupKey
	cookie, err := hex.DecodeString(aux.DeviceCookie)
	if err != nil {
		return err
	}
	if len(cookie) != len(id.DeviceCookie) {
		return fmt.Errorf("identity: deviceCookie want %d bytes, got %d", len(id.DeviceCookie), len(cookie))
	}
	copy(id.DeviceCookie[:], cookie)
	id.ContactCount = aux.ContactCount
	id.GroupCount = aux.GroupCount
	id.LinkedAt = aux.LinkedAt
	id.DeviceID = aux.DeviceID
	return nil
}
