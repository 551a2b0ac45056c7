package messaging

import (
	"devicelink/internal/domain/types"
	"devicelink/internal/wire"
)

// wrapGroupContainer applies the group-creator or group-member framing
// (spec.md §4.2) around innerData depending on whether the local identity
// created addr's group.
func wrapGroupContainer(addr types.GroupAddress, innerData []byte) []byte {
	if addr.IsCreator {
		return wire.EncodeGroupCreatorContainer(addr.GroupID, innerData)
	}
	return wire.EncodeGroupMemberContainer(addr.CreatorIdentity, addr.GroupID, innerData)
}
