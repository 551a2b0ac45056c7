package wire

import (
	"encoding/binary"

	dterrors "devicelink/internal/domain/errors"
)

// EncodeGroupCreatorContainer builds `creatorsGroupId(8) || innerData`, used
// only by the group's creator when addressing members by group id alone.
func EncodeGroupCreatorContainer(groupID uint64, innerData []byte) []byte {
	out := make([]byte, 8+len(innerData))
	binary.LittleEndian.PutUint64(out[:8], groupID)
	copy(out[8:], innerData)
	return out
}

// DecodeGroupCreatorContainer is the inverse of EncodeGroupCreatorContainer.
func DecodeGroupCreatorContainer(b []byte) (groupID uint64, innerData []byte, err error) {
	if len(b) < 8 {
		return 0, nil, dterrors.ErrMalformedFrame
	}
	return binary.LittleEndian.Uint64(b[:8]), append([]byte(nil), b[8:]...), nil
}

// EncodeGroupMemberContainer builds
// `creatorIdentity(8 ASCII) || groupId(8) || innerData`, used by any member
// addressing others in a group they did not create.
func EncodeGroupMemberContainer(creatorIdentity string, groupID uint64, innerData []byte) []byte {
	out := make([]byte, 16+len(innerData))
	creatorID := padIdentity(creatorIdentity)
	copy(out[:8], creatorID[:])
	binary.LittleEndian.PutUint64(out[8:16], groupID)
	copy(out[16:], innerData)
	return out
}

// DecodeGroupMemberContainer is the inverse of EncodeGroupMemberContainer.
func DecodeGroupMemberContainer(b []byte) (creatorIdentity string, groupID uint64, innerData []byte, err error) {
	if len(b) < 16 {
		return "", 0, nil, dterrors.ErrMalformedFrame
	}
	creatorIdentity = trimIdentity(b[:8])
	groupID = binary.LittleEndian.Uint64(b[8:16])
	innerData = append([]byte(nil), b[16:]...)
	return creatorIdentity, groupID, innerData, nil
}
