package wire

import (
	"encoding/json"

	"devicelink/internal/domain/types"
)

// EncodeFileMessage marshals a FileMessage to the short-field-name JSON
// body carried in innerData of file/group-file messages (spec.md §4.2).
// Absent fields are omitted via the type's own json tags.
func EncodeFileMessage(m types.FileMessage) ([]byte, error) {
	return json.Marshal(m)
}

// DecodeFileMessage is the inverse of EncodeFileMessage.
func DecodeFileMessage(b []byte) (types.FileMessage, error) {
	var m types.FileMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return types.FileMessage{}, err
	}
	return m, nil
}
