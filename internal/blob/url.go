package blob

import "fmt"

// Scope selects which URL shape a blob upload/download uses (spec.md
// §4.8): public is a single well-known endpoint, local is a templated
// mirror scoped to this device group.
type Scope int

const (
	ScopePublic Scope = iota
	ScopeLocal
)

// UploadURL builds the scope-selected upload target.
func UploadURL(host string, scope Scope, deviceGroupPrefix string, deviceID uint64, deviceGroupID string) string {
	if scope == ScopeLocal {
		return fmt.Sprintf("https://blob-%s.%s/upload?deviceId=%016x&deviceGroupId=%s", deviceGroupPrefix, host, deviceID, deviceGroupID)
	}
	return fmt.Sprintf("https://blob.%s/upload?persist=1", host)
}

// DownloadURLs lists candidate download URLs in try-order: public first,
// then the local mirror.
func DownloadURLs(host, blobIDHex, deviceGroupPrefix string) []string {
	return []string{
		fmt.Sprintf("https://blob.%s/%s", host, blobIDHex),
		fmt.Sprintf("https://blob-%s.%s/%s", deviceGroupPrefix, host, blobIDHex),
	}
}
