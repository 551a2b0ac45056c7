package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"devicelink/internal/domain/interfaces"
)

const (
	mediaInboundDir = "media/inbound"
	mediaJoinDir    = "media/join"
)

// MediaFileStore persists inbound file-message payloads under
// media/inbound/<sender>/<timestamp>-<messageId>-<name> (spec.md §6).
type MediaFileStore struct {
	dir string
}

func NewMediaFileStore(dir string) *MediaFileStore {
	return &MediaFileStore{dir: dir}
}

// SaveInbound writes data to disk and returns the path it was written to.
// filename is sanitized to its base name only: it comes from a remote
// sender's file message and must never be interpreted as a path.
func (s *MediaFileStore) SaveInbound(sender string, timestamp time.Time, messageID uint64, filename string, data []byte) (string, error) {
	safeName := filepath.Base(filepath.Clean(strings.ReplaceAll(filename, `\`, "/")))
	if safeName == "." || safeName == "/" || safeName == "" {
		safeName = "file"
	}

	dir := filepath.Join(s.dir, mediaInboundDir, filepath.Base(sender))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}

	entry := fmt.Sprintf("%d-%d-%s", timestamp.UnixMilli(), messageID, safeName)
	path := filepath.Join(dir, entry)
	if err := writeFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// SaveJoinBlob writes one device-join blob to disk under media/join,
// named by its wire id (e.g. a profile or group photo transferred
// alongside EssentialData).
func (s *MediaFileStore) SaveJoinBlob(id uint32, data []byte) (string, error) {
	dir := filepath.Join(s.dir, mediaJoinDir)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%d.bin", id))
	if err := writeFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

var _ interfaces.MediaStore = (*MediaFileStore)(nil)
