// Package store implements the file-based persistence spec.md §6 names:
// identity.json, contacts.json, groups.json, incoming-message-dedupe.json,
// and media/inbound/<sender>/<timestamp>-<messageId>-<name>. Every store
// type is a thin, sync.Mutex-guarded wrapper over the JSON file, following
// the teacher's IdentityFileStore/ContactFileStore naming and locking
// discipline.
package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// readJSON best-effort reads path into out; a missing file is not an error
// and leaves out untouched.
func readJSON(path string, out any) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// writeJSON marshals v and writes it via a temp file in the same directory
// followed by an atomic rename, so a crash mid-write never leaves a
// truncated or partially-written file in place.
func writeJSON(path string, v any, mode os.FileMode) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(path, b, mode)
}

func writeFile(path string, b []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	f, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
