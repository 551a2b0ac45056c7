package store

import (
	"os"
	"path/filepath"
	"sync"

	dterrors "devicelink/internal/domain/errors"
	"devicelink/internal/domain/interfaces"
	"devicelink/internal/domain/types"
)

const identityFilename = "identity.json"

// IdentityFileStore persists the local account identity to disk, in
// plaintext hex JSON (spec.md §6 — no passphrase-derived envelope
// encryption is in scope for this protocol).
type IdentityFileStore struct {
	dir string
	mu  sync.Mutex
}

func NewIdentityFileStore(dir string) *IdentityFileStore {
	return &IdentityFileStore{dir: dir}
}

func (s *IdentityFileStore) SaveIdentity(id types.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(filepath.Join(s.dir, identityFilename), id, 0o600)
}

func (s *IdentityFileStore) LoadIdentity() (types.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, identityFilename)
	var id types.Identity
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return types.Identity{}, dterrors.ErrIdentityMissing
	}
	if err := readJSON(path, &id); err != nil {
		return types.Identity{}, err
	}
	return id, nil
}

// SaveDeviceID rewrites only the deviceId field of an already-persisted
// identity, leaving every other field untouched.
func (s *IdentityFileStore) SaveDeviceID(deviceID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, identityFilename)
	var id types.Identity
	if err := readJSON(path, &id); err != nil {
		return err
	}
	if id.Identity == "" {
		return dterrors.ErrIdentityMissing
	}
	id.DeviceID = deviceID
	return writeJSON(path, id, 0o600)
}

var _ interfaces.IdentityStore = (*IdentityFileStore)(nil)
