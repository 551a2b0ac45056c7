package store

import (
	"path/filepath"
	"sync"

	"devicelink/internal/domain/interfaces"
	"devicelink/internal/domain/types"
)

const contactsFilename = "contacts.json"

// ContactFileStore persists the resolved contact directory cache
// (spec.md §6) as a JSON object keyed by identity.
type ContactFileStore struct {
	dir string
	mu  sync.Mutex
}

func NewContactFileStore(dir string) *ContactFileStore {
	return &ContactFileStore{dir: dir}
}

func (s *ContactFileStore) SaveContact(c types.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, contactsFilename)
	m := make(map[string]types.Contact)
	if err := readJSON(path, &m); err != nil {
		return err
	}
	m[c.Identity] = c
	return writeJSON(path, m, 0o600)
}

func (s *ContactFileStore) LoadContact(identity string) (types.Contact, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := make(map[string]types.Contact)
	if err := readJSON(filepath.Join(s.dir, contactsFilename), &m); err != nil {
		return types.Contact{}, false, err
	}
	c, ok := m[identity]
	return c, ok, nil
}

func (s *ContactFileStore) ListContacts() ([]types.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := make(map[string]types.Contact)
	if err := readJSON(filepath.Join(s.dir, contactsFilename), &m); err != nil {
		return nil, err
	}
	out := make([]types.Contact, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	return out, nil
}

var _ interfaces.ContactStore = (*ContactFileStore)(nil)
