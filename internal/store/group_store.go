package store

import (
	"fmt"
	"path/filepath"
	"sync"

	"devicelink/internal/domain/interfaces"
	"devicelink/internal/domain/types"
)

const groupsFilename = "groups.json"

// GroupFileStore persists cached group membership (spec.md §6) as a JSON
// object keyed by "creatorIdentity:groupId".
type GroupFileStore struct {
	dir string
	mu  sync.Mutex
}

func NewGroupFileStore(dir string) *GroupFileStore {
	return &GroupFileStore{dir: dir}
}

func groupKey(creatorIdentity string, groupID uint64) string {
	return fmt.Sprintf("%s:%d", creatorIdentity, groupID)
}

func (s *GroupFileStore) SaveGroup(g types.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, groupsFilename)
	m := make(map[string]types.Group)
	if err := readJSON(path, &m); err != nil {
		return err
	}
	m[groupKey(g.CreatorIdentity, g.GroupID)] = g
	return writeJSON(path, m, 0o600)
}

func (s *GroupFileStore) LoadGroup(creatorIdentity string, groupID uint64) (types.Group, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := make(map[string]types.Group)
	if err := readJSON(filepath.Join(s.dir, groupsFilename), &m); err != nil {
		return types.Group{}, false, err
	}
	g, ok := m[groupKey(creatorIdentity, groupID)]
	return g, ok, nil
}

func (s *GroupFileStore) ListGroups() ([]types.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := make(map[string]types.Group)
	if err := readJSON(filepath.Join(s.dir, groupsFilename), &m); err != nil {
		return nil, err
	}
	out := make([]types.Group, 0, len(m))
	for _, g := range m {
		out = append(out, g)
	}
	return out, nil
}

var _ interfaces.GroupStore = (*GroupFileStore)(nil)
