package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	dterrors "devicelink/internal/domain/errors"
	"devicelink/internal/domain/types"
	"devicelink/internal/store"
)

func TestIdentitySaveLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	s := store.NewIdentityFileStore(dir)

	id := types.Identity{
		Identity:       "ABCD1234",
		ClientKey:      types.X25519Private{1, 2, 3},
		ServerGroup:    "shard-1",
		DeviceGroupKey: types.SymmetricKey{4, 5, 6},
		DeviceCookie:   [16]byte{7, 8, 9},
		ContactCount:   2,
		GroupCount:     1,
		LinkedAt:       "2026-08-06T00:00:00Z",
	}
	require.NoError(t, s.SaveIdentity(id))

	got, err := s.LoadIdentity()
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestIdentityLoadMissingReturnsErrIdentityMissing(t *testing.T) {
	s := store.NewIdentityFileStore(t.TempDir())
	_, err := s.LoadIdentity()
	require.ErrorIs(t, err, dterrors.ErrIdentityMissing)
}

func TestIdentitySaveDeviceIDPreservesOtherFields(t *testing.T) {
	dir := t.TempDir()
	s := store.NewIdentityFileStore(dir)

	id := types.Identity{Identity: "ABCD1234", ServerGroup: "shard-1"}
	require.NoError(t, s.SaveIdentity(id))
	require.NoError(t, s.SaveDeviceID(42))

	got, err := s.LoadIdentity()
	require.NoError(t, err)
	require.Equal(t, uint64(42), got.DeviceID)
	require.Equal(t, "shard-1", got.ServerGroup)
}

func TestContactSaveLoadAndList(t *testing.T) {
	dir := t.TempDir()
	s := store.NewContactFileStore(dir)

	mask := types.FeatureReactions
	c := types.Contact{Identity: "PEER0001", PublicKey: types.X25519Public{9}, FeatureMask: &mask}
	require.NoError(t, s.SaveContact(c))

	got, ok, err := s.LoadContact("PEER0001")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, c, got)

	_, ok, err = s.LoadContact("NOBODY01")
	require.NoError(t, err)
	require.False(t, ok)

	all, err := s.ListContacts()
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestGroupSaveLoadKeyedByCreatorAndID(t *testing.T) {
	dir := t.TempDir()
	s := store.NewGroupFileStore(dir)

	g := types.Group{CreatorIdentity: "CREATOR1", GroupID: 7, MemberIdentities: []string{"A", "B"}}
	require.NoError(t, s.SaveGroup(g))

	got, ok, err := s.LoadGroup("CREATOR1", 7)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, g, got)

	_, ok, err = s.LoadGroup("CREATOR1", 8)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDedupeSaveLoadDefaultsVersion(t *testing.T) {
	dir := t.TempDir()
	s := store.NewDedupeFileStore(dir)

	f, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, types.DedupeFileVersion1, f.Version)

	f.Keys = []string{"a", "b"}
	f.UpdatedAt = "2026-08-06T00:00:00Z"
	require.NoError(t, s.Save(f))

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, f, got)
}

func TestMediaSaveInboundSanitizesFilename(t *testing.T) {
	dir := t.TempDir()
	s := store.NewMediaFileStore(dir)

	path, err := s.SaveInbound("SENDER01", time.UnixMilli(1000), 42, "../../etc/passwd", []byte("data"))
	require.NoError(t, err)
	require.Contains(t, path, "SENDER01")
	require.NotContains(t, path, "..")
	require.Contains(t, path, "1000-42-passwd")
}
