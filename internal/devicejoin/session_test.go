package devicejoin

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	"devicelink/internal/store"
)

// passthroughSession is a no-op Decrypter: the join transport itself is
// exercised by internal/rendezvous, this test only drives the message
// stream state machine.
type passthroughSession struct{}

func (passthroughSession) Decrypt(b []byte) ([]byte, error) { return b, nil }
func (passthroughSession) Encrypt(b []byte) ([]byte, error) { return b, nil }

// scriptedFrames plays back a fixed list of frames and records whatever is
// written back (the Registered ack).
type scriptedFrames struct {
	in      [][]byte
	pos     int
	written [][]byte
}

var errNoMoreFrames = errors.New("no more scripted frames")

func (f *scriptedFrames) ReadFrame() ([]byte, error) {
	if f.pos >= len(f.in) {
		return nil, errNoMoreFrames
	}
	b := f.in[f.pos]
	f.pos++
	return b, nil
}

func (f *scriptedFrames) WriteFrame(b []byte) error {
	f.written = append(f.written, b)
	return nil
}

func mustEncode(t *testing.T, w messageWire) []byte {
	t.Helper()
	b, err := cbor.Marshal(w)
	require.NoError(t, err)
	return b
}

// TestRunPersistsCollectedBlobs drives Begin, one BlobData frame, then
// EssentialData, and checks the blob collected in between is written to
// the media store rather than discarded (spec.md §4.4's "collected into
// an indexable map" step feeds SaveJoinBlob, it is not a dead end).
func TestRunPersistsCollectedBlobs(t *testing.T) {
	dir := t.TempDir()
	identityStore := store.NewIdentityFileStore(dir)
	contactStore := store.NewContactFileStore(dir)
	groupStore := store.NewGroupFileStore(dir)
	mediaStore := store.NewMediaFileStore(dir)

	frames := &scriptedFrames{in: [][]byte{
		mustEncode(t, messageWire{Kind: uint8(KindBegin)}),
		mustEncode(t, messageWire{Kind: uint8(KindBlobData), BlobID: 7, BlobBytes: []byte("profile-photo-bytes")}),
		mustEncode(t, messageWire{Kind: uint8(KindEssentialData), Essential: &essentialDataWire{
			Identity:       "ABCD1234",
			ClientKey:      make([]byte, 32),
			ServerGroup:    "shard-1",
			DeviceGroupKey: make([]byte, 32),
			DeviceCookie:   make([]byte, 16),
		}}),
	}}

	err := Run(passthroughSession{}, frames, identityStore, contactStore, groupStore, mediaStore)
	require.NoError(t, err)
	require.Len(t, frames.written, 1)
	require.FileExists(t, filepath.Join(dir, "media/join/7.bin"))
}

// TestRunRejectsBlobBeforeBegin enforces the fixed frame ordering: a
// BlobData frame before Begin is a protocol error.
func TestRunRejectsBlobBeforeBegin(t *testing.T) {
	dir := t.TempDir()
	frames := &scriptedFrames{in: [][]byte{
		mustEncode(t, messageWire{Kind: uint8(KindBlobData), BlobID: 1, BlobBytes: []byte("x")}),
	}}

	err := Run(passthroughSession{}, frames, store.NewIdentityFileStore(dir), store.NewContactFileStore(dir), store.NewGroupFileStore(dir), store.NewMediaFileStore(dir))
	require.Error(t, err)
}
