package blob

import (
	"context"
	"encoding/hex"
	"errors"
	"testing"

	dterrors "devicelink/internal/domain/errors"
)

type memUploader struct {
	stored map[string][]byte
	nextID byte
}

func newMemUploader() *memUploader {
	return &memUploader{stored: make(map[string][]byte)}
}

func (u *memUploader) Upload(ctx context.Context, url string, ciphertext []byte) (string, error) {
	u.nextID++
	id := hex.EncodeToString([]byte{u.nextID, u.nextID, u.nextID, u.nextID, u.nextID, u.nextID, u.nextID, u.nextID,
		u.nextID, u.nextID, u.nextID, u.nextID, u.nextID, u.nextID, u.nextID, u.nextID})
	u.stored[id] = append([]byte(nil), ciphertext...)
	return id, nil
}

type memDownloader struct {
	uploader     *memUploader
	failFirstURL bool
}

func (d *memDownloader) Download(ctx context.Context, url string) ([]byte, error) {
	if d.failFirstURL {
		d.failFirstURL = false
		return nil, errors.New("public endpoint unreachable")
	}
	for id, data := range d.uploader.stored {
		if len(url) > 0 && url[len(url)-len(id):] == id {
			return data, nil
		}
	}
	return nil, errors.New("not found")
}

func TestChannelUploadDownloadRoundTrip(t *testing.T) {
	uploader := newMemUploader()
	downloader := &memDownloader{uploader: uploader}
	ch := NewChannel(uploader, downloader, "example.test")

	data := []byte("hello file contents")
	uploaded, err := ch.Upload(context.Background(), ScopePublic, "abcd1234", 42, "group1", data, nil)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if uploaded.BlobIDHex == "" {
		t.Fatal("expected non-empty blob id")
	}

	got, err := ch.Download(context.Background(), uploaded.BlobIDHex, uploaded.BlobKey, "abcd1234")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if string(got) != string(data) {
		t.Fatalf("Download = %q, want %q", got, data)
	}
}

func TestChannelDownloadFallsBackToLocalURL(t *testing.T) {
	uploader := newMemUploader()
	downloader := &memDownloader{uploader: uploader, failFirstURL: true}
	ch := NewChannel(uploader, downloader, "example.test")

	uploaded, err := ch.Upload(context.Background(), ScopeLocal, "abcd1234", 1, "g", []byte("payload"), nil)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	got, err := ch.Download(context.Background(), uploaded.BlobIDHex, uploaded.BlobKey, "abcd1234")
	if err != nil {
		t.Fatalf("Download after fallback: %v", err)
	}
	if string(got) != "payload" {
		t.Fatalf("Download = %q", got)
	}
}

func TestChannelRefusesBlobKeyReuse(t *testing.T) {
	uploader := newMemUploader()
	downloader := &memDownloader{uploader: uploader}
	ch := NewChannel(uploader, downloader, "example.test")

	uploaded, err := ch.Upload(context.Background(), ScopePublic, "", 0, "", []byte("first"), nil)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if err := ch.claim(uploaded.BlobKey); !errors.Is(err, dterrors.ErrBlobKeyReused) {
		t.Fatalf("claim on reused key = %v, want ErrBlobKeyReused", err)
	}
}

func TestChannelUploadWithThumbnail(t *testing.T) {
	uploader := newMemUploader()
	downloader := &memDownloader{uploader: uploader}
	ch := NewChannel(uploader, downloader, "example.test")

	uploaded, err := ch.Upload(context.Background(), ScopePublic, "", 0, "", []byte("main"), []byte("thumb"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if uploaded.ThumbnailBlobID == "" {
		t.Fatal("expected non-empty thumbnail blob id")
	}
	if uploaded.ThumbnailBlobID == uploaded.BlobIDHex {
		t.Fatal("thumbnail and main blob ids should differ")
	}

	thumb, err := ch.DownloadThumbnail(context.Background(), uploaded.ThumbnailBlobID, uploaded.BlobKey, "")
	if err != nil {
		t.Fatalf("DownloadThumbnail: %v", err)
	}
	if string(thumb) != "thumb" {
		t.Fatalf("DownloadThumbnail = %q", thumb)
	}
}
