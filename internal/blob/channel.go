package blob

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"

	"devicelink/internal/crypto"
	dterrors "devicelink/internal/domain/errors"
	"devicelink/internal/domain/interfaces"
	"devicelink/internal/domain/types"
)

// Channel drives per-message blob encryption, upload, and download. It
// refuses to encrypt a second payload under the same key (spec.md §4.8,
// §9): the fixed nonces are safe only under per-message key freshness.
type Channel struct {
	uploader   interfaces.BlobUploader
	downloader interfaces.BlobDownloader
	host       string

	mu       sync.Mutex
	usedKeys map[types.SymmetricKey]struct{}
}

func NewChannel(uploader interfaces.BlobUploader, downloader interfaces.BlobDownloader, host string) *Channel {
	return &Channel{
		uploader:   uploader,
		downloader: downloader,
		host:       host,
		usedKeys:   make(map[types.SymmetricKey]struct{}),
	}
}

// Uploaded is the result of encrypting and uploading one file, and
// optionally a thumbnail, under a single fresh blob key.
type Uploaded struct {
	BlobKey         types.SymmetricKey
	BlobIDHex       string
	ThumbnailBlobID string
}

// Upload encrypts data (and, if present, thumbnail) under one freshly
// generated blob key and uploads both to scope's URL.
func (c *Channel) Upload(ctx context.Context, scope Scope, deviceGroupPrefix string, deviceID uint64, deviceGroupID string, data, thumbnail []byte) (Uploaded, error) {
	keyBytes, err := crypto.RandomBytes(32)
	if err != nil {
		return Uploaded{}, err
	}
	key := types.MustSymmetricKey(keyBytes)

	if err := c.claim(key); err != nil {
		return Uploaded{}, err
	}

	ciphertext := crypto.SecretboxSeal(key, crypto.FileNonce, data)
	uploadURL := UploadURL(c.host, scope, deviceGroupPrefix, deviceID, deviceGroupID)
	blobIDHex, err := c.uploader.Upload(ctx, uploadURL, ciphertext)
	if err != nil {
		return Uploaded{}, fmt.Errorf("blob upload: %w", err)
	}

	result := Uploaded{BlobKey: key, BlobIDHex: blobIDHex}
	if len(thumbnail) > 0 {
		thumbCiphertext := crypto.SecretboxSeal(key, crypto.ThumbnailNonce, thumbnail)
		thumbID, err := c.uploader.Upload(ctx, uploadURL, thumbCiphertext)
		if err != nil {
			return Uploaded{}, fmt.Errorf("thumbnail upload: %w", err)
		}
		result.ThumbnailBlobID = thumbID
	}
	return result, nil
}

// claim records key as used, refusing a repeat.
func (c *Channel) claim(key types.SymmetricKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, used := c.usedKeys[key]; used {
		return dterrors.ErrBlobKeyReused
	}
	c.usedKeys[key] = struct{}{}
	return nil
}

// Download fetches blobIDHex from the first successful candidate URL
// (public, then local) and decrypts it with blobKey.
func (c *Channel) Download(ctx context.Context, blobIDHex string, blobKey types.SymmetricKey, deviceGroupPrefix string) ([]byte, error) {
	if _, err := hex.DecodeString(blobIDHex); err != nil {
		return nil, dterrors.ErrMalformedFrame
	}
	var lastErr error
	for _, url := range DownloadURLs(c.host, blobIDHex, deviceGroupPrefix) {
		ciphertext, err := c.downloader.Download(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}
		return crypto.SecretboxOpen(blobKey, crypto.FileNonce, ciphertext)
	}
	return nil, fmt.Errorf("blob download: all candidate URLs failed: %w", lastErr)
}

// DownloadThumbnail is Download's counterpart for the thumbnail slot,
// which is sealed under ThumbnailNonce instead of FileNonce.
func (c *Channel) DownloadThumbnail(ctx context.Context, blobIDHex string, blobKey types.SymmetricKey, deviceGroupPrefix string) ([]byte, error) {
	var lastErr error
	for _, url := range DownloadURLs(c.host, blobIDHex, deviceGroupPrefix) {
		ciphertext, err := c.downloader.Download(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}
		return crypto.SecretboxOpen(blobKey, crypto.ThumbnailNonce, ciphertext)
	}
	return nil, fmt.Errorf("thumbnail download: all candidate URLs failed: %w", lastErr)
}
