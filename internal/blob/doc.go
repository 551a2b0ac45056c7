// Package blob implements the media channel (spec.md §4.8): per-message
// blob-key generation, fixed-nonce AEAD of file/thumbnail bytes, and
// scope-selected HTTP multipart upload/download, refusing to reuse a
// blob key across two payloads.
package blob
