package crypto

import "devicelink/internal/domain/types"

// ChatServerKey is the chat server's fixed long-term X25519 public key
// (spec.md §6). It never changes and is compiled in, not configured.
var ChatServerKey = types.X25519Public{
	0x45, 0x0b, 0x97, 0x57, 0x35, 0x27, 0x9f, 0xde,
	0xcb, 0x33, 0x13, 0x64, 0x8f, 0x5f, 0xc6, 0xee,
	0x9f, 0xf4, 0x36, 0x0e, 0xa9, 0x2a, 0x8c, 0x17,
	0x51, 0xc6, 0x61, 0xe4, 0xc0, 0xd8, 0xc9, 0x09,
}

// ExtensionMagic is the 30-byte ASCII literal used in the CSP login
// extension block.
const ExtensionMagic = "threema-clever-extension-field"

// FileNonce and ThumbnailNonce are the fixed 24-byte blob nonces. They are
// safe to reuse across messages only because every blob is encrypted under
// a freshly generated key (spec.md §4.8) — callers MUST NOT reuse a key.
var (
	FileNonce      = [24]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x01}
	ThumbnailNonce = [24]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x02}
)
