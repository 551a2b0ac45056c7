package wire

import (
	dterrors "devicelink/internal/domain/errors"
)

// PadBody appends PKCS7-style padding to body: pick padLen (normally
// caller-supplied random in [1,255]), but if len(body)+padLen would land
// under 32 bytes, widen padLen to exactly reach 32. The padding bytes all
// equal padLen itself (spec.md §4.7, §8 scenario 3).
func PadBody(body []byte, padLen int) []byte {
	if len(body)+padLen < 32 {
		padLen = 32 - len(body)
	}
	out := make([]byte, len(body)+padLen)
	copy(out, body)
	for i := len(body); i < len(out); i++ {
		out[i] = byte(padLen)
	}
	return out
}

// UnpadBody strips PadBody's padding and returns the original body.
func UnpadBody(padded []byte) ([]byte, error) {
	if len(padded) == 0 {
		return nil, dterrors.ErrMalformedFrame
	}
	padLen := int(padded[len(padded)-1])
	if padLen == 0 || padLen > len(padded) {
		return nil, dterrors.ErrMalformedFrame
	}
	return padded[:len(padded)-padLen], nil
}
