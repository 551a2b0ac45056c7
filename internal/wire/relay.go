package wire

import (
	"encoding/binary"

	dterrors "devicelink/internal/domain/errors"
)

// RelayDecoder accumulates bytes from successive socket reads and yields
// complete `u32-LE length || payload` frames in order, buffering any
// partial tail (spec.md §4.2, relay framing).
type RelayDecoder struct {
	buf []byte
}

// Feed appends newly read bytes to the decoder's buffer.
func (d *RelayDecoder) Feed(b []byte) {
	d.buf = append(d.buf, b...)
}

// Next pops one complete frame's payload from the buffer, if present.
func (d *RelayDecoder) Next() (payload []byte, ok bool) {
	if len(d.buf) < 4 {
		return nil, false
	}
	n := binary.LittleEndian.Uint32(d.buf[:4])
	if uint32(len(d.buf)-4) < n {
		return nil, false
	}
	payload = make([]byte, n)
	copy(payload, d.buf[4:4+n])
	d.buf = d.buf[4+n:]
	return payload, true
}

// EncodeRelayFrame prepends a u32-LE length to payload.
func EncodeRelayFrame(payload []byte) []byte {
	out := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(out, uint32(len(payload)))
	copy(out[4:], payload)
	return out
}

// DecodeSingleRelayFrame decodes exactly one frame out of b, requiring that
// b contains no trailing bytes. No transport in this module calls it (nor
// RelayDecoder or EncodeRelayFrame): rendezvous.WSDialer connections read
// and write each WebSocket message as-is, without relay length prefixes.
func DecodeSingleRelayFrame(b []byte) ([]byte, error) {
	if len(b) < 4 {
		return nil, dterrors.ErrMalformedFrame
	}
	n := binary.LittleEndian.Uint32(b[:4])
	if uint32(len(b)-4) != n {
		return nil, dterrors.ErrMalformedFrame
	}
	return b[4:], nil
}
