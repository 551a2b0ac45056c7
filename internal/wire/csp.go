package wire

import (
	"encoding/binary"

	dterrors "devicelink/internal/domain/errors"
)

// CSPContainerType identifies the container carried inside one decrypted
// CSP envelope (spec.md §4.6).
type CSPContainerType uint8

const (
	CSPEchoRequest             CSPContainerType = 0x00
	CSPOutgoingMessage         CSPContainerType = 0x01
	CSPIncomingMessage         CSPContainerType = 0x02
	CSPUnblockIncomingMessages CSPContainerType = 0x03
	CSPEchoResponse            CSPContainerType = 0x80
	CSPOutgoingMessageAck      CSPContainerType = 0x81
	CSPIncomingMessageAck      CSPContainerType = 0x82
)

// EncodeCSPFrame prepends a u16-LE length to an already-encrypted payload
// (ciphertext including the Poly1305 tag).
func EncodeCSPFrame(encryptedPayload []byte) []byte {
	out := make([]byte, 2+len(encryptedPayload))
	binary.LittleEndian.PutUint16(out, uint16(len(encryptedPayload)))
	copy(out[2:], encryptedPayload)
	return out
}

// CSPFrameDecoder accumulates proxied bytes and yields complete
// `length:u16-LE || authenticated-payload` frames.
type CSPFrameDecoder struct {
	buf []byte
}

// Feed appends newly received proxy bytes to the decoder's buffer.
func (d *CSPFrameDecoder) Feed(b []byte) { d.buf = append(d.buf, b...) }

// Next pops one frame's encrypted payload, if a complete one is buffered.
func (d *CSPFrameDecoder) Next() (encryptedPayload []byte, ok bool) {
	if len(d.buf) < 2 {
		return nil, false
	}
	n := binary.LittleEndian.Uint16(d.buf[:2])
	if len(d.buf)-2 < int(n) {
		return nil, false
	}
	encryptedPayload = make([]byte, n)
	copy(encryptedPayload, d.buf[2:2+int(n)])
	d.buf = d.buf[2+int(n):]
	return encryptedPayload, true
}

// CSPContainer is a decrypted CSP envelope's plaintext: a 4-byte header
// (type:u8 || reserved:3 bytes) followed by container-specific data.
type CSPContainer struct {
	Type CSPContainerType
	Data []byte
}

// EncodeCSPContainer builds the 4-byte header plus data that gets AEAD
// sealed before framing.
func EncodeCSPContainer(t CSPContainerType, data []byte) []byte {
	out := make([]byte, 4+len(data))
	out[0] = byte(t)
	copy(out[4:], data)
	return out
}

// DecodeCSPContainer splits a decrypted CSP plaintext into its container
// header and data.
func DecodeCSPContainer(plaintext []byte) (CSPContainer, error) {
	if len(plaintext) < 4 {
		return CSPContainer{}, dterrors.ErrMalformedFrame
	}
	return CSPContainer{Type: CSPContainerType(plaintext[0]), Data: plaintext[4:]}, nil
}

// EncodeOutgoingMessageAck builds the 0x81 container data:
// receiverIdentity(8) || messageId:u64LE.
func EncodeOutgoingMessageAck(receiverIdentity string, messageID uint64) []byte {
	out := make([]byte, 16)
	id := padIdentity(receiverIdentity)
	copy(out[:8], id[:])
	binary.LittleEndian.PutUint64(out[8:], messageID)
	return out
}

// DecodeOutgoingMessageAck parses the 0x81 container data.
func DecodeOutgoingMessageAck(data []byte) (receiverIdentity string, messageID uint64, err error) {
	if len(data) != 16 {
		return "", 0, dterrors.ErrMalformedFrame
	}
	return trimIdentity(data[:8]), binary.LittleEndian.Uint64(data[8:]), nil
}

func padIdentity(id string) [8]byte {
	var out [8]byte
	copy(out[:], id)
	return out
}

func trimIdentity(b []byte) string {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	return string(b[:n])
}
