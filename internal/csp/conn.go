package csp

import (
	"context"

	"devicelink/internal/wire"
)

// ProxyTransport is the raw byte-chunk stream underneath a CSP session:
// the mediator's proxy channel (D2M type 0x00). Chunk boundaries carry no
// protocol meaning; Conn re-frames them.
type ProxyTransport interface {
	ReadProxy(ctx context.Context) ([]byte, error)
	WriteProxy(ctx context.Context, b []byte) error
}

// Conn buffers a ProxyTransport's byte stream so the handshake can pull
// exact-length spans and the steady state can pull complete CSP frames.
type Conn struct {
	transport ProxyTransport
	buf       []byte
	frames    wire.CSPFrameDecoder
}

func NewConn(transport ProxyTransport) *Conn {
	return &Conn{transport: transport}
}

// ReadExactly blocks until n bytes are available, reading further chunks
// from the transport as needed.
func (c *Conn) ReadExactly(ctx context.Context, n int) ([]byte, error) {
	for len(c.buf) < n {
		chunk, err := c.transport.ReadProxy(ctx)
		if err != nil {
			return nil, err
		}
		c.buf = append(c.buf, chunk...)
	}
	out := append([]byte(nil), c.buf[:n]...)
	c.buf = c.buf[n:]
	return out, nil
}

// ReadFrame blocks until one complete CSP frame (length:u16LE ||
// authenticated-payload) is available and returns its encrypted payload.
func (c *Conn) ReadFrame(ctx context.Context) ([]byte, error) {
	for {
		if payload, ok := c.frames.Next(); ok {
			return payload, nil
		}
		chunk, err := c.transport.ReadProxy(ctx)
		if err != nil {
			return nil, err
		}
		c.frames.Feed(chunk)
	}
}

// WriteRaw writes bytes with no CSP framing (used only for the initial
// unframed 48-byte ClientHello).
func (c *Conn) WriteRaw(ctx context.Context, b []byte) error {
	return c.transport.WriteProxy(ctx, b)
}

// WriteFrame wraps an already-encrypted payload in CSP length-prefix
// framing and writes it.
func (c *Conn) WriteFrame(ctx context.Context, encryptedPayload []byte) error {
	return c.transport.WriteProxy(ctx, wire.EncodeCSPFrame(encryptedPayload))
}
