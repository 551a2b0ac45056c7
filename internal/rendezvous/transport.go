package rendezvous

import (
	"context"

	"github.com/gorilla/websocket"

	"devicelink/internal/domain/interfaces"
)

// WSDialer opens gorilla/websocket connections, grounded on the shape of
// the teacher's relay.HTTP client (a thin struct wrapping the concrete
// client and satisfying the domain-facing interface).
type WSDialer struct{}

var _ interfaces.Dialer = WSDialer{}

func (WSDialer) Dial(ctx context.Context, url string) (interfaces.FrameConn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return &wsConn{conn: conn}, nil
}

// wsConn adapts a gorilla/websocket connection to interfaces.FrameConn.
type wsConn struct {
	conn *websocket.Conn
}

var _ interfaces.FrameConn = (*wsConn)(nil)

func (c *wsConn) ReadMessage(ctx context.Context) ([]byte, error) {
	_, b, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (c *wsConn) WriteMessage(ctx context.Context, b []byte) error {
	return c.conn.WriteMessage(websocket.BinaryMessage, b)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}
