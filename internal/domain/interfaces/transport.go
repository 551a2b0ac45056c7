package interfaces

import "context"

// FrameConn is the minimal WebSocket-shaped transport the core drives: send
// and receive whole binary messages. Concrete implementations wrap
// gorilla/websocket; tests can substitute an in-memory pipe.
type FrameConn interface {
	ReadMessage(ctx context.Context) ([]byte, error)
	WriteMessage(ctx context.Context, b []byte) error
	Close() error
}

// Dialer opens a FrameConn to a URL. Kept as an interface so the rendezvous
// and mediator sessions are unit-testable without a real network.
type Dialer interface {
	Dial(ctx context.Context, url string) (FrameConn, error)
}

// BlobUploader is the "blob service contract" of spec.md §6: multipart
// upload returning a 32-char hex id.
type BlobUploader interface {
	Upload(ctx context.Context, url string, ciphertext []byte) (blobIDHex string, err error)
}

// BlobDownloader fetches raw ciphertext from a candidate URL.
type BlobDownloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}
