package supervisor

import (
	"context"
	"sync"

	dterrors "devicelink/internal/domain/errors"
)

// mediatorSender is the slice of mediator.Session a proxyBridge needs to
// write to the D2M proxy channel.
type mediatorSender interface {
	SendProxyBytes(ctx context.Context, b []byte) error
}

// proxyBridge implements csp.ProxyTransport over a mediator session's
// proxy channel (D2M frame type 0x00): writes go straight through
// SendProxyBytes, reads come from a channel fed by the mediator's
// Handlers.OnProxyBytes callback (spec.md §4.6 "CSP-over-mediator").
type proxyBridge struct {
	sender mediatorSender

	mu     sync.Mutex
	closed bool
	closeErr error
	chunks chan []byte
}

func newProxyBridge(sender mediatorSender) *proxyBridge {
	return &proxyBridge{sender: sender, chunks: make(chan []byte, 32)}
}

// feed is called from the mediator session's read loop for every proxy
// frame it receives. It must never block the mediator's read loop, so a
// full buffer drops the oldest queued chunk rather than stalling.
func (p *proxyBridge) feed(b []byte) {
	cp := append([]byte(nil), b...)
	select {
	case p.chunks <- cp:
	default:
		select {
		case <-p.chunks:
		default:
		}
		p.chunks <- cp
	}
}

// closeWith unblocks any pending ReadProxy once the underlying mediator
// session is gone.
func (p *proxyBridge) closeWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.closeErr = err
	close(p.chunks)
}

func (p *proxyBridge) ReadProxy(ctx context.Context) ([]byte, error) {
	select {
	case chunk, ok := <-p.chunks:
		if !ok {
			p.mu.Lock()
			err := p.closeErr
			p.mu.Unlock()
			if err == nil {
				err = dterrors.ErrTransportClosed
			}
			return nil, err
		}
		return chunk, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *proxyBridge) WriteProxy(ctx context.Context, b []byte) error {
	return p.sender.SendProxyBytes(ctx, b)
}
