package publish

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
)

// UDPOpener opens fire-and-forget UDP publish channels to a fixed endpoint
type UDPOpener struct {
	Host   string
	Port   int
	Logger *slog.Logger
}

// Open dials the UDP endpoint. UDP has no handshake, so failures here are
// limited to address resolution and socket allocation.
func (o *UDPOpener) Open(ctx context.Context) (Channel, error) {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", o.Host, o.Port))
	if err != nil {
		return nil, &TransportError{Op: "open", Err: err}
	}

	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, &TransportError{Op: "open", Err: err}
	}

	o.Logger.Info("Publish channel opened",
		slog.String("address", addr.String()),
	)

	return &udpChannel{
		conn:   conn,
		logger: o.Logger,
	}, nil
}

// udpChannel publishes frames as raw UDP datagrams
type udpChannel struct {
	conn   *net.UDPConn
	logger *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// Send writes one frame as a single datagram. The write completes inline;
// there is no acknowledgment from the transport.
func (c *udpChannel) Send(ctx context.Context, frame []byte) error {
	if deadline, ok := ctx.Deadline(); ok {
		if err := c.conn.SetWriteDeadline(deadline); err != nil {
			return &TransportError{Op: "send", Err: err}
		}
	}

	if _, err := c.conn.Write(frame); err != nil {
		return &TransportError{Op: "send", Err: err}
	}

	return nil
}

// Close releases the underlying socket; safe to call more than once
func (c *udpChannel) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}
