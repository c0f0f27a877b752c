package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"
)

// DefaultRawPort is the HP JetDirect raw printing port.
const DefaultRawPort = 9100

type tcpConn struct {
	net.Conn
}

func openTCP(ctx context.Context, address string, opts Options) (io.ReadWriteCloser, error) {
	if _, _, err := net.SplitHostPort(address); err != nil {
		address = net.JoinHostPort(address, fmt.Sprint(DefaultRawPort))
	}
	dialer := net.Dialer{Timeout: opts.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}
	return &tcpConn{Conn: conn}, nil
}

var pastDeadline = time.Unix(1, 0)

// ReadContext reads with the context deadline applied, unblocking when the
// context is cancelled.
func (c *tcpConn) ReadContext(ctx context.Context, p []byte) (int, error) {
	dl, _ := ctx.Deadline()
	if err := c.SetReadDeadline(dl); err != nil {
		return 0, err
	}
	stop := context.AfterFunc(ctx, func() { c.SetReadDeadline(pastDeadline) })
	defer stop()
	n, err := c.Conn.Read(p)
	return n, contextError(ctx, err)
}

// WriteContext writes with the context deadline applied.
func (c *tcpConn) WriteContext(ctx context.Context, p []byte) (int, error) {
	dl, _ := ctx.Deadline()
	if err := c.SetWriteDeadline(dl); err != nil {
		return 0, err
	}
	stop := context.AfterFunc(ctx, func() { c.SetWriteDeadline(pastDeadline) })
	defer stop()
	n, err := c.Conn.Write(p)
	return n, contextError(ctx, err)
}

// contextError reports a deadline or cancellation as the context's error.
func contextError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		if dl, ok := ctx.Deadline(); ok && !time.Now().Before(dl) {
			return context.DeadlineExceeded
		}
	}
	return err
}
