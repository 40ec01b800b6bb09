package netpool

import (
	"io"
	"log/slog"
	"net"
	"sync/atomic"
	"time"
)

type conn struct {
	raw      net.Conn
	pool     *Pool
	closed   atomic.Bool
	lastIdle time.Time
}

func (c *conn) Available() bool {
	return !c.closed.Load()
}

// Write closes the connection on error since its state is unknown from then on.
func (c *conn) Write(p []byte) (n int, err error) {
	n, err = c.raw.Write(p)
	if err != nil {
		slog.Debug("netpool: error on write", "remote", c.raw.RemoteAddr(), "err", err)
		c.Close()
	}
	return
}

func (c *conn) Read(p []byte) (n int, err error) {
	n, err = c.raw.Read(p)
	if err != nil {
		if err != io.EOF {
			slog.Debug("netpool: error on read", "remote", c.raw.RemoteAddr(), "err", err)
		}
		c.Close()
	}
	return n, err
}

func (c *conn) Raw() net.Conn {
	return c.raw
}

// Release hands the connection back to its pool for reuse.
func (c *conn) Release() {
	c.pool.release(c)
}

// Close closes the underlying connection and frees its slot in the pool.
// It's safe to be called multiple times.
func (c *conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := c.raw.Close()
	<-c.pool.slots
	return err
}
