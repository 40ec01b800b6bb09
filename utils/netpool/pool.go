package netpool

import (
	"context"
	"io"
	"net"
	"time"

	"github.com/frankli0324/async-http-client/utils/nettools"
)

type Conn interface {
	io.ReadWriteCloser
	Release()
	Raw() net.Conn
}

// Pool limits the connections open to a single host, and keeps released
// ones around for reuse.
type Pool struct {
	slots           chan struct{} // one per open connection, idle ones included
	idle            chan *conn
	maxIdleDuration time.Duration
}

func NewPool(maxIdle, maxConn uint, maxIdleDuration time.Duration) *Pool {
	if maxConn == 0 {
		maxConn = 1
	}
	return &Pool{
		slots:           make(chan struct{}, maxConn),
		idle:            make(chan *conn, maxIdle),
		maxIdleDuration: maxIdleDuration,
	}
}

// Connect returns an idle connection if there's a live one, or dials a new
// one once there's a free slot. It blocks until either happens or ctx is done.
func (p *Pool) Connect(ctx context.Context, dial func(ctx context.Context) (net.Conn, error)) (Conn, error) {
	for {
		select {
		case c := <-p.idle:
			if p.reusable(c) {
				return c, nil
			}
			continue
		default:
		}
		select {
		case c := <-p.idle:
			if p.reusable(c) {
				return c, nil
			}
		case p.slots <- struct{}{}:
			raw, err := dial(ctx)
			if err != nil {
				<-p.slots
				return nil, err
			}
			return &conn{raw: raw, pool: p}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// reusable closes c and reports false if c shouldn't be handed out again.
func (p *Pool) reusable(c *conn) bool {
	if !c.Available() {
		return false
	}
	if (p.maxIdleDuration != 0 && time.Since(c.lastIdle) > p.maxIdleDuration) || !nettools.Alive(c.raw) {
		c.Close()
		return false
	}
	return true
}

func (p *Pool) release(c *conn) {
	if !c.Available() {
		return
	}
	c.lastIdle = time.Now()
	select {
	case p.idle <- c:
	default:
		c.Close()
	}
}

// CloseIdle closes all connections currently idle in p.
func (p *Pool) CloseIdle() {
	for {
		select {
		case c := <-p.idle:
			c.Close()
		default:
			return
		}
	}
}
