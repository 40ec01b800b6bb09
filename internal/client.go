package internal

import (
	"context"
	"io"

	"github.com/frankli0324/async-http-client/internal/dialer"
	"github.com/frankli0324/async-http-client/internal/http"
	"github.com/frankli0324/async-http-client/internal/transport"
)

type Handler = func(ctx context.Context, req *http.PreparedRequest) (*http.Response, error)
type Middleware func(next Handler) Handler

// defaultDialer is used by zero valued clients, connections are pooled
// across all of them.
var defaultDialer = &dialer.CoreDialer{}

type Client struct {
	middlewares []Middleware
	dialer      dialer.Dialer
}

// Use appends mw to the end of the chain. The last "Use"d mw executes first
func (c *Client) Use(mws ...Middleware) {
	c.middlewares = append(c.middlewares, mws...)
}

// UseDialer replaces the dialer of c with the one returned by fn, which
// receives the current one, e.g. for wrapping it.
func (c *Client) UseDialer(fn func(dialer.Dialer) dialer.Dialer) {
	c.dialer = fn(c.getDialer())
}

// UseCoreDialer hands fn a copy of the *[dialer.CoreDialer] currently in
// use, so that it could be configured without affecting other clients.
// The copy has its own connection pool and a non-nil TLSConfig.
func (c *Client) UseCoreDialer(fn func(*dialer.CoreDialer) dialer.Dialer) {
	core := defaultDialer
	for d := c.getDialer(); d != nil; d = d.Unwrap() {
		if cd, ok := d.(*dialer.CoreDialer); ok {
			core = cd
			break
		}
	}
	cd := core.Clone()
	if cd.ConnPool == nil {
		cd.ConnPool = dialer.NewCoreDialer().ConnPool
	}
	if cd.TLSConfig == nil {
		cd.TLSConfig = dialer.NewCoreDialer().TLSConfig
	}
	c.dialer = fn(cd)
}

func (c *Client) getDialer() dialer.Dialer {
	if c.dialer != nil {
		return c.dialer
	}
	return defaultDialer
}

// Do is [Client.CtxDo] with a background context.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.CtxDo(context.Background(), req)
}

func (c *Client) CtxDo(ctx context.Context, req *http.Request) (*http.Response, error) {
	pr, err := req.Prepare()
	if err != nil {
		return nil, err
	}
	next := c.roundTrip
	for _, mw := range c.middlewares {
		next = mw(next)
	}
	return next(ctx, pr)
}

// roundTrip sends pr over a dialed connection, which is given back to
// the dialer when the response allows reusing it.
func (c *Client) roundTrip(ctx context.Context, pr *http.PreparedRequest) (*http.Response, error) {
	conn, err := c.getDialer().Dial(ctx, pr)
	if err != nil {
		return nil, err
	}
	resp, err := transport.RoundTrip(ctx, conn, pr)
	if err != nil {
		conn.Close()
		return nil, err
	}
	release(conn, resp.Close)
	return resp, nil
}

func release(conn io.ReadWriteCloser, closeConn bool) {
	if r, ok := conn.(interface{ Release() }); ok && !closeConn {
		r.Release()
		return
	}
	conn.Close()
}
