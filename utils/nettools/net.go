// Package nettools inspects the state of connections at the file
// descriptor level, where the platform allows.
package nettools

import (
	"net"
	"syscall"
)

// probe reports whether the connection behind rc is still usable. It's
// nil on platforms without a poll implementation.
var probe func(rc syscall.RawConn) bool

// Alive reports whether c, an idle client connection, could still be
// written a request to. An idle connection that became readable has
// either been closed by the peer or received data nobody asked for,
// neither of which is usable. Connections whose descriptor couldn't be
// reached are assumed alive.
func Alive(c net.Conn) bool {
	if probe == nil {
		return true
	}
	rc := connsToFD(c)
	if rc == nil {
		return true
	}
	return probe(rc)
}

func connsToFD(raw net.Conn) syscall.RawConn {
	if t, ok := raw.(interface{ NetConn() net.Conn }); ok {
		// is *tls.Conn
		raw = t.NetConn()
	}
	if c, ok := raw.(syscall.Conn); ok {
		if c, err := c.SyscallConn(); err == nil {
			return c
		}
	}
	return nil
}
