package dialer

import (
	"context"
	"crypto/tls"
	"io"
	"net"

	"github.com/frankli0324/async-http-client/internal/http"
	"github.com/frankli0324/async-http-client/utils/netpool"
)

var pool = netpool.NewGroup(100, 80)

var zeroDialer net.Dialer
var customDnsDialer = net.Dialer{
	Resolver: &customServerResolver,
}

func (d *CoreDialer) Dial(ctx context.Context, r *http.PreparedRequest) (io.ReadWriteCloser, error) {
	addr, port := r.U.Hostname(), r.U.Port()
	if port == "" {
		port = http.DefaultPort(r.U.Scheme)
	}
	hp := net.JoinHostPort(addr, port)
	connPool := d.ConnPool
	if connPool == nil {
		connPool = pool
	}
	// plain and tls connections to the same host:port must not mix
	return connPool.Connect(ctx, r.U.Scheme+"://"+hp, func(ctx context.Context) (conn net.Conn, err error) {
		conn, err = d.tryDialProxy(ctx, r)
		if err != nil {
			return nil, err
		}
		if conn == nil {
			conn, err = d.dialDirect(ctx, d.ResolveConfig, addr, port)
			if err != nil {
				return nil, err
			}
		}
		if r.U.Scheme == "https" {
			return d.handshake(ctx, conn, r.U.Hostname())
		}
		return conn, nil
	})
}

func (d *CoreDialer) dialDirect(ctx context.Context, cfg *ResolveConfig, addr, port string) (net.Conn, error) {
	network, dialer, dialctx, dst := "tcp", &zeroDialer, ctx, net.JoinHostPort(addr, port)
	if cfg != nil {
		if cfg.Network == "ip4" {
			network = "tcp4"
		} else if cfg.Network == "ip6" {
			network = "tcp6"
		}
		if static, ok := cfg.StaticHosts[addr]; ok {
			dst = net.JoinHostPort(static, port)
		}
		if dns := cfg.CustomDNSServer; dns != "" {
			dialctx = dnsServerCtx{dialctx, dns}
			dialer = &customDnsDialer
		}
	}
	return dialer.DialContext(dialctx, network, dst)
}

// handshake wraps conn with tls. HTTP/2 is never offered, only HTTP/1.1
// is spoken over the connection.
func (d *CoreDialer) handshake(ctx context.Context, conn net.Conn, serverName string) (net.Conn, error) {
	config := d.TLSConfig.Clone()
	if config == nil {
		config = &tls.Config{}
	}
	if config.ServerName == "" {
		config.ServerName = serverName
	}
	config.NextProtos = []string{"http/1.1"}
	c := tls.Client(conn, config)
	if err := c.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}
