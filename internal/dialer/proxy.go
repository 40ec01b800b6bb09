package dialer

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/url"

	"github.com/frankli0324/async-http-client/internal/http"
	"github.com/frankli0324/async-http-client/internal/transport"
)

var ErrProxyRefused = errors.New("proxy server refused to connect")

type ProxyConfig struct {
	TLSConfig      *tls.Config // the [*tls.Config] to use with proxy, if nil, *[CoreDialer.TLSConfig] will be used
	ResolveLocally bool
	ResolveConfig  *ResolveConfig // overrides the resolver config for dialer for proxy
}

func (c *ProxyConfig) Clone() *ProxyConfig {
	if c == nil {
		return nil
	}
	return &ProxyConfig{
		TLSConfig:      c.TLSConfig.Clone(),
		ResolveLocally: c.ResolveLocally,
		ResolveConfig:  c.ResolveConfig.Clone(),
	}
}

func (d *CoreDialer) tryDialProxy(ctx context.Context, r *http.PreparedRequest) (net.Conn, error) {
	if d.GetProxy != nil {
		proxy, perr := d.GetProxy(ctx, r.Request)
		if perr != nil {
			return nil, perr
		}
		if proxy != "" {
			proxyU, perr := url.Parse(proxy)
			if perr != nil {
				return nil, perr
			}
			return d.DialContextOverProxy(ctx, r.U, proxyU)
		}
	}
	return nil, nil
}

// DialContextOverProxy creates a tunnel to remote over an http(s) proxy
// with the CONNECT method.
// This part of logic may be reused when wrapping *[CoreDialer] into
// a new custom [Dialer]
func (d *CoreDialer) DialContextOverProxy(ctx context.Context, remote, proxy *url.URL) (net.Conn, error) {
	if proxy.Scheme != "http" && proxy.Scheme != "https" { // TODO: socks
		return nil, errors.New("unsupported proxy scheme:" + proxy.Scheme)
	}
	cfg := d.ProxyConfig
	if cfg == nil {
		cfg = &ProxyConfig{}
	}
	proxyPort := proxy.Port()
	if proxyPort == "" {
		proxyPort = http.DefaultPort(proxy.Scheme)
	}
	conn, err := d.dialDirect(ctx, d.ResolveConfig, proxy.Hostname(), proxyPort)
	if err != nil {
		return nil, err
	}

	if proxy.Scheme == "https" {
		tlsCfg := cfg.TLSConfig
		if tlsCfg == nil {
			tlsCfg = d.TLSConfig
		}
		if tlsCfg == nil {
			tlsCfg = &tls.Config{}
		}
		tlsCfg = tlsCfg.Clone()
		if tlsCfg.ServerName == "" {
			tlsCfg.ServerName = proxy.Hostname()
		}
		c := tls.Client(conn, tlsCfg)
		if err := c.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, err
		}
		conn = c
	}

	addr, port := remote.Hostname(), remote.Port()
	if port == "" {
		port = http.DefaultPort(remote.Scheme)
	}

	if cfg.ResolveLocally {
		dnsCfg := cfg.ResolveConfig.Merge(d.ResolveConfig) // nil when neither is set
		var static map[string]string
		if dnsCfg != nil {
			static = dnsCfg.StaticHosts
		}
		if res, ok := static[addr]; ok {
			addr = res
		} else if net.ParseIP(addr) == nil {
			ips, err := d.lookup(ctx, dnsCfg, addr)
			if err != nil {
				conn.Close()
				return nil, err
			}
			if len(ips) == 0 {
				conn.Close()
				return nil, fmt.Errorf("%w for %s", http.ErrNoAddress, addr)
			}
			addr = ips[rand.Intn(len(ips))].String()
		}
	}

	connReq := &http.Request{
		Method: http.MethodConnect,
		URL:    "//" + net.JoinHostPort(addr, port),
	}
	connReq.WithHeader("Host", remote.Host)
	if u := proxy.User; u != nil {
		password, _ := u.Password()
		auth := u.Username() + ":" + password
		connReq.WithHeader("Proxy-Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(auth)))
	}
	pr, err := connReq.Prepare()
	if err != nil {
		conn.Close()
		return nil, err
	}
	framed := transport.NewHTTP(conn)
	resp, err := connect(ctx, framed, pr)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if !resp.IsSuccessful() {
		conn.Close()
		return nil, fmt.Errorf("%w. status:%d, body:%s", ErrProxyRefused, resp.StatusCode, string(resp.Body))
	}
	if early := framed.Buffered(); len(early) > 0 {
		// the remote already spoke through the tunnel
		return &prefixedConn{Conn: conn, prefix: append([]byte(nil), early...)}, nil
	}
	return conn, nil
}

func connect(ctx context.Context, framed *transport.HTTP, pr *http.PreparedRequest) (*http.Response, error) {
	if err := framed.Send(ctx, pr); err != nil {
		return nil, err
	}
	for {
		resp, err := framed.Next(ctx)
		if err == io.EOF {
			return nil, transport.ErrNoResponse
		}
		if err != nil || !resp.IsInformational() {
			return resp, err
		}
	}
}

// prefixedConn reads prefix before reading from Conn.
type prefixedConn struct {
	net.Conn
	prefix []byte
}

func (c *prefixedConn) Read(p []byte) (int, error) {
	if len(c.prefix) > 0 {
		n := copy(p, c.prefix)
		c.prefix = c.prefix[n:]
		return n, nil
	}
	return c.Conn.Read(p)
}
