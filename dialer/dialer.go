// Package dialer exposes the connection layer of the client for callers
// that wrap or replace it, e.g. with Client.UseDialer.
package dialer

import (
	"github.com/frankli0324/async-http-client/internal/dialer"
)

// Dialer opens the byte stream a request is written to and its response
// is read from, e.g. a pooled TCP or TLS connection.
//
// A Dialer MUST NOT hold per request state so that it could be swapped out
// of a client at any time. It SHOULD hold connection related configs like
// [ProxyConfig] or *[crypto/tls.Config]. Streams that could carry another
// request after a response expose a Release() method.
type Dialer = dialer.Dialer

// CoreDialer is the default implementation of the [Dialer] interface. A
// zero valued one shares a connection pool with every other zero valued
// CoreDialer.
type CoreDialer = dialer.CoreDialer

// ProxyConfig configures the connection to an http(s) proxy, which is
// asked to open a tunnel with CONNECT.
type ProxyConfig = dialer.ProxyConfig

// ResolveConfig selects how host names are resolved:
//
//  1. StaticHosts, resembling /etc/hosts
//  2. CustomDNSServer, instead of the system configuration
//  3. Network, restricting addresses to "ip4" or "ip6"
//
// The standard library only follows the system configuration, hence a
// dedicated resolver dialing the custom server through [net.Resolver.Dial].
type ResolveConfig = dialer.ResolveConfig

var ErrProxyRefused = dialer.ErrProxyRefused

func NewCoreDialer() *CoreDialer { return dialer.NewCoreDialer() }
