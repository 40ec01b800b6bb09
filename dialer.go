package asynchttp

import (
	"github.com/frankli0324/async-http-client/internal/dialer"
)

type Dialer = dialer.Dialer
type CoreDialer = dialer.CoreDialer

type ProxyConfig = dialer.ProxyConfig
type ResolveConfig = dialer.ResolveConfig

var ErrProxyRefused = dialer.ErrProxyRefused

// NewCoreDialer returns a dialer with its own connection pool.
func NewCoreDialer() *CoreDialer { return dialer.NewCoreDialer() }
