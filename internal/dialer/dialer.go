package dialer

import (
	"context"
	"crypto/tls"
	"io"

	"github.com/frankli0324/async-http-client/internal/http"
	"github.com/frankli0324/async-http-client/utils/netpool"
)

// Dialers handle pretty much everything related to the actual connection,
// including setting a proxy for each request, setting resolvers, etc.
type Dialer interface {
	// Dial returns a byte stream for writing the request and reading responses.
	// Streams that could be reused expose a Release() method.
	Dial(ctx context.Context, r *http.PreparedRequest) (io.ReadWriteCloser, error)
	Unwrap() Dialer
}

type CoreDialer struct {
	ResolveConfig *ResolveConfig

	TLSConfig *tls.Config // the config to use

	ConnPool    *netpool.PoolGroup // nil means a pool shared by all zero valued dialers
	GetProxy    func(ctx context.Context, r *http.Request) (string, error)
	ProxyConfig *ProxyConfig
}

// NewCoreDialer returns a dialer with its own connection pool.
func NewCoreDialer() *CoreDialer {
	return &CoreDialer{
		TLSConfig:   &tls.Config{},
		ConnPool:    netpool.NewGroup(100, 80),
		ProxyConfig: &ProxyConfig{},
	}
}

func (d *CoreDialer) Clone() *CoreDialer {
	return &CoreDialer{
		ResolveConfig: d.ResolveConfig.Clone(),
		TLSConfig:     d.TLSConfig.Clone(),
		ConnPool:      d.ConnPool.NewEmpty(),
		GetProxy:      d.GetProxy,
		ProxyConfig:   d.ProxyConfig.Clone(),
	}
}

func (d *CoreDialer) Unwrap() Dialer {
	return nil
}
