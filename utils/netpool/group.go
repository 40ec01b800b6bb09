package netpool

import (
	"context"
	"net"
	"sync"
	"time"
)

// PoolGroup keeps one [Pool] per key, e.g. per scheme and host:port.
type PoolGroup struct {
	sync.RWMutex
	pools map[interface{}]*Pool

	maxConnsPerHost, maxIdlePerHost uint
	IdleTimeout                     time.Duration
}

func NewGroup(maxConnsPerHost, maxIdlePerHost uint) *PoolGroup {
	return &PoolGroup{
		pools:           map[interface{}]*Pool{},
		maxConnsPerHost: maxConnsPerHost, maxIdlePerHost: maxIdlePerHost,
		IdleTimeout: 90 * time.Second,
	}
}

// NewEmpty returns a group with the same limits and no connections.
func (g *PoolGroup) NewEmpty() *PoolGroup {
	if g == nil {
		return nil
	}
	n := NewGroup(g.maxConnsPerHost, g.maxIdlePerHost)
	n.IdleTimeout = g.IdleTimeout
	return n
}

func (g *PoolGroup) Connect(ctx context.Context, key interface{}, dial func(ctx context.Context) (net.Conn, error)) (Conn, error) {
	g.RLock()
	p, ok := g.pools[key]
	g.RUnlock()
	if ok {
		return p.Connect(ctx, dial)
	}
	g.Lock()
	if p, ok = g.pools[key]; !ok {
		p = NewPool(g.maxIdlePerHost, g.maxConnsPerHost, g.IdleTimeout)
		g.pools[key] = p
	}
	g.Unlock()
	return p.Connect(ctx, dial)
}

// CloseIdle closes idle connections of every pool in the group.
func (g *PoolGroup) CloseIdle() {
	g.RLock()
	defer g.RUnlock()
	for _, p := range g.pools {
		p.CloseIdle()
	}
}
