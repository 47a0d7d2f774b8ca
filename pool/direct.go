package pool

import (
	"github.com/schlitzered/goredis/client"
	"github.com/schlitzered/goredis/conn"
	"github.com/schlitzered/goredis/endpoint"
)

// DirectPool is a bounded pool of client.Client objects talking to one
// fixed endpoint, grounded on pyredis.pool.Pool.
type DirectPool struct {
	BasePool[*client.Client]
	ep endpoint.Endpoint
}

// NewDirectPool builds a DirectPool that dials ep on demand up to
// opts.PoolSize concurrently checked-out clients.
func NewDirectPool(ep endpoint.Endpoint, opts BaseOptions) *DirectPool {
	opts = opts.withDefaults()
	p := &DirectPool{ep: ep}
	connFn := func() (*client.Client, error) {
		return client.New(ep,
			conn.WithAuth(opts.Username, opts.Password),
			conn.WithDatabase(opts.Database),
			conn.WithConnectTimeout(opts.ConnectTimeout),
			conn.WithReadTimeout(opts.ReadTimeout),
			conn.WithLogger(opts.Logger),
		)
	}
	p.BasePool = newBasePool(opts.PoolSize, connFn, opts.Logger)
	return p
}
