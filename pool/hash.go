package pool

import (
	"github.com/schlitzered/goredis/client"
	"github.com/schlitzered/goredis/conn"
	"github.com/schlitzered/goredis/endpoint"
)

// HashPool is a bounded pool of client.HashClient objects, each one
// eagerly dialing every bucket in the same fixed order, grounded on
// pyredis.pool.HashPool.
type HashPool struct {
	BasePool[*client.HashClient]
	buckets []endpoint.Endpoint
}

// NewHashPool builds a HashPool routing across buckets via static
// hashing.
func NewHashPool(buckets []endpoint.Endpoint, opts BaseOptions) *HashPool {
	opts = opts.withDefaults()
	p := &HashPool{buckets: buckets}
	connFn := func() (*client.HashClient, error) {
		return client.NewHashClient(buckets,
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
