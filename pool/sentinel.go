package pool

import (
	"github.com/schlitzered/goredis/client"
	"github.com/schlitzered/goredis/conn"
	"github.com/schlitzered/goredis/endpoint"
	"github.com/schlitzered/goredis/rerror"
	"github.com/schlitzered/goredis/sentinel"
)

// SentinelPool is a bounded pool of client.Client objects connected to
// whichever endpoint Sentinel currently reports for name, grounded on
// pyredis.pool.SentinelPool. CloseOnErr is set, matching the Python
// original: a connection that comes back closed takes the whole free set
// down too, since a dead master usually means Sentinel is about to
// promote a new one and every pooled connection is stale.
type SentinelPool struct {
	BasePool[*client.Client]
	resolver *sentinel.Resolver
	name     string
	slaveOk  bool
	retries  int
}

// NewSentinelPool builds a SentinelPool that resolves name's master (or,
// if slaveOk, a random replica) through resolver on every new connect.
func NewSentinelPool(resolver *sentinel.Resolver, name string, slaveOk bool, retries int, opts BaseOptions) *SentinelPool {
	opts = opts.withDefaults()
	if retries <= 0 {
		retries = 3
	}
	p := &SentinelPool{resolver: resolver, name: name, slaveOk: slaveOk, retries: retries}
	connOpts := []conn.Option{
		conn.WithAuth(opts.Username, opts.Password),
		conn.WithDatabase(opts.Database),
		conn.WithConnectTimeout(opts.ConnectTimeout),
		conn.WithReadTimeout(opts.ReadTimeout),
		conn.WithLogger(opts.Logger),
	}
	if slaveOk {
		connOpts = append(connOpts, conn.WithReplicaRead())
	}
	connFn := func() (*client.Client, error) {
		for i := 0; i < p.retries; i++ {
			ep, err := p.candidate()
			if err != nil {
				continue
			}
			c, err := client.New(ep, connOpts...)
			if err != nil {
				continue
			}
			return c, nil
		}
		return nil, rerror.NewConnError("sentinel:"+p.name, nil)
	}
	p.BasePool = newBasePool(opts.PoolSize, connFn, opts.Logger)
	p.CloseOnErr = true
	return p
}

func (p *SentinelPool) candidate() (endpoint.Endpoint, error) {
	if p.slaveOk {
		return p.resolver.Slave(p.name)
	}
	return p.resolver.Master(p.name)
}
