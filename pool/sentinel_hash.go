package pool

import (
	"github.com/schlitzered/goredis/client"
	"github.com/schlitzered/goredis/conn"
	"github.com/schlitzered/goredis/endpoint"
	"github.com/schlitzered/goredis/rerror"
	"github.com/schlitzered/goredis/sentinel"
)

// SentinelHashPool is a bounded pool of client.HashClient objects, each
// bucket resolved independently through Sentinel by replication-set name,
// grounded on pyredis.pool.SentinelHashPool. Like SentinelPool it sets
// CloseOnErr, since a stale bucket connection usually means that bucket's
// Sentinel-managed set just failed over.
type SentinelHashPool struct {
	BasePool[*client.HashClient]
	resolver *sentinel.Resolver
	buckets  []string
	slaveOk  bool
	retries  int
}

// NewSentinelHashPool builds a SentinelHashPool whose buckets are resolved
// by name (each a Sentinel-monitored replication set) through resolver.
func NewSentinelHashPool(resolver *sentinel.Resolver, buckets []string, slaveOk bool, retries int, opts BaseOptions) *SentinelHashPool {
	opts = opts.withDefaults()
	if retries <= 0 {
		retries = 3
	}
	p := &SentinelHashPool{resolver: resolver, buckets: buckets, slaveOk: slaveOk, retries: retries}
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
	connFn := func() (*client.HashClient, error) {
		eps, err := p.resolveBuckets()
		if err != nil {
			return nil, err
		}
		return client.NewHashClient(eps, connOpts...)
	}
	p.BasePool = newBasePool(opts.PoolSize, connFn, opts.Logger)
	p.CloseOnErr = true
	return p
}

// resolveBuckets resolves every configured bucket name to a live
// endpoint, retrying each bucket independently up to p.retries times
// before giving up on the whole pool.
func (p *SentinelHashPool) resolveBuckets() ([]endpoint.Endpoint, error) {
	eps := make([]endpoint.Endpoint, 0, len(p.buckets))
	for _, bucket := range p.buckets {
		ep, err := p.resolveBucket(bucket)
		if err != nil {
			return nil, err
		}
		eps = append(eps, ep)
	}
	return eps, nil
}

func (p *SentinelHashPool) resolveBucket(bucket string) (endpoint.Endpoint, error) {
	var lastErr error
	for i := 0; i < p.retries; i++ {
		var ep endpoint.Endpoint
		var err error
		if p.slaveOk {
			ep, err = p.slaveCandidate(bucket)
		} else {
			ep, err = p.resolver.Master(bucket)
		}
		if err == nil {
			return ep, nil
		}
		lastErr = err
	}
	return endpoint.Endpoint{}, rerror.NewConnError("sentinel bucket "+bucket, lastErr)
}

func (p *SentinelHashPool) slaveCandidate(bucket string) (endpoint.Endpoint, error) {
	return p.resolver.Slave(bucket)
}
