package pool

import (
	"github.com/schlitzered/goredis/client"
	"github.com/schlitzered/goredis/cluster"
	"github.com/schlitzered/goredis/conn"
	"github.com/schlitzered/goredis/endpoint"
)

// ClusterPool is a bounded pool of client.ClusterClient objects that all
// share one cluster.Map, grounded on pyredis.pool.ClusterPool. Every
// checked-out client follows MOVED/ASK redirects and refreshes the shared
// map itself; the pool's only job is bounding how many clients (and thus
// how many live per-endpoint sockets) exist at once.
type ClusterPool struct {
	BasePool[*client.ClusterClient]
	mapp *cluster.Map
}

// NewClusterPool builds a ClusterPool whose clients resolve slots against
// a cluster.Map seeded from seeds. slaveOk routes reads to replicas.
func NewClusterPool(seeds []endpoint.Endpoint, slaveOk bool, opts BaseOptions) *ClusterPool {
	opts = opts.withDefaults()
	m := cluster.NewMap(seeds)
	p := &ClusterPool{mapp: m}
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
	connFn := func() (*client.ClusterClient, error) {
		cc := client.NewClusterClient(m, slaveOk, connOpts...)
		if _, err := m.Refresh(m.ID()); err != nil {
			return nil, err
		}
		return cc, nil
	}
	p.BasePool = newBasePool(opts.PoolSize, connFn, opts.Logger)
	return p
}

// Map exposes the shared cluster.Map, e.g. for callers that want to force
// a refresh out of band.
func (p *ClusterPool) Map() *cluster.Map { return p.mapp }
