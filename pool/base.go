// Package pool implements bounded pools of pooled Redis clients: a plain
// single-endpoint DirectPool, and topology-aware pools that layer cluster slot
// routing, static hash routing, and Sentinel master/replica resolution on
// top of the same free/used-set bookkeeping (BasePool).
package pool

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/schlitzered/goredis/rerror"
)

// Closeable is the capability BasePool needs from whatever it pools:
// client.Client, client.ClusterClient, and client.HashClient all satisfy
// it.
type Closeable interface {
	Closed() bool
	Close() error
}

// ConnectFunc dials and returns a new, ready-to-use pooled client.
type ConnectFunc[T Closeable] func() (T, error)

// BasePool holds the free/used sets and the acquire/release/resize logic
// shared by every pool variant: DirectPool, ClusterPool, HashPool,
// SentinelPool, SentinelHashPool each embed a BasePool[T] parameterized on
// the client type they hand out.
type BasePool[T Closeable] struct {
	mu   sync.Mutex
	free map[T]struct{}
	used map[T]struct{}

	poolSize int

	// CloseOnErr mirrors pyredis's close_on_err: when true, a release of a
	// client that came back closed flushes the entire free set too, since
	// a dead master connection usually means every other connection in
	// the pool was talking to the same now-gone master. SentinelPool and
	// SentinelHashPool set this; DirectPool, ClusterPool, and HashPool
	// leave it false.
	CloseOnErr bool

	connect ConnectFunc[T]
	log     logrus.FieldLogger
}

func newBasePool[T Closeable](poolSize int, connect ConnectFunc[T], log logrus.FieldLogger) BasePool[T] {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return BasePool[T]{
		free:     make(map[T]struct{}),
		used:     make(map[T]struct{}),
		poolSize: poolSize,
		connect:  connect,
		log:      log,
	}
}

// PoolSize returns the configured upper bound on concurrently held
// clients.
func (p *BasePool[T]) PoolSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.poolSize
}

// SetPoolSize adjusts the upper bound. Shrinking closes idle (free)
// clients first; if that's not enough to reach the new size the
// remainder is enforced lazily as currently-used clients are released.
func (p *BasePool[T]) SetPoolSize(size int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.poolSize = size
	current := len(p.free) + len(p.used)
	for current > size && len(p.free) > 0 {
		for c := range p.free {
			delete(p.free, c)
			c.Close()
			current--
			break
		}
	}
}

// Acquire checks out a client: an idle one if available, otherwise a
// freshly connected one as long as the pool isn't at capacity.
func (p *BasePool[T]) Acquire() (T, error) {
	p.mu.Lock()
	for c := range p.free {
		delete(p.free, c)
		p.used[c] = struct{}{}
		p.mu.Unlock()
		return c, nil
	}
	if len(p.used) >= p.poolSize {
		p.mu.Unlock()
		var zero T
		return zero, &rerror.ConfigError{Msg: "pool exhausted"}
	}
	p.mu.Unlock()

	c, err := p.connect()
	if err != nil {
		var zero T
		return zero, err
	}
	p.mu.Lock()
	p.used[c] = struct{}{}
	p.mu.Unlock()
	return c, nil
}

// Release returns a checked-out client to the pool. A closed client is
// simply dropped (and, if CloseOnErr is set, takes the entire free set
// down with it); a healthy client goes back to the free set unless the
// pool has since shrunk below its current occupancy, in which case it's
// closed instead of kept idle.
func (p *BasePool[T]) Release(c T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.used[c]; !ok {
		return
	}
	delete(p.used, c)
	current := len(p.free) + len(p.used)

	if c.Closed() && p.CloseOnErr {
		for fc := range p.free {
			fc.Close()
		}
		p.free = make(map[T]struct{})
		p.used = make(map[T]struct{})
		return
	}
	if c.Closed() {
		return
	}
	if current >= p.poolSize {
		c.Close()
		return
	}
	p.free[c] = struct{}{}
}

// Close closes every client currently known to the pool, used or free.
func (p *BasePool[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for c := range p.free {
		c.Close()
	}
	for c := range p.used {
		c.Close()
	}
	p.free = make(map[T]struct{})
	p.used = make(map[T]struct{})
}

// BaseOptions configures the ambient fields every pool variant shares.
type BaseOptions struct {
	Username       string
	Password       string
	Database       int
	PoolSize       int
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	Logger         logrus.FieldLogger
}

func (o BaseOptions) withDefaults() BaseOptions {
	if o.PoolSize == 0 {
		o.PoolSize = 16
	}
	if o.ConnectTimeout == 0 {
		o.ConnectTimeout = 2 * time.Second
	}
	if o.ReadTimeout == 0 {
		o.ReadTimeout = 2 * time.Second
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return o
}
