// Package sentinel resolves the current master and replica endpoints of a
// Sentinel-monitored Redis service, rotating through a configured list of
// Sentinel instances and verifying whatever a Sentinel reports by asking
// the candidate node itself before trusting it.
//
// As with the teacher this package is descended from, a Resolver can be
// used from multiple goroutines at once safely except where noted.
package sentinel

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/schlitzered/goredis/conn"
	"github.com/schlitzered/goredis/endpoint"
	"github.com/schlitzered/goredis/resp"
	"github.com/schlitzered/goredis/rerror"
)

// MasterInfo is one entry from SENTINEL masters, keyed by the field names
// Redis itself uses ("name", "ip", "port", "flags", ...).
type MasterInfo map[string]string

// Resolver rotates through a list of Sentinel endpoints, asking whichever
// one currently answers for the master/replica set of a named service.
type Resolver struct {
	mu        sync.Mutex
	sentinels []endpoint.Endpoint

	username string
	password string

	connectTimeout time.Duration
	readTimeout    time.Duration

	log logrus.FieldLogger
}

// Option configures a Resolver at construction time.
type Option func(*Resolver)

func WithAuth(username, password string) Option {
	return func(r *Resolver) { r.username = username; r.password = password }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Resolver) { r.log = log }
}

// NewResolver builds a Resolver over sentinels, tried in the given order
// and rotated on failure.
func NewResolver(sentinels []endpoint.Endpoint, opts ...Option) *Resolver {
	r := &Resolver{
		sentinels:      append([]endpoint.Endpoint(nil), sentinels...),
		connectTimeout: 100 * time.Millisecond,
		readTimeout:    2 * time.Second,
		log:            logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// rotate moves the currently-failing sentinel to the back of the list, so
// the next query tries the next one.
func (r *Resolver) rotate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sentinels) < 2 {
		return
	}
	r.sentinels = append(r.sentinels[1:], r.sentinels[0])
}

func (r *Resolver) current() endpoint.Endpoint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sentinels[0]
}

// query runs args against whichever sentinel currently answers, rotating
// through the configured list with a bounded number of attempts (one per
// configured sentinel) via backoff.WithMaxRetries.
func (r *Resolver) query(args ...interface{}) (resp.Value, error) {
	var result resp.Value
	attempt := func() error {
		ep := r.current()
		c, err := conn.New(ep,
			conn.WithAuth(r.username, r.password),
			conn.WithSentinel(),
			conn.WithConnectTimeout(r.connectTimeout),
			conn.WithReadTimeout(r.readTimeout),
		)
		if err != nil {
			r.rotate()
			return err
		}
		if err := c.Connect(); err != nil {
			r.log.WithField("sentinel", ep.Key()).Debug("sentinel unreachable, rotating")
			r.rotate()
			return err
		}
		defer c.Close()
		if err := c.Write(args...); err != nil {
			r.rotate()
			return err
		}
		v, err := c.Read(true, true)
		if err != nil {
			r.rotate()
			return err
		}
		result = v
		return nil
	}

	r.mu.Lock()
	n := len(r.sentinels)
	r.mu.Unlock()
	if n == 0 {
		return resp.Value{}, &rerror.ConfigError{Msg: "no sentinels configured"}
	}
	boff := backoff.WithMaxRetries(backoff.NewConstantBackOff(0), uint64(n-1))
	if err := backoff.Retry(attempt, boff); err != nil {
		return resp.Value{}, &rerror.ConnError{Endpoint: "sentinels"}
	}
	return result, nil
}

// Master resolves the current master endpoint of the named service,
// verifying the candidate actually reports role:master via INFO
// replication before trusting it.
func (r *Resolver) Master(name string) (endpoint.Endpoint, error) {
	v, err := r.query("SENTINEL", "master", name)
	if err != nil {
		return endpoint.Endpoint{}, err
	}
	info := masterInfoFromList(v)
	ep, err := endpointFromInfo(info)
	if err != nil {
		return endpoint.Endpoint{}, err
	}
	if err := r.verifyRole(ep, "master"); err != nil {
		r.rotate()
		return endpoint.Endpoint{}, err
	}
	return ep, nil
}

// Masters returns every service this Sentinel set monitors.
func (r *Resolver) Masters() ([]MasterInfo, error) {
	v, err := r.query("SENTINEL", "masters")
	if err != nil {
		return nil, err
	}
	if v.Kind != resp.KindArray {
		return nil, &rerror.ProtocolError{Msg: "SENTINEL masters did not return an array"}
	}
	out := make([]MasterInfo, 0, len(v.Arr))
	for _, row := range v.Arr {
		out = append(out, masterInfoFromList(row))
	}
	return out, nil
}

// Slaves returns every replica of the named service that Sentinel
// currently knows about, unverified. Callers that need a single live
// replica should use Slave, which additionally shuffles, picks one, and
// verifies it before returning.
func (r *Resolver) Slaves(name string) ([]endpoint.Endpoint, error) {
	v, err := r.query("SENTINEL", "slaves", name)
	if err != nil {
		return nil, err
	}
	if v.Kind != resp.KindArray {
		return nil, &rerror.ProtocolError{Msg: "SENTINEL slaves did not return an array"}
	}
	out := make([]endpoint.Endpoint, 0, len(v.Arr))
	for _, row := range v.Arr {
		info := masterInfoFromList(row)
		ep, err := endpointFromInfo(info)
		if err != nil {
			continue
		}
		out = append(out, ep)
	}
	return out, nil
}

// Slave picks one replica of the named service: it asks the current
// sentinel for the candidate list, shuffles it, and verifies the first
// pick actually reports role:slave via INFO replication. A verification
// failure rotates to the next sentinel and returns an error, so a caller
// retrying the call (pool.SentinelPool/SentinelHashPool's connect loops
// both do) lands on the next sentinel instead of re-asking the stale one.
func (r *Resolver) Slave(name string) (endpoint.Endpoint, error) {
	slaves, err := r.Slaves(name)
	if err != nil {
		return endpoint.Endpoint{}, err
	}
	if len(slaves) == 0 {
		r.rotate()
		return endpoint.Endpoint{}, &rerror.ConfigError{Msg: "sentinel reports no slaves for " + name}
	}
	rand.Shuffle(len(slaves), func(i, j int) { slaves[i], slaves[j] = slaves[j], slaves[i] })
	ep := slaves[0]
	if err := r.verifyRole(ep, "slave"); err != nil {
		r.rotate()
		return endpoint.Endpoint{}, err
	}
	return ep, nil
}

func (r *Resolver) verifyRole(ep endpoint.Endpoint, want string) error {
	c, err := conn.New(ep, conn.WithConnectTimeout(r.connectTimeout), conn.WithReadTimeout(r.readTimeout))
	if err != nil {
		return err
	}
	defer c.Close()
	if err := c.Connect(); err != nil {
		return err
	}
	if err := c.Write("INFO", "replication"); err != nil {
		return err
	}
	v, err := c.Read(true, true)
	if err != nil {
		return err
	}
	if !strings.Contains(string(v.Str), "role:"+want) {
		return &rerror.ConfigError{Msg: "sentinel reported stale " + want + " for " + ep.Key()}
	}
	return nil
}

func masterInfoFromList(v resp.Value) MasterInfo {
	info := make(MasterInfo)
	if v.Kind != resp.KindArray {
		return info
	}
	for i := 0; i+1 < len(v.Arr); i += 2 {
		info[string(v.Arr[i].Str)] = string(v.Arr[i+1].Str)
	}
	return info
}

func endpointFromInfo(info MasterInfo) (endpoint.Endpoint, error) {
	host, ok := info["ip"]
	if !ok {
		return endpoint.Endpoint{}, &rerror.ProtocolError{Msg: "sentinel reply missing ip field"}
	}
	portStr, ok := info["port"]
	if !ok {
		return endpoint.Endpoint{}, &rerror.ProtocolError{Msg: "sentinel reply missing port field"}
	}
	port := 0
	for _, c := range portStr {
		if c < '0' || c > '9' {
			return endpoint.Endpoint{}, &rerror.ProtocolError{Msg: "sentinel reply has non-numeric port"}
		}
		port = port*10 + int(c-'0')
	}
	return endpoint.Endpoint{Host: host, Port: port}, nil
}
