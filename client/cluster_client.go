package client

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/schlitzered/goredis/cluster"
	"github.com/schlitzered/goredis/conn"
	"github.com/schlitzered/goredis/endpoint"
	"github.com/schlitzered/goredis/resp"
	"github.com/schlitzered/goredis/rerror"
)

// ClusterClient executes commands against a Redis Cluster, following
// MOVED/ASK redirects and refreshing its cluster.Map on demand. It owns
// one conn.Conn per endpoint it has talked to, dialed lazily and kept
// until the map's generation changes and the endpoint drops out of the
// live topology.
type ClusterClient struct {
	mu      sync.Mutex
	conns   map[string]*conn.Conn
	mapp    *cluster.Map
	mapID   uuid.UUID
	slaveOk bool

	opts []conn.Option

	defaultRetries int
}

// NewClusterClient builds a ClusterClient against a shared cluster.Map, as
// a ClusterPool hands to each client it dials.
func NewClusterClient(m *cluster.Map, slaveOk bool, opts ...conn.Option) *ClusterClient {
	return &ClusterClient{
		conns:          make(map[string]*conn.Conn),
		mapp:           m,
		mapID:          m.ID(),
		slaveOk:        slaveOk,
		opts:           opts,
		defaultRetries: 3,
	}
}

func (cc *ClusterClient) Closed() bool { return false }

func (cc *ClusterClient) Close() error {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	for k, c := range cc.conns {
		c.Close()
		delete(cc.conns, k)
	}
	return nil
}

// cleanupConns drops any connection whose endpoint is no longer part of
// the live topology, mirroring _cleanup_conns.
func (cc *ClusterClient) cleanupConns() {
	live := make(map[string]struct{})
	for _, h := range cc.mapp.Hosts() {
		live[h] = struct{}{}
	}
	for key, c := range cc.conns {
		if _, ok := live[key]; !ok {
			c.Close()
			delete(cc.conns, key)
		}
	}
}

func (cc *ClusterClient) slotInfo(shardKey []byte) (string, error) {
	current := cc.mapp.ID()
	if current != cc.mapID {
		cc.mapID = current
		cc.cleanupConns()
	}
	var sock string
	if cc.slaveOk {
		sock, _ = cc.mapp.Slave(shardKey)
	} else {
		sock, _ = cc.mapp.Master(shardKey)
	}
	if sock != "" {
		return sock, nil
	}
	newID, err := cc.mapp.Refresh(cc.mapID)
	if err != nil {
		return "", errors.Wrap(err, "refreshing cluster map")
	}
	cc.mapID = newID
	cc.cleanupConns()
	if cc.slaveOk {
		sock, _ = cc.mapp.Slave(shardKey)
	} else {
		sock, _ = cc.mapp.Master(shardKey)
	}
	return sock, nil
}

func (cc *ClusterClient) connFor(sock string) (*conn.Conn, error) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if c, ok := cc.conns[sock]; ok {
		return c, nil
	}
	ep, err := endpoint.ParseHostPort(strings.Replace(sock, "_", ":", 1))
	if err != nil {
		return nil, err
	}
	c, err := conn.New(ep, cc.opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Connect(); err != nil {
		return nil, err
	}
	cc.conns[sock] = c
	return c, nil
}

func (cc *ClusterClient) dropConn(sock string) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if c, ok := cc.conns[sock]; ok {
		c.Close()
		delete(cc.conns, sock)
	}
}

// Execute runs a command against the shard owning shardKey, following
// MOVED/ASK redirects up to the client's retry budget.
func (cc *ClusterClient) Execute(shardKey []byte, args ...interface{}) (resp.Value, error) {
	return cc.executeRetry(shardKey, "", false, cc.defaultRetries, args...)
}

// ExecuteOn runs a command pinned to a specific endpoint key ("host_port"),
// bypassing slot resolution. A MOVED reply here is fatal (the caller
// explicitly named the wrong node) rather than triggering a retry.
func (cc *ClusterClient) ExecuteOn(sock string, args ...interface{}) (resp.Value, error) {
	return cc.executeRetry(nil, sock, false, cc.defaultRetries, args...)
}

func (cc *ClusterClient) executeRetry(shardKey []byte, sock string, asking bool, retries int, args ...interface{}) (resp.Value, error) {
	var err error
	if sock == "" {
		sock, err = cc.slotInfo(shardKey)
		if err != nil {
			return resp.Value{}, err
		}
	}
	c, err := cc.connFor(sock)
	if err != nil {
		return resp.Value{}, err
	}

	if asking {
		if werr := c.Write("ASKING"); werr != nil {
			return resp.Value{}, werr
		}
		if _, rerr := c.Read(true, true); rerr != nil {
			return resp.Value{}, rerr
		}
	}
	if err := c.Write(args...); err != nil {
		cc.dropConn(sock)
		if cc.mapp != nil {
			cc.mapp.Refresh(cc.mapID)
		}
		return resp.Value{}, err
	}
	v, err := c.Read(true, true)
	if err == nil {
		return v, nil
	}

	var replyErr *rerror.ReplyError
	if errors.As(err, &replyErr) {
		if slot, _, ok := replyErr.IsMoved(); ok {
			if len(shardKey) == 0 {
				return resp.Value{}, &rerror.ReplyError{Msg: "explicitly set socket, but key does not belong to this redis: " + sock}
			}
			if retries <= 1 {
				return resp.Value{}, rerror.NewConnError(sock, errors.New("slot moved too often, giving up"))
			}
			newID, rerr := cc.mapp.Refresh(cc.mapID)
			if rerr != nil {
				return resp.Value{}, rerr
			}
			cc.mapID = newID
			cc.cleanupConns()
			_ = slot
			return cc.executeRetry(shardKey, "", false, retries-1, args...)
		}
		if slot, addr, ok := replyErr.IsAsk(); ok {
			if retries <= 1 {
				return resp.Value{}, rerror.NewConnError(sock, errors.New("slot moved too often, giving up"))
			}
			_ = slot
			target := strings.Replace(addr, ":", "_", 1)
			return cc.executeRetry(nil, target, true, retries-1, args...)
		}
		return resp.Value{}, err
	}

	// Any other error (connection error, read timeout) invalidates this
	// connection and forces a fresh map refresh before propagating.
	cc.dropConn(sock)
	if cc.mapp != nil {
		cc.mapp.Refresh(cc.mapID)
	}
	return resp.Value{}, err
}
