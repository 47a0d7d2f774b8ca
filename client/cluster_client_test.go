package client

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schlitzered/goredis/cluster"
	"github.com/schlitzered/goredis/endpoint"
)

// TestClusterClientMovedTriggersRefreshAndRetry reproduces §8 scenario 2
// ("Cluster rebalance"): node A answers GET with a MOVED redirect once,
// the client refreshes its map (now pointing the whole keyspace at node
// B) and retries by shard_key, succeeding against B.
func TestClusterClientMovedTriggersRefreshAndRetry(t *testing.T) {
	nodeA := newScriptedServer(t)
	nodeB := newScriptedServer(t)

	nodeB.Start(func(cmd []string) []byte {
		if upper(cmd) == "GET" {
			return []byte("$3\r\nbar\r\n")
		}
		return []byte("-ERR unexpected on B\r\n")
	})

	var mu sync.Mutex
	slotsCalls := 0
	nodeA.Start(func(cmd []string) []byte {
		switch upper(cmd) {
		case "CLUSTER":
			mu.Lock()
			slotsCalls++
			n := slotsCalls
			mu.Unlock()
			if n == 1 {
				return clusterSlotsReply(0, 16383, nodeA.addr)
			}
			return clusterSlotsReply(0, 16383, nodeB.addr)
		case "GET":
			return []byte(fmt.Sprintf("-MOVED 7365 %s:%d\r\n", nodeB.addr.Host, nodeB.addr.Port))
		}
		return []byte("-ERR unexpected on A\r\n")
	})

	m := cluster.NewMap([]endpoint.Endpoint{nodeA.addr})
	_, err := m.Refresh(m.ID())
	require.NoError(t, err)
	beforeID := m.ID()

	cc := NewClusterClient(m, false)
	defer cc.Close()

	v, err := cc.Execute([]byte("foo"), "GET", "foo")
	require.NoError(t, err)
	assert.Equal(t, "bar", string(v.Str))
	assert.NotEqual(t, beforeID, m.ID())
}

// TestClusterClientMovedWithPinnedEndpointIsFatal covers the other half
// of §4.4's redirection rule: a caller that pinned an explicit endpoint
// (ExecuteOn) gets a reply error, not a retry, on MOVED.
func TestClusterClientMovedWithPinnedEndpointIsFatal(t *testing.T) {
	nodeA := newScriptedServer(t)
	nodeA.Start(func(cmd []string) []byte {
		if upper(cmd) == "GET" {
			return []byte("-MOVED 7365 127.0.0.1:6380\r\n")
		}
		return []byte("-ERR unexpected\r\n")
	})

	m := cluster.NewMap([]endpoint.Endpoint{nodeA.addr})
	cc := NewClusterClient(m, false)
	defer cc.Close()

	_, err := cc.ExecuteOn(nodeA.addr.Key(), "GET", "foo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong to this redis")
}

// TestClusterClientAskForwardsWithAsking reproduces §8 scenario 3: an ASK
// redirect is followed by an ASKING frame then the original command on
// the same connection to the target node, without refreshing the map.
func TestClusterClientAskForwardsWithAsking(t *testing.T) {
	nodeA := newScriptedServer(t)
	nodeB := newScriptedServer(t)

	var mu sync.Mutex
	var askingSeenBeforeGet bool
	var sawAsking bool
	nodeB.Start(func(cmd []string) []byte {
		switch upper(cmd) {
		case "ASKING":
			mu.Lock()
			sawAsking = true
			mu.Unlock()
			return []byte("+OK\r\n")
		case "GET":
			mu.Lock()
			askingSeenBeforeGet = sawAsking
			mu.Unlock()
			return []byte("$3\r\nbaz\r\n")
		}
		return []byte("-ERR unexpected on B\r\n")
	})

	nodeA.Start(func(cmd []string) []byte {
		switch upper(cmd) {
		case "CLUSTER":
			return clusterSlotsReply(0, 16383, nodeA.addr)
		case "GET":
			return []byte(fmt.Sprintf("-ASK 7365 %s:%d\r\n", nodeB.addr.Host, nodeB.addr.Port))
		}
		return []byte("-ERR unexpected on A\r\n")
	})

	m := cluster.NewMap([]endpoint.Endpoint{nodeA.addr})
	_, err := m.Refresh(m.ID())
	require.NoError(t, err)

	cc := NewClusterClient(m, false)
	defer cc.Close()

	v, err := cc.Execute([]byte("foo"), "GET", "foo")
	require.NoError(t, err)
	assert.Equal(t, "baz", string(v.Str))
	mu.Lock()
	defer mu.Unlock()
	assert.True(t, askingSeenBeforeGet, "ASKING must precede the forwarded command on the same connection")
}

// TestClusterClientRetryExhaustionIsConnError covers §8's "Retry
// exhaustion": three consecutive MOVED replies with retries=3 give up
// with a connection-class error instead of looping forever.
func TestClusterClientRetryExhaustionIsConnError(t *testing.T) {
	nodeA := newScriptedServer(t)
	attempts := 0
	var mu sync.Mutex
	nodeA.Start(func(cmd []string) []byte {
		switch upper(cmd) {
		case "CLUSTER":
			return clusterSlotsReply(0, 16383, nodeA.addr)
		case "GET":
			mu.Lock()
			attempts++
			mu.Unlock()
			return []byte(fmt.Sprintf("-MOVED 7365 %s:%d\r\n", nodeA.addr.Host, nodeA.addr.Port))
		}
		return []byte("-ERR unexpected\r\n")
	})

	m := cluster.NewMap([]endpoint.Endpoint{nodeA.addr})
	_, err := m.Refresh(m.ID())
	require.NoError(t, err)

	cc := NewClusterClient(m, false)
	defer cc.Close()

	_, err = cc.Execute([]byte("foo"), "GET", "foo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection error")
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, attempts, "no fourth attempt should be issued once the retry budget is spent")
}
