package pool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schlitzered/goredis/endpoint"
)

func TestHashPoolAcquireDialsAllBuckets(t *testing.T) {
	buckets := []endpoint.Endpoint{fakePingServer(t), fakePingServer(t), fakePingServer(t)}
	p := NewHashPool(buckets, BaseOptions{PoolSize: 1})
	defer p.Close()

	hc, err := p.Acquire()
	require.NoError(t, err)
	defer p.Release(hc)

	v, err := hc.Execute([]byte("somekey"), "PING")
	require.NoError(t, err)
	require.Equal(t, "PONG", string(v.Str))
}
