package pool

import (
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schlitzered/goredis/endpoint"
)

// fakePingServer accepts connections and answers every command with
// +PONG, enough to exercise dialing: no password is configured in these
// tests, so AUTH is skipped, and the unconditional SELECT gets a
// non-error reply.
func fakePingServer(t *testing.T) endpoint.Endpoint {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				buf := make([]byte, 4096)
				for {
					_, err := c.Read(buf)
					if err != nil {
						return
					}
					c.Write([]byte("+PONG\r\n"))
				}
			}(c)
		}
	}()
	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return endpoint.Endpoint{Host: host, Port: port}
}

func TestDirectPoolAcquireRelease(t *testing.T) {
	ep := fakePingServer(t)
	p := NewDirectPool(ep, BaseOptions{PoolSize: 2})
	defer p.Close()

	c1, err := p.Acquire()
	require.NoError(t, err)
	defer p.Release(c1)

	v, err := c1.Execute("PING")
	require.NoError(t, err)
	require.Equal(t, "PONG", string(v.Str))
}

func TestDirectPoolExhaustion(t *testing.T) {
	ep := fakePingServer(t)
	p := NewDirectPool(ep, BaseOptions{PoolSize: 1})
	defer p.Close()

	c1, err := p.Acquire()
	require.NoError(t, err)
	defer p.Release(c1)

	_, err = p.Acquire()
	require.Error(t, err)
}
