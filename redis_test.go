package redis

import (
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schlitzered/goredis/pool"
)

func fakeServer(t *testing.T) (string, int) {
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
					if _, err := c.Read(buf); err != nil {
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
	return host, port
}

func TestByURLDirect(t *testing.T) {
	host, port := fakeServer(t)
	p, err := ByURL("redis://" + host + ":" + strconv.Itoa(port) + "?pool_size=2")
	require.NoError(t, err)
	dp, ok := p.(*pool.DirectPool)
	require.True(t, ok)
	defer dp.Close()

	c, err := dp.Acquire()
	require.NoError(t, err)
	defer dp.Release(c)
	v, err := c.Execute("PING")
	require.NoError(t, err)
	assert.Equal(t, "PONG", string(v.Str))
}

func TestByURLUnknownScheme(t *testing.T) {
	_, err := ByURL("bogus://localhost:1234")
	require.Error(t, err)
}

func TestByURLUnrecognizedOption(t *testing.T) {
	_, err := ByURL("redis://localhost:6379?frobnicate=1")
	require.Error(t, err)
}

func TestByURLSentinelRequiresName(t *testing.T) {
	_, err := ByURL("sentinel://localhost:26379")
	require.Error(t, err)
}
