package client

import (
	"fmt"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schlitzered/goredis/endpoint"
	"github.com/schlitzered/goredis/resp"
)

// scriptedServer is a minimal fake Redis node: it accepts connections on a
// loopback port and, for every command it parses off the wire, hands the
// argument vector to a caller-supplied handler and writes back whatever
// raw RESP bytes the handler returns. The SELECT that conn.Conn issues on
// every connect is answered with +OK by the server itself and never reaches
// the handler. Tests use it to drive the
// MOVED/ASK/bulk scenarios §8 describes without a real cluster.
type scriptedServer struct {
	ln      net.Listener
	addr    endpoint.Endpoint
	handler func(cmd []string) []byte
}

func newScriptedServer(t *testing.T) *scriptedServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	tcpAddr := ln.Addr().(*net.TCPAddr)
	s := &scriptedServer{ln: ln, addr: endpoint.Endpoint{Host: "127.0.0.1", Port: tcpAddr.Port}}
	t.Cleanup(func() { ln.Close() })
	return s
}

// Start begins accepting connections, dispatching each parsed command to
// handler. Must be called exactly once, before any client dials s.addr.
func (s *scriptedServer) Start(handler func(cmd []string) []byte) {
	s.handler = handler
	go func() {
		for {
			c, err := s.ln.Accept()
			if err != nil {
				return
			}
			go s.serve(c)
		}
	}()
}

func (s *scriptedServer) serve(c net.Conn) {
	defer c.Close()
	r := resp.NewReader()
	buf := make([]byte, 4096)
	for {
		v, err := r.Gets()
		for err == resp.ErrIncomplete {
			n, rerr := c.Read(buf)
			if n > 0 {
				_ = r.FeedAll(buf[:n])
			}
			if rerr != nil {
				return
			}
			v, err = r.Gets()
		}
		if err != nil {
			return
		}
		cmd := make([]string, len(v.Arr))
		for i, a := range v.Arr {
			cmd[i] = string(a.Str)
		}
		var reply []byte
		if upper(cmd) == "SELECT" {
			reply = []byte("+OK\r\n")
		} else {
			reply = s.handler(cmd)
		}
		if reply == nil {
			// A nil reply means "stay silent on this command", used by
			// tests that want the client side to hit its own read
			// timeout without the server tearing down the socket.
			continue
		}
		if _, err := c.Write(reply); err != nil {
			return
		}
	}
}

func upper(cmd []string) string {
	if len(cmd) == 0 {
		return ""
	}
	return strings.ToUpper(cmd[0])
}

func bulkFrame(s string) string {
	return fmt.Sprintf("$%d\r\n%s\r\n", len(s), s)
}

// clusterSlotsReply builds a one-range CLUSTER SLOTS reply assigning the
// whole slot space to master, with no replicas.
func clusterSlotsReply(start, end int, master endpoint.Endpoint) []byte {
	var b strings.Builder
	b.WriteString("*1\r\n*3\r\n")
	fmt.Fprintf(&b, ":%d\r\n:%d\r\n", start, end)
	b.WriteString("*2\r\n")
	b.WriteString(bulkFrame(master.Host))
	fmt.Fprintf(&b, ":%d\r\n", master.Port)
	return []byte(b.String())
}
