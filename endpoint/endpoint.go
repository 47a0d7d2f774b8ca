// Package endpoint provides the structured address goredis dials:
// either a host/port pair or a Unix socket path, never both.
package endpoint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/schlitzered/goredis/rerror"
)

// Endpoint identifies one connectable address.
type Endpoint struct {
	Host     string
	Port     int
	UnixSock string
}

// Key returns the canonical cache key for this endpoint, "host_port" for
// TCP endpoints or the raw socket path for Unix endpoints. This is the
// same form pyredis used as a pool/connection map key.
func (e Endpoint) Key() string {
	if e.UnixSock != "" {
		return e.UnixSock
	}
	return fmt.Sprintf("%s_%d", e.Host, e.Port)
}

// Network returns "unix" or "tcp", as appropriate for net.Dial.
func (e Endpoint) Network() string {
	if e.UnixSock != "" {
		return "unix"
	}
	return "tcp"
}

// Address returns the net.Dial-compatible address for this endpoint.
func (e Endpoint) Address() string {
	if e.UnixSock != "" {
		return e.UnixSock
	}
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

func (e Endpoint) Validate() error {
	if e.UnixSock != "" && (e.Host != "" || e.Port != 0) {
		return &rerror.ConfigError{Msg: "endpoint must set either host/port or unix socket, not both"}
	}
	if e.UnixSock == "" && e.Host == "" {
		return &rerror.ConfigError{Msg: "endpoint requires a host or a unix socket path"}
	}
	return nil
}

// ParseHostPort parses the "host:port" form used by MOVED/ASK redirect
// replies and by the host list of a connection URL.
func ParseHostPort(s string) (Endpoint, error) {
	idx := strings.LastIndex(s, ":")
	if idx < 0 {
		return Endpoint{}, &rerror.ProtocolError{Msg: fmt.Sprintf("malformed host:port %q", s)}
	}
	host := s[:idx]
	port, err := strconv.Atoi(s[idx+1:])
	if err != nil {
		return Endpoint{}, &rerror.ProtocolError{Msg: fmt.Sprintf("malformed host:port %q: %s", s, err)}
	}
	return Endpoint{Host: host, Port: port}, nil
}
