// Package conn implements a single connection to one Redis-compatible
// endpoint: dial, optional AUTH/SELECT/READONLY handshake, and framed
// write/read of RESP commands and replies.
package conn

import (
	"io"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/schlitzered/goredis/endpoint"
	"github.com/schlitzered/goredis/resp"
)

const readChunkSize = 4096

// Conn wraps one net.Conn plus the RESP reader state needed to parse
// replies off it. It is not safe for concurrent use — every topology
// layer above it (Pool, ClusterClient, ...) is responsible for ensuring
// only one goroutine at a time drives a given Conn, same as the
// original's socket-per-greenlet discipline.
type Conn struct {
	Endpoint endpoint.Endpoint

	Username    string
	Password    string
	Database    int
	Sentinel    bool // when true, AUTH is skipped even if a password is set
	ReplicaRead bool // when true, READONLY is issued right after connect

	ConnectTimeout time.Duration
	ReadTimeout    time.Duration

	log logrus.FieldLogger

	sock   net.Conn
	reader *resp.Reader
	closed bool
}

// Option configures a Conn at construction time.
type Option func(*Conn)

func WithAuth(username, password string) Option {
	return func(c *Conn) { c.Username = username; c.Password = password }
}

func WithDatabase(db int) Option {
	return func(c *Conn) { c.Database = db }
}

func WithSentinel() Option {
	return func(c *Conn) { c.Sentinel = true }
}

func WithReplicaRead() Option {
	return func(c *Conn) { c.ReplicaRead = true }
}

func WithConnectTimeout(d time.Duration) Option {
	return func(c *Conn) { c.ConnectTimeout = d }
}

func WithReadTimeout(d time.Duration) Option {
	return func(c *Conn) { c.ReadTimeout = d }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Conn) { c.log = log }
}

// New creates a Conn for ep but does not dial it yet; call Connect.
func New(ep endpoint.Endpoint, opts ...Option) (*Conn, error) {
	if err := ep.Validate(); err != nil {
		return nil, err
	}
	c := &Conn{
		Endpoint:       ep,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    5 * time.Second,
		log:            logrus.StandardLogger(),
		reader:         resp.NewReader(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Connect dials the endpoint, then, unless Sentinel is set, runs AUTH (if
// a password is configured), READONLY (if ReplicaRead is set) and SELECT
// unconditionally. IPv4 is tried first, falling back to IPv6 on failure,
// mirroring _connect_inet46; Unix sockets dial directly.
func (c *Conn) Connect() error {
	var sock net.Conn
	var err error
	if c.Endpoint.UnixSock != "" {
		sock, err = net.DialTimeout("unix", c.Endpoint.UnixSock, c.ConnectTimeout)
	} else {
		sock, err = net.DialTimeout("tcp4", c.Endpoint.Address(), c.ConnectTimeout)
		if err != nil {
			sock, err = net.DialTimeout("tcp6", c.Endpoint.Address(), c.ConnectTimeout)
		}
	}
	if err != nil {
		return NewConnError(c, err)
	}
	c.sock = sock
	c.closed = false

	if !c.Sentinel {
		if c.Password != "" {
			if err := c.authenticate(); err != nil {
				c.closeSock()
				return err
			}
		}
		if c.ReplicaRead {
			if err := c.readonly(); err != nil {
				c.closeSock()
				return err
			}
		}
		if err := c.selectDB(); err != nil {
			c.closeSock()
			return err
		}
	}
	// Read deadlines are applied per-recv in fillBuffer; nothing further to
	// set here beyond the handshake itself completing cleanly.
	return nil
}

func (c *Conn) readonly() error {
	if err := c.Write("READONLY"); err != nil {
		return err
	}
	_, err := c.Read(true, true)
	return err
}

func (c *Conn) authenticate() error {
	var args []interface{}
	if c.Username != "" {
		args = []interface{}{"AUTH", c.Username, c.Password}
	} else {
		args = []interface{}{"AUTH", c.Password}
	}
	if err := c.Write(args...); err != nil {
		return err
	}
	_, err := c.Read(true, true)
	return err
}

func (c *Conn) selectDB() error {
	if err := c.Write("SELECT", c.Database); err != nil {
		return err
	}
	_, err := c.Read(true, true)
	return err
}

// Closed reports whether Close has been called on this Conn.
func (c *Conn) Closed() bool {
	return c.closed
}

func (c *Conn) Close() error {
	return c.closeSock()
}

func (c *Conn) closeSock() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.sock == nil {
		return nil
	}
	return c.sock.Close()
}

// Write encodes args as a RESP command array and sends it in full,
// mapping a broken pipe or any other send failure to a ConnError.
func (c *Conn) Write(args ...interface{}) error {
	b, err := resp.Encode(args...)
	if err != nil {
		return err
	}
	if _, err := c.sock.Write(b); err != nil {
		c.log.WithField("endpoint", c.Endpoint.Key()).Debug("write failed, closing connection")
		c.closeSock()
		return NewConnError(c, err)
	}
	return nil
}

// Read waits for one complete reply. closeOnTimeout controls whether a
// read-deadline expiry closes the socket (the default: a single command's
// timeout usually means the connection is in an unknown state) or leaves
// it open (used by PubSubClient.Get, where an idle subscription routinely
// sees no data within the deadline).
// raiseOnResultErr controls whether a RESP error reply is returned as a Go
// error (the default) or passed back as a Value of Kind KindError for the
// caller to inspect itself (used by the pipelined bulk drains, which
// collect error replies alongside successful ones in issue order).
func (c *Conn) Read(closeOnTimeout, raiseOnResultErr bool) (resp.Value, error) {
	if c.sock == nil {
		if err := c.Connect(); err != nil {
			return resp.Value{}, err
		}
	}
	for {
		v, err := c.reader.Gets()
		if err == nil {
			if raiseOnResultErr && v.Kind == resp.KindError {
				return v, v.Err
			}
			return v, nil
		}
		if err != resp.ErrIncomplete {
			c.closeSock()
			return resp.Value{}, err
		}
		if err := c.fillBuffer(closeOnTimeout); err != nil {
			return resp.Value{}, err
		}
	}
}

func (c *Conn) fillBuffer(closeOnTimeout bool) error {
	if c.ReadTimeout > 0 {
		c.sock.SetReadDeadline(time.Now().Add(c.ReadTimeout))
	}
	buf := make([]byte, readChunkSize)
	n, err := c.sock.Read(buf)
	if n > 0 {
		_ = c.reader.FeedAll(buf[:n])
	}
	if err == nil {
		return nil
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		if closeOnTimeout {
			c.closeSock()
		}
		return NewReadTimeoutError(c, err)
	}
	if err == io.EOF {
		c.closeSock()
		return NewConnClosedError(c)
	}
	c.closeSock()
	return NewConnError(c, err)
}
