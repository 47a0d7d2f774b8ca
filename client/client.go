// Package client implements the four request surfaces goredis exposes
// over one or more conn.Conn: a single-endpoint Client, a ClusterClient
// that follows MOVED/ASK redirects against a cluster.Map, a HashClient
// routing over a static hashring.Ring, and a PubSubClient.
package client

import (
	"github.com/schlitzered/goredis/conn"
	"github.com/schlitzered/goredis/endpoint"
	"github.com/schlitzered/goredis/resp"
	"github.com/schlitzered/goredis/rerror"
)

// Client talks to exactly one endpoint over one connection, with optional
// pipelined ("bulk") execution.
type Client struct {
	conn *conn.Conn

	bulk         bool
	bulkKeepUser bool
	bulkSize     int
	bulkPending  int
	bulkResults  []BulkResult
}

// BulkResult is one outcome from a bulk-mode batch: either a reply or the
// error that command produced, preserving issue order.
type BulkResult struct {
	Value resp.Value
	Err   error
}

// New dials ep and returns a ready Client.
func New(ep endpoint.Endpoint, opts ...conn.Option) (*Client, error) {
	c, err := conn.New(ep, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Connect(); err != nil {
		return nil, err
	}
	return &Client{conn: c}, nil
}

// FromConn wraps an already-connected Conn, used by pools that manage the
// dial themselves.
func FromConn(c *conn.Conn) *Client {
	return &Client{conn: c}
}

func (c *Client) Closed() bool { return c.conn.Closed() }

func (c *Client) Close() error { return c.conn.Close() }

// Bulk reports whether the client is currently in pipelined mode.
func (c *Client) Bulk() bool { return c.bulk }

// BulkStart puts the client into pipelined mode: subsequent Execute calls
// write the command immediately but do not wait for the reply until
// bulkSize commands have accumulated (triggering an automatic drain) or
// BulkStop is called. When keepResults is true, drained replies are
// retained in issue order and returned by BulkStop.
func (c *Client) BulkStart(bulkSize int, keepResults bool) error {
	if c.bulk {
		return &rerror.ConfigError{Msg: "already in bulk mode"}
	}
	c.bulk = true
	c.bulkSize = bulkSize
	c.bulkPending = 0
	c.bulkKeepUser = keepResults
	if keepResults {
		c.bulkResults = make([]BulkResult, 0, bulkSize)
	}
	return nil
}

// BulkStop drains any remaining outstanding replies and leaves pipelined
// mode. If BulkStart was called with keepResults, the accumulated results
// (in issue order) are returned.
func (c *Client) BulkStop() ([]BulkResult, error) {
	if !c.bulk {
		return nil, &rerror.ConfigError{Msg: "not in bulk mode"}
	}
	c.drainBulk()
	results := c.bulkResults
	c.bulk = false
	c.bulkKeepUser = false
	c.bulkResults = nil
	c.bulkSize = 0
	c.bulkPending = 0
	return results, nil
}

func (c *Client) drainBulk() {
	for c.bulkPending > 0 {
		v, err := c.conn.Read(true, false)
		c.bulkPending--
		if c.bulkKeepUser {
			c.bulkResults = append(c.bulkResults, BulkResult{Value: v, Err: err})
		}
	}
}

// Execute runs one command. In bulk mode it writes the command and
// returns immediately (a zero Value, nil error) unless this write
// completes the current batch, in which case the batch is drained first.
func (c *Client) Execute(args ...interface{}) (resp.Value, error) {
	if !c.bulk {
		return c.executeBasic(args...)
	}
	return resp.Value{}, c.executeBulk(args...)
}

func (c *Client) executeBasic(args ...interface{}) (resp.Value, error) {
	if err := c.conn.Write(args...); err != nil {
		return resp.Value{}, err
	}
	return c.conn.Read(true, true)
}

func (c *Client) executeBulk(args ...interface{}) error {
	if err := c.conn.Write(args...); err != nil {
		return err
	}
	c.bulkPending++
	if c.bulkPending == c.bulkSize {
		c.drainBulk()
	}
	return nil
}
