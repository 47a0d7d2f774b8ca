package client

import (
	"github.com/schlitzered/goredis/conn"
	"github.com/schlitzered/goredis/endpoint"
	"github.com/schlitzered/goredis/resp"
)

// PubSubClient is a thin wrapper over a single Conn dedicated to the
// Redis Pub/Sub subsystem: Write issues SUBSCRIBE/UNSUBSCRIBE/PSUBSCRIBE/
// PUNSUBSCRIBE (or PUBLISH, on a separate connection), Get fetches
// whatever arrives next — a subscribe/unsubscribe acknowledgement or a
// published message. A read timeout in Get is returned as an error but
// does not close the connection, since a Pub/Sub connection is expected to
// sit idle between messages.
type PubSubClient struct {
	conn *conn.Conn
}

// NewPubSubClient dials ep and returns a ready PubSubClient.
func NewPubSubClient(ep endpoint.Endpoint, opts ...conn.Option) (*PubSubClient, error) {
	c, err := conn.New(ep, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Connect(); err != nil {
		return nil, err
	}
	return &PubSubClient{conn: c}, nil
}

func (p *PubSubClient) Closed() bool { return p.conn.Closed() }

func (p *PubSubClient) Close() error { return p.conn.Close() }

// Write sends a raw command (SUBSCRIBE/UNSUBSCRIBE/PSUBSCRIBE/PUNSUBSCRIBE
// or any other verb the caller wants to forward) without waiting for a
// reply; replies are fetched via Get.
func (p *PubSubClient) Write(args ...interface{}) error {
	return p.conn.Write(args...)
}

// Get fetches the next reply off the connection: a subscribe/unsubscribe
// acknowledgement array or a "message"/"pmessage" push array. A read
// timeout does not close the connection, matching close_on_timeout=false.
func (p *PubSubClient) Get() (resp.Value, error) {
	return p.conn.Read(false, true)
}
