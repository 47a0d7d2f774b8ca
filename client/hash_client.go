package client

import (
	"errors"

	"github.com/schlitzered/goredis/conn"
	"github.com/schlitzered/goredis/endpoint"
	"github.com/schlitzered/goredis/hashring"
	"github.com/schlitzered/goredis/resp"
	"github.com/schlitzered/goredis/rerror"
)

// HashClient routes commands across a fixed list of endpoints using
// construction-time static hashing (hashring.Ring), rather than a live,
// refreshable cluster.Map. It dials every bucket eagerly at construction,
// matching HashClient._init_conns.
type HashClient struct {
	ring   *hashring.Ring
	conns  []*conn.Conn // indexed the same as ring's bucket order
	closed bool

	bulk         bool
	bulkKeepUser bool
	bulkSize     int
	bulkPending  int
	bulkOrder    []int // bucket index per pending write, in issue order
	bulkResults  []BulkResult
}

// NewHashClient dials every endpoint in buckets and returns a HashClient
// routing across them via a static hashring.
func NewHashClient(buckets []endpoint.Endpoint, opts ...conn.Option) (*HashClient, error) {
	keys := make([]string, len(buckets))
	conns := make([]*conn.Conn, len(buckets))
	for i, ep := range buckets {
		keys[i] = ep.Key()
		c, err := conn.New(ep, opts...)
		if err != nil {
			for _, done := range conns[:i] {
				if done != nil {
					done.Close()
				}
			}
			return nil, err
		}
		if err := c.Connect(); err != nil {
			for _, done := range conns[:i] {
				if done != nil {
					done.Close()
				}
			}
			return nil, err
		}
		conns[i] = c
	}
	return &HashClient{ring: hashring.New(keys), conns: conns}, nil
}

func (hc *HashClient) Closed() bool { return hc.closed }

func (hc *HashClient) Close() error {
	for _, c := range hc.conns {
		c.Close()
	}
	hc.closed = true
	return nil
}

func (hc *HashClient) Bulk() bool { return hc.bulk }

func (hc *HashClient) BulkStart(bulkSize int, keepResults bool) error {
	if hc.bulk {
		return &rerror.ConfigError{Msg: "already in bulk mode"}
	}
	hc.bulk = true
	hc.bulkSize = bulkSize
	hc.bulkPending = 0
	hc.bulkKeepUser = keepResults
	hc.bulkOrder = hc.bulkOrder[:0]
	if keepResults {
		hc.bulkResults = make([]BulkResult, 0, bulkSize)
	}
	return nil
}

func (hc *HashClient) BulkStop() ([]BulkResult, error) {
	if !hc.bulk {
		return nil, &rerror.ConfigError{Msg: "not in bulk mode"}
	}
	hc.drainBulk()
	results := hc.bulkResults
	hc.bulk = false
	hc.bulkKeepUser = false
	hc.bulkResults = nil
	hc.bulkSize = 0
	hc.bulkPending = 0
	return results, nil
}

// drainBulk reads one reply per pending write in the exact order writes
// were issued across buckets, matching _bulk_fetch's iteration over
// _bulk_bucket_order.
func (hc *HashClient) drainBulk() {
	for _, idx := range hc.bulkOrder {
		v, err := hc.conns[idx].Read(true, false)
		if err != nil {
			hc.Close()
		}
		if hc.bulkKeepUser {
			hc.bulkResults = append(hc.bulkResults, BulkResult{Value: v, Err: err})
		}
	}
	hc.bulkOrder = hc.bulkOrder[:0]
	hc.bulkPending = 0
}

// Execute runs a command against the bucket owning shardKey.
func (hc *HashClient) Execute(shardKey []byte, args ...interface{}) (resp.Value, error) {
	_, idx := hc.ring.BucketForKey(shardKey)
	return hc.executeOnBucket(idx, args...)
}

// ExecuteOn runs a command against an explicit bucket index, used by
// SentinelHashPool-style callers that already know which shard they want.
func (hc *HashClient) ExecuteOn(bucketIdx int, args ...interface{}) (resp.Value, error) {
	return hc.executeOnBucket(bucketIdx, args...)
}

// executeOnBucket runs one command against bucket idx. Per hashring's
// positional contract (§4.6), a connection-level error on any one bucket
// invalidates the whole client rather than just that bucket: pipelined
// ordering across buckets can't be trusted once one socket has dropped
// mid-sequence, so the caller must reconnect the whole HashClient.
func (hc *HashClient) executeOnBucket(idx int, args ...interface{}) (resp.Value, error) {
	c := hc.conns[idx]
	if !hc.bulk {
		if err := c.Write(args...); err != nil {
			hc.closeOnConnErr(err)
			return resp.Value{}, err
		}
		v, err := c.Read(true, true)
		if err != nil && !isReplyErr(err) {
			hc.closeOnConnErr(err)
		}
		return v, err
	}
	if err := c.Write(args...); err != nil {
		hc.closeOnConnErr(err)
		return resp.Value{}, err
	}
	hc.bulkPending++
	hc.bulkOrder = append(hc.bulkOrder, idx)
	if hc.bulkPending == hc.bulkSize {
		hc.drainBulk()
	}
	return resp.Value{}, nil
}

// closeOnConnErr closes every bucket connection once any one of them has
// failed at the connection level (not a reply error), since the bulk
// ordering guarantee HashClient offers assumes every bucket socket stays
// usable for the life of the client.
func (hc *HashClient) closeOnConnErr(err error) {
	if isReplyErr(err) {
		return
	}
	hc.Close()
}

func isReplyErr(err error) bool {
	var replyErr *rerror.ReplyError
	return errors.As(err, &replyErr)
}
