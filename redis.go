// Package redis is the top-level entry point of goredis: ByURL builds
// the right pool variant (direct, cluster, sentinel, or a standalone
// Pub/Sub client) from one connection string, the way applications that
// just want "give me a pool for this address" expect to configure
// things, without hand-assembling a cluster.Map or sentinel.Resolver
// themselves.
package redis

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/schlitzered/goredis/client"
	"github.com/schlitzered/goredis/endpoint"
	"github.com/schlitzered/goredis/pool"
	"github.com/schlitzered/goredis/rerror"
	"github.com/schlitzered/goredis/sentinel"
)

// ByURL parses rawurl and returns the pool variant its scheme names:
//
//	redis://host[:port][?opts]             -> *pool.DirectPool
//	cluster://host1[:port1],host2[:port2]  -> *pool.ClusterPool
//	sentinel://host1[:port1],...?name=x    -> *pool.SentinelPool
//	pubsub://host[:port]                   -> *client.PubSubClient
//
// Recognized query options: database, pool_size, retries, conn_timeout
// (seconds, float-ok), read_timeout (seconds, float-ok), slave_ok
// (true/True/1), username, password, name (sentinel master name).
// Unknown query keys are a URLError, matching spec.md's "unrecognized
// keys surface as URL error" rule.
func ByURL(rawurl string) (interface{}, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, &rerror.URLError{URL: rawurl, Msg: err.Error()}
	}

	opts, retries, slaveOk, masterName, err := parseQuery(rawurl, u.Query())
	if err != nil {
		return nil, err
	}
	if u.User != nil {
		opts.Username = u.User.Username()
		opts.Password, _ = u.User.Password()
	}

	endpoints, err := parseHostList(rawurl, u.Host)
	if err != nil {
		return nil, err
	}

	switch u.Scheme {
	case "redis":
		if len(endpoints) != 1 {
			return nil, &rerror.URLError{URL: rawurl, Msg: "redis:// accepts exactly one host"}
		}
		return pool.NewDirectPool(endpoints[0], opts), nil
	case "cluster":
		return pool.NewClusterPool(endpoints, slaveOk, opts), nil
	case "sentinel":
		if masterName == "" {
			return nil, &rerror.URLError{URL: rawurl, Msg: "sentinel:// requires a name= query option"}
		}
		sentinelOpts := []sentinel.Option{sentinel.WithAuth(opts.Username, opts.Password)}
		if opts.Logger != nil {
			sentinelOpts = append(sentinelOpts, sentinel.WithLogger(opts.Logger))
		}
		resolver := sentinel.NewResolver(endpoints, sentinelOpts...)
		return pool.NewSentinelPool(resolver, masterName, slaveOk, retries, opts), nil
	case "pubsub":
		if len(endpoints) != 1 {
			return nil, &rerror.URLError{URL: rawurl, Msg: "pubsub:// accepts exactly one host"}
		}
		return client.NewPubSubClient(endpoints[0])
	default:
		return nil, &rerror.URLError{URL: rawurl, Msg: "unknown scheme " + u.Scheme}
	}
}

func parseHostList(rawurl, host string) ([]endpoint.Endpoint, error) {
	if host == "" {
		return nil, &rerror.URLError{URL: rawurl, Msg: "missing host"}
	}
	parts := strings.Split(host, ",")
	out := make([]endpoint.Endpoint, 0, len(parts))
	for _, p := range parts {
		ep, err := endpoint.ParseHostPort(withDefaultPort(p))
		if err != nil {
			return nil, &rerror.URLError{URL: rawurl, Msg: err.Error()}
		}
		out = append(out, ep)
	}
	return out, nil
}

func parseSeconds(v string) (time.Duration, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(f * float64(time.Second)), nil
}

func withDefaultPort(hostport string) string {
	if strings.Contains(hostport, ":") {
		return hostport
	}
	return hostport + ":6379"
}

func parseQuery(rawurl string, q url.Values) (pool.BaseOptions, int, bool, string, error) {
	var opts pool.BaseOptions
	retries := 0
	slaveOk := false
	masterName := ""

	for key, vals := range q {
		if len(vals) == 0 {
			continue
		}
		v := vals[0]
		var err error
		switch key {
		case "database":
			opts.Database, err = strconv.Atoi(v)
		case "pool_size":
			opts.PoolSize, err = strconv.Atoi(v)
		case "retries":
			retries, err = strconv.Atoi(v)
		case "conn_timeout":
			opts.ConnectTimeout, err = parseSeconds(v)
		case "read_timeout":
			opts.ReadTimeout, err = parseSeconds(v)
		case "slave_ok":
			slaveOk = v == "true" || v == "True" || v == "1"
		case "username":
			opts.Username = v
		case "password":
			opts.Password = v
		case "name":
			masterName = v
		default:
			return opts, 0, false, "", &rerror.URLError{URL: rawurl, Msg: "unrecognized option " + key}
		}
		if err != nil {
			return opts, 0, false, "", &rerror.URLError{URL: rawurl, Msg: "bad value for " + key + ": " + err.Error()}
		}
	}
	return opts, retries, slaveOk, masterName, nil
}
