// Package cmd is a typed verb surface over goredis's single Execute
// entry point: one small wrapper function per Redis command, grouped the
// way pyredis.commands groups them (Key, String, Hash, List, Set, SSet,
// HyperLogLog, Scripting, Transaction, Publish, Connection). Every
// wrapper just forwards to an Executor — there is no command-specific
// logic here, only the verb name and argument shape.
package cmd

import "github.com/schlitzered/goredis/resp"

// Executor is the capability every wrapper in this package needs: run
// one command, get one reply. client.Client satisfies it directly;
// client.ClusterClient and client.HashClient route on a shard key
// instead, so BindShard (see executor.go) adapts one of their Execute
// calls into an Executor bound to a fixed key.
type Executor interface {
	Execute(args ...interface{}) (resp.Value, error)
}
