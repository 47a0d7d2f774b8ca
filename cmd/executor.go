package cmd

import "github.com/schlitzered/goredis/resp"

// ShardExecutor is satisfied by client.ClusterClient and client.HashClient:
// both route by an explicit shard key rather than executing directly.
type ShardExecutor interface {
	Execute(shardKey []byte, args ...interface{}) (resp.Value, error)
}

// shardBound adapts a ShardExecutor plus a fixed key into a plain
// Executor, so the same verb wrappers below work whether the underlying
// client is a single connection or a sharded one.
type shardBound struct {
	e   ShardExecutor
	key []byte
}

// BindShard fixes shardKey against a ClusterClient/HashClient so its
// commands can be issued through the same typed wrappers as a plain
// Client.
func BindShard(e ShardExecutor, shardKey []byte) Executor {
	return shardBound{e: e, key: shardKey}
}

func (s shardBound) Execute(args ...interface{}) (resp.Value, error) {
	return s.e.Execute(s.key, args...)
}
