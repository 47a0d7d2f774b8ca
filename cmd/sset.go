package cmd

import "github.com/schlitzered/goredis/resp"

// ZAdd runs ZADD, forwarding score/member pairs exactly as given.
func ZAdd(e Executor, key string, scoreMembers ...interface{}) (resp.Value, error) {
	args := append([]interface{}{"ZADD", key}, scoreMembers...)
	return e.Execute(args...)
}

// ZScore runs ZSCORE.
func ZScore(e Executor, key, member string) (resp.Value, error) {
	return e.Execute("ZSCORE", key, member)
}

// ZRange runs ZRANGE.
func ZRange(e Executor, key string, start, stop int64, opts ...interface{}) (resp.Value, error) {
	args := append([]interface{}{"ZRANGE", key, start, stop}, opts...)
	return e.Execute(args...)
}

// ZRank runs ZRANK.
func ZRank(e Executor, key, member string) (resp.Value, error) {
	return e.Execute("ZRANK", key, member)
}

// ZRem runs ZREM against one or more members.
func ZRem(e Executor, key string, members ...string) (resp.Value, error) {
	args := make([]interface{}, 0, len(members)+2)
	args = append(args, "ZREM", key)
	for _, m := range members {
		args = append(args, m)
	}
	return e.Execute(args...)
}

// ZCard runs ZCARD.
func ZCard(e Executor, key string) (resp.Value, error) {
	return e.Execute("ZCARD", key)
}
