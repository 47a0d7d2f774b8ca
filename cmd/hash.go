package cmd

import "github.com/schlitzered/goredis/resp"

// HGet runs HGET.
func HGet(e Executor, key, field string) (resp.Value, error) {
	return e.Execute("HGET", key, field)
}

// HSet runs HSET.
func HSet(e Executor, key, field, value string) (resp.Value, error) {
	return e.Execute("HSET", key, field, value)
}

// HGetAll runs HGETALL.
func HGetAll(e Executor, key string) (resp.Value, error) {
	return e.Execute("HGETALL", key)
}

// HDel runs HDEL against one or more fields.
func HDel(e Executor, key string, fields ...string) (resp.Value, error) {
	args := make([]interface{}, 0, len(fields)+2)
	args = append(args, "HDEL", key)
	for _, f := range fields {
		args = append(args, f)
	}
	return e.Execute(args...)
}

// HExists runs HEXISTS.
func HExists(e Executor, key, field string) (resp.Value, error) {
	return e.Execute("HEXISTS", key, field)
}

// HIncrBy runs HINCRBY.
func HIncrBy(e Executor, key, field string, delta int64) (resp.Value, error) {
	return e.Execute("HINCRBY", key, field, delta)
}

// HKeys runs HKEYS.
func HKeys(e Executor, key string) (resp.Value, error) {
	return e.Execute("HKEYS", key)
}

// HLen runs HLEN.
func HLen(e Executor, key string) (resp.Value, error) {
	return e.Execute("HLEN", key)
}
