package cmd

import "github.com/schlitzered/goredis/resp"

// LPush runs LPUSH against one or more values.
func LPush(e Executor, key string, values ...string) (resp.Value, error) {
	args := make([]interface{}, 0, len(values)+2)
	args = append(args, "LPUSH", key)
	for _, v := range values {
		args = append(args, v)
	}
	return e.Execute(args...)
}

// RPush runs RPUSH against one or more values.
func RPush(e Executor, key string, values ...string) (resp.Value, error) {
	args := make([]interface{}, 0, len(values)+2)
	args = append(args, "RPUSH", key)
	for _, v := range values {
		args = append(args, v)
	}
	return e.Execute(args...)
}

// LPop runs LPOP.
func LPop(e Executor, key string) (resp.Value, error) {
	return e.Execute("LPOP", key)
}

// RPop runs RPOP.
func RPop(e Executor, key string) (resp.Value, error) {
	return e.Execute("RPOP", key)
}

// LRange runs LRANGE.
func LRange(e Executor, key string, start, stop int64) (resp.Value, error) {
	return e.Execute("LRANGE", key, start, stop)
}

// LLen runs LLEN.
func LLen(e Executor, key string) (resp.Value, error) {
	return e.Execute("LLEN", key)
}
