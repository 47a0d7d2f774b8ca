package cmd

import "github.com/schlitzered/goredis/resp"

// Get runs GET.
func Get(e Executor, key string) (resp.Value, error) {
	return e.Execute("GET", key)
}

// Set runs SET, forwarding any trailing option tokens (EX, PX, NX, XX...)
// exactly as given.
func Set(e Executor, key, value string, opts ...interface{}) (resp.Value, error) {
	args := append([]interface{}{"SET", key, value}, opts...)
	return e.Execute(args...)
}

// SetNX runs SETNX.
func SetNX(e Executor, key, value string) (resp.Value, error) {
	return e.Execute("SETNX", key, value)
}

// Incr runs INCR.
func Incr(e Executor, key string) (resp.Value, error) {
	return e.Execute("INCR", key)
}

// IncrBy runs INCRBY.
func IncrBy(e Executor, key string, delta int64) (resp.Value, error) {
	return e.Execute("INCRBY", key, delta)
}

// Append runs APPEND.
func Append(e Executor, key, value string) (resp.Value, error) {
	return e.Execute("APPEND", key, value)
}

// Strlen runs STRLEN.
func Strlen(e Executor, key string) (resp.Value, error) {
	return e.Execute("STRLEN", key)
}

// MGet runs MGET.
func MGet(e Executor, keys ...string) (resp.Value, error) {
	args := make([]interface{}, 0, len(keys)+1)
	args = append(args, "MGET")
	for _, k := range keys {
		args = append(args, k)
	}
	return e.Execute(args...)
}
