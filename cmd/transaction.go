package cmd

import "github.com/schlitzered/goredis/resp"

// Multi runs MULTI. goredis forwards it like any other verb; it does not
// track transaction state or buffer subsequent commands client-side.
func Multi(e Executor) (resp.Value, error) {
	return e.Execute("MULTI")
}

// Exec runs EXEC.
func Exec(e Executor) (resp.Value, error) {
	return e.Execute("EXEC")
}

// Discard runs DISCARD.
func Discard(e Executor) (resp.Value, error) {
	return e.Execute("DISCARD")
}

// Watch runs WATCH against one or more keys.
func Watch(e Executor, keys ...string) (resp.Value, error) {
	args := make([]interface{}, 0, len(keys)+1)
	args = append(args, "WATCH")
	for _, k := range keys {
		args = append(args, k)
	}
	return e.Execute(args...)
}

// Unwatch runs UNWATCH.
func Unwatch(e Executor) (resp.Value, error) {
	return e.Execute("UNWATCH")
}
