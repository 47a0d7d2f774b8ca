package cmd

import "github.com/schlitzered/goredis/resp"

// Del runs DEL against one or more keys.
func Del(e Executor, keys ...string) (resp.Value, error) {
	args := make([]interface{}, 0, len(keys)+1)
	args = append(args, "DEL")
	for _, k := range keys {
		args = append(args, k)
	}
	return e.Execute(args...)
}

// Exists runs EXISTS.
func Exists(e Executor, key string) (resp.Value, error) {
	return e.Execute("EXISTS", key)
}

// Expire runs EXPIRE.
func Expire(e Executor, key string, seconds int64) (resp.Value, error) {
	return e.Execute("EXPIRE", key, seconds)
}

// Ttl runs TTL.
func Ttl(e Executor, key string) (resp.Value, error) {
	return e.Execute("TTL", key)
}

// Persist runs PERSIST.
func Persist(e Executor, key string) (resp.Value, error) {
	return e.Execute("PERSIST", key)
}

// Rename runs RENAME.
func Rename(e Executor, key, newKey string) (resp.Value, error) {
	return e.Execute("RENAME", key, newKey)
}

// Type runs TYPE.
func Type(e Executor, key string) (resp.Value, error) {
	return e.Execute("TYPE", key)
}

// Object runs OBJECT, forwarding the subcommand exactly as given. Ported
// from pyredis.commands.Key.object, which in one historical client port
// was mistakenly wired to send DEL instead of OBJECT — that was a
// copy/paste bug in the other port, not an intended alias, so this
// forwards to OBJECT as its name says.
func Object(e Executor, subcommand string, args ...string) (resp.Value, error) {
	out := make([]interface{}, 0, len(args)+2)
	out = append(out, "OBJECT", subcommand)
	for _, a := range args {
		out = append(out, a)
	}
	return e.Execute(out...)
}

// Scan runs SCAN with a cursor.
func Scan(e Executor, cursor string, args ...interface{}) (resp.Value, error) {
	out := append([]interface{}{"SCAN", cursor}, args...)
	return e.Execute(out...)
}
