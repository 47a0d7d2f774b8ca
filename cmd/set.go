package cmd

import "github.com/schlitzered/goredis/resp"

// SAdd runs SADD against one or more members.
func SAdd(e Executor, key string, members ...string) (resp.Value, error) {
	args := make([]interface{}, 0, len(members)+2)
	args = append(args, "SADD", key)
	for _, m := range members {
		args = append(args, m)
	}
	return e.Execute(args...)
}

// SRem runs SREM against one or more members.
func SRem(e Executor, key string, members ...string) (resp.Value, error) {
	args := make([]interface{}, 0, len(members)+2)
	args = append(args, "SREM", key)
	for _, m := range members {
		args = append(args, m)
	}
	return e.Execute(args...)
}

// SMembers runs SMEMBERS.
func SMembers(e Executor, key string) (resp.Value, error) {
	return e.Execute("SMEMBERS", key)
}

// SIsMember runs SISMEMBER.
func SIsMember(e Executor, key, member string) (resp.Value, error) {
	return e.Execute("SISMEMBER", key, member)
}

// SCard runs SCARD.
func SCard(e Executor, key string) (resp.Value, error) {
	return e.Execute("SCARD", key)
}
