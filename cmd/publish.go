package cmd

import "github.com/schlitzered/goredis/resp"

// Publish runs PUBLISH.
func Publish(e Executor, channel, message string) (resp.Value, error) {
	return e.Execute("PUBLISH", channel, message)
}
