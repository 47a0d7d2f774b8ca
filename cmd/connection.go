package cmd

import "github.com/schlitzered/goredis/resp"

// Echo runs ECHO.
func Echo(e Executor, msg string) (resp.Value, error) {
	return e.Execute("ECHO", msg)
}

// Ping runs PING.
func Ping(e Executor) (resp.Value, error) {
	return e.Execute("PING")
}
