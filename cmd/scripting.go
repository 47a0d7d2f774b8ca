package cmd

import "github.com/schlitzered/goredis/resp"

// Eval runs EVAL, forwarding the script, key count, and keys/argv exactly
// as given. goredis does no client-side script caching; EvalSha is the
// caller's responsibility if they want to avoid resending the script
// body.
func Eval(e Executor, script string, numKeys int, keysAndArgs ...interface{}) (resp.Value, error) {
	args := append([]interface{}{"EVAL", script, numKeys}, keysAndArgs...)
	return e.Execute(args...)
}

// EvalSha runs EVALSHA.
func EvalSha(e Executor, sha1 string, numKeys int, keysAndArgs ...interface{}) (resp.Value, error) {
	args := append([]interface{}{"EVALSHA", sha1, numKeys}, keysAndArgs...)
	return e.Execute(args...)
}

// ScriptLoad runs SCRIPT LOAD.
func ScriptLoad(e Executor, script string) (resp.Value, error) {
	return e.Execute("SCRIPT", "LOAD", script)
}

// ScriptExists runs SCRIPT EXISTS against one or more sha1 digests.
func ScriptExists(e Executor, sha1s ...string) (resp.Value, error) {
	args := make([]interface{}, 0, len(sha1s)+2)
	args = append(args, "SCRIPT", "EXISTS")
	for _, s := range sha1s {
		args = append(args, s)
	}
	return e.Execute(args...)
}

// ScriptFlush runs SCRIPT FLUSH.
func ScriptFlush(e Executor) (resp.Value, error) {
	return e.Execute("SCRIPT", "FLUSH")
}
