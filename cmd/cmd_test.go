package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schlitzered/goredis/resp"
)

// recordingExecutor captures the args passed to Execute and returns a
// canned reply, enough to assert each wrapper builds the right command.
type recordingExecutor struct {
	args  []interface{}
	reply resp.Value
}

func (r *recordingExecutor) Execute(args ...interface{}) (resp.Value, error) {
	r.args = args
	return r.reply, nil
}

type recordingShardExecutor struct {
	shardKey []byte
	args     []interface{}
}

func (r *recordingShardExecutor) Execute(shardKey []byte, args ...interface{}) (resp.Value, error) {
	r.shardKey = shardKey
	r.args = args
	return resp.Value{}, nil
}

func TestGetBuildsCommand(t *testing.T) {
	e := &recordingExecutor{reply: resp.Value{Kind: resp.KindBulk, Str: []byte("val")}}
	v, err := Get(e, "mykey")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"GET", "mykey"}, e.args)
	assert.Equal(t, "val", string(v.Str))
}

func TestSetForwardsOptions(t *testing.T) {
	e := &recordingExecutor{}
	_, err := Set(e, "mykey", "val", "EX", 10)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"SET", "mykey", "val", "EX", 10}, e.args)
}

func TestDelVariadicKeys(t *testing.T) {
	e := &recordingExecutor{}
	_, err := Del(e, "a", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"DEL", "a", "b", "c"}, e.args)
}

func TestObjectRoutesToObjectNotDel(t *testing.T) {
	e := &recordingExecutor{}
	_, err := Object(e, "ENCODING", "mykey")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"OBJECT", "ENCODING", "mykey"}, e.args)
}

func TestBindShardAdaptsShardExecutor(t *testing.T) {
	se := &recordingShardExecutor{}
	bound := BindShard(se, []byte("shardkey"))
	_, err := HGet(bound, "myhash", "field")
	require.NoError(t, err)
	assert.Equal(t, []byte("shardkey"), se.shardKey)
	assert.Equal(t, []interface{}{"HGET", "myhash", "field"}, se.args)
}
