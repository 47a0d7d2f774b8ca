package resp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schlitzered/goredis/rerror"
)

func TestEncodeCommand(t *testing.T) {
	b, err := Encode("SET", "foo", "bar")
	require.NoError(t, err)
	assert.Equal(t, "*3\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n", string(b))
}

func TestEncodeIntegerToken(t *testing.T) {
	b, err := Encode("INCRBY", "counter", 5)
	require.NoError(t, err)
	assert.Equal(t, "*3\r\n$6\r\nINCRBY\r\n$7\r\ncounter\r\n$1\r\n5\r\n", string(b))
}

func TestEncodeRejectsUnsupportedType(t *testing.T) {
	_, err := Encode(struct{}{})
	require.Error(t, err)
	var valueErr *rerror.ValueError
	assert.True(t, errors.As(err, &valueErr), "unsupported argument type should be a ValueError, not a wire ProtocolError")
}

func TestFeedRejectsOutOfRangeOffset(t *testing.T) {
	r := NewReader()
	err := r.Feed([]byte("abc"), 1, 10)
	require.Error(t, err)
	var valueErr *rerror.ValueError
	assert.True(t, errors.As(err, &valueErr), "an out-of-range Feed call is caller misuse, not a wire ProtocolError")
}

func TestReaderSimpleString(t *testing.T) {
	r := NewReader()
	require.NoError(t, r.FeedAll([]byte("+OK\r\n")))
	v, err := r.Gets()
	require.NoError(t, err)
	assert.Equal(t, KindSimpleString, v.Kind)
	assert.Equal(t, "OK", string(v.Str))
}

func TestReaderError(t *testing.T) {
	r := NewReader()
	require.NoError(t, r.FeedAll([]byte("-ERR something\r\n")))
	v, err := r.Gets()
	require.NoError(t, err)
	assert.Equal(t, KindError, v.Kind)
	assert.EqualError(t, v.Err, "ERR something")
}

func TestReaderInteger(t *testing.T) {
	r := NewReader()
	require.NoError(t, r.FeedAll([]byte(":1000\r\n")))
	v, err := r.Gets()
	require.NoError(t, err)
	assert.Equal(t, KindInteger, v.Kind)
	assert.EqualValues(t, 1000, v.Int)
}

func TestReaderBulkAndNilBulk(t *testing.T) {
	r := NewReader()
	require.NoError(t, r.FeedAll([]byte("$5\r\nhello\r\n$-1\r\n")))
	v, err := r.Gets()
	require.NoError(t, err)
	assert.Equal(t, KindBulk, v.Kind)
	assert.Equal(t, "hello", string(v.Str))

	v, err = r.Gets()
	require.NoError(t, err)
	assert.Equal(t, KindNilBulk, v.Kind)
	assert.True(t, v.IsNil())
}

func TestReaderArrayAndNilArray(t *testing.T) {
	r := NewReader()
	require.NoError(t, r.FeedAll([]byte("*2\r\n$3\r\nfoo\r\n$3\r\nbar\r\n*-1\r\n")))
	v, err := r.Gets()
	require.NoError(t, err)
	require.Equal(t, KindArray, v.Kind)
	require.Len(t, v.Arr, 2)
	assert.Equal(t, "foo", string(v.Arr[0].Str))
	assert.Equal(t, "bar", string(v.Arr[1].Str))

	v, err = r.Gets()
	require.NoError(t, err)
	assert.Equal(t, KindNilArray, v.Kind)
}

func TestReaderNestedArray(t *testing.T) {
	r := NewReader()
	require.NoError(t, r.FeedAll([]byte(
		"*2\r\n*3\r\n$5\r\nslot1\r\n:0\r\n:100\r\n*1\r\n$2\r\nhi\r\n")))
	v, err := r.Gets()
	require.NoError(t, err)
	require.Equal(t, KindArray, v.Kind)
	require.Len(t, v.Arr, 2)
	require.Equal(t, KindArray, v.Arr[0].Kind)
	require.Len(t, v.Arr[0].Arr, 3)
	assert.Equal(t, "slot1", string(v.Arr[0].Arr[0].Str))
}

// TestReaderArbitraryChunking verifies that feeding the exact same reply
// bytes one byte at a time produces the same parsed value as feeding them
// all at once, satisfying the "incremental parse equivalence across
// arbitrary chunk splits" property.
func TestReaderArbitraryChunking(t *testing.T) {
	payload := []byte("*3\r\n$3\r\nfoo\r\n:42\r\n*2\r\n$1\r\na\r\n$1\r\nb\r\n")

	whole := NewReader()
	require.NoError(t, whole.FeedAll(payload))
	want, err := whole.Gets()
	require.NoError(t, err)

	chunked := NewReader()
	var got Value
	for i := range payload {
		require.NoError(t, chunked.Feed(payload, i, 1))
		v, err := chunked.Gets()
		if err == ErrIncomplete {
			continue
		}
		require.NoError(t, err)
		got = v
		break
	}
	assert.Equal(t, want.Kind, got.Kind)
	require.Len(t, got.Arr, 3)
	assert.Equal(t, "foo", string(got.Arr[0].Str))
	assert.EqualValues(t, 42, got.Arr[1].Int)
	assert.Len(t, got.Arr[2].Arr, 2)
}

func TestReaderIncompleteThenFed(t *testing.T) {
	r := NewReader()
	require.NoError(t, r.FeedAll([]byte("$5\r\nhel")))
	_, err := r.Gets()
	assert.ErrorIs(t, err, ErrIncomplete)
	require.NoError(t, r.FeedAll([]byte("lo\r\n")))
	v, err := r.Gets()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(v.Str))
}

func TestReaderProtocolErrorOnBadTypeByte(t *testing.T) {
	r := NewReader()
	require.NoError(t, r.FeedAll([]byte("!nope\r\n")))
	_, err := r.Gets()
	require.Error(t, err)
	var protoErr *rerror.ProtocolError
	assert.True(t, errors.As(err, &protoErr), "garbage off the wire should be a ProtocolError, not a ValueError")
}
