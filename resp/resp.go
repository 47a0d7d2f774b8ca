// Package resp implements the RESP wire protocol: a typed Value tree, a
// command writer, and an incremental Reader that can be fed partial reads
// off a socket and resumes parsing across Feed/Gets cycles without ever
// blocking on I/O itself.
package resp

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/schlitzered/goredis/rerror"
)

// Kind discriminates the seven shapes a RESP reply can take.
type Kind int

const (
	KindSimpleString Kind = iota
	KindError
	KindInteger
	KindBulk
	KindNilBulk
	KindArray
	KindNilArray
)

// Value is a parsed RESP reply. Only the field matching Kind is
// meaningful.
type Value struct {
	Kind Kind
	Str  []byte
	Int  int64
	Arr  []Value
	Err  error
}

func (v Value) IsNil() bool {
	return v.Kind == KindNilBulk || v.Kind == KindNilArray
}

// ErrIncomplete is returned by Reader.Gets when the buffered bytes do not
// yet form a complete reply; the caller should Feed more data and call
// Gets again. It plays the role of the Python reader's "return False"
// sentinel, made explicit since Go has no falsy placeholder value.
var ErrIncomplete = errors.New("resp: incomplete reply")

// Reader incrementally parses a stream of RESP replies out of bytes fed to
// it via Feed. It never reads from an io.Reader itself — callers own the
// socket read loop and hand this type the bytes they got. Each Gets
// attempts a full parse of one reply tree from the currently buffered
// bytes; an incomplete reply (at any depth) leaves the buffer untouched so
// the next Feed/Gets cycle retries against the larger buffer.
type Reader struct {
	buf bytes.Buffer
}

func NewReader() *Reader {
	return &Reader{}
}

// Feed appends data[offset:offset+length] to the internal buffer.
func (r *Reader) Feed(data []byte, offset, length int) error {
	if offset < 0 || length < 0 || offset+length > len(data) {
		return &rerror.ValueError{Msg: "feed: offset/length out of range"}
	}
	r.buf.Write(data[offset : offset+length])
	return nil
}

// FeedAll is a convenience wrapper around Feed for the common case of
// handing over an entire read buffer.
func (r *Reader) FeedAll(data []byte) error {
	return r.Feed(data, 0, len(data))
}

// Gets attempts to parse one complete reply out of the buffered bytes. It
// returns ErrIncomplete if more data is needed. On a protocol error the
// Reader is left in a broken state and every subsequent Gets call returns
// the same error, since the buffer can no longer be trusted to contain
// aligned reply boundaries.
func (r *Reader) Gets() (Value, error) {
	v, consumed, err := parseOne(r.buf.Bytes())
	if err != nil {
		return Value{}, err
	}
	r.buf.Next(consumed)
	return v, nil
}

// parseOne parses exactly one reply from buf without mutating any Reader
// state, returning the number of bytes consumed on success.
func parseOne(buf []byte) (Value, int, error) {
	line, lineLen, ok := readLine(buf)
	if !ok {
		return Value{}, 0, ErrIncomplete
	}
	if len(line) == 0 {
		return Value{}, 0, &rerror.ProtocolError{Msg: "empty reply header"}
	}
	switch line[0] {
	case '+':
		return Value{Kind: KindSimpleString, Str: cloneBytes(line[1:])}, lineLen, nil
	case '-':
		return Value{Kind: KindError, Err: &rerror.ReplyError{Msg: string(line[1:])}}, lineLen, nil
	case ':':
		n, err := strconv.ParseInt(string(line[1:]), 10, 64)
		if err != nil {
			return Value{}, 0, &rerror.ProtocolError{Msg: "malformed integer reply: " + err.Error()}
		}
		return Value{Kind: KindInteger, Int: n}, lineLen, nil
	case '$':
		return parseBulk(buf, line, lineLen)
	case '*':
		return parseArray(buf, line, lineLen)
	default:
		return Value{}, 0, &rerror.ProtocolError{Msg: "unrecognized reply type byte"}
	}
}

func parseBulk(buf []byte, line []byte, lineLen int) (Value, int, error) {
	n, err := strconv.Atoi(string(line[1:]))
	if err != nil {
		return Value{}, 0, &rerror.ProtocolError{Msg: "malformed bulk length: " + err.Error()}
	}
	if n < 0 {
		return Value{Kind: KindNilBulk}, lineLen, nil
	}
	need := lineLen + n + 2
	if len(buf) < need {
		return Value{}, 0, ErrIncomplete
	}
	return Value{Kind: KindBulk, Str: cloneBytes(buf[lineLen : lineLen+n])}, need, nil
}

func parseArray(buf []byte, line []byte, lineLen int) (Value, int, error) {
	n, err := strconv.Atoi(string(line[1:]))
	if err != nil {
		return Value{}, 0, &rerror.ProtocolError{Msg: "malformed array length: " + err.Error()}
	}
	if n < 0 {
		return Value{Kind: KindNilArray}, lineLen, nil
	}
	if n == 0 {
		return Value{Kind: KindArray, Arr: []Value{}}, lineLen, nil
	}
	rest := buf[lineLen:]
	consumed := lineLen
	values := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		v, used, err := parseOne(rest)
		if err != nil {
			return Value{}, 0, err
		}
		rest = rest[used:]
		consumed += used
		values = append(values, v)
	}
	return Value{Kind: KindArray, Arr: values}, consumed, nil
}

// readLine finds the first CRLF in buf and returns the line (without the
// CRLF) plus the total length including the CRLF. ok is false if no CRLF
// is present yet.
func readLine(buf []byte) (line []byte, lineLen int, ok bool) {
	idx := bytes.Index(buf, []byte("\r\n"))
	if idx < 0 {
		return nil, 0, false
	}
	return buf[:idx], idx + 2, true
}

func cloneBytes(b []byte) []byte {
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}
