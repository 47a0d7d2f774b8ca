package resp

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/schlitzered/goredis/rerror"
)

// Encode renders args as a RESP command array ("*N\r\n$len\r\n...\r\n..."),
// coercing each argument to a bulk string token the way the original
// writer() helper did: []byte passes through untouched, strings are
// UTF-8 bytes, integers and floats are formatted with strconv. Any other
// type is a caller error.
func Encode(args ...interface{}) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "*%d\r\n", len(args))
	for _, a := range args {
		tok, err := toBytes(a)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "$%d\r\n", len(tok))
		buf.Write(tok)
		buf.WriteString("\r\n")
	}
	return buf.Bytes(), nil
}

// WriteCommand encodes args and writes them to w in one call.
func WriteCommand(w io.Writer, args ...interface{}) error {
	b, err := Encode(args...)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func toBytes(v interface{}) ([]byte, error) {
	switch t := v.(type) {
	case []byte:
		return t, nil
	case string:
		return []byte(t), nil
	case int:
		return []byte(strconv.Itoa(t)), nil
	case int64:
		return []byte(strconv.FormatInt(t, 10)), nil
	case uint64:
		return []byte(strconv.FormatUint(t, 10)), nil
	case float64:
		return []byte(strconv.FormatFloat(t, 'f', -1, 64)), nil
	case bool:
		if t {
			return []byte("1"), nil
		}
		return []byte("0"), nil
	default:
		return nil, &rerror.ValueError{Msg: fmt.Sprintf("cannot encode argument of type %T", v)}
	}
}
