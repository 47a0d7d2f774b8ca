// Package pubsub classifies the replies a Pub/Sub connection receives:
// subscribe/unsubscribe acknowledgements and published messages.
package pubsub

import (
	"fmt"

	"github.com/schlitzered/goredis/resp"
)

// ReplyType discriminates the shapes a Pub/Sub push can take.
type ReplyType uint8

const (
	SubscribeReply ReplyType = iota
	UnsubscribeReply
	MessageReply
	PMessageReply
)

// Message is a classified Pub/Sub push: a subscribe/unsubscribe
// acknowledgement (Channel + SubCount set, Payload/Pattern empty) or a
// published message (Channel + Payload set, Pattern set only for a
// pattern-matched psubscribe delivery).
type Message struct {
	Type     ReplyType
	Pattern  string
	Channel  string
	Payload  string
	SubCount int
}

// ParseMessage classifies a raw reply read off a PubSubClient. ok is
// false if v isn't shaped like a Pub/Sub push at all (the caller should
// treat it as a protocol error).
func ParseMessage(v resp.Value) (Message, bool, error) {
	if v.Kind != resp.KindArray || len(v.Arr) < 3 {
		return Message{}, false, nil
	}
	kind := string(v.Arr[0].Str)
	switch kind {
	case "subscribe", "unsubscribe":
		m := Message{Channel: string(v.Arr[1].Str), SubCount: int(v.Arr[2].Int)}
		if kind == "subscribe" {
			m.Type = SubscribeReply
		} else {
			m.Type = UnsubscribeReply
		}
		return m, true, nil
	case "message":
		return Message{Type: MessageReply, Channel: string(v.Arr[1].Str), Payload: string(v.Arr[2].Str)}, true, nil
	case "pmessage":
		if len(v.Arr) < 4 {
			return Message{}, false, fmt.Errorf("pubsub: pmessage reply missing fields")
		}
		return Message{
			Type:    PMessageReply,
			Pattern: string(v.Arr[1].Str),
			Channel: string(v.Arr[2].Str),
			Payload: string(v.Arr[3].Str),
		}, true, nil
	default:
		return Message{}, false, nil
	}
}
