package websocket

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var (
	ErrUnknownEvent   = errors.New("websocket: unknown event")
	ErrMalformedEvent = errors.New("websocket: malformed event")
)

type envelope struct {
	Event string        `json:"event"`
	Data  OutboundEvent `json:"data"`
}

type decodeFunc func(data gjson.Result) (InboundEvent, error)

var decoders = map[string]decodeFunc{
	EventEnterRoom: func(data gjson.Result) (InboundEvent, error) {
		if !data.IsObject() {
			return nil, fmt.Errorf("%w: %s payload must be an object", ErrMalformedEvent, EventEnterRoom)
		}
		return EnterRoom{
			Name: stringField(data, "name"),
			Room: stringField(data, "room"),
		}, nil
	},
	EventMessage: func(data gjson.Result) (InboundEvent, error) {
		if !data.IsObject() {
			return nil, fmt.Errorf("%w: %s payload must be an object", ErrMalformedEvent, EventMessage)
		}
		return SendMessage{Text: stringField(data, "text")}, nil
	},
	EventActivity: func(gjson.Result) (InboundEvent, error) {
		return Activity{}, nil
	},
}

// stringField returns "" for anything that is not a JSON string so that
// numbers or objects never turn into display names.
func stringField(data gjson.Result, key string) string {
	v := data.Get(key)
	if v.Type != gjson.String {
		return ""
	}
	return v.String()
}

// DecodeInbound parses a {"event": ..., "data": ...} frame.
func DecodeInbound(raw []byte) (InboundEvent, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformedEvent)
	}
	name := gjson.GetBytes(raw, "event")
	if name.Type != gjson.String {
		return nil, fmt.Errorf("%w: missing event name", ErrMalformedEvent)
	}
	decode, ok := decoders[name.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, name.String())
	}
	return decode(gjson.GetBytes(raw, "data"))
}

func EncodeOutbound(ev OutboundEvent) ([]byte, error) {
	data, err := json.Marshal(envelope{Event: ev.EventName(), Data: ev})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ev.EventName(), err)
	}
	return data, nil
}
