package websocket

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeInbound(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want InboundEvent
	}{
		{"enterRoom", `{"event":"enterRoom","data":{"name":"Alice","room":"barn1"}}`, EnterRoom{Name: "Alice", Room: "barn1"}},
		{"message", `{"event":"message","data":{"text":"hi","name":"ignored"}}`, SendMessage{Text: "hi"}},
		{"activity with legacy name payload", `{"event":"activity","data":"Alice"}`, Activity{}},
		{"activity without data", `{"event":"activity"}`, Activity{}},
		{"non-string fields become empty", `{"event":"enterRoom","data":{"name":7,"room":["x"]}}`, EnterRoom{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeInbound([]byte(tt.raw))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestDecodeInboundRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		err  error
	}{
		{"invalid json", `{"event":`, ErrMalformedEvent},
		{"missing event", `{"data":{}}`, ErrMalformedEvent},
		{"numeric event", `{"event":3}`, ErrMalformedEvent},
		{"unknown event", `{"event":"userList","data":{}}`, ErrUnknownEvent},
		{"message without object", `{"event":"message","data":"hi"}`, ErrMalformedEvent},
		{"enterRoom without object", `{"event":"enterRoom"}`, ErrMalformedEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeInbound([]byte(tt.raw))
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestEncodeOutboundEnvelope(t *testing.T) {
	tests := []struct {
		ev   OutboundEvent
		want string
	}{
		{ChatMessage{Name: "Alice", Text: "hi", Time: "2:03:09 PM"}, `{"event":"message","data":{"name":"Alice","text":"hi","time":"2:03:09 PM"}}`},
		{ActivityNotice("Bob"), `{"event":"activity","data":"Bob"}`},
		{UserList{Users: []RosterEntry{{Name: "Alice"}}}, `{"event":"userList","data":{"users":[{"name":"Alice"}]}}`},
		{allRoomNames(NewDirectory()), `{"event":"roomList","data":{"rooms":[]}}`},
	}

	for _, tt := range tests {
		got, err := EncodeOutbound(tt.ev)
		if err != nil {
			t.Fatalf("encode %T: %v", tt.ev, err)
		}
		if string(got) != tt.want {
			t.Fatalf("expected %s, got %s", tt.want, got)
		}
		if !json.Valid(got) {
			t.Fatalf("invalid json %s", got)
		}
	}
}
