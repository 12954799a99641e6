package factory

import (
	"bytes"
	"encoding/json"

	"github.com/joeydtaylor/steeze-factory/pkg/codec"
)

// Payload is the permissively decoded body of a message. Field lookups
// never fail: a missing key or a non-object payload reads as unset.
type Payload struct {
	v any
}

// NewPayload wraps an already decoded JSON value.
func NewPayload(v any) Payload { return Payload{v: v} }

// Value returns the payload exactly as received.
func (p Payload) Value() any { return p.v }

// Get returns the named field and whether it was present.
func (p Payload) Get(key string) (any, bool) {
	obj, ok := p.v.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := obj[key]
	return v, ok
}

// Field returns the named field, nil when absent.
func (p Payload) Field(key string) any {
	v, _ := p.Get(key)
	return v
}

// Text returns the named field when it is present and a JSON string.
func (p Payload) Text(key string) Opt[string] {
	v, ok := p.Get(key)
	if !ok {
		return Opt[string]{}
	}
	s, ok := v.(string)
	if !ok {
		return Opt[string]{}
	}
	return Some(s)
}

func (p Payload) MarshalJSON() ([]byte, error) { return json.Marshal(p.v) }

func (p *Payload) UnmarshalJSON(b []byte) error {
	v, err := decodeValue(b)
	if err != nil {
		return err
	}
	p.v = v
	return nil
}

// Opt is an optional value.
type Opt[T any] struct {
	Value T
	Set   bool
}

func Some[T any](v T) Opt[T] { return Opt[T]{Value: v, Set: true} }

// Message is the inbound envelope.
type Message struct {
	Topic   string  `json:"topic"`
	Payload Payload `json:"payload"`
}

// UnmarshalJSON tolerates a missing or non-string topic and any payload shape.
func (m *Message) UnmarshalJSON(b []byte) error {
	v, err := decodeValue(b)
	if err != nil {
		return err
	}
	*m = MessageFromValue(v)
	return nil
}

// MessageFromValue builds a Message from a decoded JSON value.
func MessageFromValue(v any) Message {
	obj, ok := v.(map[string]any)
	if !ok {
		return Message{}
	}
	topic, _ := obj["topic"].(string)
	return Message{Topic: topic, Payload: NewPayload(obj["payload"])}
}

// DecodeMessage parses an envelope. Only syntactically invalid JSON is an error.
func DecodeMessage(b []byte) (Message, error) {
	var m Message
	if err := m.UnmarshalJSON(b); err != nil {
		return Message{}, err
	}
	return m, nil
}

// DecodePayload parses a bare payload. An empty body is a null payload.
func DecodePayload(b []byte) (Payload, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return Payload{}, nil
	}
	v, err := decodeValue(b)
	if err != nil {
		return Payload{}, err
	}
	return NewPayload(v), nil
}

// numbers stay json.Number so echoed payloads keep their precision
func decodeValue(b []byte) (any, error) {
	var v any
	if err := codec.JSON.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}
