package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	CodecJSON    = "json"
	CodecMsgpack = "msgpack"
)

var (
	ErrUnknownCodec = errors.New("unknown codec")
	ErrMissingType  = errors.New("message has no type")
)

// Codec turns messages into frames and back.
type Codec interface {
	Name() string
	// Encode writes msg inside the {"type","data"} envelope.
	Encode(msg Message) ([]byte, error)
	// Decode reads an envelope; the payload is decoded lazily by Inbound.Into.
	Decode(frame []byte) (Inbound, error)
	// Marshal encodes a bare payload, for transports that carry the type out of band.
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Inbound is a received envelope with a not yet decoded payload.
type Inbound struct {
	Type      Type
	data      []byte
	unmarshal func([]byte, any) error
}

// Into decodes the payload into v. An absent payload leaves v untouched.
func (in Inbound) Into(v any) error {
	if len(in.data) == 0 {
		return nil
	}
	return in.unmarshal(in.data, v)
}

// NewCodec returns the codec registered under name.
func NewCodec(name string) (Codec, error) {
	switch name {
	case "", CodecJSON:
		return JSONCodec{}, nil
	case CodecMsgpack:
		return MsgpackCodec{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

type envelope struct {
	Type Type `json:"type"`
	Data any  `json:"data"`
}

// JSONCodec is the default text codec.
type JSONCodec struct{}

func (JSONCodec) Name() string { return CodecJSON }

func (JSONCodec) Encode(msg Message) ([]byte, error) {
	return json.Marshal(envelope{Type: msg.Type, Data: msg.Data})
}

func (c JSONCodec) Decode(frame []byte) (Inbound, error) {
	var env struct {
		Type Type            `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(frame, &env); err != nil {
		return Inbound{}, fmt.Errorf("decode json envelope: %w", err)
	}
	if env.Type == "" {
		return Inbound{}, ErrMissingType
	}
	return Inbound{Type: env.Type, data: env.Data, unmarshal: c.Unmarshal}, nil
}

func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// MsgpackCodec is a binary codec that keeps the JSON field names.
type MsgpackCodec struct{}

func (MsgpackCodec) Name() string { return CodecMsgpack }

func (c MsgpackCodec) Encode(msg Message) ([]byte, error) {
	return c.Marshal(envelope{Type: msg.Type, Data: msg.Data})
}

func (c MsgpackCodec) Decode(frame []byte) (Inbound, error) {
	var env struct {
		Type Type               `json:"type"`
		Data msgpack.RawMessage `json:"data"`
	}
	if err := c.Unmarshal(frame, &env); err != nil {
		return Inbound{}, fmt.Errorf("decode msgpack envelope: %w", err)
	}
	if env.Type == "" {
		return Inbound{}, ErrMissingType
	}
	return Inbound{Type: env.Type, data: env.Data, unmarshal: c.Unmarshal}, nil
}

func (MsgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (MsgpackCodec) Unmarshal(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
