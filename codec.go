package ferry

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec defines the serialization contract for event payloads.
// Implement this interface to use alternative wire formats.
type Codec interface {
	// Marshal serializes a value to bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal deserializes bytes into a value.
	Unmarshal(data []byte, v any) error

	// ContentType returns the MIME type for metadata propagation.
	ContentType() string
}

// Encoding names a wire codec in destination configuration. It is the codec
// enum used by ferry's own destinations; other destinations can define their
// own enum and convert with TransmuteConfig.
type Encoding string

const (
	EncodingJSON    Encoding = "json"
	EncodingText    Encoding = "text"
	EncodingMsgpack Encoding = "msgpack"
)

// Default returns the default encoding, JSON.
func (Encoding) Default() Encoding {
	return EncodingJSON
}

// Codec returns the codec implementation for the encoding.
func (e Encoding) Codec() (Codec, bool) {
	switch e {
	case EncodingJSON:
		return JSONCodec{}, true
	case EncodingText:
		return TextCodec{}, true
	case EncodingMsgpack:
		return MsgpackCodec{}, true
	default:
		return nil, false
	}
}

// JSONCodec implements Codec using encoding/json.
type JSONCodec struct{}

// Marshal serializes v to JSON bytes.
func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal deserializes JSON bytes into v.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// ContentType returns the JSON MIME type.
func (JSONCodec) ContentType() string {
	return "application/json"
}

// MsgpackCodec implements Codec using MessagePack.
type MsgpackCodec struct{}

// Marshal serializes v to MessagePack bytes.
func (MsgpackCodec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Unmarshal deserializes MessagePack bytes into v.
func (MsgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

// ContentType returns the MessagePack MIME type.
func (MsgpackCodec) ContentType() string {
	return "application/msgpack"
}

// TextCodec implements Codec by rendering an event's message field as plain
// text. Lowered events (map[string]any) marshal to their "message" entry;
// anything else marshals to its fmt representation.
type TextCodec struct{}

// errTextTarget is returned when TextCodec.Unmarshal gets an unsupported target.
var errTextTarget = errors.New("ferry: text codec unmarshals into *string or *map[string]any")

// Marshal renders the message field of a lowered event, or the fmt
// representation of any other value.
func (TextCodec) Marshal(v any) ([]byte, error) {
	if fields, ok := v.(map[string]any); ok {
		if msg, ok := fields["message"]; ok {
			if s, ok := msg.(string); ok {
				return []byte(s), nil
			}
			return fmt.Appendf(nil, "%v", msg), nil
		}
	}
	return fmt.Appendf(nil, "%v", v), nil
}

// Unmarshal stores the text into *string, or into *map[string]any under the
// "message" key.
func (TextCodec) Unmarshal(data []byte, v any) error {
	switch target := v.(type) {
	case *string:
		*target = string(data)
		return nil
	case *map[string]any:
		if *target == nil {
			*target = make(map[string]any, 1)
		}
		(*target)["message"] = string(data)
		return nil
	default:
		return errTextTarget
	}
}

// ContentType returns the plain-text MIME type.
func (TextCodec) ContentType() string {
	return "text/plain"
}

// Ensure the built-in codecs implement Codec.
var (
	_ Codec = JSONCodec{}
	_ Codec = TextCodec{}
	_ Codec = MsgpackCodec{}
)
