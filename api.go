// Package ferry provides the event value model and per-destination encoding
// configuration for structured log/event routing pipelines.
//
// An Event is a dynamically-typed tree of fields. Fields are addressed with
// path expressions like "a.b[1].c": dots descend into maps, bracketed indices
// descend into arrays. Insertion materializes intermediate containers on
// demand, so producers can emit flat path/value pairs and get nested
// structure out.
//
// Each destination carries an EncodingConfig describing which fields survive
// serialization (only_fields/except_fields), how timestamps render, and which
// wire codec is used. Configs parse from either a bare codec scalar or a full
// object, in both YAML and JSON.
//
// An Emitter applies a destination's encoding configuration to outgoing
// events and writes delimiter-framed encoded payloads to an io.Writer.
package ferry

import (
	"errors"

	"github.com/zoobzio/capitan"
)

// Sentinel errors for configuration handling.
var (
	// ErrMutuallyExclusiveFields is returned when a configuration sets both
	// only_fields and except_fields.
	ErrMutuallyExclusiveFields = errors.New("ferry: only_fields and except_fields are mutually exclusive")

	// ErrMissingCodec is returned when an EncodingConfig without a default
	// codec is parsed from an object that omits the codec field.
	ErrMissingCodec = errors.New("ferry: codec is required")

	// ErrExpectedStringOrMap is returned when an encoding configuration
	// payload is neither a bare codec scalar nor an object.
	ErrExpectedStringOrMap = errors.New("ferry: expected string or map for encoding configuration")

	// ErrUnknownTimestampFormat is returned when timestamp_format is not one
	// of the supported values.
	ErrUnknownTimestampFormat = errors.New("ferry: unknown timestamp format")

	// ErrUnknownEncoding is returned when an Encoding has no registered codec.
	ErrUnknownEncoding = errors.New("ferry: unknown encoding")
)

// Metadata holds frame headers for cross-cutting concerns.
// Used for content types, event ids, and routing hints.
type Metadata map[string]string

// Error signals and types for observability.
// Hook into ErrorSignal to receive notifications of operational failures.
var (
	// ErrorSignal is emitted when ferry encounters an operational error.
	// This includes encode failures and destination write failures.
	ErrorSignal = capitan.NewSignal("ferry.error", "Ferry operational error")

	// ErrorKey extracts Error from events on ErrorSignal.
	ErrorKey = capitan.NewKey[Error]("error", "ferry.Error")

	// MetadataKey extracts the frame Metadata from events on ErrorSignal.
	// Use this in Capitan hooks to identify the frame that failed.
	MetadataKey = capitan.NewKey[Metadata]("metadata", "ferry.Metadata")
)

// Error represents an operational error in ferry.
type Error struct {
	// Operation is the operation that failed, e.g. "emit".
	Operation string `json:"operation"`

	// Encoding is the configured codec of the destination involved.
	Encoding string `json:"encoding"`

	// Err is the error message.
	Err string `json:"error"`
}

// Event is one routed record: a tree of named values.
// An Event is exclusively owned by one goroutine at a time; it is not safe
// for concurrent mutation. Emitters clone it before applying per-destination
// encoding rules, so one event can fan out to many destinations.
type Event struct {
	fields map[string]Value
}

// NewEvent creates an empty event.
func NewEvent() *Event {
	return &Event{fields: make(map[string]Value)}
}

// EventFromFields creates an event over an existing fields map.
// The event takes ownership of the map.
func EventFromFields(fields map[string]Value) *Event {
	if fields == nil {
		fields = make(map[string]Value)
	}
	return &Event{fields: fields}
}

// Insert sets the value at the given path, materializing intermediate
// containers as needed. See Insert for the full contract.
func (e *Event) Insert(path string, value Value) InsertResult {
	return Insert(e.fields, path, value)
}

// Get returns the value at the given path.
func (e *Event) Get(path string) (Value, bool) {
	return Get(e.fields, path)
}

// Contains reports whether a value exists at the given path.
func (e *Event) Contains(path string) bool {
	return Contains(e.fields, path)
}

// Remove deletes the value at the given path.
// It reports whether a value was removed.
func (e *Event) Remove(path string) bool {
	return Remove(e.fields, path)
}

// Len returns the number of top-level fields.
func (e *Event) Len() int {
	return len(e.fields)
}

// Fields returns the event's root fields map.
// The map is shared with the event; mutations through it are visible.
func (e *Event) Fields() map[string]Value {
	return e.fields
}

// AsMap lowers the event to plain Go values for codecs.
// Timestamps render as RFC 3339 strings at this boundary.
func (e *Event) AsMap() map[string]any {
	out := make(map[string]any, len(e.fields))
	for k, v := range e.fields {
		out[k] = v.Interface()
	}
	return out
}

// Clone returns a deep copy of the event.
func (e *Event) Clone() *Event {
	fields := make(map[string]Value, len(e.fields))
	for k, v := range e.fields {
		fields[k] = v.Clone()
	}
	return &Event{fields: fields}
}

// copyMetadata returns a shallow copy of the metadata, or a new map if nil.
func copyMetadata(m Metadata) Metadata {
	if m == nil {
		return make(Metadata)
	}
	copied := make(Metadata, len(m))
	for k, v := range m {
		copied[k] = v
	}
	return copied
}
