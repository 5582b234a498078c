package ferry

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// TimestampFormat selects how outgoing timestamps render.
type TimestampFormat string

const (
	// TimestampUnix renders timestamps as integer unix seconds.
	TimestampUnix TimestampFormat = "unix"
	// TimestampRFC3339 renders timestamps as RFC 3339 strings.
	// This is also the behavior when no format is configured.
	TimestampRFC3339 TimestampFormat = "rfc3339"
)

// Defaulted is implemented by codec enums that have a natural default.
type Defaulted[E comparable] interface {
	comparable
	Default() E
}

// EncodingConfig describes how one destination serializes events: the wire
// codec, an optional field allow-list, an optional field deny-list, and a
// timestamp rendering mode. E is the destination's codec enum.
//
// This variant has no default codec; payloads must name one. Use
// EncodingConfigWithDefault when the destination's codec enum has a natural
// default.
//
// A config parses from either a bare codec scalar or a full object, in YAML
// and JSON. It is validated once, immediately after parsing, and is immutable
// and safe to share across goroutines after that.
type EncodingConfig[E comparable] struct {
	codec           E
	onlyFields      []string
	exceptFields    []string
	timestampFormat TimestampFormat
}

// EncodingConfigWithDefault is EncodingConfig for destinations whose codec
// enum provides a default; payloads may omit the codec entirely, and
// serialized output omits every field left at its default value.
type EncodingConfigWithDefault[E Defaulted[E]] struct {
	codec           E
	onlyFields      []string
	exceptFields    []string
	timestampFormat TimestampFormat
}

// NewEncodingConfig returns a config using the given codec with no field
// filtering and no timestamp override.
func NewEncodingConfig[E comparable](codec E) EncodingConfig[E] {
	return EncodingConfig[E]{codec: codec}
}

// NewEncodingConfigWithDefault returns a config using the enum's default
// codec with no field filtering and no timestamp override.
func NewEncodingConfigWithDefault[E Defaulted[E]]() EncodingConfigWithDefault[E] {
	var zero E
	return EncodingConfigWithDefault[E]{codec: zero.Default()}
}

// Codec returns the configured wire codec.
func (c *EncodingConfig[E]) Codec() E { return c.codec }

// OnlyFields returns the field allow-list, or nil when unset.
func (c *EncodingConfig[E]) OnlyFields() []string { return c.onlyFields }

// ExceptFields returns the field deny-list, or nil when unset.
func (c *EncodingConfig[E]) ExceptFields() []string { return c.exceptFields }

// TimestampFormat returns the timestamp rendering mode, or "" when unset.
func (c *EncodingConfig[E]) TimestampFormat() TimestampFormat { return c.timestampFormat }

// SetOnlyFields replaces the allow-list and returns the previous one.
func (c *EncodingConfig[E]) SetOnlyFields(fields []string) []string {
	prev := c.onlyFields
	c.onlyFields = fields
	return prev
}

// SetExceptFields replaces the deny-list and returns the previous one.
func (c *EncodingConfig[E]) SetExceptFields(fields []string) []string {
	prev := c.exceptFields
	c.exceptFields = fields
	return prev
}

// SetTimestampFormat replaces the timestamp format and returns the previous one.
func (c *EncodingConfig[E]) SetTimestampFormat(format TimestampFormat) TimestampFormat {
	prev := c.timestampFormat
	c.timestampFormat = format
	return prev
}

// Codec returns the configured wire codec.
func (c *EncodingConfigWithDefault[E]) Codec() E { return c.codec }

// OnlyFields returns the field allow-list, or nil when unset.
func (c *EncodingConfigWithDefault[E]) OnlyFields() []string { return c.onlyFields }

// ExceptFields returns the field deny-list, or nil when unset.
func (c *EncodingConfigWithDefault[E]) ExceptFields() []string { return c.exceptFields }

// TimestampFormat returns the timestamp rendering mode, or "" when unset.
func (c *EncodingConfigWithDefault[E]) TimestampFormat() TimestampFormat { return c.timestampFormat }

// SetOnlyFields replaces the allow-list and returns the previous one.
func (c *EncodingConfigWithDefault[E]) SetOnlyFields(fields []string) []string {
	prev := c.onlyFields
	c.onlyFields = fields
	return prev
}

// SetExceptFields replaces the deny-list and returns the previous one.
func (c *EncodingConfigWithDefault[E]) SetExceptFields(fields []string) []string {
	prev := c.exceptFields
	c.exceptFields = fields
	return prev
}

// SetTimestampFormat replaces the timestamp format and returns the previous one.
func (c *EncodingConfigWithDefault[E]) SetTimestampFormat(format TimestampFormat) TimestampFormat {
	prev := c.timestampFormat
	c.timestampFormat = format
	return prev
}

// validateFieldRules enforces the cross-field constraints shared by both
// config variants.
func validateFieldRules(onlyFields, exceptFields []string, format TimestampFormat) error {
	if len(onlyFields) > 0 && len(exceptFields) > 0 {
		return ErrMutuallyExclusiveFields
	}
	switch format {
	case "", TimestampUnix, TimestampRFC3339:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTimestampFormat, format)
	}
	return nil
}

// Validate checks the cross-field constraints: only_fields and except_fields
// are mutually exclusive, and timestamp_format must be a known mode. The
// parse path calls it once, immediately after the config is materialized.
func (c *EncodingConfig[E]) Validate() error {
	return validateFieldRules(c.onlyFields, c.exceptFields, c.timestampFormat)
}

// Validate checks the cross-field constraints. See EncodingConfig.Validate.
func (c *EncodingConfigWithDefault[E]) Validate() error {
	return validateFieldRules(c.onlyFields, c.exceptFields, c.timestampFormat)
}

// WithoutDefault drops the default-codec guarantee, converting to the plain
// EncodingConfig variant with every field preserved verbatim.
func (c EncodingConfigWithDefault[E]) WithoutDefault() EncodingConfig[E] {
	return EncodingConfig[E]{
		codec:           c.codec,
		onlyFields:      c.onlyFields,
		exceptFields:    c.exceptFields,
		timestampFormat: c.timestampFormat,
	}
}

// TransmuteConfig changes only the codec's concrete type, preserving every
// other field verbatim. Used when a destination wraps or redefines a shared
// codec enumeration.
func TransmuteConfig[E, X comparable](c EncodingConfig[E], convert func(E) X) EncodingConfig[X] {
	return EncodingConfig[X]{
		codec:           convert(c.codec),
		onlyFields:      c.onlyFields,
		exceptFields:    c.exceptFields,
		timestampFormat: c.timestampFormat,
	}
}

// TransmuteConfigWithDefault is TransmuteConfig for the defaulted variant.
func TransmuteConfigWithDefault[E Defaulted[E], X Defaulted[X]](c EncodingConfigWithDefault[E], convert func(E) X) EncodingConfigWithDefault[X] {
	return EncodingConfigWithDefault[X]{
		codec:           convert(c.codec),
		onlyFields:      c.onlyFields,
		exceptFields:    c.exceptFields,
		timestampFormat: c.timestampFormat,
	}
}

// UnmarshalYAML parses either shape of the grammar: a bare codec scalar, or
// a mapping setting any subset of codec, only_fields, except_fields, and
// timestamp_format. The codec is required in the mapping shape.
func (c *EncodingConfig[E]) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var codec E
		if err := node.Decode(&codec); err != nil {
			return err
		}
		*c = EncodingConfig[E]{codec: codec}
	case yaml.MappingNode:
		var inner struct {
			Codec           *E              `yaml:"codec"`
			OnlyFields      []string        `yaml:"only_fields"`
			ExceptFields    []string        `yaml:"except_fields"`
			TimestampFormat TimestampFormat `yaml:"timestamp_format"`
		}
		if err := node.Decode(&inner); err != nil {
			return err
		}
		if inner.Codec == nil {
			return ErrMissingCodec
		}
		*c = EncodingConfig[E]{
			codec:           *inner.Codec,
			onlyFields:      inner.OnlyFields,
			exceptFields:    inner.ExceptFields,
			timestampFormat: inner.TimestampFormat,
		}
	default:
		return ErrExpectedStringOrMap
	}
	return c.Validate()
}

// UnmarshalYAML parses either shape of the grammar. An absent codec falls
// back to the enum's default.
func (c *EncodingConfigWithDefault[E]) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var codec E
		if err := node.Decode(&codec); err != nil {
			return err
		}
		*c = EncodingConfigWithDefault[E]{codec: codec}
	case yaml.MappingNode:
		var inner struct {
			Codec           *E              `yaml:"codec"`
			OnlyFields      []string        `yaml:"only_fields"`
			ExceptFields    []string        `yaml:"except_fields"`
			TimestampFormat TimestampFormat `yaml:"timestamp_format"`
		}
		if err := node.Decode(&inner); err != nil {
			return err
		}
		codec := defaultCodec[E]()
		if inner.Codec != nil {
			codec = *inner.Codec
		}
		*c = EncodingConfigWithDefault[E]{
			codec:           codec,
			onlyFields:      inner.OnlyFields,
			exceptFields:    inner.ExceptFields,
			timestampFormat: inner.TimestampFormat,
		}
	default:
		return ErrExpectedStringOrMap
	}
	return c.Validate()
}

// UnmarshalJSON parses either shape of the grammar from JSON: a codec string,
// or an object. The codec is required in the object shape.
func (c *EncodingConfig[E]) UnmarshalJSON(data []byte) error {
	switch firstJSONByte(data) {
	case '"':
		var codec E
		if err := json.Unmarshal(data, &codec); err != nil {
			return err
		}
		*c = EncodingConfig[E]{codec: codec}
	case '{':
		var inner struct {
			Codec           *E              `json:"codec"`
			OnlyFields      []string        `json:"only_fields"`
			ExceptFields    []string        `json:"except_fields"`
			TimestampFormat TimestampFormat `json:"timestamp_format"`
		}
		if err := json.Unmarshal(data, &inner); err != nil {
			return err
		}
		if inner.Codec == nil {
			return ErrMissingCodec
		}
		*c = EncodingConfig[E]{
			codec:           *inner.Codec,
			onlyFields:      inner.OnlyFields,
			exceptFields:    inner.ExceptFields,
			timestampFormat: inner.TimestampFormat,
		}
	default:
		return ErrExpectedStringOrMap
	}
	return c.Validate()
}

// UnmarshalJSON parses either shape of the grammar from JSON. An absent codec
// falls back to the enum's default.
func (c *EncodingConfigWithDefault[E]) UnmarshalJSON(data []byte) error {
	switch firstJSONByte(data) {
	case '"':
		var codec E
		if err := json.Unmarshal(data, &codec); err != nil {
			return err
		}
		*c = EncodingConfigWithDefault[E]{codec: codec}
	case '{':
		var inner struct {
			Codec           *E              `json:"codec"`
			OnlyFields      []string        `json:"only_fields"`
			ExceptFields    []string        `json:"except_fields"`
			TimestampFormat TimestampFormat `json:"timestamp_format"`
		}
		if err := json.Unmarshal(data, &inner); err != nil {
			return err
		}
		codec := defaultCodec[E]()
		if inner.Codec != nil {
			codec = *inner.Codec
		}
		*c = EncodingConfigWithDefault[E]{
			codec:           codec,
			onlyFields:      inner.OnlyFields,
			exceptFields:    inner.ExceptFields,
			timestampFormat: inner.TimestampFormat,
		}
	default:
		return ErrExpectedStringOrMap
	}
	return c.Validate()
}

// MarshalYAML serializes the config, including the codec always; it is
// required on reparse.
func (c EncodingConfig[E]) MarshalYAML() (any, error) {
	return struct {
		Codec           E               `yaml:"codec"`
		OnlyFields      []string        `yaml:"only_fields,omitempty"`
		ExceptFields    []string        `yaml:"except_fields,omitempty"`
		TimestampFormat TimestampFormat `yaml:"timestamp_format,omitempty"`
	}{c.codec, c.onlyFields, c.exceptFields, c.timestampFormat}, nil
}

// MarshalYAML serializes the config, omitting every field left at its
// default value, the codec included.
func (c EncodingConfigWithDefault[E]) MarshalYAML() (any, error) {
	out := struct {
		Codec           *E              `yaml:"codec,omitempty"`
		OnlyFields      []string        `yaml:"only_fields,omitempty"`
		ExceptFields    []string        `yaml:"except_fields,omitempty"`
		TimestampFormat TimestampFormat `yaml:"timestamp_format,omitempty"`
	}{
		OnlyFields:      c.onlyFields,
		ExceptFields:    c.exceptFields,
		TimestampFormat: c.timestampFormat,
	}
	if c.codec != defaultCodec[E]() {
		out.Codec = &c.codec
	}
	return out, nil
}

// MarshalJSON serializes the config, including the codec always; it is
// required on reparse.
func (c EncodingConfig[E]) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Codec           E               `json:"codec"`
		OnlyFields      []string        `json:"only_fields,omitempty"`
		ExceptFields    []string        `json:"except_fields,omitempty"`
		TimestampFormat TimestampFormat `json:"timestamp_format,omitempty"`
	}{c.codec, c.onlyFields, c.exceptFields, c.timestampFormat})
}

// MarshalJSON serializes the config, omitting every field left at its
// default value, the codec included.
func (c EncodingConfigWithDefault[E]) MarshalJSON() ([]byte, error) {
	out := struct {
		Codec           *E              `json:"codec,omitempty"`
		OnlyFields      []string        `json:"only_fields,omitempty"`
		ExceptFields    []string        `json:"except_fields,omitempty"`
		TimestampFormat TimestampFormat `json:"timestamp_format,omitempty"`
	}{
		OnlyFields:      c.onlyFields,
		ExceptFields:    c.exceptFields,
		TimestampFormat: c.timestampFormat,
	}
	if c.codec != defaultCodec[E]() {
		out.Codec = &c.codec
	}
	return json.Marshal(out)
}

// defaultCodec returns the enum's default value.
func defaultCodec[E Defaulted[E]]() E {
	var zero E
	return zero.Default()
}

// firstJSONByte returns the first non-whitespace byte of data, or 0.
func firstJSONByte(data []byte) byte {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
