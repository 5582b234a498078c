package ferry

import (
	"testing"
	"time"
)

func projectionEvent() *Event {
	e := NewEvent()
	e.Insert("message", String("hello"))
	e.Insert("password", String("hunter2"))
	e.Insert("source.host", String("web-1"))
	e.Insert("source.token", String("secret"))
	e.Insert("tags[0]", String("prod"))
	e.Insert("tags[1]", String("edge"))
	return e
}

func TestApply_OnlyFields(t *testing.T) {
	cfg := NewEncodingConfigWithDefault[Encoding]()
	cfg.SetOnlyFields([]string{"message", "source.host", "tags[1]"})

	e := projectionEvent()
	cfg.Apply(e)

	if v, ok := e.Get("message"); !ok || !v.Equal(String("hello")) {
		t.Errorf("message not kept: %v", e.AsMap())
	}
	if v, ok := e.Get("source.host"); !ok || !v.Equal(String("web-1")) {
		t.Errorf("source.host not kept: %v", e.AsMap())
	}
	if e.Contains("password") {
		t.Error("password survived allow-list")
	}
	if e.Contains("source.token") {
		t.Error("source.token survived allow-list")
	}
	// tags[1] keeps its path, so its array slot stays at index 1.
	if v, ok := e.Get("tags[1]"); !ok || !v.Equal(String("edge")) {
		t.Errorf("tags[1] not kept at its index: %v", e.AsMap())
	}
	if v, ok := e.Get("tags[0]"); !ok || !v.IsNull() {
		t.Errorf("expected Null padding at tags[0], got %v ok=%v", v.Interface(), ok)
	}
}

func TestApply_OnlyFieldsMissingPath(t *testing.T) {
	cfg := NewEncodingConfigWithDefault[Encoding]()
	cfg.SetOnlyFields([]string{"message", "no.such.field"})

	e := projectionEvent()
	cfg.Apply(e)

	if e.Len() != 1 || !e.Contains("message") {
		t.Errorf("expected only message kept, got %v", e.AsMap())
	}
}

func TestApply_ExceptFields(t *testing.T) {
	cfg := NewEncodingConfigWithDefault[Encoding]()
	cfg.SetExceptFields([]string{"password", "source.token"})

	e := projectionEvent()
	cfg.Apply(e)

	if e.Contains("password") || e.Contains("source.token") {
		t.Errorf("deny-listed fields survived: %v", e.AsMap())
	}
	if !e.Contains("message") || !e.Contains("source.host") || !e.Contains("tags[0]") {
		t.Errorf("unlisted fields removed: %v", e.AsMap())
	}
}

func TestApply_UnixTimestamps(t *testing.T) {
	ts := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	e := NewEvent()
	e.Insert("timestamp", Timestamp(ts))
	e.Insert("nested.at", Timestamp(ts))
	e.Insert("history[0]", Timestamp(ts))
	e.Insert("message", String("hi"))

	cfg := NewEncodingConfigWithDefault[Encoding]()
	cfg.SetTimestampFormat(TimestampUnix)
	cfg.Apply(e)

	expected := Integer(ts.Unix())
	for _, path := range []string{"timestamp", "nested.at", "history[0]"} {
		v, ok := e.Get(path)
		if !ok || !v.Equal(expected) {
			t.Errorf("path %q: expected unix seconds, got %v", path, v.Interface())
		}
	}
	if v, _ := e.Get("message"); !v.Equal(String("hi")) {
		t.Errorf("non-timestamp field rewritten: %v", v.Interface())
	}
}

func TestApply_RFC3339LeavesTimestamps(t *testing.T) {
	ts := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	e := NewEvent()
	e.Insert("timestamp", Timestamp(ts))

	cfg := NewEncodingConfigWithDefault[Encoding]()
	cfg.SetTimestampFormat(TimestampRFC3339)
	cfg.Apply(e)

	if v, _ := e.Get("timestamp"); v.Kind() != KindTimestamp {
		t.Errorf("expected timestamp kind preserved, got %v", v.Kind())
	}
	// RFC 3339 rendering happens at the codec boundary.
	if e.AsMap()["timestamp"] != "2021-06-01T12:00:00Z" {
		t.Errorf("unexpected lowering: %v", e.AsMap()["timestamp"])
	}
}

func TestApply_NoRules(t *testing.T) {
	cfg := NewEncodingConfigWithDefault[Encoding]()
	e := projectionEvent()
	before := e.Clone()

	cfg.Apply(e)

	if !Map(e.Fields()).Equal(Map(before.Fields())) {
		t.Errorf("rule-free apply mutated the event: %v", e.AsMap())
	}
}

func TestApply_PlainVariant(t *testing.T) {
	cfg := NewEncodingConfig(EncodingText)
	cfg.SetExceptFields([]string{"password"})

	e := projectionEvent()
	cfg.Apply(e)

	if e.Contains("password") {
		t.Error("deny-listed field survived")
	}
}
