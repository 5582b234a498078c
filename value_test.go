package ferry

import (
	"testing"
	"time"
)

func TestValue_ZeroIsNull(t *testing.T) {
	var v Value
	if v.Kind() != KindNull || !v.IsNull() {
		t.Errorf("expected zero Value to be null, got %v", v.Kind())
	}
}

func TestValue_Accessors(t *testing.T) {
	ts := time.Date(2020, 5, 4, 3, 2, 1, 0, time.UTC)

	if s, ok := String("hello").AsString(); !ok || s != "hello" {
		t.Errorf("AsString: got %q ok=%v", s, ok)
	}
	if i, ok := Integer(42).AsInteger(); !ok || i != 42 {
		t.Errorf("AsInteger: got %d ok=%v", i, ok)
	}
	if f, ok := Float(1.5).AsFloat(); !ok || f != 1.5 {
		t.Errorf("AsFloat: got %v ok=%v", f, ok)
	}
	if b, ok := Boolean(true).AsBoolean(); !ok || !b {
		t.Errorf("AsBoolean: got %v ok=%v", b, ok)
	}
	if got, ok := Timestamp(ts).AsTimestamp(); !ok || !got.Equal(ts) {
		t.Errorf("AsTimestamp: got %v ok=%v", got, ok)
	}

	// Wrong-variant access fails.
	if _, ok := Integer(1).AsString(); ok {
		t.Error("expected AsString on integer to fail")
	}
	if _, ok := String("x").AsMap(); ok {
		t.Error("expected AsMap on bytes to fail")
	}
	if _, ok := Null().AsArray(); ok {
		t.Error("expected AsArray on null to fail")
	}
}

func TestValue_Equal(t *testing.T) {
	ts := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	a := Map(map[string]Value{
		"s":  String("x"),
		"n":  Integer(1),
		"t":  Timestamp(ts),
		"ar": Array(Null(), Float(2.5)),
	})
	b := Map(map[string]Value{
		"s":  String("x"),
		"n":  Integer(1),
		"t":  Timestamp(ts.In(time.FixedZone("off", 3600))),
		"ar": Array(Null(), Float(2.5)),
	})
	if !a.Equal(b) {
		t.Error("expected structurally equal values")
	}

	c := Map(map[string]Value{"s": String("y")})
	if a.Equal(c) {
		t.Error("expected unequal values")
	}
	if Integer(1).Equal(Float(1)) {
		t.Error("expected kind mismatch to be unequal")
	}
}

func TestValue_CloneIsDeep(t *testing.T) {
	original := Map(map[string]Value{
		"nested": Map(map[string]Value{"k": String("v")}),
		"list":   Array(Integer(1), Integer(2)),
	})
	clone := original.Clone()

	m, _ := clone.AsMap()
	nested, _ := m["nested"].AsMap()
	nested["k"] = String("changed")
	list, _ := m["list"].AsArray()
	list[0] = Integer(99)

	om, _ := original.AsMap()
	onested, _ := om["nested"].AsMap()
	if s, _ := onested["k"].AsString(); s != "v" {
		t.Errorf("clone mutation leaked into original map: %q", s)
	}
	olist, _ := om["list"].AsArray()
	if i, _ := olist[0].AsInteger(); i != 1 {
		t.Errorf("clone mutation leaked into original array: %d", i)
	}
}

func TestValue_Interface(t *testing.T) {
	ts := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	v := Map(map[string]Value{
		"msg":  String("hi"),
		"n":    Integer(3),
		"ok":   Boolean(false),
		"at":   Timestamp(ts),
		"gaps": Array(Null(), Float(0.5)),
	})

	got, ok := v.Interface().(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T", v.Interface())
	}
	if got["msg"] != "hi" {
		t.Errorf("msg: got %v", got["msg"])
	}
	if got["n"] != int64(3) {
		t.Errorf("n: got %v (%T)", got["n"], got["n"])
	}
	if got["ok"] != false {
		t.Errorf("ok: got %v", got["ok"])
	}
	if got["at"] != "2021-06-01T12:00:00Z" {
		t.Errorf("at: got %v", got["at"])
	}
	arr, ok := got["gaps"].([]any)
	if !ok || len(arr) != 2 || arr[0] != nil || arr[1] != 0.5 {
		t.Errorf("gaps: got %v", got["gaps"])
	}
}

func TestFromInterface(t *testing.T) {
	ts := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	v := FromInterface(map[string]any{
		"msg": "hi",
		"n":   3,
		"f":   1.25,
		"ok":  true,
		"at":  ts,
		"arr": []any{nil, "x"},
	})

	expected := Map(map[string]Value{
		"msg": String("hi"),
		"n":   Integer(3),
		"f":   Float(1.25),
		"ok":  Boolean(true),
		"at":  Timestamp(ts),
		"arr": Array(Null(), String("x")),
	})
	if !v.Equal(expected) {
		t.Errorf("expected %v, got %v", expected.Interface(), v.Interface())
	}
}
