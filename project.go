package ferry

// Apply rewrites the event according to the configuration's field projection
// and timestamp rules: only_fields keeps exactly the listed paths,
// except_fields removes the listed paths, and the unix timestamp format
// rewrites every timestamp in the tree to integer unix seconds.
//
// Apply runs once per outgoing event per destination. Callers that fan one
// event out to several destinations must hand each destination its own
// clone; the Emitter does this.
func (c *EncodingConfig[E]) Apply(e *Event) {
	applyRules(e, c.onlyFields, c.exceptFields, c.timestampFormat)
}

// Apply rewrites the event according to the configuration's field projection
// and timestamp rules. See EncodingConfig.Apply.
func (c *EncodingConfigWithDefault[E]) Apply(e *Event) {
	applyRules(e, c.onlyFields, c.exceptFields, c.timestampFormat)
}

func applyRules(e *Event, onlyFields, exceptFields []string, format TimestampFormat) {
	if len(onlyFields) > 0 {
		kept := make(map[string]Value, len(onlyFields))
		for _, path := range onlyFields {
			if v, ok := Get(e.fields, path); ok {
				Insert(kept, path, v)
			}
		}
		e.fields = kept
	}
	for _, path := range exceptFields {
		Remove(e.fields, path)
	}
	if format == TimestampUnix {
		for k, v := range e.fields {
			e.fields[k] = unixTimestamps(v)
		}
	}
}

// unixTimestamps rewrites every timestamp in the tree to integer unix
// seconds.
func unixTimestamps(v Value) Value {
	switch v.Kind() {
	case KindTimestamp:
		t, _ := v.AsTimestamp()
		return Integer(t.Unix())
	case KindMap:
		m, _ := v.AsMap()
		for k, child := range m {
			m[k] = unixTimestamps(child)
		}
		return v
	case KindArray:
		a, _ := v.AsArray()
		for i, child := range a {
			a[i] = unixTimestamps(child)
		}
		return v
	default:
		return v
	}
}
