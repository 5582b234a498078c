package ferry

// Get returns the value addressed by the path expression, descending maps by
// key and arrays by index. It returns ok false when any step of the path is
// absent or addresses into the wrong container type.
func Get(fields map[string]Value, path string) (Value, bool) {
	it := NewPathIter(path)
	first, ok := it.Next()
	if !ok || first.Kind != KeyComponent {
		return Value{}, false
	}
	v, ok := fields[first.Key]
	if !ok {
		return Value{}, false
	}
	for {
		c, ok := it.Next()
		if !ok {
			return v, true
		}
		switch c.Kind {
		case KeyComponent:
			m, ok := v.AsMap()
			if !ok {
				return Value{}, false
			}
			v, ok = m[c.Key]
			if !ok {
				return Value{}, false
			}
		case IndexComponent:
			a, ok := v.AsArray()
			if !ok || c.Index >= len(a) {
				return Value{}, false
			}
			v = a[c.Index]
		}
	}
}

// Contains reports whether a value exists at the given path.
func Contains(fields map[string]Value, path string) bool {
	_, ok := Get(fields, path)
	return ok
}

// Remove deletes the value at the given path and reports whether anything
// was removed. Removing a map key deletes the entry; removing an array
// element sets it to Null, preserving index continuity for its siblings.
func Remove(fields map[string]Value, path string) bool {
	var components []PathComponent
	it := NewPathIter(path)
	for {
		c, ok := it.Next()
		if !ok {
			break
		}
		components = append(components, c)
	}
	if len(components) == 0 || components[0].Kind != KeyComponent {
		return false
	}

	// Descend to the container holding the final component. Maps are
	// reference types and the element writes below never regrow an array,
	// so no write-back to parents is needed.
	curMap := fields
	var curArr []Value
	inMap := true
	for _, c := range components[:len(components)-1] {
		var child Value
		if inMap {
			if c.Kind != KeyComponent {
				return false
			}
			var ok bool
			child, ok = curMap[c.Key]
			if !ok {
				return false
			}
		} else {
			if c.Kind != IndexComponent || c.Index >= len(curArr) {
				return false
			}
			child = curArr[c.Index]
		}
		if m, ok := child.AsMap(); ok {
			curMap, inMap = m, true
			continue
		}
		if a, ok := child.AsArray(); ok {
			curArr, inMap = a, false
			continue
		}
		return false
	}

	last := components[len(components)-1]
	if inMap {
		if last.Kind != KeyComponent {
			return false
		}
		if _, ok := curMap[last.Key]; !ok {
			return false
		}
		delete(curMap, last.Key)
		return true
	}
	if last.Kind != IndexComponent || last.Index >= len(curArr) {
		return false
	}
	if curArr[last.Index].IsNull() {
		return false
	}
	curArr[last.Index] = Null()
	return true
}
