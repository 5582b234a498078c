package ferry

// maxArrayIndex bounds Null padding during sparse insertion. Indices above
// it come from pathological path content (untrusted configuration or field
// names) and are absorbed as no-ops instead of allocating without bound.
const maxArrayIndex = 1 << 20

// InsertResult reports whether an Insert call mutated the tree.
type InsertResult int

const (
	// Inserted means the value was placed at the addressed location.
	Inserted InsertResult = iota
	// SkippedEmptyPath means the path lexed to no components.
	SkippedEmptyPath
	// SkippedRootIndex means the path began with an array index, which
	// cannot address into the root map.
	SkippedRootIndex
	// SkippedIndexBound means the path contained an index above
	// maxArrayIndex.
	SkippedIndexBound
)

// Mutated reports whether the insert took effect.
func (r InsertResult) Mutated() bool {
	return r == Inserted
}

// String returns the result name.
func (r InsertResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case SkippedEmptyPath:
		return "skipped: empty path"
	case SkippedRootIndex:
		return "skipped: index into root map"
	case SkippedIndexBound:
		return "skipped: index above bound"
	default:
		return "unknown"
	}
}

// Insert sets the value at the location addressed by the path expression,
// using `a.b[1].c` notation. Intermediate maps and arrays are materialized on
// demand; an existing intermediate of the wrong type, including a scalar, is
// replaced with a fresh container. Inserting past an array's length pads the
// hole with Null so indices stay contiguous.
//
// Paths that cannot address a location are absorbed: the tree is left
// untouched and the returned InsertResult says why. Insert never panics and
// never returns an error, for any path string.
func Insert(fields map[string]Value, path string, value Value) InsertResult {
	it := NewPathIter(path)

	first, ok := it.Peek()
	if !ok {
		return SkippedEmptyPath
	}
	if first.Kind == IndexComponent {
		return SkippedRootIndex
	}
	for {
		c, ok := it.Next()
		if !ok {
			break
		}
		if c.Kind == IndexComponent && c.Index > maxArrayIndex {
			return SkippedIndexBound
		}
	}
	it.Reset()

	mapInsert(fields, it, value)
	return Inserted
}

// mapInsert places value under fields, consuming one component per call and
// peeking the next one to decide which container to materialize.
func mapInsert(fields map[string]Value, it *PathIter, value Value) {
	current, ok := it.Next()
	if !ok || current.Kind != KeyComponent {
		return
	}
	next, hasNext := it.Peek()
	switch {
	case !hasNext:
		fields[current.Key] = value
	case next.Kind == KeyComponent:
		child, ok := fields[current.Key].AsMap()
		if !ok {
			child = make(map[string]Value)
		}
		mapInsert(child, it, value)
		fields[current.Key] = Map(child)
	case next.Kind == IndexComponent:
		child, ok := fields[current.Key].AsArray()
		if !ok {
			child = make([]Value, 0, next.Index+1)
		}
		fields[current.Key] = Array(arrayInsert(child, it, value)...)
	}
}

// arrayInsert is the array-context counterpart of mapInsert. It returns the
// updated slice so callers can store the possibly-regrown backing array.
func arrayInsert(values []Value, it *PathIter, value Value) []Value {
	current, ok := it.Next()
	if !ok || current.Kind != IndexComponent {
		return values
	}
	next, hasNext := it.Peek()
	switch {
	case !hasNext:
		values = padTo(values, current.Index)
		values[current.Index] = value
	case next.Kind == KeyComponent:
		if current.Index < len(values) {
			if child, ok := values[current.Index].AsMap(); ok {
				mapInsert(child, it, value)
				return values
			}
		}
		child := make(map[string]Value)
		mapInsert(child, it, value)
		values = padTo(values, current.Index)
		values[current.Index] = Map(child)
	case next.Kind == IndexComponent:
		if current.Index < len(values) {
			if child, ok := values[current.Index].AsArray(); ok {
				values[current.Index] = Array(arrayInsert(child, it, value)...)
				return values
			}
		}
		child := arrayInsert(make([]Value, 0, next.Index+1), it, value)
		values = padTo(values, current.Index)
		values[current.Index] = Array(child...)
	}
	return values
}

// padTo grows values with Null entries until index is in range.
func padTo(values []Value, index int) []Value {
	for len(values) <= index {
		values = append(values, Null())
	}
	return values
}
