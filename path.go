package ferry

import "strconv"

// ComponentKind identifies a path component variant.
type ComponentKind int

const (
	// KeyComponent addresses a map key.
	KeyComponent ComponentKind = iota
	// IndexComponent addresses an array index.
	IndexComponent
)

// PathComponent is one step of a parsed path expression: either a map key or
// a non-negative array index.
type PathComponent struct {
	Kind  ComponentKind
	Key   string
	Index int
}

// PathIter lazily lexes a path expression into PathComponents.
//
// The grammar is `segment ('.' segment | '[' digits ']')*`; a leading segment
// may itself start with '['. Key segments are delimited by '.', index
// segments by matching brackets containing a base-10 integer with no sign.
//
// The lexer is total: a bracket whose content is not all digits, does not fit
// in an int, or is never closed is emitted as part of a literal key, spelled
// exactly as written ("a[x]" lexes as the single key "a[x]", "a[1" as the key
// "a[1"). Duplicate separators emit empty keys ("a..b" lexes as "a", "", "b").
// Empty input yields an empty sequence. Next never panics.
//
// The iterator is restartable via Reset.
type PathIter struct {
	path   string
	pos    int
	peeked *PathComponent
}

// NewPathIter returns a lexer over the given path expression.
func NewPathIter(path string) *PathIter {
	return &PathIter{path: path}
}

// Next returns the next component, or ok false when the path is exhausted.
func (it *PathIter) Next() (PathComponent, bool) {
	if it.peeked != nil {
		c := *it.peeked
		it.peeked = nil
		return c, true
	}
	return it.lex()
}

// Peek returns the next component without consuming it.
func (it *PathIter) Peek() (PathComponent, bool) {
	if it.peeked == nil {
		c, ok := it.lex()
		if !ok {
			return PathComponent{}, false
		}
		it.peeked = &c
	}
	return *it.peeked, true
}

// Reset restarts the iterator at the beginning of the path.
func (it *PathIter) Reset() {
	it.pos = 0
	it.peeked = nil
}

func (it *PathIter) lex() (PathComponent, bool) {
	s := it.path
	if it.pos >= len(s) {
		return PathComponent{}, false
	}

	if s[it.pos] == '[' {
		if index, end, ok := parseIndexAt(s, it.pos); ok {
			it.pos = end
			if it.pos < len(s) && s[it.pos] == '.' {
				it.pos++
			}
			return PathComponent{Kind: IndexComponent, Index: index}, true
		}
	}

	// Key segment: runs to the next '.' or to a well-formed index bracket.
	// Malformed brackets are swallowed into the key.
	start := it.pos
	for it.pos < len(s) {
		c := s[it.pos]
		if c == '.' {
			break
		}
		if c == '[' {
			if _, _, ok := parseIndexAt(s, it.pos); ok {
				break
			}
		}
		it.pos++
	}
	key := s[start:it.pos]
	if it.pos < len(s) && s[it.pos] == '.' {
		it.pos++
	}
	return PathComponent{Kind: KeyComponent, Key: key}, true
}

// parseIndexAt parses a `[digits]` segment starting at s[pos], which must be
// '['. It returns the index, the position just past ']', and whether the
// segment is a well-formed non-negative index.
func parseIndexAt(s string, pos int) (index, end int, ok bool) {
	j := pos + 1
	for j < len(s) && s[j] != ']' {
		if s[j] < '0' || s[j] > '9' {
			return 0, 0, false
		}
		j++
	}
	if j >= len(s) || j == pos+1 {
		return 0, 0, false
	}
	index, err := strconv.Atoi(s[pos+1 : j])
	if err != nil {
		return 0, 0, false
	}
	return index, j + 1, true
}
