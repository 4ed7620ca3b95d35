package formerr

import (
	"fmt"
	"strconv"
	"strings"
)

type pathPart struct {
	name    string
	index   int
	isIndex bool
}

// FieldPath builds field identifiers and JSON Pointers in a chain-safe way.
// The zero value is the form root. FieldPath values are immutable.
type FieldPath struct {
	parts []pathPart
}

// Root returns the path of the form itself.
func Root() FieldPath { return FieldPath{} }

// Field appends a property name. Empty names are ignored.
func (p FieldPath) Field(name string) FieldPath {
	if name == "" {
		return p
	}
	return FieldPath{parts: append(append([]pathPart{}, p.parts...), pathPart{name: name})}
}

// Index appends an array index. Negative indices are ignored.
func (p FieldPath) Index(i int) FieldPath {
	if i < 0 {
		return p
	}
	return FieldPath{parts: append(append([]pathPart{}, p.parts...), pathPart{index: i, isIndex: true})}
}

// Identifier renders the bracket notation used by form fields, e.g.
// people[0].firstName. An index at the root renders as a plain segment.
func (p FieldPath) Identifier() string {
	var b strings.Builder
	for i, part := range p.parts {
		switch {
		case part.isIndex && i > 0:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(part.index))
			b.WriteByte(']')
		case part.isIndex:
			b.WriteString(strconv.Itoa(part.index))
		default:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(part.name)
		}
	}
	return b.String()
}

// Pointer renders the path as an RFC 6901 JSON Pointer.
func (p FieldPath) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, part := range p.parts {
		b.WriteByte('/')
		if part.isIndex {
			b.WriteString(strconv.Itoa(part.index))
			continue
		}
		// escape '~' -> '~0', '/' -> '~1' per RFC6901
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(part.name, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

func (p FieldPath) String() string { return p.Identifier() }

// Issue creates an Issue at this path. kv holds alternating param keys and
// values.
func (p FieldPath) Issue(code, msg string, kv ...any) Issue {
	var params map[string]any
	if len(kv) > 1 {
		params = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			params[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	return Issue{Path: p.Identifier(), Code: code, Message: msg, Params: params}
}

// PointerToIdentifier converts a JSON Pointer such as /people/0/firstName
// into a field identifier such as people[0].firstName. A numeric token
// becomes an index when it follows another token.
func PointerToIdentifier(ptr string) string {
	p := Root()
	for _, tok := range strings.Split(ptr, "/") {
		if tok == "" {
			continue
		}
		if n, ok := parseIndex(tok); ok && len(p.parts) > 0 {
			p = p.Index(n)
			continue
		}
		p = p.Field(strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~"))
	}
	return p.Identifier()
}

// identifierOf normalizes an issue path to a field identifier.
func identifierOf(path string) string {
	if strings.HasPrefix(path, "/") {
		return PointerToIdentifier(path)
	}
	return path
}
