package formerr

import (
	"strconv"
	"strings"
)

// ErrorsKey is the attribute under which an error node stores its messages.
const ErrorsKey = "_errors"

// Query carries a field identifier together with its derived forms. It is
// built fresh for every resolution and shared by all strategies of that call.
type Query struct {
	ID   string // identifier as given, e.g. people[0].firstName
	Dot  string // dot notation, e.g. people.0.firstName
	Path Path
}

// NewQuery derives the dot notation and parsed path of id.
func NewQuery(id string) Query {
	return Query{ID: id, Dot: DotNotation(id), Path: ParsePath(id)}
}

// Strategy looks a query up in one error tree snapshot. Lookup reports
// ("", false) for "no match" and must never panic on malformed snapshots.
type Strategy interface {
	Name() string
	Lookup(snapshot any, q Query) (string, bool)
}

type strategyFunc struct {
	name string
	fn   func(snapshot any, q Query) (string, bool)
}

func (s strategyFunc) Name() string                                { return s.name }
func (s strategyFunc) Lookup(snapshot any, q Query) (string, bool) { return s.fn(snapshot, q) }

// Built-in strategies, listed in default precedence order.
var (
	// FlatExact matches a snapshot key equal to the identifier as given.
	FlatExact Strategy = strategyFunc{name: "flat-exact", fn: func(snap any, q Query) (string, bool) {
		return walk(snap, []string{q.ID})
	}}
	// FlatDot matches a snapshot key equal to the identifier in dot notation.
	FlatDot Strategy = strategyFunc{name: "flat-dot", fn: func(snap any, q Query) (string, bool) {
		return walk(snap, []string{q.Dot})
	}}
	// NestedDotSegments descends one mapping level per dot-separated segment.
	NestedDotSegments Strategy = strategyFunc{name: "nested-dot-segments", fn: func(snap any, q Query) (string, bool) {
		return walk(snap, strings.Split(q.Dot, "."))
	}}
	// NestedPathSegments descends one mapping level per parsed path segment.
	NestedPathSegments Strategy = strategyFunc{name: "nested-path-segments", fn: func(snap any, q Query) (string, bool) {
		return walk(snap, q.Path.Segments)
	}}
	// NestedArrayAware descends like NestedPathSegments but rebuilds index
	// keys from the array matches, so people[01] is looked up under "1".
	NestedArrayAware Strategy = strategyFunc{name: "nested-array-aware", fn: func(snap any, q Query) (string, bool) {
		return walk(snap, arrayAwareKeys(q.Path))
	}}
)

// DefaultStrategies returns the built-in strategies in precedence order.
func DefaultStrategies() []Strategy {
	return []Strategy{FlatExact, FlatDot, NestedDotSegments, NestedPathSegments, NestedArrayAware}
}

// walk descends node one key at a time and reports the first message of the
// error node reached by the last key. Missing keys, nil values and
// non-mapping intermediates end the walk with no match.
func walk(node any, keys []string) (string, bool) {
	if len(keys) == 0 {
		return "", false
	}
	v, ok := child(node, keys[0])
	if !ok {
		return "", false
	}
	if len(keys) == 1 {
		return firstMessage(v)
	}
	return walk(v, keys[1:])
}

// child returns node[key] when node is a mapping holding key.
func child(node any, key string) (any, bool) {
	switch m := node.(type) {
	case map[string]any:
		v, ok := m[key]
		return v, ok && v != nil
	case map[any]any:
		v, ok := m[key]
		return v, ok && v != nil
	}
	return nil, false
}

// firstMessage reports the first message of an error node. A node counts
// only when its _errors is a non-empty list starting with a non-empty string.
func firstMessage(v any) (string, bool) {
	raw, ok := child(v, ErrorsKey)
	if !ok {
		return "", false
	}
	switch list := raw.(type) {
	case []any:
		if len(list) == 0 {
			return "", false
		}
		s, ok := list[0].(string)
		return s, ok && s != ""
	case []string:
		if len(list) == 0 {
			return "", false
		}
		return list[0], list[0] != ""
	}
	return "", false
}

// arrayAwareKeys rebuilds the segment sequence of p, substituting each index
// segment with the canonical decimal form of its array match.
func arrayAwareKeys(p Path) []string {
	keys := make([]string, 0, len(p.Segments))
	m := 0
	prop := ""
	for i, seg := range p.Segments {
		if i > 0 && m < len(p.ArrayMatches) && p.ArrayMatches[m].Property == prop {
			if n, ok := parseIndex(seg); ok && n == p.ArrayMatches[m].Index {
				keys = append(keys, strconv.Itoa(n))
				m++
				continue
			}
		}
		keys = append(keys, seg)
		prop = seg
	}
	return keys
}
