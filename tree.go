package formerr

import (
	"fmt"
	"strings"

	"github.com/reoring/formerr/i18n"
)

// Layout selects how BuildTree keys error nodes.
type Layout int

const (
	// LayoutNested nests one mapping level per path segment.
	LayoutNested Layout = iota
	// LayoutFlatBracket keys nodes by the bracket identifier.
	LayoutFlatBracket
	// LayoutFlatDot keys nodes by the dot-notation identifier.
	LayoutFlatDot
)

func (l Layout) String() string {
	switch l {
	case LayoutNested:
		return "nested"
	case LayoutFlatBracket:
		return "flat"
	case LayoutFlatDot:
		return "dot"
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}

// ParseLayout maps "nested", "flat" or "dot" to a Layout.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nested":
		return LayoutNested, nil
	case "flat", "bracket":
		return LayoutFlatBracket, nil
	case "dot":
		return LayoutFlatDot, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLayout, s)
}

// BuildTree groups issue messages into an error tree snapshot.
//
// Every node carries an _errors list; in the nested layout intermediate
// nodes keep an empty list. Issues with an empty path attach to the root.
// Missing messages are filled from the i18n catalog using the issue code
// and params. Issues whose path uses _errors as a key are skipped.
func BuildTree(issues Issues, layout Layout) map[string]any {
	root := newNode()
	for _, it := range issues {
		msg := it.Message
		if msg == "" {
			msg = i18n.T(it.Code, stringParams(it.Params))
		}
		id := identifierOf(it.Path)
		if id == "" {
			appendMessage(root, msg)
			continue
		}
		if node, ok := target(root, id, layout); ok {
			appendMessage(node, msg)
		}
	}
	return root
}

// target returns the node holding the messages of id. A key equal to
// ErrorsKey would shadow a message list, so such paths have no target.
func target(root map[string]any, id string, layout Layout) (map[string]any, bool) {
	switch layout {
	case LayoutFlatBracket:
		return ensureChild(root, id)
	case LayoutFlatDot:
		return ensureChild(root, DotNotation(id))
	}
	node := root
	for _, seg := range ParsePath(id).Segments {
		var ok bool
		if node, ok = ensureChild(node, seg); !ok {
			return nil, false
		}
	}
	return node, true
}

func newNode() map[string]any {
	return map[string]any{ErrorsKey: []any{}}
}

func ensureChild(node map[string]any, key string) (map[string]any, bool) {
	if key == ErrorsKey {
		return nil, false
	}
	if c, ok := node[key].(map[string]any); ok {
		return c, true
	}
	c := newNode()
	node[key] = c
	return c, true
}

func appendMessage(node map[string]any, msg string) {
	list, _ := node[ErrorsKey].([]any)
	node[ErrorsKey] = append(list, msg)
}

func stringParams(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = fmt.Sprint(v)
	}
	return out
}
