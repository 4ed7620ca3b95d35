package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// maxAliasExpansions bounds how many aliases one document may expand.
const maxAliasExpansions = 10000

var (
	// ErrAliasCycle is returned when an alias refers to a node that contains it.
	ErrAliasCycle = errors.New("formerr/source: recursive yaml alias")
	// ErrAliasLimit is returned when a document expands too many aliases.
	ErrAliasLimit = errors.New("formerr/source: too many yaml alias expansions")
)

// DuplicateKeyError reports a duplicate key found in a YAML mapping with both
// the first occurrence position and the duplicate occurrence position.
type DuplicateKeyError struct {
	Key       string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("formerr/source: duplicate YAML key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// DecodeYAML decodes a multi-document YAML stream. Each document is unwrapped
// with Snapshots and the results are concatenated in document order.
func DecodeYAML(data []byte) ([]any, error) {
	docs, err := decodeYAMLDocs(data)
	if err != nil {
		return nil, err
	}
	var out []any
	for _, d := range docs {
		out = append(out, Snapshots(d)...)
	}
	return out, nil
}

// DecodeRecordYAML decodes the first YAML document as a field record.
func DecodeRecordYAML(data []byte) (any, error) {
	docs, err := decodeYAMLDocs(data)
	if err != nil {
		return nil, err
	}
	return docs[0], nil
}

func decodeYAMLDocs(data []byte) ([]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []any
	for {
		var root yaml.Node
		if err := dec.Decode(&root); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("formerr/source: decode yaml: %w", err)
		}
		d := nodeDecoder{active: map[*yaml.Node]bool{}}
		v, err := d.value(&root)
		if err != nil {
			return nil, err
		}
		if v != nil {
			docs = append(docs, v)
		}
	}
	if len(docs) == 0 {
		return nil, ErrEmpty
	}
	return docs, nil
}

// nodeDecoder converts yaml.Node trees into JSON-like Go values. Mapping
// keys keep their literal text, so `0:` is keyed "0" exactly like a JSON
// object.
type nodeDecoder struct {
	active  map[*yaml.Node]bool // anchors being expanded
	aliases int
}

func (d *nodeDecoder) value(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.value(n.Content[0])
	case yaml.AliasNode:
		return d.alias(n)
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if pos, dup := first[k.Value]; dup {
				return nil, &DuplicateKeyError{Key: k.Value, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
			}
			first[k.Value] = [2]int{k.Line, k.Column}
			v, err := d.value(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[k.Value] = v
		}
		return m, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := d.value(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return scalarValue(n), nil
	}
	return nil, nil
}

func (d *nodeDecoder) alias(n *yaml.Node) (any, error) {
	if n.Alias == nil {
		return nil, nil
	}
	if d.active[n.Alias] {
		return nil, fmt.Errorf("%w: *%s at %d:%d", ErrAliasCycle, n.Value, n.Line, n.Column)
	}
	d.aliases++
	if d.aliases > maxAliasExpansions {
		return nil, fmt.Errorf("%w: more than %d", ErrAliasLimit, maxAliasExpansions)
	}
	d.active[n.Alias] = true
	defer delete(d.active, n.Alias)
	return d.value(n.Alias)
}

// scalarValue resolves a scalar the way yaml.v3 does for an untyped target.
// Scalars it cannot decode, such as ones with unknown tags, keep their text.
func scalarValue(n *yaml.Node) any {
	var v any
	if err := n.Decode(&v); err != nil {
		return n.Value
	}
	return v
}
