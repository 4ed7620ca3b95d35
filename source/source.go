// Package source decodes error tree snapshots and field records from JSON and
// YAML into the JSON-like Go values (map[string]any, []any, scalars) that the
// formerr resolver walks.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrEmpty is returned for inputs holding no document at all.
	ErrEmpty = errors.New("formerr/source: empty input")
	// ErrUnsupportedFormat is returned for unknown file extensions.
	ErrUnsupportedFormat = errors.New("formerr/source: unsupported format")
)

// Format names an input encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension. Files without an
// extension are read as JSON.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", "":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Decode decodes snapshots in the given format.
func Decode(data []byte, f Format) ([]any, error) {
	switch f {
	case FormatJSON:
		return DecodeJSON(data)
	case FormatYAML:
		return DecodeYAML(data)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}

// ReadFile reads snapshots from a JSON or YAML file.
func ReadFile(path string) ([]any, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("formerr/source: read %s: %w", path, err)
	}
	return Decode(data, f)
}

// ReadRecordFile reads a single field record from a JSON or YAML file.
func ReadRecordFile(path string) (any, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("formerr/source: read %s: %w", path, err)
	}
	if f == FormatYAML {
		return DecodeRecordYAML(data)
	}
	return DecodeRecordJSON(data)
}

// Snapshots unwraps one decoded document into its snapshot list:
//
//   - a list is the snapshot list itself
//   - a mapping with form.errors (or a top-level errors list) is unwrapped
//   - any other mapping is a single snapshot
//
// Scalars and nil yield no snapshots. doc is normalized first.
func Snapshots(doc any) []any {
	switch v := Normalize(doc).(type) {
	case []any:
		return v
	case map[string]any:
		if form, ok := v["form"].(map[string]any); ok {
			if errs, ok := form["errors"]; ok {
				return wrapList(errs)
			}
		}
		if errs, ok := v["errors"].([]any); ok && len(v) == 1 {
			return errs
		}
		return []any{v}
	}
	return nil
}

func wrapList(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case map[string]any:
		return []any{t}
	}
	return nil
}

// Normalize converts map[any]any values produced by generic YAML decoders
// into map[string]any, stringifying non-string keys so numeric index keys
// (0:, 1:) stay addressable.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = Normalize(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = Normalize(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = Normalize(t[i])
		}
		return arr
	default:
		return v
	}
}
