package formerr

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes
const (
	CodeRequired      = "required"
	CodeInvalidType   = "invalid_type"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodePattern       = "pattern"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidFormat = "invalid_format"
	CodeInvalidDate   = "invalid_date"
	CodeCustom        = "custom"
)

// ErrInvalidLayout is returned by ParseLayout for unknown layout names.
var ErrInvalidLayout = errors.New("formerr: invalid layout")

// Issue represents a single validation failure.
type Issue struct {
	// Path is a field identifier (people[0].firstName) or a JSON Pointer
	// (/people/0/firstName). Empty means the form as a whole.
	Path    string         `json:"path" yaml:"path"`
	Code    string         `json:"code" yaml:"code"`
	Message string         `json:"message,omitempty" yaml:"message,omitempty"`
	Params  map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// Issues is a collection of validation failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		// e.g. required at people[0].firstName
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// ForField returns the issues whose path names id, in either notation.
func (iss Issues) ForField(id string) Issues {
	var out Issues
	for _, it := range iss {
		if identifierOf(it.Path) == id {
			out = append(out, it)
		}
	}
	return out
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
