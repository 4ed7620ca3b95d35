package formerr

import (
	"regexp"
	"strconv"
)

// ArrayMatch records one numeric bracket selector in a field identifier.
type ArrayMatch struct {
	Property string `json:"property"` // property name immediately preceding the bracket
	Index    int    `json:"index"`
}

// Path is the parsed form of a field identifier such as people[0].firstName.
//
// Segments interleaves property names and stringified indices in traversal
// order, which is how nested error trees are keyed: people[0].firstName
// yields ["people", "0", "firstName"].
type Path struct {
	Segments     []string     `json:"segments"`
	ArrayMatches []ArrayMatch `json:"arrayMatches"`
}

// ParsePath splits a field identifier into segments and array matches.
//
// Every run of characters other than '.', '[' and ']' is a segment. A run
// that is a decimal integer enclosed in brackets directly after a property
// (or after another index) is an index: it is kept as a segment and also
// recorded as an array match. Any other bracket content, such as abc in
// people[abc], is a plain property segment with no array match. ParsePath
// never panics. No escaping of '.', '[' or ']' is supported.
func ParsePath(id string) Path {
	var p Path
	prop := ""
	open := -1 // position an index bracket must open at
	for i := 0; i < len(id); {
		if isPathDelim(id[i]) {
			i++
			continue
		}
		start := i
		for i < len(id) && !isPathDelim(id[i]) {
			i++
		}
		seg := id[start:i]
		if open >= 0 && start-1 == open && id[open] == '[' && i < len(id) && id[i] == ']' {
			if n, ok := parseIndex(seg); ok {
				p.Segments = append(p.Segments, seg)
				p.ArrayMatches = append(p.ArrayMatches, ArrayMatch{Property: prop, Index: n})
				open = i + 1
				continue
			}
		}
		p.Segments = append(p.Segments, seg)
		prop, open = seg, i
	}
	return p
}

var bracketIndex = regexp.MustCompile(`\[(\d+)\]`)

// DotNotation rewrites every [n] selector as .n, e.g. people[0].firstName
// becomes people.0.firstName. Non-numeric brackets are left untouched.
func DotNotation(id string) string {
	return bracketIndex.ReplaceAllString(id, ".$1")
}

func isPathDelim(c byte) bool { return c == '.' || c == '[' || c == ']' }

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func parseIndex(s string) (int, bool) {
	if !isDigits(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
