package source

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// DecodeJSON decodes a JSON document into snapshots (see Snapshots).
func DecodeJSON(data []byte) ([]any, error) {
	doc, err := decodeJSON(data)
	if err != nil {
		return nil, err
	}
	return Snapshots(doc), nil
}

// DecodeRecordJSON decodes a single field record from JSON.
func DecodeRecordJSON(data []byte) (any, error) {
	return decodeJSON(data)
}

func decodeJSON(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("formerr/source: decode json: %w", err)
	}
	return doc, nil
}
