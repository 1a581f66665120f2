// Package types provides shared types for filterkit.
// These types are used across multiple packages and are designed for external consumption.
package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ToAny round-trips a typed value through JSON to produce an untyped any.
// Use this when a tool output field must be any (instead of json.RawMessage)
// to satisfy the MCP SDK's schema validation.
func ToAny(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Document is a single searchable document.
type Document struct {
	ID     string         `json:"id"`
	Source map[string]any `json:"source"`
}

// idKeys are the source keys checked, in order, for a document identifier.
var idKeys = []string{"_id", "id"}

// DocumentFromMap builds a Document from a decoded JSON object.
// The identifier is taken from "_id" or "id" and removed from the source.
func DocumentFromMap(m map[string]any) (Document, error) {
	source := make(map[string]any, len(m))
	for k, v := range m {
		source[k] = v
	}
	for _, key := range idKeys {
		raw, ok := source[key]
		if !ok {
			continue
		}
		delete(source, key)
		id, err := idString(raw)
		if err != nil {
			return Document{}, err
		}
		return Document{ID: id, Source: source}, nil
	}
	return Document{}, fmt.Errorf("document has no _id or id field")
}

func idString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		if t == "" {
			return "", fmt.Errorf("document id is empty")
		}
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case int:
		return fmt.Sprintf("%d", t), nil
	case int64:
		return fmt.Sprintf("%d", t), nil
	case json.Number:
		return t.String(), nil
	default:
		return "", fmt.Errorf("unsupported document id type %T", v)
	}
}
