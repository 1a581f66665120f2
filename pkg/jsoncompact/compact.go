// Package jsoncompact shortens decoded JSON values for display by trimming
// long arrays and strings.
package jsoncompact

import (
	"fmt"
	"unicode/utf8"
)

// Default limits.
const (
	DefaultMaxArrayItems = 5
	DefaultMaxStringLen  = 300
)

// Limits bounds a compacted value. Zero disables a limit.
type Limits struct {
	MaxArrayItems int
	MaxStringLen  int
}

// DefaultLimits returns the default limits.
func DefaultLimits() Limits {
	return Limits{MaxArrayItems: DefaultMaxArrayItems, MaxStringLen: DefaultMaxStringLen}
}

// Object compacts every value of m into a new map. m is not modified.
func Object(m map[string]any, l Limits) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Value(v, l)
	}
	return out
}

// Value compacts a value produced by encoding/json. Trimmed arrays end with a
// marker string counting the dropped items.
func Value(v any, l Limits) any {
	switch v := v.(type) {
	case map[string]any:
		return Object(v, l)
	case []any:
		keep := len(v)
		if l.MaxArrayItems > 0 && keep > l.MaxArrayItems {
			keep = l.MaxArrayItems
		}
		out := make([]any, keep, keep+1)
		for i := range keep {
			out[i] = Value(v[i], l)
		}
		if dropped := len(v) - keep; dropped > 0 {
			out = append(out, fmt.Sprintf("... (%d more items)", dropped))
		}
		return out
	case string:
		if l.MaxStringLen > 0 && len(v) > l.MaxStringLen {
			// Back off to a rune boundary so the cut never splits a character.
			cut := l.MaxStringLen
			for cut > 0 && !utf8.RuneStart(v[cut]) {
				cut--
			}
			return fmt.Sprintf("%s... (%d more bytes)", v[:cut], len(v)-cut)
		}
		return v
	default:
		return v
	}
}
