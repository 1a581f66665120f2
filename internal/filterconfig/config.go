// Package filterconfig builds filter containers from declarative TOML or
// JSON files. Files are validated against a JSON Schema reflected from File
// before any filter is constructed.
package filterconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/usestring/filterkit/internal/filter"
)

// File is the root of a filter configuration file.
type File struct {
	Filters []FilterSpec `json:"filters" jsonschema:"minItems=1" jsonschema_description:"Filters in application order"`
}

// FilterSpec declares one filter. Which fields apply depends on Type.
type FilterSpec struct {
	Name         string `json:"name" jsonschema:"minLength=1" jsonschema_description:"Unique filter name; keys the view state"`
	Type         string `json:"type" jsonschema:"minLength=1" jsonschema_description:"Filter kind: pager, sort, choice, match, range, or a registered extension"`
	RequestField string `json:"request_field" jsonschema:"minLength=1" jsonschema_description:"Request parameter the filter reads"`

	// choice, range
	Field string `json:"field,omitempty" jsonschema_description:"Document field (choice, range)"`
	// match
	Fields []string `json:"fields,omitempty" jsonschema_description:"Document fields searched (match)"`

	// pager
	CountPerPage int `json:"count_per_page,omitempty" jsonschema:"minimum=1"`
	MaxPages     int `json:"max_pages,omitempty" jsonschema:"minimum=0" jsonschema_description:"Highest selectable page; 0 is unlimited"`
	RangeSize    int `json:"range_size,omitempty" jsonschema:"minimum=1" jsonschema_description:"Page numbers in the page range"`

	// sort
	Choices []ChoiceSpec `json:"choices,omitempty"`

	// Options carries settings for registered extension kinds.
	Options map[string]any `json:"options,omitempty"`
}

// ChoiceSpec declares one sort choice.
type ChoiceSpec struct {
	Key     string `json:"key,omitempty" jsonschema_description:"Request value selecting the choice; defaults to its position"`
	Label   string `json:"label"`
	Field   string `json:"field" jsonschema:"minLength=1"`
	Order   string `json:"order,omitempty" jsonschema:"enum=asc,enum=desc"`
	Default bool   `json:"default,omitempty"`
	Mode    string `json:"mode,omitempty" jsonschema:"enum=min,enum=max,enum=sum,enum=avg"`
}

// Format is a configuration file syntax.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format by file extension. Unknown extensions are JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// LoadFile reads, validates and decodes a configuration file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading filter config: %w", err)
	}
	f, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse validates and decodes configuration data.
func Parse(data []byte, format Format) (*File, error) {
	jsonData, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}

	if err := Validate(jsonData); err != nil {
		return nil, err
	}

	var f File
	dec := json.NewDecoder(bytes.NewReader(jsonData))
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding filter config: %w", err)
	}
	return &f, nil
}

// toJSON converts TOML to JSON so both formats share one schema and decoder.
func toJSON(data []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return data, nil
	case FormatTOML:
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing TOML: %w", err)
		}
		out, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("converting TOML: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown config format: %s", format)
	}
}

// Build constructs a container holding the configured filters in file order.
func Build(f *File, d Defaults) (*filter.Container, error) {
	c := filter.NewContainer()
	for i, spec := range f.Filters {
		build, ok := lookupKind(filter.Kind(spec.Type))
		if !ok {
			return nil, fmt.Errorf("filter %d (%s): unknown type %q", i, spec.Name, spec.Type)
		}
		flt, err := build(spec, d)
		if err != nil {
			return nil, fmt.Errorf("filter %d (%s): %w", i, spec.Name, err)
		}
		if _, err := c.Get(spec.Name); err == nil {
			return nil, fmt.Errorf("filter %d: duplicate name %q", i, spec.Name)
		}
		if err := c.Set(spec.Name, flt); err != nil {
			return nil, fmt.Errorf("filter %d (%s): %w", i, spec.Name, err)
		}
	}
	return c, nil
}

// LoadContainer reads a configuration file and builds its container.
func LoadContainer(path string, d Defaults) (*filter.Container, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Build(f, d)
}
