package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/usestring/filterkit/pkg/query"
)

// Choice is one selectable sort configuration.
type Choice struct {
	// Key selects the choice from the request. When empty, the choice is
	// selected by its zero-based position.
	Key     string
	Label   string
	Field   string
	Order   query.Order
	Default bool
	Mode    query.Mode
}

// Sort orders results by one of several configured choices.
type Sort struct {
	field    string
	choices  []Choice
	fallback int
}

// NewSort creates a sort filter reading the choice from field.
// At least one choice is required so a selection always exists.
func NewSort(field string, choices ...Choice) (*Sort, error) {
	if len(choices) == 0 {
		return nil, errors.New("sort filter needs at least one choice")
	}
	for i, c := range choices {
		if c.Field == "" {
			return nil, fmt.Errorf("sort choice %d has no field", i)
		}
	}

	s := &Sort{field: field, choices: append([]Choice(nil), choices...)}
	for i, c := range s.choices {
		if c.Default {
			s.fallback = i
			break
		}
	}
	return s, nil
}

func (s *Sort) Kind() Kind           { return KindSort }
func (s *Sort) RequestField() string { return s.field }

// Choices returns a copy of the configured choices.
func (s *Sort) Choices() []Choice { return append([]Choice(nil), s.choices...) }

// Bind resolves the requested choice by key, then by position. Unknown
// values select the default choice, or the first when none is default.
func (s *Sort) Bind(r Request) Binding {
	selected := s.fallback
	if raw, ok := r.QueryParam(s.field); ok {
		if i, found := s.lookup(strings.TrimSpace(raw)); found {
			selected = i
		}
	}
	return sortBinding{sort: s, selected: selected}
}

func (s *Sort) lookup(value string) (int, bool) {
	if value == "" {
		return 0, false
	}
	for i, c := range s.choices {
		if c.Key != "" && c.Key == value {
			return i, true
		}
	}
	if i, err := strconv.Atoi(value); err == nil && i >= 0 && i < len(s.choices) {
		return i, true
	}
	return 0, false
}

// choiceKey is the request value that selects choice i.
func (s *Sort) choiceKey(i int) string {
	if k := s.choices[i].Key; k != "" {
		return k
	}
	return strconv.Itoa(i)
}

type sortBinding struct {
	sort     *Sort
	selected int
}

func (b sortBinding) Apply(q *query.Builder) {
	c := b.sort.choices[b.selected]
	q.AddSort(c.Field, c.Order, c.Mode)
}

func (b sortBinding) View(query.Query, *query.Result) ViewState {
	c := b.sort.choices[b.selected]
	options := make([]SortOption, len(b.sort.choices))
	for i, choice := range b.sort.choices {
		options[i] = SortOption{
			Key:    b.sort.choiceKey(i),
			Label:  choice.Label,
			Active: i == b.selected,
		}
	}
	return SortState{
		Selected: b.sort.choiceKey(b.selected),
		Label:    c.Label,
		Field:    c.Field,
		Order:    c.Order,
		Mode:     c.Mode,
		Choices:  options,
	}
}

// SortOption describes one choice for rendering.
type SortOption struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// SortState is the sort filter's view state.
type SortState struct {
	Selected string       `json:"selected"`
	Label    string       `json:"label"`
	Field    string       `json:"field"`
	Order    query.Order  `json:"order"`
	Mode     query.Mode   `json:"mode,omitempty"`
	Choices  []SortOption `json:"choices"`
}

func (SortState) Kind() Kind { return KindSort }
