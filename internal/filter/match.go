package filter

import (
	"strings"

	"github.com/usestring/filterkit/pkg/query"
)

// MatchFilter restricts hits to documents matching free text in any of its fields.
type MatchFilter struct {
	field  string
	fields []string
}

// NewMatch creates a full-text filter reading text from field and searching docFields.
func NewMatch(field string, docFields ...string) *MatchFilter {
	return &MatchFilter{field: field, fields: append([]string(nil), docFields...)}
}

func (f *MatchFilter) Kind() Kind           { return KindMatch }
func (f *MatchFilter) RequestField() string { return f.field }

// DocumentFields returns the searched document fields.
func (f *MatchFilter) DocumentFields() []string { return append([]string(nil), f.fields...) }

func (f *MatchFilter) Bind(r Request) Binding {
	raw, _ := r.QueryParam(f.field)
	return matchBinding{filter: f, text: strings.TrimSpace(raw)}
}

type matchBinding struct {
	filter *MatchFilter
	text   string
}

func (b matchBinding) Apply(q *query.Builder) {
	if b.text == "" || len(b.filter.fields) == 0 {
		return
	}
	q.Must(query.Match{Fields: append([]string(nil), b.filter.fields...), Text: b.text})
}

func (b matchBinding) View(query.Query, *query.Result) ViewState {
	return MatchState{Query: b.text}
}

// MatchState is the match filter's view state.
type MatchState struct {
	Query string `json:"query"`
}

func (MatchState) Kind() Kind { return KindMatch }
