package filter

import (
	"strings"

	"github.com/usestring/filterkit/pkg/query"
)

// ChoiceFilter narrows hits to documents whose field holds one of the
// requested values and reports per-value counts for rendering facets.
//
// The selection is applied as a post filter tagged with the filter's
// aggregation, so counts reflect every other filter, including other choice
// selections, but not the filter's own selection.
type ChoiceFilter struct {
	field    string
	docField string
}

// NewChoice creates a choice filter reading comma-separated values from
// field and matching them against docField.
func NewChoice(field, docField string) *ChoiceFilter {
	return &ChoiceFilter{field: field, docField: docField}
}

func (f *ChoiceFilter) Kind() Kind           { return KindChoice }
func (f *ChoiceFilter) RequestField() string { return f.field }

// DocumentField returns the document field the filter matches.
func (f *ChoiceFilter) DocumentField() string { return f.docField }

func (f *ChoiceFilter) aggregationName() string {
	return "choice:" + f.field
}

// Bind splits the request value on commas, dropping blanks and duplicates.
func (f *ChoiceFilter) Bind(r Request) Binding {
	raw, _ := r.QueryParam(f.field)

	var values []string
	seen := make(map[string]struct{})
	for _, v := range strings.Split(raw, ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return choiceBinding{filter: f, values: values}
}

type choiceBinding struct {
	filter *ChoiceFilter
	values []string
}

func (b choiceBinding) Apply(q *query.Builder) {
	if len(b.values) > 0 {
		q.PostFilter(query.Terms{
			Field:  b.filter.docField,
			Values: b.values,
			Tag:    b.filter.aggregationName(),
		})
	}
	q.AggregateTerms(b.filter.aggregationName(), b.filter.docField)
}

// View lists every value with hits, plus selected values that have none.
func (b choiceBinding) View(_ query.Query, res *query.Result) ViewState {
	active := make(map[string]bool, len(b.values))
	for _, v := range b.values {
		active[v] = true
	}

	options := make([]ChoiceOption, 0)
	listed := make(map[string]bool)
	for _, bucket := range res.Buckets(b.filter.aggregationName()) {
		options = append(options, ChoiceOption{
			Value:  bucket.Key,
			Count:  bucket.Count,
			Active: active[bucket.Key],
		})
		listed[bucket.Key] = true
	}
	for _, v := range b.values {
		if !listed[v] {
			options = append(options, ChoiceOption{Value: v, Active: true})
		}
	}

	return ChoiceState{
		Selected: append([]string{}, b.values...),
		Options:  options,
	}
}

// ChoiceOption is one facet value.
type ChoiceOption struct {
	Value  string `json:"value"`
	Count  int    `json:"count"`
	Active bool   `json:"active"`
}

// ChoiceState is the choice filter's view state.
type ChoiceState struct {
	Selected []string       `json:"selected"`
	Options  []ChoiceOption `json:"options"`
}

func (ChoiceState) Kind() Kind { return KindChoice }
