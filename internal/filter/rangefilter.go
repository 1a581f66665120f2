package filter

import (
	"math"
	"strconv"
	"strings"

	"github.com/usestring/filterkit/pkg/query"
)

// RangeFilter restricts a numeric document field to a request-supplied
// interval written "min;max". Either side may be omitted.
type RangeFilter struct {
	field    string
	docField string
}

// NewRange creates a range filter reading the interval from field.
func NewRange(field, docField string) *RangeFilter {
	return &RangeFilter{field: field, docField: docField}
}

func (f *RangeFilter) Kind() Kind           { return KindRange }
func (f *RangeFilter) RequestField() string { return f.field }

// DocumentField returns the document field the filter restricts.
func (f *RangeFilter) DocumentField() string { return f.docField }

// Bind parses the interval. Sides that are not finite numbers are dropped,
// and swapped bounds are put back in order.
func (f *RangeFilter) Bind(r Request) Binding {
	raw, _ := r.QueryParam(f.field)
	lo, hi, _ := strings.Cut(raw, ";")

	b := rangeBinding{filter: f, min: parseBound(lo), max: parseBound(hi)}
	if b.min != nil && b.max != nil && *b.min > *b.max {
		b.min, b.max = b.max, b.min
	}
	return b
}

func parseBound(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

type rangeBinding struct {
	filter   *RangeFilter
	min, max *float64
}

func (b rangeBinding) Apply(q *query.Builder) {
	if b.min == nil && b.max == nil {
		return
	}
	q.Must(query.Range{Field: b.filter.docField, Gte: b.min, Lte: b.max})
}

func (b rangeBinding) View(query.Query, *query.Result) ViewState {
	return RangeState{Min: b.min, Max: b.max}
}

// RangeState is the range filter's view state.
type RangeState struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

func (RangeState) Kind() Kind { return KindRange }
