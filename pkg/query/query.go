// Package query defines the backend-neutral search query that filters build
// and the result a search backend returns for it.
package query

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/usestring/filterkit/pkg/types"
)

// Order is a sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ParseOrder parses a sort direction. Anything other than "desc"
// (case-insensitive) is ascending.
func ParseOrder(s string) Order {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// Mode selects which value of a multi-valued field is used for sorting.
// The zero value picks min for ascending and max for descending sorts.
type Mode string

const (
	ModeDefault Mode = ""
	ModeMin     Mode = "min"
	ModeMax     Mode = "max"
	ModeSum     Mode = "sum"
	ModeAvg     Mode = "avg"
)

// ParseMode parses a sort mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeDefault, ModeMin, ModeMax, ModeSum, ModeAvg:
		return m, nil
	default:
		return ModeDefault, fmt.Errorf("unknown sort mode: %q", s)
	}
}

// Sort is one sort clause.
type Sort struct {
	Field string `json:"field"`
	Order Order  `json:"order"`
	Mode  Mode   `json:"mode,omitempty"`
}

// Window restricts a result set to Limit hits starting at Offset.
type Window struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// TermsAggregation asks the backend to count hits per value of Field.
type TermsAggregation struct {
	Name  string `json:"name"`
	Field string `json:"field"`
}

// Query is an immutable, fully built search query.
type Query struct {
	Must         []Clause           `json:"must,omitempty"`
	PostFilter   []Clause           `json:"post_filter,omitempty"`
	Sorts        []Sort             `json:"sorts,omitempty"`
	Window       *Window            `json:"window,omitempty"`
	Aggregations []TermsAggregation `json:"aggregations,omitempty"`
}

// Key returns a stable string identifying the query, suitable as a cache key.
func (q Query) Key() string {
	b, err := json.Marshal(q)
	if err != nil {
		// Clauses are plain data; marshaling only fails on NaN bounds.
		return fmt.Sprintf("%#v", q)
	}
	return string(b)
}

// Result is what a backend returns for a Query.
type Result struct {
	Documents    []types.Document          `json:"documents"`
	TotalHits    int                       `json:"total_hits"`
	Aggregations map[string][]types.Bucket `json:"aggregations,omitempty"`
}

// Buckets returns the buckets of the named aggregation, or nil.
func (r *Result) Buckets(name string) []types.Bucket {
	if r == nil || r.Aggregations == nil {
		return nil
	}
	return r.Aggregations[name]
}
