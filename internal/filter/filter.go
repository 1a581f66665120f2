// Package filter implements the filter pipeline: named filters bind request
// parameters, contribute clauses to a shared query builder, and report view
// state after the query runs.
//
// Filters are immutable once built and may be shared by concurrent
// executions. Everything computed for one request lives in the Binding a
// filter returns from Bind.
package filter

import (
	"context"
	"net/url"

	"github.com/usestring/filterkit/pkg/query"
)

// Kind identifies a filter variant.
type Kind string

const (
	KindPager  Kind = "pager"
	KindSort   Kind = "sort"
	KindChoice Kind = "choice"
	KindMatch  Kind = "match"
	KindRange  Kind = "range"
)

// Filter reads one request field and contributes to a search query.
type Filter interface {
	// Kind reports the filter variant.
	Kind() Kind
	// RequestField is the request parameter the filter reads.
	RequestField() string
	// Bind normalizes the filter's request value. Invalid input never fails;
	// it falls back to the filter's default.
	Bind(r Request) Binding
}

// Binding is a filter bound to one request. It carries all per-request state.
type Binding interface {
	// Apply adds the filter's clauses to the shared builder.
	Apply(b *query.Builder)
	// View computes the filter's view state from the executed query and its result.
	View(q query.Query, res *query.Result) ViewState
}

// ViewState is per-filter, per-execution data for rendering controls.
type ViewState interface {
	Kind() Kind
}

// Request exposes request query parameters.
type Request interface {
	QueryParam(name string) (string, bool)
}

// Params is a Request backed by a plain map.
type Params map[string]string

// QueryParam implements Request.
func (p Params) QueryParam(name string) (string, bool) {
	v, ok := p[name]
	return v, ok
}

// Values is a Request backed by url.Values. The first value of a key wins.
type Values url.Values

// QueryParam implements Request.
func (v Values) QueryParam(name string) (string, bool) {
	vals, ok := v[name]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Repository runs built queries against a search backend.
type Repository interface {
	Search(ctx context.Context, q query.Query) (*query.Result, error)
}
