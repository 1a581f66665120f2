package query

// Builder accumulates clauses from filters. It is not safe for concurrent
// use; one Builder is created per execution.
type Builder struct {
	must   []Clause
	post   []Clause
	sorts  []Sort
	window *Window
	aggs   []TermsAggregation
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetWindow restricts results to limit hits starting at offset.
// Negative offsets are raised to 0 and limits below 1 are raised to 1.
// A later call replaces an earlier window.
func (b *Builder) SetWindow(offset, limit int) *Builder {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 1
	}
	b.window = &Window{Offset: offset, Limit: limit}
	return b
}

// AddSort appends a sort clause. Earlier sorts take precedence.
func (b *Builder) AddSort(field string, order Order, mode Mode) *Builder {
	b.sorts = append(b.sorts, Sort{Field: field, Order: order, Mode: mode})
	return b
}

// Must adds a clause that restricts both hits and aggregations.
func (b *Builder) Must(c Clause) *Builder {
	b.must = append(b.must, c)
	return b
}

// PostFilter adds a clause that restricts hits only. A tagged Terms clause
// also restricts aggregations other than the one its tag names.
func (b *Builder) PostFilter(c Clause) *Builder {
	b.post = append(b.post, c)
	return b
}

// AggregateTerms requests a terms aggregation named name over field.
func (b *Builder) AggregateTerms(name, field string) *Builder {
	b.aggs = append(b.aggs, TermsAggregation{Name: name, Field: field})
	return b
}

// Build returns an immutable snapshot of the accumulated query.
func (b *Builder) Build() Query {
	q := Query{
		Must:         append([]Clause(nil), b.must...),
		PostFilter:   append([]Clause(nil), b.post...),
		Sorts:        append([]Sort(nil), b.sorts...),
		Aggregations: append([]TermsAggregation(nil), b.aggs...),
	}
	if b.window != nil {
		w := *b.window
		q.Window = &w
	}
	return q
}
