package filter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/usestring/filterkit/pkg/query"
	"github.com/usestring/filterkit/pkg/types"
)

// Manager runs a container's filters against a repository.
// It holds no per-request state and is safe for concurrent use.
type Manager struct {
	container *Container
	repo      Repository
}

// NewManager creates a manager for container backed by repo.
func NewManager(container *Container, repo Repository) *Manager {
	return &Manager{container: container, repo: repo}
}

// Container returns the manager's filters.
func (m *Manager) Container() *Container {
	return m.container
}

// Execute binds every filter to r in registration order, applies them to one
// query, runs it and collects each filter's view state. A backend failure is
// returned as *SearchExecutionError with no result.
func (m *Manager) Execute(ctx context.Context, r Request) (*Result, error) {
	start := time.Now()
	entries := m.container.snapshot()

	builder := query.NewBuilder()
	bindings := make([]Binding, len(entries))
	for i, e := range entries {
		bindings[i] = e.filter.Bind(r)
		bindings[i].Apply(builder)
	}
	q := builder.Build()

	res, err := m.repo.Search(ctx, q)
	if err == nil && res == nil {
		err = ErrNoResult
	}
	if err != nil {
		slog.Warn("filter search failed", slog.String("error", err.Error()))
		return nil, &SearchExecutionError{Cause: err}
	}

	states := make(map[string]ViewState, len(entries))
	for i, e := range entries {
		states[e.name] = bindings[i].View(q, res)
	}

	slog.Debug("filters executed",
		slog.Int("filters", len(entries)),
		slog.Int("total_hits", res.TotalHits),
		slog.Int("returned", len(res.Documents)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return &Result{
		Documents: res.Documents,
		TotalHits: res.TotalHits,
		Filters:   states,
		Query:     q,
	}, nil
}

// Result is the outcome of one execution.
type Result struct {
	// Documents are the windowed, sorted hits.
	Documents []types.Document
	// TotalHits counts every hit before windowing.
	TotalHits int
	// Filters maps filter names to their view state.
	Filters map[string]ViewState
	// Query is the query that was executed.
	Query query.Query
}

// Filter returns the view state of the named filter.
func (r *Result) Filter(name string) (ViewState, error) {
	s, ok := r.Filters[name]
	if !ok {
		return nil, &UnknownFilterError{Name: name}
	}
	return s, nil
}

// DocumentIDs returns the IDs of the result documents in order.
func (r *Result) DocumentIDs() []string {
	ids := make([]string, len(r.Documents))
	for i, d := range r.Documents {
		ids[i] = d.ID
	}
	return ids
}

// StateOf returns the named filter's view state as T.
func StateOf[T ViewState](r *Result, name string) (T, error) {
	var zero T
	s, err := r.Filter(name)
	if err != nil {
		return zero, err
	}
	t, ok := s.(T)
	if !ok {
		return zero, fmt.Errorf("filter %q has %s state, not %T", name, s.Kind(), zero)
	}
	return t, nil
}
