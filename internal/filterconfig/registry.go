package filterconfig

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/usestring/filterkit/internal/filter"
	"github.com/usestring/filterkit/pkg/query"
)

// Defaults fills pager settings a FilterSpec leaves out.
type Defaults struct {
	CountPerPage int
	RangeSize    int
}

// KindBuilder constructs a filter from its spec.
type KindBuilder func(spec FilterSpec, d Defaults) (filter.Filter, error)

var (
	kindsMu sync.RWMutex
	kinds   = map[filter.Kind]KindBuilder{
		filter.KindPager:  buildPager,
		filter.KindSort:   buildSort,
		filter.KindChoice: buildChoice,
		filter.KindMatch:  buildMatch,
		filter.KindRange:  buildRange,
	}
)

// RegisterKind adds a filter kind usable from configuration files.
// Registering an existing kind fails.
func RegisterKind(kind filter.Kind, build KindBuilder) error {
	if kind == "" || build == nil {
		return errors.New("kind and builder are required")
	}

	kindsMu.Lock()
	defer kindsMu.Unlock()

	if _, exists := kinds[kind]; exists {
		return fmt.Errorf("filter kind %q already registered", kind)
	}
	kinds[kind] = build
	return nil
}

// Kinds returns the registered kinds in sorted order.
func Kinds() []filter.Kind {
	kindsMu.RLock()
	defer kindsMu.RUnlock()

	out := make([]filter.Kind, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func lookupKind(kind filter.Kind) (KindBuilder, bool) {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	b, ok := kinds[kind]
	return b, ok
}

func buildPager(spec FilterSpec, d Defaults) (filter.Filter, error) {
	count := spec.CountPerPage
	if count == 0 {
		count = d.CountPerPage
	}
	rangeSize := spec.RangeSize
	if rangeSize == 0 {
		rangeSize = d.RangeSize
	}
	return filter.NewPager(spec.RequestField,
		filter.WithCountPerPage(count),
		filter.WithMaxPages(spec.MaxPages),
		filter.WithRangeSize(rangeSize),
	), nil
}

func buildSort(spec FilterSpec, _ Defaults) (filter.Filter, error) {
	choices := make([]filter.Choice, 0, len(spec.Choices))
	for i, c := range spec.Choices {
		mode, err := query.ParseMode(c.Mode)
		if err != nil {
			return nil, fmt.Errorf("choice %d: %w", i, err)
		}
		choices = append(choices, filter.Choice{
			Key:     c.Key,
			Label:   c.Label,
			Field:   c.Field,
			Order:   query.ParseOrder(c.Order),
			Default: c.Default,
			Mode:    mode,
		})
	}
	return filter.NewSort(spec.RequestField, choices...)
}

func buildChoice(spec FilterSpec, _ Defaults) (filter.Filter, error) {
	if spec.Field == "" {
		return nil, errors.New("choice filter needs a field")
	}
	return filter.NewChoice(spec.RequestField, spec.Field), nil
}

func buildMatch(spec FilterSpec, _ Defaults) (filter.Filter, error) {
	if len(spec.Fields) == 0 {
		return nil, errors.New("match filter needs at least one field")
	}
	return filter.NewMatch(spec.RequestField, spec.Fields...), nil
}

func buildRange(spec FilterSpec, _ Defaults) (filter.Filter, error) {
	if spec.Field == "" {
		return nil, errors.New("range filter needs a field")
	}
	return filter.NewRange(spec.RequestField, spec.Field), nil
}
