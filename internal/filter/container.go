package filter

import (
	"errors"
	"fmt"
	"iter"
	"sync"
)

type entry struct {
	name   string
	filter Filter
}

// Container is an ordered registry of named filters. Registration order is
// the order in which filters contribute to a query.
type Container struct {
	mu      sync.RWMutex
	entries []entry
	byName  map[string]int
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{byName: make(map[string]int)}
}

// Set registers f under name. Replacing an existing name keeps its position.
// It fails with ErrFieldCollision when another name already reads f's request field.
func (c *Container) Set(name string, f Filter) error {
	if name == "" {
		return errors.New("filter name is required")
	}
	if f == nil {
		return fmt.Errorf("filter %q is nil", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		if e.name != name && e.filter.RequestField() == f.RequestField() {
			return fmt.Errorf("%w: %q is read by both %q and %q", ErrFieldCollision, f.RequestField(), e.name, name)
		}
	}

	if i, ok := c.byName[name]; ok {
		c.entries[i].filter = f
		return nil
	}
	c.byName[name] = len(c.entries)
	c.entries = append(c.entries, entry{name: name, filter: f})
	return nil
}

// Get returns the filter registered under name.
func (c *Container) Get(name string) (Filter, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.byName[name]
	if !ok {
		return nil, &UnknownFilterError{Name: name}
	}
	return c.entries[i].filter, nil
}

// All yields (name, filter) pairs in registration order over a snapshot.
func (c *Container) All() iter.Seq2[string, Filter] {
	entries := c.snapshot()
	return func(yield func(string, Filter) bool) {
		for _, e := range entries {
			if !yield(e.name, e.filter) {
				return
			}
		}
	}
}

// Names returns filter names in registration order.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.name
	}
	return names
}

// Len returns the number of registered filters.
func (c *Container) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Container) snapshot() []entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]entry(nil), c.entries...)
}
