package state

import (
	"context"
	"strings"
	"sync"
)

// Filter is the client-side criteria a list view applies to its source
// collection. Matching never involves a server round-trip.
type Filter struct {
	Query    string // case-insensitive substring over the resource's text fields
	Category string // exact match, "" disables the category clause
}

// ListOpts configures a [ListController] for one resource.
type ListOpts[T any] struct {
	// Fetch retrieves the authoritative collection.
	Fetch func(ctx context.Context) ([]T, error)
	// Remove deletes one record server-side. Nil for read-only resources.
	Remove func(ctx context.Context, id string) error
	// ID extracts a record's identity.
	ID func(T) string
	// Fields extracts the text fields the query matches against.
	Fields func(T) []string
	// Category extracts the record's category, "" when the resource has none.
	Category func(T) string
	// Confirm gates deletes. Nil means no gate (non-interactive callers).
	Confirm func(record T) bool
}

// ListController owns the source collection for one resource and derives
// the visible subset from it. The source is replaced wholesale on each
// successful fetch and is never mutated by anyone else; forms trigger a
// Reload instead of writing into it.
type ListController[T any] struct {
	mu   sync.Mutex
	opts ListOpts[T]

	source  []T
	visible []T
	filter  Filter

	// fetch sequencing: issued counts Reload calls, applied records the
	// newest fetch whose result made it into source. A slower, older fetch
	// resolving after a newer one is discarded instead of overwriting it.
	issued  uint64
	applied uint64

	inflight map[string]bool
}

// NewListController creates a controller with an empty source collection.
func NewListController[T any](opts ListOpts[T]) *ListController[T] {
	return &ListController[T]{
		opts:     opts,
		inflight: make(map[string]bool),
	}
}

// Reload fetches the source collection. On failure the previous source
// (including the initial empty one) stays untouched so the view never
// flashes empty on a transient error.
func (c *ListController[T]) Reload(ctx context.Context) error {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.mu.Unlock()

	records, err := c.opts.Fetch(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.applied {
		// A newer fetch already landed; this response is stale.
		return nil
	}
	c.applied = seq
	c.source = records
	c.recompute()
	return nil
}

// SetFilter replaces the filter criteria and re-derives the visible subset.
func (c *ListController[T]) SetFilter(f Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
	c.recompute()
}

// Filter returns the current criteria.
func (c *ListController[T]) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Source returns the last successfully fetched collection.
func (c *ListController[T]) Source() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

// Visible returns the derived subset: source order, filtered by the current
// criteria.
func (c *ListController[T]) Visible() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// Get returns the record with the given id from the source collection.
func (c *ListController[T]) Get(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, record := range c.source {
		if c.opts.ID(record) == id {
			return record, true
		}
	}
	var zero T
	return zero, false
}

// Delete removes a record: confirm gate, server call, then optimistic local
// removal. There is no rollback on failure beyond surfacing the error; the
// next Reload restores whatever the backend says. Returns (false, nil) when
// the admin declined the confirmation.
func (c *ListController[T]) Delete(ctx context.Context, id string) (bool, error) {
	if c.opts.Confirm != nil {
		record, ok := c.Get(id)
		if !ok {
			// Unknown id: nothing to confirm, nothing to do.
			return false, nil
		}
		if !c.opts.Confirm(record) {
			return false, nil
		}
	}

	c.setInflight(id, true)
	defer c.setInflight(id, false)

	if err := c.opts.Remove(ctx, id); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.source[:0:0]
	for _, record := range c.source {
		if c.opts.ID(record) != id {
			kept = append(kept, record)
		}
	}
	c.source = kept
	c.recompute()
	return true, nil
}

// InFlight reports whether an operation for the given record id is pending,
// so a UI can scope its spinner to that record instead of locking the list.
func (c *ListController[T]) InFlight(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight[id]
}

func (c *ListController[T]) setInflight(id string, v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v {
		c.inflight[id] = true
	} else {
		delete(c.inflight, id)
	}
}

// recompute derives visible from source and filter. Pure with respect to its
// inputs and order-preserving. Must be called with the lock held.
func (c *ListController[T]) recompute() {
	query := strings.ToLower(strings.TrimSpace(c.filter.Query))

	visible := make([]T, 0, len(c.source))
	for _, record := range c.source {
		if query != "" && !matches(c.opts.Fields(record), query) {
			continue
		}
		if c.filter.Category != "" && c.opts.Category != nil && c.opts.Category(record) != c.filter.Category {
			continue
		}
		visible = append(visible, record)
	}
	c.visible = visible
}

func matches(fields []string, query string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}
