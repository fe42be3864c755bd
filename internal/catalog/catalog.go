package catalog

import (
	"fmt"
	"strings"
	"sync"

	"eventflow/internal/event"
)

// Catalog is the insertion-ordered set of events loaded from
// configuration, keyed by unique name.
type Catalog struct {
	mu      sync.RWMutex
	order   []string
	byName  map[string]*event.ReferencingEvent
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{byName: make(map[string]*event.ReferencingEvent)}
}

// Add inserts e, or returns an error if its name is already present.
func (c *Catalog) Add(e *event.ReferencingEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.byName[e.Name]; exists {
		return fmt.Errorf("catalog: duplicate event name %q", e.Name)
	}
	c.byName[e.Name] = e
	c.order = append(c.order, e.Name)
	return nil
}

// Get returns the catalog event named name, or (nil, false) if absent.
func (c *Catalog) Get(name string) (*event.ReferencingEvent, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.byName[name]
	return e, ok
}

// HasName reports whether name is present in the catalog.
func (c *Catalog) HasName(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// EventIDOf returns the scheduling identity for the named event, which
// defaults to the name itself when no explicit eventId was configured.
func (c *Catalog) EventIDOf(name string) (string, bool) {
	e, ok := c.Get(name)
	if !ok {
		return "", false
	}
	return e.ResolvedEventID(), true
}

// Len reports the number of events in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Empty reports whether the catalog holds no events.
func (c *Catalog) Empty() bool { return c.Len() == 0 }

// Each calls fn for every event in insertion order. fn returning false
// stops iteration early (mirroring the "first match wins" contract source
// executors rely on).
func (c *Catalog) Each(fn func(e *event.ReferencingEvent) bool) {
	c.mu.RLock()
	snapshot := make([]string, len(c.order))
	copy(snapshot, c.order)
	c.mu.RUnlock()

	for _, name := range snapshot {
		e, ok := c.Get(name)
		if !ok {
			continue
		}
		if !fn(e) {
			return
		}
	}
}

// ResolveNext resolves e's outgoing transition: a literal next is looked up
// directly; a templated next produces a freshly synthesized Pass event
// named "generated_from_<e.Name>" carrying the same template, so the
// dispatcher renders it and re-resolves downstream.
func (c *Catalog) ResolveNext(e *event.ReferencingEvent) (*event.ReferencingEvent, bool) {
	if !e.Next.IsSet() {
		return nil, false
	}
	if e.Next.IsTemplate() {
		return &event.ReferencingEvent{
			Name: "generated_from_" + e.Name,
			Kind: event.KindPass,
			Next: &event.Next{Template: e.Next.Template},
		}, true
	}
	return c.Get(e.Next.Literal)
}

// MergeWithPrefix rewrites every event's name and every symbolic next
// reference with "<prefix>_<original>" before adding it to the catalog, in
// the order events lists them.
func (c *Catalog) MergeWithPrefix(events []*event.ReferencingEvent, prefix string) error {
	rewritten := make([]*event.ReferencingEvent, len(events))
	for i, e := range events {
		clone := *e
		clone.Name = prefixed(prefix, e.Name)
		if e.Next != nil {
			next := *e.Next
			if next.Literal != "" {
				next.Literal = prefixed(prefix, next.Literal)
			}
			clone.Next = &next
		}
		rewritten[i] = &clone
	}
	return c.Merge(rewritten)
}

// Merge adds every event in events to the catalog in order, so iteration
// over Each (and therefore every "first match wins" source executor) sees
// events in the same order they were declared in configuration.
func (c *Catalog) Merge(events []*event.ReferencingEvent) error {
	for _, e := range events {
		if err := c.Add(e); err != nil {
			return err
		}
	}
	return nil
}

func prefixed(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return strings.Join([]string{prefix, name}, "_")
}
