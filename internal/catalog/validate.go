package catalog

import (
	"fmt"

	"eventflow/internal/event"
)

// Validate checks the catalog-level invariants that don't depend on the
// rest of the configuration document: every symbolic next resolves to a
// catalog event, no event's next equals its own name, and Watch/FileChanged
// events appear together or not at all. It collects every violation rather
// than failing on the first.
func (c *Catalog) Validate() []error {
	var errs []error
	hasWatch, hasFileChanged := false, false

	c.Each(func(e *event.ReferencingEvent) bool {
		if e.Kind == event.KindWatch {
			hasWatch = true
		}
		if e.Kind == event.KindFileChanged {
			hasFileChanged = true
		}

		if e.Next.IsSet() && !e.Next.IsTemplate() {
			if e.Next.Literal == e.Name {
				errs = append(errs, fmt.Errorf("catalog: event %q has next equal to its own name", e.Name))
			} else if !c.HasName(e.Next.Literal) {
				errs = append(errs, fmt.Errorf("catalog: event %q has unresolved next %q", e.Name, e.Next.Literal))
			}
		}
		return true
	})

	if hasWatch != hasFileChanged {
		errs = append(errs, fmt.Errorf("catalog: Watch and FileChanged events must appear together"))
	}

	return errs
}
