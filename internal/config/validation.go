package config

import (
	"fmt"
	"strings"

	"eventflow/internal/catalog"
	"eventflow/internal/event"
)

// ValidationError carries one configuration-kind violation.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every violation found in one pass, rather than
// failing on the first, so the operator sees every configuration problem
// at once instead of fixing them one at a time.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	parts := make([]string, len(e))
	for i, v := range e {
		parts[i] = v.Error()
	}
	return fmt.Sprintf("%d configuration errors:\n  %s", len(e), strings.Join(parts, "\n  "))
}

// HasErrors reports whether any violation was recorded.
func (e ValidationErrors) HasErrors() bool { return len(e) > 0 }

// Validate checks doc and cat against every cross-structure invariant that
// Catalog.Validate itself cannot see (start_with membership, the
// ApiListen/http-pool pairing), in addition to running Catalog.Validate.
func Validate(doc *Document, cat *catalog.Catalog) ValidationErrors {
	var errs ValidationErrors

	for _, err := range cat.Validate() {
		errs = append(errs, ValidationError{Field: "events", Message: err.Error()})
	}

	for _, name := range doc.StartWith {
		if !cat.HasName(name) {
			errs = append(errs, ValidationError{
				Field:   "start_with",
				Message: fmt.Sprintf("event %q is not in the catalog", name),
			})
		}
	}

	hasApiListen := false
	cat.Each(func(e *event.ReferencingEvent) bool {
		if e.Kind == event.KindApiListen {
			hasApiListen = true
			return false
		}
		return true
	})
	if hasApiListen && doc.HTTP.Len() == 0 {
		errs = append(errs, ValidationError{
			Field:   "http",
			Message: "at least one http listener endpoint must be configured when an api_listen event exists",
		})
	}

	return errs
}
