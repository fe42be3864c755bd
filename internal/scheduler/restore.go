package scheduler

import (
	"encoding/json"
	"fmt"

	"eventflow/internal/catalog"
	"eventflow/internal/event"
	"eventflow/internal/kvstore"
	"eventflow/internal/payload"
)

type persistedEvent struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Restore seeds the scheduler's pending set and primes the main queue for
// every name in startWith: if a persisted entry survives under its
// eventId, it is restored into pending; otherwise the catalog event is
// enqueued fresh.
func Restore(cat *catalog.Catalog, store kvstore.Store, s *Scheduler, mainQ chan<- *event.ReferencingEvent, startWith []string) error {
	for _, name := range startWith {
		e, ok := cat.Get(name)
		if !ok {
			return fmt.Errorf("scheduler: start_with event %q not in catalog", name)
		}

		id := e.ResolvedEventID()
		data, found, err := store.Get(id)
		if err != nil {
			return fmt.Errorf("scheduler: read persisted entry %q: %w", id, err)
		}
		if !found {
			mainQ <- e.Clone()
			continue
		}

		var pe persistedEvent
		if err := json.Unmarshal(data, &pe); err != nil {
			return fmt.Errorf("scheduler: parse persisted entry %q: %w", id, err)
		}

		restored := e.Clone()
		if len(pe.Payload) > 0 {
			var v interface{}
			if err := json.Unmarshal(pe.Payload, &v); err != nil {
				return fmt.Errorf("scheduler: parse persisted payload %q: %w", id, err)
			}
			restored.Payload = payload.FromStructured(v)
		}
		s.Seed(restored)
	}
	return nil
}
