package scheduler

import (
	"context"
	"encoding/json"
	"time"

	"eventflow/internal/catalog"
	"eventflow/internal/event"
	"eventflow/internal/kvstore"
	"eventflow/internal/payload"
	"eventflow/pkg/logging"
)

const (
	cooldown = 3 * time.Second
	idleTick = 100 * time.Millisecond
	subsys   = "Scheduler"
)

// Scheduler holds Time/Repeat events pending their fire instant.
type Scheduler struct {
	catalog *catalog.Catalog
	store   kvstore.Store
	input   <-chan *event.ReferencingEvent
	mainQ   chan<- *event.ReferencingEvent

	pending  map[string]*event.ReferencingEvent
	cooldown map[string]time.Time
}

// New constructs a scheduler. input receives events diverted from the main
// dispatcher (step 5 of the dispatch loop); mainQ is the main queue that
// resolved nexts (and reset Repeat copies) are sent back onto.
func New(cat *catalog.Catalog, store kvstore.Store, input <-chan *event.ReferencingEvent, mainQ chan<- *event.ReferencingEvent) *Scheduler {
	return &Scheduler{
		catalog:  cat,
		store:    store,
		input:    input,
		mainQ:    mainQ,
		pending:  make(map[string]*event.ReferencingEvent),
		cooldown: make(map[string]time.Time),
	}
}

// Seed inserts e into pending without persisting it again — used at
// startup to restore an entry already found in the kv store.
func (s *Scheduler) Seed(e *event.ReferencingEvent) {
	s.pending[e.ResolvedEventID()] = e
}

// Run drains input and ticks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(idleTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-s.input:
			if !ok {
				return
			}
			s.insert(e)
		case <-ticker.C:
			s.tick(time.Now())
		}
	}
}

// insert adds e to pending, replacing any entry already pending under the
// same eventId (last-writer-wins supersession), and persists it.
func (s *Scheduler) insert(e *event.ReferencingEvent) {
	id := e.ResolvedEventID()
	s.pending[id] = e

	data, err := MarshalEvent(e)
	if err != nil {
		logging.Error(subsys, err, "marshal event %q for persistence", e.Name)
		return
	}
	if err := s.store.Put(id, data); err != nil {
		logging.Error(subsys, err, "persist event %q", e.Name)
	}
}

// tick drains non-blockingly already happened via the select in Run; this
// evaluates readiness and fires every ready entry.
func (s *Scheduler) tick(now time.Time) {
	for id, firedAt := range s.cooldown {
		if now.Sub(firedAt) > cooldown {
			delete(s.cooldown, id)
		}
	}

	var ready []string
	for id, e := range s.pending {
		if _, onCooldown := s.cooldown[id]; onCooldown {
			continue
		}
		result := timeResultOf(e)
		if result != nil && result.WithinExecutionPeriod(now) {
			ready = append(ready, id)
		}
	}

	if len(ready) == 0 {
		s.pruneExpired(now)
		return
	}

	for _, id := range ready {
		s.fire(id, now)
	}
}

func (s *Scheduler) fire(id string, now time.Time) {
	e := s.pending[id]
	delete(s.pending, id)
	if err := s.store.Delete(id); err != nil {
		logging.Error(subsys, err, "delete persisted event %q", id)
	}
	s.cooldown[id] = now

	if next, ok := s.catalog.ResolveNext(e); ok {
		clone := next.Clone()
		clone.Payload = clone.Payload.Merge(e.Payload)
		clone.Metadata = clone.Metadata.Merge(e.Metadata)
		s.send(clone)
	}

	if e.Kind == event.KindRepeat {
		reset, err := resetTimeResult(e, now)
		if err != nil {
			logging.Error(subsys, err, "reset repeat event %q", e.Name)
			return
		}
		s.send(reset)
	}
}

func (s *Scheduler) pruneExpired(now time.Time) {
	for id, e := range s.pending {
		result := timeResultOf(e)
		if result != nil && result.Expired(now) {
			delete(s.pending, id)
			delete(s.cooldown, id)
			if err := s.store.Delete(id); err != nil {
				logging.Error(subsys, err, "delete expired event %q", id)
			}
		}
	}
}

func (s *Scheduler) send(e *event.ReferencingEvent) {
	s.mainQ <- e
}

func timeResultOf(e *event.ReferencingEvent) interface {
	WithinExecutionPeriod(time.Time) bool
	Expired(time.Time) bool
} {
	switch cfg := e.Config.(type) {
	case *event.TimeConfig:
		return cfg.When
	case *event.RepeatConfig:
		return cfg.When
	default:
		return nil
	}
}

func resetTimeResult(e *event.ReferencingEvent, now time.Time) (*event.ReferencingEvent, error) {
	cfg, ok := e.Config.(*event.RepeatConfig)
	if !ok {
		return nil, nil
	}
	reset, err := cfg.When.Reset(now)
	if err != nil {
		return nil, err
	}
	clone := e.Clone()
	clone.Config = &event.RepeatConfig{When: reset}
	return clone, nil
}

// MarshalEvent serializes just enough of e to survive a restart: its name
// (the catalog supplies everything else on reload) and its structured
// payload, if any.
func MarshalEvent(e *event.ReferencingEvent) ([]byte, error) {
	var payloadJSON json.RawMessage
	if e.Payload.Kind() == payload.KindStructured {
		raw, err := e.Payload.AsBytes()
		if err != nil {
			return nil, err
		}
		payloadJSON = raw
	}
	return json.Marshal(persistedEvent{Name: e.Name, Payload: payloadJSON})
}
