package event

import (
	"eventflow/internal/payload"
)

// MergePolicy governs how an incoming payload is folded into an event that
// already carries its own payload.
type MergePolicy string

const (
	// MergeYes merges the incoming payload per the payload merge contract.
	MergeYes MergePolicy = "yes"
	// MergeNo discards the incoming payload, keeping the event's own.
	MergeNo MergePolicy = "no"
	// MergeOverwrite replaces the event's payload wholesale.
	MergeOverwrite MergePolicy = "overwrite"
)

// Next is the outgoing transition of an event: either a literal catalog
// name or a template string that renders to one. Exactly one of Literal or
// Template is set; the zero value means "no transition".
type Next struct {
	Literal  string
	Template string
}

// IsSet reports whether a transition was configured at all.
func (n *Next) IsSet() bool {
	return n != nil && (n.Literal != "" || n.Template != "")
}

// IsTemplate reports whether the transition must be rendered to resolve a
// name, as opposed to naming the target catalog event directly.
func (n *Next) IsTemplate() bool {
	return n != nil && n.Template != ""
}

// State holds the per-event counting key and static template overrides
// described in the event schema's `state` block.
type State struct {
	// CountKey, when non-empty, names a counter incremented in the
	// dispatcher's local state map on every fire of this event.
	CountKey string
	// Replace are static string overrides merged into the template
	// context's state map on every fire.
	Replace map[string]string
}

// Clone returns an independent copy of s, or nil if s is nil.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := &State{CountKey: s.CountKey}
	if s.Replace != nil {
		out.Replace = make(map[string]string, len(s.Replace))
		for k, v := range s.Replace {
			out.Replace[k] = v
		}
	}
	return out
}

// ReferencingEvent is the central catalog record. Equality and hashing are
// name-only by design — two events with the same Name are the same event
// regardless of every other field.
type ReferencingEvent struct {
	Name        string
	Kind        Kind
	Next        *Next
	Payload     payload.Payload
	Metadata    payload.Metadata
	State       *State
	MergePolicy MergePolicy

	// EventID is the scheduler dedup identity for Time/Repeat events. It
	// defaults to Name when unset; use ResolvedEventID to read it.
	EventID string

	// Config is the kind-specific contract for Kind, one of the types in
	// mqtt.go, http.go, file.go, exec.go, print.go, time.go, period.go,
	// scancode.go. Pass carries a nil Config.
	Config interface{}
}

// Equal reports whether e and other are the same catalog event. Only Name
// is compared, never kind or any other field.
func (e *ReferencingEvent) Equal(other *ReferencingEvent) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.Name == other.Name
}

// HashKey returns the value used to key e in name-indexed maps.
func (e *ReferencingEvent) HashKey() string { return e.Name }

// ResolvedEventID returns EventID, defaulting to Name when unset.
func (e *ReferencingEvent) ResolvedEventID() string {
	if e.EventID == "" {
		return e.Name
	}
	return e.EventID
}

// Clone returns a new event carrying an independent Payload/Metadata/State
// so the dispatcher can mutate it as it flows through the transition graph
// without touching the catalog's resident copy.
func (e *ReferencingEvent) Clone() *ReferencingEvent {
	clone := *e
	clone.Metadata = e.Metadata.Clone()
	clone.State = e.State.Clone()
	if e.Next != nil {
		next := *e.Next
		clone.Next = &next
	}
	return &clone
}
