package event

import "eventflow/internal/timeparse"

// TimeConfig is the contract for the Time kind: fire once when the wrapped
// time result's execution period arrives.
type TimeConfig struct {
	When timeparse.Result
}

// RepeatConfig is the contract for the Repeat kind: identical to Time, but
// the scheduler re-enqueues a reset copy of the event after each fire so it
// schedules its next occurrence.
type RepeatConfig struct {
	When timeparse.Result
}
