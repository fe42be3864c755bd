package timeparse

import "time"

// Shape distinguishes the three result variants so comparisons and Period's
// wrap-around rule can tell them apart.
type Shape int

const (
	ShapeDateTime Shape = iota
	ShapeDate
	ShapeTimeOfDay
)

// Result is a parsed time phrase: an absolute DateTime, a bare Date, or a
// bare TimeOfDay. It retains the phrase it was parsed from so Reset can
// re-parse it against a fresh "now" to slide it to its next occurrence.
type Result interface {
	// Shape reports which variant this result is.
	Shape() Shape
	// Source returns the original phrase this result was parsed from.
	Source() string
	// CompareToNow compares this result against now at the coarsest
	// common representation: Time-of-day compares clock-of-now, Date
	// compares date-of-now, DateTime compares directly. Returns -1 if
	// this is before now, 0 if equal, 1 if after.
	CompareToNow(now time.Time) int
	// WithinExecutionPeriod reports |now - this| < 1s.
	WithinExecutionPeriod(now time.Time) bool
	// Expired reports whether this result is more than 1s in now's past.
	// A TimeOfDay result never expires.
	Expired(now time.Time) bool
	// Reset re-parses Source() against now, producing the next
	// occurrence of the same phrase.
	Reset(now time.Time) (Result, error)
}

// DateTime is an absolute instant.
type DateTime struct {
	source string
	at     time.Time
}

func (d DateTime) Shape() Shape       { return ShapeDateTime }
func (d DateTime) Source() string     { return d.source }
func (d DateTime) Instant() time.Time { return d.at }

func (d DateTime) CompareToNow(now time.Time) int {
	return compareInstant(d.at, now)
}

func (d DateTime) WithinExecutionPeriod(now time.Time) bool {
	return withinOneSecond(d.at, now)
}

func (d DateTime) Expired(now time.Time) bool {
	return now.Sub(d.at) > time.Second
}

func (d DateTime) Reset(now time.Time) (Result, error) {
	return Parse(d.source, now)
}

// Date is a calendar day with no time-of-day component.
type Date struct {
	source string
	day    time.Time // normalized to midnight, in now's location at parse time
}

func (d Date) Shape() Shape   { return ShapeDate }
func (d Date) Source() string { return d.source }
func (d Date) Day() time.Time { return d.day }

func (d Date) CompareToNow(now time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return compareInstant(d.day, today)
}

func (d Date) WithinExecutionPeriod(now time.Time) bool {
	return withinOneSecond(d.day, now)
}

func (d Date) Expired(now time.Time) bool {
	return now.Sub(d.day) > time.Second
}

func (d Date) Reset(now time.Time) (Result, error) {
	return Parse(d.source, now)
}

// TimeOfDay is a bare clock time with no date. It never expires.
type TimeOfDay struct {
	source string
	hour   int
	minute int
	second int
}

func (t TimeOfDay) Shape() Shape   { return ShapeTimeOfDay }
func (t TimeOfDay) Source() string { return t.source }

// OnDay returns the instant t represents on the calendar day of now.
func (t TimeOfDay) OnDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), t.hour, t.minute, t.second, 0, now.Location())
}

// ClockSeconds returns the time-of-day expressed as seconds since midnight,
// used by Period to detect a from>to wrap-around without touching a clock.
func (t TimeOfDay) ClockSeconds() int {
	return t.hour*3600 + t.minute*60 + t.second
}

func (t TimeOfDay) CompareToNow(now time.Time) int {
	nowSeconds := now.Hour()*3600 + now.Minute()*60 + now.Second()
	switch {
	case t.ClockSeconds() < nowSeconds:
		return -1
	case t.ClockSeconds() > nowSeconds:
		return 1
	default:
		return 0
	}
}

func (t TimeOfDay) WithinExecutionPeriod(now time.Time) bool {
	return withinOneSecond(t.OnDay(now), now)
}

// Expired always reports false: a Time-only result never expires, since it
// is re-parsed fresh through Reset on every fire.
func (t TimeOfDay) Expired(now time.Time) bool { return false }

func (t TimeOfDay) Reset(now time.Time) (Result, error) {
	return Parse(t.source, now)
}

func compareInstant(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

func withinOneSecond(a, now time.Time) bool {
	d := now.Sub(a)
	if d < 0 {
		d = -d
	}
	return d < time.Second
}
