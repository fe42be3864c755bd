package event

import (
	"time"

	"eventflow/internal/timeparse"
)

// PeriodConfig carries the {from, to} time results of the Period kind.
type PeriodConfig struct {
	From timeparse.Result
	To   timeparse.Result
}

// IsWithinPeriod reports whether now falls inside [From, To). When both
// endpoints are bare time-of-day values and From's clock is after To's,
// the period wraps past midnight: now matches when now ≥ From or now < To.
func (p PeriodConfig) IsWithinPeriod(now time.Time) bool {
	fromTOD, fromIsTOD := p.From.(timeparse.TimeOfDay)
	toTOD, toIsTOD := p.To.(timeparse.TimeOfDay)

	if fromIsTOD && toIsTOD && fromTOD.ClockSeconds() > toTOD.ClockSeconds() {
		nowSeconds := now.Hour()*3600 + now.Minute()*60 + now.Second()
		return nowSeconds >= fromTOD.ClockSeconds() || nowSeconds < toTOD.ClockSeconds()
	}

	// from <= now < to
	return p.From.CompareToNow(now) <= 0 && p.To.CompareToNow(now) > 0
}
