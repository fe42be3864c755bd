package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	r, err := Parse("14:30", time.Now())
	require.NoError(t, err)
	tod, ok := r.(TimeOfDay)
	require.True(t, ok)
	require.Equal(t, 14*3600+30*60, tod.ClockSeconds())
	require.False(t, tod.Expired(time.Now().AddDate(1, 0, 0)))
}

func TestParseNow(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	r, err := Parse("now", now)
	require.NoError(t, err)
	require.Equal(t, ShapeDateTime, r.Shape())
	require.True(t, r.WithinExecutionPeriod(now))
}

func TestParseTomorrowWithTime(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	r, err := Parse("tomorrow 12:00", now)
	require.NoError(t, err)
	dt, ok := r.(DateTime)
	require.True(t, ok)
	require.Equal(t, 2, dt.Instant().Day())
	require.Equal(t, 12, dt.Instant().Hour())
}

func TestResetSlidesForward(t *testing.T) {
	day1 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	r, err := Parse("tomorrow 12:00", day1)
	require.NoError(t, err)

	day2 := time.Date(2024, 6, 2, 13, 0, 0, 0, time.UTC)
	reset, err := r.Reset(day2)
	require.NoError(t, err)
	dt := reset.(DateTime)
	require.Equal(t, 3, dt.Instant().Day())
}

func TestParseInPhrase(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	r, err := Parse("in 10s", now)
	require.NoError(t, err)
	dt := r.(DateTime)
	require.Equal(t, now.Add(10*time.Second), dt.Instant())
}

func TestParseAgoPhrase(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	r, err := Parse("a second ago", now)
	require.NoError(t, err)
	dt := r.(DateTime)
	require.Equal(t, now.Add(-time.Second), dt.Instant())
}

func TestParseWeekday(t *testing.T) {
	// 2024-06-01 is a Saturday.
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	r, err := Parse("monday", now)
	require.NoError(t, err)
	d := r.(Date)
	require.Equal(t, time.Monday, d.Day().Weekday())
}

func TestParseSunrise(t *testing.T) {
	SetLocation(51.5, -0.12)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	r, err := Parse("sunrise", now)
	require.NoError(t, err)
	require.Equal(t, ShapeDateTime, r.Shape())
}

func TestParseSunsetWithOffset(t *testing.T) {
	SetLocation(51.5, -0.12)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	plain, err := Parse("sunset", now)
	require.NoError(t, err)
	withOffset, err := Parse("sunset+30m", now)
	require.NoError(t, err)

	diff := withOffset.(DateTime).Instant().Sub(plain.(DateTime).Instant())
	require.Equal(t, 30*time.Minute, diff)
}

func TestParseUnrecognized(t *testing.T) {
	_, err := Parse("not a time", time.Now())
	require.Error(t, err)
}
