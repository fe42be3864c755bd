package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"eventflow/internal/timeparse"
)

func TestPeriodWrapAround(t *testing.T) {
	from, err := timeparse.Parse("22:00", time.Now())
	require.NoError(t, err)
	to, err := timeparse.Parse("03:00", time.Now())
	require.NoError(t, err)

	cfg := PeriodConfig{From: from, To: to}

	at2300 := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	require.True(t, cfg.IsWithinPeriod(at2300))

	at1700 := time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC)
	require.False(t, cfg.IsWithinPeriod(at1700))

	at0100 := time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
	require.True(t, cfg.IsWithinPeriod(at0100))
}

func TestPeriodNonWrapping(t *testing.T) {
	from, _ := timeparse.Parse("09:00", time.Now())
	to, _ := timeparse.Parse("17:00", time.Now())
	cfg := PeriodConfig{From: from, To: to}

	require.True(t, cfg.IsWithinPeriod(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)))
	require.False(t, cfg.IsWithinPeriod(time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)))
}
