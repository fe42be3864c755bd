package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"eventflow/internal/catalog"
	"eventflow/internal/event"
	"eventflow/internal/kvstore"
	"eventflow/internal/timeparse"
)

func TestTimerFiresWithinExecutionPeriod(t *testing.T) {
	cat := catalog.New()
	require.NoError(t, cat.Add(&event.ReferencingEvent{Name: "done"}))

	input := make(chan *event.ReferencingEvent, 1)
	mainQ := make(chan *event.ReferencingEvent, 4)

	s := New(cat, kvstore.NullStore{}, input, mainQ)

	now := time.Now()
	when, err := timeparse.Parse("now", now)
	require.NoError(t, err)

	timer := &event.ReferencingEvent{
		Name:   "start",
		Kind:   event.KindTime,
		Next:   &event.Next{Literal: "done"},
		Config: &event.TimeConfig{When: when},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	input <- timer

	select {
	case fired := <-mainQ:
		require.Equal(t, "done", fired.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
}

func TestRepeatReschedulesItself(t *testing.T) {
	cat := catalog.New()
	require.NoError(t, cat.Add(&event.ReferencingEvent{Name: "done"}))

	input := make(chan *event.ReferencingEvent, 1)
	mainQ := make(chan *event.ReferencingEvent, 4)
	s := New(cat, kvstore.NullStore{}, input, mainQ)

	now := time.Now()
	when, err := timeparse.Parse("now", now)
	require.NoError(t, err)

	repeat := &event.ReferencingEvent{
		Name:   "tick",
		Kind:   event.KindRepeat,
		EventID: "tick-id",
		Next:   &event.Next{Literal: "done"},
		Config: &event.RepeatConfig{When: when},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	input <- repeat

	seenDone, seenRepeat := false, false
	for i := 0; i < 2; i++ {
		select {
		case fired := <-mainQ:
			if fired.Name == "done" {
				seenDone = true
			}
			if fired.Name == "tick" {
				seenRepeat = true
			}
		case <-time.After(2 * time.Second):
			t.Fatal("expected both done and rescheduled tick")
		}
	}
	require.True(t, seenDone)
	require.True(t, seenRepeat)
}

func TestLastWriterWinsSupersession(t *testing.T) {
	cat := catalog.New()
	input := make(chan *event.ReferencingEvent, 2)
	mainQ := make(chan *event.ReferencingEvent, 4)
	s := New(cat, kvstore.NullStore{}, input, mainQ)

	future, err := timeparse.Parse("in 1h", time.Now())
	require.NoError(t, err)
	s.insert(&event.ReferencingEvent{Name: "a", EventID: "shared", Config: &event.TimeConfig{When: future}})
	require.Len(t, s.pending, 1)

	future2, err := timeparse.Parse("in 2h", time.Now())
	require.NoError(t, err)
	s.insert(&event.ReferencingEvent{Name: "b", EventID: "shared", Config: &event.TimeConfig{When: future2}})

	require.Len(t, s.pending, 1)
	require.Equal(t, "b", s.pending["shared"].Name)
}
