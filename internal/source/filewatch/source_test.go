package filewatch

import (
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"

	"eventflow/internal/catalog"
	"eventflow/internal/event"
)

func TestClassifyMapsOpsToKinds(t *testing.T) {
	cases := []struct {
		op   fsnotify.Op
		kind event.WatchKind
		ok   bool
	}{
		{fsnotify.Create, event.WatchCreated, true},
		{fsnotify.Write, event.WatchWritten, true},
		{fsnotify.Remove, event.WatchRemoved, true},
		{fsnotify.Rename, event.WatchRemoved, true},
		{fsnotify.Chmod, "", false},
	}
	for _, c := range cases {
		kind, ok := classify(c.op)
		require.Equal(t, c.ok, ok)
		require.Equal(t, c.kind, kind)
	}
}

func TestHandleMatchesAndEnqueuesNext(t *testing.T) {
	cat := catalog.New()
	require.NoError(t, cat.Add(&event.ReferencingEvent{
		Name:   "config_changed",
		Kind:   event.KindFileChanged,
		Next:   &event.Next{Literal: "reload"},
		Config: &event.FileChangedConfig{Path: "/etc/app/config.yaml", Kind: event.WatchWritten},
	}))
	require.NoError(t, cat.Add(&event.ReferencingEvent{Name: "reload", Kind: event.KindPass}))

	mainQ := make(chan *event.ReferencingEvent, 1)
	s := &Source{catalog: cat, mainQ: mainQ}

	s.handle(fsnotify.Event{Name: "/etc/app/config.yaml", Op: fsnotify.Write})

	select {
	case fired := <-mainQ:
		require.Equal(t, "reload", fired.Name)
	default:
		t.Fatal("expected matched event to be enqueued")
	}
}

func TestHandleNoMatchDropsNotification(t *testing.T) {
	cat := catalog.New()
	require.NoError(t, cat.Add(&event.ReferencingEvent{
		Name:   "config_changed",
		Kind:   event.KindFileChanged,
		Next:   &event.Next{Literal: "reload"},
		Config: &event.FileChangedConfig{Path: "/etc/app/config.yaml", Kind: event.WatchWritten},
	}))

	mainQ := make(chan *event.ReferencingEvent, 1)
	s := &Source{catalog: cat, mainQ: mainQ}

	s.handle(fsnotify.Event{Name: "/etc/app/other.yaml", Op: fsnotify.Write})

	select {
	case <-mainQ:
		t.Fatal("non-matching path should not enqueue anything")
	default:
	}
}

func TestStartStopTracksWatchedPaths(t *testing.T) {
	dir := t.TempDir()

	s, err := New(catalog.New(), make(chan *event.ReferencingEvent, 1))
	require.NoError(t, err)

	require.NoError(t, s.Start(dir, false))
	require.Contains(t, s.watched, dir)

	require.NoError(t, s.Stop(dir))
	require.NotContains(t, s.watched, dir)

	require.Error(t, s.Stop(dir))
}
