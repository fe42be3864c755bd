package filewatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"eventflow/internal/catalog"
	"eventflow/internal/event"
	"eventflow/pkg/logging"
)

const subsys = "FileWatch"

// Source owns the shared fsnotify.Watcher and turns its raw notifications
// into FileChanged matches.
type Source struct {
	catalog *catalog.Catalog
	mainQ   chan<- *event.ReferencingEvent
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	watched map[string][]string // root path -> every path actually added to the watcher (root + recursive subdirs)
}

// New constructs a Source with its own fsnotify.Watcher.
func New(cat *catalog.Catalog, mainQ chan<- *event.ReferencingEvent) (*Source, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("filewatch: new watcher: %w", err)
	}
	return &Source{
		catalog: cat,
		mainQ:   mainQ,
		watcher: watcher,
		watched: make(map[string][]string),
	}, nil
}

// Start implements dispatcher.WatchPort: adds path (and, if recursive,
// every subdirectory beneath it) to the watcher.
func (s *Source) Start(path string, recursive bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := []string{path}
	if recursive {
		err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && p != path {
				paths = append(paths, p)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("filewatch: walk %s: %w", path, err)
		}
	}

	for _, p := range paths {
		if err := s.watcher.Add(p); err != nil {
			return fmt.Errorf("filewatch: watch %s: %w", p, err)
		}
	}
	s.watched[path] = paths
	return nil
}

// Stop implements dispatcher.WatchPort: removes every path Start added
// under this root.
func (s *Source) Stop(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths, ok := s.watched[path]
	if !ok {
		return fmt.Errorf("filewatch: %s is not being watched", path)
	}
	delete(s.watched, path)

	var firstErr error
	for _, p := range paths {
		if err := s.watcher.Remove(p); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("filewatch: unwatch %s: %w", p, err)
		}
	}
	return firstErr
}

// Run drains the watcher's events and errors until ctx is cancelled.
func (s *Source) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.handle(ev)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logging.Error(subsys, err, "watcher error")
		}
	}
}

func (s *Source) handle(ev fsnotify.Event) {
	kind, ok := classify(ev.Op)
	if !ok {
		return
	}

	var matched *event.ReferencingEvent
	s.catalog.Each(func(e *event.ReferencingEvent) bool {
		cfg, ok := e.Config.(*event.FileChangedConfig)
		if !ok {
			return true
		}
		if cfg.Matches(ev.Name, kind) {
			matched = e
			return false
		}
		return true
	})
	if matched == nil {
		return
	}

	next, ok := s.catalog.ResolveNext(matched)
	if !ok {
		return
	}
	clone := next.Clone()
	clone.Payload = clone.Payload.Merge(matched.Payload)
	clone.Metadata = clone.Metadata.Merge(matched.Metadata)
	s.mainQ <- clone
}

// classify maps a raw fsnotify op to the three kinds FileChanged matches
// on. A write followed by a close (the common "finished writing" signal
// on most platforms) still surfaces to fsnotify as a plain Write event, so
// Write alone is treated as "written".
func classify(op fsnotify.Op) (event.WatchKind, bool) {
	switch {
	case op&fsnotify.Create == fsnotify.Create:
		return event.WatchCreated, true
	case op&fsnotify.Write == fsnotify.Write:
		return event.WatchWritten, true
	case op&fsnotify.Remove == fsnotify.Remove:
		return event.WatchRemoved, true
	case op&fsnotify.Rename == fsnotify.Rename:
		return event.WatchRemoved, true
	default:
		return "", false
	}
}
