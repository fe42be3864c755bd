package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"eventflow/internal/catalog"
	"eventflow/internal/event"
)

// LoadDocument reads and parses the configuration document at path.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &doc, nil
}

// BuildCatalog assembles the event catalog described by doc: the inline
// `events` map, every `event_files` entry merged as-is, and every `groups`
// entry merged with its prefix rewriting every name and symbolic next.
// baseDir resolves relative file paths against the directory containing
// the top-level document.
func BuildCatalog(doc *Document, baseDir string) (*catalog.Catalog, error) {
	cat := catalog.New()
	now := time.Now()

	inline, err := buildEvents(doc.Events, now)
	if err != nil {
		return nil, err
	}
	if err := cat.Merge(inline); err != nil {
		return nil, fmt.Errorf("config: inline events: %w", err)
	}

	for _, rel := range doc.EventFiles {
		events, err := loadEventFile(filepath.Join(baseDir, rel), now)
		if err != nil {
			return nil, fmt.Errorf("config: event_files %s: %w", rel, err)
		}
		if err := cat.Merge(events); err != nil {
			return nil, fmt.Errorf("config: event_files %s: %w", rel, err)
		}
	}

	var groupErr error
	doc.Groups.Each(func(prefix, rel string) {
		if groupErr != nil {
			return
		}
		events, err := loadEventFile(filepath.Join(baseDir, rel), now)
		if err != nil {
			groupErr = fmt.Errorf("config: groups[%s] %s: %w", prefix, rel, err)
			return
		}
		if err := cat.MergeWithPrefix(events, prefix); err != nil {
			groupErr = fmt.Errorf("config: groups[%s] %s: %w", prefix, rel, err)
		}
	})
	if groupErr != nil {
		return nil, groupErr
	}

	return cat, nil
}

func loadEventFile(path string, now time.Time) ([]*event.ReferencingEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var file EventFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return buildEvents(file.Events, now)
}

// buildEvents builds one ReferencingEvent per spec, in the declaration
// order specs.Each walks them, so callers that feed the result straight
// into Catalog.Merge preserve "first configured wins" ordering end to end.
func buildEvents(specs OrderedMap[EventSpec], now time.Time) ([]*event.ReferencingEvent, error) {
	events := make([]*event.ReferencingEvent, 0, specs.Len())
	var buildErr error
	specs.Each(func(key string, spec EventSpec) {
		if buildErr != nil {
			return
		}
		name := spec.Name
		if name == "" {
			name = key
		}
		e, err := spec.Build(name, now)
		if err != nil {
			buildErr = err
			return
		}
		events = append(events, e)
	})
	if buildErr != nil {
		return nil, buildErr
	}
	return events, nil
}
