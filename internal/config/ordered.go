package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// orderedEntry is one key/value pair of an OrderedMap, in the order it was
// declared in the source document.
type orderedEntry[V any] struct {
	Key   string
	Value V
}

// OrderedMap decodes a YAML mapping while preserving declaration order —
// every pool and the event catalog itself depend on "first configured
// wins"/"first match wins" semantics, which a plain Go map cannot provide
// since map iteration order is randomized.
type OrderedMap[V any] struct {
	entries []orderedEntry[V]
}

// UnmarshalYAML decodes node, which must be a mapping, preserving the
// order its keys appear in the source document.
func (m *OrderedMap[V]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == 0 {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("config: expected a mapping, got %v", node.Kind)
	}
	m.entries = make([]orderedEntry[V], 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		var v V
		if err := valNode.Decode(&v); err != nil {
			return fmt.Errorf("config: decode %q: %w", keyNode.Value, err)
		}
		m.entries = append(m.entries, orderedEntry[V]{Key: keyNode.Value, Value: v})
	}
	return nil
}

// Len reports the number of entries.
func (m OrderedMap[V]) Len() int { return len(m.entries) }

// Each calls fn for every entry in declaration order.
func (m OrderedMap[V]) Each(fn func(key string, value V)) {
	for _, e := range m.entries {
		fn(e.Key, e.Value)
	}
}

// Keys returns every key in declaration order.
func (m OrderedMap[V]) Keys() []string {
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}
	return keys
}
