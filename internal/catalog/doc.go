// Package catalog holds the insertion-ordered set of named events loaded
// from configuration, and the lookups the dispatcher and source executors
// need against it: by-name retrieval, eventId resolution, next-event
// resolution (including synthesizing a Pass event for a templated next),
// and the prefix-rewriting merge used to load a group of events under a
// namespace.
package catalog
