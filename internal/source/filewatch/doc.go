// Package filewatch is the Watch/FileChanged source executor and the
// dispatcher's WatchPort implementation. It owns the process's one
// fsnotify.Watcher, starts and stops watches over arbitrary paths on
// demand (optionally recursive), classifies raw notifications into
// created/written/removed, and matches them against the catalog's
// FileChanged events.
//
package filewatch
