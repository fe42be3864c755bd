// Package kvstore implements the scheduler's restart-safe persistence
// layer: a directory of JSON files keyed by eventId, adapted from the
// teacher's single-configuration-directory Storage in
// internal/config/storage.go. The narrow {Put, Get, Delete, List} trait
// matches the design note calling for a deliberately small interface plus
// a null implementation for the no-persistence-configured case.
package kvstore
