// Package app bootstraps an eventflow process from a configuration document
// path and runs it to completion.
//
// Bootstrap is two-phase: NewApplication loads and validates the
// configuration document, builds the catalog and every pool/port a source
// executor needs, and wires the dispatcher and scheduler; Run then starts
// every executor as a goroutine and blocks until the context is cancelled,
// draining in-flight work before returning.
package app
