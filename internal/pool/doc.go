// Package pool implements the named, insertion-ordered handle registries
// shared by the dispatcher and source executors: the MQTT client pool, the
// HTTP request client pool, and the HTTP-listener subscription-set pool.
// Every pool shares one invariant — looking up the empty poolId returns
// the first-inserted entry, the sensible default when only one is
// configured.
package pool
