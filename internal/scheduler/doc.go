// Package scheduler holds Time/Repeat events pending their execution
// instant. It receives scheduled events on a channel, tracks them in an
// eventId-keyed pending map with last-writer-wins supersession, evaluates
// readiness on a ≤100ms idle tick, enforces a 3-second per-eventId
// cooldown, persists every pending entry through internal/kvstore for
// restart safety, and re-enqueues the resolved next (and, for Repeat, a
// reset copy of itself) on the main dispatcher queue.
package scheduler
