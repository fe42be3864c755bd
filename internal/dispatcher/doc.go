// Package dispatcher implements the single-threaded consumer of the main
// event queue: for each arriving event it builds the template context,
// computes the outgoing transition, executes the event's action, diverts
// Time/Repeat to the scheduler, gates Period, and enqueues the resolved
// next. ApiCall and Execute run in short-lived worker goroutines spawned
// inside a scoped group so the loop itself never blocks on I/O; every
// other action runs inline.
package dispatcher
