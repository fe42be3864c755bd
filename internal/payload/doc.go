// Package payload implements the tagged value carried through the event
// graph, and the merge rules that stitch transitions together.
//
// A Payload is one of four variants: string, bytes, structured (a
// JSON-compatible tree built from Go's native nil/bool/number/string/
// []interface{}/map[string]interface{} representation, the same shape the
// teacher repo uses for untyped JSON throughout internal/workflow), or
// empty. Metadata reuses the structured merge rule to accumulate
// per-transition annotations.
package payload
