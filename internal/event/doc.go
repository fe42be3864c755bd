// Package event defines the central ReferencingEvent record and the
// fifteen trigger/action kinds (plus the synthetic Pass kind) that the
// catalog and dispatcher operate on.
//
// Each kind's configuration is a small, narrowly-scoped struct; related
// kinds share a file (mqtt.go, http.go, file.go, time.go, ...). Events are identified and compared by Name only: Equal and
// the catalog's map key both ignore every other field.
package event
