// Package config loads the orchestrator's configuration document: a YAML
// file naming the event catalog (inline, by group, or by file), the
// start-with list, the restart persistence directory, the sun-relative
// location, and the MQTT/HTTP/API connection pools.
//
// Loading happens in three steps: read and parse the YAML document,
// apply field defaults, then run Validate to collect every
// configuration-kind error in one pass rather than failing on the first.
package config
