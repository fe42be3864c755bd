// Package template renders templated payload bodies, topics, URLs,
// command arguments, and next-event names against a small, immutable
// context snapshot: {data, metadata, state} plus whatever source-specific
// extras the calling component adds (the HTTP listener renders its
// response template against request, url, segments and data).
//
// The surface syntax is Go's text/template with the Masterminds/sprig
// function library; block helpers like if/range/eq come from
// text/template directly.
package template
