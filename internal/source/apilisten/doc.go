// Package apilisten is the HTTP listener source executor and the
// dispatcher's ListenerPort/HTTPCallPort implementation. It runs one
// http.Server per configured pool endpoint, holds each pool's ApiListen
// subscription set, and matches inbound requests against it; it also
// issues outbound ApiCall requests from a pool of http.Client default
// headers.
package apilisten
