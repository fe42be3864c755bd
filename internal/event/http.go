package event

import "strings"

// ContentType names how a body is read from or written to the wire.
type ContentType string

const (
	ContentJSON  ContentType = "json"
	ContentText  ContentType = "text"
	ContentBytes ContentType = "bytes"
)

// ApiListenAction distinguishes registering from deregistering a listener.
type ApiListenAction string

const (
	ApiListenStart ApiListenAction = "start"
	ApiListenStop  ApiListenAction = "stop"
)

// ApiListenConfig registers (or deregisters) a path-prefix + method match
// against the HTTP listener pool identified by PoolID.
type ApiListenConfig struct {
	PoolID         string
	Action         ApiListenAction
	PathPrefix     string
	Method         string
	RequestContent ContentType
	// Template, when set, is rendered with {request, url, segments, data}
	// to produce the response body; otherwise the event's own payload is
	// serialized per ResponseContent.
	Template       string
	ResponseContent ContentType
}

// Matches reports whether an inbound request's path and method satisfy
// this listener's registration.
func (c *ApiListenConfig) Matches(path, method string) bool {
	return strings.HasPrefix(path, c.PathPrefix) && strings.EqualFold(method, c.Method)
}

// ApiCallConfig issues an outbound HTTP request from the client pool
// identified by PoolID.
type ApiCallConfig struct {
	PoolID         string
	Method         string
	URL            string // rendered via template before use
	RequestContent ContentType
	ResponseContent ContentType
}
