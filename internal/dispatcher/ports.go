package dispatcher

import "eventflow/internal/event"

// MqttPort is the narrow contract the dispatcher needs from the MQTT
// source to publish and unsubscribe.
type MqttPort interface {
	Publish(poolID, topic string, body []byte, retain bool) error
	Unsubscribe(poolID, topic string) error
}

// HTTPCallPort issues outbound HTTP requests for ApiCall.
type HTTPCallPort interface {
	Call(poolID, method, url string, body []byte, requestContent, responseContent event.ContentType) (respBody []byte, headers map[string]string, err error)
}

// ListenerPort registers and deregisters ApiListen entries in the HTTP
// listener subscription pool.
type ListenerPort interface {
	Register(poolID string, e *event.ReferencingEvent) error
	Unregister(poolID, name string) error
}

// WatchPort starts and stops the shared file watcher over a path.
type WatchPort interface {
	Start(path string, recursive bool) error
	Stop(path string) error
}

// ExecPort spawns a subprocess, feeds it stdin, and returns its stdout.
type ExecPort interface {
	Run(command string, args []string, env map[string]string, stdin []byte) (stdout []byte, err error)
}
