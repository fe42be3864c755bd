package config

// Document is the top-level configuration document: a catalog assembled
// from inline events, file-loaded groups (prefixed) and plain event files,
// plus the pools and process-global settings the source executors and
// dispatcher need.
type Document struct {
	StartWith  []string               `yaml:"start_with"`
	Groups     OrderedMap[string]     `yaml:"groups"`
	EventFiles []string               `yaml:"event_files"`
	Events     OrderedMap[EventSpec]  `yaml:"events"`
	Restore    string                 `yaml:"restore"`
	Location   *LocationSpec          `yaml:"location"`
	MQTT       OrderedMap[MQTTSpec]   `yaml:"mqtt"`
	HTTP       OrderedMap[string]     `yaml:"http"`
	API        OrderedMap[APIPoolSpec] `yaml:"api"`
}

// EventFile is the document shape of a file named by `groups` or
// `event_files`: just another `events` mapping, loaded and merged the same
// way as the top-level one.
type EventFile struct {
	Events OrderedMap[EventSpec] `yaml:"events"`
}

// LocationSpec is the `(latitude, longitude)` pair used to resolve
// sunrise/sunset phrases in the time parser.
type LocationSpec struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// MQTTSpec is one entry of the `mqtt` pool map.
type MQTTSpec struct {
	Host     string `yaml:"host"`
	User     string `yaml:"user,omitempty"`
	Pass     string `yaml:"pass,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	ClientID string `yaml:"client_id,omitempty"`
}

// ResolvedPort returns Port, defaulting to MQTT's standard 1883.
func (s MQTTSpec) ResolvedPort() int {
	if s.Port == 0 {
		return 1883
	}
	return s.Port
}

// APIPoolSpec is one entry of the `api` pool map: headers attached to
// every outbound request issued through that pool.
type APIPoolSpec struct {
	DefaultHeaders map[string]string `yaml:"default_headers,omitempty"`
}
