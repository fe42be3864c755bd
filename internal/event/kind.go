package event

// Kind identifies which of the trigger/action variants an event is. The
// fifteen authorable kinds correspond 1:1 with a YAML key in the event
// schema; Pass is synthetic and only ever produced by the catalog when
// resolving a templated next.
type Kind string

const (
	KindMqttPublish     Kind = "mqtt_publish"
	KindMqttSubscribe   Kind = "mqtt_subscribe"
	KindMqttUnsubscribe Kind = "mqtt_unsubscribe"
	KindTime            Kind = "time"
	KindRepeat          Kind = "repeat"
	KindPeriod          Kind = "period"
	KindApiCall         Kind = "api_call"
	KindApiListen       Kind = "api_listen"
	KindFileRead        Kind = "file_read"
	KindFileWrite       Kind = "file_write"
	KindWatch           Kind = "watch"
	KindFileChanged     Kind = "file_changed"
	KindExecute         Kind = "execute"
	KindPrint           Kind = "print"
	KindScanCodeRead    Kind = "scan_code_read"
	KindPass            Kind = "pass"
)

func (k Kind) String() string { return string(k) }

// IsSource reports whether kind is produced by a standalone source
// executor rather than only ever appearing as an action reached via next.
func (k Kind) IsSource() bool {
	switch k {
	case KindMqttSubscribe, KindTime, KindRepeat, KindPeriod, KindApiListen, KindWatch, KindScanCodeRead:
		return true
	default:
		return false
	}
}
