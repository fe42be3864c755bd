package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"eventflow/internal/event"
	"eventflow/internal/payload"
	"eventflow/internal/timeparse"
)

// BodyMatcherSpec is mqtt_subscribe's optional body matcher.
type BodyMatcherSpec struct {
	Exact    string `yaml:"exact,omitempty"`
	Contains string `yaml:"contains,omitempty"`
}

func (b *BodyMatcherSpec) toEvent() *event.BodyMatcher {
	if b == nil {
		return nil
	}
	return &event.BodyMatcher{Exact: b.Exact, Contains: b.Contains}
}

// MqttSubscribeSpec accepts either the shorthand scalar (just the topic
// pattern) or the full mapping.
type MqttSubscribeSpec struct {
	PoolID string           `yaml:"pool_id,omitempty"`
	Topic  string           `yaml:"topic,omitempty"`
	Body   *BodyMatcherSpec `yaml:"body,omitempty"`
}

func (s *MqttSubscribeSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Topic = node.Value
		return nil
	}
	type plain MqttSubscribeSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = MqttSubscribeSpec(p)
	return nil
}

// MqttPublishSpec accepts the shorthand scalar (just the topic).
type MqttPublishSpec struct {
	PoolID   string `yaml:"pool_id,omitempty"`
	Topic    string `yaml:"topic,omitempty"`
	Template string `yaml:"template,omitempty"`
	Retain   bool   `yaml:"retain,omitempty"`
}

func (s *MqttPublishSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Topic = node.Value
		return nil
	}
	type plain MqttPublishSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = MqttPublishSpec(p)
	return nil
}

// MqttUnsubscribeSpec accepts the shorthand scalar (just the topic).
type MqttUnsubscribeSpec struct {
	PoolID string `yaml:"pool_id,omitempty"`
	Topic  string `yaml:"topic,omitempty"`
}

func (s *MqttUnsubscribeSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Topic = node.Value
		return nil
	}
	type plain MqttUnsubscribeSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = MqttUnsubscribeSpec(p)
	return nil
}

// TimeSpec accepts the shorthand scalar (just the time phrase).
type TimeSpec struct {
	When     string `yaml:"when,omitempty"`
	EventID  string `yaml:"event_id,omitempty"`
}

func (s *TimeSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.When = node.Value
		return nil
	}
	type plain TimeSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = TimeSpec(p)
	return nil
}

// PeriodSpec carries the two time phrases bounding a period.
type PeriodSpec struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// ApiCallSpec accepts the shorthand scalar (just the URL).
type ApiCallSpec struct {
	PoolID          string            `yaml:"pool_id,omitempty"`
	Method          string            `yaml:"method,omitempty"`
	URL             string            `yaml:"url,omitempty"`
	RequestContent  event.ContentType `yaml:"request_content,omitempty"`
	ResponseContent event.ContentType `yaml:"response_content,omitempty"`
}

func (s *ApiCallSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.URL = node.Value
		return nil
	}
	type plain ApiCallSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = ApiCallSpec(p)
	return nil
}

// ApiListenSpec accepts the shorthand scalar (just the path prefix).
type ApiListenSpec struct {
	PoolID          string            `yaml:"pool_id,omitempty"`
	Action          string            `yaml:"action,omitempty"`
	Path            string            `yaml:"path,omitempty"`
	Method          string            `yaml:"method,omitempty"`
	RequestContent  event.ContentType `yaml:"request_content,omitempty"`
	Template        string            `yaml:"template,omitempty"`
	ResponseContent event.ContentType `yaml:"response_content,omitempty"`
}

func (s *ApiListenSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Path = node.Value
		return nil
	}
	type plain ApiListenSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = ApiListenSpec(p)
	return nil
}

// FileReadSpec accepts the shorthand scalar (just the path).
type FileReadSpec struct {
	Path            string            `yaml:"path,omitempty"`
	ResponseContent event.ContentType `yaml:"response_content,omitempty"`
}

func (s *FileReadSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Path = node.Value
		return nil
	}
	type plain FileReadSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = FileReadSpec(p)
	return nil
}

// FileWriteSpec accepts the shorthand scalar (just the path).
type FileWriteSpec struct {
	Path string `yaml:"path,omitempty"`
	Mode string `yaml:"mode,omitempty"`
}

func (s *FileWriteSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Path = node.Value
		return nil
	}
	type plain FileWriteSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = FileWriteSpec(p)
	return nil
}

// WatchSpec accepts the shorthand scalar (just the path).
type WatchSpec struct {
	Action    string `yaml:"action,omitempty"`
	Path      string `yaml:"path,omitempty"`
	Recursive bool   `yaml:"recursive,omitempty"`
}

func (s *WatchSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Path = node.Value
		return nil
	}
	type plain WatchSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = WatchSpec(p)
	return nil
}

// FileChangedSpec matches a watcher notification by (path, kind).
type FileChangedSpec struct {
	Path string `yaml:"path"`
	Kind string `yaml:"kind"`
}

// ExecuteSpec spawns a subprocess.
type ExecuteSpec struct {
	Command         string            `yaml:"command"`
	Args            []string          `yaml:"args,omitempty"`
	Env             map[string]string `yaml:"env,omitempty"`
	ReplaceArgs     map[int]string    `yaml:"replace_args,omitempty"`
	ResponseContent event.ContentType `yaml:"response_content,omitempty"`
}

// PrintSpec accepts the shorthand scalar (just the target).
type PrintSpec struct {
	Target string `yaml:"target,omitempty"`
}

func (s *PrintSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Target = node.Value
		return nil
	}
	type plain PrintSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = PrintSpec(p)
	return nil
}

// ScanCodeReadSpec matches an input device's scan code.
type ScanCodeReadSpec struct {
	Device string `yaml:"device,omitempty"`
	Code   int    `yaml:"code"`
}

// StateSpec is the event schema's `state` block.
type StateSpec struct {
	Count   string            `yaml:"count,omitempty"`
	Replace map[string]string `yaml:"replace,omitempty"`
}

// EventSpec is one entry of an `events` mapping. Exactly one kind field
// must be set; Build translates it into a catalog-ready
// *event.ReferencingEvent.
type EventSpec struct {
	Name string `yaml:"name,omitempty"`

	MqttPublish     *MqttPublishSpec     `yaml:"mqtt_publish,omitempty"`
	MqttSubscribe   *MqttSubscribeSpec   `yaml:"mqtt_subscribe,omitempty"`
	MqttUnsubscribe *MqttUnsubscribeSpec `yaml:"mqtt_unsubscribe,omitempty"`
	Time            *TimeSpec            `yaml:"time,omitempty"`
	Repeat          *TimeSpec            `yaml:"repeat,omitempty"`
	Period          *PeriodSpec          `yaml:"period,omitempty"`
	ApiCall         *ApiCallSpec         `yaml:"api_call,omitempty"`
	ApiListen       *ApiListenSpec       `yaml:"api_listen,omitempty"`
	FileRead        *FileReadSpec        `yaml:"file_read,omitempty"`
	FileWrite       *FileWriteSpec       `yaml:"file_write,omitempty"`
	Watch           *WatchSpec           `yaml:"watch,omitempty"`
	FileChanged     *FileChangedSpec     `yaml:"file_changed,omitempty"`
	Execute         *ExecuteSpec         `yaml:"execute,omitempty"`
	Print           *PrintSpec           `yaml:"print,omitempty"`
	ScanCodeRead    *ScanCodeReadSpec    `yaml:"scan_code_read,omitempty"`

	NextEvent         string                 `yaml:"next_event,omitempty"`
	NextEventTemplate string                 `yaml:"next_event_template,omitempty"`
	Metadata          map[string]interface{} `yaml:"metadata,omitempty"`
	State             *StateSpec             `yaml:"state,omitempty"`
	Data              interface{}            `yaml:"data,omitempty"`
	MergeData         string                 `yaml:"merge_data,omitempty"`
	EventID           string                 `yaml:"event_id,omitempty"`
}

// kindCount reports how many kind fields are set, used to reject
// under- and over-specified entries.
func (s EventSpec) kindCount() int {
	n := 0
	for _, set := range []bool{
		s.MqttPublish != nil, s.MqttSubscribe != nil, s.MqttUnsubscribe != nil,
		s.Time != nil, s.Repeat != nil, s.Period != nil, s.ApiCall != nil,
		s.ApiListen != nil, s.FileRead != nil, s.FileWrite != nil, s.Watch != nil,
		s.FileChanged != nil, s.Execute != nil, s.Print != nil, s.ScanCodeRead != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// Build translates s into a catalog-ready event named name. now is the
// reference instant used to parse any time phrase this entry carries.
func (s EventSpec) Build(name string, now time.Time) (*event.ReferencingEvent, error) {
	if s.NextEvent != "" && s.NextEventTemplate != "" {
		return nil, fmt.Errorf("event %q: next_event and next_event_template are mutually exclusive", name)
	}
	switch s.kindCount() {
	case 0:
		return nil, fmt.Errorf("event %q: no trigger/action kind configured", name)
	case 1:
	default:
		return nil, fmt.Errorf("event %q: more than one trigger/action kind configured", name)
	}

	e := &event.ReferencingEvent{
		Name:        name,
		MergePolicy: mergePolicy(s.MergeData),
		EventID:     s.EventID,
	}

	if s.NextEventTemplate != "" {
		e.Next = &event.Next{Template: s.NextEventTemplate}
	} else if s.NextEvent != "" {
		e.Next = &event.Next{Literal: s.NextEvent}
	}

	if s.Metadata != nil {
		e.Metadata = payload.Metadata(s.Metadata)
	}
	if s.Data != nil {
		e.Payload = dataPayload(s.Data)
	}
	if s.State != nil {
		e.State = &event.State{CountKey: s.State.Count, Replace: s.State.Replace}
	}

	var err error
	switch {
	case s.MqttPublish != nil:
		e.Kind = event.KindMqttPublish
		e.Config = &event.MqttPublishConfig{
			PoolID: s.MqttPublish.PoolID, Topic: s.MqttPublish.Topic,
			Template: s.MqttPublish.Template, Retain: s.MqttPublish.Retain,
		}
	case s.MqttSubscribe != nil:
		e.Kind = event.KindMqttSubscribe
		e.Config = &event.MqttSubscribeConfig{
			PoolID: s.MqttSubscribe.PoolID, Topic: s.MqttSubscribe.Topic,
			Body: s.MqttSubscribe.Body.toEvent(),
		}
	case s.MqttUnsubscribe != nil:
		e.Kind = event.KindMqttUnsubscribe
		e.Config = &event.MqttUnsubscribeConfig{PoolID: s.MqttUnsubscribe.PoolID, Topic: s.MqttUnsubscribe.Topic}
	case s.Time != nil:
		e.Kind = event.KindTime
		if s.Time.EventID != "" {
			e.EventID = s.Time.EventID
		}
		var result timeparse.Result
		result, err = timeparse.Parse(s.Time.When, now)
		if err == nil {
			e.Config = &event.TimeConfig{When: result}
		}
	case s.Repeat != nil:
		e.Kind = event.KindRepeat
		if s.Repeat.EventID != "" {
			e.EventID = s.Repeat.EventID
		}
		var result timeparse.Result
		result, err = timeparse.Parse(s.Repeat.When, now)
		if err == nil {
			e.Config = &event.RepeatConfig{When: result}
		}
	case s.Period != nil:
		e.Kind = event.KindPeriod
		var from, to timeparse.Result
		if from, err = timeparse.Parse(s.Period.From, now); err == nil {
			if to, err = timeparse.Parse(s.Period.To, now); err == nil {
				e.Config = &event.PeriodConfig{From: from, To: to}
			}
		}
	case s.ApiCall != nil:
		e.Kind = event.KindApiCall
		e.Config = &event.ApiCallConfig{
			PoolID: s.ApiCall.PoolID, Method: defaultString(s.ApiCall.Method, "GET"), URL: s.ApiCall.URL,
			RequestContent: defaultContent(s.ApiCall.RequestContent), ResponseContent: defaultContent(s.ApiCall.ResponseContent),
		}
	case s.ApiListen != nil:
		e.Kind = event.KindApiListen
		e.Config = &event.ApiListenConfig{
			PoolID: s.ApiListen.PoolID, Action: listenAction(s.ApiListen.Action),
			PathPrefix: s.ApiListen.Path, Method: defaultString(s.ApiListen.Method, "GET"),
			RequestContent: defaultContent(s.ApiListen.RequestContent), Template: s.ApiListen.Template,
			ResponseContent: defaultContent(s.ApiListen.ResponseContent),
		}
	case s.FileRead != nil:
		e.Kind = event.KindFileRead
		e.Config = &event.FileReadConfig{Path: s.FileRead.Path, ResponseContent: defaultContent(s.FileRead.ResponseContent)}
	case s.FileWrite != nil:
		e.Kind = event.KindFileWrite
		e.Config = &event.FileWriteConfig{Path: s.FileWrite.Path, Mode: event.FileWriteMode(s.FileWrite.Mode)}
	case s.Watch != nil:
		e.Kind = event.KindWatch
		e.Config = &event.WatchConfig{Action: listenAction(s.Watch.Action), Path: s.Watch.Path, Recursive: s.Watch.Recursive}
	case s.FileChanged != nil:
		e.Kind = event.KindFileChanged
		e.Config = &event.FileChangedConfig{Path: s.FileChanged.Path, Kind: event.WatchKind(s.FileChanged.Kind)}
	case s.Execute != nil:
		e.Kind = event.KindExecute
		e.Config = &event.ExecuteConfig{
			Command: s.Execute.Command, Args: s.Execute.Args, Env: s.Execute.Env,
			ReplaceArgs: s.Execute.ReplaceArgs, ResponseContent: defaultContent(s.Execute.ResponseContent),
		}
	case s.Print != nil:
		e.Kind = event.KindPrint
		e.Config = &event.PrintConfig{Target: event.PrintTarget(s.Print.Target)}
	case s.ScanCodeRead != nil:
		e.Kind = event.KindScanCodeRead
		e.Config = &event.ScanCodeReadConfig{Device: s.ScanCodeRead.Device, Code: s.ScanCodeRead.Code}
	}
	if err != nil {
		return nil, fmt.Errorf("event %q: %w", name, err)
	}
	return e, nil
}

func mergePolicy(v string) event.MergePolicy {
	switch event.MergePolicy(v) {
	case event.MergeNo:
		return event.MergeNo
	case event.MergeOverwrite:
		return event.MergeOverwrite
	default:
		return event.MergeYes
	}
}

func listenAction(v string) event.ApiListenAction {
	if event.ApiListenAction(v) == event.ApiListenStop {
		return event.ApiListenStop
	}
	return event.ApiListenStart
}

func defaultContent(c event.ContentType) event.ContentType {
	if c == "" {
		return event.ContentText
	}
	return c
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func dataPayload(v interface{}) payload.Payload {
	if s, ok := v.(string); ok {
		return payload.FromString(s)
	}
	return payload.FromStructured(v)
}
