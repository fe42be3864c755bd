package dispatcher

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"eventflow/internal/event"
	"eventflow/internal/payload"
	tmpl "eventflow/internal/template"
	"eventflow/pkg/logging"
)

// executeAction runs e's action per its kind. It returns true when the
// action was dispatched to an async worker (ApiCall, Execute) that will
// enqueue its own next on completion, meaning the caller must not run the
// remaining dispatch steps for e.
func (d *Dispatcher) executeAction(ctx context.Context, e *event.ReferencingEvent, tc tmpl.Context, nextName string) bool {
	switch e.Kind {
	case event.KindMqttPublish:
		d.doMqttPublish(e, tc)
	case event.KindMqttSubscribe:
		// Static subscriptions are registered by the MQTT source at
		// startup; firing one dynamically as an action is a no-op here
		// beyond what the source executor already does.
	case event.KindMqttUnsubscribe:
		d.doMqttUnsubscribe(e, tc)
	case event.KindApiListen:
		d.doApiListen(e)
	case event.KindApiCall:
		d.spawnApiCall(ctx, e, tc, nextName)
		return true
	case event.KindFileRead:
		d.doFileRead(e)
	case event.KindFileWrite:
		d.doFileWrite(e)
	case event.KindWatch:
		d.doWatch(e)
	case event.KindFileChanged:
		// Matched purely by the file watcher source; firing just
		// passes payload/metadata through to next.
	case event.KindExecute:
		d.spawnExecute(ctx, e, tc, nextName)
		return true
	case event.KindPrint:
		d.doPrint(e)
	case event.KindScanCodeRead, event.KindPass, event.KindPeriod, event.KindTime, event.KindRepeat:
		// No action body; handled by the caller's post-action steps.
	}
	return false
}

func (d *Dispatcher) doMqttPublish(e *event.ReferencingEvent, tc tmpl.Context) {
	cfg, ok := e.Config.(*event.MqttPublishConfig)
	if !ok || d.mqtt == nil {
		logging.Warn(subsys, "mqtt_publish %q: no mqtt port configured", e.Name)
		return
	}

	var body []byte
	if cfg.Template != "" {
		rendered, err := d.engine.Render(cfg.Template, tc)
		if err != nil {
			logging.Error(subsys, err, "render mqtt_publish body for %q", e.Name)
			return
		}
		body = []byte(rendered)
	} else {
		raw, err := e.Payload.ToBytes()
		if err != nil {
			logging.Error(subsys, err, "serialize mqtt_publish payload for %q", e.Name)
			return
		}
		body = raw
	}

	if len(body) == 0 {
		logging.Info(subsys, "mqtt_publish %q: empty body, skipping", e.Name)
		return
	}

	if err := d.mqtt.Publish(cfg.PoolID, cfg.Topic, body, cfg.Retain); err != nil {
		logging.ErrorOnce(subsys, err, "mqtt publish on %q", e.Name)
		return
	}
	logging.ClearSuppression(subsys)
}

func (d *Dispatcher) doMqttUnsubscribe(e *event.ReferencingEvent, tc tmpl.Context) {
	cfg, ok := e.Config.(*event.MqttUnsubscribeConfig)
	if !ok || d.mqtt == nil {
		return
	}
	if err := d.mqtt.Unsubscribe(cfg.PoolID, cfg.Topic); err != nil {
		logging.Error(subsys, err, "mqtt_unsubscribe %q", e.Name)
	}
}

func (d *Dispatcher) doApiListen(e *event.ReferencingEvent) {
	cfg, ok := e.Config.(*event.ApiListenConfig)
	if !ok || d.listeners == nil {
		logging.Warn(subsys, "api_listen %q: no listener port configured", e.Name)
		return
	}
	var err error
	if cfg.Action == event.ApiListenStart {
		err = d.listeners.Register(cfg.PoolID, e)
	} else {
		err = d.listeners.Unregister(cfg.PoolID, e.Name)
	}
	if err != nil {
		logging.Error(subsys, err, "api_listen %q", e.Name)
	}
}

func (d *Dispatcher) doFileRead(e *event.ReferencingEvent) {
	cfg, ok := e.Config.(*event.FileReadConfig)
	if !ok {
		return
	}
	f, err := os.Open(cfg.Path)
	if err != nil {
		logging.Error(subsys, err, "file_read %q: open %s", e.Name, cfg.Path)
		return
	}
	defer f.Close()

	p, err := payload.FromReader(f, contentKind(cfg.ResponseContent))
	if err != nil {
		logging.Error(subsys, err, "file_read %q: parse %s", e.Name, cfg.Path)
		return
	}
	e.Payload = p
	e.Metadata = payload.NewMetadata()
}

func (d *Dispatcher) doFileWrite(e *event.ReferencingEvent) {
	cfg, ok := e.Config.(*event.FileWriteConfig)
	if !ok {
		return
	}
	if e.Payload.IsEmpty() {
		return
	}

	flags := os.O_CREATE | os.O_WRONLY
	if cfg.ResolvedMode() == event.FileWriteAppend {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(cfg.Path, flags, 0o644)
	if err != nil {
		logging.Error(subsys, err, "file_write %q: open %s", e.Name, cfg.Path)
		return
	}
	defer f.Close()

	data, err := e.Payload.AsBytes()
	if err != nil {
		logging.Error(subsys, err, "file_write %q: serialize", e.Name)
		return
	}
	if _, err := f.Write(data); err != nil {
		logging.Error(subsys, err, "file_write %q: write %s", e.Name, cfg.Path)
	}
}

func (d *Dispatcher) doWatch(e *event.ReferencingEvent) {
	cfg, ok := e.Config.(*event.WatchConfig)
	if !ok || d.watch == nil {
		logging.Warn(subsys, "watch %q: no watch port configured", e.Name)
		return
	}
	var err error
	if cfg.Action == event.ApiListenStart {
		err = d.watch.Start(cfg.Path, cfg.Recursive)
	} else {
		err = d.watch.Stop(cfg.Path)
	}
	if err != nil {
		logging.Error(subsys, err, "watch %q", e.Name)
	}
}

func (d *Dispatcher) doPrint(e *event.ReferencingEvent) {
	cfg, _ := e.Config.(*event.PrintConfig)
	target := event.PrintStdout
	if cfg != nil {
		target = cfg.ResolvedTarget()
	}
	rendering := debugRender(e.Payload)
	if target == event.PrintStderr {
		fmt.Fprintln(os.Stderr, rendering)
	} else {
		fmt.Fprintln(os.Stdout, rendering)
	}
}

func debugRender(p payload.Payload) string {
	b, err := p.AsBytes()
	if err != nil {
		return fmt.Sprintf("<error: %v>", err)
	}
	var buf bytes.Buffer
	buf.Write(b)
	return buf.String()
}

func contentKind(c event.ContentType) payload.Kind {
	switch c {
	case event.ContentJSON:
		return payload.KindStructured
	case event.ContentBytes:
		return payload.KindBytes
	default:
		return payload.KindString
	}
}
