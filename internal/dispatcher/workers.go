package dispatcher

import (
	"context"
	"strings"

	"eventflow/internal/event"
	"eventflow/internal/payload"
	tmpl "eventflow/internal/template"
	"eventflow/pkg/logging"
)

// spawnApiCall launches the ApiCall's HTTP request in a worker goroutine
// scoped to d.workers; on completion it enqueues nextName itself.
func (d *Dispatcher) spawnApiCall(ctx context.Context, e *event.ReferencingEvent, tc tmpl.Context, nextName string) {
	cfg, ok := e.Config.(*event.ApiCallConfig)
	if !ok || d.http == nil {
		logging.Warn(subsys, "api_call %q: no http port configured", e.Name)
		return
	}

	d.workers.Add(1)
	go func() {
		defer d.workers.Done()

		url, err := d.engine.Render(cfg.URL, tc)
		if err != nil {
			logging.Error(subsys, err, "render api_call url for %q", e.Name)
			return
		}

		var body []byte
		method := strings.ToUpper(cfg.Method)
		if method == "PUT" || method == "POST" {
			body, err = e.Payload.ToBytes()
			if err != nil {
				logging.Error(subsys, err, "api_call %q: serialize body", e.Name)
				return
			}
		}

		respBody, headers, err := d.http.Call(cfg.PoolID, method, url, body, cfg.RequestContent, cfg.ResponseContent)
		if err != nil {
			logging.ErrorOnce(subsys, err, "api_call %q", e.Name)
			return
		}
		logging.ClearSuppression(subsys)

		respPayload, err := payload.FromReader(strings.NewReader(string(respBody)), contentKind(cfg.ResponseContent))
		if err != nil {
			logging.Error(subsys, err, "api_call %q: parse response", e.Name)
			return
		}

		e.Payload = respPayload
		e.Metadata = e.Metadata.Merge(payload.Metadata{
			e.Name: map[string]interface{}{"headers": headersToStructured(headers)},
		})

		if nextName != "" {
			d.enqueueNext(nextName, e)
		}
	}()
}

// spawnExecute launches the subprocess in a worker goroutine scoped to
// d.workers; on completion it enqueues nextName itself.
func (d *Dispatcher) spawnExecute(ctx context.Context, e *event.ReferencingEvent, tc tmpl.Context, nextName string) {
	cfg, ok := e.Config.(*event.ExecuteConfig)
	if !ok || d.exec == nil {
		logging.Warn(subsys, "execute %q: no exec port configured", e.Name)
		return
	}

	d.workers.Add(1)
	go func() {
		defer d.workers.Done()

		args := make([]string, len(cfg.Args))
		copy(args, cfg.Args)
		for idx, template := range cfg.ReplaceArgs {
			if idx < 0 || idx >= len(args) {
				logging.Warn(subsys, "execute %q: replaceArgs index %d out of range", e.Name, idx)
				return
			}
			rendered, err := d.engine.Render(template, tc)
			if err != nil {
				logging.Error(subsys, err, "execute %q: render replaceArgs[%d]", e.Name, idx)
				return
			}
			args[idx] = rendered
		}

		stdin, err := e.Payload.ToBytes()
		if err != nil {
			logging.Error(subsys, err, "execute %q: serialize stdin", e.Name)
			return
		}

		stdout, err := d.exec.Run(cfg.Command, args, cfg.Env, stdin)
		if err != nil {
			logging.Error(subsys, err, "execute %q", e.Name)
			return
		}

		respPayload, err := payload.FromReader(strings.NewReader(string(stdout)), contentKind(cfg.ResponseContent))
		if err != nil {
			logging.Error(subsys, err, "execute %q: parse stdout", e.Name)
			return
		}
		e.Payload = respPayload

		if nextName != "" {
			d.enqueueNext(nextName, e)
		}
	}()
}

func headersToStructured(headers map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(headers))
	for k, v := range headers {
		out[k] = v
	}
	return out
}
