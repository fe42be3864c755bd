package dispatcher

import (
	"context"
	"strconv"
	"sync"
	"time"

	"eventflow/internal/catalog"
	"eventflow/internal/event"
	"eventflow/internal/payload"
	tmpl "eventflow/internal/template"
	"eventflow/pkg/logging"
)

const subsys = "Dispatcher"

// Dispatcher is the single consumer of the main event queue.
type Dispatcher struct {
	catalog  *catalog.Catalog
	engine   *tmpl.Engine
	mainQ    chan *event.ReferencingEvent
	toSched  chan<- *event.ReferencingEvent

	mqtt      MqttPort
	http      HTTPCallPort
	listeners ListenerPort
	watch     WatchPort
	exec      ExecPort

	stateMu sync.Mutex
	counts  map[string]int
	state   map[string]map[string]string

	workers sync.WaitGroup
}

// Config bundles the collaborators a Dispatcher needs; any nil port
// disables the corresponding action kind (it logs and drops instead of
// panicking).
type Config struct {
	Catalog        *catalog.Catalog
	Engine         *tmpl.Engine
	MainQueue      chan *event.ReferencingEvent
	SchedulerInput chan<- *event.ReferencingEvent
	Mqtt           MqttPort
	HTTP           HTTPCallPort
	Listeners      ListenerPort
	Watch          WatchPort
	Exec           ExecPort
}

// New constructs a Dispatcher from cfg.
func New(cfg Config) *Dispatcher {
	return &Dispatcher{
		catalog:   cfg.Catalog,
		engine:    cfg.Engine,
		mainQ:     cfg.MainQueue,
		toSched:   cfg.SchedulerInput,
		mqtt:      cfg.Mqtt,
		http:      cfg.HTTP,
		listeners: cfg.Listeners,
		watch:     cfg.Watch,
		exec:      cfg.Exec,
		counts:    make(map[string]int),
		state:     make(map[string]map[string]string),
	}
}

// Run consumes the main queue until ctx is cancelled, then waits for
// in-flight ApiCall/Execute workers to finish before returning.
func (d *Dispatcher) Run(ctx context.Context) {
	defer d.workers.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-d.mainQ:
			if !ok {
				return
			}
			d.handle(ctx, e)
		}
	}
}

// handle implements the seven-step dispatch contract for one event.
func (d *Dispatcher) handle(ctx context.Context, e *event.ReferencingEvent) {
	state := d.advanceState(e)

	data := dataForContext(e.Payload)
	tc := tmpl.NewContext(data, e.Metadata, state)

	nextName, ok := d.resolveNextName(e, tc)
	if ok && nextName == e.Name {
		logging.Warn(subsys, "event %q next resolves to itself, dropping", e.Name)
		return
	}

	async := d.executeAction(ctx, e, tc, nextName)
	if async {
		return // the worker enqueues its own next on completion
	}

	switch e.Kind {
	case event.KindTime, event.KindRepeat:
		d.divertToScheduler(e, time.Now())
		return
	case event.KindPeriod:
		cfg, _ := e.Config.(*event.PeriodConfig)
		if cfg != nil && !cfg.IsWithinPeriod(time.Now()) {
			return
		}
	case event.KindApiListen:
		cfg, _ := e.Config.(*event.ApiListenConfig)
		if cfg != nil && cfg.Action == event.ApiListenStart {
			return // HTTP source enqueues next when a request matches
		}
	}

	if ok {
		d.enqueueNext(nextName, e)
	}
}

// advanceState increments e.State's counter (if any) and layers in its
// static overrides, returning the per-fire state snapshot for the
// template context.
func (d *Dispatcher) advanceState(e *event.ReferencingEvent) map[string]string {
	d.stateMu.Lock()
	defer d.stateMu.Unlock()

	snapshot := make(map[string]string)
	if e.State == nil {
		return snapshot
	}

	if e.State.CountKey != "" {
		key := e.Name + "/" + e.State.CountKey
		count, seen := d.counts[key]
		if !seen {
			d.counts[key] = 0
			count = 0
		} else {
			d.counts[key] = count + 1
			count = d.counts[key]
		}
		snapshot[e.State.CountKey] = strconv.Itoa(count)
	}
	for k, v := range e.State.Replace {
		snapshot[k] = v
	}
	return snapshot
}

// resolveNextName computes the literal-or-rendered transition name. ok is
// false when the event has no next at all.
func (d *Dispatcher) resolveNextName(e *event.ReferencingEvent, tc tmpl.Context) (string, bool) {
	if !e.Next.IsSet() {
		return "", false
	}
	if !e.Next.IsTemplate() {
		return e.Next.Literal, true
	}
	rendered, err := d.engine.Render(e.Next.Template, tc)
	if err != nil {
		logging.Error(subsys, err, "render next template for %q", e.Name)
		return "", false
	}
	return rendered, true
}

func (d *Dispatcher) divertToScheduler(e *event.ReferencingEvent, now time.Time) {
	reset, err := resetTimeResult(e, now)
	if err != nil {
		logging.Error(subsys, err, "reset time result for %q", e.Name)
		return
	}
	d.toSched <- reset
}

// enqueueNext looks nextName up directly: by step 3, a literal next is
// already the target name and a templated next has already been rendered
// to one, so no further indirection through catalog.ResolveNext is
// needed here (that synthesis is for source executors producing the very
// first hop from an external stimulus — see internal/catalog).
func (d *Dispatcher) enqueueNext(nextName string, source *event.ReferencingEvent) {
	next, ok := d.catalog.Get(nextName)
	if !ok {
		logging.Warn(subsys, "next %q for %q not in catalog", nextName, source.Name)
		return
	}

	clone := next.Clone()
	clone.Payload = mergeByPolicy(clone, source.Payload)
	clone.Metadata = clone.Metadata.Merge(source.Metadata)
	d.mainQ <- clone
}

func mergeByPolicy(target *event.ReferencingEvent, incoming payload.Payload) payload.Payload {
	switch target.MergePolicy {
	case event.MergeNo:
		return target.Payload
	case event.MergeOverwrite:
		return incoming
	default:
		return target.Payload.Merge(incoming)
	}
}

func dataForContext(p payload.Payload) interface{} {
	switch p.Kind() {
	case payload.KindStructured:
		return p.Structured()
	case payload.KindString:
		return p.String()
	default:
		return nil
	}
}

func resetTimeResult(e *event.ReferencingEvent, now time.Time) (*event.ReferencingEvent, error) {
	clone := e.Clone()
	switch cfg := e.Config.(type) {
	case *event.TimeConfig:
		reset, err := cfg.When.Reset(now)
		if err != nil {
			return nil, err
		}
		clone.Config = &event.TimeConfig{When: reset}
	case *event.RepeatConfig:
		reset, err := cfg.When.Reset(now)
		if err != nil {
			return nil, err
		}
		clone.Config = &event.RepeatConfig{When: reset}
	}
	return clone, nil
}
