package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"eventflow/internal/catalog"
	"eventflow/internal/config"
	"eventflow/internal/dispatcher"
	"eventflow/internal/event"
	"eventflow/internal/kvstore"
	"eventflow/internal/scheduler"
	"eventflow/internal/source/apilisten"
	"eventflow/internal/source/evdev"
	"eventflow/internal/source/filewatch"
	mqttsrc "eventflow/internal/source/mqtt"
	tmpl "eventflow/internal/template"
	"eventflow/internal/timeparse"
	"eventflow/pkg/logging"
)

const subsys = "Bootstrap"

// runner is satisfied by every long-lived component Application starts:
// the dispatcher, scheduler, and each configured source executor.
type runner interface {
	Run(ctx context.Context)
}

// Application is a fully wired, not-yet-started eventflow process.
type Application struct {
	catalog    *catalog.Catalog
	dispatcher *dispatcher.Dispatcher
	scheduler  *scheduler.Scheduler
	runners    []runner
}

// NewApplication performs the complete bootstrap sequence: load and
// validate the configuration document, build the catalog, construct the
// kv store, every connection pool, and every source executor the
// document's pools name, then wire the dispatcher and scheduler over
// them.
func NewApplication(cfg *Config) (*Application, error) {
	doc, err := config.LoadDocument(cfg.Path)
	if err != nil {
		logging.Error(subsys, err, "load configuration")
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	cat, err := config.BuildCatalog(doc, filepath.Dir(cfg.Path))
	if err != nil {
		logging.Error(subsys, err, "build catalog")
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	if errs := config.Validate(doc, cat); errs.HasErrors() {
		logging.Error(subsys, errs, "validate configuration")
		return nil, fmt.Errorf("bootstrap: %w", errs)
	}

	if doc.Location != nil {
		timeparse.SetLocation(doc.Location.Latitude, doc.Location.Longitude)
	}

	store, err := openStore(doc.Restore)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	mainQ := make(chan *event.ReferencingEvent, 256)
	schedCh := make(chan *event.ReferencingEvent, 256)
	engine := tmpl.New()

	runners := make([]runner, 0, 8)

	var mqttPort dispatcher.MqttPort
	if doc.MQTT.Len() > 0 {
		brokers := make(map[string]mqttsrc.BrokerConfig, doc.MQTT.Len())
		doc.MQTT.Each(func(id string, spec config.MQTTSpec) {
			clientID := spec.ClientID
			if clientID == "" {
				// Every broker needs a unique client id; synthesize one
				// rather than letting two pools collide on the default.
				clientID = "eventflow-" + uuid.NewString()
			}
			brokers[id] = mqttsrc.BrokerConfig{
				Host:     spec.Host,
				Port:     spec.ResolvedPort(),
				User:     spec.User,
				Pass:     spec.Pass,
				ClientID: clientID,
			}
		})
		mqttSource, err := mqttsrc.New(cat, brokers, mainQ)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: mqtt: %w", err)
		}
		mqttPort = mqttSource
		runners = append(runners, mqttSource)
	}

	var listenerPort dispatcher.ListenerPort
	if doc.HTTP.Len() > 0 {
		endpoints := make(map[string]string, doc.HTTP.Len())
		doc.HTTP.Each(func(id, addr string) { endpoints[id] = addr })

		listenSource := apilisten.New(cat, engine, mainQ, endpoints)
		listenerPort = listenSource
		runners = append(runners, listenSource)
	}

	headers := make(map[string]map[string]string)
	for _, p := range doc.APIPools() {
		headers[p.ID] = p.Spec.DefaultHeaders
	}
	httpPort := apilisten.NewClientPool(headers)

	var watchPort dispatcher.WatchPort
	watchSource, err := filewatch.New(cat, mainQ)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: filewatch: %w", err)
	}
	watchPort = watchSource
	runners = append(runners, watchSource)

	evdevSource := evdev.New(cat, mainQ)
	runners = append(runners, evdevSource)

	disp := dispatcher.New(dispatcher.Config{
		Catalog:        cat,
		Engine:         engine,
		MainQueue:      mainQ,
		SchedulerInput: schedCh,
		Mqtt:           mqttPort,
		HTTP:           httpPort,
		Listeners:      listenerPort,
		Watch:          watchPort,
		Exec:           osExecPort{},
	})

	sched := scheduler.New(cat, store, schedCh, mainQ)
	if err := scheduler.Restore(cat, store, sched, mainQ, doc.StartWith); err != nil {
		return nil, fmt.Errorf("bootstrap: restore: %w", err)
	}

	runners = append(runners, disp, sched)

	return &Application{
		catalog:    cat,
		dispatcher: disp,
		scheduler:  sched,
		runners:    runners,
	}, nil
}

func openStore(restoreDir string) (kvstore.Store, error) {
	if restoreDir == "" {
		return kvstore.NullStore{}, nil
	}
	store, err := kvstore.NewDirectoryStore(restoreDir)
	if err != nil {
		return nil, fmt.Errorf("open restore directory: %w", err)
	}
	return store, nil
}
