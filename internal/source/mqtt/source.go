package mqtt

import (
	"context"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"eventflow/internal/catalog"
	"eventflow/internal/event"
	"eventflow/internal/payload"
	"eventflow/internal/pool"
	"eventflow/pkg/logging"
)

const subsys = "MqttSource"

// BrokerConfig is one entry of the configuration document's `mqtt` map.
type BrokerConfig struct {
	Host     string
	Port     int
	User     string
	Pass     string
	ClientID string
}

type arrival struct {
	topic string
	body  []byte
}

// Source owns one paho client per configured pool entry, subscribes to
// every MqttSubscribe event's topic at startup, and turns inbound
// publishes into main-queue events.
type Source struct {
	catalog *catalog.Catalog
	clients *pool.Pool[paho.Client]
	mainQ   chan<- *event.ReferencingEvent

	incoming chan arrival
}

// New connects a client for every entry in brokers and registers it in
// the returned pool, keyed by poolId.
func New(cat *catalog.Catalog, brokers map[string]BrokerConfig, mainQ chan<- *event.ReferencingEvent) (*Source, error) {
	s := &Source{
		catalog:  cat,
		clients:  pool.New[paho.Client](),
		mainQ:    mainQ,
		incoming: make(chan arrival, 256),
	}

	for poolID, cfg := range brokers {
		opts := paho.NewClientOptions()
		opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port))
		if cfg.ClientID != "" {
			opts.SetClientID(cfg.ClientID)
		}
		if cfg.User != "" {
			opts.SetUsername(cfg.User)
			opts.SetPassword(cfg.Pass)
		}
		opts.SetOnConnectHandler(func(paho.Client) { logging.ClearSuppression(subsys) })

		client := paho.NewClient(opts)
		token := client.Connect()
		if !token.WaitTimeout(10*time.Second) || token.Error() != nil {
			return nil, fmt.Errorf("mqtt: connect pool %q: %w", poolID, token.Error())
		}
		s.clients.Put(poolID, client)
	}

	s.subscribeAll()
	return s, nil
}

// subscribeAll subscribes every catalog MqttSubscribe event's topic on the
// client named by that event's PoolID (the first-inserted client when
// PoolID is empty), at QoS AtMostOnce per the wire contract.
func (s *Source) subscribeAll() {
	s.catalog.Each(func(e *event.ReferencingEvent) bool {
		cfg, ok := e.Config.(*event.MqttSubscribeConfig)
		if !ok {
			return true
		}
		client, err := s.clients.Get(cfg.PoolID)
		if err != nil {
			logging.Error(subsys, err, "subscribe %q", e.Name)
			return true
		}
		token := client.Subscribe(cfg.Topic, 0, func(_ paho.Client, msg paho.Message) {
			s.incoming <- arrival{topic: msg.Topic(), body: msg.Payload()}
		})
		if !token.WaitTimeout(10*time.Second) || token.Error() != nil {
			logging.Error(subsys, token.Error(), "subscribe %q", e.Name)
		}
		return true
	})
}

// Run drains inbound publishes until ctx is cancelled, matching each one
// against the catalog's MqttSubscribe events in insertion order (first
// match wins).
func (s *Source) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case a := <-s.incoming:
			s.handle(a)
		}
	}
}

func (s *Source) handle(a arrival) {
	var matched *event.ReferencingEvent
	s.catalog.Each(func(e *event.ReferencingEvent) bool {
		cfg, ok := e.Config.(*event.MqttSubscribeConfig)
		if !ok {
			return true
		}
		if cfg.Matches(a.topic, string(a.body)) {
			matched = e
			return false
		}
		return true
	})
	if matched == nil {
		return
	}

	next, ok := s.catalog.ResolveNext(matched)
	if !ok {
		return
	}

	clone := next.Clone()
	clone.Payload = clone.Payload.TryMergeBytes(a.body)
	clone.Metadata = clone.Metadata.Merge(payload.Metadata{
		matched.Name: map[string]interface{}{
			"topic":    a.topic,
			"segments": toInterfaceSlice(strings.Split(a.topic, "/")),
		},
	})
	s.mainQ <- clone
}

// Publish implements dispatcher.MqttPort.
func (s *Source) Publish(poolID, topic string, body []byte, retain bool) error {
	client, err := s.clients.Get(poolID)
	if err != nil {
		return err
	}
	token := client.Publish(topic, 1, retain, body)
	if !token.WaitTimeout(10*time.Second) || token.Error() != nil {
		return fmt.Errorf("mqtt: publish %s: %w", topic, token.Error())
	}
	return nil
}

// Unsubscribe implements dispatcher.MqttPort.
func (s *Source) Unsubscribe(poolID, topic string) error {
	client, err := s.clients.Get(poolID)
	if err != nil {
		return err
	}
	token := client.Unsubscribe(topic)
	if !token.WaitTimeout(10*time.Second) || token.Error() != nil {
		return fmt.Errorf("mqtt: unsubscribe %s: %w", topic, token.Error())
	}
	return nil
}

func toInterfaceSlice(s []string) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
