package dispatcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"eventflow/internal/catalog"
	"eventflow/internal/event"
	"eventflow/internal/payload"
	tmpl "eventflow/internal/template"
	"eventflow/internal/timeparse"
)

type fakeMqtt struct {
	published []string
}

func (f *fakeMqtt) Publish(poolID, topic string, body []byte, retain bool) error {
	f.published = append(f.published, topic+":"+string(body))
	return nil
}
func (f *fakeMqtt) Unsubscribe(poolID, topic string) error { return nil }

func newTestDispatcher(t *testing.T, cat *catalog.Catalog, mqtt MqttPort) (*Dispatcher, chan *event.ReferencingEvent, chan *event.ReferencingEvent) {
	t.Helper()
	mainQ := make(chan *event.ReferencingEvent, 8)
	toSched := make(chan *event.ReferencingEvent, 8)
	d := New(Config{
		Catalog:        cat,
		Engine:         tmpl.New(),
		MainQueue:      mainQ,
		SchedulerInput: toSched,
		Mqtt:           mqtt,
	})
	return d, mainQ, toSched
}

func TestPrintThenEnqueueNext(t *testing.T) {
	cat := catalog.New()
	require.NoError(t, cat.Add(&event.ReferencingEvent{Name: "b", Kind: event.KindPass}))

	d, mainQ, _ := newTestDispatcher(t, cat, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	mainQ <- &event.ReferencingEvent{
		Name:    "a",
		Kind:    event.KindPrint,
		Next:    &event.Next{Literal: "b"},
		Payload: payload.FromString("hi!"),
	}

	select {
	case fired := <-mainQ:
		require.Equal(t, "b", fired.Name)
		require.Equal(t, "hi!", fired.Payload.String())
	case <-time.After(time.Second):
		t.Fatal("next event never enqueued")
	}
}

func TestSelfReferentialNextDropped(t *testing.T) {
	cat := catalog.New()
	d, mainQ, _ := newTestDispatcher(t, cat, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	mainQ <- &event.ReferencingEvent{Name: "a", Kind: event.KindPass, Next: &event.Next{Literal: "a"}}

	select {
	case <-mainQ:
		t.Fatal("self-referential next should not be enqueued")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestMqttPublish(t *testing.T) {
	cat := catalog.New()
	mqtt := &fakeMqtt{}
	d, mainQ, _ := newTestDispatcher(t, cat, mqtt)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	mainQ <- &event.ReferencingEvent{
		Name:    "pub",
		Kind:    event.KindMqttPublish,
		Payload: payload.FromString("hello"),
		Config:  &event.MqttPublishConfig{Topic: "t/x"},
	}

	require.Eventually(t, func() bool { return len(mqtt.published) == 1 }, time.Second, 10*time.Millisecond)
	require.Equal(t, "t/x:hello", mqtt.published[0])
}

func TestPeriodGatingDropsOutsideWindow(t *testing.T) {
	cat := catalog.New()
	require.NoError(t, cat.Add(&event.ReferencingEvent{Name: "h"}))
	d, mainQ, _ := newTestDispatcher(t, cat, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	now := time.Now()
	from, err := timeparse.Parse("in 1h", now)
	require.NoError(t, err)
	to, err := timeparse.Parse("in 2h", now)
	require.NoError(t, err)

	mainQ <- &event.ReferencingEvent{
		Name: "g", Kind: event.KindPeriod, Next: &event.Next{Literal: "h"},
		Config: &event.PeriodConfig{From: from, To: to},
	}
	select {
	case <-mainQ:
		t.Fatal("period outside window should not enqueue next")
	case <-time.After(200 * time.Millisecond):
	}
}
