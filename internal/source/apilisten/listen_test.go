package apilisten

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"eventflow/internal/catalog"
	"eventflow/internal/event"
	"eventflow/internal/payload"
	tmpl "eventflow/internal/template"
)

func TestHandlerRendersTemplateAndEnqueuesNext(t *testing.T) {
	cat := catalog.New()
	require.NoError(t, cat.Add(&event.ReferencingEvent{
		Name: "l",
		Kind: event.KindApiListen,
		Next: &event.Next{Literal: "k"},
		Config: &event.ApiListenConfig{
			PathPrefix: "/c", Method: "POST",
			RequestContent: event.ContentJSON, ResponseContent: event.ContentJSON,
			Template: "{{.data.v}} {{.request.t}}",
		},
		Payload: payload.FromStructured(map[string]interface{}{"v": "now"}),
	}))
	require.NoError(t, cat.Add(&event.ReferencingEvent{Name: "k", Kind: event.KindPass}))

	mainQ := make(chan *event.ReferencingEvent, 1)
	s := &Source{catalog: cat, engine: tmpl.New(), mainQ: mainQ}
	set := &subscriptionSet{}
	l, _ := cat.Get("l")
	set.put(l)

	req := httptest.NewRequest(http.MethodPost, "/c", strings.NewReader(`{"t":"2024-01-01"}`))
	rec := httptest.NewRecorder()
	s.handler(set)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "now 2024-01-01", rec.Body.String())

	select {
	case fired := <-mainQ:
		require.Equal(t, "k", fired.Name)
		require.Equal(t, "now", fired.Payload.Structured().(map[string]interface{})["v"])
		require.Equal(t, "2024-01-01", fired.Payload.Structured().(map[string]interface{})["t"])
	default:
		t.Fatal("expected next event to be enqueued")
	}
}

func TestHandlerNoMatchReturns404(t *testing.T) {
	cat := catalog.New()
	mainQ := make(chan *event.ReferencingEvent, 1)
	s := &Source{catalog: cat, engine: tmpl.New(), mainQ: mainQ}
	set := &subscriptionSet{}

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	s.handler(set)(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
