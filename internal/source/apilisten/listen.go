package apilisten

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"eventflow/internal/catalog"
	"eventflow/internal/event"
	"eventflow/internal/payload"
	"eventflow/internal/pool"
	tmpl "eventflow/internal/template"
	"eventflow/pkg/logging"
)

const subsys = "ApiListen"

// subscriptionSet is the mutex-protected, insertion-ordered registration
// set one HTTP listener endpoint holds: every ApiListen event that has
// fired `start` against it, first match wins.
type subscriptionSet struct {
	mu      sync.Mutex
	entries []*event.ReferencingEvent
}

func (s *subscriptionSet) put(e *event.ReferencingEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.entries {
		if existing.Name == e.Name {
			s.entries[i] = e
			return
		}
	}
	s.entries = append(s.entries, e)
}

func (s *subscriptionSet) remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.entries {
		if existing.Name == name {
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
			return
		}
	}
}

func (s *subscriptionSet) match(path, method string) *event.ReferencingEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		cfg := e.Config.(*event.ApiListenConfig)
		if cfg.Matches(path, method) {
			return e
		}
	}
	return nil
}

// Source is the HTTP listener source executor and the dispatcher's
// ListenerPort implementation. It runs one http.Server per configured
// `http` pool endpoint.
type Source struct {
	catalog   *catalog.Catalog
	engine    *tmpl.Engine
	mainQ     chan<- *event.ReferencingEvent
	listeners *pool.Pool[*subscriptionSet]
	servers   []*http.Server
}

// New constructs the listener source, one subscription set and
// http.Server per entry of endpoints (poolID -> listen address). Servers
// are not started until Run.
func New(cat *catalog.Catalog, engine *tmpl.Engine, mainQ chan<- *event.ReferencingEvent, endpoints map[string]string) *Source {
	s := &Source{
		catalog:   cat,
		engine:    engine,
		mainQ:     mainQ,
		listeners: pool.New[*subscriptionSet](),
	}

	for poolID, addr := range endpoints {
		set := &subscriptionSet{}
		s.listeners.Put(poolID, set)

		mux := http.NewServeMux()
		mux.HandleFunc("/", s.handler(set))
		s.servers = append(s.servers, &http.Server{Addr: addr, Handler: mux})
	}
	return s
}

// Run starts every configured listener and blocks until ctx is cancelled,
// at which point every server is shut down.
func (s *Source) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, srv := range s.servers {
		wg.Add(1)
		go func(srv *http.Server) {
			defer wg.Done()
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logging.Error(subsys, err, "listen %s", srv.Addr)
			}
		}(srv)
	}

	<-ctx.Done()
	for _, srv := range s.servers {
		_ = srv.Shutdown(context.Background())
	}
	wg.Wait()
}

func (s *Source) handler(set *subscriptionSet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matched := set.match(r.URL.Path, r.Method)
		if matched == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		cfg := matched.Config.(*event.ApiListenConfig)

		reqPayload := payload.Empty()
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			p, err := payload.FromReader(r.Body, contentKind(cfg.RequestContent))
			if err != nil {
				logging.Error(subsys, err, "api_listen %q: decode request body", matched.Name)
			} else {
				reqPayload = p
			}
		}

		segments := splitSegments(r.URL.Path)
		body, err := s.renderResponse(matched, cfg, r, segments, reqPayload)
		if err != nil {
			logging.Error(subsys, err, "api_listen %q: render response", matched.Name)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		if cfg.ResponseContent == event.ContentJSON {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)

		next, ok := s.catalog.ResolveNext(matched)
		if !ok {
			return
		}
		clone := next.Clone()
		clone.Payload = clone.Payload.Merge(reqPayload).Merge(matched.Payload)
		clone.Metadata = clone.Metadata.Merge(payload.Metadata{
			matched.Name: map[string]interface{}{
				"url":           r.URL.Path,
				"segments":      toInterfaceSlice(segments),
				"remoteAddress": r.RemoteAddr,
			},
		})
		s.mainQ <- clone
	}
}

func (s *Source) renderResponse(matched *event.ReferencingEvent, cfg *event.ApiListenConfig, r *http.Request, segments []string, reqPayload payload.Payload) ([]byte, error) {
	if cfg.Template == "" {
		return matched.Payload.AsBytes()
	}
	ctx := tmpl.Context{
		"request":  dataOf(reqPayload),
		"url":      r.URL.Path,
		"segments": toInterfaceSlice(segments),
		"data":     dataOf(matched.Payload),
	}
	rendered, err := s.engine.Render(cfg.Template, ctx)
	if err != nil {
		return nil, err
	}
	return []byte(rendered), nil
}

func dataOf(p payload.Payload) interface{} {
	switch p.Kind() {
	case payload.KindStructured:
		return p.Structured()
	case payload.KindString:
		return p.String()
	default:
		return nil
	}
}

// Register implements dispatcher.ListenerPort.
func (s *Source) Register(poolID string, e *event.ReferencingEvent) error {
	set, err := s.listeners.Get(poolID)
	if err != nil {
		return fmt.Errorf("apilisten: %w", err)
	}
	set.put(e)
	return nil
}

// Unregister implements dispatcher.ListenerPort.
func (s *Source) Unregister(poolID, name string) error {
	set, err := s.listeners.Get(poolID)
	if err != nil {
		return fmt.Errorf("apilisten: %w", err)
	}
	set.remove(name)
	return nil
}

func splitSegments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func toInterfaceSlice(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, v := range ss {
		out[i] = v
	}
	return out
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
