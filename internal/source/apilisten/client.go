package apilisten

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"eventflow/internal/event"
	"eventflow/internal/pool"
)

// clientEntry is one `api` pool's http.Client plus the default headers
// attached to every outbound request issued through it.
type clientEntry struct {
	client  *http.Client
	headers map[string]string
}

// ClientPool issues outbound ApiCall requests; it implements
// dispatcher.HTTPCallPort.
type ClientPool struct {
	clients *pool.Pool[*clientEntry]
}

// NewClientPool builds one http.Client per pool id, pre-installing its
// configured default headers.
func NewClientPool(defaultHeaders map[string]map[string]string) *ClientPool {
	cp := &ClientPool{clients: pool.New[*clientEntry]()}
	for poolID, headers := range defaultHeaders {
		cp.clients.Put(poolID, &clientEntry{client: &http.Client{}, headers: headers})
	}
	return cp
}

// Call implements dispatcher.HTTPCallPort.
func (cp *ClientPool) Call(poolID, method, url string, body []byte, requestContent, responseContent event.ContentType) ([]byte, map[string]string, error) {
	entry, err := cp.clients.Get(poolID)
	if err != nil {
		return nil, nil, fmt.Errorf("apilisten client: %w", err)
	}

	var bodyReader io.Reader
	if len(body) > 0 {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(strings.ToUpper(method), url, bodyReader)
	if err != nil {
		return nil, nil, fmt.Errorf("apilisten client: build request: %w", err)
	}

	for k, v := range entry.headers {
		req.Header.Set(k, v)
	}
	if len(body) > 0 && requestContent == event.ContentJSON {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := entry.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("apilisten client: %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("apilisten client: read response: %w", err)
	}

	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}
	return respBody, headers, nil
}
