// Package testutil provides testing utilities for the Canvas sync tools.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockCanvas is a configurable in-process Canvas API for tests.
type MockCanvas struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc

	// Tracking
	RequestCount int
	LastAuth     string
	LastPath     string
	Requests     []string // "METHOD path?query" in arrival order
}

// NewMockCanvas creates a mock server. Paths without a registered handler
// answer 404.
func NewMockCanvas() *MockCanvas {
	mock := &MockCanvas{
		handlers: make(map[string]http.HandlerFunc),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastAuth = r.Header.Get("Authorization")
		mock.LastPath = r.URL.Path
		mock.Requests = append(mock.Requests, r.Method+" "+r.URL.RequestURI())
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, ok := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if ok {
			handler(w, r)
			return
		}

		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, `{"errors":[{"message":"The specified resource does not exist."}]}`)
	}))

	return mock
}

// URL returns the mock server base URL (scheme-prefixed, no trailing slash).
func (m *MockCanvas) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockCanvas) Close() {
	m.server.Close()
}

// Handle registers a handler for an exact request path.
func (m *MockCanvas) Handle(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// Reset clears tracking counters.
func (m *MockCanvas) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastAuth = ""
	m.LastPath = ""
	m.Requests = nil
}

// ServePages registers a paginated collection under path. Each page is a
// JSON array body; every page except the last advertises the next page via
// a Link header, Canvas style. Pages are selected by the "page" query
// parameter (default 1).
func (m *MockCanvas) ServePages(path string, pages []string) {
	m.Handle(path, func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			fmt.Sscanf(p, "%d", &page)
		}
		if page < 1 || page > len(pages) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"errors":[{"message":"page out of range"}]}`)
			return
		}

		if page < len(pages) {
			next := fmt.Sprintf("%s%s?page=%d", m.URL(), path, page+1)
			last := fmt.Sprintf("%s%s?page=%d", m.URL(), path, len(pages))
			w.Header().Set("Link",
				fmt.Sprintf(`<%s>; rel="next", <%s>; rel="last"`, next, last))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, pages[page-1])
	})
}
