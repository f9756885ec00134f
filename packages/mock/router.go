package mock

import (
	"net/http"
	"strings"
	"sync"
)

// Route is every recorded response for one method, path and GraphQL
// operation, replayed in recorded order.
type Route struct {
	Method    string
	Path      string
	Operation string
	Responses []*MockResponse

	mu   sync.Mutex
	next int
}

// MockResponse represents a recorded HTTP response
type MockResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Next returns the next response in recorded order. Once the recording is
// exhausted the last response is served for every later request.
func (r *Route) Next() *MockResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	resp := r.Responses[r.next]
	if r.next < len(r.Responses)-1 {
		r.next++
	}
	return resp
}

type routeKey struct {
	method    string
	path      string
	operation string
}

// Router matches incoming requests to routes
type Router struct {
	mu     sync.RWMutex
	routes []*Route
	index  map[routeKey]*Route
}

// NewRouter creates a new router
func NewRouter() *Router {
	return &Router{
		routes: make([]*Route, 0),
		index:  make(map[routeKey]*Route),
	}
}

// Add appends resp to the route for method, path and operation, creating
// the route on first use.
func (r *Router) Add(method, path, operation string, resp *MockResponse) *Route {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := routeKey{strings.ToUpper(method), normalizePath(path), operation}
	route, ok := r.index[key]
	if !ok {
		route = &Route{Method: key.method, Path: key.path, Operation: operation}
		r.index[key] = route
		r.routes = append(r.routes, route)
	}
	route.Responses = append(route.Responses, resp)
	return route
}

// Match finds the route for a request. A GraphQL operation that was never
// recorded falls back to the route without an operation.
func (r *Router) Match(method, path, operation string) *Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := routeKey{strings.ToUpper(method), normalizePath(path), operation}
	if route, ok := r.index[key]; ok {
		return route
	}
	if operation != "" {
		key.operation = ""
		return r.index[key]
	}
	return nil
}

// Routes returns the routes in the order they were first recorded
func (r *Router) Routes() []*Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Route, len(r.routes))
	copy(out, r.routes)
	return out
}

func normalizePath(path string) string {
	// Ensure path starts with /
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	// Remove trailing slash (except for root)
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path
}
