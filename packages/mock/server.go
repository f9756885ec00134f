// Package mock provides an HTTP server that replays the responses of an
// HTTP Archive.
package mock

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/harkit/packages/har"
	"golang.org/x/time/rate"
)

// Headers that describe the recorded connection rather than the response.
var skippedHeaders = map[string]bool{
	"Connection":          true,
	"Content-Encoding":    true,
	"Content-Length":      true,
	"Keep-Alive":          true,
	"Proxy-Authenticate":  true,
	"Proxy-Authorization": true,
	"Te":                  true,
	"Trailer":             true,
	"Transfer-Encoding":   true,
	"Upgrade":             true,
}

// Server replays recorded responses
type Server struct {
	router      *Router
	port        int
	delay       time.Duration
	verbose     bool
	limiter     *rate.Limiter
	graphQLPath string
}

// Option is a functional option for Server
type Option func(*Server)

// WithPort sets the server port
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithDelay adds a delay to all responses
func WithDelay(delay time.Duration) Option {
	return func(s *Server) {
		s.delay = delay
	}
}

// WithVerbose enables verbose logging
func WithVerbose(verbose bool) Option {
	return func(s *Server) {
		s.verbose = verbose
	}
}

// WithRateLimit answers 429 once more than rps requests per second, with
// bursts of burst, arrive. Zero disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithGraphQLPath sets the URL fragment that marks a request as GraphQL.
func WithGraphQLPath(fragment string) Option {
	return func(s *Server) {
		s.graphQLPath = fragment
	}
}

// NewServer creates a new mock server
func NewServer(opts ...Option) *Server {
	s := &Server{
		router:      NewRouter(),
		port:        3000,
		graphQLPath: "/graphql",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadFile loads routes from a HAR file
func (s *Server) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return har.ErrHarFileNotFound.With(err, "harFilePath", path)
	}
	doc, err := har.Decode(data)
	if err != nil {
		return err
	}
	return s.LoadHAR(doc)
}

// LoadHAR registers a route for every entry of doc
func (s *Server) LoadHAR(doc *har.Document) error {
	for i, entry := range doc.Log.Entries {
		u, err := url.Parse(entry.Request.URL)
		if err != nil {
			return fmt.Errorf("entry %d: invalid URL %q: %w", i, entry.Request.URL, err)
		}

		var operation string
		if s.isGraphQL(entry.Request.URL) && entry.Request.PostData != nil {
			operation, _ = har.OperationName(entry.Request.PostData.Text)
		}

		resp, err := mockResponse(entry.Response)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		s.router.Add(entry.Request.Method, u.Path, operation, resp)
	}
	return nil
}

func mockResponse(r har.Response) (*MockResponse, error) {
	header := make(http.Header)
	for _, h := range r.Headers {
		name := http.CanonicalHeaderKey(h.Name)
		if skippedHeaders[name] || strings.HasPrefix(name, ":") {
			continue
		}
		header.Add(name, h.Value)
	}
	if header.Get("Content-Type") == "" && r.Content.MimeType != "" {
		header.Set("Content-Type", r.Content.MimeType)
	}

	body := []byte(r.Content.Text)
	if r.Content.Encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(r.Content.Text)
		if err != nil {
			return nil, fmt.Errorf("decode base64 body: %w", err)
		}
		body = decoded
	}

	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	return &MockResponse{StatusCode: status, Header: header, Body: body}, nil
}

func (s *Server) isGraphQL(rawURL string) bool {
	return s.graphQLPath != "" && strings.Contains(rawURL, s.graphQLPath)
}

// Handler returns the replay handler
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.handleRequest)
}

// Start starts the mock server
func (s *Server) Start() error {
	return s.StartWithContext(context.Background())
}

// StartWithContext starts the server with context for graceful shutdown
func (s *Server) StartWithContext(ctx context.Context) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	routes := s.router.Routes()
	log.Printf("Mock server starting on http://localhost:%d", s.port)
	log.Printf("Routes loaded: %d", len(routes))
	if s.verbose {
		for _, route := range routes {
			log.Printf("  %s %s %s (%d responses)", route.Method, route.Path, route.Operation, len(route.Responses))
		}
	}

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if s.limiter != nil && !s.limiter.Allow() {
		if s.verbose {
			log.Printf("%s %s -> 429 Too Many Requests", r.Method, r.URL.Path)
		}
		http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		return
	}

	// Apply delay if configured
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-r.Context().Done():
			return
		}
	}

	var operation string
	if r.Method == http.MethodPost && s.isGraphQL(r.URL.Path) && r.Body != nil {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		operation, _ = har.OperationName(string(body))
	}

	route := s.router.Match(r.Method, r.URL.Path, operation)
	if route == nil {
		if s.verbose {
			log.Printf("%s %s -> 404 Not Found (%s)", r.Method, r.URL.Path, time.Since(start))
		}
		http.NotFound(w, r)
		return
	}

	resp := route.Next()
	for key, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	w.Write(resp.Body)

	if s.verbose {
		log.Printf("%s %s -> %d (%s)", r.Method, r.URL.Path, resp.StatusCode, time.Since(start))
	}
}

// GetRoutes returns all registered routes
func (s *Server) GetRoutes() []*Route {
	return s.router.Routes()
}
