// Package proxy provides an HTTP proxy that records requests and responses
// as an HTTP Archive.
package proxy

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/abdul-hamid-achik/harkit/packages/har"
)

// Recorder is an HTTP proxy that records request/response pairs
type Recorder struct {
	port           int
	targetURL      string
	baseRequestURL string
	creator        string
	version        string
	verbose        bool
	exclude        []string

	mutex   sync.Mutex
	seq     int
	entries []recorded
}

type recorded struct {
	seq   int
	entry har.Entry
}

type pendingKey struct{}

type pending struct {
	seq   int
	start time.Time
	entry har.Entry
}

// Option is a functional option for Recorder
type Option func(*Recorder)

// WithPort sets the proxy port
func WithPort(port int) Option {
	return func(r *Recorder) {
		r.port = port
	}
}

// WithTargetURL sets the upstream the proxy forwards to
func WithTargetURL(target string) Option {
	return func(r *Recorder) {
		r.targetURL = target
	}
}

// WithBaseRequestURL records only requests whose absolute URL starts with
// base. Empty records everything.
func WithBaseRequestURL(base string) Option {
	return func(r *Recorder) {
		r.baseRequestURL = base
	}
}

// WithVerbose enables verbose logging
func WithVerbose(verbose bool) Option {
	return func(r *Recorder) {
		r.verbose = verbose
	}
}

// WithExclude sets path fragments that are proxied but not recorded
func WithExclude(paths []string) Option {
	return func(r *Recorder) {
		r.exclude = paths
	}
}

// WithCreator sets the creator recorded in the capture
func WithCreator(name, version string) Option {
	return func(r *Recorder) {
		r.creator = name
		r.version = version
	}
}

// NewRecorder creates a new recording proxy
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		port:    8080,
		creator: "harkit",
		version: "dev",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handler returns the recording reverse proxy.
func (r *Recorder) Handler() (http.Handler, error) {
	if r.targetURL == "" {
		return nil, fmt.Errorf("target URL is required")
	}

	target, err := url.Parse(r.targetURL)
	if err != nil {
		return nil, fmt.Errorf("invalid target URL: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid target URL: %q", r.targetURL)
	}

	proxy := &httputil.ReverseProxy{
		Director: func(req *http.Request) {
			req.URL.Scheme = target.Scheme
			req.URL.Host = target.Host
			req.Host = target.Host
			// bodies are recorded as text, ask upstream not to compress
			req.Header.Del("Accept-Encoding")
		},
		ModifyResponse: r.recordResponse,
	}

	return r.wrap(target, proxy), nil
}

// Start starts the recording proxy
func (r *Recorder) Start() error {
	return r.StartWithContext(context.Background())
}

// StartWithContext starts the proxy with context for graceful shutdown
func (r *Recorder) StartWithContext(ctx context.Context) error {
	handler, err := r.Handler()
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", r.port),
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("Recording proxy starting on http://localhost:%d", r.port)
	log.Printf("Proxying to: %s", r.targetURL)
	if r.baseRequestURL != "" {
		log.Printf("Recording requests under: %s", r.baseRequestURL)
	}

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (r *Recorder) wrap(target *url.URL, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		absURL := target.Scheme + "://" + target.Host + req.URL.RequestURI()

		if r.shouldExclude(req.URL.Path) || !strings.HasPrefix(absURL, r.baseRequestURL) {
			if r.verbose {
				log.Printf("Not recorded: %s %s", req.Method, absURL)
			}
			next.ServeHTTP(w, req)
			return
		}

		var bodyBytes []byte
		if req.Body != nil {
			var err error
			bodyBytes, err = io.ReadAll(req.Body)
			if err != nil {
				log.Printf("Failed to read request body: %s %s: %v", req.Method, absURL, err)
				http.Error(w, "failed to read request body", http.StatusBadGateway)
				return
			}
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		p := &pending{
			seq:   r.nextSeq(),
			start: time.Now(),
			entry: har.Entry{
				Request: har.Request{
					Method:      req.Method,
					URL:         absURL,
					HTTPVersion: req.Proto,
					Cookies:     cookies(req.Cookies()),
					Headers:     headers(req.Header),
					QueryString: queryString(req.URL.Query()),
					HeadersSize: -1,
					BodySize:    len(bodyBytes),
				},
			},
		}
		p.entry.StartedDateTime = p.start
		if len(bodyBytes) > 0 {
			p.entry.Request.PostData = &har.PostData{
				MimeType: req.Header.Get("Content-Type"),
				Text:     string(bodyBytes),
			}
		}

		next.ServeHTTP(w, req.WithContext(context.WithValue(req.Context(), pendingKey{}, p)))
	})
}

func (r *Recorder) nextSeq() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.seq++
	return r.seq
}

func (r *Recorder) recordResponse(resp *http.Response) error {
	p, ok := resp.Request.Context().Value(pendingKey{}).(*pending)
	if !ok {
		return nil
	}

	var bodyBytes []byte
	if resp.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return err
		}
		resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	}

	elapsed := float64(time.Since(p.start).Microseconds()) / 1000
	entry := p.entry
	entry.Time = elapsed
	entry.Timings = har.Timings{Send: 0, Wait: elapsed, Receive: 0}
	entry.Response = har.Response{
		Status:      resp.StatusCode,
		StatusText:  http.StatusText(resp.StatusCode),
		HTTPVersion: resp.Proto,
		Cookies:     cookies(resp.Cookies()),
		Headers:     headers(resp.Header),
		Content:     content(resp.Header.Get("Content-Type"), bodyBytes),
		RedirectURL: resp.Header.Get("Location"),
		HeadersSize: -1,
		BodySize:    len(bodyBytes),
	}

	r.mutex.Lock()
	r.entries = append(r.entries, recorded{seq: p.seq, entry: entry})
	r.mutex.Unlock()

	if r.verbose {
		log.Printf("Recorded: %s %s -> %d (%.1fms)", entry.Request.Method, entry.Request.URL, resp.StatusCode, elapsed)
	}
	return nil
}

func (r *Recorder) shouldExclude(path string) bool {
	for _, exclude := range r.exclude {
		if exclude != "" && strings.Contains(path, exclude) {
			return true
		}
	}
	return false
}

func content(mimeType string, body []byte) har.Content {
	c := har.Content{Size: len(body), MimeType: mimeType}
	if len(body) == 0 {
		return c
	}
	if utf8.Valid(body) {
		c.Text = string(body)
	} else {
		c.Text = base64.StdEncoding.EncodeToString(body)
		c.Encoding = "base64"
	}
	return c
}

func headers(h http.Header) []har.Header {
	result := make([]har.Header, 0, len(h))
	for name, values := range h {
		for _, v := range values {
			result = append(result, har.Header{Name: name, Value: v})
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func queryString(q url.Values) []har.Query {
	result := make([]har.Query, 0, len(q))
	for name, values := range q {
		for _, v := range values {
			result = append(result, har.Query{Name: name, Value: v})
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func cookies(cs []*http.Cookie) []har.Cookie {
	result := make([]har.Cookie, 0, len(cs))
	for _, c := range cs {
		result = append(result, har.Cookie{Name: c.Name, Value: c.Value})
	}
	return result
}

// HAR returns the capture recorded so far, in request arrival order
func (r *Recorder) HAR() *har.Document {
	r.mutex.Lock()
	recs := make([]recorded, len(r.entries))
	copy(recs, r.entries)
	r.mutex.Unlock()

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	doc := har.NewDocument(r.creator, r.version)
	for _, rec := range recs {
		doc.Log.Entries = append(doc.Log.Entries, rec.entry)
	}
	return doc
}

// ExportHAR renders the capture recorded so far
func (r *Recorder) ExportHAR() ([]byte, error) {
	return r.HAR().Encode()
}

// Len returns the number of recorded entries
func (r *Recorder) Len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.entries)
}
