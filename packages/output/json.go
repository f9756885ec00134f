package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/harkit/packages/core/errcode"
	"github.com/goccy/go-json"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Split    *JSONSplit `json:"split,omitempty"`
	Merge    *JSONMerge `json:"merge,omitempty"`
	Tokens   *JSONToken `json:"tokens,omitempty"`
	Warnings []string   `json:"warnings,omitempty"`
	Error    *JSONError `json:"error,omitempty"`
	Time     string     `json:"time"`
}

type JSONSplit struct {
	Har      string   `json:"har"`
	Manifest string   `json:"manifest"`
	JSONDir  string   `json:"jsonDir"`
	Files    []string `json:"files"`
	Skipped  int      `json:"skipped"`
}

type JSONMerge struct {
	Manifest   string   `json:"manifest"`
	Har        string   `json:"har"`
	Rehydrated []string `json:"rehydrated"`
	Missing    []string `json:"missing"`
}

type JSONToken struct {
	Action string   `json:"action"`
	Output string   `json:"output,omitempty"`
	Tokens []string `json:"tokens"`
}

type JSONError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// JSONFormatter collects results and writes them as one JSON document
type JSONFormatter struct {
	mu     sync.Mutex
	writer io.Writer
	out    JSONOutput
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) Split(s SplitSummary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out.Split = &JSONSplit{
		Har:      s.HarPath,
		Manifest: s.ManifestPath,
		JSONDir:  s.JSONDir,
		Files:    nonNil(s.Files),
		Skipped:  s.Skipped,
	}
}

func (f *JSONFormatter) Merge(m MergeSummary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out.Merge = &JSONMerge{
		Manifest:   m.ManifestPath,
		Har:        m.OutPath,
		Rehydrated: nonNil(m.Rehydrated),
		Missing:    nonNil(m.Missing),
	}
}

func (f *JSONFormatter) Tokens(t TokenSummary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out.Tokens = &JSONToken{
		Action: t.Action,
		Output: t.OutPath,
		Tokens: nonNil(t.Tokens),
	}
}

func (f *JSONFormatter) Warn(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out.Warnings = append(f.out.Warnings, fmt.Sprintf(format, args...))
}

func (f *JSONFormatter) Error(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out.Error = &JSONError{
		Code:    string(errcode.CodeOf(err)),
		Message: err.Error(),
	}
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out.Time = time.Now().Format(time.RFC3339)

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(f.out)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
