package output

import (
	"fmt"
	"io"
)

// SplitSummary describes one har2json run.
type SplitSummary struct {
	HarPath      string
	ManifestPath string
	JSONDir      string
	Files        []string
	Skipped      int
}

// MergeSummary describes one json2har run.
type MergeSummary struct {
	ManifestPath string
	OutPath      string
	Rehydrated   []string
	Missing      []string
}

// TokenSummary describes an extract or inject run. For extract, Tokens are
// the tokens present in the output; for inject, the ones left unresolved.
type TokenSummary struct {
	Action  string
	OutPath string
	Tokens  []string
}

// Reporter renders command results.
type Reporter interface {
	Split(s SplitSummary)
	Merge(m MergeSummary)
	Tokens(t TokenSummary)
	Warn(format string, args ...any)
	Error(err error)
}

// Flushable is implemented by reporters that buffer until the command ends.
type Flushable interface {
	Flush() error
}

// Format names accepted by New.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New returns the reporter for format writing to w.
func New(format string, w io.Writer, verbose, noColor bool) (Reporter, error) {
	switch format {
	case "", FormatConsole:
		return NewConsoleFormatter(WithWriter(w), WithVerbose(verbose), WithNoColor(noColor)), nil
	case FormatJSON:
		return NewJSONFormatter(JSONWithWriter(w)), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
