package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/harkit/packages/core/errcode"
	"github.com/fatih/color"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

// NewConsoleFormatter writes to stderr by default so command output on
// stdout stays clean.
func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stderr,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) Split(s SplitSummary) {
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(f.writer, "%s Split %s -> %s\n", green("✓"), s.HarPath, s.ManifestPath)
	fmt.Fprintf(f.writer, "  %s written to %s, %d left inline\n",
		cyan(plural(len(s.Files), "JSON file")), s.JSONDir, s.Skipped)

	if f.verbose {
		for _, file := range s.Files {
			fmt.Fprintf(f.writer, "    %s\n", file)
		}
	}
}

func (f *ConsoleFormatter) Merge(m MergeSummary) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	symbol := green("✓")
	if len(m.Missing) > 0 {
		symbol = yellow("!")
	}
	fmt.Fprintf(f.writer, "%s Merged %s -> %s\n", symbol, m.ManifestPath, m.OutPath)
	fmt.Fprintf(f.writer, "  %s rehydrated", cyan(plural(len(m.Rehydrated), "JSON file")))
	if len(m.Missing) > 0 {
		fmt.Fprintf(f.writer, ", %s", yellow(fmt.Sprintf("%d missing", len(m.Missing))))
	}
	fmt.Fprintf(f.writer, "\n")

	for _, missing := range m.Missing {
		fmt.Fprintf(f.writer, "    %s %s\n", yellow("missing"), missing)
	}
	if f.verbose {
		for _, file := range m.Rehydrated {
			fmt.Fprintf(f.writer, "    %s\n", file)
		}
	}
}

func (f *ConsoleFormatter) Tokens(t TokenSummary) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	dest := t.OutPath
	if dest == "" {
		dest = "stdout"
	}

	switch t.Action {
	case "inject":
		if len(t.Tokens) == 0 {
			fmt.Fprintf(f.writer, "%s Injected all tokens -> %s\n", green("✓"), dest)
			return
		}
		fmt.Fprintf(f.writer, "%s Injected -> %s, %s: %s\n", yellow("!"), dest,
			yellow(plural(len(t.Tokens), "unresolved token")), strings.Join(t.Tokens, ", "))
	default:
		fmt.Fprintf(f.writer, "%s Extracted %s -> %s\n", green("✓"), plural(len(t.Tokens), "token"), dest)
		if f.verbose {
			for _, name := range t.Tokens {
				fmt.Fprintf(f.writer, "    {{ %s }}\n", name)
			}
		}
	}
}

func (f *ConsoleFormatter) Warn(format string, args ...any) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", yellow("Warning:"), fmt.Sprintf(format, args...))
}

func (f *ConsoleFormatter) Error(err error) {
	red := color.New(color.FgRed).SprintFunc()
	if code := errcode.CodeOf(err); code != "" {
		fmt.Fprintf(f.writer, "%s %v %s\n", red("Error:"), err, red("["+string(code)+"]"))
		return
	}
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("harkit"), version)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
