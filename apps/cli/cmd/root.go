package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/abdul-hamid-achik/harkit/packages/core/config"
	"github.com/abdul-hamid-achik/harkit/packages/output"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag  string
	verboseFlag bool
	noColorFlag bool
	formatFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "harkit",
	Short: "Tokenize secrets in HTTP captures and split HAR files into editable JSON.",
	Long: `harkit turns HTTP Archive captures into reviewable, shareable fixtures.

It replaces secrets and volatile values with {{ TOKEN }} placeholders,
splits every JSON response body of a HAR file into its own pretty-printed
file, and puts everything back together again, with real values injected,
when a capture is replayed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		reporter, rerr := output.New(formatFlag, os.Stderr, verboseFlag, noColorFlag)
		if rerr != nil {
			reporter = output.NewConsoleFormatter(output.WithNoColor(noColorFlag))
		}
		reporter.Error(err)
		flush(reporter)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", getEnvString("HARKIT_CONFIG", ""), "Path to config file (env: HARKIT_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("HARKIT_VERBOSE", false), "Verbose output (env: HARKIT_VERBOSE)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", getEnvBool("HARKIT_NO_COLOR", false), "Disable colored output (env: HARKIT_NO_COLOR)")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", getEnvString("HARKIT_FORMAT", output.FormatConsole), "Report format: console, json (env: HARKIT_FORMAT)")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(injectCmd)
	rootCmd.AddCommand(har2jsonCmd)
	rootCmd.AddCommand(json2harCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(mockCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return val == "yes"
		}
		return b
	}
	return defaultVal
}

// loadConfig reads the config file and lets global flags override it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, err
	}

	overrides := &config.Config{}
	if cmd.Flags().Changed("verbose") {
		overrides.Verbose = config.BoolPtr(verboseFlag)
	}
	if cmd.Flags().Changed("no-color") {
		overrides.NoColor = config.BoolPtr(noColorFlag)
	}
	return cfg.Merge(overrides), nil
}

// newReporter returns the reporter for the current flags, writing to the
// command's error stream so stdout can carry command output.
func newReporter(cmd *cobra.Command, cfg *config.Config) (output.Reporter, error) {
	var w io.Writer = cmd.ErrOrStderr()
	if formatFlag == output.FormatJSON {
		w = cmd.OutOrStdout()
	}
	return reporterTo(w, cfg)
}

// newOutputReporter is newReporter for commands that write their result to
// outPath, or to stdout when outPath is empty. The report never shares
// stdout with the result.
func newOutputReporter(cmd *cobra.Command, cfg *config.Config, outPath string) (output.Reporter, error) {
	if outPath == "" {
		return reporterTo(cmd.ErrOrStderr(), cfg)
	}
	return newReporter(cmd, cfg)
}

func reporterTo(w io.Writer, cfg *config.Config) (output.Reporter, error) {
	verbose, noColor := verboseFlag, noColorFlag
	if cfg != nil {
		verbose, noColor = cfg.GetVerbose(), cfg.GetNoColor()
	}
	return output.New(formatFlag, w, verbose, noColor)
}

// printHeader prints the version banner on console reporters.
func printHeader(r output.Reporter) {
	if c, ok := r.(*output.ConsoleFormatter); ok {
		c.FormatHeader(version)
	}
}

func flush(r output.Reporter) {
	if f, ok := r.(output.Flushable); ok {
		if err := f.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to write report: %v\n", err)
		}
	}
}
