package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/harkit/packages/core/config"
	"github.com/abdul-hamid-achik/harkit/packages/har"
	"github.com/abdul-hamid-achik/harkit/packages/mock"
	"github.com/abdul-hamid-achik/harkit/packages/output"
	"github.com/abdul-hamid-achik/harkit/packages/pipeline"
	"github.com/spf13/cobra"
)

var (
	mockValuesFlag string
	mockOutputFlag string
	mockServeFlag  bool
	mockPortFlag   int
	mockDelayFlag  string
	mockRateFlag   float64
	mockBurstFlag  int
)

var mockCmd = &cobra.Command{
	Use:   "mock <name>",
	Short: "Rebuild a named recording with injected values and replay it",
	Long: `Rebuild the HAR file of a named recording from its manifest and JSON
files, replace its {{ TOKEN }} placeholders with the injection values and
write it to --output (default: <directory>/<name>/mock.har).

With --serve the rebuilt capture is replayed by an HTTP server: each
method and path (and GraphQL operation) answers with its recorded
responses in order, repeating the last one.

Examples:
  harkit mock login -i injections.yaml
  harkit mock login --serve --port 3000
  harkit mock login --serve --delay 100ms --rate 50`,
	Args: cobra.ExactArgs(1),
	RunE: mockCommand,
}

func init() {
	mockCmd.Flags().StringVarP(&mockValuesFlag, "injections", "i", "", "Injection values file (YAML or JSON)")
	mockCmd.Flags().StringVarP(&mockOutputFlag, "output", "o", "", "Output HAR file (default: <recording>/mock.har)")
	mockCmd.Flags().BoolVar(&mockServeFlag, "serve", false, "Replay the rebuilt capture over HTTP")
	mockCmd.Flags().IntVarP(&mockPortFlag, "port", "p", 3000, "Port to run the mock server on")
	mockCmd.Flags().StringVarP(&mockDelayFlag, "delay", "d", "0", "Delay to add to all responses (e.g., 100ms, 1s)")
	mockCmd.Flags().Float64Var(&mockRateFlag, "rate", 0, "Maximum requests per second, 0 for unlimited")
	mockCmd.Flags().IntVar(&mockBurstFlag, "burst", 1, "Burst size when --rate is set")
}

func mockCommand(cmd *cobra.Command, args []string) error {
	var delay time.Duration
	if mockDelayFlag != "0" {
		var err error
		delay, err = time.ParseDuration(mockDelayFlag)
		if err != nil {
			return fmt.Errorf("invalid delay value %q: %w", mockDelayFlag, err)
		}
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	layout, err := pipeline.NewLayout(cfg.Directory, args[0], cfg.JSONDir)
	if err != nil {
		return err
	}
	reporter, err := newReporter(cmd, cfg)
	if err != nil {
		return err
	}
	printHeader(reporter)

	values, err := loadInjections(mockValuesFlag)
	switch {
	case err == nil:
	case mockValuesFlag == "" && (errors.Is(err, config.ErrInjectionsFileNotFound) || errors.Is(err, config.ErrNoInjectionsFound)):
		reporter.Warn("no injection values found, placeholders are left in place")
		values = nil
	default:
		return err
	}

	outPath := mockOutputFlag
	if outPath == "" {
		outPath = filepath.Join(layout.Dir, "mock.har")
	}
	prepared, err := pipeline.Prepare(layout, values, outPath, reporter.Warn)
	if err != nil {
		return err
	}

	reporter.Merge(output.MergeSummary{
		ManifestPath: layout.ManifestPath,
		OutPath:      outPath,
		Rehydrated:   prepared.Merge.Rehydrated,
		Missing:      prepared.Merge.Missing,
	})
	reporter.Tokens(output.TokenSummary{Action: "inject", OutPath: outPath, Tokens: prepared.Unresolved})
	flush(reporter)

	if !mockServeFlag {
		return nil
	}

	doc, err := har.Decode(prepared.HAR)
	if err != nil {
		return err
	}
	server := mock.NewServer(
		mock.WithPort(mockPortFlag),
		mock.WithDelay(delay),
		mock.WithVerbose(cfg.GetVerbose()),
		mock.WithRateLimit(mockRateFlag, mockBurstFlag),
	)
	if err := server.LoadHAR(doc); err != nil {
		return err
	}
	if len(server.GetRoutes()) == 0 {
		return fmt.Errorf("no routes found in recording %s", layout.Name)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return server.StartWithContext(ctx)
}
