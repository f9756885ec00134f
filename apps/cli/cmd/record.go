package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/abdul-hamid-achik/harkit/packages/core/config"
	"github.com/abdul-hamid-achik/harkit/packages/mustache"
	"github.com/abdul-hamid-achik/harkit/packages/output"
	"github.com/abdul-hamid-achik/harkit/packages/pipeline"
	"github.com/abdul-hamid-achik/harkit/packages/proxy"
	"github.com/spf13/cobra"
)

var (
	recordPortFlag    int
	recordTargetFlag  string
	recordBaseFlag    string
	recordExcludeFlag string
	recordRulesFlag   string
)

var recordCmd = &cobra.Command{
	Use:   "record <name>",
	Short: "Record traffic through a proxy into a named recording",
	Long: `Start an HTTP proxy that forwards to the target and records every
request and response as a HAR entry. When the proxy stops, the capture is
tokenized with the extraction rules and stored as a named recording:

  <directory>/<name>/api.har         tokenized capture
  <directory>/<name>/json/           one file per JSON response body
  <directory>/<name>/manifest.json   capture referencing those files

Only requests whose URL starts with --base-url (or baseRequestURL in the
config) are recorded.

Examples:
  harkit record login --target https://api.example.com
  harkit record login -t https://api.example.com -b https://api.example.com/v2
  harkit record login -t https://api.example.com --exclude "/health,/metrics"`,
	Args: cobra.ExactArgs(1),
	RunE: recordCommand,
}

func init() {
	recordCmd.Flags().IntVarP(&recordPortFlag, "port", "p", 0, "Port to run the proxy on (default: config port)")
	recordCmd.Flags().StringVarP(&recordTargetFlag, "target", "t", "", "Target URL to proxy to (default: config targetURL)")
	recordCmd.Flags().StringVarP(&recordBaseFlag, "base-url", "b", "", "Only record URLs with this prefix (default: config baseRequestURL)")
	recordCmd.Flags().StringVar(&recordExcludeFlag, "exclude", "", "Paths to exclude from recording (comma-separated)")
	recordCmd.Flags().StringVarP(&recordRulesFlag, "extractions", "e", "", "Extraction rules file (YAML or JSON)")
}

func recordCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg = cfg.Merge(&config.Config{
		Port:           recordPortFlag,
		TargetURL:      recordTargetFlag,
		BaseRequestURL: recordBaseFlag,
	})
	if cfg.TargetURL == "" {
		return fmt.Errorf("target URL is required (--target or targetURL in config)")
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

	rules, err := loadRules(cfg, recordRulesFlag)
	switch {
	case err == nil:
	case recordRulesFlag == "" && (errors.Is(err, config.ErrExtractionsFileNotFound) || errors.Is(err, config.ErrNoExtractionsFound)):
		reporter.Warn("no extraction rules found, the capture is stored as recorded")
		rules = []mustache.Rule{}
	default:
		return err
	}

	var excludePaths []string
	for _, p := range strings.Split(recordExcludeFlag, ",") {
		if p = strings.TrimSpace(p); p != "" {
			excludePaths = append(excludePaths, p)
		}
	}

	recorder := proxy.NewRecorder(
		proxy.WithPort(cfg.Port),
		proxy.WithTargetURL(cfg.TargetURL),
		proxy.WithBaseRequestURL(cfg.BaseRequestURL),
		proxy.WithVerbose(cfg.GetVerbose()),
		proxy.WithExclude(excludePaths),
		proxy.WithCreator("harkit", version),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := recorder.StartWithContext(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "\nStopping proxy, recorded %d requests\n", recorder.Len())

	if recorder.Len() == 0 {
		return nil
	}

	capture, err := recorder.ExportHAR()
	if err != nil {
		return fmt.Errorf("failed to export HAR: %w", err)
	}
	m, err := pipeline.Capture(layout, capture, rules)
	if err != nil {
		return err
	}

	reporter.Split(output.SplitSummary{
		HarPath:      layout.HARPath,
		ManifestPath: layout.ManifestPath,
		JSONDir:      layout.JSONDir,
		Files:        m.Files,
		Skipped:      m.Skipped,
	})
	flush(reporter)
	return nil
}
