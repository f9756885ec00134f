package cmd

import (
	"github.com/abdul-hamid-achik/harkit/packages/mustache"
	"github.com/abdul-hamid-achik/harkit/packages/output"
	"github.com/spf13/cobra"
)

var (
	extractRulesFlag  string
	extractOutputFlag string
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Replace values in a file with {{ TOKEN }} placeholders",
	Long: `Apply extraction rules to a file, in order, replacing every match with
a {{ TOKEN }} placeholder.

Rules come from --extractions, else extractions.yaml/.yml/.json in the
current directory, else the "extractions" list of the config file.

  - type: env            # every value of a dotenv file becomes {{ KEY }}
    path: .env
  - type: string         # literal match
    property: HOST
    search: api.example.com
    replace: "{{ property }}"
  - type: regex          # pattern match, every occurrence
    property: TOKEN
    search: "Bearer [A-Za-z0-9._-]+"
    replace: "Bearer {{ property }}"

Examples:
  harkit extract api.har -o api.tokenized.har
  harkit extract api.har -e rules.json > api.tokenized.har`,
	Args: cobra.ExactArgs(1),
	RunE: extractCommand,
}

func init() {
	extractCmd.Flags().StringVarP(&extractRulesFlag, "extractions", "e", "", "Extraction rules file (YAML or JSON)")
	extractCmd.Flags().StringVarP(&extractOutputFlag, "output", "o", "", "Output file (default: stdout)")
}

func extractCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rules, err := loadRules(cfg, extractRulesFlag)
	if err != nil {
		return err
	}
	input, err := readInput(args[0])
	if err != nil {
		return err
	}

	extracted, err := mustache.Extract(string(input), rules)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd, extractOutputFlag, []byte(extracted)); err != nil {
		return err
	}

	reporter, err := newOutputReporter(cmd, cfg, extractOutputFlag)
	if err != nil {
		return err
	}
	reporter.Tokens(output.TokenSummary{
		Action:  "extract",
		OutPath: extractOutputFlag,
		Tokens:  mustache.Tokens(extracted),
	})
	flush(reporter)
	return nil
}
