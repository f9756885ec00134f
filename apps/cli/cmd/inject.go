package cmd

import (
	"github.com/abdul-hamid-achik/harkit/packages/mustache"
	"github.com/abdul-hamid-achik/harkit/packages/output"
	"github.com/spf13/cobra"
)

var (
	injectValuesFlag string
	injectOutputFlag string
)

var injectCmd = &cobra.Command{
	Use:   "inject <file>",
	Short: "Replace {{ TOKEN }} placeholders with values",
	Long: `Replace every {{ TOKEN }} placeholder in a file with its value.

Values come from --injections, else injections.yaml/.yml/.json in the
current directory: a flat map of token names to values. Placeholders
without a value are left in place and reported.

Examples:
  harkit inject api.tokenized.har -i staging.yaml -o api.har`,
	Args: cobra.ExactArgs(1),
	RunE: injectCommand,
}

func init() {
	injectCmd.Flags().StringVarP(&injectValuesFlag, "injections", "i", "", "Injection values file (YAML or JSON)")
	injectCmd.Flags().StringVarP(&injectOutputFlag, "output", "o", "", "Output file (default: stdout)")
}

func injectCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	values, err := loadInjections(injectValuesFlag)
	if err != nil {
		return err
	}
	input, err := readInput(args[0])
	if err != nil {
		return err
	}

	injected := mustache.Inject(string(input), values)
	if err := writeOutput(cmd, injectOutputFlag, []byte(injected)); err != nil {
		return err
	}

	reporter, err := newOutputReporter(cmd, cfg, injectOutputFlag)
	if err != nil {
		return err
	}
	reporter.Tokens(output.TokenSummary{
		Action:  "inject",
		OutPath: injectOutputFlag,
		Tokens:  mustache.Tokens(injected),
	})
	flush(reporter)
	return nil
}
