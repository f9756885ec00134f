package cmd

import (
	"github.com/abdul-hamid-achik/harkit/packages/har"
	"github.com/abdul-hamid-achik/harkit/packages/output"
	"github.com/spf13/cobra"
)

var har2jsonDirFlag string

var har2jsonCmd = &cobra.Command{
	Use:   "har2json <har> <manifest>",
	Short: "Split the JSON response bodies of a HAR file into files",
	Long: `Write every JSON response body of a HAR file to its own tab-indented
file under the JSON directory, named after the request URL, and write a
manifest that references those files in place of the bodies.

GraphQL responses are named after the first field of the posted query:
  https://api.example.com/graphql -> https:/api.example.com/graphql/getUser_0.json

Existing files are never overwritten; numbering continues instead.

Examples:
  harkit har2json api.har manifest.json
  harkit har2json api.har manifest.json -j fixtures/json`,
	Args: cobra.ExactArgs(2),
	RunE: har2jsonCommand,
}

func init() {
	har2jsonCmd.Flags().StringVarP(&har2jsonDirFlag, "json-dir", "j", "json", "Directory for the JSON files")
}

func har2jsonCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	harPath, manifestPath := args[0], args[1]

	m, err := har.NewSplitter(har2jsonDirFlag).SplitFile(harPath, manifestPath)
	if err != nil {
		return err
	}

	reporter, err := newReporter(cmd, cfg)
	if err != nil {
		return err
	}
	reporter.Split(output.SplitSummary{
		HarPath:      harPath,
		ManifestPath: manifestPath,
		JSONDir:      har2jsonDirFlag,
		Files:        m.Files,
		Skipped:      m.Skipped,
	})
	flush(reporter)
	return nil
}
