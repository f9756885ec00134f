package cmd

import (
	"errors"
	"os"

	"github.com/abdul-hamid-achik/harkit/packages/core/config"
	"github.com/abdul-hamid-achik/harkit/packages/core/errcode"
	"github.com/abdul-hamid-achik/harkit/packages/core/fsutil"
	"github.com/abdul-hamid-achik/harkit/packages/mustache"
	"github.com/spf13/cobra"
)

var ErrInputFileNotFound = errcode.New("INPUT_FILE_NOT_FOUND", "input file not found")

var (
	defaultExtractionFiles = []string{"extractions.yaml", "extractions.yml", "extractions.json"}
	defaultInjectionFiles  = []string{"injections.yaml", "injections.yml", "injections.json"}
)

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrInputFileNotFound.With(err, "path", path)
	}
	return data, nil
}

// writeOutput writes data to path, or to the command's stdout when path is
// empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return fsutil.WriteFileAtomic(path, data)
}

// loadRules reads extraction rules from file, the default rule files, or
// the config, in that order.
func loadRules(cfg *config.Config, file string) ([]mustache.Rule, error) {
	specs, err := config.LoadExtractions(file, defaultExtractionFiles)
	if errors.Is(err, config.ErrExtractionsFileNotFound) && file == "" && len(cfg.Extractions) > 0 {
		specs, err = cfg.Extractions, nil
	}
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, config.ErrNoExtractionsFound
	}
	return mustache.Rules(specs)
}

func loadInjections(file string) (map[string]string, error) {
	values, err := config.LoadInjections(file, defaultInjectionFiles)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, config.ErrNoInjectionsFound
	}
	return values, nil
}
