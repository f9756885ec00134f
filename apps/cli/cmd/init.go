package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/harkit/packages/core/config"
	"github.com/abdul-hamid-achik/harkit/packages/mustache"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new harkit project",
	Long: `Initialize a new harkit project in the current directory.

This creates:
  - harkit.config.yaml  - Configuration file with recording settings
  - extractions.yaml    - Example extraction rules
  - injections.yaml     - Example injection values

Examples:
  harkit init
  harkit init --force`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, "harkit.config.yaml")
	extractionsFile := filepath.Join(cwd, "extractions.yaml")
	injectionsFile := filepath.Join(cwd, "injections.yaml")

	if !forceInit {
		for _, f := range []string{configFile, extractionsFile, injectionsFile} {
			if _, err := os.Stat(f); err == nil {
				return fmt.Errorf("file already exists: %s (use --force to overwrite)", f)
			}
		}
	}

	cfg := config.DefaultConfig()
	cfg.TargetURL = "https://api.example.com"
	cfg.BaseRequestURL = "https://api.example.com"
	cfg.Verbose = nil
	cfg.NoColor = nil
	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	extractions := []mustache.RuleSpec{
		{Type: mustache.RuleTypeEnv, Path: ".env"},
		{Type: mustache.RuleTypeString, Property: "API_HOST", Search: "api.example.com", Replace: "{{ property }}"},
		{Type: mustache.RuleTypeRegex, Property: "ACCESS_TOKEN", Search: `Bearer [A-Za-z0-9._~+/-]+=*`, Replace: "Bearer {{ property }}"},
	}
	extractionsYAML, _ := yaml.Marshal(extractions)
	if err := os.WriteFile(extractionsFile, extractionsYAML, 0644); err != nil {
		return fmt.Errorf("failed to create extractions file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", extractionsFile)

	injections := map[string]string{
		"API_HOST":     "localhost:3000",
		"ACCESS_TOKEN": "test-token",
	}
	injectionsYAML, _ := yaml.Marshal(injections)
	if err := os.WriteFile(injectionsFile, injectionsYAML, 0644); err != nil {
		return fmt.Errorf("failed to create injections file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", injectionsFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nharkit project initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'harkit record <name>' to capture traffic through the proxy.\n")

	return nil
}
