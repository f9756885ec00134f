package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/harkit/packages/mustache"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Config represents the harkit configuration
type Config struct {
	Directory      string              `json:"directory,omitempty" yaml:"directory,omitempty"`           // Root of named recordings
	BaseRequestURL string              `json:"baseRequestURL,omitempty" yaml:"baseRequestURL,omitempty"` // Only URLs with this prefix are recorded
	TargetURL      string              `json:"targetURL,omitempty" yaml:"targetURL,omitempty"`           // Upstream the recording proxy forwards to
	Port           int                 `json:"port,omitempty" yaml:"port,omitempty"`
	JSONDir        string              `json:"jsonDir,omitempty" yaml:"jsonDir,omitempty"` // Split bodies, relative to the recording
	Extractions    []mustache.RuleSpec `json:"extractions,omitempty" yaml:"extractions,omitempty"`
	Verbose        *bool               `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	NoColor        *bool               `json:"noColor,omitempty" yaml:"noColor,omitempty"`
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ConfigFilenames contains the possible config file names, in search order
var ConfigFilenames = []string{
	"harkit.config.yaml",
	"harkit.config.yml",
	"harkit.config.json",
	".harkitrc",
}

// LoadConfig loads configuration from the specified path or searches the
// current directory for a config file
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, ErrConfigFileNotFound.With(err, "configFilePath", path)
		}
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrConfigFileNotFound.With(err, "configFilePath", path)
	}

	config := DefaultConfig()
	if err := decode(path, data, config); err != nil {
		if errors.Is(err, ErrUnsupportedFileType) {
			return nil, err
		}
		return nil, ErrConfigParseFailed.With(err, "configFilePath", path)
	}
	return config, nil
}

// decode picks the codec from the file extension. Anything that is not
// .json is read as YAML, which also accepts JSON.
func decode(path string, data []byte, v any) error {
	switch fileFormat(path) {
	case formatJSON:
		return json.Unmarshal(data, v)
	case formatYAML:
		return yaml.Unmarshal(data, v)
	default:
		return ErrUnsupportedFileType.With(nil, "path", path)
	}
}

type format int

const (
	formatUnknown format = iota
	formatJSON
	formatYAML
)

func fileFormat(path string) format {
	base := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(base)) {
	case ".json":
		return formatJSON
	case ".yaml", ".yml":
		return formatYAML
	}
	if strings.HasPrefix(base, ".") && !strings.Contains(base[1:], ".") {
		// rc files such as .harkitrc
		return formatYAML
	}
	return formatUnknown
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.Directory != "" {
		result.Directory = other.Directory
	}
	if other.BaseRequestURL != "" {
		result.BaseRequestURL = other.BaseRequestURL
	}
	if other.TargetURL != "" {
		result.TargetURL = other.TargetURL
	}
	if other.Port > 0 {
		result.Port = other.Port
	}
	if other.JSONDir != "" {
		result.JSONDir = other.JSONDir
	}
	if len(other.Extractions) > 0 {
		result.Extractions = other.Extractions
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	return &result
}

// SaveConfig saves the configuration to a file, as JSON or YAML depending
// on the extension
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	switch fileFormat(path) {
	case formatJSON:
		data, err = json.MarshalIndent(c, "", "\t")
	case formatYAML:
		data, err = yaml.Marshal(c)
	default:
		return ErrUnsupportedFileType.With(nil, "path", path)
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
