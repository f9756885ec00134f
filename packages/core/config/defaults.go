package config

const (
	DefaultDirectory = "recordings"
	DefaultPort      = 8080
	DefaultJSONDir   = "json"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Directory: DefaultDirectory,
		Port:      DefaultPort,
		JSONDir:   DefaultJSONDir,
		Verbose:   BoolPtr(false),
		NoColor:   BoolPtr(false),
	}
}
