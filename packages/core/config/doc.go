// Package config handles configuration loading and management for harkit.
//
// It provides functionality for:
//   - Loading harkit.config.yaml, harkit.config.json or .harkitrc
//   - Default configuration values
//   - Loading extraction rule files and injection files
package config
