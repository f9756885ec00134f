// Package cmd implements the harkit CLI commands using Cobra.
//
// Available commands:
//   - extract: Replace values in a file with {{ TOKEN }} placeholders
//   - inject: Replace {{ TOKEN }} placeholders with values
//   - har2json: Split the JSON response bodies of a HAR file into files
//   - json2har: Rebuild a HAR file from a manifest and its JSON files
//   - record: Record traffic through a proxy into a named recording
//   - mock: Rebuild a named recording with injected values and replay it
//   - init: Create a harkit config and example rule files
//   - version: Show harkit version information
package cmd
