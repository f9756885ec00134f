// Package output reports the results of harkit commands.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output, written once on Flush
//
// Both implement Reporter. Formats that accumulate results before output
// also implement Flushable.
package output
