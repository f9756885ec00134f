package cmd

import (
	"strings"

	"github.com/abdul-hamid-achik/harkit/packages/core/config"
	"github.com/abdul-hamid-achik/harkit/packages/core/errcode"
	"github.com/abdul-hamid-achik/harkit/packages/mustache"
	"github.com/abdul-hamid-achik/harkit/packages/pipeline"
)

// Exit codes for harkit CLI
const (
	// ExitSuccess indicates the command completed
	ExitSuccess = 0

	// ExitFailure indicates an unclassified failure
	ExitFailure = 1

	// ExitParseError indicates a file could not be parsed
	ExitParseError = 2

	// ExitConfigError indicates invalid configuration or rules
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64

	// ExitNoInput indicates an input file or directory does not exist
	ExitNoInput = 66
)

var configCodes = map[errcode.Code]bool{
	mustache.ErrEmptyStringPattern.Code:      true,
	mustache.ErrEmptyRegexPattern.Code:       true,
	mustache.ErrInvalidRegex.Code:            true,
	mustache.ErrExtractionsUnrecognized.Code: true,
	config.ErrUnsupportedFileType.Code:       true,
	config.ErrNoExtractionsFound.Code:        true,
	config.ErrNoInjectionsFound.Code:         true,
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	code := errcode.CodeOf(err)
	switch {
	case code == "":
		return ExitFailure
	case code == pipeline.ErrRecordingNameRequired.Code:
		return ExitUsageError
	case strings.HasSuffix(string(code), "_NOT_FOUND"):
		return ExitNoInput
	case strings.HasSuffix(string(code), "_PARSE_FAILED"):
		return ExitParseError
	case configCodes[code]:
		return ExitConfigError
	default:
		return ExitFailure
	}
}
