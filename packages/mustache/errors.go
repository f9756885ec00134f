package mustache

import "github.com/abdul-hamid-achik/harkit/packages/core/errcode"

var (
	ErrEnvFileNotFound = errcode.New(
		"MUSTACHE_ENV_FILE_NOT_FOUND", "failed to load environment file")
	ErrEmptyStringPattern = errcode.New(
		"MUSTACHE_EXTRACTIONS_EMPTY_STRING_PATTERN", "invalid extraction string: empty pattern")
	ErrEmptyRegexPattern = errcode.New(
		"MUSTACHE_EXTRACTIONS_EMPTY_REGEX_PATTERN", "invalid extraction regex: empty pattern")
	ErrInvalidRegex = errcode.New(
		"MUSTACHE_EXTRACTIONS_INVALID_REGEX", "invalid extraction regex")
	ErrExtractionsUnrecognized = errcode.New(
		"MUSTACHE_EXTRACTIONS_UNRECOGNIZED", "unrecognized extraction")
	ErrReplaceFailed = errcode.New(
		"MUSTACHE_REPLACE_FAILED", "failed to apply extraction")
)
