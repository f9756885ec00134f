package config

import "github.com/abdul-hamid-achik/harkit/packages/core/errcode"

var (
	ErrConfigFileNotFound  = errcode.New("CONFIG_FILE_NOT_FOUND", "config file not found")
	ErrConfigParseFailed   = errcode.New("CONFIG_PARSE_FAILED", "failed to parse config file")
	ErrUnsupportedFileType = errcode.New("CONFIG_UNSUPPORTED_FILE_TYPE", "unsupported file type")
)

var (
	ErrExtractionsFileNotFound = errcode.New("EXTRACTIONS_FILE_NOT_FOUND", "extractions file not found")
	ErrExtractionsParseFailed  = errcode.New("EXTRACTIONS_PARSE_FAILED", "failed to parse extractions file")
	ErrNoExtractionsFound      = errcode.New("NO_EXTRACTIONS_FOUND", "no extractions found")

	ErrInjectionsFileNotFound = errcode.New("INJECTIONS_FILE_NOT_FOUND", "injections file not found")
	ErrInjectionsParseFailed  = errcode.New("INJECTIONS_PARSE_FAILED", "failed to parse injections file")
	ErrNoInjectionsFound      = errcode.New("NO_INJECTIONS_FOUND", "no injections found")
)
