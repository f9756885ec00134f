package har

import "github.com/abdul-hamid-achik/harkit/packages/core/errcode"

// HAR -> JSON
var (
	ErrHarFileNotFound = errcode.New(
		"HAR_FILE_NOT_FOUND", "HAR file not found")
	ErrHarParseFailed = errcode.New(
		"HAR_PARSE_FAILED", "failed to parse HAR file")
	ErrGraphQLParseFailed = errcode.New(
		"HAR_GRAPHQL_PARSE_FAILED", "failed to extract operation name from GraphQL request")
	ErrHarResponseParseFailed = errcode.New(
		"HAR_RESPONSE_PARSE_FAILED", "failed to parse HAR response content")
)

// JSON -> HAR
var (
	ErrJSONDirectoryNotFound = errcode.New(
		"HAR_JSON_DIRECTORY_NOT_FOUND", "JSON directory not found")
	ErrManifestFileNotFound = errcode.New(
		"HAR_MANIFEST_FILE_NOT_FOUND", "manifest file not found")
	ErrManifestParseFailed = errcode.New(
		"HAR_MANIFEST_PARSE_FAILED", "failed to parse manifest file")
	ErrJSONFileParseFailed = errcode.New(
		"HAR_JSON_FILE_PARSE_FAILED", "failed to parse JSON file")
)

var ErrWriteFailed = errcode.New("HAR_WRITE_FAILED", "failed to write file")
