// Package har splits HTTP Archive captures into per-response JSON files and
// merges them back.
//
// Splitting walks log.entries in order. Every entry whose response carries a
// JSON body (mimeType containing application/json) has the body written,
// tab indented, to a file under the JSON root whose path mirrors the request
// URL:
//
//	https://example.com/api/users  ->  https:/example.com/api/users_0.json
//	https://example.com/graphql    ->  https:/example.com/graphql/getUser_0.json
//
// GraphQL requests are named after the first field selected by the first
// operation of the posted query. A numeric suffix keeps names unique; files
// already on disk are never overwritten. The entry's response text is
// replaced with the file path relative to the JSON root, and the edited
// capture is wrapped as {"har": ...} in the manifest.
//
// Merging reads the manifest, replaces every response text ending in .json
// with the compact contents of the referenced file, and returns the capture.
// A missing file is reported as a warning and the entry is left as it is.
//
// The capture is edited in place with sjson, so fields this package does not
// know about keep their exact bytes and key order.
package har
