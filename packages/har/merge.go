package har

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/harkit/packages/core/fsutil"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// WarnFunc receives non-fatal problems found while merging.
type WarnFunc func(format string, args ...any)

// MergeResult is the outcome of a merge.
type MergeResult struct {
	// HAR is the rehydrated capture, tab indented.
	HAR []byte
	// Rehydrated lists the manifest paths whose files were inlined.
	Rehydrated []string
	// Missing lists the manifest paths with no file on disk.
	Missing []string
}

// MergeOption configures a Merger.
type MergeOption func(*Merger)

// WithWarnFunc sets the function called for each missing file.
func WithWarnFunc(fn WarnFunc) MergeOption {
	return func(m *Merger) {
		m.warn = fn
	}
}

// Merger inlines split JSON files back into a capture.
type Merger struct {
	jsonDir string
	warn    WarnFunc
}

// NewMerger creates a Merger reading files under jsonDir.
func NewMerger(jsonDir string, opts ...MergeOption) *Merger {
	m := &Merger{
		jsonDir: jsonDir,
		warn:    func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ParseManifest returns the capture held by a manifest document.
func ParseManifest(manifest []byte) ([]byte, error) {
	if err := checkJSON(manifest); err != nil {
		return nil, err
	}
	har := gjson.GetBytes(manifest, "har")
	if !har.IsObject() {
		return nil, errors.New(`manifest has no "har" object`)
	}
	capture := []byte(har.Raw)
	if err := Validate(capture); err != nil {
		return nil, err
	}
	return capture, nil
}

// Merge replaces every response text ending in ".json" with the compact
// contents of that file under the JSON root.
func (m *Merger) Merge(manifest []byte) (*MergeResult, error) {
	if !fsutil.IsDir(m.jsonDir) {
		return nil, ErrJSONDirectoryNotFound.With(nil, "jsonDirectoryPath", m.jsonDir)
	}
	capture, err := ParseManifest(manifest)
	if err != nil {
		return nil, ErrManifestParseFailed.With(err)
	}

	out := append([]byte(nil), capture...)
	res := &MergeResult{}

	for i, entry := range gjson.GetBytes(capture, "log.entries").Array() {
		text := entry.Get("response.content.text")
		if text.Type != gjson.String || !strings.HasSuffix(text.String(), ".json") {
			continue
		}

		rel := text.String()
		path := filepath.Join(m.jsonDir, filepath.FromSlash(rel))
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			m.warn("JSON file not found: %s", rel)
			res.Missing = append(res.Missing, rel)
			continue
		}
		if err != nil {
			return nil, ErrJSONFileParseFailed.With(err, "jsonFilePath", path)
		}

		body, err := compactJSON(data)
		if err != nil {
			return nil, ErrJSONFileParseFailed.With(err, "jsonFilePath", path)
		}

		out, err = sjson.SetBytes(out, fmt.Sprintf("log.entries.%d.response.content.text", i), string(body))
		if err != nil {
			return nil, ErrManifestParseFailed.With(err, "entry", i)
		}
		res.Rehydrated = append(res.Rehydrated, rel)
	}

	if res.HAR, err = indentJSON(out); err != nil {
		return nil, ErrManifestParseFailed.With(err)
	}
	return res, nil
}

// MergeFile merges the manifest at manifestPath and writes the capture to
// outPath.
func (m *Merger) MergeFile(manifestPath, outPath string) (*MergeResult, error) {
	if !fsutil.Exists(manifestPath) {
		return nil, ErrManifestFileNotFound.With(nil, "manifestFilePath", manifestPath)
	}
	if !fsutil.IsDir(m.jsonDir) {
		return nil, ErrJSONDirectoryNotFound.With(nil, "jsonDirectoryPath", m.jsonDir)
	}
	manifest, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, ErrManifestFileNotFound.With(err, "manifestFilePath", manifestPath)
	}

	res, err := m.Merge(manifest)
	if err != nil {
		return nil, err
	}
	if err := fsutil.WriteFileAtomic(outPath, res.HAR); err != nil {
		return nil, ErrWriteFailed.With(err, "path", outPath)
	}
	return res, nil
}
