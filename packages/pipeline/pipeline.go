// Package pipeline composes the token engine and the HAR splitter into the
// two flows around a named recording:
//
//	capture:  HAR -> extract tokens -> api.har -> split -> json/ + manifest.json
//	prepare:  manifest.json + json/ -> merge -> inject values -> HAR
package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/harkit/packages/core/errcode"
	"github.com/abdul-hamid-achik/harkit/packages/core/fsutil"
	"github.com/abdul-hamid-achik/harkit/packages/har"
	"github.com/abdul-hamid-achik/harkit/packages/mustache"
)

var (
	ErrRecordingNameRequired = errcode.New("RECORDING_NAME_REQUIRED", "recording name is required")
	ErrRecordingFileNotFound = errcode.New("RECORDING_FILE_NOT_FOUND", "recording file not found")
)

const (
	HARFile      = "api.har"
	ManifestFile = "manifest.json"
	JSONDir      = "json"
)

// Layout locates the files of one named recording.
type Layout struct {
	Name         string
	Dir          string
	HARPath      string
	ManifestPath string
	JSONDir      string
}

// NewLayout returns the layout of recording name under root. jsonDir
// overrides the directory holding split bodies, relative to the recording.
func NewLayout(root, name, jsonDir string) (*Layout, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrRecordingNameRequired
	}
	if jsonDir == "" {
		jsonDir = JSONDir
	}

	dir := filepath.Join(root, name)
	return &Layout{
		Name:         name,
		Dir:          dir,
		HARPath:      filepath.Join(dir, HARFile),
		ManifestPath: filepath.Join(dir, ManifestFile),
		JSONDir:      filepath.Join(dir, jsonDir),
	}, nil
}

// Capture tokenizes capture with rules, stores it as the recording's
// api.har and splits it into the recording's JSON directory.
func Capture(layout *Layout, capture []byte, rules []mustache.Rule) (*har.Manifest, error) {
	extracted, err := mustache.Extract(string(capture), rules)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(layout.JSONDir, 0755); err != nil {
		return nil, har.ErrWriteFailed.With(err, "path", layout.JSONDir)
	}
	if err := fsutil.WriteFileAtomic(layout.HARPath, []byte(extracted)); err != nil {
		return nil, har.ErrWriteFailed.With(err, "path", layout.HARPath)
	}

	return har.NewSplitter(layout.JSONDir).SplitFile(layout.HARPath, layout.ManifestPath)
}

// Prepared is the outcome of Prepare.
type Prepared struct {
	HAR        []byte
	Merge      *har.MergeResult
	Unresolved []string
}

// Prepare rehydrates the recording, injects values into it and writes the
// result to outPath when outPath is set.
func Prepare(layout *Layout, values map[string]string, outPath string, warn har.WarnFunc) (*Prepared, error) {
	if !fsutil.Exists(layout.ManifestPath) {
		return nil, ErrRecordingFileNotFound.With(nil, "recording", layout.Name, "path", layout.ManifestPath)
	}
	manifest, err := os.ReadFile(layout.ManifestPath)
	if err != nil {
		return nil, ErrRecordingFileNotFound.With(err, "recording", layout.Name, "path", layout.ManifestPath)
	}

	var opts []har.MergeOption
	if warn != nil {
		opts = append(opts, har.WithWarnFunc(warn))
	}
	res, err := har.NewMerger(layout.JSONDir, opts...).Merge(manifest)
	if err != nil {
		return nil, err
	}

	injected := mustache.Inject(string(res.HAR), values)
	if outPath != "" {
		if err := fsutil.WriteFileAtomic(outPath, []byte(injected)); err != nil {
			return nil, har.ErrWriteFailed.With(err, "path", outPath)
		}
	}

	return &Prepared{
		HAR:        []byte(injected),
		Merge:      res,
		Unresolved: mustache.Tokens(injected),
	}, nil
}
