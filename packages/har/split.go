package har

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/harkit/packages/core/fsutil"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	jsonMimeType   = "application/json"
	defaultGraphQL = "/graphql"
)

// Manifest is a capture whose JSON response bodies have been replaced with
// paths to the files holding them.
type Manifest struct {
	// HAR is the edited capture.
	HAR []byte
	// Files lists the written files relative to the JSON root, slash
	// separated, in entry order.
	Files []string
	// Skipped counts entries left inline.
	Skipped int
}

// Bytes returns the manifest document {"har": ...}, tab indented.
func (m *Manifest) Bytes() ([]byte, error) {
	doc, err := sjson.SetRawBytes([]byte(`{}`), "har", m.HAR)
	if err != nil {
		return nil, err
	}
	return indentJSON(doc)
}

// SplitOption configures a Splitter.
type SplitOption func(*Splitter)

// WithGraphQLPath sets the URL fragment that marks a request as GraphQL.
// Defaults to "/graphql".
func WithGraphQLPath(fragment string) SplitOption {
	return func(s *Splitter) {
		s.graphQLPath = fragment
	}
}

// Splitter writes JSON response bodies of captures into a directory tree.
type Splitter struct {
	jsonDir     string
	graphQLPath string
}

// NewSplitter creates a Splitter writing under jsonDir.
func NewSplitter(jsonDir string, opts ...SplitOption) *Splitter {
	s := &Splitter{
		jsonDir:     jsonDir,
		graphQLPath: defaultGraphQL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Split writes every JSON response body of capture to its own file and
// returns the capture with those bodies replaced by relative paths.
// Files written before an error are left on disk.
func (s *Splitter) Split(capture []byte) (*Manifest, error) {
	if err := Validate(capture); err != nil {
		return nil, ErrHarParseFailed.With(err)
	}

	out := append([]byte(nil), capture...)
	m := &Manifest{}

	for i, entry := range gjson.GetBytes(capture, "log.entries").Array() {
		content := entry.Get("response.content")
		text := content.Get("text")
		mime := content.Get("mimeType")
		if text.Type != gjson.String || text.String() == "" ||
			mime.Type != gjson.String || !strings.Contains(mime.String(), jsonMimeType) {
			m.Skipped++
			continue
		}

		url := entry.Get("request.url").String()
		var operation string
		if s.graphQLPath != "" && strings.Contains(url, s.graphQLPath) {
			name, err := OperationName(entry.Get("request.postData.text").String())
			if err != nil {
				return nil, ErrGraphQLParseFailed.With(err, "url", url, "entry", i)
			}
			operation = name
		}

		body, err := indentJSON([]byte(text.String()))
		if err != nil {
			return nil, ErrHarResponseParseFailed.With(err, "url", url, "entry", i)
		}

		rel, err := s.write(stemFor(s.jsonDir, url, operation), body)
		if err != nil {
			return nil, err
		}

		out, err = sjson.SetBytes(out, fmt.Sprintf("log.entries.%d.response.content.text", i), rel)
		if err != nil {
			return nil, ErrHarParseFailed.With(err, "entry", i)
		}
		m.Files = append(m.Files, rel)
	}

	m.HAR = out
	return m, nil
}

func (s *Splitter) write(stem string, body []byte) (string, error) {
	f, name, err := claimFile(stem)
	if err != nil {
		return "", ErrWriteFailed.With(err, "path", stem)
	}
	if _, err := f.Write(body); err != nil {
		f.Close()
		return "", ErrWriteFailed.With(err, "path", name)
	}
	if err := f.Close(); err != nil {
		return "", ErrWriteFailed.With(err, "path", name)
	}

	rel, err := filepath.Rel(s.jsonDir, name)
	if err != nil {
		return "", ErrWriteFailed.With(err, "path", name)
	}
	return filepath.ToSlash(rel), nil
}

// SplitFile splits the capture at harPath and writes the manifest to
// manifestPath. The JSON root is created if needed.
func (s *Splitter) SplitFile(harPath, manifestPath string) (*Manifest, error) {
	if !fsutil.Exists(harPath) {
		return nil, ErrHarFileNotFound.With(nil, "harFilePath", harPath)
	}
	capture, err := os.ReadFile(harPath)
	if err != nil {
		return nil, ErrHarFileNotFound.With(err, "harFilePath", harPath)
	}
	if err := os.MkdirAll(s.jsonDir, 0755); err != nil {
		return nil, ErrWriteFailed.With(err, "path", s.jsonDir)
	}

	m, err := s.Split(capture)
	if err != nil {
		return nil, err
	}

	data, err := m.Bytes()
	if err != nil {
		return nil, ErrHarParseFailed.With(err, "harFilePath", harPath)
	}
	if err := fsutil.WriteFileAtomic(manifestPath, data); err != nil {
		return nil, ErrWriteFailed.With(err, "path", manifestPath)
	}
	return m, nil
}
