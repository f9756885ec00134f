package har

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const sampleCapture = `{
	"log": {
		"version": "1.2",
		"creator": {"name": "browser", "version": "1"},
		"_custom": {"keep": [1, 2, 3]},
		"entries": [
			{
				"request": {"method": "GET", "url": "https://api.example.com/users"},
				"response": {
					"status": 200,
					"content": {"mimeType": "application/json; charset=utf-8", "text": "{\"users\":[{\"id\":1}]}"}
				}
			},
			{
				"request": {"method": "GET", "url": "https://api.example.com/index.html"},
				"response": {
					"status": 200,
					"content": {"mimeType": "text/html", "text": "<html></html>"}
				}
			},
			{
				"request": {
					"method": "POST",
					"url": "https://api.example.com/graphql",
					"postData": {"mimeType": "application/json", "text": "{\"query\": \"query { getUser { id name } }\"}"}
				},
				"response": {
					"status": 200,
					"content": {"mimeType": "application/json", "text": "{\"data\":{\"getUser\":{\"id\":\"7\",\"name\":\"Ada\"}}}"}
				}
			},
			{
				"request": {"method": "GET", "url": "https://api.example.com/users"},
				"response": {
					"status": 204,
					"content": {"mimeType": "application/json"}
				}
			},
			{
				"request": {"method": "GET", "url": "https://api.example.com/users"},
				"response": {
					"status": 200,
					"content": {"mimeType": "application/json", "text": "{\"users\":[]}"}
				}
			}
		]
	}
}`

func entryText(t *testing.T, capture []byte, i int) string {
	t.Helper()
	return gjson.GetBytes(capture, fmt.Sprintf("log.entries.%d.response.content.text", i)).String()
}

func TestSplit(t *testing.T) {
	dir := t.TempDir()

	m, err := NewSplitter(dir).Split([]byte(sampleCapture))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https:/api.example.com/users_0.json",
		"https:/api.example.com/graphql/getUser_0.json",
		"https:/api.example.com/users_1.json",
	}, m.Files)
	assert.Equal(t, 2, m.Skipped)

	assert.Equal(t, m.Files[0], entryText(t, m.HAR, 0))
	assert.Equal(t, "<html></html>", entryText(t, m.HAR, 1))
	assert.Equal(t, m.Files[1], entryText(t, m.HAR, 2))
	assert.False(t, gjson.GetBytes(m.HAR, "log.entries.3.response.content.text").Exists())
	assert.Equal(t, m.Files[2], entryText(t, m.HAR, 4))

	body, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(m.Files[0])))
	require.NoError(t, err)
	assert.Equal(t, "{\n\t\"users\": [\n\t\t{\n\t\t\t\"id\": 1\n\t\t}\n\t]\n}", string(body))

	assert.Equal(t, `{"keep": [1, 2, 3]}`, gjson.GetBytes(m.HAR, "log._custom").Raw)
}

func TestSplit_DoesNotOverwriteExistingFiles(t *testing.T) {
	dir := t.TempDir()
	stem := filepath.Join(dir, "https:", "api.example.com")
	require.NoError(t, os.MkdirAll(stem, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(stem, "users_0.json"), []byte("first"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(stem, "users_1.json"), []byte("second"), 0644))

	capture := `{"log":{"entries":[{
		"request":{"url":"https://api.example.com/users"},
		"response":{"content":{"mimeType":"application/json","text":"{}"}}
	}]}}`

	m, err := NewSplitter(dir).Split([]byte(capture))
	require.NoError(t, err)
	assert.Equal(t, []string{"https:/api.example.com/users_2.json"}, m.Files)

	first, err := os.ReadFile(filepath.Join(stem, "users_0.json"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(first))
}

func TestSplit_PathsStayUnderRoot(t *testing.T) {
	dir := t.TempDir()
	capture := `{"log":{"entries":[{
		"request":{"url":"../../escape"},
		"response":{"content":{"mimeType":"application/json","text":"{}"}}
	}]}}`

	m, err := NewSplitter(dir).Split([]byte(capture))
	require.NoError(t, err)
	assert.Equal(t, []string{"escape_0.json"}, m.Files)
	assert.FileExists(t, filepath.Join(dir, "escape_0.json"))
}

func TestSplit_EmptyURLStaysUnderRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "json")
	capture := `{"log":{"entries":[{
		"request":{"url":""},
		"response":{"content":{"mimeType":"application/json","text":"{}"}}
	}]}}`

	m, err := NewSplitter(root).Split([]byte(capture))
	require.NoError(t, err)
	assert.Equal(t, []string{"_0.json"}, m.Files)
	assert.FileExists(t, filepath.Join(root, "_0.json"))
	assert.NoFileExists(t, root+"_0.json")
}

func TestSplit_ResponseBodyGrammar(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		valid bool
	}{
		{name: "leading zero", body: `{"n":01}`, valid: false},
		{name: "trailing dot", body: `{"a":1.}`, valid: false},
		{name: "trailing comma", body: `{"a":1,}`, valid: false},
		{name: "number beyond float64", body: `{"big":1e400}`, valid: true},
		{name: "long integer", body: `{"id":123456789012345678901234567890}`, valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			capture := fmt.Sprintf(`{"log":{"entries":[{
				"request":{"url":"https://a.com/b"},
				"response":{"content":{"mimeType":"application/json","text":%q}}
			}]}}`, tt.body)

			m, err := NewSplitter(dir).Split([]byte(capture))
			if !tt.valid {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrHarResponseParseFailed), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.Len(t, m.Files, 1)
			body, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(m.Files[0])))
			require.NoError(t, err)
			assert.True(t, gjson.ValidBytes(body))
			assert.Contains(t, string(body), strings.TrimSuffix(strings.SplitN(tt.body, ":", 2)[1], "}"))
		})
	}
}

func TestSplit_CustomGraphQLPath(t *testing.T) {
	dir := t.TempDir()
	capture := `{"log":{"entries":[{
		"request":{"url":"https://api.example.com/gql","postData":{"text":"{\"query\":\"mutation { addUser(name: \\\"x\\\") { id } }\"}"}},
		"response":{"content":{"mimeType":"application/json","text":"{}"}}
	}]}}`

	m, err := NewSplitter(dir, WithGraphQLPath("/gql")).Split([]byte(capture))
	require.NoError(t, err)
	assert.Equal(t, []string{"https:/api.example.com/gql/addUser_0.json"}, m.Files)
}

func TestSplit_Errors(t *testing.T) {
	tests := []struct {
		name    string
		capture string
		want    error
	}{
		{
			name:    "not JSON",
			capture: `{"log":`,
			want:    ErrHarParseFailed,
		},
		{
			name:    "missing entries",
			capture: `{"log":{}}`,
			want:    ErrHarParseFailed,
		},
		{
			name:    "url not a string",
			capture: `{"log":{"entries":[{"request":{"url":1},"response":{"content":{}}}]}}`,
			want:    ErrHarParseFailed,
		},
		{
			name:    "missing content",
			capture: `{"log":{"entries":[{"request":{"url":"x"},"response":{}}]}}`,
			want:    ErrHarParseFailed,
		},
		{
			name: "response body not JSON",
			capture: `{"log":{"entries":[{"request":{"url":"https://a.com/x"},
				"response":{"content":{"mimeType":"application/json","text":"not json"}}}]}}`,
			want: ErrHarResponseParseFailed,
		},
		{
			name: "GraphQL without post data",
			capture: `{"log":{"entries":[{"request":{"url":"https://a.com/graphql"},
				"response":{"content":{"mimeType":"application/json","text":"{}"}}}]}}`,
			want: ErrGraphQLParseFailed,
		},
		{
			name: "GraphQL with broken query",
			capture: `{"log":{"entries":[{"request":{"url":"https://a.com/graphql","postData":{"text":"{\"query\":\"query {\"}"}},
				"response":{"content":{"mimeType":"application/json","text":"{}"}}}]}}`,
			want: ErrGraphQLParseFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSplitter(t.TempDir()).Split([]byte(tt.capture))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestSplitMergeRoundTrip(t *testing.T) {
	dir := t.TempDir()

	m, err := NewSplitter(dir).Split([]byte(sampleCapture))
	require.NoError(t, err)
	manifest, err := m.Bytes()
	require.NoError(t, err)

	res, err := NewMerger(dir).Merge(manifest)
	require.NoError(t, err)
	assert.Equal(t, m.Files, res.Rehydrated)
	assert.Empty(t, res.Missing)

	assert.Equal(t, `{"users":[{"id":1}]}`, entryText(t, res.HAR, 0))
	assert.Equal(t, "<html></html>", entryText(t, res.HAR, 1))
	assert.Equal(t, `{"data":{"getUser":{"id":"7","name":"Ada"}}}`, entryText(t, res.HAR, 2))
	assert.Equal(t, `{"users":[]}`, entryText(t, res.HAR, 4))

	original := gjson.Parse(sampleCapture)
	merged := gjson.ParseBytes(res.HAR)
	assert.Equal(t, original.Get("log.entries.#").Int(), merged.Get("log.entries.#").Int())
	assert.Equal(t, original.Get("log._custom").Value(), merged.Get("log._custom").Value())
	assert.Equal(t,
		original.Get("log.entries.2.request").Value(),
		merged.Get("log.entries.2.request").Value())
}

func TestMerge_EditedFileIsCompacted(t *testing.T) {
	dir := t.TempDir()

	m, err := NewSplitter(dir).Split([]byte(sampleCapture))
	require.NoError(t, err)
	manifest, err := m.Bytes()
	require.NoError(t, err)

	edited := "{\n  \"users\": [ {\"id\": 99} ]\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, filepath.FromSlash(m.Files[0])), []byte(edited), 0644))

	res, err := NewMerger(dir).Merge(manifest)
	require.NoError(t, err)
	assert.Equal(t, `{"users":[{"id":99}]}`, entryText(t, res.HAR, 0))
}

func TestMerge_MissingFileWarns(t *testing.T) {
	dir := t.TempDir()

	m, err := NewSplitter(dir).Split([]byte(sampleCapture))
	require.NoError(t, err)
	manifest, err := m.Bytes()
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, filepath.FromSlash(m.Files[1]))))

	var warnings []string
	res, err := NewMerger(dir, WithWarnFunc(func(format string, args ...any) {
		warnings = append(warnings, format)
	})).Merge(manifest)
	require.NoError(t, err)

	assert.Len(t, warnings, 1)
	assert.Equal(t, []string{m.Files[1]}, res.Missing)
	assert.Equal(t, []string{m.Files[0], m.Files[2]}, res.Rehydrated)
	assert.Equal(t, m.Files[1], entryText(t, res.HAR, 2))
}

func TestMerge_Errors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{nope"), 0644))

	tests := []struct {
		name     string
		jsonDir  string
		manifest string
		want     error
	}{
		{
			name:     "missing JSON directory",
			jsonDir:  filepath.Join(dir, "absent"),
			manifest: `{"har":{"log":{"entries":[]}}}`,
			want:     ErrJSONDirectoryNotFound,
		},
		{
			name:     "manifest not JSON",
			jsonDir:  dir,
			manifest: `har`,
			want:     ErrManifestParseFailed,
		},
		{
			name:     "manifest without har",
			jsonDir:  dir,
			manifest: `{"log":{"entries":[]}}`,
			want:     ErrManifestParseFailed,
		},
		{
			name:     "har without entries",
			jsonDir:  dir,
			manifest: `{"har":{"log":{}}}`,
			want:     ErrManifestParseFailed,
		},
		{
			name:     "referenced file not JSON",
			jsonDir:  dir,
			manifest: `{"har":{"log":{"entries":[{"request":{"url":"x"},"response":{"content":{"text":"bad.json"}}}]}}}`,
			want:     ErrJSONFileParseFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMerger(tt.jsonDir).Merge([]byte(tt.manifest))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestSplitFileMergeFile(t *testing.T) {
	root := t.TempDir()
	harPath := filepath.Join(root, "api.har")
	manifestPath := filepath.Join(root, "manifest.json")
	outPath := filepath.Join(root, "out", "api.har")
	jsonDir := filepath.Join(root, "json")
	require.NoError(t, os.WriteFile(harPath, []byte(sampleCapture), 0644))

	m, err := NewSplitter(jsonDir).SplitFile(harPath, manifestPath)
	require.NoError(t, err)
	assert.Len(t, m.Files, 3)

	manifest, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	assert.True(t, gjson.GetBytes(manifest, "har.log.entries").IsArray())
	assert.Contains(t, string(manifest), "\n\t\"har\": {")

	res, err := NewMerger(jsonDir).MergeFile(manifestPath, outPath)
	require.NoError(t, err)
	assert.Len(t, res.Rehydrated, 3)

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, res.HAR, written)
}

func TestSplitFile_NotFound(t *testing.T) {
	root := t.TempDir()
	_, err := NewSplitter(root).SplitFile(filepath.Join(root, "absent.har"), filepath.Join(root, "m.json"))
	assert.True(t, errors.Is(err, ErrHarFileNotFound))

	_, err = NewMerger(root).MergeFile(filepath.Join(root, "absent.json"), filepath.Join(root, "out.har"))
	assert.True(t, errors.Is(err, ErrManifestFileNotFound))
}
