package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/abdul-hamid-achik/harkit/packages/core/errcode"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleFormatter_Split(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithVerbose(true))

	f.Split(SplitSummary{
		HarPath:      "api.har",
		ManifestPath: "manifest.json",
		JSONDir:      "json",
		Files:        []string{"https:/a.com/users_0.json"},
		Skipped:      2,
	})

	out := buf.String()
	assert.Contains(t, out, "Split api.har -> manifest.json")
	assert.Contains(t, out, "1 JSON file written to json, 2 left inline")
	assert.Contains(t, out, "https:/a.com/users_0.json")
}

func TestConsoleFormatter_MergeWithMissing(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.Merge(MergeSummary{
		ManifestPath: "manifest.json",
		OutPath:      "api.har",
		Rehydrated:   []string{"a_0.json", "b_0.json"},
		Missing:      []string{"c_0.json"},
	})

	out := buf.String()
	assert.Contains(t, out, "! Merged manifest.json -> api.har")
	assert.Contains(t, out, "2 JSON files rehydrated, 1 missing")
	assert.Contains(t, out, "missing c_0.json")
	assert.NotContains(t, out, "a_0.json")
}

func TestConsoleFormatter_Tokens(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.Tokens(TokenSummary{Action: "inject", Tokens: []string{"A", "B"}})
	assert.Contains(t, buf.String(), "Injected -> stdout, 2 unresolved tokens: A, B")

	buf.Reset()
	f.Tokens(TokenSummary{Action: "inject", OutPath: "out.har"})
	assert.Contains(t, buf.String(), "Injected all tokens -> out.har")

	buf.Reset()
	f.Tokens(TokenSummary{Action: "extract", OutPath: "out.har", Tokens: []string{"A"}})
	assert.Contains(t, buf.String(), "Extracted 1 token -> out.har")
}

func TestConsoleFormatter_Error(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.Error(errcode.New("HAR_PARSE_FAILED", "failed to parse HAR file"))
	assert.Equal(t, "Error: failed to parse HAR file [HAR_PARSE_FAILED]\n", buf.String())

	buf.Reset()
	f.Error(errors.New("plain"))
	assert.Equal(t, "Error: plain\n", buf.String())

	buf.Reset()
	f.Warn("JSON file not found: %s", "x.json")
	assert.Equal(t, "Warning: JSON file not found: x.json\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))

	f.Merge(MergeSummary{ManifestPath: "m.json", OutPath: "out.har", Rehydrated: []string{"a_0.json"}})
	f.Warn("JSON file not found: %s", "b_0.json")
	f.Error(errcode.New("HAR_WRITE_FAILED", "failed to write file"))
	require.NoError(t, f.Flush())

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.NotNil(t, out.Merge)
	assert.Equal(t, []string{"a_0.json"}, out.Merge.Rehydrated)
	assert.Equal(t, []string{}, out.Merge.Missing)
	assert.Equal(t, []string{"JSON file not found: b_0.json"}, out.Warnings)
	assert.Equal(t, "HAR_WRITE_FAILED", out.Error.Code)
	assert.Nil(t, out.Split)
	assert.NotEmpty(t, out.Time)
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	r, err := New("", &buf, false, true)
	require.NoError(t, err)
	assert.IsType(t, &ConsoleFormatter{}, r)

	r, err = New(FormatJSON, &buf, false, true)
	require.NoError(t, err)
	_, ok := r.(Flushable)
	assert.True(t, ok)

	_, err = New("xml", &buf, false, false)
	assert.Error(t, err)
}
