package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/harkit/packages/mustache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstFoundPath(t *testing.T) {
	dir := t.TempDir()
	b := writeFile(t, dir, "b.json", "{}")
	a := filepath.Join(dir, "a.json")

	path, ok := FirstFoundPath("", []string{a, b})
	assert.True(t, ok)
	assert.Equal(t, b, path)

	path, ok = FirstFoundPath(a, []string{b})
	assert.False(t, ok)
	assert.Equal(t, a, path)

	_, ok = FirstFoundPath("", []string{a})
	assert.False(t, ok)
}

func TestLoadExtractions(t *testing.T) {
	dir := t.TempDir()

	list := writeFile(t, dir, "extractions.json", `[
		{"type": "string", "property": "HOST", "search": "api.example.com", "replace": "{{ property }}"},
		{"type": "env", "path": ".env"}
	]`)
	specs, err := LoadExtractions(list, nil)
	require.NoError(t, err)
	assert.Equal(t, []mustache.RuleSpec{
		{Type: "string", Property: "HOST", Search: "api.example.com", Replace: "{{ property }}"},
		{Type: "env", Path: ".env"},
	}, specs)

	wrapped := writeFile(t, dir, "extractions.yaml", `
extractions:
  - type: regex
    property: ID
    search: '\d+'
    replace: '{{ property }}'
`)
	specs, err = LoadExtractions("", []string{filepath.Join(dir, "absent.yaml"), wrapped})
	require.NoError(t, err)
	assert.Equal(t, []mustache.RuleSpec{
		{Type: "regex", Property: "ID", Search: `\d+`, Replace: "{{ property }}"},
	}, specs)
}

func TestLoadExtractions_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadExtractions(filepath.Join(dir, "absent.json"), nil)
	assert.True(t, errors.Is(err, ErrExtractionsFileNotFound))

	_, err = LoadExtractions("", nil)
	assert.True(t, errors.Is(err, ErrExtractionsFileNotFound))

	for name, content := range map[string]string{
		"syntax.json":      `[{"type": "env"`,
		"unknown.json":     `[{"type": "jsonpath", "property": "A", "search": "$", "replace": "x"}]`,
		"missing.json":     `[{"type": "string", "property": "A"}]`,
		"env-no-path.json": `[{"type": "env"}]`,
		"not-list.json":    `{"type": "env", "path": ".env"}`,
	} {
		_, err := LoadExtractions(writeFile(t, dir, name, content), nil)
		assert.True(t, errors.Is(err, ErrExtractionsParseFailed), name)
	}
}

func TestLoadInjections(t *testing.T) {
	dir := t.TempDir()

	path := writeFile(t, dir, "injections.yaml", `
API_KEY: sk-test
PORT: 8080
DEBUG: true
`)
	values, err := LoadInjections(path, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"API_KEY": "sk-test", "PORT": "8080", "DEBUG": "true"}, values)

	path = writeFile(t, dir, "injections.json", `{"ID": 12345678901, "RATIO": 0.5}`)
	values, err = LoadInjections(path, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ID": "12345678901", "RATIO": "0.5"}, values)
}

func TestLoadInjections_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadInjections("", []string{filepath.Join(dir, "absent.json")})
	assert.True(t, errors.Is(err, ErrInjectionsFileNotFound))

	for name, content := range map[string]string{
		"syntax.json": `{"A": `,
		"nested.json": `{"A": {"B": "c"}}`,
		"list.json":   `["A"]`,
	} {
		_, err := LoadInjections(writeFile(t, dir, name, content), nil)
		assert.True(t, errors.Is(err, ErrInjectionsParseFailed), name)
	}
}
