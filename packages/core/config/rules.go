package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/harkit/packages/core/errcode"
	"github.com/abdul-hamid-achik/harkit/packages/mustache"
	"github.com/goccy/go-json"
	"github.com/xeipuuv/gojsonschema"
)

const extractionsSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["type"],
		"oneOf": [
			{
				"properties": {"type": {"enum": ["env"]}, "path": {"type": "string"}},
				"required": ["path"]
			},
			{
				"properties": {
					"type": {"enum": ["string", "regex"]},
					"property": {"type": "string"},
					"search": {"type": "string"},
					"replace": {"type": "string"}
				},
				"required": ["property", "search", "replace"]
			}
		]
	}
}`

const injectionsSchema = `{
	"type": "object",
	"additionalProperties": {"type": ["string", "number", "boolean"]}
}`

var (
	compiledExtractionsSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
		return gojsonschema.NewSchema(gojsonschema.NewStringLoader(extractionsSchema))
	})
	compiledInjectionsSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
		return gojsonschema.NewSchema(gojsonschema.NewStringLoader(injectionsSchema))
	})
)

// FirstFoundPath returns file when set, otherwise the first fallback that
// exists. The second result is false when nothing was found.
func FirstFoundPath(file string, fallbacks []string) (string, bool) {
	if file != "" {
		return file, fileExists(file)
	}
	for _, f := range fallbacks {
		if fileExists(f) {
			return f, true
		}
	}
	return "", false
}

// LoadExtractions reads an extraction rule file. The file holds either a
// list of rules or an object with an "extractions" list.
func LoadExtractions(file string, fallbacks []string) ([]mustache.RuleSpec, error) {
	path, ok := FirstFoundPath(file, fallbacks)
	if !ok {
		return nil, ErrExtractionsFileNotFound.With(nil, "extractionsFilePath", describe(file, fallbacks))
	}

	v, err := readGeneric(path)
	if err != nil {
		return nil, wrapParse(ErrExtractionsParseFailed, err, "extractionsFilePath", path)
	}
	if m, ok := v.(map[string]any); ok {
		if list, ok := m["extractions"]; ok {
			v = list
		}
	}

	if err := validate(compiledExtractionsSchema, v); err != nil {
		return nil, ErrExtractionsParseFailed.With(err, "extractionsFilePath", path)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, ErrExtractionsParseFailed.With(err, "extractionsFilePath", path)
	}
	var specs []mustache.RuleSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, ErrExtractionsParseFailed.With(err, "extractionsFilePath", path)
	}
	return specs, nil
}

// LoadInjections reads an injection file: an object mapping token names to
// values. Numbers and booleans are converted to their text form.
func LoadInjections(file string, fallbacks []string) (map[string]string, error) {
	path, ok := FirstFoundPath(file, fallbacks)
	if !ok {
		return nil, ErrInjectionsFileNotFound.With(nil, "injectionsFilePath", describe(file, fallbacks))
	}

	v, err := readGeneric(path)
	if err != nil {
		return nil, wrapParse(ErrInjectionsParseFailed, err, "injectionsFilePath", path)
	}

	if err := validate(compiledInjectionsSchema, v); err != nil {
		return nil, ErrInjectionsParseFailed.With(err, "injectionsFilePath", path)
	}

	raw, _ := v.(map[string]any)
	values := make(map[string]string, len(raw))
	for k, val := range raw {
		values[k] = scalarString(val)
	}
	return values, nil
}

func readGeneric(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var v any
	if err := decode(path, data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func scalarString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

func validate(schema func() (*gojsonschema.Schema, error), v any) error {
	s, err := schema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	result, err := s.Validate(gojsonschema.NewGoLoader(v))
	if err != nil {
		return err
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func wrapParse(sentinel *errcode.Error, err error, key, path string) error {
	if errcode.CodeOf(err) == ErrUnsupportedFileType.Code {
		return err
	}
	return sentinel.With(err, key, path)
}

func describe(file string, fallbacks []string) string {
	if file != "" {
		return file
	}
	return strings.Join(fallbacks, ", ")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
