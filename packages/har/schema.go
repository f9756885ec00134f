package har

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// captureSchema only constrains the fields the splitter and merger read.
// Everything else in a capture passes through untouched.
const captureSchema = `{
	"type": "object",
	"required": ["log"],
	"properties": {
		"log": {
			"type": "object",
			"required": ["entries"],
			"properties": {
				"entries": {
					"type": "array",
					"items": {
						"type": "object",
						"required": ["request", "response"],
						"properties": {
							"request": {
								"type": "object",
								"required": ["url"],
								"properties": {
									"url": {"type": "string"},
									"postData": {"type": "object"}
								}
							},
							"response": {
								"type": "object",
								"required": ["content"],
								"properties": {
									"content": {
										"type": "object",
										"properties": {
											"text": {"type": "string"}
										}
									}
								}
							}
						}
					}
				}
			}
		}
	}
}`

var errInvalidJSON = errors.New("invalid JSON")

var compiledCaptureSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(captureSchema))
})

// Validate checks that data is JSON shaped like an HTTP Archive.
func Validate(data []byte) error {
	if err := checkJSON(data); err != nil {
		return err
	}

	schema, err := compiledCaptureSchema()
	if err != nil {
		return fmt.Errorf("compile capture schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("invalid capture: %s", strings.Join(msgs, "; "))
}

// checkJSON checks data against the JSON grammar. Numbers are not decoded,
// so values outside the float64 range are accepted.
func checkJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errInvalidJSON
	}
	return nil
}
