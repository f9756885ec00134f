package har

import (
	"bytes"

	"github.com/goccy/go-json"
)

// indentJSON validates src and re-indents it with tabs, keeping key order.
func indentJSON(src []byte) ([]byte, error) {
	if err := checkJSON(src); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, src, "", "\t"); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// compactJSON validates src and strips insignificant whitespace.
func compactJSON(src []byte) ([]byte, error) {
	if err := checkJSON(src); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, src); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
