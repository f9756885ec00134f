package mustache

import (
	"sort"
	"strings"
)

// Inject replaces each {{ name }} token with values[name]. All tokens are
// replaced in one pass, so an injected value is never scanned for tokens
// itself. Tokens without a value are left untouched.
func Inject(input string, values map[string]string) string {
	if len(values) == 0 {
		return input
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, Token(k), values[k])
	}
	return strings.NewReplacer(pairs...).Replace(input)
}
