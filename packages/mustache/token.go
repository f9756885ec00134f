package mustache

import (
	"regexp"
	"strings"
)

var (
	placeholderPattern = regexp.MustCompile(`\{\{\s*property\s*\}\}`)
	tokenPattern       = regexp.MustCompile(`\{\{ ([^{}\s]+) \}\}`)
)

// Token returns the literal token for name: "{{ name }}".
func Token(name string) string {
	return "{{ " + name + " }}"
}

// ExpandTemplate replaces the {{ property }} placeholder in template with
// the token for property.
func ExpandTemplate(template, property string) string {
	return placeholderPattern.ReplaceAllLiteralString(template, Token(property))
}

// EscapeRegex escapes the regex metacharacters .*+?^${}()|[]\ in s.
func EscapeRegex(s string) string {
	return regexp.QuoteMeta(s)
}

// Tokens returns the distinct token names in text, in order of first
// appearance.
func Tokens(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// trimmedEmpty reports whether s is empty after trimming whitespace.
func trimmedEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}
