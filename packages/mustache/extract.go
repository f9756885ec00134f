package mustache

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/harkit/packages/core/env"
	"github.com/dlclark/regexp2"
)

// EnvLoader loads the key-value pairs of a dotenv file.
type EnvLoader func(path string) (map[string]string, error)

type extractOptions struct {
	loadEnv EnvLoader
}

// Option configures Extract.
type Option func(*extractOptions)

// WithEnvLoader replaces the dotenv loader used by EnvRule.
func WithEnvLoader(fn EnvLoader) Option {
	return func(o *extractOptions) {
		o.loadEnv = fn
	}
}

type transform func(input string) (string, error)

// Extract applies rules to input in order and returns the tokenized text.
// Every rule is validated before any of them runs.
func Extract(input string, rules []Rule, opts ...Option) (string, error) {
	o := &extractOptions{loadEnv: env.LoadDotEnv}
	for _, opt := range opts {
		opt(o)
	}

	transforms := make([]transform, 0, len(rules))
	for _, rule := range rules {
		t, err := o.build(rule)
		if err != nil {
			return "", err
		}
		transforms = append(transforms, t...)
	}

	output := input
	for _, t := range transforms {
		var err error
		if output, err = t(output); err != nil {
			return "", err
		}
	}
	return output, nil
}

func (o *extractOptions) build(rule Rule) ([]transform, error) {
	switch r := rule.(type) {
	case EnvRule:
		return o.buildEnv(r)
	case *EnvRule:
		if r != nil {
			return o.buildEnv(*r)
		}
	case StringRule:
		return buildString(r)
	case *StringRule:
		if r != nil {
			return buildString(*r)
		}
	case RegexRule:
		return buildRegex(r)
	case *RegexRule:
		if r != nil {
			return buildRegex(*r)
		}
	}
	return nil, ErrExtractionsUnrecognized.With(nil, "extraction", fmt.Sprintf("%#v", rule))
}

func (o *extractOptions) buildEnv(r EnvRule) ([]transform, error) {
	vars, err := o.loadEnv(r.Path)
	if err != nil {
		return nil, ErrEnvFileNotFound.With(err, "envFilePath", r.Path)
	}

	keys := make([]string, 0, len(vars))
	for k, v := range vars {
		// an empty value would match between every character
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	// Longer values first so a value containing another is tokenized whole.
	sort.Slice(keys, func(i, j int) bool {
		vi, vj := vars[keys[i]], vars[keys[j]]
		if len(vi) != len(vj) {
			return len(vi) > len(vj)
		}
		return keys[i] < keys[j]
	})

	transforms := make([]transform, 0, len(keys))
	for _, key := range keys {
		val := vars[key]
		escaped := EscapeRegex(val)
		token := Token(key)
		transforms = append(transforms, func(input string) (string, error) {
			output := strings.ReplaceAll(input, val, token)
			if escaped != val {
				output = strings.ReplaceAll(output, escaped, token)
			}
			return output, nil
		})
	}
	return transforms, nil
}

func buildString(r StringRule) ([]transform, error) {
	if trimmedEmpty(r.Search) {
		return nil, ErrEmptyStringPattern.With(nil, "extractionProperty", r.Property)
	}

	replacement := ExpandTemplate(r.Replace, r.Property)
	search := r.Search
	return []transform{func(input string) (string, error) {
		return strings.ReplaceAll(input, search, replacement), nil
	}}, nil
}

func buildRegex(r RegexRule) ([]transform, error) {
	re := r.Pattern
	if re == nil {
		if trimmedEmpty(r.Search) {
			return nil, ErrEmptyRegexPattern.With(nil, "extractionProperty", r.Property)
		}
		var err error
		re, err = regexp2.Compile(r.Search, regexp2.ECMAScript)
		if err != nil {
			return nil, ErrInvalidRegex.With(err, "extractionProperty", r.Property, "extractionRegex", r.Search)
		}
	}

	replacement := ExpandTemplate(r.Replace, r.Property)
	return []transform{func(input string) (string, error) {
		output, err := re.ReplaceFunc(input, func(regexp2.Match) string {
			return replacement
		}, -1, -1)
		if err != nil {
			return "", ErrReplaceFailed.With(err, "extractionProperty", r.Property)
		}
		return output, nil
	}}, nil
}
