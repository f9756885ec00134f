package mustache

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// Rule types as they appear in rule files.
const (
	RuleTypeEnv    = "env"
	RuleTypeString = "string"
	RuleTypeRegex  = "regex"
)

// Rule is one extraction rule. The concrete types are EnvRule, StringRule
// and RegexRule; Extract rejects anything else.
type Rule interface {
	RuleType() string
}

// EnvRule replaces every value of the dotenv file at Path with {{ KEY }}.
type EnvRule struct {
	Path string
}

// StringRule replaces every literal occurrence of Search with Replace,
// after expanding the {{ property }} placeholder in Replace.
type StringRule struct {
	Property string
	Search   string
	Replace  string
}

// RegexRule replaces every match of a pattern with Replace, after expanding
// the {{ property }} placeholder in Replace. Pattern, when set, is used
// instead of compiling Search.
type RegexRule struct {
	Property string
	Search   string
	Pattern  *regexp2.Regexp
	Replace  string
}

func (EnvRule) RuleType() string    { return RuleTypeEnv }
func (StringRule) RuleType() string { return RuleTypeString }
func (RegexRule) RuleType() string  { return RuleTypeRegex }

// RuleSpec is the format-independent record a rule file decodes into.
type RuleSpec struct {
	Type     string `json:"type" yaml:"type"`
	Path     string `json:"path,omitempty" yaml:"path,omitempty"`
	Property string `json:"property,omitempty" yaml:"property,omitempty"`
	Search   string `json:"search,omitempty" yaml:"search,omitempty"`
	Replace  string `json:"replace,omitempty" yaml:"replace,omitempty"`
}

// Rule converts the record into its rule variant.
func (s RuleSpec) Rule() (Rule, error) {
	switch s.Type {
	case RuleTypeEnv:
		return EnvRule{Path: s.Path}, nil
	case RuleTypeString:
		return StringRule{Property: s.Property, Search: s.Search, Replace: s.Replace}, nil
	case RuleTypeRegex:
		return RegexRule{Property: s.Property, Search: s.Search, Replace: s.Replace}, nil
	default:
		return nil, ErrExtractionsUnrecognized.With(nil, "extraction", fmt.Sprintf("%+v", s))
	}
}

// Rules converts a list of records, keeping their order.
func Rules(specs []RuleSpec) ([]Rule, error) {
	rules := make([]Rule, 0, len(specs))
	for _, s := range specs {
		r, err := s.Rule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}
