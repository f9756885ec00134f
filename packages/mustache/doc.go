// Package mustache turns literal values in text into {{ name }} tokens and
// back.
//
// Extraction applies an ordered list of rules:
//   - EnvRule: every value of a dotenv file becomes {{ KEY }}
//   - StringRule: literal matches become the rule's replace template
//   - RegexRule: pattern matches become the rule's replace template
//
// Rules run one after another over the same accumulator, so a rule sees the
// output of every rule before it, token syntax included. Rule order is part
// of the rule set's meaning.
//
// Injection replaces {{ name }} tokens with values from a flat map in a
// single pass. Unknown tokens are left as they are.
package mustache
