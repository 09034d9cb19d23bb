package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// maxIndent caps indentation width.
const maxIndent = 10

// Indent is the output indentation: a count of spaces or a literal string.
type Indent struct {
	value string
}

// Spaces returns an Indent of n spaces, clamped to 0..10.
func Spaces(n int) Indent {
	n = max(0, min(n, maxIndent))
	return Indent{value: strings.Repeat(" ", n)}
}

// ParseIndent interprets s as an integer count or a literal indentation
// string. Surrounding quotes are stripped from the literal form.
func ParseIndent(s string) (Indent, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return Spaces(n), nil
	}
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	s = unescapeIndent(s)
	if len(s) > maxIndent {
		s = s[:maxIndent]
	}
	if strings.Trim(s, " \t") != "" {
		return Indent{}, fmt.Errorf("indent %q must contain only spaces and tabs", s)
	}
	return Indent{value: s}, nil
}

// unescapeIndent turns a typed "\t" into a tab.
func unescapeIndent(s string) string {
	return strings.ReplaceAll(s, `\t`, "\t")
}

// String returns the indentation string.
func (i Indent) String() string { return i.value }

// UnmarshalYAML accepts an integer or a string.
func (i *Indent) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("space: expected a number or string on line %d", node.Line)
	}
	var (
		parsed Indent
		err    error
	)
	if node.Tag == "!!int" {
		n, convErr := strconv.Atoi(node.Value)
		if convErr != nil {
			return fmt.Errorf("space: %w", convErr)
		}
		parsed = Spaces(n)
	} else {
		parsed, err = ParseIndent(node.Value)
		if err != nil {
			return fmt.Errorf("space: %w", err)
		}
	}
	*i = parsed
	return nil
}

// UnmarshalJSON accepts a JSON number or string.
func (i *Indent) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if n, err := strconv.Atoi(raw); err == nil {
		*i = Spaces(n)
		return nil
	}
	s, err := strconv.Unquote(raw)
	if err != nil {
		return fmt.Errorf("space: expected a number or string, got %s", raw)
	}
	parsed, err := ParseIndent(s)
	if err != nil {
		return fmt.Errorf("space: %w", err)
	}
	*i = parsed
	return nil
}
