package parser

import (
	"strings"
	"unicode"

	"jsdocschema/internal/model"
)

// parseTag parses one "@tag {type} name description" line.
func parseTag(text string, line int) (model.Tag, error) {
	tag := model.Tag{Line: line}

	rest := text[1:]
	i := strings.IndexFunc(rest, func(r rune) bool {
		return unicode.IsSpace(r) || r == '{'
	})
	if i < 0 {
		tag.Tag = rest
		return tag, nil
	}
	tag.Tag = rest[:i]
	rest = strings.TrimSpace(rest[i:])

	if strings.HasPrefix(rest, "{") {
		end := matchClose(rest, '{', '}')
		if end < 0 {
			return tag, &SyntaxError{Line: line, Msg: "unbalanced braces in @" + tag.Tag + " type"}
		}
		tag.Type = strings.TrimSpace(rest[1:end])
		rest = strings.TrimSpace(rest[end+1:])
	}

	switch {
	case strings.HasPrefix(rest, "["):
		end := matchClose(rest, '[', ']')
		if end < 0 {
			return tag, &SyntaxError{Line: line, Msg: "unbalanced brackets in @" + tag.Tag + " name"}
		}
		tag.Optional = true
		inner := rest[1:end]
		if eq := topLevelIndex(inner, '='); eq >= 0 {
			tag.Name = strings.TrimSpace(inner[:eq])
			tag.Default = strings.TrimSpace(inner[eq+1:])
			tag.HasDefault = true
		} else {
			tag.Name = strings.TrimSpace(inner)
		}
		rest = rest[end+1:]
	default:
		j := strings.IndexFunc(rest, unicode.IsSpace)
		if j < 0 {
			tag.Name = rest
			rest = ""
		} else {
			tag.Name = rest[:j]
			rest = rest[j:]
		}
	}

	desc := strings.TrimSpace(rest)
	desc = strings.TrimPrefix(desc, "- ")
	tag.Description = strings.TrimSpace(desc)
	return tag, nil
}

// matchClose returns the index of the delimiter closing s[0], honoring
// nesting and quoted strings, or -1.
func matchClose(s string, opener, closer byte) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// topLevelIndex returns the index of the first c outside quotes and
// brackets, or -1.
func topLevelIndex(s string, c byte) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			switch ch {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'', '`':
			quote = ch
		case '[', '{', '(':
			depth++
		case ']', '}', ')':
			depth--
		case c:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
