// Package parser provides doc-comment and type-expression parsing.
package parser

import (
	"fmt"
	"os"
	"strings"

	"jsdocschema/internal/model"
)

// Parser extracts doc comment blocks from source text.
type Parser struct{}

// New creates a new Parser.
func New() *Parser {
	return &Parser{}
}

// ParseFile reads a single source file and returns its doc blocks.
func (p *Parser) ParseFile(path string) (*model.File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	file, err := p.Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	file.Path = path
	return file, nil
}

// Parse extracts every "/** ... */" block from src in source order.
func (p *Parser) Parse(src string) (*model.File, error) {
	result := &model.File{}

	pos := 0
	for {
		start := nextBlockStart(src, pos)
		if start < 0 {
			break
		}
		bodyStart := start + len("/**")
		end := strings.Index(src[bodyStart:], "*/")
		if end < 0 {
			return nil, &SyntaxError{
				Line: lineAt(src, start),
				Msg:  "unterminated doc comment",
			}
		}
		end += bodyStart

		block, err := p.parseBlock(src[bodyStart:end], lineAt(src, start))
		if err != nil {
			return nil, err
		}
		result.Blocks = append(result.Blocks, block)
		pos = end + len("*/")
	}

	return result, nil
}

// nextBlockStart finds the next "/**" opener that is not "/***" or "/**/".
func nextBlockStart(src string, from int) int {
	for from < len(src) {
		i := strings.Index(src[from:], "/**")
		if i < 0 {
			return -1
		}
		i += from
		next := i + len("/**")
		if next < len(src) && (src[next] == '*' || src[next] == '/') {
			from = next
			continue
		}
		return i
	}
	return -1
}

// parseBlock splits a comment body into its description and tags.
func (p *Parser) parseBlock(body string, line int) (model.DocBlock, error) {
	block := model.DocBlock{Line: line}

	var desc []string
	var current *model.Tag
	var tagDesc []string

	flush := func() {
		if current == nil {
			return
		}
		if extra := strings.TrimSpace(strings.Join(tagDesc, "\n")); extra != "" {
			if current.Description != "" {
				current.Description += "\n" + extra
			} else {
				current.Description = extra
			}
		}
		block.Tags = append(block.Tags, *current)
		current = nil
		tagDesc = nil
	}

	for i, raw := range strings.Split(body, "\n") {
		text := stripLine(raw)
		if strings.HasPrefix(text, "@") {
			flush()
			tag, err := parseTag(text, line+i)
			if err != nil {
				return block, err
			}
			current = &tag
			continue
		}
		if current != nil {
			tagDesc = append(tagDesc, text)
		} else {
			desc = append(desc, text)
		}
	}
	flush()

	block.Description = strings.TrimSpace(strings.Join(desc, "\n"))
	return block, nil
}

// stripLine removes surrounding whitespace and the leading "*" gutter.
func stripLine(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "*") {
		s = strings.TrimSpace(s[1:])
	}
	return s
}

// lineAt returns the 1-based line number of byte offset i.
func lineAt(src string, i int) int {
	return strings.Count(src[:i], "\n") + 1
}
