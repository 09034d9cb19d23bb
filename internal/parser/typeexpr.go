package parser

import (
	"fmt"
	"strconv"
	"strings"

	"jsdocschema/internal/model"
)

// ParseType parses a JSDoc type expression. An empty expression yields
// model.Untyped.
func ParseType(expr string) (model.TypeNode, error) {
	if strings.TrimSpace(expr) == "" {
		return &model.Untyped{}, nil
	}

	p := &typeParser{src: expr}
	node, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return node, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) errorf(format string, args ...any) error {
	return &SyntaxError{Input: p.src, Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *typeParser) eof() bool { return p.pos >= len(p.src) }

func (p *typeParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) skipSpace() {
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

// accept consumes s if it is next after whitespace.
func (p *typeParser) accept(s string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *typeParser) expect(s string) error {
	if !p.accept(s) {
		if p.eof() {
			return p.errorf("expected %s, got end of input", s)
		}
		return p.errorf("expected %s", s)
	}
	return nil
}

// parseUnion parses "A | B | C" into a right-nested chain.
func (p *typeParser) parseUnion() (model.TypeNode, error) {
	left, err := p.parseIntersection()
	if err != nil {
		return nil, err
	}
	if !p.accept("|") {
		return left, nil
	}
	right, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	return &model.Union{Left: left, Right: right}, nil
}

func (p *typeParser) parseIntersection() (model.TypeNode, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	if !p.accept("&") {
		return left, nil
	}
	right, err := p.parseIntersection()
	if err != nil {
		return nil, err
	}
	return &model.Intersection{Left: left, Right: right}, nil
}

func (p *typeParser) parsePrefix() (model.TypeNode, error) {
	switch {
	case p.accept("..."):
		v, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		return &model.Variadic{Value: v}, nil
	case p.accept("?"):
		p.skipSpace()
		if p.eof() || isTerminator(p.peek()) {
			return &model.Unknown{}, nil
		}
		v, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		return &model.Nullable{Value: v}, nil
	case p.accept("!"):
		v, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		return &model.NotNullable{Value: v}, nil
	}
	return p.parsePostfix()
}

func (p *typeParser) parsePostfix() (model.TypeNode, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.accept("[]"):
			node = &model.Generic{Subject: &model.Name{Name: "Array"}, Objects: []model.TypeNode{node}}
		case p.accept(".<"), p.accept("<"):
			args, err := p.parseGenericArgs()
			if err != nil {
				return nil, err
			}
			node = &model.Generic{Subject: node, Objects: args}
		case p.accept("."):
			name := p.readIdent()
			if name == "" {
				return nil, p.errorf("expected member name")
			}
			node = &model.Member{Owner: node, Name: name}
		case p.accept("="):
			node = &model.Optional{Value: node}
		default:
			return node, nil
		}
	}
}

// parseGenericArgs parses "T, U>" after the opening "<".
func (p *typeParser) parseGenericArgs() ([]model.TypeNode, error) {
	var args []model.TypeNode
	for {
		arg, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.accept(",") {
			continue
		}
		if err := p.expect(">"); err != nil {
			return nil, err
		}
		return args, nil
	}
}

func (p *typeParser) parsePrimary() (model.TypeNode, error) {
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("unexpected end of input")
	}

	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		inner, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return &model.Parenthesis{Value: inner}, nil
	case c == '"' || c == '\'':
		s, err := p.readString(c)
		if err != nil {
			return nil, err
		}
		return &model.String{Value: s}, nil
	case isDigit(c) || (c == '-' || c == '+') && p.pos+1 < len(p.src) && isDigit(p.src[p.pos+1]):
		return p.readNumber()
	case c == '*':
		p.pos++
		return &model.Any{}, nil
	case c == '{':
		p.pos++
		return p.parseRecord()
	case isIdentStart(c):
		name := p.readIdent()
		if strings.HasPrefix(p.src[p.pos:], ":") {
			switch name {
			case "module":
				p.pos++
				return &model.Module{Path: p.readPath()}, nil
			case "external":
				p.pos++
				return &model.External{Name: p.readPath()}, nil
			}
		}
		return &model.Name{Name: name}, nil
	}
	return nil, p.errorf("unexpected %q", string(c))
}

func (p *typeParser) parseRecord() (model.TypeNode, error) {
	rec := &model.Record{}
	if p.accept("}") {
		return rec, nil
	}
	for {
		p.skipSpace()
		var key string
		switch c := p.peek(); {
		case c == '"' || c == '\'':
			s, err := p.readString(c)
			if err != nil {
				return nil, err
			}
			key = s
		default:
			key = p.readIdent()
		}
		if key == "" {
			return nil, p.errorf("expected record key")
		}
		entry := model.RecordEntry{Key: key}
		if p.accept(":") {
			v, err := p.parseUnion()
			if err != nil {
				return nil, err
			}
			entry.Value = v
		}
		rec.Entries = append(rec.Entries, entry)
		if p.accept(",") {
			continue
		}
		if err := p.expect("}"); err != nil {
			return nil, err
		}
		return rec, nil
	}
}

func (p *typeParser) readIdent() string {
	p.skipSpace()
	start := p.pos
	if p.eof() || !isIdentStart(p.peek()) {
		return ""
	}
	for !p.eof() && isIdentPart(p.peek()) {
		p.pos++
	}
	return p.src[start:p.pos]
}

// readPath reads a module path or external name up to the next delimiter.
func (p *typeParser) readPath() string {
	start := p.pos
	for !p.eof() && !isTerminator(p.peek()) && p.peek() != ' ' {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *typeParser) readString(quote byte) (string, error) {
	start := p.pos
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		p.pos++
		switch {
		case c == quote:
			return b.String(), nil
		case c == '\\' && p.pos < len(p.src):
			b.WriteByte(p.src[p.pos])
			p.pos++
		default:
			b.WriteByte(c)
		}
	}
	p.pos = start
	return "", p.errorf("unterminated string literal")
}

func (p *typeParser) readNumber() (model.TypeNode, error) {
	start := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	p.digits()
	if p.peek() == '.' && p.pos+1 < len(p.src) && isDigit(p.src[p.pos+1]) {
		p.pos++
		p.digits()
	}
	if c := p.peek(); c == 'e' || c == 'E' {
		p.pos++
		if c := p.peek(); c == '-' || c == '+' {
			p.pos++
		}
		p.digits()
	}
	raw := p.src[start:p.pos]
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.pos = start
		return nil, p.errorf("invalid number %q", raw)
	}
	return &model.Number{Value: v, Raw: raw}, nil
}

func (p *typeParser) digits() {
	for !p.eof() && isDigit(p.peek()) {
		p.pos++
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }

// isTerminator reports whether c ends an operand.
func isTerminator(c byte) bool {
	switch c {
	case '|', '&', ')', '>', ',', ']', '}', '=':
		return true
	}
	return false
}
