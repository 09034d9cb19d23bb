package generator

import (
	"fmt"
	"math"

	"jsdocschema/internal/model"
	"jsdocschema/internal/schema"
)

// resolvedName is the outcome of looking a type name up.
type resolvedName struct {
	typ    string
	format string
	known  bool // false when the name passed through unrecognized
}

// resolveName maps name through the alias table, then through the JSON
// Schema vocabulary (lower-cased when tolerated). Unknown names pass
// through unchanged with known=false.
func (c *conversion) resolveName(name string) resolvedName {
	if m, ok := c.types[name]; ok {
		return resolvedName{typ: m.Type, format: m.Format, known: true}
	}
	folded := name
	if c.tolerateCase {
		folded = c.lower.String(name)
	}
	if schema.IsPrimitive(folded) || folded == "true" || folded == "false" {
		return resolvedName{typ: folded, known: true}
	}
	return resolvedName{typ: name}
}

// classify maps one type-expression node to its base schema. strict
// controls whether an unrecognized name fails or passes through.
func (c *conversion) classify(node model.TypeNode, strict bool) (*schema.Schema, error) {
	switch n := node.(type) {
	case *model.Untyped:
		return &schema.Schema{}, nil
	case *model.Name:
		return c.classifyName(n.Name, strict)
	case *model.Number:
		return c.numberEnum([]*model.Number{n}), nil
	case *model.String:
		return &schema.Schema{Type: schema.TypeString, Enum: []any{n.Value}}, nil
	case *model.Generic:
		return c.classifyGeneric(n, strict)
	case *model.Union, *model.Intersection:
		return c.compound(n, strict)
	case *model.Parenthesis:
		return c.classify(n.Value, strict)
	default:
		return nil, fmt.Errorf("%w %s", ErrUnsupportedType, node.Kind())
	}
}

func (c *conversion) classifyName(name string, strict bool) (*schema.Schema, error) {
	r := c.resolveName(name)
	if !r.known {
		if strict {
			return nil, fmt.Errorf("%w %s", ErrUnrecognizedTypeName, name)
		}
		return &schema.Schema{Type: r.typ}, nil
	}
	switch r.typ {
	case "true", "false":
		return &schema.Schema{Type: schema.TypeBoolean, Enum: []any{r.typ == "true"}}, nil
	}
	return &schema.Schema{Type: r.typ, Format: r.format}, nil
}

// classifyGeneric handles the single-argument Array<T> form.
func (c *conversion) classifyGeneric(n *model.Generic, strict bool) (*schema.Schema, error) {
	if !c.isArraySubject(n.Subject) || len(n.Objects) != 1 {
		return nil, fmt.Errorf("%w %s %s", ErrUnsupportedType, n.Kind(), describe(n.Subject))
	}
	var (
		items *schema.Schema
		err   error
	)
	if name, ok := n.Objects[0].(*model.Name); ok {
		items, err = c.member(name, strict)
	} else {
		items, err = c.classify(n.Objects[0], strict)
	}
	if err != nil {
		return nil, err
	}
	return &schema.Schema{Type: schema.TypeArray, Items: items}, nil
}

func (c *conversion) isArraySubject(n model.TypeNode) bool {
	name, ok := n.(*model.Name)
	if !ok {
		return false
	}
	r := c.resolveName(name.Name)
	return r.known && r.typ == schema.TypeArray
}

// numberEnum builds a number (or integer) enumeration.
func (c *conversion) numberEnum(nums []*model.Number) *schema.Schema {
	s := &schema.Schema{Type: schema.TypeNumber}
	whole := true
	for _, n := range nums {
		s.Enum = append(s.Enum, n.Value)
		if n.Value != math.Trunc(n.Value) || math.IsInf(n.Value, 0) {
			whole = false
		}
	}
	if c.preferInteger && whole {
		s.Type = schema.TypeInteger
	}
	return s
}

func describe(n model.TypeNode) string {
	if name, ok := n.(*model.Name); ok {
		return name.Name
	}
	return string(n.Kind())
}
