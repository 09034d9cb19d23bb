// Package schema defines the JSON Schema fragments produced by the generator.
package schema

import (
	"github.com/go-json-experiment/json/jsontext"
)

// JSON Schema type names.
const (
	TypeNull    = "null"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
	TypeNumber  = "number"
	TypeString  = "string"
	TypeInteger = "integer"
)

// RelationIsA marks a composition entry as an inheritance link.
const RelationIsA = "is-a"

// DefsPrefix prefixes every is-a reference.
const DefsPrefix = "$defs/"

// IsPrimitive reports whether t is one of the seven JSON Schema type names.
func IsPrimitive(t string) bool {
	switch t {
	case TypeNull, TypeBoolean, TypeObject, TypeArray, TypeNumber, TypeString, TypeInteger:
		return true
	}
	return false
}

// Schema is a JSON Schema fragment. Only the keywords reachable from JSDoc
// type expressions are represented.
type Schema struct {
	ID          string
	Title       string
	Description string
	Type        string
	Format      string
	Default     jsontext.Value // Raw JSON literal; nil when absent
	Enum        []any          // string, float64 or bool values

	// Object
	Properties *Properties
	Required   []string

	// Array. Items is the element schema of Array<T>; TupleItems lists
	// positional entries. Both encode as "items".
	Items      *Schema
	TupleItems []*Schema
	MinItems   *int
	MaxItems   *int

	// Composition
	AllOf []*Schema
	AnyOf []*Schema

	// Reference entries
	ClassRelation string
	Ref           string
}

// NewRef returns an is-a reference to the schema titled title.
func NewRef(title string) *Schema {
	return &Schema{ClassRelation: RelationIsA, Ref: DefsPrefix + title}
}

// RefTitle returns the title an is-a reference points at.
func (s *Schema) RefTitle() (string, bool) {
	if s.Ref == "" || len(s.Ref) <= len(DefsPrefix) || s.Ref[:len(DefsPrefix)] != DefsPrefix {
		return "", false
	}
	return s.Ref[len(DefsPrefix):], true
}

// IsComposite reports whether the schema carries allOf or anyOf entries.
func (s *Schema) IsComposite() bool {
	return len(s.AllOf) > 0 || len(s.AnyOf) > 0
}

// References reports whether s links to title anywhere in its composition
// entries or item schemas.
func (s *Schema) References(title string) bool {
	if s == nil {
		return false
	}
	if t, ok := s.RefTitle(); ok && t == title {
		return true
	}
	for _, list := range [][]*Schema{s.AllOf, s.AnyOf, s.TupleItems} {
		for _, sub := range list {
			if sub.References(title) {
				return true
			}
		}
	}
	return s.Items.References(title)
}

// Clone returns a deep copy of s.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	c := *s
	if s.Default != nil {
		c.Default = append(jsontext.Value(nil), s.Default...)
	}
	if s.Enum != nil {
		c.Enum = append([]any(nil), s.Enum...)
	}
	c.Properties = s.Properties.Clone()
	if s.Required != nil {
		c.Required = append([]string(nil), s.Required...)
	}
	c.Items = s.Items.Clone()
	c.TupleItems = cloneList(s.TupleItems)
	c.MinItems = cloneInt(s.MinItems)
	c.MaxItems = cloneInt(s.MaxItems)
	c.AllOf = cloneList(s.AllOf)
	c.AnyOf = cloneList(s.AnyOf)
	return &c
}

func cloneList(list []*Schema) []*Schema {
	if list == nil {
		return nil
	}
	out := make([]*Schema, len(list))
	for i, s := range list {
		out[i] = s.Clone()
	}
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Document is the linked output of $defs mode.
type Document struct {
	ID    string
	Defs  *Properties
	AllOf []*Schema
}
