package generator

import (
	"fmt"

	"jsdocschema/internal/schema"
)

// link turns per-block schemas into a $defs document. Blocks whose type
// names another block become objects with an is-a link to it; the latest
// unreferenced non-plain block is the root. The input is not modified.
func (c *conversion) link(in []*schema.Schema) (*schema.Document, error) {
	schemas := make([]*schema.Schema, len(in))
	for i, s := range in {
		if s.Title == "" {
			return nil, fmt.Errorf("%w: typedef %d has no name", ErrMissingTitle, i+1)
		}
		schemas[i] = s.Clone()
	}

	nonPlain := make([]bool, len(schemas))
	for i, s := range schemas {
		if s.Type == "" || schema.IsPrimitive(s.Type) {
			continue
		}
		nonPlain[i] = true

		target := c.findTitle(schemas, i, s.Type)
		if target == nil {
			if c.throwOnUnrecognized {
				return nil, fmt.Errorf("%s: %w %s", s.Title, ErrUnrecognizedTypeName, s.Type)
			}
			s.Type = schema.TypeObject
			continue
		}
		s.Type = schema.TypeObject
		s.AllOf = append(s.AllOf, schema.NewRef(target.Title))
	}

	var root *schema.Schema
	for i := len(schemas) - 1; i >= 0; i-- {
		s := schemas[i]
		if !nonPlain[i] && !s.IsComposite() {
			continue
		}
		if !referenced(schemas, i) {
			root = s
			break
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w: one typedef must have a non-plain type not referenced by others", ErrMissingRootType)
	}

	doc := &schema.Document{
		Defs:  schema.NewProperties(),
		AllOf: []*schema.Schema{schema.NewRef(root.Title)},
	}
	for _, s := range schemas {
		doc.Defs.Set(s.Title, s)
	}
	if c.schemaID {
		doc.ID = schema.IDFor(root.Title)
	}
	return doc, nil
}

// findTitle returns the schema other than schemas[self] titled name.
func (c *conversion) findTitle(schemas []*schema.Schema, self int, name string) *schema.Schema {
	for j, o := range schemas {
		if j == self {
			continue
		}
		if o.Title == name || c.tolerateCase && c.lower.String(o.Title) == c.lower.String(name) {
			return o
		}
	}
	return nil
}

// referenced reports whether any schema other than schemas[i] links to it.
func referenced(schemas []*schema.Schema, i int) bool {
	title := schemas[i].Title
	for j, o := range schemas {
		if j != i && o.References(title) {
			return true
		}
	}
	return false
}
