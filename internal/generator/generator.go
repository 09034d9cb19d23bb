// Package generator converts parsed doc comments into JSON Schema.
package generator

import (
	"fmt"
	"io"
	"maps"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"jsdocschema/internal/config"
	"jsdocschema/internal/model"
	"jsdocschema/internal/parser"
	"jsdocschema/internal/schema"
)

// Generator converts doc comments to schemas. It holds only a normalized
// copy of the configuration and is safe for concurrent use.
type Generator struct {
	settings settings
}

type settings struct {
	preferInteger       bool
	tolerateCase        bool
	throwOnUnrecognized bool
	defs                bool
	schemaID            bool
	format              string
	indent              string
	types               map[string]config.TypeMapping
}

// New creates a new Generator from cfg. Later changes to cfg are not seen.
func New(cfg *config.Config) *Generator {
	o := cfg.Options
	return &Generator{settings: settings{
		preferInteger:       o.PreferInteger,
		tolerateCase:        o.TolerateCase,
		throwOnUnrecognized: o.ThrowOnUnrecognizedName,
		defs:                o.Defs,
		schemaID:            o.SchemaID,
		format:              o.Format,
		indent:              o.Space.String(),
		types:               maps.Clone(cfg.Types),
	}}
}

// Result is the output of one conversion: a list of schemas, or a linked
// document in $defs mode.
type Result struct {
	Schemas  []*schema.Schema
	Document *schema.Document
}

// Value returns the value to encode.
func (r *Result) Value() any {
	if r.Document != nil {
		return r.Document
	}
	if r.Schemas == nil {
		return []*schema.Schema{}
	}
	return r.Schemas
}

// Convert parses src and converts its doc blocks.
func (g *Generator) Convert(src string) (*Result, error) {
	file, err := parser.New().Parse(src)
	if err != nil {
		return nil, err
	}
	return g.Generate(file)
}

// Generate converts every typedef block of file. Blocks without a typedef
// tag are skipped.
func (g *Generator) Generate(file *model.File) (*Result, error) {
	c := g.newConversion()

	var schemas []*schema.Schema
	for i := range file.Blocks {
		block := &file.Blocks[i]
		s, ok, err := c.assemble(block)
		if err != nil {
			return nil, fmt.Errorf("block at line %d: %w", block.Line, err)
		}
		if ok {
			schemas = append(schemas, s)
		}
	}

	if !c.defs {
		return &Result{Schemas: schemas}, nil
	}
	doc, err := c.link(schemas)
	if err != nil {
		return nil, err
	}
	return &Result{Document: doc}, nil
}

// Write encodes res in the configured format and indentation.
func (g *Generator) Write(w io.Writer, res *Result) error {
	if g.settings.format == config.FormatYAML {
		return schema.EncodeYAML(w, res.Value())
	}
	return schema.Encode(w, res.Value(), g.settings.indent)
}

// conversion is the state of a single Generate call.
type conversion struct {
	settings
	lower cases.Caser
}

func (g *Generator) newConversion() *conversion {
	return &conversion{
		settings: g.settings,
		lower:    cases.Lower(language.Und),
	}
}

// assemble builds the schema of one block, reporting false when the block
// has no typedef tag.
func (c *conversion) assemble(block *model.DocBlock) (*schema.Schema, bool, error) {
	td, ok := block.Typedef()
	if !ok {
		return nil, false, nil
	}

	root, err := c.typedefSchema(td.Type)
	if err != nil {
		return nil, false, err
	}
	if td.Name != "" {
		root.Title = td.Name
	}
	switch {
	case block.Description != "":
		root.Description = block.Description
	case td.Description != "":
		root.Description = td.Description
	}

	if err := c.buildProperties(root, block.Properties()); err != nil {
		return nil, false, err
	}

	if c.schemaID && !c.defs && root.Title != "" {
		root.ID = schema.IDFor(root.Title)
	}
	return root, true, nil
}

// typedefSchema classifies a typedef's own type. Unknown names pass through
// since they may name another block; a missing or unparsable type is a
// plain object.
func (c *conversion) typedefSchema(expr string) (*schema.Schema, error) {
	node, err := parser.ParseType(expr)
	if err != nil {
		return &schema.Schema{Type: schema.TypeObject}, nil
	}
	if _, ok := node.(*model.Untyped); ok {
		return &schema.Schema{Type: schema.TypeObject}, nil
	}
	return c.classify(node, false)
}
