package generator

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json/jsontext"

	"jsdocschema/internal/model"
	"jsdocschema/internal/parser"
	"jsdocschema/internal/schema"
)

// propertyTree populates one block's root schema from its property tags.
// paths maps each dotted name declared so far to its schema; the root is
// stored under "". It lives for a single block.
type propertyTree struct {
	c     *conversion
	paths map[string]*schema.Schema
}

func (c *conversion) buildProperties(root *schema.Schema, tags []model.Tag) error {
	t := &propertyTree{
		c:     c,
		paths: map[string]*schema.Schema{"": root},
	}
	for _, tag := range tags {
		if tag.Name == "" {
			continue
		}
		if err := t.add(tag); err != nil {
			return fmt.Errorf("property %s (line %d): %w", tag.Name, tag.Line, err)
		}
	}
	return nil
}

func (t *propertyTree) add(tag model.Tag) error {
	parentPath, key := splitPath(tag.Name)
	parent := t.container(parentPath, key)

	frag, err := t.c.tagSchema(tag)
	if err != nil {
		return err
	}

	attach(parent, key, frag, !tag.Optional)
	t.paths[tag.Name] = frag
	return nil
}

// container returns the schema declared at path, creating implicit
// containers for undeclared prefixes. child is the segment that will be
// stored in it and decides between an object and an array.
func (t *propertyTree) container(path, child string) *schema.Schema {
	if s, ok := t.paths[path]; ok {
		return s
	}
	parentPath, key := splitPath(path)
	parent := t.container(parentPath, key)

	s := &schema.Schema{Type: schema.TypeObject}
	if isIndex(child) {
		s.Type = schema.TypeArray
	}
	attach(parent, key, s, false)
	t.paths[path] = s
	return s
}

// tagSchema builds the fragment for one property tag.
func (c *conversion) tagSchema(tag model.Tag) (*schema.Schema, error) {
	node, err := parser.ParseType(tag.Type)
	if err != nil {
		return nil, err
	}
	frag, err := c.classify(node, c.throwOnUnrecognized)
	if err != nil {
		return nil, err
	}
	if tag.Description != "" {
		frag.Description = tag.Description
	}
	if tag.HasDefault {
		v := jsontext.Value(tag.Default)
		if !v.IsValid() {
			return nil, fmt.Errorf("%w %q", ErrMalformedDefault, tag.Default)
		}
		frag.Default = v
	}
	return frag, nil
}

// attach stores frag under key. Array parents take positional entries in
// declaration order; other parents take named properties.
func attach(parent *schema.Schema, key string, frag *schema.Schema, required bool) {
	if parent.Type == schema.TypeArray {
		// Positional entries replace the element schema of Array<T>.
		parent.Items = nil
		parent.TupleItems = append(parent.TupleItems, frag)
		if required {
			if parent.MinItems == nil {
				parent.MinItems = new(int)
			}
			*parent.MinItems++
		}
		n := len(parent.TupleItems)
		parent.MaxItems = &n
		return
	}

	if parent.Properties == nil {
		parent.Properties = schema.NewProperties()
	}
	parent.Properties.Set(key, frag)
	if required && !slices.Contains(parent.Required, key) {
		parent.Required = append(parent.Required, key)
	}
}

// splitPath splits "a.b.c" into ("a.b", "c").
func splitPath(path string) (string, string) {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

func isIndex(seg string) bool {
	n, err := strconv.Atoi(seg)
	return err == nil && n >= 0
}
