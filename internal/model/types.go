// Package model defines the intermediate representation for parsed doc comments.
package model

// Tag kinds recognized by the generator.
const (
	TagTypedef  = "typedef"
	TagProperty = "property"
	TagProp     = "prop"
)

// File represents a parsed source file.
type File struct {
	Path   string     // File path ("" for in-memory input)
	Blocks []DocBlock // Doc blocks in source order
}

// DocBlock represents one parsed documentation comment.
type DocBlock struct {
	Description string // Text before the first tag
	Tags        []Tag  // Tags in declaration order
	Line        int    // 1-based line of the opening "/**"
}

// Tag represents one declaration line within a block.
type Tag struct {
	Tag         string // Tag kind without "@" (e.g., "typedef")
	Name        string // Declared name, possibly a dotted path
	Type        string // Raw type expression (empty = untyped)
	Description string // Trailing description
	Optional    bool   // Name was written as [name]
	Default     string // Default literal text from [name=default]
	HasDefault  bool   // Whether a default was given
	Line        int    // 1-based source line of the tag
}

// Typedef returns the first typedef tag of the block.
func (b *DocBlock) Typedef() (Tag, bool) {
	for _, t := range b.Tags {
		if t.Tag == TagTypedef {
			return t, true
		}
	}
	return Tag{}, false
}

// Properties returns the property tags of the block in declaration order.
func (b *DocBlock) Properties() []Tag {
	var props []Tag
	for _, t := range b.Tags {
		if t.IsProperty() {
			props = append(props, t)
		}
	}
	return props
}

// IsProperty reports whether the tag declares a property.
func (t Tag) IsProperty() bool {
	return t.Tag == TagProperty || t.Tag == TagProp
}
