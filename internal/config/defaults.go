// Package config provides configuration handling for jsdocschema.
package config

// TypeMapping maps a custom JSDoc type name to a JSON Schema type.
type TypeMapping struct {
	Type   string `yaml:"type" json:"type"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}

// DefaultTypeMappings returns the built-in alias table.
func DefaultTypeMappings() map[string]TypeMapping {
	return map[string]TypeMapping{
		"PlainObject":  {Type: "object"},
		"GenericArray": {Type: "array"},
	}
}

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DefaultOptions returns default conversion options.
func DefaultOptions() Options {
	return Options{
		PreferInteger:           false,
		TolerateCase:            true,
		ThrowOnUnrecognizedName: true,
		Defs:                    false,
		SchemaID:                false,
		Space:                   Spaces(2),
		Format:                  FormatJSON,
	}
}
