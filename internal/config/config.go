package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"jsdocschema/internal/schema"
)

// Config represents the complete configuration.
type Config struct {
	Types       map[string]TypeMapping
	Options     Options
	Files       []string // Input files named by a config file
	OutputPaths []string // Output paths matched to Files by index
}

// Options represents conversion and output options.
type Options struct {
	PreferInteger           bool
	TolerateCase            bool
	ThrowOnUnrecognizedName bool
	Defs                    bool
	SchemaID                bool
	Space                   Indent
	Format                  string
	Concurrency             int
}

// fileConfig is the on-disk layout. Pointers distinguish "unset" from an
// explicit false so defaults can be overridden either way.
type fileConfig struct {
	Types       map[string]TypeMapping `yaml:"types" json:"types"`
	Options     fileOptions            `yaml:"options" json:"options"`
	Files       []string               `yaml:"files" json:"files"`
	OutputPaths []string               `yaml:"outputPaths" json:"outputPaths"`
}

type fileOptions struct {
	PreferInteger           *bool   `yaml:"preferInteger" json:"preferInteger"`
	TolerateCase            *bool   `yaml:"tolerateCase" json:"tolerateCase"`
	ThrowOnUnrecognizedName *bool   `yaml:"throwOnUnrecognizedName" json:"throwOnUnrecognizedName"`
	Defs                    *bool   `yaml:"$defs" json:"$defs"`
	SchemaID                *bool   `yaml:"schemaId" json:"schemaId"`
	Space                   *Indent `yaml:"space" json:"space"`
	Format                  string  `yaml:"format" json:"format"`
	Concurrency             int     `yaml:"concurrency" json:"concurrency"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Types:   DefaultTypeMappings(),
		Options: DefaultOptions(),
	}
}

// LoadFile loads configuration from a file (YAML or JSON based on extension).
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))

	var loaded fileConfig
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return fmt.Errorf("parsing YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &loaded); err != nil {
			return fmt.Errorf("parsing JSON config: %w", err)
		}
	default:
		// Try YAML first, then JSON
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			loaded = fileConfig{}
			if err := json.Unmarshal(data, &loaded); err != nil {
				return fmt.Errorf("unable to parse config as YAML or JSON")
			}
		}
	}

	c.merge(&loaded, filepath.Dir(path))

	return c.Validate()
}

// merge merges the loaded config into the current config. Relative file
// paths are resolved against the config file's directory.
func (c *Config) merge(loaded *fileConfig, base string) {
	// Loaded type mappings override defaults
	for k, v := range loaded.Types {
		c.Types[k] = v
	}

	o := loaded.Options
	setBool(&c.Options.PreferInteger, o.PreferInteger)
	setBool(&c.Options.TolerateCase, o.TolerateCase)
	setBool(&c.Options.ThrowOnUnrecognizedName, o.ThrowOnUnrecognizedName)
	setBool(&c.Options.Defs, o.Defs)
	setBool(&c.Options.SchemaID, o.SchemaID)
	if o.Space != nil {
		c.Options.Space = *o.Space
	}
	if o.Format != "" {
		c.Options.Format = o.Format
	}
	if o.Concurrency != 0 {
		c.Options.Concurrency = o.Concurrency
	}

	for _, f := range loaded.Files {
		c.Files = append(c.Files, resolve(base, f))
	}
	for _, f := range loaded.OutputPaths {
		c.OutputPaths = append(c.OutputPaths, resolve(base, f))
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func resolve(base, path string) string {
	if path == "" || path == "-" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// Validate checks option values and the type table.
func (c *Config) Validate() error {
	switch c.Options.Format {
	case FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown output format %q (want %q or %q)", c.Options.Format, FormatJSON, FormatYAML)
	}
	if c.Options.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Options.Concurrency)
	}
	for name, m := range c.Types {
		if !schema.IsPrimitive(m.Type) {
			return fmt.Errorf("type mapping %s: %q is not a JSON Schema type", name, m.Type)
		}
	}
	return nil
}

// ParseTypes decodes a JSON alias table such as
// {"PlainObject": {"type": "object"}}.
func ParseTypes(s string) (map[string]TypeMapping, error) {
	var types map[string]TypeMapping
	if err := json.Unmarshal([]byte(s), &types); err != nil {
		return nil, fmt.Errorf("parsing types: %w", err)
	}
	return types, nil
}
