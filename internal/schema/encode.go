package schema

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
)

// Encode writes v as JSON. v must be a *Schema, []*Schema or *Document.
// An empty indent produces compact output.
func Encode(w io.Writer, v any, indent string) error {
	var opts []jsontext.Options
	if indent != "" {
		opts = append(opts, jsontext.WithIndent(indent))
	}
	e := &encoder{enc: jsontext.NewEncoder(w, opts...)}

	switch v := v.(type) {
	case *Schema:
		e.schema(v)
	case []*Schema:
		e.list(v)
	case *Document:
		e.document(v)
	default:
		return fmt.Errorf("schema: cannot encode %T", v)
	}
	return e.err
}

// EncodeYAML writes v as YAML, keeping the key order of the JSON form.
func EncodeYAML(w io.Writer, v any) error {
	var buf bytes.Buffer
	if err := Encode(&buf, v, ""); err != nil {
		return err
	}
	out, err := yaml.JSONToYAML(buf.Bytes())
	if err != nil {
		return fmt.Errorf("converting to YAML: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// IDFor returns a stable "urn:uuid:" identifier for a schema title.
func IDFor(title string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("jsdocschema:"+title)).URN()
}

// encoder writes tokens and keeps the first error.
type encoder struct {
	enc *jsontext.Encoder
	err error
}

func (e *encoder) token(t jsontext.Token) {
	if e.err == nil {
		e.err = e.enc.WriteToken(t)
	}
}

func (e *encoder) value(v jsontext.Value) {
	if e.err == nil {
		e.err = e.enc.WriteValue(v)
	}
}

func (e *encoder) str(key, val string) {
	if val == "" {
		return
	}
	e.token(jsontext.String(key))
	e.token(jsontext.String(val))
}

func (e *encoder) list(list []*Schema) {
	e.token(jsontext.BeginArray)
	for _, s := range list {
		e.schema(s)
	}
	e.token(jsontext.EndArray)
}

func (e *encoder) named(key string, list []*Schema) {
	if len(list) == 0 {
		return
	}
	e.token(jsontext.String(key))
	e.list(list)
}

func (e *encoder) properties(p *Properties) {
	e.token(jsontext.BeginObject)
	for _, k := range p.keys {
		e.token(jsontext.String(k))
		e.schema(p.values[k])
	}
	e.token(jsontext.EndObject)
}

func (e *encoder) document(d *Document) {
	e.token(jsontext.BeginObject)
	e.str("$id", d.ID)
	e.token(jsontext.String("$defs"))
	if d.Defs == nil {
		e.token(jsontext.BeginObject)
		e.token(jsontext.EndObject)
	} else {
		e.properties(d.Defs)
	}
	e.named("allOf", d.AllOf)
	e.token(jsontext.EndObject)
}

func (e *encoder) schema(s *Schema) {
	e.token(jsontext.BeginObject)
	e.str("$id", s.ID)
	e.str("classRelation", s.ClassRelation)
	e.str("$ref", s.Ref)
	e.str("type", s.Type)
	e.str("format", s.Format)
	e.str("title", s.Title)
	e.str("description", s.Description)
	if s.Default != nil {
		e.token(jsontext.String("default"))
		e.value(s.Default)
	}
	if len(s.Enum) > 0 {
		e.token(jsontext.String("enum"))
		e.token(jsontext.BeginArray)
		for _, v := range s.Enum {
			e.literal(v)
		}
		e.token(jsontext.EndArray)
	}
	if s.Properties.Len() > 0 {
		e.token(jsontext.String("properties"))
		e.properties(s.Properties)
	}
	if len(s.Required) > 0 {
		e.token(jsontext.String("required"))
		e.token(jsontext.BeginArray)
		for _, r := range s.Required {
			e.token(jsontext.String(r))
		}
		e.token(jsontext.EndArray)
	}
	if s.MinItems != nil {
		e.token(jsontext.String("minItems"))
		e.token(jsontext.Int(int64(*s.MinItems)))
	}
	if s.MaxItems != nil {
		e.token(jsontext.String("maxItems"))
		e.token(jsontext.Int(int64(*s.MaxItems)))
	}
	switch {
	case s.Items != nil:
		e.token(jsontext.String("items"))
		e.schema(s.Items)
	case len(s.TupleItems) > 0:
		e.named("items", s.TupleItems)
	}
	e.named("allOf", s.AllOf)
	e.named("anyOf", s.AnyOf)
	e.token(jsontext.EndObject)
}

func (e *encoder) literal(v any) {
	switch v := v.(type) {
	case nil:
		e.token(jsontext.Null)
	case string:
		e.token(jsontext.String(v))
	case float64:
		e.token(jsontext.Float(v))
	case bool:
		e.token(jsontext.Bool(v))
	default:
		if e.err == nil {
			e.err = fmt.Errorf("schema: unsupported enum value %T", v)
		}
	}
}
