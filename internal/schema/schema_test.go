package schema

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/go-cmp/cmp"
)

func intPtr(n int) *int { return &n }

func TestEncode(t *testing.T) {
	t.Parallel()

	props := NewProperties()
	props.Set("color", &Schema{Type: TypeString, Enum: []any{"red", "blue"}, Default: jsontext.Value(`"red"`)})
	props.Set("pair", &Schema{
		Type:       TypeArray,
		TupleItems: []*Schema{{Type: TypeNumber}, {Type: TypeBoolean, Enum: []any{true}}},
		MinItems:   intPtr(1),
		MaxItems:   intPtr(2),
	})
	props.Set("list", &Schema{Type: TypeArray, Items: NewRef("Circle")})

	tests := []struct {
		name   string
		v      any
		indent string
		want   string
	}{
		{
			name: "key order",
			v: &Schema{
				Description: "A shape",
				Title:       "Shape",
				Type:        TypeObject,
				ID:          "urn:x",
				Properties:  props,
				Required:    []string{"color"},
				AllOf:       []*Schema{NewRef("Base")},
			},
			want: `{"$id":"urn:x","type":"object","title":"Shape","description":"A shape",` +
				`"properties":{"color":{"type":"string","default":"red","enum":["red","blue"]},` +
				`"pair":{"type":"array","minItems":1,"maxItems":2,"items":[{"type":"number"},{"type":"boolean","enum":[true]}]},` +
				`"list":{"type":"array","items":{"classRelation":"is-a","$ref":"$defs/Circle"}}},` +
				`"required":["color"],"allOf":[{"classRelation":"is-a","$ref":"$defs/Base"}]}` + "\n",
		},
		{
			name: "number enum and format",
			v:    &Schema{Type: TypeNumber, Format: "float", Enum: []any{12.0, 34.5}},
			want: `{"type":"number","format":"float","enum":[12,34.5]}` + "\n",
		},
		{
			name: "empty list",
			v:    []*Schema{},
			want: "[]\n",
		},
		{
			name: "document",
			v: &Document{
				Defs:  func() *Properties { p := NewProperties(); p.Set("A", &Schema{Type: TypeObject, Title: "A"}); return p }(),
				AllOf: []*Schema{NewRef("A")},
			},
			want: `{"$defs":{"A":{"type":"object","title":"A"}},"allOf":[{"classRelation":"is-a","$ref":"$defs/A"}]}` + "\n",
		},
		{
			name:   "indented",
			v:      []*Schema{{Type: TypeString}},
			indent: "  ",
			want:   "[\n  {\n    \"type\": \"string\"\n  }\n]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := Encode(&buf, tt.v, tt.indent); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Encode(&buf, "nope", ""); err == nil {
		t.Error("Encode(string) succeeded")
	}
	if err := Encode(&buf, &Schema{Enum: []any{1}}, ""); err == nil {
		t.Error("Encode() with an int enum value succeeded")
	}
}

func TestEncodeYAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := &Schema{Type: TypeObject, Title: "Point", Required: []string{"x"}}
	if err := EncodeYAML(&buf, []*Schema{s}); err != nil {
		t.Fatalf("EncodeYAML() error = %v", err)
	}
	got := buf.String()
	typ := strings.Index(got, "type: object")
	title := strings.Index(got, "title: Point")
	if typ < 0 || title < 0 || typ > title {
		t.Errorf("EncodeYAML() = %q, want type before title", got)
	}
	if !strings.Contains(got, "- x") {
		t.Errorf("EncodeYAML() = %q, want required list", got)
	}
}

func TestIDFor(t *testing.T) {
	t.Parallel()

	a, b := IDFor("Circle"), IDFor("Circle")
	if a != b {
		t.Errorf("IDFor() not deterministic: %s != %s", a, b)
	}
	if !strings.HasPrefix(a, "urn:uuid:") {
		t.Errorf("IDFor() = %s, want urn:uuid: prefix", a)
	}
	if a == IDFor("Square") {
		t.Error("IDFor() collides for different titles")
	}
}

func TestProperties(t *testing.T) {
	t.Parallel()

	p := NewProperties()
	p.Set("b", &Schema{Type: TypeString})
	p.Set("a", &Schema{Type: TypeNumber})
	p.Set("b", &Schema{Type: TypeBoolean})

	if diff := cmp.Diff([]string{"b", "a"}, p.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if s, _ := p.Get("b"); s.Type != TypeBoolean {
		t.Errorf("Get(b).Type = %s, want boolean", s.Type)
	}

	var nilProps *Properties
	if nilProps.Len() != 0 || nilProps.Keys() != nil || nilProps.Clone() != nil {
		t.Error("nil Properties is not empty")
	}
	if _, ok := nilProps.Get("a"); ok {
		t.Error("nil Properties Get() found an entry")
	}
}

func TestClone(t *testing.T) {
	t.Parallel()

	props := NewProperties()
	props.Set("a", &Schema{Type: TypeString})
	orig := &Schema{
		Type:       TypeObject,
		Default:    jsontext.Value(`{}`),
		Properties: props,
		Required:   []string{"a"},
		MinItems:   intPtr(1),
		AllOf:      []*Schema{NewRef("X")},
	}

	c := orig.Clone()
	c.Type = TypeArray
	c.Default[0] = '['
	c.Required[0] = "z"
	*c.MinItems = 9
	c.AllOf[0].Ref = "changed"
	inner, _ := c.Properties.Get("a")
	inner.Type = TypeNumber

	if orig.Type != TypeObject || string(orig.Default) != "{}" || orig.Required[0] != "a" ||
		*orig.MinItems != 1 || orig.AllOf[0].Ref != "$defs/X" {
		t.Errorf("Clone() shares state with the original: %+v", orig)
	}
	if s, _ := orig.Properties.Get("a"); s.Type != TypeString {
		t.Error("Clone() shares property schemas with the original")
	}
}

func TestReferences(t *testing.T) {
	t.Parallel()

	s := &Schema{
		Type: TypeObject,
		AllOf: []*Schema{
			NewRef("ShapeInfo"),
			{AnyOf: []*Schema{NewRef("Circle"), NewRef("Rectangle")}},
		},
	}
	for _, title := range []string{"ShapeInfo", "Circle", "Rectangle"} {
		if !s.References(title) {
			t.Errorf("References(%s) = false, want true", title)
		}
	}
	if s.References("Shape") {
		t.Error("References(Shape) = true, want false")
	}

	arr := &Schema{Type: TypeArray, Items: &Schema{AnyOf: []*Schema{NewRef("A")}}}
	if !arr.References("A") {
		t.Error("References() does not follow items")
	}

	if title, ok := NewRef("Base").RefTitle(); !ok || title != "Base" {
		t.Errorf("RefTitle() = %q, %v", title, ok)
	}
}
