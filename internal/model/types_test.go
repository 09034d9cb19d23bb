package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDocBlock(t *testing.T) {
	t.Parallel()

	b := &DocBlock{Tags: []Tag{
		{Tag: "param", Name: "a"},
		{Tag: TagProperty, Name: "x"},
		{Tag: TagTypedef, Name: "First"},
		{Tag: TagProp, Name: "y"},
		{Tag: TagTypedef, Name: "Second"},
	}}

	td, ok := b.Typedef()
	if !ok || td.Name != "First" {
		t.Errorf("Typedef() = %+v, %v, want First", td, ok)
	}

	var names []string
	for _, p := range b.Properties() {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"x", "y"}, names); diff != "" {
		t.Errorf("Properties() mismatch (-want +got):\n%s", diff)
	}

	if _, ok := (&DocBlock{}).Typedef(); ok {
		t.Error("Typedef() on an empty block reported a tag")
	}
}
