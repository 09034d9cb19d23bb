package generator

import (
	"fmt"
	"strings"

	"jsdocschema/internal/model"
	"jsdocschema/internal/schema"
)

// compound resolves a union or intersection chain. Every element must be
// of the same candidate kind; a single mismatch rejects the candidate.
func (c *conversion) compound(n model.TypeNode, strict bool) (*schema.Schema, error) {
	elems := model.Chain(n)

	if _, ok := n.(*model.Intersection); ok {
		if !allOf(elems, isReferable) {
			return nil, mixedError(n, elems)
		}
		members, err := c.members(elems, strict)
		if err != nil {
			return nil, err
		}
		return composite(members, false), nil
	}

	if strs, ok := collect[*model.String](elems); ok {
		s := &schema.Schema{Type: schema.TypeString}
		for _, str := range strs {
			s.Enum = append(s.Enum, str.Value)
		}
		return s, nil
	}
	if nums, ok := collect[*model.Number](elems); ok {
		return c.numberEnum(nums), nil
	}
	if allOf(elems, isReferable) {
		members, err := c.members(elems, strict)
		if err != nil {
			return nil, err
		}
		return composite(members, true), nil
	}
	if generics, ok := collect[*model.Generic](elems); ok && c.allArrayOfName(generics) {
		args := make([]model.TypeNode, len(generics))
		for i, g := range generics {
			args[i] = g.Objects[0]
		}
		members, err := c.members(args, strict)
		if err != nil {
			return nil, err
		}
		return &schema.Schema{
			Type:  schema.TypeArray,
			Items: &schema.Schema{AnyOf: members},
		}, nil
	}
	return nil, mixedError(n, elems)
}

// member converts one operand of a reference list. Recognized names become
// their primitive schema; other names become is-a references; groups are
// resolved recursively and keep only their composition.
func (c *conversion) member(n model.TypeNode, strict bool) (*schema.Schema, error) {
	switch v := n.(type) {
	case *model.Name:
		if r := c.resolveName(v.Name); !r.known {
			return schema.NewRef(v.Name), nil
		}
		return c.classifyName(v.Name, strict)
	case *model.Parenthesis:
		return c.group(v, strict)
	default:
		return c.classify(n, strict)
	}
}

// group resolves a parenthesized operand. Only names and chains of names
// and further groups may appear inside; literals and generics cannot be
// combined with references.
func (c *conversion) group(p *model.Parenthesis, strict bool) (*schema.Schema, error) {
	switch inner := p.Value.(type) {
	case *model.Name, *model.Parenthesis:
		return c.member(inner, strict)
	case *model.Union, *model.Intersection:
		elems := model.Chain(inner)
		if !allOf(elems, isReferable) {
			return nil, mixedError(inner, elems)
		}
		members, err := c.members(elems, strict)
		if err != nil {
			return nil, err
		}
		s := composite(members, inner.Kind() == model.KindUnion)
		s.Type = ""
		return s, nil
	default:
		return nil, mixedError(p, []model.TypeNode{inner})
	}
}

func (c *conversion) members(elems []model.TypeNode, strict bool) ([]*schema.Schema, error) {
	out := make([]*schema.Schema, 0, len(elems))
	for _, e := range elems {
		s, err := c.member(e, strict)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (c *conversion) allArrayOfName(generics []*model.Generic) bool {
	for _, g := range generics {
		if !c.isArraySubject(g.Subject) || len(g.Objects) != 1 {
			return false
		}
		if _, ok := g.Objects[0].(*model.Name); !ok {
			return false
		}
	}
	return true
}

// composite wraps members as anyOf (union) or allOf (intersection). The
// result is an object when every member is a reference or a nested group.
func composite(members []*schema.Schema, union bool) *schema.Schema {
	s := &schema.Schema{Type: schema.TypeObject}
	for _, m := range members {
		if m.Ref == "" && !(m.Type == "" && m.IsComposite()) {
			s.Type = ""
			break
		}
	}
	if union {
		s.AnyOf = members
	} else {
		s.AllOf = members
	}
	return s
}

// collect returns the chain as []T when every element has type T.
func collect[T model.TypeNode](elems []model.TypeNode) ([]T, bool) {
	out := make([]T, 0, len(elems))
	for _, e := range elems {
		v, ok := e.(T)
		if !ok {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

func allOf(elems []model.TypeNode, pred func(model.TypeNode) bool) bool {
	for _, e := range elems {
		if !pred(e) {
			return false
		}
	}
	return true
}

func isReferable(n model.TypeNode) bool {
	switch n.(type) {
	case *model.Name, *model.Parenthesis:
		return true
	}
	return false
}

func mixedError(n model.TypeNode, elems []model.TypeNode) error {
	kinds := make([]string, len(elems))
	for i, e := range elems {
		kinds[i] = string(e.Kind())
	}
	return fmt.Errorf("%w in %s: %s", ErrUnsupportedEnumCombination, n.Kind(), strings.Join(kinds, ", "))
}
