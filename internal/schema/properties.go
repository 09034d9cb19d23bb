package schema

// Properties is an insertion-ordered map of named schemas.
type Properties struct {
	keys   []string
	values map[string]*Schema
}

// NewProperties creates an empty Properties.
func NewProperties() *Properties {
	return &Properties{values: make(map[string]*Schema)}
}

// Set stores s under name. Replacing an existing name keeps its position.
func (p *Properties) Set(name string, s *Schema) {
	if _, ok := p.values[name]; !ok {
		p.keys = append(p.keys, name)
	}
	p.values[name] = s
}

// Get returns the schema stored under name.
func (p *Properties) Get(name string) (*Schema, bool) {
	if p == nil {
		return nil, false
	}
	s, ok := p.values[name]
	return s, ok
}

// Len returns the number of entries.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the names in insertion order.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// Clone returns a deep copy of p.
func (p *Properties) Clone() *Properties {
	if p == nil {
		return nil
	}
	c := NewProperties()
	for _, k := range p.keys {
		c.Set(k, p.values[k].Clone())
	}
	return c
}
