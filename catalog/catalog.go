package catalog

import (
	"fmt"
	"strings"
)

// Catalog is an ordered, immutable sequence of fields keyed by name.
type Catalog struct {
	fields []Field
	index  map[string]int
}

// New builds a catalog from fields in the given order.
// It fails if a name is empty or appears twice.
func New(fields ...Field) (*Catalog, error) {
	c := &Catalog{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}

	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("catalog: field %d has no name", len(c.fields))
		}

		if _, dup := c.index[f.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate field %q", f.Name)
		}

		c.index[f.Name] = len(c.fields)
		c.fields = append(c.fields, f)
	}

	return c, nil
}

// Len returns the number of fields.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}

	return len(c.fields)
}

// Lookup returns the named field.
func (c *Catalog) Lookup(name string) (Field, bool) {
	if c == nil {
		return Field{}, false
	}

	i, ok := c.index[name]
	if !ok {
		return Field{}, false
	}

	return c.fields[i], true
}

// Has reports whether the catalog contains name.
func (c *Catalog) Has(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

// Fields returns a copy of all fields in order.
func (c *Catalog) Fields() []Field {
	if c == nil {
		return nil
	}

	out := make([]Field, len(c.fields))
	copy(out, c.fields)

	return out
}

// Names returns all field names in order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}

	out := make([]string, len(c.fields))
	for i, f := range c.fields {
		out[i] = f.Name
	}

	return out
}

// Params returns the constructor parameters (init, not class-scoped) in order.
func (c *Catalog) Params() []Field {
	if c == nil {
		return nil
	}

	var out []Field

	for _, f := range c.fields {
		if f.IsParam() {
			out = append(out, f)
		}
	}

	return out
}

// ParamNames returns the names of Params.
func (c *Catalog) ParamNames() []string {
	params := c.Params()
	out := make([]string, len(params))

	for i, f := range params {
		out[i] = f.Name
	}

	return out
}

// String renders the catalog as "name:kind" pairs, class-scoped fields
// marked with a leading '^'.
func (c *Catalog) String() string {
	if c == nil {
		return "[]"
	}

	parts := make([]string, len(c.fields))

	for i, f := range c.fields {
		prefix := ""
		if f.ClassScoped {
			prefix = "^"
		}

		parts[i] = prefix + f.Name + ":" + f.Kind.String()
	}

	return "[" + strings.Join(parts, " ") + "]"
}
