package tree

import (
	"fmt"
	"maps"

	"datatree/catalog"
	"datatree/internal/match"
)

// OverrideField is the parameter added by OverrideParam.
const OverrideField = "override"

// Overrides maps node field names to argument bundles. When a node is
// called, its bundle takes precedence over the owner's live fields but not
// over explicit call arguments.
type Overrides map[string]catalog.Args

type constructConfig struct {
	positional []any
	overrides  Overrides
}

// ConstructOption configures Type.New.
type ConstructOption func(*constructConfig)

// Positional assigns values to constructor parameters in catalog order.
func Positional(values ...any) ConstructOption {
	return func(c *constructConfig) {
		c.positional = append(c.positional, values...)
	}
}

// Override adds an argument bundle for the node field node.
func Override(node string, args catalog.Args) ConstructOption {
	return func(c *constructConfig) {
		if c.overrides == nil {
			c.overrides = make(Overrides)
		}

		bundle := c.overrides[node].Clone()
		for k, v := range args {
			bundle[k] = v
		}

		c.overrides[node] = bundle
	}
}

// WithOverrides adds every bundle of o.
func WithOverrides(o Overrides) ConstructOption {
	return func(c *constructConfig) {
		for node, args := range o {
			Override(node, args)(c)
		}
	}
}

// freeze validates o against t and returns an independent copy.
func (o Overrides) freeze(t *Type) (Overrides, error) {
	if len(o) == 0 {
		return nil, nil
	}

	out := make(Overrides, len(o))

	for _, node := range sortedKeys(o) {
		f, ok := t.catalog.Lookup(node)
		if !ok || !f.IsNode() {
			return nil, &ArgumentError{
				Type:        t.name,
				Field:       node,
				Reason:      "override names no node field",
				Suggestions: match.Suggest(node, t.nodeNames(), 3),
			}
		}

		tcat := f.Node.Target.Catalog()
		bundle := o[node]

		for _, k := range bundle.Keys() {
			if p, ok := tcat.Lookup(k); !ok || !p.IsParam() {
				return nil, &ArgumentError{
					Type:        t.name,
					Field:       node,
					Reason:      fmt.Sprintf("override argument %q is not a parameter of %s", k, f.Node.Target.Name()),
					Suggestions: match.Suggest(k, tcat.ParamNames(), 3),
				}
			}
		}

		out[node] = bundle.Clone()
	}

	return out, nil
}

// overridesFrom merges the OverrideField argument with the bundles given
// as construct options; option bundles win per argument.
func (t *Type) overridesFrom(raw any, opts Overrides) (Overrides, error) {
	var base Overrides

	switch x := raw.(type) {
	case nil:
	case Overrides:
		base = x
	case map[string]catalog.Args:
		base = Overrides(x)
	default:
		return nil, &ArgumentError{
			Type:   t.name,
			Field:  OverrideField,
			Reason: fmt.Sprintf("expects tree.Overrides, got %T", raw),
		}
	}

	out := make(Overrides, len(base)+len(opts))
	for node, bundle := range base {
		out[node] = bundle.Clone()
	}

	for node, bundle := range opts {
		merged := out[node].Clone()
		maps.Copy(merged, bundle)
		out[node] = merged
	}

	return out, nil
}

// isOverrideParam reports whether name is target's OverrideField parameter.
// It is never exposed through a node.
func isOverrideParam(target catalog.Target, name string) bool {
	t, ok := target.(*Type)
	return ok && t.override && name == OverrideField
}

func (t *Type) nodeNames() []string {
	var out []string

	for _, f := range t.catalog.Fields() {
		if f.IsNode() {
			out = append(out, f.Name)
		}
	}

	return out
}

func sortedKeys(o Overrides) []string {
	keys := make(catalog.Args, len(o))
	for k := range o {
		keys[k] = nil
	}

	return keys.Keys()
}
