package catalog

import (
	"fmt"
	"maps"
	"slices"
)

// Args carries keyword arguments for a constructor or a node call.
type Args map[string]any

// Clone returns a shallow copy; a nil Args clones to an empty map.
func (a Args) Clone() Args {
	out := make(Args, len(a))
	maps.Copy(out, a)

	return out
}

// Keys returns the argument names sorted.
func (a Args) Keys() []string {
	return slices.Sorted(maps.Keys(a))
}

// Target is anything a Directive can compose from: a record type with its
// own catalog, or a plain callable whose parameters form an ad-hoc catalog.
type Target interface {
	// Name identifies the target in reports and errors.
	Name() string
	// Catalog returns the target's resolved field catalog.
	Catalog() *Catalog
	// Construct builds a new target value from keyword arguments.
	// Parameters not present in args take the target's own defaults.
	Construct(args Args) (any, error)
}

// Caller is a callable node value.
type Caller interface {
	Call(args Args) (any, error)
}

// View is a read-only accessor over the fields already assigned on an
// instance under construction.
type View interface {
	// Value returns the named field's current value.
	Value(name string) (any, error)
	// Call invokes the named node field with args.
	Call(name string, args Args) (any, error)
}

// SelfDefault computes a field default from its siblings.
type SelfDefault func(v View) (any, error)

// Lookup reads a typed value from a View.
func Lookup[T any](v View, name string) (T, error) {
	var zero T

	raw, err := v.Value(name)
	if err != nil {
		return zero, err
	}

	typed, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("field %q: expected %T, got %T", name, zero, raw)
	}

	return typed, nil
}
