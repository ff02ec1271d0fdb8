package tree

import (
	"datatree/catalog"
	"datatree/internal/match"
)

// Function is a callable target: its parameters form an ad-hoc catalog
// and constructing it calls the function with every parameter bound.
type Function struct {
	name    string
	fn      func(catalog.Args) (any, error)
	catalog *catalog.Catalog
}

var _ catalog.Target = (*Function)(nil)

// Parameter declares one parameter of a Function.
type Parameter struct {
	decl fieldDecl
}

// Param declares a function parameter. It is required unless Default or
// Factory is given.
func Param(name string, opts ...FieldOption) Parameter {
	return Parameter{decl: newFieldDecl(name, catalog.DefaultNone, opts)}
}

// Func wraps fn as a composable target.
func Func(name string, fn func(catalog.Args) (any, error), params ...Parameter) (*Function, error) {
	if name == "" {
		return nil, &ConfigurationError{Reason: "function has no name"}
	}

	if fn == nil {
		return nil, &ConfigurationError{Type: name, Reason: "function is nil"}
	}

	fields := make([]catalog.Field, len(params))

	for i, p := range params {
		f := p.decl.field
		switch {
		case f.Kind == catalog.DefaultSelf || f.Kind == catalog.DefaultNode:
			return nil, &ConfigurationError{Type: name, Field: f.Name, Reason: "parameter default must be a literal or a factory"}
		case f.Kind == catalog.DefaultFactory && f.Factory == nil:
			return nil, &ConfigurationError{Type: name, Field: f.Name, Reason: "factory is nil"}
		}

		f.Init = true
		f.Compare = true
		fields[i] = f
	}

	cat, err := catalog.New(fields...)
	if err != nil {
		return nil, &ConfigurationError{Type: name, Reason: "invalid parameters", Err: err}
	}

	return &Function{name: name, fn: fn, catalog: cat}, nil
}

// MustFunc is like Func but panics on error.
func MustFunc(name string, fn func(catalog.Args) (any, error), params ...Parameter) *Function {
	f, err := Func(name, fn, params...)
	if err != nil {
		panic(err)
	}

	return f
}

// Name returns the function name.
func (f *Function) Name() string { return f.name }

// String returns the function name.
func (f *Function) String() string { return f.name }

// Catalog returns the parameter catalog.
func (f *Function) Catalog() *catalog.Catalog { return f.catalog }

// Construct fills defaults for omitted parameters and calls the function.
func (f *Function) Construct(args catalog.Args) (any, error) {
	for _, k := range args.Keys() {
		if !f.catalog.Has(k) {
			return nil, &ArgumentError{
				Type:        f.name,
				Field:       k,
				Reason:      "unexpected argument",
				Suggestions: match.Suggest(k, f.catalog.Names(), 3),
			}
		}
	}

	bound := make(catalog.Args, f.catalog.Len())

	for _, p := range f.catalog.Fields() {
		if v, ok := args[p.Name]; ok {
			bound[p.Name] = v
			continue
		}

		switch p.Kind {
		case catalog.DefaultLiteral:
			bound[p.Name] = p.Value
		case catalog.DefaultFactory:
			bound[p.Name] = p.Factory()
		default:
			return nil, &ArgumentError{Type: f.name, Field: p.Name, Reason: "missing required argument"}
		}
	}

	return f.fn(bound)
}
