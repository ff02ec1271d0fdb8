package tree

import (
	"slices"
	"sync"

	"go.uber.org/zap"

	"datatree/catalog"
	"datatree/internal/match"
)

type hook struct {
	owner string
	fn    func(*Instance) error
}

// Type is a composable record type. Its catalog holds inherited, declared
// and injected fields; it is immutable once Define returns, except for
// class-scoped values.
type Type struct {
	name        string
	bases       []*Type
	mro         []*Type
	catalog     *catalog.Catalog
	resolved    map[string]*entry
	injections  *Injections
	postInit    func(*Instance) error
	chain       bool
	keywordOnly bool
	override    bool
	hooks       []hook

	mu          sync.RWMutex
	classValues map[string]any
}

var _ catalog.Target = (*Type)(nil)

// Define resolves a new type: bases are linearized, their catalogs merged,
// own fields declared and own node directives injected.
func Define(name string, opts ...TypeOption) (*Type, error) {
	if name == "" {
		return nil, &ConfigurationError{Reason: "type has no name"}
	}

	var decl typeDecl
	for _, opt := range opts {
		opt(&decl)
	}

	for i, b := range decl.bases {
		if b == nil {
			return nil, &ConfigurationError{Type: name, Reason: "nil base type"}
		}

		if slices.Index(decl.bases, b) != i {
			return nil, &ConfigurationError{Type: name, Reason: "duplicate base " + b.name}
		}
	}

	t := &Type{
		name:        name,
		bases:       decl.bases,
		postInit:    decl.postInit,
		chain:       decl.chain,
		keywordOnly: decl.keywordOnly,
		classValues: make(map[string]any),
	}

	mro, err := linearize(t, decl.bases)
	if err != nil {
		return nil, err
	}

	t.mro = mro

	for _, b := range mro[1:] {
		t.override = t.override || b.override
	}

	if decl.override && !t.override {
		t.override = true
		decl.fields = append(decl.fields, fieldDecl{field: catalog.Field{
			Name: OverrideField,
			Kind: catalog.DefaultLiteral,
			Doc:  "argument bundles for node fields",
			Init: true,
		}})
	}

	r := newResolver(t)
	r.inherit(mro[1:])

	if err := r.declare(decl.fields); err != nil {
		return nil, err
	}

	for _, d := range decl.fields {
		if d.field.IsNode() {
			if err := r.inject(d.field.Name, d.field.Node); err != nil {
				return nil, err
			}
		}
	}

	if err := r.check(t.keywordOnly); err != nil {
		return nil, err
	}

	cat, err := r.catalog()
	if err != nil {
		return nil, &ConfigurationError{Type: name, Reason: "cannot build catalog", Err: err}
	}

	t.catalog = cat
	t.resolved = r.entries
	t.injections = newInjections(t, r)
	t.hooks = t.hookOrder()

	for _, d := range decl.fields {
		if d.field.ClassScoped {
			t.classValues[d.field.Name] = d.field.Value
		}
	}

	logger().Debug("defined type",
		zap.String("type", name),
		zap.Stringer("catalog", cat),
		zap.Int("injected", t.injections.Len()))

	return t, nil
}

// MustDefine is like Define but panics on error.
func MustDefine(name string, opts ...TypeOption) *Type {
	t, err := Define(name, opts...)
	if err != nil {
		panic(err)
	}

	return t
}

// Name returns the type name.
func (t *Type) Name() string { return t.name }

// String returns the type name.
func (t *Type) String() string { return t.name }

// Catalog returns the resolved field catalog.
func (t *Type) Catalog() *catalog.Catalog { return t.catalog }

// Construct builds an instance from keyword arguments.
func (t *Type) Construct(args catalog.Args) (any, error) {
	return t.New(args)
}

// Bases returns the declared base types.
func (t *Type) Bases() []*Type { return slices.Clone(t.bases) }

// Linearization returns t followed by its ancestors in resolution order.
func (t *Type) Linearization() []*Type { return slices.Clone(t.mro) }

// Injections returns the provenance report of injected fields.
func (t *Type) Injections() *Injections { return t.injections }

// FieldDoc returns the documentation of a field; an undocumented field
// yields "".
func (t *Type) FieldDoc(name string) (string, bool) {
	f, ok := t.catalog.Lookup(name)
	if !ok {
		return "", false
	}

	return f.Doc, true
}

// HookOrder names the types whose post-init hooks run, in run order.
func (t *Type) HookOrder() []string {
	out := make([]string, len(t.hooks))
	for i, h := range t.hooks {
		out[i] = h.owner
	}

	return out
}

// hookOrder runs the nearest hook, or with chaining every hook along the
// linearization from the most basic type to t.
func (t *Type) hookOrder() []hook {
	if !t.chain {
		for _, x := range t.mro {
			if x.postInit != nil {
				return []hook{{owner: x.name, fn: x.postInit}}
			}
		}

		return nil
	}

	var out []hook

	for i := len(t.mro) - 1; i >= 0; i-- {
		if x := t.mro[i]; x.postInit != nil {
			out = append(out, hook{owner: x.name, fn: x.postInit})
		}
	}

	return out
}

// ClassValue returns a class-scoped value, searching the linearization.
func (t *Type) ClassValue(name string) (any, bool) {
	for _, x := range t.mro {
		x.mu.RLock()
		v, ok := x.classValues[name]
		x.mu.RUnlock()

		if ok {
			return v, true
		}
	}

	return nil, false
}

// SetClassValue replaces a class-scoped value on t. Instances of t and of
// types that do not shadow it see the new value.
func (t *Type) SetClassValue(name string, v any) error {
	f, ok := t.catalog.Lookup(name)
	if !ok || !f.ClassScoped {
		return &ArgumentError{
			Type:        t.name,
			Field:       name,
			Reason:      "not a class-scoped field",
			Suggestions: match.Suggest(name, t.classNames(), 3),
		}
	}

	t.mu.Lock()
	t.classValues[name] = v
	t.mu.Unlock()

	return nil
}

func (t *Type) classNames() []string {
	var out []string

	for _, f := range t.catalog.Fields() {
		if f.ClassScoped {
			out = append(out, f.Name)
		}
	}

	return out
}
