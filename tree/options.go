package tree

import (
	"maps"
	"slices"

	"datatree/catalog"
)

type fieldDecl struct {
	field      catalog.Field
	initSet    bool
	compareSet bool
}

type typeDecl struct {
	fields      []fieldDecl
	bases       []*Type
	postInit    func(*Instance) error
	chain       bool
	keywordOnly bool
	override    bool
}

// TypeOption configures a type passed to Define.
type TypeOption func(*typeDecl)

// FieldOption configures a single field declaration.
type FieldOption func(*fieldDecl)

// NodeOption configures a Directive built by Node.
type NodeOption func(*catalog.Directive)

// Field declares an instance field. Without options it is a required
// constructor parameter taking part in equality.
func Field(name string, opts ...FieldOption) TypeOption {
	return func(d *typeDecl) {
		d.fields = append(d.fields, newFieldDecl(name, catalog.DefaultNone, opts))
	}
}

// NodeField declares a field whose default is a bound node built from
// directive. Node fields are neither constructor parameters nor compared
// unless Init or Compare say otherwise.
func NodeField(name string, directive *catalog.Directive, opts ...FieldOption) TypeOption {
	return func(d *typeDecl) {
		fd := fieldDecl{field: catalog.Field{Name: name, Kind: catalog.DefaultNode, Node: directive}}
		for _, opt := range opts {
			opt(&fd)
		}

		d.fields = append(d.fields, fd)
	}
}

// NodeOf is shorthand for NodeField(name, Node(target, opts...)).
func NodeOf(name string, target catalog.Target, opts ...NodeOption) TypeOption {
	return NodeField(name, Node(target, opts...))
}

// ClassVar declares a class-scoped value. It is visible through
// Type.ClassValue and Instance.Get, never injected, never a parameter.
func ClassVar(name string, value any, opts ...FieldOption) TypeOption {
	return func(d *typeDecl) {
		fd := fieldDecl{field: catalog.Field{
			Name:        name,
			Kind:        catalog.DefaultLiteral,
			Value:       value,
			ClassScoped: true,
		}}
		for _, opt := range opts {
			opt(&fd)
		}

		fd.field.Init = false
		fd.field.Compare = false
		d.fields = append(d.fields, fd)
	}
}

// Extends sets the base types, nearest first.
func Extends(bases ...*Type) TypeOption {
	return func(d *typeDecl) {
		d.bases = append(d.bases, bases...)
	}
}

// PostInit registers the type's construction hook.
func PostInit(fn func(*Instance) error) TypeOption {
	return func(d *typeDecl) {
		d.postInit = fn
	}
}

// ChainPostInit runs every hook along the linearization, most basic type
// first, instead of only the nearest one.
func ChainPostInit() TypeOption {
	return func(d *typeDecl) {
		d.chain = true
	}
}

// KeywordOnly lifts the required-after-defaulted ordering constraint.
func KeywordOnly() TypeOption {
	return func(d *typeDecl) {
		d.keywordOnly = true
	}
}

// OverrideParam adds the OverrideField constructor parameter. It takes an
// Overrides value whose bundles are used when the instance's nodes are
// called, so callers can reach nested nodes through a node's own bundle.
// Subtypes inherit the parameter.
func OverrideParam() TypeOption {
	return func(d *typeDecl) {
		d.override = true
	}
}

// Default sets a literal default.
func Default(v any) FieldOption {
	return func(fd *fieldDecl) {
		fd.field = fd.field.WithLiteral(v)
	}
}

// Factory sets a default produced fresh for every instance.
func Factory(fn func() any) FieldOption {
	return func(fd *fieldDecl) {
		fd.field = fd.field.WithDefaultOf(catalog.Field{Kind: catalog.DefaultFactory, Factory: fn})
	}
}

// SelfDefault sets a default computed from already assigned sibling fields.
// Such fields are not constructor parameters unless Init(true) is given.
func SelfDefault(fn catalog.SelfDefault) FieldOption {
	return func(fd *fieldDecl) {
		fd.field = fd.field.WithDefaultOf(catalog.Field{Kind: catalog.DefaultSelf, Self: fn})
	}
}

// Doc documents the field.
func Doc(s string) FieldOption {
	return func(fd *fieldDecl) {
		fd.field.Doc = s
	}
}

// Compare includes or excludes the field from equality.
func Compare(b bool) FieldOption {
	return func(fd *fieldDecl) {
		fd.field.Compare = b
		fd.compareSet = true
	}
}

// Init includes or excludes the field from the constructor parameters.
func Init(b bool) FieldOption {
	return func(fd *fieldDecl) {
		fd.field.Init = b
		fd.initSet = true
	}
}

func newFieldDecl(name string, kind catalog.DefaultKind, opts []FieldOption) fieldDecl {
	fd := fieldDecl{field: catalog.Field{Name: name, Kind: kind}}
	for _, opt := range opts {
		opt(&fd)
	}

	if !fd.initSet {
		fd.field.Init = fd.field.Kind != catalog.DefaultSelf
	}

	if !fd.compareSet {
		fd.field.Compare = true
	}

	return fd
}

// Node builds a composition directive over target. Without selection
// options every eligible target field is exposed with its default.
func Node(target catalog.Target, opts ...NodeOption) *catalog.Directive {
	d := &catalog.Directive{Target: target, UseDefaults: true}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Select exposes only the named fields (plus other explicit selections).
func Select(names ...string) NodeOption {
	return func(d *catalog.Directive) {
		d.Names = append(d.Names, names...)
	}
}

// Rename exposes field from under the name to. The prefix does not apply.
func Rename(from, to string) NodeOption {
	return func(d *catalog.Directive) {
		d.Renames = append(d.Renames, catalog.Rename{From: from, To: to})
	}
}

// RenameMap applies Rename for every entry, in key order.
func RenameMap(m map[string]string) NodeOption {
	return func(d *catalog.Directive) {
		for _, from := range slices.Sorted(maps.Keys(m)) {
			d.Renames = append(d.Renames, catalog.Rename{From: from, To: m[from]})
		}
	}
}

// SelectNone exposes nothing except ExposeIfAvail fields.
func SelectNone() NodeOption {
	return func(d *catalog.Directive) {
		d.None = true
	}
}

// ExposeAll exposes every remaining eligible field besides the explicit ones.
func ExposeAll() NodeOption {
	return func(d *catalog.Directive) {
		d.ExposeAll = true
	}
}

// Prefix prepends p to exposed names.
func Prefix(p string) NodeOption {
	return func(d *catalog.Directive) {
		d.Prefix = p
	}
}

// Preserve keeps the listed fields' names unprefixed.
func Preserve(names ...string) NodeOption {
	return func(d *catalog.Directive) {
		d.Preserve = append(d.Preserve, names...)
	}
}

// ExposeIfAvail exposes the listed fields when the target has them.
func ExposeIfAvail(names ...string) NodeOption {
	return func(d *catalog.Directive) {
		d.ExposeIfAvail = append(d.ExposeIfAvail, names...)
	}
}

// UseDefaults controls whether target defaults become owner defaults.
func UseDefaults(b bool) NodeOption {
	return func(d *catalog.Directive) {
		d.UseDefaults = b
	}
}

// DefaultIfMissing supplies a default for exposed fields that would
// otherwise be required.
func DefaultIfMissing(v any) NodeOption {
	return func(d *catalog.Directive) {
		d.DefaultIfMissing = v
		d.HasDefaultIfMissing = true
	}
}

// NodeDoc prefixes the documentation of every exposed field.
func NodeDoc(s string) NodeOption {
	return func(d *catalog.Directive) {
		d.Doc = s
	}
}
