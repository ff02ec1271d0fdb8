package tree

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"datatree/catalog"
	"datatree/internal/match"
)

// root identifies the field a value ultimately originates from.
type root struct {
	field  string
	target catalog.Target
}

// contribution records one directive injecting one target field.
type contribution struct {
	field     string
	target    catalog.Target
	node      string
	deferring bool
	roots     []root
}

func (c contribution) describe() string {
	return fmt.Sprintf("%s (%s.%s)", c.node, c.target.Name(), c.field)
}

// entry is the resolver's working state for one field name.
type entry struct {
	field     catalog.Field
	declared  bool
	inherited bool
	origin    catalog.Target
	sources   []contribution
}

func (e *entry) clone() *entry {
	cp := *e
	cp.sources = slices.Clone(e.sources)

	return &cp
}

// roots returns the originating fields of e, declared origin first.
func (e *entry) roots() []root {
	var out []root
	if e.declared {
		out = append(out, root{field: e.field.Name, target: e.origin})
	}

	for _, s := range e.sources {
		for _, r := range s.roots {
			if !slices.Contains(out, r) {
				out = append(out, r)
			}
		}
	}

	return out
}

// resolver merges inherited, declared and injected fields of one type.
type resolver struct {
	owner   *Type
	order   []string
	entries map[string]*entry
	log     *zap.Logger
}

func newResolver(owner *Type) *resolver {
	return &resolver{
		owner:   owner,
		entries: make(map[string]*entry),
		log:     logger().With(zap.String("type", owner.name)),
	}
}

func (r *resolver) put(e *entry) {
	if _, ok := r.entries[e.field.Name]; !ok {
		r.order = append(r.order, e.field.Name)
	}

	r.entries[e.field.Name] = e
}

// inherit merges base catalogs, most basic first; nearer bases override
// in place.
func (r *resolver) inherit(ancestors []*Type) {
	for i := len(ancestors) - 1; i >= 0; i-- {
		base := ancestors[i]
		for _, name := range base.catalog.Names() {
			e := base.resolved[name].clone()
			e.inherited = true
			r.put(e)
		}
	}
}

// declare applies the owner's own fields.
func (r *resolver) declare(decls []fieldDecl) error {
	seen := make(map[string]bool, len(decls))

	for _, d := range decls {
		f := d.field

		if seen[f.Name] {
			return &ConfigurationError{Type: r.owner.name, Field: f.Name, Reason: "declared twice"}
		}

		seen[f.Name] = true

		if err := r.checkDeclaration(f); err != nil {
			return err
		}

		e := &entry{field: f, declared: true, origin: r.owner}
		if prev, ok := r.entries[f.Name]; ok {
			if prev.inherited && prev.field.IsNode() {
				r.dropNode(f.Name)
			}

			e.sources = prev.sources
		}

		r.put(e)
	}

	return nil
}

// dropNode forgets inherited contributions of a node the owner redeclares;
// the owner's own directive replaces them.
func (r *resolver) dropNode(node string) {
	for _, e := range r.entries {
		if !e.inherited {
			continue
		}

		e.sources = slices.DeleteFunc(slices.Clone(e.sources), func(c contribution) bool {
			return c.node == node
		})
	}
}

func (r *resolver) checkDeclaration(f catalog.Field) error {
	bad := func(reason string) error {
		return &ConfigurationError{Type: r.owner.name, Field: f.Name, Reason: reason}
	}

	switch {
	case f.Name == "":
		return bad("field has no name")
	case f.Kind == catalog.DefaultNode && (f.Node == nil || f.Node.Target == nil):
		return bad("node field has no target")
	case f.Kind == catalog.DefaultSelf && f.Self == nil:
		return bad("self default is nil")
	case f.Kind == catalog.DefaultFactory && f.Factory == nil:
		return bad("factory is nil")
	case f.ClassScoped && f.Kind == catalog.DefaultNode:
		return bad("class-scoped field cannot be a node")
	}

	return nil
}

// inject applies one directive declared on node field nodeName.
func (r *resolver) inject(nodeName string, d *catalog.Directive) error {
	selected, err := selectFields(r.owner.name, nodeName, d)
	if err != nil {
		return err
	}

	if len(selected) == 0 {
		r.log.Debug("node exposes no fields", zap.String("node", nodeName), zap.String("target", d.TargetName()))
	}

	for _, src := range selected {
		if err := r.injectField(nodeName, d, src); err != nil {
			return err
		}
	}

	return nil
}

func (r *resolver) injectField(nodeName string, d *catalog.Directive, src catalog.Field) error {
	final := d.FinalName(src.Name)

	incoming := src
	incoming.Name = final
	incoming.Doc = d.Documentation(src.Doc)
	incoming.Init = true
	incoming.ClassScoped = false

	if incoming.Kind == catalog.DefaultSelf {
		incoming.Deferred = true
	}

	// Node fields keep their directive; the owner binds its own node.
	if !d.UseDefaults && !incoming.IsNode() {
		incoming = incoming.WithoutDefault()
	}

	c := contribution{
		field:     src.Name,
		target:    d.Target,
		node:      nodeName,
		deferring: !d.UseDefaults,
		roots:     rootsOf(d.Target, src.Name),
	}

	e, exists := r.entries[final]
	if !exists {
		if !incoming.HasDefault() && d.HasDefaultIfMissing {
			incoming = incoming.WithLiteral(d.DefaultIfMissing)
		}

		r.put(&entry{field: incoming, sources: []contribution{c}})
		r.log.Debug("injected field",
			zap.String("field", final),
			zap.String("node", nodeName),
			zap.String("source", d.TargetName()+"."+src.Name))

		return nil
	}

	if err := r.compatible(final, e, c); err != nil {
		return err
	}

	if !e.field.HasDefault() {
		switch {
		case incoming.HasDefault():
			e.field = e.field.WithDefaultOf(incoming)
		case d.HasDefaultIfMissing:
			e.field = e.field.WithLiteral(d.DefaultIfMissing)
		}
	}

	e.sources = append(e.sources, c)

	return nil
}

// compatible decides whether c may join the existing entry e.
func (r *resolver) compatible(name string, e *entry, c contribution) error {
	if e.field.ClassScoped {
		return &CollisionError{
			Type:     r.owner.name,
			Field:    name,
			Existing: "class-scoped field",
			Incoming: c.describe(),
		}
	}

	if e.declared || e.inherited || c.deferring {
		return nil
	}

	for _, s := range e.sources {
		if s.node == c.node || s.deferring {
			return nil
		}

		for _, rt := range s.roots {
			if slices.Contains(c.roots, rt) {
				return nil
			}
		}
	}

	existing := "<none>"
	if len(e.sources) > 0 {
		existing = e.sources[0].describe()
	}

	return &CollisionError{Type: r.owner.name, Field: name, Existing: existing, Incoming: c.describe()}
}

// check enforces the default and ordering rules on the merged catalog.
func (r *resolver) check(keywordOnly bool) error {
	defaulted := ""

	for _, name := range r.order {
		f := r.entries[name].field
		if f.ClassScoped {
			continue
		}

		if !f.Init {
			if !f.HasDefault() {
				return &ConfigurationError{
					Type:   r.owner.name,
					Field:  name,
					Reason: "field is not a constructor parameter and has no default",
				}
			}

			continue
		}

		switch {
		case f.HasDefault() && defaulted == "":
			defaulted = name
		case !f.HasDefault() && defaulted != "" && !keywordOnly:
			return &OrderingError{Type: r.owner.name, Field: name, After: defaulted}
		}
	}

	return nil
}

func (r *resolver) catalog() (*catalog.Catalog, error) {
	fields := make([]catalog.Field, len(r.order))
	for i, name := range r.order {
		fields[i] = r.entries[name].field
	}

	return catalog.New(fields...)
}

// selectFields returns the target fields a directive exposes, in target
// catalog order. Explicitly named fields must exist and be parameters.
func selectFields(owner, node string, d *catalog.Directive) ([]catalog.Field, error) {
	if d == nil || d.Target == nil {
		return nil, &ConfigurationError{Type: owner, Field: node, Reason: "node has no target"}
	}

	tcat := d.Target.Catalog()
	chosen := make(map[string]bool)

	require := func(name, how string) error {
		f, ok := tcat.Lookup(name)
		switch {
		case ok && isOverrideParam(d.Target, name):
			return &ConfigurationError{
				Type:   owner,
				Field:  node,
				Reason: fmt.Sprintf("%s field %q is the override parameter of %s", how, name, d.Target.Name()),
			}
		case !ok:
			return &ConfigurationError{
				Type:        owner,
				Field:       node,
				Reason:      fmt.Sprintf("%s field %q not found in %s", how, name, d.Target.Name()),
				Suggestions: match.Suggest(name, tcat.ParamNames(), 3),
			}
		case f.ClassScoped:
			return &ConfigurationError{
				Type:   owner,
				Field:  node,
				Reason: fmt.Sprintf("%s field %q of %s is class-scoped", how, name, d.Target.Name()),
			}
		case !f.Init:
			return &ConfigurationError{
				Type:   owner,
				Field:  node,
				Reason: fmt.Sprintf("%s field %q is not a parameter of %s", how, name, d.Target.Name()),
			}
		}

		chosen[name] = true

		return nil
	}

	for _, name := range d.Names {
		if err := require(name, "selected"); err != nil {
			return nil, err
		}
	}

	for _, rn := range d.Renames {
		if err := require(rn.From, "renamed"); err != nil {
			return nil, err
		}
	}

	if d.SelectsAll() {
		for _, f := range tcat.Params() {
			chosen[f.Name] = !isOverrideParam(d.Target, f.Name)
		}
	}

	for _, name := range d.ExposeIfAvail {
		if f, ok := tcat.Lookup(name); ok && f.IsParam() && !isOverrideParam(d.Target, name) {
			chosen[name] = true
		}
	}

	var out []catalog.Field

	for _, f := range tcat.Fields() {
		if chosen[f.Name] {
			out = append(out, f)
		}
	}

	return out, nil
}

// rootsOf returns the originating fields of target's field name.
func rootsOf(target catalog.Target, name string) []root {
	if t, ok := target.(*Type); ok {
		if e, ok := t.resolved[name]; ok {
			return e.roots()
		}
	}

	return []root{{field: name, target: target}}
}
