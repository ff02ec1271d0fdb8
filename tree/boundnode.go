package tree

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"datatree/catalog"
	"datatree/internal/match"
)

// CallerFunc adapts a plain function to catalog.Caller.
type CallerFunc func(args catalog.Args) (any, error)

// Call invokes f.
func (f CallerFunc) Call(args catalog.Args) (any, error) { return f(args) }

// Deferred is the value of an injected self-default field: the owner
// keeps it unevaluated and the target computes its own copy on
// construction. Eval runs it against any view.
type Deferred struct {
	Field string
	fn    catalog.SelfDefault
}

// Eval computes the default against v.
func (d *Deferred) Eval(v catalog.View) (any, error) {
	return d.fn(v)
}

// String implements fmt.Stringer.
func (d *Deferred) String() string { return "Deferred(" + d.Field + ")" }

// BoundNode is a directive bound to one owner instance. Calling it builds
// the target from the owner's live field values.
type BoundNode struct {
	owner     *Instance
	field     string
	directive *catalog.Directive

	once    sync.Once
	exposed map[string]string
	err     error
}

var _ catalog.Caller = (*BoundNode)(nil)

// Owner returns the bound instance.
func (b *BoundNode) Owner() *Instance { return b.owner }

// Field returns the owner's node field name.
func (b *BoundNode) Field() string { return b.field }

// Directive returns the bound directive.
func (b *BoundNode) Directive() *catalog.Directive { return b.directive }

// String implements fmt.Stringer.
func (b *BoundNode) String() string { return "Node(" + b.directive.TargetName() + ")" }

// Call constructs the target. Each target parameter takes, in order of
// precedence: the explicit argument, the owner's override bundle for this
// node, the owner's current value of the exposed field, the target's own
// default.
func (b *BoundNode) Call(args catalog.Args) (any, error) {
	bundle, err := b.Arguments(args)
	if err != nil {
		return nil, err
	}

	v, err := b.directive.Target.Construct(bundle)
	if err != nil {
		return nil, err
	}

	logger().Debug("called node",
		zap.String("owner", b.owner.typ.name),
		zap.String("node", b.field),
		zap.String("target", b.directive.TargetName()),
		zap.Strings("args", bundle.Keys()))

	return v, nil
}

// Arguments computes the argument bundle Call passes to the target.
func (b *BoundNode) Arguments(args catalog.Args) (catalog.Args, error) {
	target := b.directive.Target
	tcat := target.Catalog()

	for _, k := range args.Keys() {
		f, ok := tcat.Lookup(k)
		switch {
		case !ok:
			return nil, &ArgumentError{
				Type:        target.Name(),
				Field:       k,
				Reason:      "unexpected argument",
				Suggestions: match.Suggest(k, tcat.ParamNames(), 3),
			}
		case f.ClassScoped:
			return nil, &ArgumentError{Type: target.Name(), Field: k, Reason: "class-scoped field cannot be passed"}
		case !f.Init:
			return nil, &ArgumentError{Type: target.Name(), Field: k, Reason: "field is not a constructor parameter"}
		}
	}

	exposed, err := b.exposure()
	if err != nil {
		return nil, err
	}

	override := b.owner.overrides[b.field]
	out := make(catalog.Args)

	for _, p := range tcat.Params() {
		if v, ok := args[p.Name]; ok {
			out[p.Name] = v
			continue
		}

		if v, ok := override[p.Name]; ok {
			out[p.Name] = v
			continue
		}

		if p.IsNode() {
			continue
		}

		name, ok := exposed[p.Name]
		if !ok {
			continue
		}

		if v, ok := b.owner.live(name); ok {
			out[p.Name] = v
		}
	}

	return out, nil
}

// exposure maps exposed target fields to owner field names.
func (b *BoundNode) exposure() (map[string]string, error) {
	b.once.Do(func() {
		fields, err := selectFields(b.owner.typ.name, b.field, b.directive)
		if err != nil {
			b.err = fmt.Errorf("binding %s: %w", b.field, err)
			return
		}

		b.exposed = make(map[string]string, len(fields))
		for _, f := range fields {
			b.exposed[f.Name] = b.directive.FinalName(f.Name)
		}
	})

	return b.exposed, b.err
}
