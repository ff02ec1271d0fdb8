package tree

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"datatree/catalog"
	"datatree/internal/match"
)

// Instance is a constructed value of a Type. Field values are plain data;
// node fields hold callables. An Instance is not safe for concurrent
// mutation.
type Instance struct {
	typ       *Type
	id        uuid.UUID
	values    map[string]any
	overrides Overrides
}

// New constructs an instance. Construction assigns explicit arguments,
// literal, factory and node defaults first, then evaluates self defaults
// in catalog order, then runs the post-init hooks.
func (t *Type) New(args catalog.Args, opts ...ConstructOption) (*Instance, error) {
	var cfg constructConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	args, err := t.bindPositional(args, cfg.positional)
	if err != nil {
		return nil, err
	}

	if err := t.checkArgs(args); err != nil {
		return nil, err
	}

	if t.override {
		cfg.overrides, err = t.overridesFrom(args[OverrideField], cfg.overrides)
		if err != nil {
			return nil, err
		}
	}

	overrides, err := cfg.overrides.freeze(t)
	if err != nil {
		return nil, err
	}

	inst := &Instance{
		typ:       t,
		id:        uuid.New(),
		values:    make(map[string]any, t.catalog.Len()),
		overrides: overrides,
	}

	fields := t.catalog.Fields()

	for _, f := range fields {
		if err := inst.assign(f, args); err != nil {
			return nil, err
		}
	}

	if t.override {
		inst.values[OverrideField] = overrides
	}

	view := ViewOf(inst)

	for _, f := range fields {
		if f.ClassScoped || f.Kind != catalog.DefaultSelf || f.Deferred {
			continue
		}

		if _, done := inst.values[f.Name]; done {
			continue
		}

		v, err := f.Self(view)
		if err != nil {
			return nil, fmt.Errorf("datatree: %s.%s: self default: %w", t.name, f.Name, err)
		}

		inst.values[f.Name] = v
	}

	for _, h := range t.hooks {
		if err := h.fn(inst); err != nil {
			return nil, fmt.Errorf("datatree: %s: post-init of %s: %w", t.name, h.owner, err)
		}
	}

	logger().Debug("constructed instance", zap.String("type", t.name), zap.Stringer("id", inst.id))

	return inst, nil
}

// MustNew is like New but panics on error.
func (t *Type) MustNew(args catalog.Args, opts ...ConstructOption) *Instance {
	inst, err := t.New(args, opts...)
	if err != nil {
		panic(err)
	}

	return inst
}

func (t *Type) bindPositional(args catalog.Args, positional []any) (catalog.Args, error) {
	out := args.Clone()
	if len(positional) == 0 {
		return out, nil
	}

	params := t.catalog.Params()
	if len(positional) > len(params) {
		return nil, &ArgumentError{
			Type:   t.name,
			Reason: fmt.Sprintf("takes %d positional arguments but %d were given", len(params), len(positional)),
		}
	}

	for i, v := range positional {
		name := params[i].Name
		if _, dup := out[name]; dup {
			return nil, &ArgumentError{Type: t.name, Field: name, Reason: "got multiple values"}
		}

		out[name] = v
	}

	return out, nil
}

func (t *Type) checkArgs(args catalog.Args) error {
	for _, k := range args.Keys() {
		f, ok := t.catalog.Lookup(k)
		switch {
		case !ok:
			return &ArgumentError{
				Type:        t.name,
				Field:       k,
				Reason:      "unexpected argument",
				Suggestions: match.Suggest(k, t.catalog.ParamNames(), 3),
			}
		case f.ClassScoped:
			return &ArgumentError{Type: t.name, Field: k, Reason: "class-scoped field cannot be passed to the constructor"}
		case !f.Init:
			return &ArgumentError{Type: t.name, Field: k, Reason: "field is not a constructor parameter"}
		}
	}

	return nil
}

// assign sets every field that does not need sibling values.
func (i *Instance) assign(f catalog.Field, args catalog.Args) error {
	if f.ClassScoped {
		return nil
	}

	if v, ok := args[f.Name]; ok {
		if f.IsNode() {
			bound, err := i.adopt(f.Name, v)
			if err != nil {
				return err
			}

			v = bound
		}

		i.values[f.Name] = v

		return nil
	}

	switch f.Kind {
	case catalog.DefaultNone:
		return &ArgumentError{Type: i.typ.name, Field: f.Name, Reason: "missing required argument"}
	case catalog.DefaultLiteral:
		i.values[f.Name] = f.Value
	case catalog.DefaultFactory:
		i.values[f.Name] = f.Factory()
	case catalog.DefaultNode:
		i.values[f.Name] = &BoundNode{owner: i, field: f.Name, directive: f.Node}
	case catalog.DefaultSelf:
		if f.Deferred {
			i.values[f.Name] = &Deferred{Field: f.Name, fn: f.Self}
		}
	}

	return nil
}

// adopt converts an explicit node field value into a caller.
func (i *Instance) adopt(name string, v any) (any, error) {
	switch x := v.(type) {
	case *catalog.Directive:
		return &BoundNode{owner: i, field: name, directive: x}, nil
	case catalog.Caller:
		return x, nil
	case func(catalog.Args) (any, error):
		return CallerFunc(x), nil
	default:
		return nil, &ArgumentError{
			Type:   i.typ.name,
			Field:  name,
			Reason: fmt.Sprintf("node field expects a directive or a callable, got %T", v),
		}
	}
}

// live returns the owner value a bound node may forward.
func (i *Instance) live(name string) (any, bool) {
	v, ok := i.values[name]
	if !ok {
		return nil, false
	}

	if _, deferred := v.(*Deferred); deferred {
		return nil, false
	}

	if f, ok := i.typ.catalog.Lookup(name); ok && f.IsNode() {
		return nil, false
	}

	return v, true
}

// Type returns the instance's type.
func (i *Instance) Type() *Type { return i.typ }

// ID returns the instance's unique id.
func (i *Instance) ID() uuid.UUID { return i.id }

// Get returns an instance field, falling back to class-scoped values.
func (i *Instance) Get(name string) (any, error) {
	if v, ok := i.values[name]; ok {
		return v, nil
	}

	if v, ok := i.typ.ClassValue(name); ok {
		return v, nil
	}

	return nil, &ArgumentError{
		Type:        i.typ.name,
		Field:       name,
		Reason:      "no such field",
		Suggestions: match.Suggest(name, i.typ.catalog.Names(), 3),
	}
}

// MustGet is like Get but panics on error.
func (i *Instance) MustGet(name string) any {
	v, err := i.Get(name)
	if err != nil {
		panic(err)
	}

	return v
}

// Has reports whether name is readable through Get.
func (i *Instance) Has(name string) bool {
	_, err := i.Get(name)
	return err == nil
}

// Set replaces an instance field. Node fields accept the same values as
// the constructor.
func (i *Instance) Set(name string, v any) error {
	f, ok := i.typ.catalog.Lookup(name)
	switch {
	case !ok:
		return &ArgumentError{
			Type:        i.typ.name,
			Field:       name,
			Reason:      "no such field",
			Suggestions: match.Suggest(name, i.typ.catalog.Names(), 3),
		}
	case f.ClassScoped:
		return &ArgumentError{Type: i.typ.name, Field: name, Reason: "class-scoped field; use SetClassValue"}
	}

	if f.IsNode() {
		bound, err := i.adopt(name, v)
		if err != nil {
			return err
		}

		v = bound
	}

	i.values[name] = v

	return nil
}

// Node returns the callable held by a node field.
func (i *Instance) Node(name string) (catalog.Caller, error) {
	v, err := i.Get(name)
	if err != nil {
		return nil, err
	}

	c, ok := v.(catalog.Caller)
	if !ok {
		return nil, &ArgumentError{Type: i.typ.name, Field: name, Reason: fmt.Sprintf("field is not callable (%T)", v)}
	}

	return c, nil
}

// Call invokes the node field name with args.
func (i *Instance) Call(name string, args catalog.Args) (any, error) {
	c, err := i.Node(name)
	if err != nil {
		return nil, err
	}

	return c.Call(args)
}

// Doc returns the documentation of a field.
func (i *Instance) Doc(name string) (string, bool) {
	return i.typ.FieldDoc(name)
}

// Values returns a copy of the instance fields.
func (i *Instance) Values() catalog.Args {
	return catalog.Args(i.values).Clone()
}

// Equal compares type and every compared field.
func (i *Instance) Equal(other *Instance) bool {
	if i == nil || other == nil {
		return i == other
	}

	if i.typ != other.typ {
		return false
	}

	for _, f := range i.typ.catalog.Fields() {
		if f.ClassScoped || !f.Compare {
			continue
		}

		if !Equal(i.values[f.Name], other.values[f.Name]) {
			return false
		}
	}

	return true
}

// Equal compares two field values. Instances compare with Instance.Equal,
// also when held in slices, arrays or maps; everything else falls back to
// reflect.DeepEqual. Values must not be cyclic through those containers.
func Equal(a, b any) bool {
	ai, aok := a.(*Instance)
	bi, bok := b.(*Instance)

	if aok || bok {
		return aok && bok && ai.Equal(bi)
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() || va.Type() != vb.Type() {
		return reflect.DeepEqual(a, b)
	}

	switch va.Kind() {
	case reflect.Slice:
		if va.IsNil() != vb.IsNil() {
			return false
		}

		fallthrough
	case reflect.Array:
		if va.Len() != vb.Len() {
			return false
		}

		for i := range va.Len() {
			if !Equal(va.Index(i).Interface(), vb.Index(i).Interface()) {
				return false
			}
		}

		return true
	case reflect.Map:
		if va.IsNil() != vb.IsNil() || va.Len() != vb.Len() {
			return false
		}

		iter := va.MapRange()
		for iter.Next() {
			w := vb.MapIndex(iter.Key())
			if !w.IsValid() || !Equal(iter.Value().Interface(), w.Interface()) {
				return false
			}
		}

		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

// String renders the instance as Name(field=value, ...).
func (i *Instance) String() string {
	var parts []string

	for _, f := range i.typ.catalog.Fields() {
		if f.ClassScoped {
			continue
		}

		parts = append(parts, f.Name+"="+formatValue(i.values[f.Name]))
	}

	return i.typ.name + "(" + strings.Join(parts, ", ") + ")"
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

// ViewOf returns a read-only view over the assigned fields of inst.
func ViewOf(inst *Instance) catalog.View {
	return instanceView{inst: inst}
}

type instanceView struct {
	inst *Instance
}

func (v instanceView) Value(name string) (any, error) {
	if val, ok := v.inst.values[name]; ok {
		return val, nil
	}

	if val, ok := v.inst.typ.ClassValue(name); ok {
		return val, nil
	}

	if v.inst.typ.catalog.Has(name) {
		return nil, &ConfigurationError{
			Type:   v.inst.typ.name,
			Field:  name,
			Reason: "read before assignment",
			Err:    ErrNotAssigned,
		}
	}

	return nil, &ConfigurationError{
		Type:        v.inst.typ.name,
		Field:       name,
		Reason:      "no such field",
		Suggestions: match.Suggest(name, v.inst.typ.catalog.Names(), 3),
	}
}

func (v instanceView) Call(name string, args catalog.Args) (any, error) {
	return v.inst.Call(name, args)
}
