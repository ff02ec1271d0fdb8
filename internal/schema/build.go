package schema

import (
	"fmt"
	"maps"

	"go.uber.org/zap"

	"datatree/catalog"
	"datatree/tree"
)

type buildConfig struct {
	targets []catalog.Target
	hooks   map[string]func(*tree.Instance) error
	log     *zap.Logger
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

// WithTargets makes Go-defined targets available to the schema by name.
func WithTargets(targets ...catalog.Target) BuildOption {
	return func(c *buildConfig) {
		c.targets = append(c.targets, targets...)
	}
}

// WithPostInit attaches a construction hook to a schema type.
func WithPostInit(typeName string, fn func(*tree.Instance) error) BuildOption {
	return func(c *buildConfig) {
		c.hooks[typeName] = fn
	}
}

// WithLogger sets the logger used while building.
func WithLogger(l *zap.Logger) BuildOption {
	return func(c *buildConfig) {
		c.log = l
	}
}

// Build validates f and defines every declared type in a new registry.
// External targets are registered first, under their own names.
func Build(f *File, opts ...BuildOption) (*tree.Registry, error) {
	cfg := &buildConfig{hooks: make(map[string]func(*tree.Instance) error), log: zap.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}

	external := make([]string, len(cfg.targets))
	for i, t := range cfg.targets {
		external[i] = t.Name()
	}

	if diags := Validate(f, external...); diags.HasErrors() {
		return nil, fmt.Errorf("invalid schema: %w", diags.Error())
	}

	for name := range cfg.hooks {
		if _, ok := f.Lookup(name); !ok {
			return nil, fmt.Errorf("post-init hook for undeclared type %q", name)
		}
	}

	reg := tree.NewRegistry()

	for _, t := range cfg.targets {
		if err := reg.Register(t); err != nil {
			return nil, err
		}
	}

	order, err := orderTypes(f)
	if err != nil {
		return nil, err
	}

	for _, i := range order {
		td := &f.Types[i]

		typeOpts, err := typeOptions(reg, td, cfg)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", td.Name, err)
		}

		t, err := reg.Define(td.Name, typeOpts...)
		if err != nil {
			return nil, err
		}

		cfg.log.Debug("defined schema type",
			zap.String("type", t.Name()),
			zap.Stringer("catalog", t.Catalog()),
			zap.Int("injected", t.Injections().Len()))
	}

	return reg, nil
}

func typeOptions(reg *tree.Registry, td *TypeDef, cfg *buildConfig) ([]tree.TypeOption, error) {
	var opts []tree.TypeOption

	if len(td.Bases) > 0 {
		bases := make([]*tree.Type, 0, len(td.Bases))

		for _, name := range td.Bases {
			b, err := reg.Type(name)
			if err != nil {
				return nil, err
			}

			bases = append(bases, b)
		}

		opts = append(opts, tree.Extends(bases...))
	}

	if td.ChainPostInit {
		opts = append(opts, tree.ChainPostInit())
	}

	if td.KeywordOnly {
		opts = append(opts, tree.KeywordOnly())
	}

	if td.OverrideParam {
		opts = append(opts, tree.OverrideParam())
	}

	if hook, ok := cfg.hooks[td.Name]; ok {
		opts = append(opts, tree.PostInit(hook))
	}

	for i := range td.Fields {
		opt, err := fieldOption(reg, &td.Fields[i])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", td.Fields[i].Name, err)
		}

		opts = append(opts, opt)
	}

	return opts, nil
}

func fieldOption(reg *tree.Registry, fd *FieldDef) (tree.TypeOption, error) {
	var opts []tree.FieldOption

	if fd.Doc != "" {
		opts = append(opts, tree.Doc(fd.Doc))
	}

	if fd.Init != nil {
		opts = append(opts, tree.Init(*fd.Init))
	}

	if fd.Compare != nil {
		opts = append(opts, tree.Compare(*fd.Compare))
	}

	switch {
	case fd.Class:
		return tree.ClassVar(fd.Name, fd.Default, opts...), nil

	case fd.Node != nil:
		target, ok := reg.Lookup(fd.Node.Target)
		if !ok {
			return nil, fmt.Errorf("unknown node target %q", fd.Node.Target)
		}

		return tree.NodeField(fd.Name, tree.Node(target, nodeOptions(fd.Node)...), opts...), nil

	case fd.SelfDefault != "":
		fn, err := CompileSelfDefault(fd.SelfDefault)
		if err != nil {
			return nil, err
		}

		opts = append(opts, tree.SelfDefault(fn))

	case fd.HasDefault:
		opts = append(opts, defaultOption(fd.Default))
	}

	return tree.Field(fd.Name, opts...), nil
}

func nodeOptions(nd *NodeDef) []tree.NodeOption {
	var opts []tree.NodeOption

	if len(nd.Select) > 0 {
		opts = append(opts, tree.Select(nd.Select...))
	}

	if len(nd.Rename) > 0 {
		opts = append(opts, tree.RenameMap(nd.Rename))
	}

	if nd.None {
		opts = append(opts, tree.SelectNone())
	}

	if nd.ExposeAll {
		opts = append(opts, tree.ExposeAll())
	}

	if nd.Prefix != "" {
		opts = append(opts, tree.Prefix(nd.Prefix))
	}

	if len(nd.Preserve) > 0 {
		opts = append(opts, tree.Preserve(nd.Preserve...))
	}

	if len(nd.ExposeIfAvail) > 0 {
		opts = append(opts, tree.ExposeIfAvail(nd.ExposeIfAvail...))
	}

	if nd.UseDefaults != nil {
		opts = append(opts, tree.UseDefaults(*nd.UseDefaults))
	}

	if nd.HasDefaultIfMissing {
		opts = append(opts, tree.DefaultIfMissing(nd.DefaultIfMissing))
	}

	if nd.Doc != "" {
		opts = append(opts, tree.NodeDoc(nd.Doc))
	}

	return opts
}

// defaultOption turns a literal default into a field option. Lists and
// maps are copied for every instance.
func defaultOption(v any) tree.FieldOption {
	switch v.(type) {
	case []any, map[string]any:
		return tree.Factory(func() any { return cloneValue(v) })
	default:
		return tree.Default(v)
	}
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}

		return out
	case map[string]any:
		out := maps.Clone(x)
		for k, e := range out {
			out[k] = cloneValue(e)
		}

		return out
	default:
		return v
	}
}
