package schema

// File is the root of a schema file.
type File struct {
	// Version of the schema format.
	Version string `yaml:"version,omitempty" validate:"omitempty,eq=1"`

	// Types are the declared composable types.
	Types []TypeDef `yaml:"types" validate:"dive"`
}

// TypeDef declares one composable type.
type TypeDef struct {
	Name string `yaml:"name" validate:"required,identifier"`

	// Bases lists the base types, nearest first.
	Bases StringOrArray `yaml:"bases,omitempty" validate:"dive,identifier"`

	// ChainPostInit runs every base hook; schema types carry no hooks of
	// their own but may extend Go types that do.
	ChainPostInit bool `yaml:"chain_post_init,omitempty"`

	// KeywordOnly lifts the required-after-defaulted ordering rule.
	KeywordOnly bool `yaml:"keyword_only,omitempty"`
	// OverrideParam adds the "override" constructor parameter.
	OverrideParam bool `yaml:"override_param,omitempty"`

	Fields []FieldDef `yaml:"fields,omitempty" validate:"dive"`
}

// FieldDef declares one field. At most one of Default, SelfDefault and
// Node supplies the default.
type FieldDef struct {
	Name string `yaml:"name" validate:"required,identifier"`

	// Default is the literal default; HasDefault reports whether it was
	// given (a null default is a default).
	Default    any  `yaml:"-"`
	HasDefault bool `yaml:"-"`

	// SelfDefault is an expression over sibling fields.
	SelfDefault string `yaml:"self_default,omitempty"`

	Doc string `yaml:"doc,omitempty"`

	// Init and Compare override the per-kind defaults when set.
	Init    *bool `yaml:"init,omitempty"`
	Compare *bool `yaml:"compare,omitempty"`

	// Class makes the field class-scoped.
	Class bool `yaml:"class,omitempty"`

	// Node makes the field a node field.
	Node *NodeDef `yaml:"node,omitempty"`
}

// NodeDef declares a composition directive.
type NodeDef struct {
	Target string `yaml:"target" validate:"required"`

	Select        StringOrArray     `yaml:"select,omitempty" validate:"dive,identifier"`
	Rename        map[string]string `yaml:"rename,omitempty" validate:"dive,keys,identifier,endkeys,identifier"`
	Prefix        string            `yaml:"prefix,omitempty"`
	Preserve      StringOrArray     `yaml:"preserve,omitempty"`
	ExposeIfAvail StringOrArray     `yaml:"expose_if_avail,omitempty"`
	ExposeAll     bool              `yaml:"expose_all,omitempty"`
	None          bool              `yaml:"none,omitempty"`
	UseDefaults   *bool             `yaml:"use_defaults,omitempty"`

	DefaultIfMissing    any  `yaml:"-"`
	HasDefaultIfMissing bool `yaml:"-"`

	Doc string `yaml:"doc,omitempty"`
}

// StringOrArray is a list of names that may be written as a single string.
type StringOrArray []string

// Lookup returns the named type declaration.
func (f *File) Lookup(name string) (*TypeDef, bool) {
	for i := range f.Types {
		if f.Types[i].Name == name {
			return &f.Types[i], true
		}
	}

	return nil, false
}

// TypeNames returns the declared type names in file order.
func (f *File) TypeNames() []string {
	out := make([]string, len(f.Types))
	for i, t := range f.Types {
		out[i] = t.Name
	}

	return out
}

// Dependencies returns the names a type needs defined first: its bases
// and its node targets.
func (t *TypeDef) Dependencies() []string {
	var out []string

	out = append(out, t.Bases...)

	for _, f := range t.Fields {
		if f.Node != nil && f.Node.Target != "" {
			out = append(out, f.Node.Target)
		}
	}

	return out
}
