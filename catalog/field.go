package catalog

// Field describes one declared or injected field of a composable type.
type Field struct {
	// Name is unique within a Catalog.
	Name string
	// Kind selects which of Value, Factory, Self or Node supplies the default.
	Kind DefaultKind
	// Value is the literal default (DefaultLiteral).
	Value any
	// Factory produces a fresh default per instance (DefaultFactory).
	Factory func() any
	// Self computes the default from sibling fields (DefaultSelf).
	Self SelfDefault
	// Node is the directive a node field binds (DefaultNode).
	Node *Directive
	// Doc is the optional documentation string.
	Doc string
	// ClassScoped fields live on the defining type, never on instances.
	ClassScoped bool
	// Compare marks the field as part of equality.
	Compare bool
	// Init marks the field as a constructor parameter.
	Init bool
	// Deferred marks an injected self-default: the owner keeps it
	// unevaluated and the target evaluates its own copy.
	Deferred bool
}

// HasDefault reports whether the field can be left out of a constructor call.
func (f Field) HasDefault() bool {
	return f.Kind != DefaultNone
}

// Required reports whether the field is a constructor parameter without default.
func (f Field) Required() bool {
	return f.Init && !f.ClassScoped && f.Kind == DefaultNone
}

// IsParam reports whether the field is accepted by the constructor.
func (f Field) IsParam() bool {
	return f.Init && !f.ClassScoped
}

// IsNode reports whether the field is a node field.
func (f Field) IsNode() bool {
	return f.Kind == DefaultNode
}

// WithDefaultOf returns a copy of f whose default is taken from other.
// Name, documentation and flags of f are kept.
func (f Field) WithDefaultOf(other Field) Field {
	f.Kind = other.Kind
	f.Value = other.Value
	f.Factory = other.Factory
	f.Self = other.Self
	f.Node = other.Node
	f.Deferred = other.Deferred

	return f
}

// WithoutDefault returns a copy of f that is required.
func (f Field) WithoutDefault() Field {
	return f.WithDefaultOf(Field{Kind: DefaultNone})
}

// WithLiteral returns a copy of f whose default is the literal v.
func (f Field) WithLiteral(v any) Field {
	return f.WithDefaultOf(Field{Kind: DefaultLiteral, Value: v})
}
