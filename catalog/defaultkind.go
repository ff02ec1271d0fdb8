package catalog

//go:generate go tool stringer -type=DefaultKind -trimprefix=Default -output=defaultkind_string.go

// DefaultKind describes where a field's value comes from when the
// constructor is not given one.
type DefaultKind int

const (
	DefaultNone DefaultKind = iota
	DefaultLiteral
	DefaultFactory
	DefaultSelf
	DefaultNode
)
