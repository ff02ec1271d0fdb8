package tree

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrConfiguration marks a malformed composition: unknown or
	// ineligible selector names, bad declarations, unassigned reads.
	ErrConfiguration = errors.New("datatree: configuration error")

	// ErrCollision marks two incompatible contributions to one field name.
	ErrCollision = errors.New("datatree: field collision")

	// ErrOrdering marks a required constructor parameter declared after a
	// defaulted one.
	ErrOrdering = errors.New("datatree: field ordering")

	// ErrArgument marks a bad constructor or node call argument.
	ErrArgument = errors.New("datatree: invalid argument")

	// ErrNotAssigned is wrapped when a self default reads a field that has
	// not been assigned yet.
	ErrNotAssigned = errors.New("datatree: field not yet assigned")
)

// ConfigurationError reports a composition graph that cannot be resolved.
type ConfigurationError struct {
	Type        string
	Field       string
	Reason      string
	Suggestions []string
	Err         error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	// Example: datatree: Outer.leaf: selected field "c" not found in Leaf; did you mean "a"?
	return "datatree: " + where(e.Type, e.Field) + e.Reason + hint(e.Suggestions)
}

// Is matches ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// Unwrap returns the underlying cause, if any.
func (e *ConfigurationError) Unwrap() error { return e.Err }

// CollisionError reports two incompatible contributions to one field.
type CollisionError struct {
	Type     string
	Field    string
	Existing string
	Incoming string
}

// Error implements the error interface.
func (e *CollisionError) Error() string {
	// Example: datatree: Owner.leaf_a: injected by l1 (LeafType1.leaf_a) and l3 (LeafType3.leaf_a)
	return "datatree: " + where(e.Type, e.Field) + "injected by " + e.Existing + " and " + e.Incoming
}

// Is matches ErrCollision.
func (e *CollisionError) Is(target error) bool { return target == ErrCollision }

// OrderingError reports a required parameter following a defaulted one.
type OrderingError struct {
	Type  string
	Field string
	After string
}

// Error implements the error interface.
func (e *OrderingError) Error() string {
	return "datatree: " + where(e.Type, e.Field) + "required field follows defaulted field " + strconv.Quote(e.After)
}

// Is matches ErrOrdering.
func (e *OrderingError) Is(target error) bool { return target == ErrOrdering }

// ArgumentError reports a bad argument to a constructor or node call.
type ArgumentError struct {
	Type        string
	Field       string
	Reason      string
	Suggestions []string
	Err         error
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return "datatree: " + where(e.Type, e.Field) + e.Reason + hint(e.Suggestions)
}

// Is matches ErrArgument.
func (e *ArgumentError) Is(target error) bool { return target == ErrArgument }

// Unwrap returns the underlying cause, if any.
func (e *ArgumentError) Unwrap() error { return e.Err }

func where(typ, field string) string {
	switch {
	case typ == "" && field == "":
		return ""
	case field == "":
		return typ + ": "
	case typ == "":
		return field + ": "
	default:
		return typ + "." + field + ": "
	}
}

func hint(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}

	quoted := make([]string, len(suggestions))
	for i, s := range suggestions {
		quoted[i] = strconv.Quote(s)
	}

	return "; did you mean " + strings.Join(quoted, ", ") + "?"
}
