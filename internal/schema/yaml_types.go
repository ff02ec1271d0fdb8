package schema

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"datatree/internal/common"
)

// --- StringOrArray YAML methods ---

// UnmarshalYAML accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if common.IsSingle(s) {
		return s[0], nil
	}

	return []string(s), nil
}

// First returns the first element or empty string if empty.
func (s StringOrArray) First() string {
	if v, ok := common.First(s); ok {
		return v
	}

	return ""
}

// IsEmpty returns true if the array is empty.
func (s StringOrArray) IsEmpty() bool {
	return common.IsEmpty(s)
}

// Contains returns true if the array contains the given string.
func (s StringOrArray) Contains(str string) bool {
	return slices.Contains(s, str)
}

// --- optional values ---

// UnmarshalYAML decodes a field, recording whether a default was given
// even when it is null.
func (f *FieldDef) UnmarshalYAML(node *yaml.Node) error {
	type plain FieldDef

	var raw struct {
		plain   `yaml:",inline"`
		Default yaml.Node `yaml:"default"`
	}

	if err := node.Decode(&raw); err != nil {
		return err
	}

	*f = FieldDef(raw.plain)

	v, ok, err := optional(&raw.Default)
	if err != nil {
		return fmt.Errorf("field %q default: %w", f.Name, err)
	}

	f.Default, f.HasDefault = v, ok

	return nil
}

// UnmarshalYAML decodes a node directive, recording whether
// default_if_missing was given.
func (n *NodeDef) UnmarshalYAML(node *yaml.Node) error {
	type plain NodeDef

	var raw struct {
		plain            `yaml:",inline"`
		DefaultIfMissing yaml.Node `yaml:"default_if_missing"`
	}

	if err := node.Decode(&raw); err != nil {
		return err
	}

	*n = NodeDef(raw.plain)

	v, ok, err := optional(&raw.DefaultIfMissing)
	if err != nil {
		return fmt.Errorf("node %q default_if_missing: %w", n.Target, err)
	}

	n.DefaultIfMissing, n.HasDefaultIfMissing = v, ok

	return nil
}

func optional(node *yaml.Node) (any, bool, error) {
	if node.Kind == 0 {
		return nil, false, nil
	}

	var v any
	if err := node.Decode(&v); err != nil {
		return nil, false, err
	}

	return v, true, nil
}
