package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datatree/catalog"
)

type leaf5 struct {
	A, B int
}

var (
	leafType1 = MustDefine("LeafType1", Field("leaf_a", Default(1)), Field("leaf_b", Default(2)))
	leafType2 = MustDefine("LeafType2", OverrideParam(), Field("leaf_a", Default(10)), Field("leaf_b", Default(20)))
	leafType3 = MustDefine("LeafType3", Field("leaf_a", Default(11)), Field("leaf_b", Default(22)))
	leafType4 = MustDefine("LeafType4", Field("leaf_a", Default(111)), Field("leaf_b", Default(222)))

	leafType5 = MustFunc("LeafType5",
		func(args catalog.Args) (any, error) {
			return leaf5{A: args["a"].(int), B: args["b"].(int)}, nil
		},
		Param("a", Default(1111)),
		Param("b", Default(2222)))
)

// result declares a non-parameter slot a post-init hook fills in.
func result(name string) TypeOption {
	return Field(name, Default(nil), Init(false), Compare(false))
}

// journal declares a shared *[]string field.
func journal() TypeOption {
	return Field("s", Factory(func() any { return &[]string{} }))
}

// record appends name to the instance's journal.
func record(name string) func(*Instance) error {
	return func(i *Instance) error {
		s := i.MustGet("s").(*[]string)
		*s = append(*s, name)

		return nil
	}
}

func journalOf(t *testing.T, i *Instance) []string {
	t.Helper()

	s, ok := i.MustGet("s").(*[]string)
	require.True(t, ok)

	return *s
}

func mustCall(t *testing.T, i *Instance, node string, args catalog.Args) any {
	t.Helper()

	v, err := i.Call(node, args)
	require.NoError(t, err)

	return v
}

func mustCallInstance(t *testing.T, i *Instance, node string, args catalog.Args) *Instance {
	t.Helper()

	v := mustCall(t, i, node, args)
	inst, ok := v.(*Instance)
	require.True(t, ok, "node %s returned %T", node, v)

	return inst
}

func leaf(typ *Type, a, b int) *Instance {
	return typ.MustNew(catalog.Args{"leaf_a": a, "leaf_b": b})
}

func assertEqualValues(t *testing.T, want, got any) {
	t.Helper()
	assert.True(t, Equal(want, got), "want %v, got %v", want, got)
}

func newOverridable(t *testing.T) *Instance {
	t.Helper()

	overridable, err := Define("Overridable",
		OverrideParam(),
		Field("leaf_a", Default(53)),
		NodeOf("leaf1", leafType1, Select("leaf_a"), Rename("leaf_b", "leaf1_b")),
		NodeOf("leaf1a", leafType1, Select("leaf_a"), Rename("leaf_b", "leaf1a_b")),
		NodeOf("leaf2", leafType2),
		NodeOf("leaf3", leafType3, SelectNone()),
		NodeOf("leaf4", leafType4, UseDefaults(false)),
		NodeOf("leaf5", leafType5),
		result("l1"), result("l1a"), result("l2"), result("l3"), result("l4"), result("l5"),
		PostInit(func(i *Instance) error {
			calls := []struct {
				slot, node string
				args       catalog.Args
			}{
				{"l1", "leaf1", catalog.Args{"leaf_a": 99}},
				{"l1a", "leaf1a", nil},
				{"l2", "leaf2", nil},
				{"l3", "leaf3", nil},
				{"l4", "leaf4", nil},
				{"l5", "leaf5", catalog.Args{"b": 3333}},
			}

			for _, c := range calls {
				v, err := i.Call(c.node, c.args)
				if err != nil {
					return err
				}

				if err := i.Set(c.slot, v); err != nil {
					return err
				}
			}

			return nil
		}))
	require.NoError(t, err)

	inst, err := overridable.New(catalog.Args{
		"leaf_a":      3,
		"leaf1_b":     44,
		OverrideField: Overrides{"leaf1": {"leaf_b": 7}},
	})
	require.NoError(t, err)

	return inst
}
