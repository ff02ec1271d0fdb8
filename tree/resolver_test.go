package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datatree/catalog"
)

func TestDefine_RenameAndPrefix(t *testing.T) {
	leafT := MustDefine("Leaf", Field("a", Default(1)), Field("b", Default(2)))
	outer, err := Define("Outer",
		NodeOf("first", leafT, Rename("a", "aa")),
		NodeOf("second", leafT, Prefix("x_"), Preserve("b")))
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second", "aa", "x_a", "b"}, outer.Catalog().Names())
	assert.Equal(t, []string{"aa", "x_a", "b"}, outer.Catalog().ParamNames())

	o := outer.MustNew(catalog.Args{"aa": 9})
	got := mustCallInstance(t, o, "first", nil)

	assertEqualValues(t, leafT.MustNew(catalog.Args{"a": 9, "b": 2}), got)
	assert.Equal(t, "Leaf(a=9, b=2)", got.String())
}

func TestDefine_SelectionErrors(t *testing.T) {
	withClass := MustDefine("WithClass", ClassVar("k", 1), Field("a", Default(1)), Field("hidden", Default(0), Init(false)))

	cases := []struct {
		name    string
		opts    []NodeOption
		target  *Type
		message string
	}{
		{
			name:    "unknown selected field",
			target:  leafType1,
			opts:    []NodeOption{Select("leaf_c")},
			message: `selected field "leaf_c" not found in LeafType1; did you mean "leaf_a", "leaf_b"?`,
		},
		{
			name:    "unknown renamed field",
			target:  leafType1,
			opts:    []NodeOption{Rename("lefa", "x")},
			message: `renamed field "lefa" not found in LeafType1`,
		},
		{
			name:    "class-scoped field",
			target:  withClass,
			opts:    []NodeOption{Select("k")},
			message: `selected field "k" of WithClass is class-scoped`,
		},
		{
			name:    "non-init field",
			target:  withClass,
			opts:    []NodeOption{Select("hidden")},
			message: `selected field "hidden" is not a parameter of WithClass`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Define("Owner", NodeOf("n", tc.target, tc.opts...))
			require.Error(t, err)
			require.ErrorIs(t, err, ErrConfiguration)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestDefine_ExposeIfAvailSkipsMissing(t *testing.T) {
	a := MustDefine("A", Field("a", Default(1)), Field("b", Default(2)), Field("keep1", Default(3)), Field("keep2", Default(4)))
	b, err := Define("B",
		NodeOf("nodeA", a, Select("a"), Rename("b", "bb"), Prefix("aa_"), ExposeIfAvail("keep1", "NotThere")),
		result("a_obj"),
		PostInit(func(i *Instance) error {
			v, err := i.Call("nodeA", nil)
			if err != nil {
				return err
			}

			return i.Set("a_obj", v)
		}))
	require.NoError(t, err)

	assert.Equal(t, []string{"aa_a", "bb", "aa_keep1"}, b.Catalog().ParamNames())

	got := b.MustNew(catalog.Args{"aa_a": 11, "bb": 44, "aa_keep1": 33})
	assertEqualValues(t, a.MustNew(catalog.Args{"a": 11, "b": 44, "keep1": 33}), got.MustGet("a_obj"))
	assert.False(t, got.Has("aa_b"))
	assert.False(t, got.Has("aa_keep2"))
}

func TestDefine_Collision(t *testing.T) {
	_, err := Define("Owner",
		NodeOf("l1", leafType1),
		NodeOf("l3", leafType3))
	require.Error(t, err)
	require.ErrorIs(t, err, ErrCollision)

	var collision *CollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "leaf_a", collision.Field)
	assert.Equal(t, "l1 (LeafType1.leaf_a)", collision.Existing)
	assert.Equal(t, "l3 (LeafType3.leaf_a)", collision.Incoming)
}

func TestDefine_CompatibleContributions(t *testing.T) {
	cases := []struct {
		name string
		opts []TypeOption
	}{
		{
			name: "owner declares the field",
			opts: []TypeOption{
				Field("leaf_a", Default(0)),
				Field("leaf_b", Default(0)),
				NodeOf("l1", leafType1),
				NodeOf("l3", leafType3),
			},
		},
		{
			name: "use defaults disabled",
			opts: []TypeOption{NodeOf("l2", leafType2), NodeOf("l4", leafType4, UseDefaults(false))},
		},
		{
			name: "same target twice",
			opts: []TypeOption{NodeOf("x", leafType1), NodeOf("y", leafType1)},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Define("Owner", tc.opts...)
			require.NoError(t, err)
		})
	}
}

func TestDefine_SharedRootDiamond(t *testing.T) {
	a := MustDefine("A", Field("a", Default(7)), Field("c", Default(5)))
	c := MustDefine("C", NodeOf("a_node", a, RenameMap(map[string]string{"a": "a", "c": "a"})))
	d, err := Define("D", NodeOf("a_node", a), NodeOf("c_node", c))
	require.NoError(t, err)

	inj, ok := d.Injections().Lookup("a")
	require.True(t, ok)
	assert.Len(t, inj.Sources, 2)
}

func TestDefine_Ordering(t *testing.T) {
	_, err := Define("A", NodeField("anode", Node(leafType1, UseDefaults(false)), Init(true)))
	require.Error(t, err)
	require.ErrorIs(t, err, ErrOrdering)

	var ordering *OrderingError
	require.ErrorAs(t, err, &ordering)
	assert.Equal(t, "leaf_a", ordering.Field)
	assert.Equal(t, "anode", ordering.After)

	_, err = Define("A", NodeField("anode", Node(leafType1, UseDefaults(false)), Init(true)), KeywordOnly())
	require.NoError(t, err)
}

func TestDefine_AdditiveDefault(t *testing.T) {
	a, err := Define("A",
		NodeField("anode", Node(leafType1), Init(true)),
		Field("leaf_a", Default(51)),
		Field("leaf_b"))
	require.NoError(t, err)

	got := mustCallInstance(t, a.MustNew(nil), "anode", nil)
	assertEqualValues(t, leaf(leafType1, 51, 2), got)
}

func TestDefine_DefaultIfMissing(t *testing.T) {
	a := MustDefine("A",
		Field("v1"),
		Field("v2", Factory(func() any { return 100 })),
		Field("v3", SelfDefault(func(v catalog.View) (any, error) {
			v1, err := catalog.Lookup[int](v, "v1")
			if err != nil {
				return nil, err
			}

			v2, err := catalog.Lookup[int](v, "v2")
			if err != nil {
				return nil, err
			}

			return v1 + v2, nil
		})),
		Field("v4", Default(4)),
		ClassVar("class_attr", 100))

	_, err := Define("B", Field("bv1"), Field("bv2", Default(2)), NodeOf("a_node", a))
	require.ErrorIs(t, err, ErrOrdering)

	b, err := Define("B", Field("bv1"), Field("bv2", Default(2)), NodeOf("a_node", a, DefaultIfMissing(42)))
	require.NoError(t, err)

	bi := b.MustNew(catalog.Args{"bv1": 22})
	ai := mustCallInstance(t, bi, "a_node", nil)

	assert.Equal(t, 22, bi.MustGet("bv1"))
	assert.Equal(t, 100, bi.MustGet("v2"))
	assert.False(t, bi.Has("v3"))
	assert.Equal(t, 4, bi.MustGet("v4"))
	assert.False(t, bi.Has("class_attr"))
	assert.Equal(t, 42, ai.MustGet("v1"))
	assert.Equal(t, 142, ai.MustGet("v3"))
}

func TestDefine_DeclarationErrors(t *testing.T) {
	cases := []struct {
		name string
		opts []TypeOption
	}{
		{name: "non-init without default", opts: []TypeOption{Field("x", Init(false))}},
		{name: "duplicate field", opts: []TypeOption{Field("x"), Field("x")}},
		{name: "node without target", opts: []TypeOption{NodeField("n", nil)}},
		{name: "nil factory", opts: []TypeOption{Field("x", Factory(nil))}},
		{name: "class var clashes with injection", opts: []TypeOption{ClassVar("leaf_a", 1), NodeOf("n", leafType1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Define("Bad", tc.opts...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration) || errors.Is(err, ErrCollision), err.Error())
		})
	}

	_, err := Define("")
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestLinearize(t *testing.T) {
	a := MustDefine("A")
	b := MustDefine("B", Extends(a))
	c := MustDefine("C", Extends(a))
	d := MustDefine("D", Extends(b, c))

	names := func(ts []*Type) []string {
		out := make([]string, len(ts))
		for i, x := range ts {
			out[i] = x.Name()
		}

		return out
	}

	assert.Equal(t, []string{"D", "B", "C", "A"}, names(d.Linearization()))

	_, err := Define("X", Extends(a, b))
	require.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "no consistent linearization")

	_, err = Define("Y", Extends(a, a))
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestDefine_InheritedCatalog(t *testing.T) {
	a := MustDefine("A",
		Field("a", Default(1)),
		NodeField("leaf", Node(leafType2), Init(true)),
		journal())
	b := MustDefine("B",
		Extends(a),
		Field("b", Default(1)),
		NodeField("leaf", Node(leafType2), Init(true)),
		journal())

	assert.Equal(t, []string{"a", "leaf", "s", "leaf_a", "leaf_b", "b"}, b.Catalog().Names())

	inj, ok := b.Injections().Lookup("leaf_a")
	require.True(t, ok)
	assert.False(t, inj.Direct)
	assert.Equal(t, "leaf", inj.Sources[0].Node)

	// The redeclared node replaces the inherited one.
	assert.Len(t, inj.Sources, 1)
	assert.Equal(t, "leaf_a:\n    leaf_a: LeafType2\nleaf_b:\n    leaf_b: LeafType2", b.Injections().String())
	assert.Equal(t, a.Injections().String(), b.Injections().String())
}

func TestDefine_InheritedPositional(t *testing.T) {
	a := MustDefine("A", Field("a", Default(1)))
	b := MustDefine("B", Extends(a), Field("b", Default(2)))

	ab, err := b.New(nil, Positional(10, 20))
	require.NoError(t, err)
	assert.Equal(t, 10, ab.MustGet("a"))
	assert.Equal(t, 20, ab.MustGet("b"))
}

func TestDefine_UseDefaultsKeepsNodeFields(t *testing.T) {
	pf := MustFunc("pf", func(args catalog.Args) (any, error) {
		return args["v"], nil
	}, Param("v", Default(7)))
	qa := MustDefine("QA", Field("a", Default(1)), NodeField("f_node", Node(pf), Init(true)))
	qb := MustDefine("QB", Field("a", Default(5)), NodeOf("an", qa, UseDefaults(false)))

	f, ok := qb.Catalog().Lookup("f_node")
	require.True(t, ok)
	assert.Equal(t, catalog.DefaultNode, f.Kind)
	assert.Same(t, pf, f.Node.Target)

	inst, err := qb.New(nil)
	require.NoError(t, err)
	assert.Equal(t, 7, mustCall(t, inst, "f_node", nil))
	assert.Equal(t, 9, mustCall(t, inst, "f_node", catalog.Args{"v": 9}))

	inner := mustCallInstance(t, inst, "an", nil)
	assert.Equal(t, 5, inner.MustGet("a"))
	assert.Equal(t, 7, mustCall(t, inner, "f_node", nil))
}
