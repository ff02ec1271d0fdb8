// Package tree composes record types out of other types and callables.
//
// A type declares node fields, each holding a Directive over a target.
// Define copies the selected target fields into the owner's catalog under
// prefixed or renamed names, with or without their defaults. At run time
// each node field becomes a BoundNode: calling it constructs the target
// from the owner's current values of the exposed fields.
//
//	leaf := tree.MustDefine("Leaf",
//		tree.Field("a", tree.Default(1)),
//		tree.Field("b", tree.Default(2)))
//	outer := tree.MustDefine("Outer",
//		tree.NodeOf("leaf", leaf, tree.Rename("a", "aa")))
//	o := outer.MustNew(catalog.Args{"aa": 9})
//	l, _ := o.Call("leaf", nil) // Leaf(a=9, b=2)
//
// Types may extend other types; bases are linearized with C3 and their
// catalogs merged before the owner's own fields and directives apply.
package tree
