// Package catalog provides the data model shared by the composition engine:
// field descriptors, ordered field catalogs, Node directives and the small
// interfaces a composable target implements.
//
// Nothing in this package resolves or constructs anything. A Catalog is
// built once per type and never mutated afterwards; the engine in package
// tree consumes catalogs and directives and produces new catalogs.
//
// # Default kinds
//
//   - DefaultNone: the field is required.
//   - DefaultLiteral: Value is used as-is.
//   - DefaultFactory: Factory is invoked once per constructed instance.
//   - DefaultSelf: Self is evaluated against a read-only View of the
//     already-assigned sibling fields.
//   - DefaultNode: the field is a node field; its value is a bound node
//     built from Node.
package catalog
