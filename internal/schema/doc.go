// Package schema loads declarative composition schemas from YAML or HCL
// files, validates them and builds the declared types into a registry.
//
// # Schema overview
//
//	version: "1"
//	types:
//	  - name: Leaf
//	    fields:
//	      - {name: a, default: 1, doc: "the a field"}
//	      - {name: b, default: 2}
//	  - name: Outer
//	    bases: [Base]
//	    fields:
//	      - name: leaf
//	        node:
//	          target: Leaf
//	          select: a            # string or list
//	          rename: {b: bb}
//	          prefix: x_
//	          default_if_missing: 0
//	      - {name: total, self_default: "a + bb"}
//	      - {name: counter, class: true, default: 0}
//
// The HCL form uses one block per type and per field:
//
//	type "Outer" {
//	  field "leaf" {
//	    node {
//	      target = "Leaf"
//	      rename = { b = "bb" }
//	    }
//	  }
//	  field "total" { self_default = "a + bb" }
//	}
//
// # Self defaults
//
// A self_default is an HCL expression over sibling field names. It is
// evaluated when an instance is constructed, after every field without
// a self default has been assigned. The function call("node") calls a
// node field and yields the constructed value.
//
// # Building
//
// Build validates the file, orders types so that bases and node targets
// are defined first, and defines every type in a tree.Registry. Targets
// defined in Go (functions or types) are supplied with WithTargets and
// referenced by name.
package schema
