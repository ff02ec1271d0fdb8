package tree

import (
	"maps"
	"slices"
	"strings"

	"datatree/catalog"
)

// Source is one contribution to an injected field: the target field and
// the target it came from.
type Source struct {
	Field  string
	Target catalog.Target
	// Node is the owner node field whose directive injected it.
	Node string
}

// Injection lists the contributors of one injected field.
type Injection struct {
	Name    string
	Sources []Source
	// Direct reports whether the owner (or a base) also declares the field.
	Direct bool
}

// Injections is the provenance report of a target: for every injected
// field name, the target fields it came from.
type Injections struct {
	Owner   catalog.Target
	entries map[string]Injection
}

// InjectedFields returns the provenance report for target. Targets that
// are not composed types have no injections.
func InjectedFields(target catalog.Target) *Injections {
	if t, ok := target.(*Type); ok && t.injections != nil {
		return t.injections
	}

	return &Injections{Owner: target, entries: map[string]Injection{}}
}

func newInjections(owner *Type, r *resolver) *Injections {
	inj := &Injections{Owner: owner, entries: make(map[string]Injection)}

	for _, name := range r.order {
		e := r.entries[name]
		if len(e.sources) == 0 {
			continue
		}

		sources := make([]Source, len(e.sources))
		for i, c := range e.sources {
			sources[i] = Source{Field: c.field, Target: c.target, Node: c.node}
		}

		inj.entries[name] = Injection{Name: name, Sources: sources, Direct: e.declared}
	}

	return inj
}

// Len returns the number of injected fields.
func (i *Injections) Len() int {
	return len(i.entries)
}

// Names returns the injected field names sorted.
func (i *Injections) Names() []string {
	return slices.Sorted(maps.Keys(i.entries))
}

// Lookup returns the injection for name.
func (i *Injections) Lookup(name string) (Injection, bool) {
	inj, ok := i.entries[name]
	if !ok {
		return Injection{}, false
	}

	inj.Sources = slices.Clone(inj.Sources)

	return inj, true
}

// String renders each injected field followed by its direct sources:
//
//	a:
//	    a: A
//	    c: A
func (i *Injections) String() string {
	var lines []string

	for _, name := range i.Names() {
		lines = append(lines, name+":")
		for _, s := range i.entries[name].Sources {
			lines = append(lines, indent(1)+s.Field+": "+s.Target.Name())
		}
	}

	return strings.Join(lines, "\n")
}

// DeepString renders like String but names the owner and follows every
// source into the source target's own injections.
func (i *Injections) DeepString() string {
	var lines []string

	owner := ""
	if i.Owner != nil {
		owner = i.Owner.Name()
	}

	for _, name := range i.Names() {
		lines = append(lines, name+": "+owner)
		lines = appendSources(lines, i.entries[name].Sources, 1)
	}

	return strings.Join(lines, "\n")
}

func appendSources(lines []string, sources []Source, depth int) []string {
	for _, s := range sources {
		lines = append(lines, indent(depth)+s.Field+": "+s.Target.Name())

		if sub, ok := InjectedFields(s.Target).entries[s.Field]; ok {
			lines = appendSources(lines, sub.Sources, depth+1)
		}
	}

	return lines
}

func indent(depth int) string {
	return strings.Repeat("    ", depth)
}
