package catalog

import "slices"

// Rename maps a target field to the name it takes on the owner.
type Rename struct {
	From string
	To   string
}

// Directive declares how a node field composes fields from its Target.
//
// With no Names, no Renames and None unset, every eligible target field is
// exposed. Names and Renames restrict the selection unless ExposeAll is set.
type Directive struct {
	// Target supplies the catalog and the constructor.
	Target Target
	// Names exposes the listed target fields under prefixed names.
	Names []string
	// Renames exposes target fields under explicit names; the explicit
	// name is used verbatim, the prefix does not apply.
	Renames []Rename
	// None selects nothing (besides ExposeIfAvail).
	None bool
	// ExposeAll adds every remaining eligible target field.
	ExposeAll bool
	// Prefix is prepended to exposed names not listed in Preserve.
	Prefix string
	// Preserve lists target fields exposed without Prefix.
	Preserve []string
	// ExposeIfAvail lists optional target fields; absent ones are skipped.
	ExposeIfAvail []string
	// UseDefaults carries the target's declared defaults to the owner.
	UseDefaults bool
	// DefaultIfMissing is the fallback default for otherwise required fields.
	DefaultIfMissing any
	// HasDefaultIfMissing reports whether DefaultIfMissing is set.
	HasDefaultIfMissing bool
	// Doc prefixes the documentation of every exposed field.
	Doc string
}

// SelectsAll reports whether the directive exposes every eligible field.
func (d *Directive) SelectsAll() bool {
	if d.ExposeAll {
		return true
	}

	return !d.None && len(d.Names) == 0 && len(d.Renames) == 0
}

// RenameOf returns the explicit destination for a target field.
func (d *Directive) RenameOf(from string) (string, bool) {
	for _, r := range d.Renames {
		if r.From == from {
			return r.To, true
		}
	}

	return "", false
}

// FinalName computes the owner-side name for a target field.
func (d *Directive) FinalName(from string) string {
	if to, ok := d.RenameOf(from); ok {
		return to
	}

	if slices.Contains(d.Preserve, from) {
		return from
	}

	return d.Prefix + from
}

// Documentation combines the directive doc with a field doc.
func (d *Directive) Documentation(fieldDoc string) string {
	switch {
	case d.Doc == "":
		return fieldDoc
	case fieldDoc == "":
		return d.Doc
	default:
		return d.Doc + ": " + fieldDoc
	}
}

// TargetName returns the target's name or "<nil>".
func (d *Directive) TargetName() string {
	if d == nil || d.Target == nil {
		return "<nil>"
	}

	return d.Target.Name()
}
