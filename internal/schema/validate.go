package schema

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"datatree/internal/common"
	"datatree/internal/diagnostic"
	"datatree/internal/match"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report YAML names in error namespaces.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	_ = v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return identifierRe.MatchString(fl.Field().String())
	})

	return v
}

// Validate checks a schema file. external names targets supplied from Go
// that nodes and bases may reference.
func Validate(f *File, external ...string) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("schema_is_nil", "schema file is nil", "", "")
		return res
	}

	validateStruct(res, f)

	known := slices.Concat(f.TypeNames(), external)
	knownSet := common.Set(known)
	seenTypes := map[string]struct{}{}

	for i := range f.Types {
		t := &f.Types[i]

		if _, dup := seenTypes[t.Name]; dup {
			res.AddError("duplicate_type", fmt.Sprintf("duplicate type %q", t.Name), t.Name, "")
			continue
		}

		seenTypes[t.Name] = struct{}{}

		if slices.Contains(external, t.Name) {
			res.AddError("duplicate_type", fmt.Sprintf("type %q shadows an external target", t.Name), t.Name, "")
		}

		for _, b := range t.Bases {
			_, isKnown := knownSet[b]

			switch {
			case b == t.Name:
				res.AddError("self_base", "type extends itself", t.Name, "")
			case !isKnown:
				res.AddError("unknown_base", fmt.Sprintf("unknown base %q", b), t.Name, "",
					match.Suggest(b, known, 3)...)
			}
		}

		validateFields(res, t, known)
	}

	validateCycles(res, f)

	return res
}

func validateStruct(res *diagnostic.Diagnostics, f *File) {
	err := validate.Struct(f)
	if err == nil {
		return
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.AddError("invalid_schema", err.Error(), "", "")
		return
	}

	for _, e := range verrs {
		res.AddError("invalid_schema", formatFieldError(e), "", e.Namespace())
	}
}

// formatFieldError formats a single struct validation failure.
func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "identifier":
		return fmt.Sprintf("%q is not a valid identifier", e.Value())
	case "eq":
		return fmt.Sprintf("%s must be %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}

func validateFields(res *diagnostic.Diagnostics, t *TypeDef, known []string) {
	seen := map[string]struct{}{}

	for i := range t.Fields {
		fd := &t.Fields[i]

		if _, dup := seen[fd.Name]; dup {
			res.AddError("duplicate_field", fmt.Sprintf("duplicate field %q", fd.Name), t.Name, fd.Name)
			continue
		}

		seen[fd.Name] = struct{}{}

		if fd.HasDefault && fd.SelfDefault != "" {
			res.AddError("conflicting_default", "field has both default and self_default", t.Name, fd.Name)
		}

		if fd.Class {
			switch {
			case fd.Node != nil:
				res.AddError("class_node", "class-scoped field cannot be a node", t.Name, fd.Name)
			case fd.SelfDefault != "":
				res.AddError("class_self_default", "class-scoped field cannot have a self_default", t.Name, fd.Name)
			}
		}

		if fd.SelfDefault != "" {
			refs, err := References(fd.SelfDefault)
			switch {
			case err != nil:
				res.AddError("invalid_self_default", fmt.Sprintf("invalid expression: %v", err), t.Name, fd.Name)
			case slices.Contains(refs, fd.Name):
				res.AddError("invalid_self_default", "self_default references its own field", t.Name, fd.Name)
			}
		}

		if fd.Node == nil {
			continue
		}

		if fd.HasDefault || fd.SelfDefault != "" {
			res.AddError("node_default", "node field cannot have another default", t.Name, fd.Name)
		}

		n := fd.Node
		if n.Target != "" && !slices.Contains(known, n.Target) {
			res.AddError("unknown_target", fmt.Sprintf("unknown node target %q", n.Target), t.Name, fd.Name,
				match.Suggest(n.Target, known, 3)...)
		}

		if n.None && len(n.ExposeIfAvail) == 0 && (len(n.Select) > 0 || len(n.Rename) > 0) {
			res.AddWarning("none_with_selection", "none is set together with an explicit selection", t.Name, fd.Name)
		}

		if n.None && len(n.ExposeIfAvail) == 0 && len(n.Select) == 0 && len(n.Rename) == 0 {
			res.AddInfo("empty_node", "node exposes no fields", t.Name, fd.Name)
		}
	}
}

func validateCycles(res *diagnostic.Diagnostics, f *File) {
	_, err := orderTypes(f)
	if err == nil {
		return
	}

	var names []string

	var ce *cycleError
	if errors.As(err, &ce) {
		for _, i := range ce.nodes {
			names = append(names, f.Types[i].Name)
		}
	}

	res.AddError("dependency_cycle", fmt.Sprintf("types depend on each other: %s", strings.Join(names, ", ")), "", "")
}

// orderTypes returns type indices so that every type follows the file
// types it depends on. Duplicate names resolve to their first declaration.
func orderTypes(f *File) ([]int, error) {
	index := make(map[string]int, len(f.Types))
	for i, t := range f.Types {
		if _, dup := index[t.Name]; !dup {
			index[t.Name] = i
		}
	}

	return topoSort(len(f.Types), func(i int) []int {
		var deps []int

		for _, name := range f.Types[i].Dependencies() {
			if j, ok := index[name]; ok && j != i && !slices.Contains(deps, j) {
				deps = append(deps, j)
			}
		}

		return deps
	})
}
