package schema

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// hclFile is the decoding shape of an HCL schema.
type hclFile struct {
	Version string     `hcl:"version,optional"`
	Types   []*hclType `hcl:"type,block"`
}

type hclType struct {
	Name          string      `hcl:"name,label"`
	Bases         []string    `hcl:"bases,optional"`
	ChainPostInit bool        `hcl:"chain_post_init,optional"`
	KeywordOnly   bool        `hcl:"keyword_only,optional"`
	OverrideParam bool        `hcl:"override_param,optional"`
	Fields        []*hclField `hcl:"field,block"`
}

type hclField struct {
	Name        string         `hcl:"name,label"`
	Default     hcl.Expression `hcl:"default,optional"`
	SelfDefault string         `hcl:"self_default,optional"`
	Doc         string         `hcl:"doc,optional"`
	Init        *bool          `hcl:"init,optional"`
	Compare     *bool          `hcl:"compare,optional"`
	Class       bool           `hcl:"class,optional"`
	Node        *hclNode       `hcl:"node,block"`
}

type hclNode struct {
	Target           string            `hcl:"target"`
	Select           []string          `hcl:"select,optional"`
	Rename           map[string]string `hcl:"rename,optional"`
	Prefix           string            `hcl:"prefix,optional"`
	Preserve         []string          `hcl:"preserve,optional"`
	ExposeIfAvail    []string          `hcl:"expose_if_avail,optional"`
	ExposeAll        bool              `hcl:"expose_all,optional"`
	None             bool              `hcl:"none,optional"`
	UseDefaults      *bool             `hcl:"use_defaults,optional"`
	DefaultIfMissing hcl.Expression    `hcl:"default_if_missing,optional"`
	Doc              string            `hcl:"doc,optional"`
}

// ParseHCL parses HCL data into a File. A null default counts as absent.
func ParseHCL(data []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()

	hclF, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL schema %s: %w", filename, diags)
	}

	var raw hclFile

	diags = gohcl.DecodeBody(hclF.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL schema %s: %w", filename, diags)
	}

	f := &File{Version: raw.Version}

	for _, rt := range raw.Types {
		td := TypeDef{
			Name:          rt.Name,
			Bases:         rt.Bases,
			ChainPostInit: rt.ChainPostInit,
			KeywordOnly:   rt.KeywordOnly,
			OverrideParam: rt.OverrideParam,
		}

		for _, rf := range rt.Fields {
			fd, err := rf.fieldDef()
			if err != nil {
				return nil, fmt.Errorf("type %s: %w", rt.Name, err)
			}

			td.Fields = append(td.Fields, fd)
		}

		f.Types = append(f.Types, td)
	}

	applyDefaults(f)

	return f, nil
}

func (rf *hclField) fieldDef() (FieldDef, error) {
	fd := FieldDef{
		Name:        rf.Name,
		SelfDefault: rf.SelfDefault,
		Doc:         rf.Doc,
		Init:        rf.Init,
		Compare:     rf.Compare,
		Class:       rf.Class,
	}

	var err error

	if rf.Default != nil {
		fd.Default, fd.HasDefault, err = evalStatic(rf.Default)
		if err != nil {
			return fd, fmt.Errorf("field %s default: %w", rf.Name, err)
		}
	}

	if rn := rf.Node; rn != nil {
		nd := &NodeDef{
			Target:        rn.Target,
			Select:        rn.Select,
			Rename:        rn.Rename,
			Prefix:        rn.Prefix,
			Preserve:      rn.Preserve,
			ExposeIfAvail: rn.ExposeIfAvail,
			ExposeAll:     rn.ExposeAll,
			None:          rn.None,
			UseDefaults:   rn.UseDefaults,
			Doc:           rn.Doc,
		}

		if rn.DefaultIfMissing != nil {
			nd.DefaultIfMissing, nd.HasDefaultIfMissing, err = evalStatic(rn.DefaultIfMissing)
			if err != nil {
				return fd, fmt.Errorf("field %s default_if_missing: %w", rf.Name, err)
			}
		}

		fd.Node = nd
	}

	return fd, nil
}
