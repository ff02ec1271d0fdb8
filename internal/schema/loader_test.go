package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const outerYAML = `
version: "1"
types:
  - name: Leaf
    fields:
      - {name: a, default: 1, doc: "the a field"}
      - {name: b, default: 2}
  - name: Outer
    keyword_only: true
    fields:
      - name: leaf
        node:
          target: Leaf
          select: a
          rename: {b: bb}
          doc: "from leaf"
      - {name: total, self_default: "a + bb"}
      - {name: tags, default: [x, y]}
      - {name: counter, class: true, default: 0}
      - {name: note, default: null}
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(outerYAML))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)
	assert.Equal(t, []string{"Leaf", "Outer"}, f.TypeNames())

	outer, ok := f.Lookup("Outer")
	require.True(t, ok)
	assert.True(t, outer.KeywordOnly)
	require.Len(t, outer.Fields, 5)

	node := outer.Fields[0].Node
	require.NotNil(t, node)
	assert.Equal(t, "Leaf", node.Target)
	assert.Equal(t, StringOrArray{"a"}, node.Select)
	assert.Equal(t, map[string]string{"b": "bb"}, node.Rename)
	assert.Equal(t, "from leaf", node.Doc)
	assert.Nil(t, node.UseDefaults)
	assert.False(t, node.HasDefaultIfMissing)

	assert.Equal(t, "a + bb", outer.Fields[1].SelfDefault)
	assert.False(t, outer.Fields[1].HasDefault)

	assert.True(t, outer.Fields[2].HasDefault)
	assert.Equal(t, []any{"x", "y"}, outer.Fields[2].Default)

	assert.True(t, outer.Fields[3].Class)
	assert.Equal(t, 0, outer.Fields[3].Default)

	// An explicit null is still a default.
	assert.True(t, outer.Fields[4].HasDefault)
	assert.Nil(t, outer.Fields[4].Default)

	assert.Equal(t, []string{"Leaf"}, outer.Dependencies())
}

func TestParse_DefaultsVersion(t *testing.T) {
	f, err := Parse([]byte("types: []\n"))
	require.NoError(t, err)
	assert.Equal(t, "1", f.Version)
}

func TestParse_NodeOptions(t *testing.T) {
	f, err := Parse([]byte(`
types:
  - name: T
    fields:
      - name: n
        node:
          target: Leaf
          none: true
          expose_if_avail: [a, c]
          use_defaults: false
          default_if_missing: 42
          prefix: p_
          preserve: a
`))
	require.NoError(t, err)

	n := f.Types[0].Fields[0].Node
	require.NotNil(t, n)
	assert.True(t, n.None)
	assert.Equal(t, StringOrArray{"a", "c"}, n.ExposeIfAvail)
	require.NotNil(t, n.UseDefaults)
	assert.False(t, *n.UseDefaults)
	assert.True(t, n.HasDefaultIfMissing)
	assert.Equal(t, 42, n.DefaultIfMissing)
	assert.Equal(t, "p_", n.Prefix)
	assert.True(t, n.Preserve.Contains("a"))
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("types: [name: {"))
	require.Error(t, err)

	_, err = Parse([]byte(`
types:
  - name: T
    bases: {a: b}
`))
	require.Error(t, err)
}

func TestStringOrArray(t *testing.T) {
	var s StringOrArray
	assert.True(t, s.IsEmpty())
	assert.Equal(t, "", s.First())

	s = StringOrArray{"a", "b"}
	assert.Equal(t, "a", s.First())
	assert.True(t, s.Contains("b"))

	v, err := StringOrArray{"only"}.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "only", v)
}

const outerHCL = `
version = "1"

type "Leaf" {
  field "a" {
    default = 1
    doc     = "the a field"
  }
  field "b" {
    default = 2
  }
}

type "Outer" {
  keyword_only = true

  field "leaf" {
    node {
      target = "Leaf"
      select = ["a"]
      rename = { b = "bb" }
      default_if_missing = 0
    }
  }
  field "total" {
    self_default = "a + bb"
  }
  field "ratio" {
    default = 0.5
  }
  field "unset" {
    default = null
  }
}
`

func TestParseHCL(t *testing.T) {
	f, err := ParseHCL([]byte(outerHCL), "outer.hcl")
	require.NoError(t, err)

	assert.Equal(t, []string{"Leaf", "Outer"}, f.TypeNames())

	leaf, _ := f.Lookup("Leaf")
	assert.Equal(t, 1, leaf.Fields[0].Default)
	assert.Equal(t, "the a field", leaf.Fields[0].Doc)

	outer, _ := f.Lookup("Outer")
	assert.True(t, outer.KeywordOnly)

	node := outer.Fields[0].Node
	require.NotNil(t, node)
	assert.Equal(t, StringOrArray{"a"}, node.Select)
	assert.Equal(t, map[string]string{"b": "bb"}, node.Rename)
	assert.True(t, node.HasDefaultIfMissing)
	assert.Equal(t, 0, node.DefaultIfMissing)

	assert.Equal(t, "a + bb", outer.Fields[1].SelfDefault)
	assert.False(t, outer.Fields[1].HasDefault)
	assert.Equal(t, 0.5, outer.Fields[2].Default)

	// HCL has no way to tell null from absent.
	assert.False(t, outer.Fields[3].HasDefault)
}

func TestParseHCL_Errors(t *testing.T) {
	_, err := ParseHCL([]byte(`type "T" {`), "broken.hcl")
	require.Error(t, err)

	_, err = ParseHCL([]byte(`
type "T" {
  field "n" {
    node {
      prefix = "p_"
    }
  }
}
`), "missing.hcl")
	require.ErrorContains(t, err, "target")

	_, err = ParseHCL([]byte(`
type "T" {
  field "x" {
    default = a + 1
  }
}
`), "dynamic.hcl")
	require.ErrorContains(t, err, "default")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(outerYAML), 0o600))

	hclPath := filepath.Join(dir, "schema.hcl")
	require.NoError(t, os.WriteFile(hclPath, []byte(outerHCL), 0o600))

	fromYAML, err := LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Len(t, fromYAML.Types, 2)

	fromHCL, err := LoadFile(hclPath)
	require.NoError(t, err)
	assert.Len(t, fromHCL.Types, 2)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
