package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
types:
  - name: Leaf
    fields:
      - {name: a, default: 1}
      - {name: b, default: 2}
  - name: Outer
    fields:
      - name: leaf
        node: {target: Leaf, select: a, rename: {b: bb}}
      - {name: total, self_default: "a + bb"}
`

func writeSchema(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer

	code := run(args, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCLI()
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: datatree")

	code, _, stderr = runCLI("frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "frobnicate"`)

	code, _, _ = runCLI("inspect", "only-one-arg")
	assert.Equal(t, 2, code)
}

func TestRun_Check(t *testing.T) {
	path := writeSchema(t, testSchema)

	code, stdout, stderr := runCLI("check", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Leaf [a:Literal b:Literal]")
	assert.Contains(t, stdout, "ok: 2 type(s)")
}

func TestRun_CheckReportsDiagnostics(t *testing.T) {
	path := writeSchema(t, `
types:
  - name: Leaf
  - name: Outer
    fields:
      - {name: n, node: {target: Lef}}
`)

	code, stdout, stderr := runCLI("check", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "[unknown_target]")
	assert.Contains(t, stdout, "did you mean: Leaf")
	assert.Contains(t, stderr, "1 error(s)")
}

func TestRun_Inspect(t *testing.T) {
	path := writeSchema(t, testSchema)

	code, stdout, stderr := runCLI("inspect", path, "Outer")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "a:\n    a: Leaf\nbb:\n    b: Leaf\n", stdout)

	code, stdout, _ = runCLI("inspect", "-deep", path, "Outer")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "bb: Outer\n    b: Leaf")

	code, _, stderr = runCLI("inspect", path, "Outr")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Outer")
}

func TestRun_New(t *testing.T) {
	path := writeSchema(t, testSchema)

	code, stdout, stderr := runCLI("-v", "new", "-call", "leaf", path, "Outer", "a=5")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "total=7")
	assert.Contains(t, stdout, "leaf() = Leaf(a=5, b=2)")

	code, stdout, _ = runCLI("new", "-dump", path, "Outer")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "(catalog.Args)")

	code, _, stderr = runCLI("new", path, "Outer", "nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "expected name=value")

	code, _, stderr = runCLI("new", path, "Outer", "c=1")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unexpected argument")
}

func TestRun_Examples(t *testing.T) {
	code, stdout, stderr := runCLI("check", "../../examples/leaf.yaml")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "ok: 3 type(s)")

	code, stdout, stderr = runCLI("new", "-call", "right", "../../examples/leaf.yaml", "Outer", "a=5", "r_b=7")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "sum=15")
	assert.Contains(t, stdout, "right() = Leaf(a=1, b=7)")

	code, stdout, stderr = runCLI("new", "../../examples/outer.hcl", "Scaled", "a=3")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "scaled=32")
}
