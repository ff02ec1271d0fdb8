package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_Collect(t *testing.T) {
	var d Diagnostics

	assert.True(t, d.IsValid())
	require.NoError(t, d.Error())

	d.AddWarning("W001", "node exposes nothing", "Outer", "leaf")
	d.AddInfo("I001", "3 types", "", "")
	assert.False(t, d.HasErrors())

	d.AddError("E002", `unknown type "Lief"`, "Outer", "leaf", "Leaf")
	assert.True(t, d.HasErrors())
	assert.Len(t, d.All(), 3)

	err := d.Error()
	require.Error(t, err)
	assert.Equal(t, `[Outer] leaf: [E002] unknown type "Lief" (did you mean: Leaf)`, err.Error())
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics

	a.AddError("E001", "first", "A", "")
	b.AddError("E001", "second", "", "")
	b.AddWarning("W001", "warn", "", "x")

	a.Merge(b)

	assert.Len(t, a.Errors, 2)
	assert.Len(t, a.Warnings, 1)
	assert.Equal(t, "[E001] second", a.Errors[1].String())
	assert.Equal(t, "x: [W001] warn", a.Warnings[0].String())
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(9).String())
}
