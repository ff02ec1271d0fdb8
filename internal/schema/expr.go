package schema

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"datatree/catalog"
	"datatree/internal/common"
)

// CompileSelfDefault compiles an expression over sibling field names into
// a self default. Only the fields the expression references are read.
func CompileSelfDefault(src string) (catalog.SelfDefault, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "self_default", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid self_default %q: %w", src, diags)
	}

	return func(v catalog.View) (any, error) {
		ctx := &hcl.EvalContext{
			Variables: make(map[string]cty.Value),
			Functions: map[string]function.Function{"call": callFunction(v)},
		}

		for _, tr := range expr.Variables() {
			name := tr.RootName()
			if _, done := ctx.Variables[name]; done {
				continue
			}

			raw, err := v.Value(name)
			if err != nil {
				return nil, err
			}

			cv, err := nativeToCty(raw)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}

			ctx.Variables[name] = cv
		}

		val, diags := expr.Value(ctx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluating %q: %w", src, diags)
		}

		return ctyToNative(val)
	}, nil
}

// References returns the root names an expression reads.
func References(src string) ([]string, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "self_default", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, diags
	}

	var out []string
	for _, tr := range expr.Variables() {
		out = append(out, tr.RootName())
	}

	return common.Dedup(out), nil
}

// callFunction exposes node calls to expressions as call("node").
func callFunction(v catalog.View) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "node", Type: cty.String}},
		Type:   function.StaticReturnType(cty.DynamicPseudoType),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			out, err := v.Call(args[0].AsString(), nil)
			if err != nil {
				return cty.NilVal, err
			}

			return nativeToCty(out)
		},
	})
}

// evalStatic evaluates an expression that may not reference anything.
func evalStatic(expr hcl.Expression) (any, bool, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, false, diags
	}

	if val.IsNull() {
		return nil, false, nil
	}

	native, err := ctyToNative(val)
	if err != nil {
		return nil, false, err
	}

	return native, true, nil
}
