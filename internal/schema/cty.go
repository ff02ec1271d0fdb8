package schema

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"datatree/catalog"
	"datatree/tree"
)

// ctyToNative converts a cty.Value to its most natural Go counterpart.
// Whole numbers become int, other numbers float64.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()

	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return int(i), nil
			}
		}

		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number to float64: %w", err)
		}

		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())

		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()

			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}

			out = append(out, native)
		}

		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)

		it := v.ElementIterator()
		for it.Next() {
			key, elem := it.Element()

			native, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", key.AsString(), err)
			}

			out[key.AsString()] = native
		}

		return out, nil

	default:
		return nil, fmt.Errorf("unsupported cty type %s", ty.FriendlyName())
	}
}

// nativeToCty converts a field value for use in an expression.
func nativeToCty(v any) (cty.Value, error) {
	switch x := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case cty.Value:
		return x, nil
	case string:
		return cty.StringVal(x), nil
	case bool:
		return cty.BoolVal(x), nil
	case int:
		return cty.NumberIntVal(int64(x)), nil
	case int64:
		return cty.NumberIntVal(x), nil
	case int32:
		return cty.NumberIntVal(int64(x)), nil
	case uint:
		return cty.NumberUIntVal(uint64(x)), nil
	case float64:
		return cty.NumberFloatVal(x), nil
	case float32:
		return cty.NumberFloatVal(float64(x)), nil
	case []any:
		elems := make([]cty.Value, len(x))
		for i, e := range x {
			cv, err := nativeToCty(e)
			if err != nil {
				return cty.NilVal, fmt.Errorf("element %d: %w", i, err)
			}

			elems[i] = cv
		}

		return cty.TupleVal(elems), nil
	case map[string]any:
		return objectVal(x)
	case catalog.Args:
		return objectVal(x)
	case *tree.Instance:
		values := x.Values()
		for name, fv := range values {
			if _, callable := fv.(catalog.Caller); callable {
				delete(values, name)
			}

			if _, deferred := fv.(*tree.Deferred); deferred {
				delete(values, name)
			}
		}

		return objectVal(values)
	}

	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty type of %T: %w", v, err)
	}

	return gocty.ToCtyValue(v, ty)
}

func objectVal(m map[string]any) (cty.Value, error) {
	attrs := make(map[string]cty.Value, len(m))

	for k, e := range m {
		cv, err := nativeToCty(e)
		if err != nil {
			return cty.NilVal, fmt.Errorf("attribute %q: %w", k, err)
		}

		attrs[k] = cv
	}

	return cty.ObjectVal(attrs), nil
}
