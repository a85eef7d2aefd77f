package object

import (
	"context"
	"fmt"
	"math/big"

	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/tfsdk"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-go/tftypes"
	"github.com/hashicorp/terraform-plugin-log/tflog"
)

func kindsOf(def Definition) map[string]Kind {
	kinds := map[string]Kind{"name": KindString, "resource_name": KindString}
	for _, k := range def.Scope.Keys() {
		kinds[k] = KindString
	}
	for _, a := range def.Attributes {
		kinds[a.Name()] = a.Kind()
	}
	for _, p := range def.Parameters {
		kinds[p.Name] = p.Kind
	}
	return kinds
}

// inputsFromValue converts a plan or state object into Inputs. Unknown and
// null values are left out, and strings spelling the token of a Value-Or-Token
// attribute become that token.
func inputsFromValue(def Definition, v tftypes.Value) (Inputs, error) {
	var raw map[string]tftypes.Value
	if err := v.As(&raw); err != nil {
		return nil, err
	}

	kinds := kindsOf(def)
	inputs := Inputs{}
	for k, val := range raw {
		kind, ok := kinds[k]
		if !ok || !val.IsFullyKnown() || val.IsNull() {
			continue
		}
		x, err := fromTerraform(kind, val)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		inputs[k] = x
	}

	for _, a := range def.Attributes {
		token, ok := TokenOf(a)
		if !ok {
			continue
		}
		if s, ok := inputs[a.Name()].(string); ok && s == token.SQL() {
			inputs[a.Name()] = token
		}
	}
	return inputs, nil
}

func fromTerraform(kind Kind, v tftypes.Value) (any, error) {
	switch kind {
	case KindBool:
		var b bool
		err := v.As(&b)
		return b, err
	case KindInt:
		var f big.Float
		if err := v.As(&f); err != nil {
			return nil, err
		}
		i, accuracy := f.Int64()
		if accuracy != big.Exact {
			return nil, fmt.Errorf("%w: %s is not an integer", ErrInvalidValue, f.String())
		}
		return i, nil
	case KindStringList:
		var elems []tftypes.Value
		if err := v.As(&elems); err != nil {
			return nil, err
		}
		items := make([]string, len(elems))
		for i, e := range elems {
			if err := e.As(&items[i]); err != nil {
				return nil, err
			}
		}
		return items, nil
	default:
		var s string
		err := v.As(&s)
		return s, err
	}
}

// setOutputs writes every output that is part of the schema into state.
// Attributes missing from outputs keep their planned values.
func setOutputs(ctx context.Context, def Definition, state *tfsdk.State, outs map[string]any) diag.Diagnostics {
	var diags diag.Diagnostics
	kinds := kindsOf(def)
	for k, v := range outs {
		kind, ok := kinds[k]
		if !ok {
			tflog.Debug(ctx, "ignoring output without attribute", map[string]any{"key": k})
			continue
		}
		value, d := toTerraform(ctx, kind, v)
		diags.Append(d...)
		if d.HasError() {
			continue
		}
		diags.Append(state.SetAttribute(ctx, path.Root(k), value)...)
	}
	return diags
}

func toTerraform(ctx context.Context, kind Kind, v any) (attr.Value, diag.Diagnostics) {
	switch kind {
	case KindBool:
		if b, ok := v.(bool); ok {
			return types.BoolValue(b), nil
		}
		return types.BoolNull(), nil
	case KindInt:
		switch i := v.(type) {
		case int64:
			return types.Int64Value(i), nil
		case int:
			return types.Int64Value(int64(i)), nil
		}
		return types.Int64Null(), nil
	case KindStringList:
		items, err := listItems(v)
		if v == nil || err != nil {
			return types.ListNull(types.StringType), nil
		}
		strs := make([]string, len(items))
		for i, item := range items {
			strs[i] = fmt.Sprint(item)
		}
		return types.ListValueFrom(ctx, types.StringType, strs)
	default:
		switch s := v.(type) {
		case nil:
			return types.StringNull(), nil
		case string:
			return types.StringValue(s), nil
		case Token:
			return types.StringValue(s.SQL()), nil
		default:
			return types.StringValue(fmt.Sprint(s)), nil
		}
	}
}
