package rego

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/apognu/regoer/internal/errors"
	"github.com/apognu/regoer/internal/policy"
)

type quantifier int

const (
	noQuantifier quantifier = iota
	forAllValues
	forAnyValue
)

// operatorSpec describes how one condition operator translates: how its
// policy values convert to expressions, how a single policy value is
// compared against the context value, and whether the comparison is a
// negation. Negative operators AND the negated comparison across the
// value set instead of ORing the positive one.
type operatorSpec struct {
	convert func(policy.Value) (expr, error)
	build   func(pol, ctx expr) expr
	negated bool
}

var conditionOperators = map[string]operatorSpec{
	"StringEquals":    {toStrExpr, eq, false},
	"StringNotEquals": {toStrExpr, ne, true},
	"StringEqualsIgnoreCase": {toStrExpr, func(pol, ctx expr) expr {
		return eq(lower(pol), lower(ctx))
	}, false},
	"StringNotEqualsIgnoreCase": {toStrExpr, func(pol, ctx expr) expr {
		return ne(lower(pol), lower(ctx))
	}, true},
	"StringLike": {toStrExpr, globMatch, false},
	"StringNotLike": {toStrExpr, func(pol, ctx expr) expr {
		return not{globMatch(pol, ctx)}
	}, true},

	"NumericEquals":    {toIntExpr, eq, false},
	"NumericNotEquals": {toIntExpr, ne, true},
	"NumericLessThan": {toIntExpr, func(pol, ctx expr) expr {
		return lt(ctx, pol)
	}, false},
	"NumericLessThanEquals": {toIntExpr, func(pol, ctx expr) expr {
		return lte(ctx, pol)
	}, false},
	"NumericGreaterThan": {toIntExpr, func(pol, ctx expr) expr {
		return gt(ctx, pol)
	}, false},
	"NumericGreaterThanEquals": {toIntExpr, func(pol, ctx expr) expr {
		return gte(ctx, pol)
	}, false},

	"DateEquals": {toStrExpr, func(pol, ctx expr) expr {
		return eq(parseTime(pol), parseTime(ctx))
	}, false},
	"DateNotEquals": {toStrExpr, func(pol, ctx expr) expr {
		return ne(parseTime(pol), parseTime(ctx))
	}, true},
	"DateLessThan": {toStrExpr, func(pol, ctx expr) expr {
		return lt(parseTime(ctx), parseTime(pol))
	}, false},
	"DateLessThanEquals": {toStrExpr, func(pol, ctx expr) expr {
		return lte(parseTime(ctx), parseTime(pol))
	}, false},
	"DateGreaterThan": {toStrExpr, func(pol, ctx expr) expr {
		return gt(parseTime(ctx), parseTime(pol))
	}, false},
	"DateGreaterThanEquals": {toStrExpr, func(pol, ctx expr) expr {
		return gte(parseTime(ctx), parseTime(pol))
	}, false},

	"IpAddress": {toStrExpr, cidrContains, false},
	"NotIpAddress": {toStrExpr, func(pol, ctx expr) expr {
		return not{cidrContains(pol, ctx)}
	}, true},

	"ArnLike": {toStrExpr, arnMatch, false},
	"ArnNotLike": {toStrExpr, func(pol, ctx expr) expr {
		return not{arnMatch(pol, ctx)}
	}, true},
}

// translateCondition turns one condition operator block into one
// expression per context key. Every resulting expression must hold for
// the statement to match.
func translateCondition(cond policy.Condition) ([]expr, error) {
	const op = errors.Op("rego.translateCondition")

	name, quant := splitQuantifier(cond.Operator)

	// Bool compares a single boolean and ignores quantifiers, AWS
	// defines no set semantics for it.
	if name == "Bool" {
		return translateBool(cond)
	}

	spec, ok := conditionOperators[name]
	if !ok {
		return nil, errors.E(errors.UnknownOperator, op,
			fmt.Sprintf("condition operator %q is not supported", cond.Operator))
	}

	out := make([]expr, 0, len(cond.Keys))
	for _, key := range cond.Keys {
		pols, err := convertValues(cond.Operator, key, spec.convert)
		if err != nil {
			return nil, err
		}
		out = append(out, combine(spec, quant, pols, resolveKey(key.Key)))
	}
	return out, nil
}

// combine assembles the comparison for one context key from the
// operator's polarity and quantifier:
//
//   - plain positive: any policy value matches the context value
//   - plain negative: every policy value must mismatch
//   - quantified positive: ForAnyValue needs one context value matching
//     one policy value, ForAllValues needs every context value matching
//     some policy value
//   - quantified negative: every context value must mismatch every
//     policy value, for either quantifier
//
// Quantified forms read the context key through to_array/object.get so
// a missing key is an empty set, which satisfies ForAllValues
// vacuously.
func combine(spec operatorSpec, quant quantifier, pols []expr, ctx ctxRef) expr {
	if quant == noQuantifier {
		if len(pols) == 1 {
			return spec.build(pols[0], ctx)
		}
		if spec.negated {
			return every{"item", list(pols), spec.build(ref("item"), ctx)}
		}
		return spec.build(anyIn{list(pols)}, ctx)
	}

	if spec.negated {
		inner := every{"val", list(pols), spec.build(ref("val"), ref("item"))}
		return every{"item", toArray(ctx), inner}
	}
	if quant == forAnyValue {
		return spec.build(anyIn{list(pols)}, anyIn{toArray(ctx)})
	}
	return every{"item", toArray(ctx), spec.build(anyIn{list(pols)}, ref("item"))}
}

func translateBool(cond policy.Condition) ([]expr, error) {
	out := make([]expr, 0, len(cond.Keys))
	for _, key := range cond.Keys {
		vals, err := convertValues(cond.Operator, key, toBoolExpr)
		if err != nil {
			return nil, err
		}

		ctx := resolveKey(key.Key)
		if len(vals) == 1 {
			out = append(out, eq(ctx, vals[0]))
		} else {
			out = append(out, eq(anyIn{list(vals)}, ctx))
		}
	}
	return out, nil
}

func convertValues(operator string, key policy.ConditionKey, convert func(policy.Value) (expr, error)) ([]expr, error) {
	const op = errors.Op("rego.convertValues")

	out := make([]expr, 0, len(key.Values))
	for _, v := range key.Values {
		e, err := convert(v)
		if err != nil {
			return nil, errors.Wrap(err, op,
				errors.WithMsg(fmt.Sprintf("condition %s on key %q", operator, key.Key)))
		}
		out = append(out, e)
	}
	return out, nil
}

func splitQuantifier(operator string) (string, quantifier) {
	if name, ok := strings.CutPrefix(operator, "ForAllValues:"); ok {
		return name, forAllValues
	}
	if name, ok := strings.CutPrefix(operator, "ForAnyValue:"); ok {
		return name, forAnyValue
	}
	return operator, noQuantifier
}

// resolveKey maps a condition context key to its input reference. The
// qualifier before ":" and any "/" each open a path segment, mirroring
// how policy variables resolve.
func resolveKey(key string) ctxRef {
	return variablePath(key)
}

func toStrExpr(v policy.Value) (expr, error) {
	const op = errors.Op("rego.toStrExpr")

	if v.Type != policy.StringValue {
		return nil, errors.E(errors.InvalidValueType, op,
			fmt.Sprintf("expected a string value, got %s", valueTypeName(v.Type)))
	}
	return interpolate(v.Str)
}

func toIntExpr(v policy.Value) (expr, error) {
	const op = errors.Op("rego.toIntExpr")

	switch v.Type {
	case policy.NumberValue:
		return intLit(v.Num), nil
	case policy.StringValue:
		n, err := strconv.ParseInt(v.Str, 10, 64)
		if err != nil {
			return nil, errors.E(errors.InvalidValueType, op,
				fmt.Sprintf("expected an integer value, got %q", v.Str))
		}
		return intLit(n), nil
	default:
		return nil, errors.E(errors.InvalidValueType, op,
			fmt.Sprintf("expected an integer value, got %s", valueTypeName(v.Type)))
	}
}

func toBoolExpr(v policy.Value) (expr, error) {
	const op = errors.Op("rego.toBoolExpr")

	switch v.Type {
	case policy.BoolValue:
		return boolLit(v.Bool), nil
	case policy.StringValue:
		switch v.Str {
		case "true":
			return boolLit(true), nil
		case "false":
			return boolLit(false), nil
		}
		return nil, errors.E(errors.InvalidValueType, op,
			fmt.Sprintf("expected a boolean value, got %q", v.Str))
	default:
		return nil, errors.E(errors.InvalidValueType, op,
			fmt.Sprintf("expected a boolean value, got %s", valueTypeName(v.Type)))
	}
}

func valueTypeName(t policy.ValueType) string {
	switch t {
	case policy.StringValue:
		return "string"
	case policy.NumberValue:
		return "number"
	case policy.BoolValue:
		return "boolean"
	default:
		return "unknown"
	}
}
