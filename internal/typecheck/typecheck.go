// Package typecheck implements the semantic type checker (spec.md
// §4.C): it sets ExpressionType on every ir.Expression in place and
// validates operator signatures, grounded on the teacher's
// internal/types/checker.go (a post-order visitor that annotates each
// ast.Expr's Type field, reporting one diagnostic per violation
// instead of aborting) and
// original_source/compiler/front_end/type_check.py's per-operator
// signature table.
package typecheck

import (
	"github.com/emboss-project/embossc/internal/diag"
	"github.com/emboss-project/embossc/internal/ir"
	"github.com/emboss-project/embossc/internal/traverse"
)

// Check walks every Expression in post-order (children before parent,
// guaranteed by the bottom-up recursion in checkExpression) and
// assigns its ExpressionType, reporting a diagnostic for every
// signature violation.
func Check(program *ir.Ir) diag.List {
	var errs diag.List

	traverse.Walk(program, []ir.Kind{ir.KindModule, ir.KindExpression},
		func(node ir.Node, params traverse.Params) {
			e := node.(*ir.Expression)
			errs = append(errs, checkExpression(program, e)...)
		},
		traverse.Builtins()...,
	)

	traverse.Walk(program, []ir.Kind{ir.KindModule, ir.KindField}, func(node ir.Node, _ traverse.Params) {
		f := node.(*ir.Field)
		if f.Physical != nil {
			errs = append(errs, requireKind(f.Physical.Start, ir.IntegerExpr, "field location start")...)
			errs = append(errs, requireKind(f.Physical.Size, ir.IntegerExpr, "field location size")...)
		}
		if f.ExistenceCondition != nil {
			errs = append(errs, requireKind(f.ExistenceCondition, ir.BooleanExpr, "existence_condition")...)
		}
	}, traverse.Builtins()...)

	traverse.Walk(program, []ir.Kind{ir.KindModule, ir.KindArrayType}, func(node ir.Node, _ traverse.Params) {
		a := node.(*ir.ArrayType)
		if a.Size.Constant != nil {
			errs = append(errs, requireKind(a.Size.Constant, ir.IntegerExpr, "array element count")...)
		}
	}, traverse.Builtins()...)

	return errs
}

func requireKind(e *ir.Expression, want ir.ExpressionKind, what string) diag.List {
	if e == nil || e.Type.Kind == want {
		return nil
	}
	return diag.List{diag.Errorf(diag.StageTypeCheck, diag.CodeTypeNonInteger, e.Location,
		"%s must be %s, got %s", what, want, e.Type.Kind)}
}

// checkExpression visits e's children first (so their ExpressionType
// is already set), then validates and assigns e's own type.
func checkExpression(program *ir.Ir, e *ir.Expression) diag.List {
	var errs diag.List
	for _, child := range childExpressions(e) {
		errs = append(errs, checkExpression(program, child)...)
	}

	switch v := e.Variety.(type) {
	case *ir.NumericConstant:
		e.Type = ir.ExpressionType{Kind: ir.IntegerExpr}

	case *ir.BooleanConstant:
		e.Type = ir.ExpressionType{Kind: ir.BooleanExpr}

	case *ir.ConstantReferenceExpr:
		t, refErrs := constantReferenceType(program, v.Reference)
		errs = append(errs, refErrs...)
		e.Type = t

	case *ir.FieldReferenceExpr:
		t, refErrs := fieldReferenceType(program, v.Path)
		errs = append(errs, refErrs...)
		e.Type = t

	case *ir.BuiltinReferenceExpr:
		switch v.Name {
		case ir.BuiltinStaticSizeInBits:
			e.Type = ir.ExpressionType{Kind: ir.IntegerExpr}
		case ir.BuiltinIsStaticallySized:
			e.Type = ir.ExpressionType{Kind: ir.BooleanExpr}
		case ir.BuiltinLogicalValue:
			// Resolved to the enclosing write-transform context's type by
			// internal/writeinfer, which synthesizes this node; until then
			// it carries NoType.
			e.Type = ir.ExpressionType{Kind: ir.NoType}
		}

	case *ir.FunctionCall:
		t, callErrs := functionCallType(v)
		errs = append(errs, callErrs...)
		e.Type = t
	}

	return errs
}

// childExpressions returns the direct Expression operands of e,
// without depending on internal/traverse (checkExpression needs
// exactly this one level, and doing it locally keeps the evaluation
// order explicit: left-to-right, matching how a human reads `a + b`).
func childExpressions(e *ir.Expression) []*ir.Expression {
	if call, ok := e.Variety.(*ir.FunctionCall); ok {
		return call.Args
	}
	return nil
}

func constantReferenceType(program *ir.Ir, ref *ir.Reference) (ir.ExpressionType, diag.List) {
	if !ref.Resolved {
		return ir.ExpressionType{}, nil
	}
	node, ok := program.Find(ref.CanonicalName)
	if !ok {
		return ir.ExpressionType{}, diag.List{diag.Errorf(diag.StageTypeCheck, diag.CodeInternal, ref.Location,
			"dangling reference to %s", ref.CanonicalName.String())}
	}
	switch n := node.(type) {
	case *ir.EnumValue:
		if n.Value == nil {
			return ir.ExpressionType{}, nil
		}
		return n.Value.Type, nil
	case *ir.Field:
		if n.IsVirtual() {
			if n.ReadTransform == nil {
				return ir.ExpressionType{}, nil
			}
			return n.ReadTransform.Type, nil
		}
		return ir.ExpressionType{}, diag.List{diag.Errorf(diag.StageTypeCheck, diag.CodeConstantTarget, ref.Location,
			"%s is a physical field, not a compile-time constant", ref.CanonicalName.String())}
	default:
		return ir.ExpressionType{}, diag.List{diag.Errorf(diag.StageTypeCheck, diag.CodeConstantTarget, ref.Location,
			"%s is not an enum value or virtual field", ref.CanonicalName.String())}
	}
}

func fieldReferenceType(program *ir.Ir, path *ir.FieldReference) (ir.ExpressionType, diag.List) {
	if path == nil || !path.Resolved {
		return ir.ExpressionType{}, nil
	}
	last := path.Path[len(path.Path)-1]
	node, ok := program.Find(last.CanonicalName)
	if !ok {
		return ir.ExpressionType{}, diag.List{diag.Errorf(diag.StageTypeCheck, diag.CodeInternal, last.Location,
			"dangling reference to %s", last.CanonicalName.String())}
	}
	field, ok := node.(*ir.Field)
	if !ok {
		return ir.ExpressionType{}, diag.List{diag.Errorf(diag.StageTypeCheck, diag.CodeNameBadMember, last.Location,
			"%s is not a field", last.CanonicalName.String())}
	}
	if field.IsVirtual() {
		if field.ReadTransform == nil {
			return ir.ExpressionType{}, nil
		}
		return field.ReadTransform.Type, nil
	}
	return physicalFieldType(program, field)
}

func physicalFieldType(program *ir.Ir, field *ir.Field) (ir.ExpressionType, diag.List) {
	if field.Type == nil || field.Type.IsArray() || field.Type.Atomic == nil || field.Type.Atomic.Reference == nil {
		return ir.ExpressionType{Kind: ir.OpaqueExpr}, nil
	}
	ref := field.Type.Atomic.Reference
	if !ref.Resolved {
		return ir.ExpressionType{}, nil
	}
	switch ref.CanonicalName.String() {
	case ir.PreludeUInt, ir.PreludeInt, ir.PreludeBcd:
		return ir.ExpressionType{Kind: ir.IntegerExpr}, nil
	case ir.PreludeFlag:
		return ir.ExpressionType{Kind: ir.BooleanExpr}, nil
	}
	node, ok := program.Find(ref.CanonicalName)
	if !ok {
		return ir.ExpressionType{Kind: ir.OpaqueExpr}, nil
	}
	if def, ok := node.(*ir.TypeDefinition); ok && def.DefinitionKind == ir.EnumKind {
		return ir.ExpressionType{Kind: ir.EnumerationExpr, EnumName: def.Name.Name}, nil
	}
	return ir.ExpressionType{Kind: ir.OpaqueExpr}, nil
}

func functionCallType(call *ir.FunctionCall) (ir.ExpressionType, diag.List) {
	loc := call.Location
	args := call.Args

	kindOf := func(i int) ir.ExpressionKind { return args[i].Type.Kind }

	switch call.Function {
	case ir.OpAdd, ir.OpSub, ir.OpMul:
		if len(args) != 2 || kindOf(0) != ir.IntegerExpr || kindOf(1) != ir.IntegerExpr {
			return ir.ExpressionType{}, arityErr(loc, call.Function, "two integers")
		}
		return ir.ExpressionType{Kind: ir.IntegerExpr}, nil

	case ir.OpAnd, ir.OpOr:
		if len(args) != 2 || kindOf(0) != ir.BooleanExpr || kindOf(1) != ir.BooleanExpr {
			return ir.ExpressionType{}, arityErr(loc, call.Function, "two booleans")
		}
		return ir.ExpressionType{Kind: ir.BooleanExpr}, nil

	case ir.OpMax:
		if len(args) < 1 {
			return ir.ExpressionType{}, arityErr(loc, call.Function, "at least one integer")
		}
		for i := range args {
			if kindOf(i) != ir.IntegerExpr {
				return ir.ExpressionType{}, arityErr(loc, call.Function, "all-integer arguments")
			}
		}
		return ir.ExpressionType{Kind: ir.IntegerExpr}, nil

	case ir.OpHas:
		if len(args) != 1 {
			return ir.ExpressionType{}, arityErr(loc, call.Function, "one field reference")
		}
		return ir.ExpressionType{Kind: ir.BooleanExpr}, nil

	case ir.OpUpperBound, ir.OpLowerBound:
		if len(args) != 1 || kindOf(0) != ir.IntegerExpr {
			return ir.ExpressionType{}, arityErr(loc, call.Function, "one integer")
		}
		return ir.ExpressionType{Kind: ir.IntegerExpr}, nil

	case ir.OpEq, ir.OpNeq:
		if len(args) != 2 {
			return ir.ExpressionType{}, arityErr(loc, call.Function, "two values")
		}
		if !comparableKinds(kindOf(0), kindOf(1)) {
			return ir.ExpressionType{}, diag.List{diag.Errorf(diag.StageTypeCheck, diag.CodeTypeMismatch, loc,
				"%s requires two values of the same kind (integer, boolean, or enum), got %s and %s",
				call.Function, kindOf(0), kindOf(1))}
		}
		return ir.ExpressionType{Kind: ir.BooleanExpr}, nil

	case ir.OpLt, ir.OpLe, ir.OpGt, ir.OpGe:
		if len(args) != 2 {
			return ir.ExpressionType{}, arityErr(loc, call.Function, "two values")
		}
		ok := (kindOf(0) == ir.IntegerExpr && kindOf(1) == ir.IntegerExpr) ||
			(kindOf(0) == ir.EnumerationExpr && kindOf(1) == ir.EnumerationExpr && args[0].Type.EnumName.Equal(args[1].Type.EnumName))
		if !ok {
			return ir.ExpressionType{}, diag.List{diag.Errorf(diag.StageTypeCheck, diag.CodeTypeMismatch, loc,
				"%s requires two integers or two same-enum values, got %s and %s", call.Function, kindOf(0), kindOf(1))}
		}
		return ir.ExpressionType{Kind: ir.BooleanExpr}, nil

	case ir.OpChoice:
		if len(args) != 3 || kindOf(0) != ir.BooleanExpr {
			return ir.ExpressionType{}, arityErr(loc, call.Function, "(boolean, T, T)")
		}
		tk, fk := kindOf(1), kindOf(2)
		if tk != fk || (tk != ir.IntegerExpr && tk != ir.BooleanExpr && tk != ir.EnumerationExpr) {
			return ir.ExpressionType{}, diag.List{diag.Errorf(diag.StageTypeCheck, diag.CodeTypeMismatch, loc,
				"?: branches must have matching integer, boolean, or enum type, got %s and %s", tk, fk)}
		}
		if tk == ir.EnumerationExpr && !args[1].Type.EnumName.Equal(args[2].Type.EnumName) {
			return ir.ExpressionType{}, diag.List{diag.Errorf(diag.StageTypeCheck, diag.CodeTypeMismatch, loc,
				"?: branches must be the same enum type")}
		}
		return args[1].Type, nil
	}

	return ir.ExpressionType{}, diag.List{diag.Errorf(diag.StageTypeCheck, diag.CodeInternal, loc, "unknown operator %s", call.Function)}
}

func comparableKinds(a, b ir.ExpressionKind) bool {
	if a != b {
		return false
	}
	return a == ir.IntegerExpr || a == ir.BooleanExpr || a == ir.EnumerationExpr
}

func arityErr(loc ir.Location, op ir.FunctionOp, want string) diag.List {
	return diag.List{diag.Errorf(diag.StageTypeCheck, diag.CodeTypeBadArgCount, loc, "%s requires %s", op, want)}
}
