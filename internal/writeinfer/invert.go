package writeinfer

import "github.com/emboss-project/embossc/internal/ir"

// inversion is the result of successfully inverting a read transform:
// path is the field the inverse expression should be written to, and
// body computes the physical value to write there from $logical_value.
type inversion struct {
	path *ir.FieldReference
	body *ir.Expression
}

// invertExpression finds the algebraic inverse of expr with respect to
// the single field_reference it contains, if any. This is a
// deliberately limited solver (addition and subtraction only): any
// equation it can solve becomes part of the generated API forever, so
// new operators are added here only when a concrete need arises.
func invertExpression(expr *ir.Expression) *inversion {
	path := findFieldReferencePath(expr)
	if path == nil {
		return nil
	}

	sub := expr
	result := &ir.Expression{
		Variety:  &ir.BuiltinReferenceExpr{Name: ir.BuiltinLogicalValue, Location: ir.SyntheticLocation()},
		Type:     expr.Type,
		Location: ir.SyntheticLocation(),
	}

	for _, index := range path {
		call := sub.Variety.(*ir.FunctionCall)
		other := call.Args[1-index]
		switch call.Function {
		case ir.OpAdd:
			result = binaryOp(ir.OpSub, result, other)
		case ir.OpSub:
			if index == 0 {
				result = binaryOp(ir.OpAdd, result, other)
			} else {
				result = binaryOp(ir.OpSub, other, result)
			}
		default:
			return nil
		}
		sub = call.Args[index]
	}

	fieldRef, ok := sub.Variety.(*ir.FieldReferenceExpr)
	if !ok {
		return nil
	}
	return &inversion{path: fieldRef.Path, body: result}
}

func binaryOp(op ir.FunctionOp, a, b *ir.Expression) *ir.Expression {
	return &ir.Expression{
		Variety:  &ir.FunctionCall{Function: op, Args: []*ir.Expression{a, b}, Location: ir.SyntheticLocation()},
		Type:     ir.ExpressionType{Kind: ir.IntegerExpr},
		Location: ir.SyntheticLocation(),
	}
}

// findFieldReferencePath returns the sequence of FunctionCall.Args
// indexes leading to expr's field_reference, provided it contains
// exactly one; otherwise nil.
func findFieldReferencePath(expr *ir.Expression) []int {
	count, path := countFieldReferences(expr)
	if count != 1 {
		return nil
	}
	return path
}

func countFieldReferences(expr *ir.Expression) (int, []int) {
	switch v := expr.Variety.(type) {
	case *ir.FieldReferenceExpr:
		return 1, nil
	case *ir.FunctionCall:
		count := 0
		var path []int
		for i, arg := range v.Args {
			c, p := countFieldReferences(arg)
			if c == 1 && count == 0 {
				path = append([]int{i}, p...)
			}
			count += c
		}
		if count != 1 {
			return count, nil
		}
		return count, path
	default:
		return 0, nil
	}
}
