package bounds

import (
	"math/big"

	"github.com/emboss-project/embossc/internal/diag"
	"github.com/emboss-project/embossc/internal/ir"
)

// Infer computes IntegerType bounds for every integer-kind Expression
// in the program, in post-order, per spec.md §4.D. It must run after
// internal/typecheck has set ExpressionType on every node.
func Infer(program *ir.Ir) diag.List {
	var errs diag.List
	for _, mod := range program.Modules {
		for _, def := range mod.Types {
			errs = append(errs, inferType(program, def)...)
		}
	}
	return errs
}

func inferType(program *ir.Ir, def *ir.TypeDefinition) diag.List {
	var errs diag.List
	if def.DefinitionKind == ir.StructureKind && def.Structure != nil {
		for _, f := range def.Structure.Fields {
			if f.Physical != nil {
				errs = append(errs, inferExpr(program, f.Physical.Start)...)
				errs = append(errs, inferExpr(program, f.Physical.Size)...)
			}
			errs = append(errs, inferExpr(program, f.ExistenceCondition)...)
			errs = append(errs, inferExpr(program, f.ReadTransform)...)
		}
	}
	if def.DefinitionKind == ir.EnumKind && def.Enum != nil {
		for _, v := range def.Enum.Values {
			errs = append(errs, inferExpr(program, v.Value)...)
		}
	}
	for _, sub := range def.Subtypes {
		errs = append(errs, inferType(program, sub)...)
	}
	return errs
}

// InferExpression computes bounds for a single expression tree (and
// its descendants), post-order. internal/writeinfer uses this to give
// a freshly synthesized inverse expression sound bounds without
// re-running Infer over the whole program.
func InferExpression(program *ir.Ir, e *ir.Expression) diag.List {
	return inferExpr(program, e)
}

func inferExpr(program *ir.Ir, e *ir.Expression) diag.List {
	if e == nil {
		return nil
	}
	var errs diag.List
	if call, ok := e.Variety.(*ir.FunctionCall); ok {
		for _, arg := range call.Args {
			errs = append(errs, inferExpr(program, arg)...)
		}
	}

	if e.Type.Kind != ir.IntegerExpr {
		return errs
	}

	switch v := e.Variety.(type) {
	case *ir.NumericConstant:
		e.Type.Integer = Constant(ir.FiniteBig(v.Value))

	case *ir.ConstantReferenceExpr:
		if referent := constantReferentExpr(program, v.Reference); referent != nil {
			e.Type.Integer = referent.Type.Integer
		}

	case *ir.FieldReferenceExpr:
		it, ferrs := fieldReferenceBounds(program, v.Path)
		errs = append(errs, ferrs...)
		e.Type.Integer = it

	case *ir.BuiltinReferenceExpr:
		if v.Name == ir.BuiltinStaticSizeInBits {
			e.Type.Integer = ir.IntegerType{
				Modulus: ir.FiniteInt(1), ModularValue: ir.FiniteInt(0),
				Minimum: ir.FiniteInt(0), Maximum: ir.PosInfinity(),
			}
		}

	case *ir.FunctionCall:
		e.Type.Integer = functionBounds(v)
	}

	return errs
}

func constantReferentExpr(program *ir.Ir, ref *ir.Reference) *ir.Expression {
	if !ref.Resolved {
		return nil
	}
	node, ok := program.Find(ref.CanonicalName)
	if !ok {
		return nil
	}
	switch n := node.(type) {
	case *ir.EnumValue:
		return n.Value
	case *ir.Field:
		return n.ReadTransform
	}
	return nil
}

func fieldReferenceBounds(program *ir.Ir, path *ir.FieldReference) (ir.IntegerType, diag.List) {
	if path == nil || !path.Resolved {
		return ir.IntegerType{}, nil
	}
	last := path.Path[len(path.Path)-1]
	node, ok := program.Find(last.CanonicalName)
	if !ok {
		return ir.IntegerType{}, diag.List{diag.Errorf(diag.StageBounds, diag.CodeInternal, last.Location,
			"dangling reference to %s", last.CanonicalName.String())}
	}
	field, ok := node.(*ir.Field)
	if !ok {
		return ir.IntegerType{}, nil
	}
	if field.IsVirtual() {
		if field.ReadTransform == nil {
			return ir.IntegerType{}, nil
		}
		return field.ReadTransform.Type.Integer, nil
	}
	return physicalIntegerBounds(program, field), nil
}

// physicalIntegerBounds derives a physical integer field's [min, max]
// range per spec.md §4.D's UInt/Int/Bcd formulas. The width N is taken
// from (in priority order) an explicit constant `:N` suffix on the
// field's type, or the field's own constant physical size -- the most
// common unsuffixed-primitive case -- since the full three-way
// reconciliation with the referent's native fixed size is
// internal/constraints' job and runs after bounds.
func physicalIntegerBounds(program *ir.Ir, field *ir.Field) ir.IntegerType {
	unknown := ir.IntegerType{Modulus: ir.FiniteInt(1), ModularValue: ir.FiniteInt(0), Minimum: ir.NegInfinity(), Maximum: ir.PosInfinity()}
	if field.Type == nil || field.Type.IsArray() || field.Type.Atomic == nil || field.Type.Atomic.Reference == nil {
		return unknown
	}
	ref := field.Type.Atomic.Reference
	if !ref.Resolved {
		return unknown
	}

	width, ok := fieldWidth(field)
	if !ok {
		return unknown
	}

	base := ir.IntegerType{Modulus: ir.FiniteInt(1), ModularValue: ir.FiniteInt(0)}
	switch ref.CanonicalName.String() {
	case ir.PreludeUInt:
		base.Minimum = ir.FiniteInt(0)
		base.Maximum = ir.FiniteBig(maxUnsigned(width))
	case ir.PreludeInt:
		base.Minimum = ir.FiniteBig(minSigned(width))
		base.Maximum = ir.FiniteBig(maxSigned(width))
	case ir.PreludeBcd:
		base.Minimum = ir.FiniteInt(0)
		base.Maximum = ir.FiniteBig(maxBcd(width))
	default:
		return unknown
	}
	return base
}

func fieldWidth(field *ir.Field) (int64, bool) {
	if field.Type.SizeInBits != nil && bounds_isConstant(field.Type.SizeInBits) {
		return field.Type.SizeInBits.Type.Integer.ModularValue.Value.Int64(), true
	}
	if field.Physical != nil && field.Physical.Size != nil && bounds_isConstant(field.Physical.Size) {
		return field.Physical.Size.Type.Integer.ModularValue.Value.Int64(), true
	}
	return 0, false
}

func bounds_isConstant(e *ir.Expression) bool {
	return e.Type.Kind == ir.IntegerExpr && IsConstant(e.Type.Integer) && e.Type.Integer.ModularValue.IsFinite()
}

func maxUnsigned(n int64) *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(n)), big.NewInt(1))
}

func maxSigned(n int64) *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(n-1)), big.NewInt(1))
}

func minSigned(n int64) *big.Int {
	return new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), uint(n-1)))
}

func maxBcd(n int64) *big.Int {
	digits := n / 4
	rem := n % 4
	p := new(big.Int).Exp(big.NewInt(10), big.NewInt(digits), nil)
	p.Mul(p, new(big.Int).Lsh(big.NewInt(1), uint(rem)))
	return p.Sub(p, big.NewInt(1))
}

func functionBounds(call *ir.FunctionCall) ir.IntegerType {
	args := call.Args
	switch call.Function {
	case ir.OpAdd:
		return combineAddSub(args[0].Type.Integer, args[1].Type.Integer, false)
	case ir.OpSub:
		return combineAddSub(args[0].Type.Integer, args[1].Type.Integer, true)
	case ir.OpMul:
		return combineMul(args[0].Type.Integer, args[1].Type.Integer)
	case ir.OpMax:
		return combineMax(args)
	case ir.OpUpperBound:
		return Constant(args[0].Type.Integer.Maximum)
	case ir.OpLowerBound:
		return Constant(args[0].Type.Integer.Minimum)
	case ir.OpChoice:
		return combineChoice(call)
	}
	return ir.IntegerType{}
}

func combineAddSub(l, r ir.IntegerType, isSub bool) ir.IntegerType {
	m := Gcd(l.Modulus, r.Modulus)
	var mv ir.ExtendedInt
	if isSub {
		mv = Sub(l.ModularValue, r.ModularValue)
	} else {
		mv = Add(l.ModularValue, r.ModularValue)
	}
	if m.Kind == ir.Finite {
		mv = Mod(mv, m)
	}
	var min, max ir.ExtendedInt
	if isSub {
		min = Sub(l.Minimum, r.Maximum)
		max = Sub(l.Maximum, r.Minimum)
	} else {
		min = Add(l.Minimum, r.Minimum)
		max = Add(l.Maximum, r.Maximum)
	}
	return ir.IntegerType{Modulus: m, ModularValue: mv, Minimum: min, Maximum: max}
}

func combineMul(l, r ir.IntegerType) ir.IntegerType {
	corners := []ir.ExtendedInt{
		Mul(l.Minimum, r.Minimum), Mul(l.Minimum, r.Maximum),
		Mul(l.Maximum, r.Minimum), Mul(l.Maximum, r.Maximum),
	}
	min, max := corners[0], corners[0]
	for _, c := range corners[1:] {
		min = Min(min, c)
		max = Max(max, c)
	}

	lc, rc := IsConstant(l), IsConstant(r)
	switch {
	case lc && rc:
		return Constant(Mul(l.ModularValue, r.ModularValue))
	case lc || rc:
		var other ir.IntegerType
		var v ir.ExtendedInt
		if lc {
			other, v = r, l.ModularValue
		} else {
			other, v = l, r.ModularValue
		}
		if v.Kind == ir.Finite && v.Value.Sign() == 0 {
			return Constant(ir.FiniteInt(0))
		}
		modulus := Mul(other.Modulus, absExtended(v))
		mv := Mod(Mul(other.ModularValue, v), modulus)
		return ir.IntegerType{Modulus: modulus, ModularValue: mv, Minimum: min, Maximum: max}
	default:
		nzL, zcL := splitModulus(l)
		nzR, zcR := splitModulus(r)
		m := Mul(Mul(Gcd(nzL, nzR), zcL), zcR)
		mv := Mod(Mul(l.ModularValue, r.ModularValue), m)
		return ir.IntegerType{Modulus: m, ModularValue: mv, Minimum: min, Maximum: max}
	}
}

// splitModulus factors an operand's modulus into a shared nonzero part
// and a zero-congruence part (gcd(modulus, modular_value)), per the
// multiplication rule in spec.md §4.D for two non-constant operands.
func splitModulus(t ir.IntegerType) (nonzero, zeroCongruence ir.ExtendedInt) {
	zc := Gcd(t.Modulus, t.ModularValue)
	if t.Modulus.IsFinite() && zc.IsFinite() && zc.Value.Sign() != 0 {
		return ir.FiniteBig(new(big.Int).Quo(t.Modulus.Value, zc.Value)), zc
	}
	return t.Modulus, zc
}

func absExtended(v ir.ExtendedInt) ir.ExtendedInt {
	if v.Kind == ir.Finite {
		return ir.FiniteBig(new(big.Int).Abs(v.Value))
	}
	return ir.PosInfinity()
}

func combineMax(args []*ir.Expression) ir.IntegerType {
	min, max := args[0].Type.Integer.Minimum, args[0].Type.Integer.Maximum
	for _, a := range args[1:] {
		min = Max(min, a.Type.Integer.Minimum)
		max = Max(max, a.Type.Integer.Maximum)
	}
	if min.Equal(max) {
		return Constant(min)
	}
	m, mv := args[0].Type.Integer.Modulus, args[0].Type.Integer.ModularValue
	for _, a := range args[1:] {
		m, mv = sharedModularValue(m, mv, a.Type.Integer.Modulus, a.Type.Integer.ModularValue)
	}
	return ir.IntegerType{Modulus: m, ModularValue: mv, Minimum: min, Maximum: max}
}

// sharedModularValue implements the "M = gcd(gcd(M_a, M_b), |mv_a -
// mv_b|)" combination rule shared by $max and ?: in spec.md §4.D.
func sharedModularValue(ma, mva, mb, mvb ir.ExtendedInt) (ir.ExtendedInt, ir.ExtendedInt) {
	diff := absExtended(Sub(mva, mvb))
	m := Gcd(Gcd(ma, mb), diff)
	mv := Mod(mva, m)
	return m, mv
}

func combineChoice(call *ir.FunctionCall) ir.IntegerType {
	cond, t, f := call.Args[0], call.Args[1], call.Args[2]
	if bc, ok := cond.Variety.(*ir.BooleanConstant); ok {
		if bc.Value {
			return t.Type.Integer
		}
		return f.Type.Integer
	}
	min := Min(t.Type.Integer.Minimum, f.Type.Integer.Minimum)
	max := Max(t.Type.Integer.Maximum, f.Type.Integer.Maximum)
	m, mv := sharedModularValue(t.Type.Integer.Modulus, t.Type.Integer.ModularValue, f.Type.Integer.Modulus, f.Type.Integer.ModularValue)
	return ir.IntegerType{Modulus: m, ModularValue: mv, Minimum: min, Maximum: max}
}
