package constraints

import (
	"math/big"

	"github.com/emboss-project/embossc/internal/diag"
	"github.com/emboss-project/embossc/internal/ir"
)

// checkField reconciles a field's type usage (size reconciliation,
// array rules) and validates any static_requirements on its referent.
func checkField(program *ir.Ir, parent *ir.TypeDefinition, f *ir.Field) diag.List {
	var errs diag.List
	if f.Type == nil {
		return nil
	}
	if f.Type.IsArray() {
		errs = append(errs, checkArray(parent, f, f.Type.Array, true)...)
	} else {
		errs = append(errs, checkAtomicUsage(program, parent, f, f.Type)...)
	}
	return errs
}

// checkArray validates dimension and element rules: non-outermost
// dimensions must be constant; an omitted ("automatic") dimension is
// legal only outermost; elements must be fixed size; and, inside a
// struct (byte-addressable parent), each element's size must be a
// multiple of 8 bits.
func checkArray(parent *ir.TypeDefinition, f *ir.Field, arr *ir.ArrayType, outermost bool) diag.List {
	var errs diag.List
	if arr.Size.Automatic && !outermost {
		errs = append(errs, diag.Errorf(diag.StageConstraints, diag.CodeArrayDimension, arr.Location,
			"only the outermost array dimension may be omitted"))
	}
	if !arr.Size.Automatic && arr.Size.Constant != nil && !arr.Size.Constant.IsConstant() {
		errs = append(errs, diag.Errorf(diag.StageConstraints, diag.CodeArrayDimension, arr.Location,
			"array dimension must be a compile-time constant"))
	}

	if arr.Element != nil && arr.Element.IsArray() {
		errs = append(errs, checkArray(parent, f, arr.Element.Array, false)...)
	}

	elemSize, ok := elementFixedSizeBits(arr.Element)
	if !ok {
		errs = append(errs, diag.Errorf(diag.StageConstraints, diag.CodeArrayElement, arr.Location,
			"array elements must have a statically known fixed size"))
		return errs
	}
	if parent.AddressableUnit == ir.Byte {
		if new(big.Int).Mod(elemSize, big.NewInt(8)).Sign() != 0 {
			errs = append(errs, diag.Errorf(diag.StageConstraints, diag.CodeArrayElement, arr.Location,
				"array elements in a struct must be a whole number of bytes"))
		}
	}
	return errs
}

// elementFixedSizeBits returns the element type's own native fixed
// size, when statically known.
func elementFixedSizeBits(t *ir.TypeRef) (*big.Int, bool) {
	if t == nil || t.Atomic == nil || t.Atomic.Reference == nil || !t.Atomic.Reference.Resolved {
		return nil, false
	}
	if t.SizeInBits != nil && t.SizeInBits.IsConstant() {
		return t.SizeInBits.Type.Integer.ModularValue.Value, true
	}
	return nil, false
}

// checkAtomicUsage reconciles the field's static size, the type's
// explicit `:N` suffix, and the referent's native fixed size, and
// validates static_requirements for external referents.
func checkAtomicUsage(program *ir.Ir, parent *ir.TypeDefinition, f *ir.Field, t *ir.TypeRef) diag.List {
	var errs diag.List
	if t.Atomic == nil || t.Atomic.Reference == nil || !t.Atomic.Reference.Resolved {
		return nil
	}
	ref := t.Atomic.Reference

	var fieldSize, suffixSize, nativeSize *big.Int
	if f.Physical != nil && f.Physical.Size != nil && f.Physical.Size.IsConstant() {
		fieldSize = f.Physical.Size.Type.Integer.ModularValue.Value
	}
	if t.SizeInBits != nil && t.SizeInBits.IsConstant() {
		suffixSize = t.SizeInBits.Type.Integer.ModularValue.Value
	}

	var enumDef *ir.TypeDefinition
	switch ref.CanonicalName.String() {
	case ir.PreludeFlag:
		nativeSize = big.NewInt(1)
	case ir.PreludeByte:
		nativeSize = big.NewInt(8)
	default:
		if node, ok := program.Find(ref.CanonicalName); ok {
			if def, ok := node.(*ir.TypeDefinition); ok {
				if def.DefinitionKind == ir.EnumKind {
					enumDef = def
				}
				if def.Structure != nil && def.Structure.FixedSizeBits != nil && def.Structure.FixedSizeBits.IsFinite() {
					nativeSize = def.Structure.FixedSizeBits.Value
				}
				if def.External != nil && def.External.FixedSizeBits != nil && def.External.FixedSizeBits.IsFinite() {
					nativeSize = def.External.FixedSizeBits.Value
				}
			}
		}
	}

	sizes := []*big.Int{}
	for _, s := range []*big.Int{fieldSize, suffixSize, nativeSize} {
		if s != nil {
			sizes = append(sizes, s)
		}
	}
	for i := 1; i < len(sizes); i++ {
		if sizes[i].Cmp(sizes[0]) != 0 {
			errs = append(errs, diag.Errorf(diag.StageConstraints, diag.CodeSizeMismatch, f.Loc(),
				"conflicting sizes for field %q: %s vs %s", f.Name.Name.String(), sizes[0], sizes[i]))
			return errs
		}
	}

	if enumDef != nil && len(sizes) > 0 {
		width := sizes[0]
		if width.Sign() < 1 || width.Cmp(big.NewInt(int64(enumDef.Enum.MaxBits))) > 0 {
			errs = append(errs, diag.Errorf(diag.StageConstraints, diag.CodeSizeMismatch, f.Loc(),
				"enum field %q has width %s outside [1, %d]", f.Name.Name.String(), width, enumDef.Enum.MaxBits))
		}
	}

	if node, ok := program.Find(ref.CanonicalName); ok {
		if def, ok := node.(*ir.TypeDefinition); ok && def.External != nil && def.External.StaticRequirements != nil {
			errs = append(errs, checkStaticRequirements(def.External.StaticRequirements, len(sizes) > 0)...)
		}
	}

	return errs
}

// checkStaticRequirements checks an external's static_requirements
// expression at this use site as it stands after type checking and
// bounds inference against the builtins' generic (unbounded) bounds:
// it reports CodeRequiresFailed only when the expression is the
// literal constant false, and accepts every other expression. The
// expression is not re-evaluated with $is_statically_sized /
// $static_size_in_bits bound to this use site's values, and
// staticallySized is not consulted.
func checkStaticRequirements(req *ir.Expression, staticallySized bool) diag.List {
	if req.Type.Kind != ir.BooleanExpr {
		return nil
	}
	if bc, ok := req.Variety.(*ir.BooleanConstant); ok && !bc.Value {
		return diag.List{diag.Errorf(diag.StageConstraints, diag.CodeRequiresFailed, req.Location,
			"static_requirements failed for this use site")}
	}
	return nil
}

// checkConstantTargetsInField walks every expression reachable from f
// (physical location, existence condition, read transform, recursing
// through function-call arguments) and validates each constant
// reference found against checkConstantReferenceTargets.
func checkConstantTargetsInField(program *ir.Ir, f *ir.Field) diag.List {
	var errs diag.List
	if f.Physical != nil {
		errs = append(errs, walkConstantTargets(program, f.Physical.Start)...)
		errs = append(errs, walkConstantTargets(program, f.Physical.Size)...)
	}
	errs = append(errs, walkConstantTargets(program, f.ExistenceCondition)...)
	errs = append(errs, walkConstantTargets(program, f.ReadTransform)...)
	return errs
}

func walkConstantTargets(program *ir.Ir, e *ir.Expression) diag.List {
	if e == nil {
		return nil
	}
	var errs diag.List
	if _, ok := e.Variety.(*ir.ConstantReferenceExpr); ok {
		errs = append(errs, checkConstantReferenceTargets(program, e)...)
	}
	if call, ok := e.Variety.(*ir.FunctionCall); ok {
		for _, arg := range call.Args {
			errs = append(errs, walkConstantTargets(program, arg)...)
		}
	}
	return errs
}

func checkConstantReferenceTargets(program *ir.Ir, e *ir.Expression) diag.List {
	var errs diag.List
	cr, ok := e.Variety.(*ir.ConstantReferenceExpr)
	if !ok || !cr.Reference.Resolved {
		return nil
	}
	node, ok := program.Find(cr.Reference.CanonicalName)
	if !ok {
		return nil
	}
	switch n := node.(type) {
	case *ir.EnumValue:
		return nil
	case *ir.Field:
		if n.IsVirtual() {
			return nil
		}
		return diag.List{diag.Errorf(diag.StageConstraints, diag.CodeConstantTarget, e.Location,
			"%s is not a compile-time constant", cr.Reference.CanonicalName.String()).
			WithNote(n.Loc(), "referenced physical field here")}
	}
	return errs
}
