package attributes

import (
	"math/big"

	"github.com/emboss-project/embossc/internal/diag"
	"github.com/emboss-project/embossc/internal/ir"
)

// applyInferred fills in the attributes and IR fields spec.md §4.E
// says are derived rather than written by the user: a module's
// default expected_back_ends, an enum's maximum_bits/is_signed, an
// external's AddressableUnit, a struct's fixed_size_in_bits, and a
// physical field's byte_order when its type is smaller than its
// parent's addressable unit.
func applyInferred(program *ir.Ir) diag.List {
	var errs diag.List
	for _, mod := range program.Modules {
		if _, ok := Find(mod.Attributes, "expected_back_ends", ""); !ok {
			s := "cpp"
			mod.Attributes = append(mod.Attributes, &ir.Attribute{
				Name: "expected_back_ends", Value: ir.AttributeValue{StringValue: &s},
			})
		}
		for _, def := range mod.Types {
			errs = append(errs, inferType(program, def)...)
		}
	}
	return errs
}

func inferType(program *ir.Ir, def *ir.TypeDefinition) diag.List {
	var errs diag.List
	switch def.DefinitionKind {
	case ir.ExternalKind:
		if def.External != nil {
			switch def.External.AddressableUnitSizeBits {
			case 8:
				def.AddressableUnit = ir.Byte
			default:
				def.AddressableUnit = ir.Bit
			}
		}

	case ir.EnumKind:
		if def.Enum != nil {
			if def.Enum.MaxBits == 0 {
				def.Enum.MaxBits = 64
			}
			if _, hasSigned := Find(def.Attributes, "is_signed", ""); !hasSigned {
				signed := false
				for _, v := range def.Enum.Values {
					if v.Value != nil && v.Value.Type.Kind == ir.IntegerExpr &&
						v.Value.Type.Integer.Minimum.Kind == ir.Finite && v.Value.Type.Integer.Minimum.Value.Sign() < 0 {
						signed = true
					}
				}
				def.Enum.IsSigned = signed
			}
		}

	case ir.StructureKind:
		if def.Structure != nil {
			errs = append(errs, inferStructSize(def)...)
			errs = append(errs, inferFieldByteOrders(program, def)...)
		}
	}

	for _, sub := range def.Subtypes {
		errs = append(errs, inferType(program, sub)...)
	}
	return errs
}

// inferFieldByteOrders gives every physical field whose referent's
// addressable unit is smaller than its parent's (a bits: field inside
// a struct:) a byte_order attribute, per spec.md §4.E: the inherited
// default if one applies (already backfilled by applyDefaults),
// otherwise Null if the field occupies exactly one addressable unit
// of its parent (so byte order cannot matter), otherwise an error.
func inferFieldByteOrders(program *ir.Ir, def *ir.TypeDefinition) diag.List {
	var errs diag.List
	for _, f := range def.Structure.Fields {
		if f.Physical == nil || f.Type == nil || f.Type.IsArray() || f.Type.Atomic == nil || f.Type.Atomic.Reference == nil {
			continue
		}
		if _, ok := Find(f.Attributes, "byte_order", ""); ok {
			continue
		}
		ref := f.Type.Atomic.Reference
		if !ref.Resolved {
			continue
		}
		fieldUnit := referentAddressableUnit(program, ref)
		if fieldUnit == ir.UnitUnknown || fieldUnit == def.AddressableUnit {
			continue
		}

		size, ok := constantValue(f.Physical.Size)
		if ok && size.Cmp(big.NewInt(1)) == 0 {
			s := "Null"
			f.Attributes = append(f.Attributes, &ir.Attribute{Name: "byte_order", Value: ir.AttributeValue{StringValue: &s}})
			continue
		}
		errs = append(errs, diag.Errorf(diag.StageAttributes, diag.CodeAttributeDefault, f.Name.Location,
			"field %q spans more than one addressable unit of a different-endianness type and has no byte_order",
			f.Name.Name.String()))
	}
	return errs
}

func referentAddressableUnit(program *ir.Ir, ref *ir.Reference) ir.AddressableUnit {
	switch ref.CanonicalName.String() {
	case ir.PreludeFlag, ir.PreludeUInt, ir.PreludeInt, ir.PreludeBcd:
		return ir.Bit
	case ir.PreludeByte:
		return ir.Byte
	}
	node, ok := program.Find(ref.CanonicalName)
	if !ok {
		return ir.UnitUnknown
	}
	if def, ok := node.(*ir.TypeDefinition); ok {
		return def.AddressableUnit
	}
	return ir.UnitUnknown
}

// inferStructSize computes fixed_size_in_bits as the maximum of every
// field's (start + size) when every physical field's location is a
// compile-time constant, per spec.md §4.E; it leaves the field
// unknown (and size reconciliation in internal/constraints
// unconstrained) when any field's location isn't yet a known constant.
func inferStructSize(def *ir.TypeDefinition) diag.List {
	var errs diag.List
	total := big.NewInt(0)
	allConstant := true
	for _, f := range def.Structure.Fields {
		if f.Physical == nil {
			continue
		}
		start, sok := constantValue(f.Physical.Start)
		size, zok := constantValue(f.Physical.Size)
		if !sok || !zok {
			allConstant = false
			continue
		}
		end := new(big.Int).Add(start, size)
		if end.Cmp(total) > 0 {
			total = end
		}
	}
	if !allConstant {
		return nil
	}
	computed := ir.FiniteBig(total)
	def.Structure.FixedSizeBits = &computed

	if existing, ok := Find(def.Attributes, "fixed_size_in_bits", ""); ok && existing.Value.Expression != nil {
		declared, ok := constantValue(existing.Value.Expression)
		if ok && declared.Cmp(total) != 0 {
			errs = append(errs, diag.Errorf(diag.StageAttributes, diag.CodeSizeMismatch, existing.Location,
				"fixed_size_in_bits = %s but the fields sum to %s", declared.String(), total.String()))
		}
	}
	return errs
}

func constantValue(e *ir.Expression) (*big.Int, bool) {
	if e == nil || e.Type.Kind != ir.IntegerExpr {
		return nil, false
	}
	it := e.Type.Integer
	if it.Modulus.Kind != ir.PosInf || !it.ModularValue.IsFinite() {
		return nil, false
	}
	return it.ModularValue.Value, true
}
