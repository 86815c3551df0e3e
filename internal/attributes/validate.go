package attributes

import (
	"math/big"
	"strings"

	"github.com/emboss-project/embossc/internal/diag"
	"github.com/emboss-project/embossc/internal/ir"
)

var bigOne = big.NewInt(1)

// Normalize runs the full attribute pass: default inheritance,
// inferred attributes, then validation, in that order (spec.md §4.E).
func Normalize(program *ir.Ir) diag.List {
	applyDefaults(program)
	var errs diag.List
	errs = append(errs, applyInferred(program)...)
	errs = append(errs, validate(program)...)
	return errs
}

func validate(program *ir.Ir) diag.List {
	var errs diag.List
	for _, mod := range program.Modules {
		backEnds := expectedBackEnds(mod.Attributes)
		errs = append(errs, validateAttrs(mod.Attributes, ScopeModule, backEnds)...)
		for _, def := range mod.Types {
			errs = append(errs, validateType(def, backEnds)...)
		}
	}
	return errs
}

func validateType(def *ir.TypeDefinition, backEnds map[string]bool) diag.List {
	var errs diag.List
	scope := scopeForType(def)
	errs = append(errs, validateAttrs(def.Attributes, scope, backEnds)...)

	switch def.DefinitionKind {
	case ir.StructureKind:
		if def.Structure != nil {
			for _, f := range def.Structure.Fields {
				fs := ScopePhysicalField
				if f.IsVirtual() {
					fs = ScopeVirtualField
				}
				errs = append(errs, validateAttrs(f.Attributes, fs, backEnds)...)
				if bo, ok := Find(f.Attributes, "byte_order", ""); ok && bo.Value.IsString() && *bo.Value.StringValue == "Null" && f.Physical != nil {
					if size, ok := constantValue(f.Physical.Size); ok && size.Sign() != 0 && size.Cmp(bigOne) != 0 {
						errs = append(errs, diag.Errorf(diag.StageAttributes, diag.CodeAttributeValue, bo.Location,
							"byte_order = Null requires the field be exactly one addressable unit long"))
					}
				}
			}
		}
	case ir.EnumKind:
		if def.Enum != nil {
			for _, v := range def.Enum.Values {
				errs = append(errs, validateAttrs(v.Attributes, ScopeEnumValue, backEnds)...)
			}
		}
	}

	for _, sub := range def.Subtypes {
		errs = append(errs, validateType(sub, backEnds)...)
	}
	return errs
}

func expectedBackEnds(attrs []*ir.Attribute) map[string]bool {
	out := map[string]bool{}
	if a, ok := Find(attrs, "expected_back_ends", ""); ok && a.Value.StringValue != nil {
		for _, be := range strings.Split(*a.Value.StringValue, ",") {
			out[strings.TrimSpace(be)] = true
		}
	}
	return out
}

func validateAttrs(attrs []*ir.Attribute, scope Scope, backEnds map[string]bool) diag.List {
	var errs diag.List
	seen := map[string]*ir.Attribute{}
	for _, a := range attrs {
		key := registryKey(a.Name, a.BackEnd)
		if prev, dup := seen[key]; dup {
			errs = append(errs, diag.Errorf(diag.StageAttributes, diag.CodeAttributeDuplicate, a.Location,
				"attribute %q is specified more than once", a.Name).
				WithNote(prev.Location, "previous specification here"))
			continue
		}
		seen[key] = a

		if a.BackEnd != "" && !backEnds[a.BackEnd] {
			errs = append(errs, diag.Errorf(diag.StageAttributes, diag.CodeAttributeBackEnd, a.Location,
				"back end %q is not in this module's expected_back_ends", a.BackEnd))
		}

		sp, ok := lookupSpec(a.Name, a.BackEnd)
		if !ok {
			errs = append(errs, diag.Errorf(diag.StageAttributes, diag.CodeAttributeUnknown, a.Location,
				"unknown attribute %q", a.Name))
			continue
		}
		if !sp.scopes[scope] {
			errs = append(errs, diag.Errorf(diag.StageAttributes, diag.CodeAttributeType, a.Location,
				"attribute %q is not allowed here", a.Name))
			continue
		}
		if a.IsDefault && !sp.defaultable {
			errs = append(errs, diag.Errorf(diag.StageAttributes, diag.CodeAttributeDefault, a.Location,
				"attribute %q cannot be marked default", a.Name))
		}
		errs = append(errs, validateValue(a, sp)...)
	}
	return errs
}

func validateValue(a *ir.Attribute, sp spec) diag.List {
	switch sp.value {
	case ValueString:
		if !a.Value.IsString() {
			return diag.List{diag.Errorf(diag.StageAttributes, diag.CodeAttributeType, a.Location,
				"attribute %q must be a string", a.Name)}
		}
	case ValueInteger:
		if a.Value.Expression == nil || a.Value.Expression.Type.Kind != ir.IntegerExpr {
			return diag.List{diag.Errorf(diag.StageAttributes, diag.CodeAttributeType, a.Location,
				"attribute %q must be an integer", a.Name)}
		}
	case ValueBoolean:
		if a.Value.Expression == nil || a.Value.Expression.Type.Kind != ir.BooleanExpr {
			return diag.List{diag.Errorf(diag.StageAttributes, diag.CodeAttributeType, a.Location,
				"attribute %q must be a boolean", a.Name)}
		}
	case ValueEnumByteOrder:
		if !a.Value.IsString() {
			return diag.List{diag.Errorf(diag.StageAttributes, diag.CodeAttributeType, a.Location,
				"attribute %q must be a string", a.Name)}
		}
		switch *a.Value.StringValue {
		case "BigEndian", "LittleEndian", "Null":
		default:
			return diag.List{diag.Errorf(diag.StageAttributes, diag.CodeAttributeValue, a.Location,
				"byte_order must be BigEndian, LittleEndian, or Null, got %q", *a.Value.StringValue)}
		}
	case ValueEnumTextOutput:
		if !a.Value.IsString() {
			return diag.List{diag.Errorf(diag.StageAttributes, diag.CodeAttributeType, a.Location,
				"attribute %q must be a string", a.Name)}
		}
		switch *a.Value.StringValue {
		case "Emit", "Skip":
		default:
			return diag.List{diag.Errorf(diag.StageAttributes, diag.CodeAttributeValue, a.Location,
				"text_output must be Emit or Skip, got %q", *a.Value.StringValue)}
		}
	}
	return nil
}
