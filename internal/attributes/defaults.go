package attributes

import "github.com/emboss-project/embossc/internal/ir"

// applyDefaults walks the module/type/field tree carrying a defaults
// map that is extended (copy-on-write, never mutated in place) as
// is_default attributes are entered, and consulted to backfill any
// attribute a descendant lacks, per spec.md §4.E: "entering a scope,
// any is_default attributes replace entries in the map for
// descendants only. When a descendant lacks an attribute that has a
// default, a copy (with is_default cleared) is inserted."
func applyDefaults(program *ir.Ir) {
	for _, mod := range program.Modules {
		defaults := extendDefaults(nil, mod.Attributes)
		backfill(&mod.Attributes, defaults)
		for _, def := range mod.Types {
			applyDefaultsToType(def, defaults)
		}
	}
}

func applyDefaultsToType(def *ir.TypeDefinition, inherited map[string]*ir.Attribute) {
	defaults := extendDefaults(inherited, def.Attributes)
	backfill(&def.Attributes, defaults)

	switch def.DefinitionKind {
	case ir.StructureKind:
		if def.Structure != nil {
			for _, f := range def.Structure.Fields {
				fieldDefaults := extendDefaults(defaults, f.Attributes)
				backfill(&f.Attributes, fieldDefaults)
			}
		}
	case ir.EnumKind:
		if def.Enum != nil {
			for _, v := range def.Enum.Values {
				valueDefaults := extendDefaults(defaults, v.Attributes)
				backfill(&v.Attributes, valueDefaults)
			}
		}
	}

	for _, sub := range def.Subtypes {
		applyDefaultsToType(sub, defaults)
	}
}

func extendDefaults(inherited map[string]*ir.Attribute, own []*ir.Attribute) map[string]*ir.Attribute {
	out := make(map[string]*ir.Attribute, len(inherited)+len(own))
	for k, v := range inherited {
		out[k] = v
	}
	for _, a := range own {
		if a.IsDefault {
			out[registryKey(a.Name, a.BackEnd)] = a
		}
	}
	return out
}

func backfill(attrs *[]*ir.Attribute, defaults map[string]*ir.Attribute) {
	for _, def := range defaults {
		if _, ok := Find(*attrs, def.Name, def.BackEnd); ok {
			continue
		}
		clone := *def
		clone.IsDefault = false
		*attrs = append(*attrs, &clone)
	}
}
