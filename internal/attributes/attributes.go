// Package attributes implements attribute defaulting, inheritance, and
// validation (spec.md §4.E), grounded on
// original_source/compiler/front_end/attribute_checker.py and the
// teacher's internal/types package's use of a threaded "defaults
// map" style scope (internal/traverse.Params, generalized the same
// way incidental actions are).
package attributes

import "github.com/emboss-project/embossc/internal/ir"

// Scope identifies where an attribute may legally appear.
type Scope int

const (
	ScopeModule Scope = iota
	ScopeStruct
	ScopeBits
	ScopeEnum
	ScopeEnumValue
	ScopeExternal
	ScopePhysicalField
	ScopeVirtualField
)

// ValueKind restricts an attribute's declared value shape.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueInteger
	ValueBoolean
	ValueEnumByteOrder
	ValueEnumTextOutput
)

// spec describes one recognized attribute: its allowed scopes, value
// shape, and whether it may carry is_default.
type spec struct {
	name          string
	backEnd       string // "" for back-end-agnostic
	value         ValueKind
	scopes        map[Scope]bool
	defaultable   bool
}

var registry = buildRegistry()

func buildRegistry() map[string]spec {
	scopes := func(s ...Scope) map[Scope]bool {
		m := make(map[Scope]bool, len(s))
		for _, x := range s {
			m[x] = true
		}
		return m
	}
	specs := []spec{
		{name: "byte_order", value: ValueEnumByteOrder, defaultable: true,
			scopes: scopes(ScopeModule, ScopeStruct, ScopePhysicalField)},
		{name: "expected_back_ends", value: ValueString,
			scopes: scopes(ScopeModule)},
		{name: "fixed_size_in_bits", value: ValueInteger,
			scopes: scopes(ScopeStruct, ScopeBits, ScopeExternal)},
		{name: "requires", value: ValueBoolean,
			scopes: scopes(ScopeStruct, ScopeBits, ScopePhysicalField, ScopeVirtualField)},
		{name: "maximum_bits", value: ValueInteger,
			scopes: scopes(ScopeEnum)},
		{name: "is_signed", value: ValueBoolean,
			scopes: scopes(ScopeEnum)},
		{name: "addressable_unit_size", value: ValueInteger,
			scopes: scopes(ScopeExternal)},
		{name: "is_integer", value: ValueBoolean,
			scopes: scopes(ScopeExternal)},
		{name: "static_requirements", value: ValueBoolean,
			scopes: scopes(ScopeExternal)},
		{name: "text_output", value: ValueEnumTextOutput,
			scopes: scopes(ScopePhysicalField, ScopeVirtualField)},
		{name: "namespace", backEnd: "cpp", value: ValueString,
			scopes: scopes(ScopeModule)},
		{name: "enum_case", backEnd: "cpp", value: ValueString, defaultable: true,
			scopes: scopes(ScopeModule, ScopeStruct, ScopeBits, ScopeEnum, ScopeEnumValue)},
	}
	m := make(map[string]spec, len(specs))
	for _, s := range specs {
		m[registryKey(s.name, s.backEnd)] = s
	}
	return m
}

func registryKey(name, backEnd string) string { return backEnd + ":" + name }

func lookupSpec(name, backEnd string) (spec, bool) {
	s, ok := registry[registryKey(name, backEnd)]
	return s, ok
}

// Find returns the first attribute matching name with either the
// given back end or no back end (universal), preferring an exact
// back-end match.
func Find(attrs []*ir.Attribute, name, backEnd string) (*ir.Attribute, bool) {
	var universal *ir.Attribute
	for _, a := range attrs {
		if a.Name != name {
			continue
		}
		if a.BackEnd == backEnd {
			return a, true
		}
		if a.BackEnd == "" && universal == nil {
			universal = a
		}
	}
	if universal != nil {
		return universal, true
	}
	return nil, false
}

func scopeForType(def *ir.TypeDefinition) Scope {
	switch def.DefinitionKind {
	case ir.EnumKind:
		return ScopeEnum
	case ir.ExternalKind:
		return ScopeExternal
	default:
		if def.AddressableUnit == ir.Bit {
			return ScopeBits
		}
		return ScopeStruct
	}
}
