package ir

// AddressableUnit is the granularity at which a type's bytes (or bits)
// are addressed: BIT for `bits` types, BYTE for `struct` types and
// everything else.
type AddressableUnit int

const (
	UnitUnknown AddressableUnit = iota
	Bit
	Byte
)

// TypeDefinitionKind is the oneof tag distinguishing the three type
// shells spec.md §3 describes.
type TypeDefinitionKind int

const (
	NoTypeKind TypeDefinitionKind = iota
	StructureKind
	EnumKind
	ExternalKind
)

// TypeDefinition is the shell shared by struct, enum, and external
// type definitions: name, attributes, docs, nested (inline) subtypes,
// addressable unit, and runtime parameters.
type TypeDefinition struct {
	Name            NameDefinition      `json:"name"`
	Attributes      []*Attribute        `json:"attribute,omitempty"`
	Documentation   []string            `json:"documentation,omitempty"`
	Subtypes        []*TypeDefinition   `json:"subtype,omitempty"`
	AddressableUnit AddressableUnit     `json:"addressable_unit"`
	Parameters      []*RuntimeParameter `json:"runtime_parameter,omitempty"`

	DefinitionKind TypeDefinitionKind `json:"definition_kind"`
	Structure      *Structure         `json:"structure,omitempty"`
	Enum           *Enum              `json:"enum,omitempty"`
	External       *External          `json:"external,omitempty"`
}

func (t *TypeDefinition) Kind() Kind   { return KindTypeDefinition }
func (t *TypeDefinition) Loc() Location { return t.Name.Location }

// Structure is an ordered list of fields, plus a dependency-ordered
// permutation of field indexes used for deterministic text-format
// serialization (a field that existence-conditions or locates itself
// on another field must be emitted after that field).
type Structure struct {
	Fields        []*Field     `json:"field"`
	TextOrder     []int        `json:"text_order,omitempty"` // permutation of indexes into Fields
	FixedSizeBits *ExtendedInt `json:"fixed_size_in_bits,omitempty"`
}

func (s *Structure) Kind() Kind   { return KindStructure }
func (s *Structure) Loc() Location {
	if len(s.Fields) > 0 {
		return s.Fields[0].Loc()
	}
	return Location{}
}

// EnumValue is one `NAME = expr` entry in an enum.
type EnumValue struct {
	Name          NameDefinition `json:"name"`
	Value         *Expression    `json:"value"`
	Documentation []string       `json:"documentation,omitempty"`
	Attributes    []*Attribute   `json:"attribute,omitempty"`
}

func (e *EnumValue) Kind() Kind    { return KindEnumValue }
func (e *EnumValue) Loc() Location { return e.Name.Location }

// Enum is an ordered list of enum values.
type Enum struct {
	Values   []*EnumValue `json:"value"`
	MaxBits  int          `json:"maximum_bits"`
	IsSigned bool         `json:"is_signed,omitempty"`
}

func (e *Enum) Kind() Kind    { return KindEnum }
func (e *Enum) Loc() Location { return Location{} }

// External is an opaque type whose implementation lives in the C++
// runtime support library; only its attributes (addressable_unit_size,
// fixed_size_in_bits, is_integer, static_requirements) describe it.
// This is the mechanism by which the prelude's primitives (UInt, Int,
// Bcd, Flag, Byte) are declared.
type External struct {
	AddressableUnitSizeBits int          `json:"addressable_unit_size"` // 1 or 8
	FixedSizeBits           *ExtendedInt `json:"fixed_size_in_bits,omitempty"`
	IsInteger               bool         `json:"is_integer,omitempty"`
	StaticRequirements      *Expression  `json:"static_requirements,omitempty"`
}

func (e *External) Kind() Kind    { return KindExternal }
func (e *External) Loc() Location { return Location{} }

// RuntimeParameter is a value supplied when constructing a view of a
// parameterized type, usable in field locations and existence
// conditions.
type RuntimeParameter struct {
	Name     NameDefinition `json:"name"`
	Type     ParameterType  `json:"type"`
	Location Location       `json:"location"`
}

func (p *RuntimeParameter) Kind() Kind    { return KindRuntimeParameter }
func (p *RuntimeParameter) Loc() Location { return p.Location }

// ParameterType restricts a runtime parameter to integer (via a
// physical-type alias) or enumeration (without an explicit bit size).
type ParameterType struct {
	IsInteger bool        `json:"is_integer,omitempty"`
	EnumType  *Reference  `json:"enum_type,omitempty"`  // set when not IsInteger
	Physical  *AtomicType `json:"physical_type,omitempty"` // the integer physical-type alias, when IsInteger
}

func (p ParameterType) Kind() Kind    { return KindParameterType }
func (p ParameterType) Loc() Location { return Location{} }

// AtomicType is a reference to a (possibly parameterized) type.
type AtomicType struct {
	Reference        *Reference    `json:"reference"`
	RuntimeArguments []*Expression `json:"runtime_argument,omitempty"`
	Location         Location      `json:"location"`
}

func (a *AtomicType) Kind() Kind    { return KindAtomicType }
func (a *AtomicType) Loc() Location { return a.Location }

// ArraySize is either a constant element count or "automatic", meaning
// "use the containing field's size" (legal only for the outermost
// dimension).
type ArraySize struct {
	Automatic bool        `json:"is_automatic,omitempty"`
	Constant  *Expression `json:"element_count,omitempty"`
}

// ArrayType is an element type plus a size.
type ArrayType struct {
	Element  *TypeRef  `json:"base_type"`
	Size     ArraySize `json:"size"`
	Location Location  `json:"location"`
}

func (a *ArrayType) Kind() Kind    { return KindArrayType }
func (a *ArrayType) Loc() Location { return a.Location }

// TypeRef is either atomic or an array, with an optional explicit
// `size_in_bits` override. Per the open question recorded in §9 of
// SPEC_FULL.md, an explicit size_in_bits on a type whose referent is
// not natively fixed-size is silently ignored -- this repo preserves
// that behavior rather than guessing at new semantics for it.
type TypeRef struct {
	Atomic     *AtomicType `json:"atomic_type,omitempty"`
	Array      *ArrayType  `json:"array_type,omitempty"`
	SizeInBits *Expression `json:"size_in_bits,omitempty"`
	Location   Location    `json:"location"`
}

func (t *TypeRef) Kind() Kind    { return KindTypeRef }
func (t *TypeRef) Loc() Location { return t.Location }

// IsArray reports whether t names an array type.
func (t *TypeRef) IsArray() bool { return t.Array != nil }
