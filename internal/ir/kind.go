package ir

// Kind identifies the dynamic type of a Node without a type switch.
// internal/traverse uses Kind exclusively so that it can precompute,
// for any (current, target) pair of kinds, whether target can appear
// somewhere below current -- this is what lets the generic walker
// prune subtrees it knows cannot contain a match.
type Kind int

const (
	KindInvalid Kind = iota
	KindIr
	KindModule
	KindImport
	KindTypeDefinition
	KindStructure
	KindEnum
	KindExternal
	KindField
	KindFieldLocation
	KindEnumValue
	KindRuntimeParameter
	KindParameterType
	KindTypeRef
	KindAtomicType
	KindArrayType
	KindExpression
	KindAttribute
	KindReference
	KindFieldReference
	KindWriteMethod
	numKinds
)

var kindNames = map[Kind]string{
	KindInvalid:          "Invalid",
	KindIr:                "Ir",
	KindModule:            "Module",
	KindImport:            "Import",
	KindTypeDefinition:    "TypeDefinition",
	KindStructure:         "Structure",
	KindEnum:              "Enum",
	KindExternal:          "External",
	KindField:             "Field",
	KindFieldLocation:     "FieldLocation",
	KindEnumValue:         "EnumValue",
	KindRuntimeParameter:  "RuntimeParameter",
	KindParameterType:     "ParameterType",
	KindTypeRef:           "TypeRef",
	KindAtomicType:        "AtomicType",
	KindArrayType:         "ArrayType",
	KindExpression:        "Expression",
	KindAttribute:         "Attribute",
	KindReference:         "Reference",
	KindFieldReference:    "FieldReference",
	KindWriteMethod:       "WriteMethod",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Node is implemented by every IR node type. Kind lets traversal
// dispatch without reflection; Loc is used to anchor diagnostics.
type Node interface {
	Kind() Kind
	Loc() Location
}
