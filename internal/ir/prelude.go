package ir

// PreludeNames are the built-in primitive type names every module may
// reference unqualified, per spec.md §3 ("Externals are the mechanism
// by which the prelude's primitives ... are declared").
const (
	PreludeUInt = "UInt"
	PreludeInt  = "Int"
	PreludeBcd  = "Bcd"
	PreludeFlag = "Flag"
	PreludeByte = "Byte"
)

// NewPrelude builds the synthetic prelude Module: External type
// definitions for UInt/Int/Bcd/Flag/Byte, each parameterized on an
// explicit `:N` bit-size suffix resolved by field/type size
// reconciliation (internal/constraints) rather than carrying a fixed
// size of their own, except Flag and Byte which are fixed.
func NewPrelude() *Module {
	def := func(name string, unitSizeBits int, isInteger bool, fixed *ExtendedInt) *TypeDefinition {
		return &TypeDefinition{
			Name: NameDefinition{
				Name:     CanonicalName{ModuleFile: "", ObjectPath: []string{name}},
				Location: SyntheticLocation(),
			},
			AddressableUnit: Bit,
			DefinitionKind:  ExternalKind,
			External: &External{
				AddressableUnitSizeBits: unitSizeBits,
				IsInteger:               isInteger,
				FixedSizeBits:           fixed,
			},
		}
	}
	oneBit := FiniteInt(1)
	eightBits := FiniteInt(8)
	return &Module{
		SourceFileName: "",
		Types: []*TypeDefinition{
			def(PreludeUInt, 1, true, nil),
			def(PreludeInt, 1, true, nil),
			def(PreludeBcd, 1, true, nil),
			def(PreludeFlag, 1, false, &oneBit),
			def(PreludeByte, 8, false, &eightBits),
		},
	}
}

// IsPreludeName reports whether name is one of the built-in primitive
// type names.
func IsPreludeName(name string) bool {
	switch name {
	case PreludeUInt, PreludeInt, PreludeBcd, PreludeFlag, PreludeByte:
		return true
	default:
		return false
	}
}
