package cpp

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/emboss-project/embossc/internal/ir"
)

// generateEnum emits an `enum class` declaration plus, when enabled,
// its name/value traits tables, per spec.md §4.H item 4 and
// _generate_enum_definition.
func generateEnum(def *ir.TypeDefinition, opts Options) string {
	e := def.Enum
	enumName := unqualifiedName(def.Name.Name)
	underlying := cppIntegerTypeForEnum(e.MaxBits, e.IsSigned)

	var values strings.Builder
	var fromName, toName, isKnown []string
	seen := make(map[string]bool)

	for _, v := range e.Values {
		numeric, ok := constantIntValue(v.Value)
		if !ok {
			continue
		}
		names := enumCaseNames(v.Name.Name.ObjectPath[len(v.Name.Name.ObjectPath)-1], v.Attributes)
		for _, n := range names {
			values.WriteString(fmt.Sprintf("  %s = %s,\n", n, renderInteger(numeric)))
			if !opts.EmitEnumTraits {
				continue
			}
			fromName = append(fromName, fmt.Sprintf(
				"    if (name == \"%s\") { *result = %s::%s; return true; }\n", v.Name.Name.ObjectPath[len(v.Name.Name.ObjectPath)-1], enumName, n))

			key := numeric.String()
			if !seen[key] {
				seen[key] = true
				toName = append(toName, fmt.Sprintf(
					"    case %s::%s: *name = \"%s\"; return true;\n", enumName, n, v.Name.Name.ObjectPath[len(v.Name.Name.ObjectPath)-1]))
				isKnown = append(isKnown, fmt.Sprintf("    case %s::%s: return true;\n", enumName, n))
			}
		}
	}

	var out strings.Builder
	fmt.Fprintf(&out, "enum class %s : %s {\n%s};\n", enumName, underlying, values.String())

	if opts.EmitEnumTraits {
		fmt.Fprintf(&out, `
inline bool TryToGetEnumFromName(const char* name, %s *result) {
%s
  return false;
}

inline bool TryToGetNameFromEnum(%s value, const char** name) {
  switch (value) {
%s
    default: return false;
  }
}

inline bool EnumIsKnown(%s value) {
  switch (value) {
%s
    default: return false;
  }
}
`, enumName, strings.Join(fromName, ""), enumName, strings.Join(toName, ""), enumName, strings.Join(isKnown, ""))
	}

	return out.String()
}

func constantIntValue(e *ir.Expression) (*big.Int, bool) {
	if e == nil || e.Type.Kind != ir.IntegerExpr {
		return nil, false
	}
	if e.Type.Integer.Modulus.Kind != ir.PosInf || !e.Type.Integer.ModularValue.IsFinite() {
		return nil, false
	}
	return e.Type.Integer.ModularValue.Value, true
}

func unqualifiedName(name ir.CanonicalName) string {
	return name.ObjectPath[len(name.ObjectPath)-1]
}
