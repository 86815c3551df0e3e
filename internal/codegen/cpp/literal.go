package cpp

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/emboss-project/embossc/internal/ir"
)

var (
	minInt64 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 63))
	maxInt64 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 63), big.NewInt(1))
)

// cppIntegerTypeForRange returns the narrowest of int32_t, uint32_t,
// int64_t, uint64_t that holds every value in [min, max], per
// spec.md §4.H item 3 and _cpp_integer_type_for_range.
func cppIntegerTypeForRange(min, max *big.Int) (string, bool) {
	for _, size := range []uint{32, 64} {
		lo := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), size-1))
		hi := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), size-1), big.NewInt(1))
		if min.Cmp(lo) >= 0 && max.Cmp(hi) <= 0 {
			return fmt.Sprintf("::std::int%d_t", size), true
		}
		uhi := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), size), big.NewInt(1))
		if min.Sign() >= 0 && max.Cmp(uhi) <= 0 {
			return fmt.Sprintf("::std::uint%d_t", size), true
		}
	}
	return "", false
}

// cppIntegerTypeForEnum returns the smallest of {u}int{8,16,32,64}_t
// that holds maxBits bits with the given sign, per
// _cpp_integer_type_for_enum.
func cppIntegerTypeForEnum(maxBits int, signed bool) string {
	for _, size := range []int{8, 16, 32, 64} {
		if maxBits <= size {
			if signed {
				return fmt.Sprintf("::std::int%d_t", size)
			}
			return fmt.Sprintf("::std::uint%d_t", size)
		}
	}
	return "::std::int64_t"
}

// renderInteger renders value as a C++ integer literal, narrowing-cast
// to the smallest type that holds it, per spec.md §4.H item 3,
// including the -2^63 special case.
func renderInteger(value *big.Int) string {
	typ, ok := cppIntegerTypeForRange(value, value)
	if !ok {
		typ = "::std::uint64_t"
	}
	if value.Cmp(minInt64) == 0 {
		return fmt.Sprintf("static_cast</**/%s>(-%sLL - 1)", typ, maxInt64.String())
	}
	suffix := ""
	if isUnsignedType(typ) {
		suffix = "U"
	}
	return fmt.Sprintf("static_cast</**/%s>(%s%sLL)", typ, value.String(), suffix)
}

func isUnsignedType(typ string) bool {
	return strings.Contains(typ, "uint")
}

// maybeType wraps a C++ type in the runtime's Maybe<T> template, per
// _maybe_type.
func maybeType(wrapped string) string {
	return fmt.Sprintf("%s::Maybe</**/%s>", supportNamespace, wrapped)
}

// renderIntegerForExpression renders a compile-time integer constant
// as a Maybe<T>-wrapped expression value, per
// _render_integer_for_expression.
func renderIntegerForExpression(value *big.Int) string {
	typ, ok := cppIntegerTypeForRange(value, value)
	if !ok {
		typ = "::std::uint64_t"
	}
	return fmt.Sprintf("%s(%s)", maybeType(typ), renderInteger(value))
}

// cppBasicType returns the unwrapped C++ type (int32_t, bool, or an
// enum's qualified name) for an ExpressionType, per
// _cpp_basic_type_for_expression_type.
func cppBasicType(t ir.ExpressionType, qualifiedEnumName func(ir.CanonicalName) string) string {
	switch t.Kind {
	case ir.IntegerExpr:
		lo, hi := t.Integer.Minimum, t.Integer.Maximum
		if lo.IsFinite() && hi.IsFinite() {
			if typ, ok := cppIntegerTypeForRange(lo.Value, hi.Value); ok {
				return typ
			}
		}
		return "::std::int64_t"
	case ir.BooleanExpr:
		return "bool"
	case ir.EnumerationExpr:
		if qualifiedEnumName != nil {
			return qualifiedEnumName(t.EnumName)
		}
		return t.EnumName.ObjectPath[len(t.EnumName.ObjectPath)-1]
	default:
		return "void"
	}
}
