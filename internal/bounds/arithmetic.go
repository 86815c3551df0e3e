// Package bounds implements expression-bounds inference (spec.md
// §4.D): the modular-congruence and min/max metadata recorded on
// every integer ir.Expression, computed in post-order once typecheck
// has run. Grounded on
// original_source/compiler/front_end/expression_bounds.py, whose
// per-operator rules (including the multiplication modulus-splitting
// rule) are implemented here verbatim against ir.ExtendedInt instead
// of Python's mix of int and the sentinel strings "-infinity"/
// "infinity".
package bounds

import (
	"math/big"

	"github.com/emboss-project/embossc/internal/ir"
)

// Add returns a+b, with infinity absorbing any finite operand and
// NegInf+PosInf treated as the (arbitrary, but never reached by a
// well-formed program) PosInf -- Emboss never combines opposite
// infinities because every bound chain originates from either a
// concrete literal or an always-one-sided physical-type range.
func Add(a, b ir.ExtendedInt) ir.ExtendedInt {
	if a.Kind == ir.NegInf || b.Kind == ir.NegInf {
		if a.Kind == ir.PosInf || b.Kind == ir.PosInf {
			return ir.PosInfinity()
		}
		return ir.NegInfinity()
	}
	if a.Kind == ir.PosInf || b.Kind == ir.PosInf {
		return ir.PosInfinity()
	}
	return ir.FiniteBig(new(big.Int).Add(a.Value, b.Value))
}

// Negate returns -a, swapping the two infinities.
func Negate(a ir.ExtendedInt) ir.ExtendedInt {
	switch a.Kind {
	case ir.NegInf:
		return ir.PosInfinity()
	case ir.PosInf:
		return ir.NegInfinity()
	default:
		return ir.FiniteBig(new(big.Int).Neg(a.Value))
	}
}

// Sub returns a-b.
func Sub(a, b ir.ExtendedInt) ir.ExtendedInt {
	return Add(a, Negate(b))
}

// Mul returns a*b, with "0 * infinity = 0" per spec.md §4.D.
func Mul(a, b ir.ExtendedInt) ir.ExtendedInt {
	if a.Kind == ir.Finite && a.Value.Sign() == 0 {
		return ir.FiniteInt(0)
	}
	if b.Kind == ir.Finite && b.Value.Sign() == 0 {
		return ir.FiniteInt(0)
	}
	if a.Kind != ir.Finite || b.Kind != ir.Finite {
		if sign(a)*sign(b) < 0 {
			return ir.NegInfinity()
		}
		return ir.PosInfinity()
	}
	return ir.FiniteBig(new(big.Int).Mul(a.Value, b.Value))
}

func sign(a ir.ExtendedInt) int {
	switch a.Kind {
	case ir.NegInf:
		return -1
	case ir.PosInf:
		return 1
	default:
		return a.Value.Sign()
	}
}

// Min and Max are total order operations over ExtendedInt.
func Min(a, b ir.ExtendedInt) ir.ExtendedInt {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

func Max(a, b ir.ExtendedInt) ir.ExtendedInt {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// Gcd returns gcd(a, b), with gcd(infinity, x) = x per spec.md §4.D
// (an unconstrained modulus combines with any other modulus to yield
// that other modulus unchanged).
func Gcd(a, b ir.ExtendedInt) ir.ExtendedInt {
	if a.Kind != ir.Finite {
		return b
	}
	if b.Kind != ir.Finite {
		return a
	}
	av, bv := new(big.Int).Abs(a.Value), new(big.Int).Abs(b.Value)
	if av.Sign() == 0 {
		return ir.FiniteBig(bv)
	}
	if bv.Sign() == 0 {
		return ir.FiniteBig(av)
	}
	return ir.FiniteBig(new(big.Int).GCD(nil, nil, av, bv))
}

// Mod returns v mod m, always in [0, m), for finite v and finite
// positive m; if m is not finite, v passes through unreduced (there is
// no modulus to reduce against).
func Mod(v, m ir.ExtendedInt) ir.ExtendedInt {
	if v.Kind != ir.Finite || m.Kind != ir.Finite || m.Value.Sign() == 0 {
		return v
	}
	return ir.FiniteBig(new(big.Int).Mod(v.Value, m.Value))
}

// IsConstant reports whether t's modulus is PosInf, the encoding
// spec.md §3 uses for "this expression has exactly one possible
// value" (ModularValue carries it).
func IsConstant(t ir.IntegerType) bool {
	return t.Modulus.Kind == ir.PosInf
}

// Constant builds the IntegerType for a known, single value v.
func Constant(v ir.ExtendedInt) ir.IntegerType {
	return ir.IntegerType{Modulus: ir.PosInfinity(), ModularValue: v, Minimum: v, Maximum: v}
}
