package constraints

import (
	"math/big"

	"github.com/emboss-project/embossc/internal/diag"
	"github.com/emboss-project/embossc/internal/ir"
)

var (
	signedMin = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 63))
	signedMax = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 63), big.NewInt(1))
	unsignedMax = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 64), big.NewInt(1))
)

// check64BitSafety validates a FieldLocation's start/size expressions.
func check64BitSafety(loc *ir.FieldLocation) diag.List {
	if loc == nil {
		return nil
	}
	var errs diag.List
	errs = append(errs, check64BitSafetyExpr(loc.Start)...)
	errs = append(errs, check64BitSafetyExpr(loc.Size)...)
	return errs
}

// check64BitSafetyExpr implements spec.md §4.F's 64-bit safety check:
// every non-constant integer subexpression of e (e included) must fit
// in [-2^63, 2^63-1] or in [0, 2^64-1]; if the whole subtree cannot
// agree on one of those two ranges, report an error with a note per
// offending node. Constant subexpressions are exempt (only their
// final folded value, which this same check applies to at whatever
// non-constant ancestor consumes it, must fit).
func check64BitSafetyExpr(e *ir.Expression) diag.List {
	if e == nil {
		return nil
	}
	var offenders []*ir.Expression
	fitsSigned, fitsUnsigned := true, true
	collectNonConstantIntegers(e, &offenders)
	for _, o := range offenders {
		s, u := fitsRange(o.Type.Integer)
		fitsSigned = fitsSigned && s
		fitsUnsigned = fitsUnsigned && u
	}
	if len(offenders) == 0 || fitsSigned || fitsUnsigned {
		return nil
	}
	d := diag.Errorf(diag.StageConstraints, diag.CodeIntegerOverflow, e.Location,
		"either all arguments and the result must fit in 64-bit unsigned, or all in 64-bit signed")
	for _, o := range offenders {
		d = d.WithNote(o.Location, "this subexpression has range [%s, %s]", o.Type.Integer.Minimum, o.Type.Integer.Maximum)
	}
	return diag.List{d}
}

func collectNonConstantIntegers(e *ir.Expression, out *[]*ir.Expression) {
	if e == nil {
		return
	}
	if e.Type.Kind == ir.IntegerExpr && !e.IsConstant() {
		*out = append(*out, e)
	}
	if call, ok := e.Variety.(*ir.FunctionCall); ok {
		for _, arg := range call.Args {
			collectNonConstantIntegers(arg, out)
		}
	}
}

func fitsRange(it ir.IntegerType) (signed, unsigned bool) {
	if !it.Minimum.IsFinite() || !it.Maximum.IsFinite() {
		return false, false
	}
	signed = it.Minimum.Value.Cmp(signedMin) >= 0 && it.Maximum.Value.Cmp(signedMax) <= 0
	unsigned = it.Minimum.Value.Sign() >= 0 && it.Maximum.Value.Cmp(unsignedMax) <= 0
	return signed, unsigned
}
