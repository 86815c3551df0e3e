package bounds_test

import (
	"math/big"
	"testing"

	"github.com/emboss-project/embossc/internal/bounds"
	"github.com/emboss-project/embossc/internal/ir"
)

func TestGcdWithInfinityReturnsOther(t *testing.T) {
	got := bounds.Gcd(ir.PosInfinity(), ir.FiniteInt(6))
	if !got.Equal(ir.FiniteInt(6)) {
		t.Errorf("got %s, want 6", got)
	}
}

func TestMulZeroTimesInfinityIsZero(t *testing.T) {
	got := bounds.Mul(ir.FiniteInt(0), ir.PosInfinity())
	if !got.Equal(ir.FiniteInt(0)) {
		t.Errorf("got %s, want 0", got)
	}
}

func TestAddPropagatesConstants(t *testing.T) {
	lit := func(v int64) *ir.Expression {
		return &ir.Expression{
			Variety: &ir.NumericConstant{Value: big.NewInt(v)},
			Type:    ir.ExpressionType{Kind: ir.IntegerExpr},
		}
	}
	a, b := lit(3), lit(4)
	call := &ir.Expression{
		Variety: &ir.FunctionCall{Function: ir.OpAdd, Args: []*ir.Expression{a, b}},
		Type:    ir.ExpressionType{Kind: ir.IntegerExpr},
	}

	program := &ir.Ir{Modules: []*ir.Module{{
		SourceFileName: "m.emb",
		Types: []*ir.TypeDefinition{{
			Name:           ir.NameDefinition{Name: ir.CanonicalName{ModuleFile: "m.emb", ObjectPath: []string{"S"}}},
			DefinitionKind: ir.EnumKind,
			Enum:           &ir.Enum{Values: []*ir.EnumValue{{Name: ir.NameDefinition{Name: ir.CanonicalName{ModuleFile: "m.emb", ObjectPath: []string{"S", "V"}}}, Value: call}}},
		}},
	}}}

	errs := bounds.Infer(program)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if call.Type.Integer.Minimum.String() != "7" || call.Type.Integer.Maximum.String() != "7" {
		t.Errorf("got min=%s max=%s, want 7/7", call.Type.Integer.Minimum, call.Type.Integer.Maximum)
	}
	if !bounds.IsConstant(call.Type.Integer) {
		t.Error("expected 3+4 to fold to a constant")
	}
}
