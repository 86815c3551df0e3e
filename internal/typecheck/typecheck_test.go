package typecheck_test

import (
	"math/big"
	"testing"

	"github.com/emboss-project/embossc/internal/ir"
	"github.com/emboss-project/embossc/internal/typecheck"
)

func name(file string, path ...string) ir.CanonicalName {
	return ir.CanonicalName{ModuleFile: file, ObjectPath: path}
}

func numConst(v int64) *ir.Expression {
	return &ir.Expression{Variety: &ir.NumericConstant{Value: big.NewInt(v)}}
}

func TestCheckAssignsIntegerTypeToPhysicalUIntField(t *testing.T) {
	ref := &ir.Reference{SourceName: []string{"UInt"}, CanonicalName: name("", "UInt"), Resolved: true}
	f := &ir.Field{
		Name:     ir.NameDefinition{Name: name("m.emb", "S", "n")},
		Type:     &ir.TypeRef{Atomic: &ir.AtomicType{Reference: ref}, SizeInBits: numConst(8)},
		Physical: &ir.FieldLocation{Start: numConst(0), Size: numConst(1)},
	}
	def := &ir.TypeDefinition{
		Name:           ir.NameDefinition{Name: name("m.emb", "S")},
		DefinitionKind: ir.StructureKind,
		Structure:      &ir.Structure{Fields: []*ir.Field{f}},
	}
	p := &ir.Ir{Modules: []*ir.Module{{SourceFileName: "m.emb", Types: []*ir.TypeDefinition{def}}}}

	errs := typecheck.Check(p)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if f.Physical.Start.Type.Kind != ir.IntegerExpr {
		t.Errorf("start type = %v, want integer", f.Physical.Start.Type.Kind)
	}
}

func TestCheckAdditionRequiresTwoIntegers(t *testing.T) {
	boolExpr := &ir.Expression{Variety: &ir.BooleanConstant{Value: true}}
	call := &ir.Expression{Variety: &ir.FunctionCall{Function: ir.OpAdd, Args: []*ir.Expression{numConst(1), boolExpr}}}
	v := &ir.EnumValue{Name: ir.NameDefinition{Name: name("m.emb", "E", "X")}, Value: call}
	def := &ir.TypeDefinition{
		Name:           ir.NameDefinition{Name: name("m.emb", "E")},
		DefinitionKind: ir.EnumKind,
		Enum:           &ir.Enum{Values: []*ir.EnumValue{v}},
	}
	p := &ir.Ir{Modules: []*ir.Module{{SourceFileName: "m.emb", Types: []*ir.TypeDefinition{def}}}}

	errs := typecheck.Check(p)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one type-mismatch diagnostic, got %d: %v", len(errs), errs)
	}
}

func TestCheckChoiceRequiresBooleanCondition(t *testing.T) {
	call := &ir.Expression{Variety: &ir.FunctionCall{Function: ir.OpChoice, Args: []*ir.Expression{numConst(1), numConst(2), numConst(3)}}}
	v := &ir.EnumValue{Name: ir.NameDefinition{Name: name("m.emb", "E", "X")}, Value: call}
	def := &ir.TypeDefinition{
		Name:           ir.NameDefinition{Name: name("m.emb", "E")},
		DefinitionKind: ir.EnumKind,
		Enum:           &ir.Enum{Values: []*ir.EnumValue{v}},
	}
	p := &ir.Ir{Modules: []*ir.Module{{SourceFileName: "m.emb", Types: []*ir.TypeDefinition{def}}}}

	errs := typecheck.Check(p)
	if len(errs) == 0 {
		t.Fatal("expected a diagnostic for a non-boolean ?: condition")
	}
}

func TestCheckComparisonOperatorsProduceBooleanType(t *testing.T) {
	for _, op := range []ir.FunctionOp{ir.OpLt, ir.OpLe, ir.OpGt, ir.OpGe} {
		call := &ir.Expression{Variety: &ir.FunctionCall{Function: op, Args: []*ir.Expression{numConst(1), numConst(2)}}}
		f := &ir.Field{
			Name:               ir.NameDefinition{Name: name("m.emb", "S", "n")},
			ExistenceCondition: call,
		}
		def := &ir.TypeDefinition{
			Name:           ir.NameDefinition{Name: name("m.emb", "S")},
			DefinitionKind: ir.StructureKind,
			Structure:      &ir.Structure{Fields: []*ir.Field{f}},
		}
		p := &ir.Ir{Modules: []*ir.Module{{SourceFileName: "m.emb", Types: []*ir.TypeDefinition{def}}}}

		errs := typecheck.Check(p)
		if len(errs) != 0 {
			t.Fatalf("%s: unexpected errors: %v", op, errs)
		}
		if call.Type.Kind != ir.BooleanExpr {
			t.Errorf("%s: result type = %v, want boolean", op, call.Type.Kind)
		}
	}
}

func TestCheckExistenceConditionMustBeBoolean(t *testing.T) {
	f := &ir.Field{
		Name:               ir.NameDefinition{Name: name("m.emb", "S", "n")},
		ExistenceCondition: numConst(1),
	}
	def := &ir.TypeDefinition{
		Name:           ir.NameDefinition{Name: name("m.emb", "S")},
		DefinitionKind: ir.StructureKind,
		Structure:      &ir.Structure{Fields: []*ir.Field{f}},
	}
	p := &ir.Ir{Modules: []*ir.Module{{SourceFileName: "m.emb", Types: []*ir.TypeDefinition{def}}}}

	errs := typecheck.Check(p)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d: %v", len(errs), errs)
	}
}
