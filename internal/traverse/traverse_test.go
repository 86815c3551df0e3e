package traverse_test

import (
	"math/big"
	"testing"

	"github.com/emboss-project/embossc/internal/ir"
	"github.com/emboss-project/embossc/internal/traverse"
)

func constExpr(v int64) *ir.Expression {
	return &ir.Expression{Variety: &ir.NumericConstant{Value: big.NewInt(v)}}
}

func sampleModule() *ir.Ir {
	field1 := &ir.Field{
		Name:     ir.NameDefinition{Name: ir.CanonicalName{ModuleFile: "m.emb", ObjectPath: []string{"Foo", "a"}}},
		Physical: &ir.FieldLocation{Start: constExpr(0), Size: constExpr(8)},
	}
	field2 := &ir.Field{
		Name:          ir.NameDefinition{Name: ir.CanonicalName{ModuleFile: "m.emb", ObjectPath: []string{"Foo", "b"}}},
		ReadTransform: constExpr(42),
	}
	structDef := &ir.TypeDefinition{
		Name:           ir.NameDefinition{Name: ir.CanonicalName{ModuleFile: "m.emb", ObjectPath: []string{"Foo"}}},
		DefinitionKind: ir.StructureKind,
		Structure:      &ir.Structure{Fields: []*ir.Field{field1, field2}},
	}
	mod := &ir.Module{SourceFileName: "m.emb", Types: []*ir.TypeDefinition{structDef}}
	return &ir.Ir{Modules: []*ir.Module{mod}}
}

func TestWalkFindsAllExpressionsUnderStructure(t *testing.T) {
	program := sampleModule()
	var found []*ir.Expression
	traverse.Walk(program, []ir.Kind{ir.KindStructure, ir.KindExpression}, func(node ir.Node, _ traverse.Params) {
		found = append(found, node.(*ir.Expression))
	})
	if len(found) != 3 { // start, size, read_transform
		t.Fatalf("expected 3 expressions under the structure, got %d", len(found))
	}
}

func TestWalkSingleKindMatchesEverywhere(t *testing.T) {
	program := sampleModule()
	count := 0
	traverse.Walk(program, []ir.Kind{ir.KindField}, func(ir.Node, traverse.Params) {
		count++
	})
	if count != 2 {
		t.Fatalf("expected 2 fields, got %d", count)
	}
}

func TestBuiltinsThreadFieldParam(t *testing.T) {
	program := sampleModule()
	var sawField []string
	traverse.Walk(program, []ir.Kind{ir.KindExpression},
		func(node ir.Node, params traverse.Params) {
			f, _ := params[traverse.ParamField].(*ir.Field)
			if f != nil {
				sawField = append(sawField, f.Name.Name.String())
			}
		},
		traverse.Builtins()...,
	)
	if len(sawField) != 3 {
		t.Fatalf("expected 3 expressions to see their enclosing field, got %d: %v", len(sawField), sawField)
	}
}

func TestSkipPrunesSubtree(t *testing.T) {
	program := sampleModule()
	count := 0
	traverse.Walk(program, []ir.Kind{ir.KindExpression}, func(ir.Node, traverse.Params) {
		count++
	}, traverse.Skip(ir.KindField))
	if count != 0 {
		t.Fatalf("expected Skip(Field) to prune all expressions, got %d", count)
	}
}
