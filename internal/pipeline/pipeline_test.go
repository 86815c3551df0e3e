package pipeline_test

import (
	"testing"

	"github.com/emboss-project/embossc/internal/ir"
	"github.com/emboss-project/embossc/internal/pipeline"
)

func name(file string, path ...string) ir.CanonicalName {
	return ir.CanonicalName{ModuleFile: file, ObjectPath: path}
}

func TestRunSucceedsOnEmptyModule(t *testing.T) {
	mod := &ir.Module{SourceFileName: "m.emb"}
	program := &ir.Ir{Modules: []*ir.Module{mod}}

	result := pipeline.Run(program)
	if !result.Ok() {
		t.Fatalf("expected success, got stage %q with diagnostics %v", result.Stage, result.Diagnostics)
	}
}

func TestRunAbortsAtAttributesStage(t *testing.T) {
	s := "x"
	mod := &ir.Module{
		SourceFileName: "m.emb",
		Attributes:     []*ir.Attribute{{Name: "not_a_real_attribute", Value: ir.AttributeValue{StringValue: &s}}},
	}
	program := &ir.Ir{Modules: []*ir.Module{mod}}

	result := pipeline.Run(program)
	if result.Ok() {
		t.Fatal("expected the pipeline to abort")
	}
	if result.Stage != pipeline.StageAttributes {
		t.Errorf("stage = %q, want %q", result.Stage, pipeline.StageAttributes)
	}
}

func TestRunAbortsAtSymbolsStageOnUnresolvedType(t *testing.T) {
	missing := &ir.Reference{SourceName: []string{"DoesNotExist"}}
	f := &ir.Field{
		Name:     ir.NameDefinition{Name: name("m.emb", "S", "n")},
		Type:     &ir.TypeRef{Atomic: &ir.AtomicType{Reference: missing}},
		Physical: &ir.FieldLocation{},
	}
	def := &ir.TypeDefinition{
		Name:            ir.NameDefinition{Name: name("m.emb", "S")},
		DefinitionKind:  ir.StructureKind,
		AddressableUnit: ir.Byte,
		Structure:       &ir.Structure{Fields: []*ir.Field{f}},
	}
	mod := &ir.Module{SourceFileName: "m.emb", Types: []*ir.TypeDefinition{def}}
	program := &ir.Ir{Modules: []*ir.Module{mod}}

	result := pipeline.Run(program)
	if result.Ok() {
		t.Fatal("expected the pipeline to abort on an unresolved type reference")
	}
	if result.Stage != pipeline.StageSymbols {
		t.Errorf("stage = %q, want %q", result.Stage, pipeline.StageSymbols)
	}
}
