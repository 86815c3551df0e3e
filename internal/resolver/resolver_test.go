package resolver_test

import (
	"math/big"
	"testing"

	"github.com/emboss-project/embossc/internal/ir"
	"github.com/emboss-project/embossc/internal/resolver"
)

func constExpr(v int64) *ir.Expression {
	return &ir.Expression{Variety: &ir.NumericConstant{Value: big.NewInt(v)}}
}

func name(file string, path ...string) ir.CanonicalName {
	return ir.CanonicalName{ModuleFile: file, ObjectPath: path}
}

// program builds two structures in one module: Inner has a single
// physical byte field "value"; Outer has a physical field "inner" of
// type Inner, and a virtual field that reads inner.value.
func program() *ir.Ir {
	innerValue := &ir.Field{
		Name:     ir.NameDefinition{Name: name("m.emb", "Inner", "value")},
		Physical: &ir.FieldLocation{Start: constExpr(0), Size: constExpr(1)},
	}
	inner := &ir.TypeDefinition{
		Name:            ir.NameDefinition{Name: name("m.emb", "Inner")},
		DefinitionKind:  ir.StructureKind,
		AddressableUnit: ir.Byte,
		Structure:       &ir.Structure{Fields: []*ir.Field{innerValue}},
	}

	innerRef := &ir.Reference{SourceName: []string{"Inner"}, Location: ir.Location{}}
	innerField := &ir.Field{
		Name:     ir.NameDefinition{Name: name("m.emb", "Outer", "inner")},
		Type:     &ir.TypeRef{Atomic: &ir.AtomicType{Reference: innerRef}},
		Physical: &ir.FieldLocation{Start: constExpr(0), Size: constExpr(1)},
	}

	pathHead := &ir.Reference{SourceName: []string{"inner"}, Location: ir.Location{}}
	pathTail := &ir.Reference{SourceName: []string{"value"}, Location: ir.Location{}}
	fieldRef := &ir.FieldReference{Path: []*ir.Reference{pathHead, pathTail}}
	virtualField := &ir.Field{
		Name:          ir.NameDefinition{Name: name("m.emb", "Outer", "derived")},
		ReadTransform: &ir.Expression{Variety: &ir.FieldReferenceExpr{Path: fieldRef}},
	}

	outer := &ir.TypeDefinition{
		Name:            ir.NameDefinition{Name: name("m.emb", "Outer")},
		DefinitionKind:  ir.StructureKind,
		AddressableUnit: ir.Byte,
		Structure:       &ir.Structure{Fields: []*ir.Field{innerField, virtualField}},
	}

	mod := &ir.Module{SourceFileName: "m.emb", Types: []*ir.TypeDefinition{inner, outer}}
	return &ir.Ir{Modules: []*ir.Module{mod}}
}

func TestBuildTablesBindsTopLevelTypes(t *testing.T) {
	p := program()
	tables, errs := resolver.BuildTables(p)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	scope, ok := tables.ModuleScope("m.emb")
	if !ok {
		t.Fatal("expected a module scope for m.emb")
	}
	if _, ok := scope.LookupLocal("Inner"); !ok {
		t.Error("expected Inner bound in module scope")
	}
	if _, ok := scope.LookupLocal("Outer"); !ok {
		t.Error("expected Outer bound in module scope")
	}
}

func TestResolveAtomicTypeReference(t *testing.T) {
	p := program()
	tables, errs := resolver.BuildTables(p)
	if len(errs) != 0 {
		t.Fatalf("unexpected BuildTables errors: %v", errs)
	}
	errs = resolver.Resolve(p, tables)
	if len(errs) != 0 {
		t.Fatalf("unexpected Resolve errors: %v", errs)
	}

	outer := p.Modules[0].Types[1]
	innerField := outer.Structure.Fields[0]
	ref := innerField.Type.Atomic.Reference
	if !ref.Resolved {
		t.Fatal("expected Inner reference to resolve")
	}
	want := name("m.emb", "Inner")
	if !ref.CanonicalName.Equal(want) {
		t.Errorf("got %s, want %s", ref.CanonicalName, want)
	}
}

func TestResolveFieldPathsWalksDottedAccess(t *testing.T) {
	p := program()
	tables, errs := resolver.BuildTables(p)
	if len(errs) != 0 {
		t.Fatalf("unexpected BuildTables errors: %v", errs)
	}
	errs = resolver.Resolve(p, tables)
	if len(errs) != 0 {
		t.Fatalf("unexpected Resolve errors: %v", errs)
	}
	errs = resolver.ResolveFieldPaths(p)
	if len(errs) != 0 {
		t.Fatalf("unexpected ResolveFieldPaths errors: %v", errs)
	}

	outer := p.Modules[0].Types[1]
	virtual := outer.Structure.Fields[1]
	fr := virtual.ReadTransform.Variety.(*ir.FieldReferenceExpr).Path
	if !fr.Resolved {
		t.Fatal("expected field reference path to resolve")
	}
	head := fr.Head()
	if !head.Resolved || !head.CanonicalName.Equal(name("m.emb", "Outer", "inner")) {
		t.Errorf("head resolved to %v", head.CanonicalName)
	}
	tail := fr.Tail()[0]
	if !tail.Resolved || !tail.CanonicalName.Equal(name("m.emb", "Inner", "value")) {
		t.Errorf("tail resolved to %v", tail.CanonicalName)
	}
}

func TestBuildTablesReportsDuplicateFieldName(t *testing.T) {
	dup1 := &ir.Field{Name: ir.NameDefinition{Name: name("m.emb", "S", "a")}}
	dup2 := &ir.Field{Name: ir.NameDefinition{Name: name("m.emb", "S", "a")}}
	def := &ir.TypeDefinition{
		Name:           ir.NameDefinition{Name: name("m.emb", "S")},
		DefinitionKind: ir.StructureKind,
		Structure:      &ir.Structure{Fields: []*ir.Field{dup1, dup2}},
	}
	mod := &ir.Module{SourceFileName: "m.emb", Types: []*ir.TypeDefinition{def}}
	p := &ir.Ir{Modules: []*ir.Module{mod}}

	_, errs := resolver.BuildTables(p)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one duplicate-name diagnostic, got %d: %v", len(errs), errs)
	}
}

func TestResolveUnknownNameReportsError(t *testing.T) {
	ref := &ir.Reference{SourceName: []string{"DoesNotExist"}}
	field := &ir.Field{
		Name: ir.NameDefinition{Name: name("m.emb", "S", "a")},
		Type: &ir.TypeRef{Atomic: &ir.AtomicType{Reference: ref}},
	}
	def := &ir.TypeDefinition{
		Name:           ir.NameDefinition{Name: name("m.emb", "S")},
		DefinitionKind: ir.StructureKind,
		Structure:      &ir.Structure{Fields: []*ir.Field{field}},
	}
	mod := &ir.Module{SourceFileName: "m.emb", Types: []*ir.TypeDefinition{def}}
	p := &ir.Ir{Modules: []*ir.Module{mod}}

	tables, errs := resolver.BuildTables(p)
	if len(errs) != 0 {
		t.Fatalf("unexpected BuildTables errors: %v", errs)
	}
	errs = resolver.Resolve(p, tables)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one unknown-name diagnostic, got %d: %v", len(errs), errs)
	}
}
