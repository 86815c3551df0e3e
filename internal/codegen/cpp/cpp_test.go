package cpp_test

import (
	"math/big"
	"strings"
	"testing"

	"github.com/emboss-project/embossc/internal/codegen/cpp"
	"github.com/emboss-project/embossc/internal/ir"
)

func name(file string, path ...string) ir.CanonicalName {
	return ir.CanonicalName{ModuleFile: file, ObjectPath: path}
}

func strAttr(attrName, backEnd, value string) *ir.Attribute {
	v := value
	return &ir.Attribute{Name: attrName, BackEnd: backEnd, Value: ir.AttributeValue{StringValue: &v}}
}

// constExpr builds a fully-typed compile-time integer constant, as
// internal/bounds would leave it, so codegen's constantIntValue sees a
// usable value without running the earlier pipeline stages.
func constExpr(v int64) *ir.Expression {
	return constExprBig(big.NewInt(v))
}

func constExprBig(v *big.Int) *ir.Expression {
	return &ir.Expression{
		Variety: &ir.NumericConstant{Value: v},
		Type: ir.ExpressionType{
			Kind: ir.IntegerExpr,
			Integer: ir.IntegerType{
				Modulus:      ir.PosInfinity(),
				ModularValue: ir.FiniteBig(v),
				Minimum:      ir.FiniteBig(v),
				Maximum:      ir.FiniteBig(v),
			},
		},
	}
}

func TestGenerateReturnsErrorWhenNoMainModule(t *testing.T) {
	out, errs := cpp.Generate(&ir.Ir{}, cpp.DefaultOptions())
	if out != "" || len(errs) == 0 {
		t.Fatalf("got (%q, %v), want (\"\", non-empty)", out, errs)
	}
}

func TestGenerateDerivesNamespaceAndHeaderGuard(t *testing.T) {
	mod := &ir.Module{
		SourceFileName: "test/example.emb",
		Attributes:     []*ir.Attribute{strAttr("namespace", "cpp", "foo::bar")},
	}
	out, errs := cpp.Generate(&ir.Ir{Modules: []*ir.Module{mod}}, cpp.DefaultOptions())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !strings.Contains(out, "#ifndef TEST_EXAMPLE_EMB_H_") {
		t.Errorf("missing expected header guard in:\n%s", out)
	}
	if !strings.Contains(out, "namespace foo {\nnamespace bar {") {
		t.Errorf("missing expected namespace open in:\n%s", out)
	}
	if !strings.Contains(out, "}  // namespace bar\n}  // namespace foo") {
		t.Errorf("missing expected namespace close in:\n%s", out)
	}
}

func TestGenerateDefaultsNamespaceWhenAttributeAbsent(t *testing.T) {
	mod := &ir.Module{SourceFileName: "m.emb"}
	out, errs := cpp.Generate(&ir.Ir{Modules: []*ir.Module{mod}}, cpp.DefaultOptions())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !strings.Contains(out, "namespace emboss_generated_code {") {
		t.Errorf("missing default namespace in:\n%s", out)
	}
}

func TestGenerateRejectsReservedNamespaceComponent(t *testing.T) {
	mod := &ir.Module{
		SourceFileName: "m.emb",
		Attributes:     []*ir.Attribute{strAttr("namespace", "cpp", "class::foo")},
	}
	_, errs := cpp.Generate(&ir.Ir{Modules: []*ir.Module{mod}}, cpp.DefaultOptions())
	if len(errs) == 0 {
		t.Fatal("expected a diagnostic for a reserved-word namespace component")
	}
}

func TestGenerateEnumDefaultCaseIsUnchanged(t *testing.T) {
	values := []*ir.EnumValue{
		{Name: ir.NameDefinition{Name: name("m.emb", "E", "RED")}, Value: constExpr(0)},
		{Name: ir.NameDefinition{Name: name("m.emb", "E", "BLUE")}, Value: constExpr(1)},
	}
	def := &ir.TypeDefinition{
		Name:           ir.NameDefinition{Name: name("m.emb", "E")},
		DefinitionKind: ir.EnumKind,
		Enum:           &ir.Enum{Values: values, MaxBits: 2, IsSigned: false},
	}
	mod := &ir.Module{SourceFileName: "m.emb", Types: []*ir.TypeDefinition{def}}
	out, errs := cpp.Generate(&ir.Ir{Modules: []*ir.Module{mod}}, cpp.DefaultOptions())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !strings.Contains(out, "enum class E : ::std::uint8_t {") {
		t.Errorf("missing expected enum declaration in:\n%s", out)
	}
	if !strings.Contains(out, "RED =") || !strings.Contains(out, "BLUE =") {
		t.Errorf("expected unmodified SHOUTY_CASE names in:\n%s", out)
	}
	if !strings.Contains(out, "TryToGetEnumFromName") {
		t.Errorf("expected enum traits to be emitted by default in:\n%s", out)
	}
}

func TestGenerateEnumCaseCamelCaseWithoutTraits(t *testing.T) {
	values := []*ir.EnumValue{
		{
			Name:       ir.NameDefinition{Name: name("m.emb", "E", "RED_ORANGE")},
			Attributes: []*ir.Attribute{strAttr("enum_case", "cpp", "CamelCase")},
			Value:      constExpr(0),
		},
	}
	def := &ir.TypeDefinition{
		Name:           ir.NameDefinition{Name: name("m.emb", "E")},
		DefinitionKind: ir.EnumKind,
		Enum:           &ir.Enum{Values: values, MaxBits: 8, IsSigned: false},
	}
	mod := &ir.Module{SourceFileName: "m.emb", Types: []*ir.TypeDefinition{def}}
	out, errs := cpp.Generate(&ir.Ir{Modules: []*ir.Module{mod}}, cpp.Options{EmitEnumTraits: false})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !strings.Contains(out, "RedOrange =") {
		t.Errorf("expected CamelCase enum value name in:\n%s", out)
	}
	if strings.Contains(out, "TryToGetEnumFromName") {
		t.Errorf("did not expect enum traits when disabled:\n%s", out)
	}
}

func TestGenerateEnumNegativeSixtyThreeBitValue(t *testing.T) {
	minInt64 := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 63))
	values := []*ir.EnumValue{
		{Name: ir.NameDefinition{Name: name("m.emb", "E", "FLOOR")}, Value: constExprBig(minInt64)},
	}
	def := &ir.TypeDefinition{
		Name:           ir.NameDefinition{Name: name("m.emb", "E")},
		DefinitionKind: ir.EnumKind,
		Enum:           &ir.Enum{Values: values, MaxBits: 64, IsSigned: true},
	}
	mod := &ir.Module{SourceFileName: "m.emb", Types: []*ir.TypeDefinition{def}}
	out, errs := cpp.Generate(&ir.Ir{Modules: []*ir.Module{mod}}, cpp.DefaultOptions())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !strings.Contains(out, "static_cast</**/::std::int64_t>(-9223372036854775807LL - 1)") {
		t.Errorf("expected the -2^63 special-case literal in:\n%s", out)
	}
}

func TestGenerateStructWithPhysicalUIntField(t *testing.T) {
	ref := &ir.Reference{SourceName: []string{"UInt"}, CanonicalName: name("", "UInt"), Resolved: true}
	f := &ir.Field{
		Name:        ir.NameDefinition{Name: name("m.emb", "S", "n")},
		Type:        &ir.TypeRef{Atomic: &ir.AtomicType{Reference: ref}},
		Physical:    &ir.FieldLocation{Start: constExpr(0), Size: constExpr(8)},
		WriteMethod: ir.WriteMethod{ThisKind: ir.WritePhysical},
	}
	fixedSize := ir.FiniteInt(8)
	def := &ir.TypeDefinition{
		Name:            ir.NameDefinition{Name: name("m.emb", "S")},
		DefinitionKind:  ir.StructureKind,
		AddressableUnit: ir.Byte,
		Structure: &ir.Structure{
			Fields:        []*ir.Field{f},
			FixedSizeBits: &fixedSize,
		},
	}
	mod := &ir.Module{SourceFileName: "m.emb", Types: []*ir.TypeDefinition{def}}
	out, errs := cpp.Generate(&ir.Ir{Modules: []*ir.Module{mod}}, cpp.DefaultOptions())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !strings.Contains(out, "class S {") {
		t.Errorf("missing expected view class in:\n%s", out)
	}
	if !strings.Contains(out, " n() const {") {
		t.Errorf("missing expected field accessor in:\n%s", out)
	}
	if !strings.Contains(out, "IntrinsicSizeInBits() { return static_cast</**/::std::int32_t>(8LL); }") {
		t.Errorf("missing expected fixed size method in:\n%s", out)
	}
	if !strings.Contains(out, "bool Ok() const { return n().Ok(); }") {
		t.Errorf("missing expected Ok() method in:\n%s", out)
	}
}
