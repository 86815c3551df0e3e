package ir_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/emboss-project/embossc/internal/ir"
)

func name(file string, path ...string) ir.CanonicalName {
	return ir.CanonicalName{ModuleFile: file, ObjectPath: path}
}

func numConst(v int64) *ir.Expression {
	return &ir.Expression{
		Variety: &ir.NumericConstant{Value: big.NewInt(v)},
		Type: ir.ExpressionType{
			Kind: ir.IntegerExpr,
			Integer: ir.IntegerType{
				Modulus:      ir.PosInfinity(),
				ModularValue: ir.FiniteInt(v),
				Minimum:      ir.FiniteInt(v),
				Maximum:      ir.FiniteInt(v),
			},
		},
	}
}

func TestExpressionMarshalUsesSymbolicEnumNames(t *testing.T) {
	e := numConst(8)
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal into map: %v", err)
	}
	constant, ok := raw["constant"].(map[string]any)
	if !ok {
		t.Fatalf("expected a \"constant\" object, got %s", data)
	}
	if constant["value"] != "8" {
		t.Errorf("constant.value = %v, want \"8\"", constant["value"])
	}
	typ, ok := raw["type"].(map[string]any)
	if !ok {
		t.Fatalf("expected a \"type\" object, got %s", data)
	}
	if typ["kind"] != "INTEGER" {
		t.Errorf("type.kind = %v, want INTEGER", typ["kind"])
	}
	integer, ok := typ["integer"].(map[string]any)
	if !ok {
		t.Fatalf("expected type.integer object, got %v", typ)
	}
	if integer["modulus"] != "infinity" {
		t.Errorf("modulus = %v, want \"infinity\"", integer["modulus"])
	}
}

func TestExpressionRoundTripsEveryVariety(t *testing.T) {
	ref := &ir.Reference{SourceName: []string{"UInt"}, CanonicalName: name("", "UInt"), Resolved: true}
	cases := map[string]*ir.Expression{
		"numeric": numConst(-9223372036854775808),
		"boolean": {Variety: &ir.BooleanConstant{Value: true}, Type: ir.ExpressionType{Kind: ir.BooleanExpr}},
		"constant_reference": {
			Variety: &ir.ConstantReferenceExpr{Reference: ref},
			Type:    ir.ExpressionType{Kind: ir.EnumerationExpr, EnumName: name("m.emb", "Color")},
		},
		"field_reference": {
			Variety: &ir.FieldReferenceExpr{Path: &ir.FieldReference{Path: []*ir.Reference{ref}}},
			Type:    ir.ExpressionType{Kind: ir.IntegerExpr},
		},
		"builtin_reference": {
			Variety: &ir.BuiltinReferenceExpr{Name: ir.BuiltinIsStaticallySized},
			Type:    ir.ExpressionType{Kind: ir.BooleanExpr},
		},
		"function": {
			Variety: &ir.FunctionCall{Function: ir.OpAdd, Args: []*ir.Expression{numConst(1), numConst(2)}},
			Type:    ir.ExpressionType{Kind: ir.IntegerExpr},
		},
	}

	for label, want := range cases {
		t.Run(label, func(t *testing.T) {
			data, err := json.Marshal(want)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			got := new(ir.Expression)
			if err := json.Unmarshal(data, got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if got.Type.Kind != want.Type.Kind {
				t.Errorf("Type.Kind = %v, want %v", got.Type.Kind, want.Type.Kind)
			}
			roundTrip, err := json.Marshal(got)
			if err != nil {
				t.Fatalf("re-Marshal: %v", err)
			}
			if string(roundTrip) != string(data) {
				t.Errorf("round trip mismatch:\n got: %s\nwant: %s", roundTrip, data)
			}
		})
	}
}

func TestExtendedIntMarshalsAsSelfDescribingString(t *testing.T) {
	cases := []struct {
		name string
		in   ir.ExtendedInt
		want string
	}{
		{"neg_infinity", ir.NegInfinity(), `"-infinity"`},
		{"pos_infinity", ir.PosInfinity(), `"infinity"`},
		{"zero", ir.FiniteInt(0), `"0"`},
		{"negative", ir.FiniteInt(-42), `"-42"`},
		{"big", ir.FiniteBig(mustBig("18446744073709551616")), `"18446744073709551616"`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			data, err := json.Marshal(c.in)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(data) != c.want {
				t.Errorf("Marshal(%v) = %s, want %s", c.in, data, c.want)
			}
			var got ir.ExtendedInt
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if !got.Equal(c.in) {
				t.Errorf("round trip = %v, want %v", got, c.in)
			}
		})
	}
}

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad literal: " + s)
	}
	return v
}

func TestAddressableUnitMarshalsAsSymbolName(t *testing.T) {
	for unit, want := range map[ir.AddressableUnit]string{ir.Bit: `"BIT"`, ir.Byte: `"BYTE"`} {
		data, err := json.Marshal(unit)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if string(data) != want {
			t.Errorf("Marshal(%v) = %s, want %s", unit, data, want)
		}
		var got ir.AddressableUnit
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if got != unit {
			t.Errorf("round trip = %v, want %v", got, unit)
		}
	}
}

func TestModuleJSONOmitsAbsentOptionalFields(t *testing.T) {
	def := &ir.TypeDefinition{
		Name:            ir.NameDefinition{Name: name("m.emb", "S")},
		AddressableUnit: ir.Byte,
		DefinitionKind:  ir.StructureKind,
		Structure: &ir.Structure{
			Fields: []*ir.Field{{
				Name:        ir.NameDefinition{Name: name("m.emb", "S", "n")},
				WriteMethod: ir.WriteMethod{ThisKind: ir.WritePhysical},
			}},
		},
	}
	prog := &ir.Ir{Modules: []*ir.Module{{SourceFileName: "m.emb", Types: []*ir.TypeDefinition{def}}}}

	data, err := json.Marshal(prog)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal into map: %v", err)
	}
	modules, ok := raw["module"].([]any)
	if !ok || len(modules) != 1 {
		t.Fatalf("expected module[0], got %s", data)
	}
	mod := modules[0].(map[string]any)
	if _, present := mod["import"]; present {
		t.Errorf("absent Imports should be omitted, got %s", data)
	}
	if _, present := mod["attribute"]; present {
		t.Errorf("absent module Attributes should be omitted, got %s", data)
	}

	var roundTrip ir.Ir
	if err := json.Unmarshal(data, &roundTrip); err != nil {
		t.Fatalf("Unmarshal into ir.Ir: %v", err)
	}
	if got := roundTrip.Main().Types[0].Structure.Fields[0].Name.Name; !got.Equal(name("m.emb", "S", "n")) {
		t.Errorf("round-tripped field name = %v, want S.n", got)
	}
}
