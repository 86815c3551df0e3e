package ir

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// This file implements the §6 JSON wire format: every enum is emitted
// as its symbol name rather than its underlying int, ExtendedInt is
// emitted as a self-describing string so "-infinity"/"infinity" never
// collide with a finite value, and Expression's Variety -- a Go
// interface, which encoding/json cannot serialize on its own -- is
// flattened into an object keyed by the name of whichever concrete
// variety is present, matching the shape traverse_ir_test.py's
// fixtures use for the format this IR is JSON-compatible with: a
// function call is `{"function": {"function": "ADDITION", "args":
// [...]}}`, a leaf is `{"constant": {"value": "1"}}`, and so on.

var addressableUnitNames = map[AddressableUnit]string{
	Bit:  "BIT",
	Byte: "BYTE",
}

var addressableUnitValues = invertString(addressableUnitNames)

// MarshalJSON renders u as its symbol name.
func (u AddressableUnit) MarshalJSON() ([]byte, error) {
	name, ok := addressableUnitNames[u]
	if !ok {
		return nil, fmt.Errorf("ir: unknown AddressableUnit %d", int(u))
	}
	return json.Marshal(name)
}

// UnmarshalJSON parses a symbol name back into u.
func (u *AddressableUnit) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, ok := addressableUnitValues[name]
	if !ok {
		return fmt.Errorf("ir: unknown AddressableUnit %q", name)
	}
	*u = v
	return nil
}

var typeDefinitionKindNames = map[TypeDefinitionKind]string{
	StructureKind: "STRUCTURE",
	EnumKind:      "ENUM",
	ExternalKind:  "EXTERNAL",
}

var typeDefinitionKindValues = invertString(typeDefinitionKindNames)

func (k TypeDefinitionKind) MarshalJSON() ([]byte, error) {
	name, ok := typeDefinitionKindNames[k]
	if !ok {
		return nil, fmt.Errorf("ir: unknown TypeDefinitionKind %d", int(k))
	}
	return json.Marshal(name)
}

func (k *TypeDefinitionKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, ok := typeDefinitionKindValues[name]
	if !ok {
		return fmt.Errorf("ir: unknown TypeDefinitionKind %q", name)
	}
	*k = v
	return nil
}

var writeMethodKindNames = map[WriteMethodKind]string{
	WritePhysical:  "PHYSICAL",
	WriteReadOnly:  "READ_ONLY",
	WriteAlias:     "ALIAS",
	WriteTransform: "TRANSFORM",
}

var writeMethodKindValues = invertString(writeMethodKindNames)

func (k WriteMethodKind) MarshalJSON() ([]byte, error) {
	name, ok := writeMethodKindNames[k]
	if !ok {
		return nil, fmt.Errorf("ir: unknown WriteMethodKind %d", int(k))
	}
	return json.Marshal(name)
}

func (k *WriteMethodKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, ok := writeMethodKindValues[name]
	if !ok {
		return fmt.Errorf("ir: unknown WriteMethodKind %q", name)
	}
	*k = v
	return nil
}

var expressionKindNames = map[ExpressionKind]string{
	IntegerExpr:     "INTEGER",
	BooleanExpr:     "BOOLEAN",
	EnumerationExpr: "ENUMERATION",
	OpaqueExpr:      "OPAQUE",
}

var expressionKindValues = invertString(expressionKindNames)

func (k ExpressionKind) MarshalJSON() ([]byte, error) {
	if k == NoType {
		return json.Marshal("NONE")
	}
	name, ok := expressionKindNames[k]
	if !ok {
		return nil, fmt.Errorf("ir: unknown ExpressionKind %d", int(k))
	}
	return json.Marshal(name)
}

func (k *ExpressionKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	if name == "NONE" {
		*k = NoType
		return nil
	}
	v, ok := expressionKindValues[name]
	if !ok {
		return fmt.Errorf("ir: unknown ExpressionKind %q", name)
	}
	*k = v
	return nil
}

var functionOpNamesJSON = map[FunctionOp]string{
	OpAdd:        "ADDITION",
	OpSub:        "SUBTRACTION",
	OpMul:        "MULTIPLICATION",
	OpEq:         "EQUALITY",
	OpNeq:        "INEQUALITY",
	OpLt:         "LESS",
	OpLe:         "LESS_OR_EQUAL",
	OpGt:         "GREATER",
	OpGe:         "GREATER_OR_EQUAL",
	OpAnd:        "AND",
	OpOr:         "OR",
	OpChoice:     "CHOICE",
	OpMax:        "MAXIMUM",
	OpHas:        "PRESENCE",
	OpUpperBound: "UPPER_BOUND",
	OpLowerBound: "LOWER_BOUND",
}

var functionOpValuesJSON = invertString(functionOpNamesJSON)

func (o FunctionOp) MarshalJSON() ([]byte, error) {
	name, ok := functionOpNamesJSON[o]
	if !ok {
		return nil, fmt.Errorf("ir: unknown FunctionOp %d", int(o))
	}
	return json.Marshal(name)
}

func (o *FunctionOp) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, ok := functionOpValuesJSON[name]
	if !ok {
		return fmt.Errorf("ir: unknown FunctionOp %q", name)
	}
	*o = v
	return nil
}

var builtinNameNames = map[BuiltinName]string{
	BuiltinStaticSizeInBits:  "$static_size_in_bits",
	BuiltinIsStaticallySized: "$is_statically_sized",
	BuiltinLogicalValue:      "$logical_value",
}

var builtinNameValues = invertString(builtinNameNames)

func (b BuiltinName) MarshalJSON() ([]byte, error) {
	name, ok := builtinNameNames[b]
	if !ok {
		return nil, fmt.Errorf("ir: unknown BuiltinName %d", int(b))
	}
	return json.Marshal(name)
}

func (b *BuiltinName) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, ok := builtinNameValues[name]
	if !ok {
		return fmt.Errorf("ir: unknown BuiltinName %q", name)
	}
	*b = v
	return nil
}

func invertString[K comparable](m map[K]string) map[string]K {
	out := make(map[string]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// MarshalJSON renders e as a self-describing string: "-infinity",
// "infinity", or the decimal digits of a finite value. A bare JSON
// number would either lose the two infinities or risk silent
// precision loss for values outside float64's exact-integer range;
// a string sidesteps both.
func (e ExtendedInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// UnmarshalJSON parses the string form back into e.
func (e *ExtendedInt) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "-infinity":
		*e = NegInfinity()
		return nil
	case "infinity":
		*e = PosInfinity()
		return nil
	default:
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return fmt.Errorf("ir: invalid ExtendedInt %q", s)
		}
		*e = FiniteBig(v)
		return nil
	}
}

// numericConstantWire mirrors NumericConstant but renders Value as a
// decimal string rather than *big.Int's default bare-number encoding,
// so a constant outside float64's exact-integer range is never at
// risk of a lossy round trip through a generic JSON reader, matching
// traverse_ir_test.py's `{"constant": {"value": "1"}}` shape.
type numericConstantWire struct {
	Value    string   `json:"value"`
	Location Location `json:"location"`
}

// MarshalJSON renders n.Value as a decimal string.
func (n *NumericConstant) MarshalJSON() ([]byte, error) {
	return json.Marshal(numericConstantWire{Value: n.Value.String(), Location: n.Location})
}

// UnmarshalJSON parses the decimal string back into n.Value.
func (n *NumericConstant) UnmarshalJSON(data []byte) error {
	var w numericConstantWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	v, ok := new(big.Int).SetString(w.Value, 10)
	if !ok {
		return fmt.Errorf("ir: invalid NumericConstant value %q", w.Value)
	}
	n.Value = v
	n.Location = w.Location
	return nil
}

// expressionWire is Expression's on-the-wire shape: Variety flattened
// into whichever one of these fields is non-nil, alongside the type
// and location every Expression carries regardless of variety.
type expressionWire struct {
	Constant          *NumericConstant       `json:"constant,omitempty"`
	BooleanConstant   *BooleanConstant       `json:"boolean_constant,omitempty"`
	ConstantReference *ConstantReferenceExpr `json:"constant_reference,omitempty"`
	FieldReference    *FieldReferenceExpr    `json:"field_reference,omitempty"`
	BuiltinReference  *BuiltinReferenceExpr  `json:"builtin_reference,omitempty"`
	Function          *FunctionCall          `json:"function,omitempty"`

	Type     ExpressionType `json:"type"`
	Location Location       `json:"location"`
}

// MarshalJSON flattens e.Variety into expressionWire.
func (e *Expression) MarshalJSON() ([]byte, error) {
	var w expressionWire
	w.Type = e.Type
	w.Location = e.Location
	switch v := e.Variety.(type) {
	case *NumericConstant:
		w.Constant = v
	case *BooleanConstant:
		w.BooleanConstant = v
	case *ConstantReferenceExpr:
		w.ConstantReference = v
	case *FieldReferenceExpr:
		w.FieldReference = v
	case *BuiltinReferenceExpr:
		w.BuiltinReference = v
	case *FunctionCall:
		w.Function = v
	case nil:
		// An Expression with no Variety set yet (e.g. mid-construction
		// by a pass that has not installed one) serializes with every
		// variety field absent; UnmarshalJSON leaves Variety nil too.
	default:
		return nil, fmt.Errorf("ir: unknown ExpressionVariety %T", v)
	}
	return json.Marshal(w)
}

// UnmarshalJSON installs whichever variety field was present into
// e.Variety.
func (e *Expression) UnmarshalJSON(data []byte) error {
	var w expressionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	e.Type = w.Type
	e.Location = w.Location
	switch {
	case w.Constant != nil:
		e.Variety = w.Constant
	case w.BooleanConstant != nil:
		e.Variety = w.BooleanConstant
	case w.ConstantReference != nil:
		e.Variety = w.ConstantReference
	case w.FieldReference != nil:
		e.Variety = w.FieldReference
	case w.BuiltinReference != nil:
		e.Variety = w.BuiltinReference
	case w.Function != nil:
		e.Variety = w.Function
	default:
		e.Variety = nil
	}
	return nil
}
