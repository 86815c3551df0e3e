package ir

import "math/big"

// ExpressionKind is the four possible shapes an Expression's value can
// take, set by internal/typecheck.
type ExpressionKind int

const (
	NoType ExpressionKind = iota
	IntegerExpr
	BooleanExpr
	EnumerationExpr
	// OpaqueExpr appears only for non-virtual field references whose
	// underlying physical type is not integer/boolean/enumeration
	// (e.g. a Bcd-backed field used where only $has is legal).
	OpaqueExpr
)

func (k ExpressionKind) String() string {
	switch k {
	case IntegerExpr:
		return "integer"
	case BooleanExpr:
		return "boolean"
	case EnumerationExpr:
		return "enumeration"
	case OpaqueExpr:
		return "opaque"
	default:
		return "none"
	}
}

// IntegerType carries the modular-congruence and min/max bound
// metadata internal/bounds computes for every integer Expression. The
// invariants are: when Modulus is finite, Minimum mod Modulus ==
// Maximum mod Modulus == ModularValue; Minimum <= Maximum; and Minimum
// == Maximum implies Modulus is infinite.
type IntegerType struct {
	Modulus      ExtendedInt `json:"modulus"`       // positive integer, or PosInf
	ModularValue ExtendedInt `json:"modular_value"` // in [0, Modulus) when Modulus finite; else the constant value
	Minimum      ExtendedInt `json:"minimum_value"`
	Maximum      ExtendedInt `json:"maximum_value"`
}

// HasBounds reports whether bounds inference has run on this node.
func (t IntegerType) HasBounds() bool {
	return t.Modulus.Kind != NegInf || t.ModularValue.Kind != NegInf
}

// ExpressionType is set on every Expression by internal/typecheck;
// Integer and EnumName are populated only when Kind says so.
type ExpressionType struct {
	Kind     ExpressionKind `json:"kind"`
	Integer  IntegerType    `json:"integer,omitempty"`
	EnumName CanonicalName  `json:"enum_name,omitempty"` // valid when Kind == EnumerationExpr
}

// FunctionOp enumerates the operators spec.md §3/§4.C define.
type FunctionOp int

const (
	OpInvalid FunctionOp = iota
	OpAdd
	OpSub
	OpMul
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpChoice
	OpMax
	OpHas
	OpUpperBound
	OpLowerBound
)

var functionOpNames = map[FunctionOp]string{
	OpAdd: "+", OpSub: "-", OpMul: "*",
	OpEq: "==", OpNeq: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpAnd: "&&", OpOr: "||", OpChoice: "?:", OpMax: "$max",
	OpHas: "$has", OpUpperBound: "$upper_bound", OpLowerBound: "$lower_bound",
}

func (o FunctionOp) String() string {
	if s, ok := functionOpNames[o]; ok {
		return s
	}
	return "?"
}

// IsArithmetic reports whether o is + or -.
func (o FunctionOp) IsArithmetic() bool { return o == OpAdd || o == OpSub }

// BuiltinName enumerates the zero-argument builtins of §3/§4.C.
type BuiltinName int

const (
	BuiltinInvalid BuiltinName = iota
	BuiltinStaticSizeInBits
	BuiltinIsStaticallySized
	BuiltinLogicalValue
)

// ExpressionVariety is the oneof tag for the leaf/function shapes an
// Expression can take; exactly one concrete type below is installed
// into Expression.Variety.
type ExpressionVariety interface {
	isExpressionVariety()
	Loc() Location
}

// NumericConstant is a decimal literal in the full [-2^63, 2^64) range
// spec.md §3 requires; it is held as an arbitrary-precision integer so
// no pass ever truncates it before the 64-bit-safety check runs.
type NumericConstant struct {
	Value    *big.Int `json:"value"`
	Location Location `json:"location"`
}

func (*NumericConstant) isExpressionVariety() {}
func (n *NumericConstant) Loc() Location      { return n.Location }

// BooleanConstant is a `true`/`false` literal.
type BooleanConstant struct {
	Value    bool     `json:"value"`
	Location Location `json:"location"`
}

func (*BooleanConstant) isExpressionVariety() {}
func (b *BooleanConstant) Loc() Location      { return b.Location }

// ConstantReferenceExpr references an enum value or a virtual field by
// name; it is a compile-time constant only when its referent is.
type ConstantReferenceExpr struct {
	Reference *Reference `json:"reference"`
	Location  Location   `json:"location"`
}

func (*ConstantReferenceExpr) isExpressionVariety() {}
func (c *ConstantReferenceExpr) Loc() Location      { return c.Location }

// FieldReferenceExpr reads a field's runtime value (physical or
// virtual).
type FieldReferenceExpr struct {
	Path     *FieldReference `json:"path"`
	Location Location        `json:"location"`
}

func (*FieldReferenceExpr) isExpressionVariety() {}
func (f *FieldReferenceExpr) Loc() Location      { return f.Location }

// BuiltinReferenceExpr is one of $static_size_in_bits,
// $is_statically_sized, $logical_value.
type BuiltinReferenceExpr struct {
	Name     BuiltinName `json:"name"`
	Location Location    `json:"location"`
}

func (*BuiltinReferenceExpr) isExpressionVariety() {}
func (b *BuiltinReferenceExpr) Loc() Location      { return b.Location }

// FunctionCall applies Function to Args, e.g. `a + b`, `$max(a, b, c)`,
// `cond ? t : f` (OpChoice takes exactly 3 args: cond, true, false).
type FunctionCall struct {
	Function FunctionOp    `json:"function"`
	Args     []*Expression `json:"args"`
	Location Location      `json:"location"`
}

func (*FunctionCall) isExpressionVariety() {}
func (f *FunctionCall) Loc() Location      { return f.Location }

// Expression is any subexpression in the IR: a leaf or a function
// application, annotated in place with its ExpressionType by
// internal/typecheck and (for integers) its bounds by internal/bounds.
// Its JSON encoding (MarshalJSON/UnmarshalJSON, in json.go) flattens
// Variety into a "kind"-tagged object, since Go's encoding/json cannot
// serialize an interface field on its own.
type Expression struct {
	Variety  ExpressionVariety
	Type     ExpressionType
	Location Location
}

func (e *Expression) Kind() Kind    { return KindExpression }
func (e *Expression) Loc() Location { return e.Location }

// AsFunction returns the function-call variety and ok=true if e is a
// function application.
func (e *Expression) AsFunction() (*FunctionCall, bool) {
	f, ok := e.Variety.(*FunctionCall)
	return f, ok
}

// IsConstant reports whether internal/bounds has proven e to be a
// compile-time constant (Modulus == PosInf carries the constant value
// in ModularValue, per spec.md §3).
func (e *Expression) IsConstant() bool {
	if e.Type.Kind != IntegerExpr {
		return false
	}
	return e.Type.Integer.Modulus.Kind == PosInf
}
