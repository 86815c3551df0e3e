package cpp

import (
	"fmt"
	"strings"

	"github.com/emboss-project/embossc/internal/ir"
)

// builtinFunctionNames maps an Emboss operator to the runtime support
// library's Maybe<T>-lifted operation name, per
// _builtin_function_name.
var builtinFunctionNames = map[ir.FunctionOp]string{
	ir.OpAdd: "Sum",
	ir.OpSub: "Difference",
	ir.OpMul: "Product",
	ir.OpEq:  "Equal",
	ir.OpNeq: "NotEqual",
	ir.OpAnd: "And",
	ir.OpOr:  "Or",
	ir.OpLt:  "LessThan",
	ir.OpLe:  "LessThanOrEqual",
	ir.OpGt:  "GreaterThan",
	ir.OpGe:  "GreaterThanOrEqual",
	ir.OpMax: "Maximum",
}

// fieldReader renders the C++ accessor used to read a field's
// Maybe<T> value within a generated expression; it differs between
// the ordinary case (call the parent view's own accessor methods) and
// the validator case, where the field being validated is rewritten to
// `emboss_reserved_local_value` (spec.md §4.H item 7).
type fieldReader interface {
	renderField(path *ir.FieldReference) string
	renderExistence(path *ir.FieldReference) string
}

// viewFieldReader renders an ordinary field access chain:
// `parent().child()....Read()`.
type viewFieldReader struct{}

func (viewFieldReader) renderField(path *ir.FieldReference) string {
	return fieldAccessorChain(path) + ".Read()"
}

func (viewFieldReader) renderExistence(path *ir.FieldReference) string {
	return fieldAccessorChain(path) + ".Ok()"
}

// validatorFieldReader renders the field currently being validated as
// the reserved local parameter, and every other field normally, per
// spec.md §4.H item 7.
type validatorFieldReader struct {
	target     *ir.Field
	targetType string // the target field's unwrapped C++ type
}

func (r validatorFieldReader) renderField(path *ir.FieldReference) string {
	if isSameField(path, r.target) {
		return fmt.Sprintf("%s(emboss_reserved_local_value)", maybeType(r.targetType))
	}
	return viewFieldReader{}.renderField(path)
}

func (r validatorFieldReader) renderExistence(path *ir.FieldReference) string {
	return viewFieldReader{}.renderExistence(path)
}

func isSameField(path *ir.FieldReference, target *ir.Field) bool {
	last := path.Path[len(path.Path)-1]
	return last.CanonicalName.Equal(target.Name.Name)
}

// fieldAccessorChain renders a resolved FieldReference path as a chain
// of C++ accessor calls, e.g. `a().b().c()`, per _render_variable.
func fieldAccessorChain(path *ir.FieldReference) string {
	var b strings.Builder
	for i, ref := range path.Path {
		if i > 0 {
			b.WriteString(".")
		}
		name := ref.CanonicalName.ObjectPath[len(ref.CanonicalName.ObjectPath)-1]
		b.WriteString(cppFieldAccessorName(name))
		b.WriteString("()")
	}
	return b.String()
}

// cppFieldAccessorName maps a field's Emboss name to its generated
// accessor method name. The only renamed member is the synthetic
// $size_in_bits builtin; every other field keeps its source name,
// matching _cpp_field_name.
func cppFieldAccessorName(name string) string {
	if name == "$size_in_bits" {
		return "IntrinsicSizeInBits"
	}
	return name
}

// renderExpr renders e as a Maybe<T>-wrapped C++ expression, per
// spec.md §4.H item 5 and _render_expression/_render_builtin_operation.
func renderExpr(e *ir.Expression, reader fieldReader) string {
	switch v := e.Variety.(type) {
	case *ir.NumericConstant:
		return renderIntegerForExpression(v.Value)

	case *ir.BooleanConstant:
		b := "false"
		if v.Value {
			b = "true"
		}
		return fmt.Sprintf("%s(%s)", maybeType("bool"), b)

	case *ir.ConstantReferenceExpr:
		// A resolved reference to an enum value or a virtual field;
		// callers populate e.Type from the referent, so basicType below
		// reflects the right C++ type.
		return fmt.Sprintf("%s(%s)", maybeType(cppBasicType(e.Type, nil)), v.Reference.SourcePath())

	case *ir.FieldReferenceExpr:
		return reader.renderField(v.Path)

	case *ir.BuiltinReferenceExpr:
		switch v.Name {
		case ir.BuiltinStaticSizeInBits:
			return fmt.Sprintf("%s(IntrinsicSizeInBits())", maybeType("::std::int64_t"))
		case ir.BuiltinIsStaticallySized:
			return fmt.Sprintf("%s(true)", maybeType("bool"))
		case ir.BuiltinLogicalValue:
			return "value"
		}
		return "/* unknown builtin */"

	case *ir.FunctionCall:
		if v.Function == ir.OpUpperBound || v.Function == ir.OpLowerBound {
			if n, ok := constantIntValue(e); ok {
				return renderIntegerForExpression(n)
			}
		}
		return renderFunctionCall(v, reader)
	}
	return "/* unknown expression */"
}

func renderFunctionCall(call *ir.FunctionCall, reader fieldReader) string {
	switch call.Function {
	case ir.OpHas:
		if ref, ok := call.Args[0].Variety.(*ir.FieldReferenceExpr); ok {
			return fmt.Sprintf("%s(%s)", maybeType("bool"), reader.renderExistence(ref.Path))
		}
		return fmt.Sprintf("%s(true)", maybeType("bool"))

	case ir.OpChoice:
		return fmt.Sprintf("%s::Choice(%s, %s, %s)", supportNamespace,
			renderExpr(call.Args[0], reader), renderExpr(call.Args[1], reader), renderExpr(call.Args[2], reader))

	case ir.OpUpperBound, ir.OpLowerBound:
		// renderExpr emits the constant internal/bounds computed for
		// these; only a call whose bounds did not fold to a constant
		// reaches this point, and it renders as a placeholder comment.
		return "/* upper/lower bound not folded at compile time */"
	}

	name, ok := builtinFunctionNames[call.Function]
	if !ok {
		return "/* unknown operator */"
	}
	args := make([]string, len(call.Args))
	for i, a := range call.Args {
		args[i] = renderExpr(a, reader)
	}
	return fmt.Sprintf("%s::%s(%s)", supportNamespace, name, strings.Join(args, ", "))
}
