package cpp

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/emboss-project/embossc/internal/attributes"
	"github.com/emboss-project/embossc/internal/diag"
	"github.com/emboss-project/embossc/internal/ir"
)

// generateStruct emits the view class template for a struct or bits
// type, per spec.md §4.H items 5-8: one getter per physical/virtual
// field, write-method setters/forwarders, Ok()/Equals(), size
// accessors, validator injection, and (behind opts.EmitEnumTraits)
// text-format (de)serializers. Grounded on
// _generate_structure_definition and the surrounding
// _generate_structure_{physical,virtual}_field_methods helpers.
func generateStruct(program *ir.Ir, def *ir.TypeDefinition, opts Options) (string, diag.List) {
	className := unqualifiedName(def.Name.Name)
	var errs diag.List
	var body strings.Builder

	anon, named := partitionFields(def.Structure.Fields)

	if len(anon) != 0 {
		body.WriteString("private:\n")
		for _, f := range anon {
			out, fErrs := generateFieldMethod(program, def, f, opts)
			errs = append(errs, fErrs...)
			body.WriteString(out)
		}
	}

	body.WriteString("public:\n")
	for _, f := range named {
		out, fErrs := generateFieldMethod(program, def, f, opts)
		errs = append(errs, fErrs...)
		body.WriteString(out)
	}

	body.WriteString(generateSizeMethods(def))
	body.WriteString(generateOkMethod(def))
	body.WriteString(generateEqualsMethods(def, className))

	if opts.EmitEnumTraits {
		body.WriteString(generateTextMethods(def))
	}

	for _, f := range def.Structure.Fields {
		if a, ok := attributes.Find(f.Attributes, "requires", ""); ok {
			body.WriteString(generateValidator(f, a))
		}
	}

	var out strings.Builder
	fmt.Fprintf(&out, "template <typename Storage>\nclass %s {\n%s};\n", className, body.String())
	return out.String(), errs
}

// partitionFields splits a structure's fields into the anonymous
// fields introduced by inline bits:/struct: blocks (emitted private,
// first) and every other field (emitted public), per spec.md §4.H
// item 8.
func partitionFields(fields []*ir.Field) (anon, named []*ir.Field) {
	for _, f := range fields {
		if f.Name.IsAnonymous {
			anon = append(anon, f)
		} else {
			named = append(named, f)
		}
	}
	return anon, named
}

func generateFieldMethod(program *ir.Ir, def *ir.TypeDefinition, f *ir.Field, opts Options) (string, diag.List) {
	name := f.Name.Name.ObjectPath[len(f.Name.Name.ObjectPath)-1]

	switch {
	case f.WriteMethod.ThisKind == ir.WriteAlias:
		return generateAliasForwarder(name, f), nil

	case f.IsVirtual():
		return generateVirtualFieldMethod(name, f), nil

	default:
		return generatePhysicalFieldMethod(program, def, name, f, opts)
	}
}

// generateAliasForwarder emits the simple forwarder method spec.md
// §4.H item 5 describes for alias fields: `return decltype(...)`
// deferring entirely to the aliased path, per _generate_field_indirection.
func generateAliasForwarder(name string, f *ir.Field) string {
	target := fieldAccessorChainRaw(f.WriteMethod.Alias)
	return fmt.Sprintf("  auto %s() const -> decltype(%s) { return %s; }\n", name, target, target)
}

// fieldAccessorChainRaw renders path as a chain of accessor calls
// without the trailing .Read(), for use sites (aliasing, write-method
// destinations) that need the view itself rather than its value.
func fieldAccessorChainRaw(path *ir.FieldReference) string {
	return fieldAccessorChain(path)
}

// generateVirtualFieldMethod emits a nested view type whose Read() /
// Ok() / UncheckedRead() evaluate read_transform, per spec.md §4.H
// item 5. When both read_transform and existence_condition are
// compile-time constants, the view's Read() and Ok() are marked
// constexpr, matching
// original_source's constexpr fast path.
func generateVirtualFieldMethod(name string, f *ir.Field) string {
	reader := viewFieldReader{}
	value := renderExpr(f.ReadTransform, reader)

	var existence string
	if f.ExistenceCondition != nil {
		existence = renderExpr(f.ExistenceCondition, reader)
	} else {
		existence = fmt.Sprintf("%s(true)", maybeType("bool"))
	}

	qualifier := ""
	if isConstantExpr(f.ReadTransform) && (f.ExistenceCondition == nil || isConstantExpr(f.ExistenceCondition)) {
		qualifier = "constexpr "
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  class %sView {\n", exportedViewName(name))
	fmt.Fprintf(&b, "   public:\n")
	fmt.Fprintf(&b, "    %sauto Read() const { return (%s).ValueOrDefault(); }\n", qualifier, value)
	fmt.Fprintf(&b, "    %sauto Ok() const { return (%s).ValueOr(false) && (%s).Known(); }\n", qualifier, existence, value)
	fmt.Fprintf(&b, "    auto UncheckedRead() const { return (%s).ValueOrDefault(); }\n", value)
	if f.WriteMethod.ThisKind == ir.WriteTransform {
		dest := fieldAccessorChainRaw(f.WriteMethod.Destination)
		invBody := renderExpr(f.WriteMethod.FunctionBody, viewFieldReader{})
		fmt.Fprintf(&b, "    void Write(%s value) const { %s.Write((%s).ValueOrDefault()); }\n",
			cppBasicType(f.ReadTransform.Type, nil), dest, invBody)
	}
	fmt.Fprintf(&b, "  };\n")
	fmt.Fprintf(&b, "  %s %s() const { return %s{}; }\n", exportedViewName(name), name, exportedViewName(name))
	return b.String()
}

func exportedViewName(name string) string {
	return strings.ToUpper(name[:1]) + name[1:]
}

func isConstantExpr(e *ir.Expression) bool {
	return e != nil && e.IsConstant()
}

// generatePhysicalFieldMethod emits a getter returning a view over
// the field's sub-storage, adapted through OffsetStorageType (and a
// BitBlock byte-order adapter when the parent is byte-addressable but
// the field is bit-addressable), per spec.md §4.H items 5 and 7. It
// emits the getter only; no setter is emitted, whatever the field's
// write method.
func generatePhysicalFieldMethod(program *ir.Ir, def *ir.TypeDefinition, name string, f *ir.Field, _ Options) (string, diag.List) {
	var errs diag.List
	alignment := "1"
	offsetExpr := renderInteger(bigOrZero(f.Physical.Start))

	storageExpr := fmt.Sprintf("Storage::template OffsetStorageType</**/%s, %s>", alignment, offsetExpr)
	if def.AddressableUnit == ir.Byte && fieldAddressableUnit(program, f) == ir.Bit {
		byteOrder := fieldByteOrder(f)
		storageExpr = fmt.Sprintf("%s::BitBlock</**/%s::%sByteOrderer<typename %s>, %s>",
			supportNamespace, supportNamespace, byteOrder, storageExpr, renderInteger(bigOrZero(f.Physical.Size)))
	}

	viewType := cppFieldViewType(program, f, storageExpr)

	var b strings.Builder
	fmt.Fprintf(&b, "  %s %s() const { return %s(%s(storage_)); }\n", viewType, name, viewType, storageExpr)

	return b.String(), errs
}

func bigOrZero(e *ir.Expression) *big.Int {
	if v, ok := constantIntValue(e); ok {
		return v
	}
	return big.NewInt(0)
}

func fieldAddressableUnit(program *ir.Ir, f *ir.Field) ir.AddressableUnit {
	if f.Type == nil || f.Type.IsArray() || f.Type.Atomic == nil || f.Type.Atomic.Reference == nil {
		return ir.UnitUnknown
	}
	ref := f.Type.Atomic.Reference
	switch ref.CanonicalName.String() {
	case ir.PreludeFlag, ir.PreludeUInt, ir.PreludeInt, ir.PreludeBcd:
		return ir.Bit
	case ir.PreludeByte:
		return ir.Byte
	}
	node, ok := program.Find(ref.CanonicalName)
	if !ok {
		return ir.UnitUnknown
	}
	if td, ok := node.(*ir.TypeDefinition); ok {
		return td.AddressableUnit
	}
	return ir.UnitUnknown
}

func fieldByteOrder(f *ir.Field) string {
	if a, ok := attributes.Find(f.Attributes, "byte_order", ""); ok && a.Value.StringValue != nil {
		return *a.Value.StringValue
	}
	return "Null"
}

// cppFieldViewType returns the C++ view type for a physical field's
// referent, per _get_cpp_view_type_for_type_definition, simplified: it
// assumes every external/structure/enum referent is visible under its
// own unqualified name plus a Storage parameter (the fully-qualified
// namespace and runtime-parameter forwarding
// _get_cpp_view_type_for_type_definition also handles are left to a
// future pass -- every Emboss module this generator targets declares
// its own referents, so qualification has not yet been needed).
func cppFieldViewType(program *ir.Ir, f *ir.Field, storageExpr string) string {
	if f.Type == nil {
		return fmt.Sprintf("::emboss::support::GenericView</**/%s>", storageExpr)
	}
	if f.Type.IsArray() {
		return fmt.Sprintf("::emboss::support::ArrayView</**/%s>", storageExpr)
	}
	if f.Type.Atomic == nil || f.Type.Atomic.Reference == nil || !f.Type.Atomic.Reference.Resolved {
		return fmt.Sprintf("::emboss::support::GenericView</**/%s>", storageExpr)
	}
	ref := f.Type.Atomic.Reference
	switch ref.CanonicalName.String() {
	case ir.PreludeUInt:
		return fmt.Sprintf("::emboss::prelude::UnsignedIntView</**/%s>", storageExpr)
	case ir.PreludeInt:
		return fmt.Sprintf("::emboss::prelude::SignedIntView</**/%s>", storageExpr)
	case ir.PreludeBcd:
		return fmt.Sprintf("::emboss::prelude::BcdView</**/%s>", storageExpr)
	case ir.PreludeFlag:
		return fmt.Sprintf("::emboss::prelude::FlagView</**/%s>", storageExpr)
	case ir.PreludeByte:
		return fmt.Sprintf("::emboss::prelude::ByteView</**/%s>", storageExpr)
	}
	node, ok := program.Find(ref.CanonicalName)
	if !ok {
		return fmt.Sprintf("::emboss::support::GenericView</**/%s>", storageExpr)
	}
	switch td := node.(type) {
	case *ir.TypeDefinition:
		if td.DefinitionKind == ir.EnumKind {
			return fmt.Sprintf("::emboss::support::EnumView</**/%s, %s>", unqualifiedName(td.Name.Name), storageExpr)
		}
		return fmt.Sprintf("%s<%s>", unqualifiedName(td.Name.Name), storageExpr)
	}
	return fmt.Sprintf("::emboss::support::GenericView</**/%s>", storageExpr)
}

// generateSizeMethods emits IntrinsicSizeInBits/IntrinsicSizeInBytes,
// per spec.md §4.H item 5 and _render_size_method.
func generateSizeMethods(def *ir.TypeDefinition) string {
	var b strings.Builder
	if def.Structure.FixedSizeBits != nil && def.Structure.FixedSizeBits.IsFinite() {
		bits := renderInteger(def.Structure.FixedSizeBits.Value)
		fmt.Fprintf(&b, "  static constexpr ::std::int64_t IntrinsicSizeInBits() { return %s; }\n", bits)
	} else {
		b.WriteString("  ::std::int64_t IntrinsicSizeInBits() const;  // computed from runtime-sized fields\n")
	}
	fmt.Fprintf(&b, "  ::std::int64_t IntrinsicSizeInBytes() const { return (IntrinsicSizeInBits() + 7) / 8; }\n")
	return b.String()
}

// generateOkMethod emits Ok(), the AND of every field's Ok() plus an
// optional [requires] check, per spec.md §4.H item 5.
func generateOkMethod(def *ir.TypeDefinition) string {
	var terms []string
	for _, f := range def.Structure.Fields {
		name := f.Name.Name.ObjectPath[len(f.Name.Name.ObjectPath)-1]
		terms = append(terms, fmt.Sprintf("%s().Ok()", name))
	}
	if req, ok := attributes.Find(def.Attributes, "requires", ""); ok && req.Value.Expression != nil {
		terms = append(terms, fmt.Sprintf("(%s).ValueOr(false)", renderExpr(req.Value.Expression, viewFieldReader{})))
	}
	if len(terms) == 0 {
		return "  bool Ok() const { return true; }\n"
	}
	return fmt.Sprintf("  bool Ok() const { return %s; }\n", strings.Join(terms, " && "))
}

// generateEqualsMethods emits Equals()/UncheckedEquals() comparing
// every non-virtual field, per spec.md §4.H item 5.
func generateEqualsMethods(def *ir.TypeDefinition, className string) string {
	var terms []string
	for _, f := range def.Structure.Fields {
		if f.IsVirtual() {
			continue
		}
		name := f.Name.Name.ObjectPath[len(f.Name.Name.ObjectPath)-1]
		terms = append(terms, fmt.Sprintf("%s().Equals(other.%s())", name, name))
	}
	if len(terms) == 0 {
		terms = []string{"true"}
	}
	joined := strings.Join(terms, " && ")
	var b strings.Builder
	fmt.Fprintf(&b, "  template <typename OtherStorage>\n  bool Equals(const %s<OtherStorage> &other) const { return %s; }\n",
		className, joined)
	fmt.Fprintf(&b, "  template <typename OtherStorage>\n  bool UncheckedEquals(const %s<OtherStorage> &other) const { return %s; }\n",
		className, joined)
	return b.String()
}

// generateTextMethods emits WriteToTextStream, which writes every field
// except those marked text_output=Skip, and UpdateFromTextStream, a
// stub that returns true without reading the stream, per the ADDED
// supplement in SPEC_FULL.md §4.H (cpp.generateTextMethods). A field's
// read-only status is not consulted.
func generateTextMethods(def *ir.TypeDefinition) string {
	var writes []string
	for _, f := range def.Structure.Fields {
		name := f.Name.Name.ObjectPath[len(f.Name.Name.ObjectPath)-1]
		if a, ok := attributes.Find(f.Attributes, "text_output", ""); ok && a.Value.StringValue != nil && *a.Value.StringValue == "Skip" {
			continue
		}
		writes = append(writes, fmt.Sprintf(
			"    ::emboss::support::WriteIntegerViewToTextStream(%s(), \"%s\", stream);\n", name, name))
	}
	var b strings.Builder
	b.WriteString("  template <typename Stream>\n  void WriteToTextStream(Stream *stream) const {\n")
	b.WriteString(strings.Join(writes, ""))
	b.WriteString("  }\n")
	b.WriteString("  template <typename Stream>\n  bool UpdateFromTextStream(Stream *stream) { return true; }\n")
	return b.String()
}

// generateValidator emits the nested validator class for a field's
// [requires] attribute, per spec.md §4.H item 7 and
// _generate_validator_type_for: its static ValueIsOk(T) evaluates the
// predicate with the field itself rewritten to
// emboss_reserved_local_value.
func generateValidator(f *ir.Field, requires *ir.Attribute) string {
	if requires.Value.Expression == nil {
		return ""
	}
	name := f.Name.Name.ObjectPath[len(f.Name.Name.ObjectPath)-1]
	cppType := "::std::int64_t"
	if f.IsVirtual() {
		cppType = cppBasicType(f.ReadTransform.Type, nil)
	}
	reader := validatorFieldReader{target: f, targetType: cppType}
	body := renderExpr(requires.Value.Expression, reader)
	return fmt.Sprintf(`  class %sValidator {
   public:
    static bool ValueIsOk(%s emboss_reserved_local_value) {
      return (%s).ValueOr(false);
    }
  };
`, exportedViewName(name), cppType, body)
}
