// Package writeinfer sets every Field's WriteMethod (spec.md §4.G):
// physical fields write directly; a virtual field that is a bare
// alias of a writeable field (`let v = some_field`) is itself
// writeable; a virtual field whose read transform is an invertible
// function of exactly one field reference gets a synthesized inverse
// expression; everything else is read-only. Grounded on
// original_source/compiler/front_end/write_inference.py.
package writeinfer

import (
	"github.com/emboss-project/embossc/internal/attributes"
	"github.com/emboss-project/embossc/internal/bounds"
	"github.com/emboss-project/embossc/internal/diag"
	"github.com/emboss-project/embossc/internal/ir"
)

// Set runs write-method inference over every field in the program.
func Set(program *ir.Ir) diag.List {
	var errs diag.List
	for _, mod := range program.Modules {
		for _, def := range mod.Types {
			errs = append(errs, setType(program, def)...)
		}
	}
	return errs
}

func setType(program *ir.Ir, def *ir.TypeDefinition) diag.List {
	var errs diag.List
	if def.DefinitionKind == ir.StructureKind && def.Structure != nil {
		for _, f := range def.Structure.Fields {
			errs = append(errs, addWriteMethod(program, f)...)
		}
	}
	for _, sub := range def.Subtypes {
		errs = append(errs, setType(program, sub)...)
	}
	return errs
}

// addWriteMethod implements _add_write_method: it is safe to call more
// than once on the same field (it recomputes nothing once
// field.WriteMethod.ThisKind is set), which is what lets a virtual
// field's inversion recursively resolve its target's own writeability
// without tracking a separate visited set.
func addWriteMethod(program *ir.Ir, f *ir.Field) diag.List {
	if f.WriteMethod.ThisKind != ir.WriteMethodUnknown {
		return nil
	}

	if !f.IsVirtual() {
		f.WriteMethod.ThisKind = ir.WritePhysical
		return nil
	}

	_, requiresAttr := attributes.Find(f.Attributes, "requires", "")
	directRef, isBareFieldReference := f.ReadTransform.Variety.(*ir.FieldReferenceExpr)

	if !isBareFieldReference || requiresAttr {
		return invertAndSet(program, f)
	}

	referenced, ok := referencedField(program, directRef.Path)
	if !ok {
		f.WriteMethod.ThisKind = ir.WriteReadOnly
		return nil
	}

	errs := addWriteMethod(program, referenced)
	if referenced.WriteMethod.ThisKind == ir.WriteReadOnly {
		f.WriteMethod.ThisKind = ir.WriteReadOnly
		return errs
	}

	f.WriteMethod.ThisKind = ir.WriteAlias
	f.WriteMethod.Alias = directRef.Path
	return errs
}

func invertAndSet(program *ir.Ir, f *ir.Field) diag.List {
	inverse := invertExpression(f.ReadTransform)
	if inverse == nil {
		f.WriteMethod.ThisKind = ir.WriteReadOnly
		return nil
	}

	referenced, ok := referencedField(program, inverse.path)
	var errs diag.List
	if !ok {
		f.WriteMethod.ThisKind = ir.WriteReadOnly
		return nil
	}

	errs = append(errs, addWriteMethod(program, referenced)...)
	if referenced.WriteMethod.ThisKind == ir.WriteReadOnly {
		f.WriteMethod.ThisKind = ir.WriteReadOnly
		return errs
	}

	errs = append(errs, bounds.InferExpression(program, inverse.body)...)
	f.WriteMethod.ThisKind = ir.WriteTransform
	f.WriteMethod.Destination = inverse.path
	f.WriteMethod.FunctionBody = inverse.body
	return errs
}

// referencedField looks up the field a resolved FieldReference path
// terminates at; a path whose final component isn't a Field (e.g. a
// runtime parameter) reports ok=false.
func referencedField(program *ir.Ir, path *ir.FieldReference) (*ir.Field, bool) {
	if path == nil || len(path.Path) == 0 {
		return nil, false
	}
	last := path.Path[len(path.Path)-1]
	if !last.Resolved {
		return nil, false
	}
	node, ok := program.Find(last.CanonicalName)
	if !ok {
		return nil, false
	}
	f, ok := node.(*ir.Field)
	return f, ok
}
