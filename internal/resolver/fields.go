package resolver

import (
	"github.com/emboss-project/embossc/internal/diag"
	"github.com/emboss-project/embossc/internal/ir"
)

// ResolveFieldPaths is phase three of symbol resolution: walks
// FieldReference.Tail() for every FieldReference whose Head is already
// resolved, requiring each non-terminal component to name a non-array
// atomic field of structure type, per spec.md §4.B and
// original_source/compiler/front_end/symbol_resolver.py's
// _resolve_field_references (there called once type information is
// available; here it only needs the Ir for field/type lookup, so it
// runs directly after Resolve -- typecheck re-validates that every
// terminal component denotes a field, not a parameter, once types are
// known).
func ResolveFieldPaths(program *ir.Ir) diag.List {
	var errs diag.List

	for _, mod := range program.Modules {
		for _, def := range mod.Types {
			errs = append(errs, walkTypeForFieldPaths(program, def)...)
		}
	}

	return errs
}

func walkTypeForFieldPaths(program *ir.Ir, def *ir.TypeDefinition) diag.List {
	var errs diag.List
	if def.DefinitionKind == ir.StructureKind && def.Structure != nil {
		for _, f := range def.Structure.Fields {
			errs = append(errs, resolveFieldRefsInField(program, f)...)
		}
	}
	for _, sub := range def.Subtypes {
		errs = append(errs, walkTypeForFieldPaths(program, sub)...)
	}
	return errs
}

func resolveFieldRefsInField(program *ir.Ir, f *ir.Field) diag.List {
	var errs diag.List
	visitExprsInField(f, func(e *ir.Expression) {
		fre, ok := e.Variety.(*ir.FieldReferenceExpr)
		if !ok || fre.Path == nil || fre.Path.Resolved {
			return
		}
		errs = append(errs, resolveOnePath(program, fre.Path)...)
	})
	return errs
}

func resolveOnePath(program *ir.Ir, fr *ir.FieldReference) diag.List {
	var errs diag.List
	head := fr.Head()
	if !head.Resolved {
		// Head failed in phase two; suppress cascading errors here.
		return nil
	}

	currentName := head.CanonicalName
	for _, step := range fr.Tail() {
		node, ok := program.Find(currentName)
		if !ok {
			errs = append(errs, diag.Errorf(diag.StageSymbolResolution, diag.CodeInternal, step.Location,
				"dangling canonical name %s", currentName.String()))
			return errs
		}
		field, ok := node.(*ir.Field)
		if !ok {
			errs = append(errs, diag.Errorf(diag.StageSymbolResolution, diag.CodeNameBadMember, step.Location,
				"%s is not a field", currentName.String()))
			return errs
		}
		if field.Type == nil || field.Type.IsArray() || field.Type.Atomic == nil {
			errs = append(errs, diag.Errorf(diag.StageSymbolResolution, diag.CodeNameBadMember, step.Location,
				"%q is not a non-array field of structure type", currentName.String()))
			return errs
		}
		structDef, ok := program.Find(field.Type.Atomic.Reference.CanonicalName)
		if !ok {
			errs = append(errs, diag.Errorf(diag.StageSymbolResolution, diag.CodeInternal, step.Location,
				"dangling type reference for field %q", currentName.String()))
			return errs
		}
		typeDef, ok := structDef.(*ir.TypeDefinition)
		if !ok || typeDef.DefinitionKind != ir.StructureKind {
			errs = append(errs, diag.Errorf(diag.StageSymbolResolution, diag.CodeNameBadMember, step.Location,
				"%q does not have structure type", currentName.String()))
			return errs
		}

		member := findFieldByLastName(typeDef, step.SourceName[len(step.SourceName)-1])
		if member == nil {
			errs = append(errs, diag.Errorf(diag.StageSymbolResolution, diag.CodeNameUnknown, step.Location,
				"%s has no member %q", typeDef.Name.Name.String(), step.SourcePath()))
			return errs
		}
		step.CanonicalName = member.Name.Name
		step.Resolved = true
		currentName = member.Name.Name
	}

	fr.Resolved = true
	return errs
}

func findFieldByLastName(def *ir.TypeDefinition, name string) *ir.Field {
	if def.Structure == nil {
		return nil
	}
	for _, f := range def.Structure.Fields {
		if lastComponent(f.Name.Name) == name {
			return f
		}
	}
	return nil
}

// visitExprsInField calls fn on every Expression reachable from f
// (location, size, existence condition, read transform), recursing
// through FunctionCall arguments so nested field references inside
// arithmetic are found too.
func visitExprsInField(f *ir.Field, fn func(*ir.Expression)) {
	var walk func(*ir.Expression)
	walk = func(e *ir.Expression) {
		if e == nil {
			return
		}
		fn(e)
		if call, ok := e.Variety.(*ir.FunctionCall); ok {
			for _, arg := range call.Args {
				walk(arg)
			}
		}
	}
	if f.Physical != nil {
		walk(f.Physical.Start)
		walk(f.Physical.Size)
	}
	walk(f.ExistenceCondition)
	walk(f.ReadTransform)
}
