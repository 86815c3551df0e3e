package resolver

import (
	"github.com/emboss-project/embossc/internal/diag"
	"github.com/emboss-project/embossc/internal/ir"
	"github.com/emboss-project/embossc/internal/traverse"
)

// Resolve is phase two of symbol resolution: walk every Reference in
// the program and fill in its CanonicalName by searching the scope
// chain innermost-to-outermost, per
// original_source/compiler/front_end/symbol_resolver.py's
// _resolve_symbol. FieldReference.Path elements beyond the first are
// left untouched for ResolveFieldPaths.
func Resolve(program *ir.Ir, tables *Tables) diag.List {
	var errs diag.List

	traverse.Walk(program, []ir.Kind{ir.KindModule, ir.KindFieldReference},
		func(node ir.Node, params traverse.Params) {
			fileName, _ := params[traverse.ParamSourceFileName].(string)
			fr := node.(*ir.FieldReference)
			head := fr.Head()
			if head.Resolved {
				return
			}
			scope, ok := tables.ModuleScope(fileName)
			if !ok {
				errs = append(errs, diag.Errorf(diag.StageSymbolResolution, diag.CodeInternal, fr.Location,
					"no scope recorded for module %q", fileName))
				return
			}
			typeScope := enclosingTypeScope(tables, params)
			start := typeScope
			if start == nil {
				start = scope
			}
			name, resolveErrs := resolveName(start, head.SourceName, head.Location)
			errs = append(errs, resolveErrs...)
			if resolveErrs.HasErrors() {
				return
			}
			head.CanonicalName = name
			head.Resolved = true
		},
		traverse.Builtins()...,
	)

	// Also resolve bare ConstantReferenceExpr / AtomicType.Reference
	// references (type names used as an atomic type, or an enumerator
	// used as a constant), which are single References rather than a
	// FieldReference path.
	traverse.Walk(program, []ir.Kind{ir.KindModule, ir.KindReference},
		func(node ir.Node, params traverse.Params) {
			fileName, _ := params[traverse.ParamSourceFileName].(string)
			ref := node.(*ir.Reference)
			if ref.Resolved {
				return
			}
			scope, ok := tables.ModuleScope(fileName)
			if !ok {
				return
			}
			typeScope := enclosingTypeScope(tables, params)
			start := typeScope
			if start == nil {
				start = scope
			}
			name, resolveErrs := resolveName(start, ref.SourceName, ref.Location)
			errs = append(errs, resolveErrs...)
			if resolveErrs.HasErrors() {
				return
			}
			ref.CanonicalName = name
			ref.Resolved = true
		},
		append(traverse.Builtins(), traverse.Skip(ir.KindFieldReference))...,
	)

	return errs
}

func enclosingTypeScope(tables *Tables, params traverse.Params) *Scope {
	def, _ := params[traverse.ParamTypeDefinition].(*ir.TypeDefinition)
	if def == nil {
		return nil
	}
	scope, ok := tables.TypeScope(def.Name.Name)
	if !ok {
		return nil
	}
	return scope
}

// resolveName walks the scope chain from start outward, searching each
// scope for sourcePath[0]; a multi-component source name ("x.Foo")
// descends into the matched entry's child scope for each remaining
// component (used for import-alias-qualified type references). Returns
// the canonical name of the final component once fully resolved.
func resolveName(start *Scope, sourcePath []string, loc ir.Location) (ir.CanonicalName, diag.List) {
	if len(sourcePath) == 0 {
		return ir.CanonicalName{}, diag.List{diag.Errorf(diag.StageSymbolResolution, diag.CodeInternal, loc, "empty reference")}
	}

	// The chain search always stops at the innermost scope binding the
	// name (duplicate collisions within one Scope are already caught at
	// bind time by Tables.bindType/bindField, so no same-scope
	// candidate set can ever have more than one entrant).
	entry, owner, found := searchChain(start, sourcePath[0])
	if !found {
		return ir.CanonicalName{}, diag.List{diag.Errorf(diag.StageSymbolResolution, diag.CodeNameUnknown, loc,
			"unknown name %q", sourcePath[0])}
	}

	current := entry
	currentScope := owner
	for _, comp := range sourcePath[1:] {
		child, ok := currentScope.Children[lastComponent(current.Target)]
		if !ok {
			// Alias entries point at a module; their "child scope" is
			// recorded directly against the alias name instead.
			child, ok = currentScope.Children[current.Name]
		}
		if !ok {
			return ir.CanonicalName{}, diag.List{diag.Errorf(diag.StageSymbolResolution, diag.CodeNameBadMember, loc,
				"%q has no member %q", current.Name, comp)}
		}
		next, ok := child.LookupLocal(comp)
		if !ok {
			return ir.CanonicalName{}, diag.List{diag.Errorf(diag.StageSymbolResolution, diag.CodeNameUnknown, loc,
				"unknown name %q", comp)}
		}
		current = next
		currentScope = child
	}

	return current.Target, nil
}

// searchChain looks for name starting at scope and walking Parent
// links outward, stopping at the first scope that binds name (entry
// visibility is not consulted). It reports no diagnostics: same-scope
// collisions are already reported at bind time, and when two
// *different* scopes in the chain each bind the name, the innermost
// one wins rather than being an error, matching original_source's
// innermost-wins precedent.
func searchChain(scope *Scope, name string) (*Entry, *Scope, bool) {
	for s := scope; s != nil; s = s.Parent {
		if e, ok := s.LookupLocal(name); ok {
			return e, s, true
		}
	}
	return nil, nil, false
}
