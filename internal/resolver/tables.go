package resolver

import (
	"github.com/emboss-project/embossc/internal/diag"
	"github.com/emboss-project/embossc/internal/ir"
)

// Tables is the scope tree built by BuildTables: one Scope per module
// and one per type definition, keyed so later passes can find the
// scope owning any node without re-walking the tree.
type Tables struct {
	modules map[string]*Scope // keyed by SourceFileName
	types   map[string]*Scope // keyed by CanonicalName.String()
}

func (t *Tables) ModuleScope(fileName string) (*Scope, bool) {
	s, ok := t.modules[fileName]
	return s, ok
}

func (t *Tables) TypeScope(name ir.CanonicalName) (*Scope, bool) {
	s, ok := t.types[name.String()]
	return s, ok
}

// BuildTables constructs the scope tree: phase one of symbol
// resolution (spec.md §4.B). Grounded on the teacher's
// internal/types/scope.go construction pass and
// original_source/compiler/front_end/symbol_resolver.py's
// _construct_symbol_tables.
func BuildTables(program *ir.Ir) (*Tables, diag.List) {
	t := &Tables{modules: map[string]*Scope{}, types: map[string]*Scope{}}
	var errs diag.List

	for _, mod := range program.Modules {
		moduleScope := NewScope(nil, ir.CanonicalName{ModuleFile: mod.SourceFileName})
		t.modules[mod.SourceFileName] = moduleScope
	}

	// Pass 1: bind every top-level type name into its module scope, and
	// recursively build a scope per type definition, before any
	// cross-module alias/anonymous-import wiring -- so that wiring can
	// freely look up any module's top-level names.
	for _, mod := range program.Modules {
		moduleScope := t.modules[mod.SourceFileName]
		for _, def := range mod.Types {
			errs = append(errs, t.bindType(moduleScope, def, Searchable)...)
		}
	}

	// Pass 2: wire imports. `import "x.emb" as x` adds an alias entry
	// named "x" to the importing module's scope; an anonymous import
	// (local_name == "") merges the imported module's Searchable
	// top-level names directly in, as the prelude does implicitly for
	// every module.
	for _, mod := range program.Modules {
		moduleScope := t.modules[mod.SourceFileName]
		for _, imp := range mod.Imports {
			importedScope, ok := t.modules[imp.FileName]
			if !ok {
				errs = append(errs, diag.Errorf(diag.StageSymbolResolution, diag.CodeNameUnknown, imp.Location,
					"cannot find imported module %q", imp.FileName))
				continue
			}
			if imp.LocalName == "" {
				for name, entry := range importedScope.Entries {
					if entry.Visibility != Searchable {
						continue
					}
					if existing, dup := moduleScope.Insert(&Entry{
						Name: name, Visibility: Searchable, Target: entry.Target, Location: imp.Location,
					}); dup {
						errs = append(errs, diag.Errorf(diag.StageSymbolResolution, diag.CodeNameAmbiguous, imp.Location,
							"name %q from anonymous import of %q collides with existing definition", name, imp.FileName).
							WithNote(existing.Location, "other definition here"))
					}
				}
				continue
			}
			if existing, dup := moduleScope.Insert(&Entry{
				Name: imp.LocalName, Visibility: Searchable, IsAlias: true,
				Target: ir.CanonicalName{ModuleFile: imp.FileName}, Location: imp.Location,
			}); dup {
				errs = append(errs, diag.Errorf(diag.StageSymbolResolution, diag.CodeNameDuplicate, imp.Location,
					"import local name %q already in use", imp.LocalName).
					WithNote(existing.Location, "other definition here"))
			}
			moduleScope.Children[imp.LocalName] = importedScope
		}
		// Every module implicitly searches the prelude.
		if preludeScope, ok := t.modules[""]; ok && mod.SourceFileName != "" {
			for name, entry := range preludeScope.Entries {
				moduleScope.Insert(&Entry{Name: name, Visibility: Searchable, Target: entry.Target})
			}
		}
	}

	return t, errs
}

// bindType binds def's own name into parent (unless def is anonymous),
// builds def's member scope, and recurses into its subtypes, binding
// each named subtype into def's member scope.
func (t *Tables) bindType(parent *Scope, def *ir.TypeDefinition, vis Visibility) diag.List {
	var errs diag.List
	if !def.Name.IsAnonymous {
		if existing, dup := parent.Insert(&Entry{
			Name: lastComponent(def.Name.Name), Visibility: vis, Target: def.Name.Name, Location: def.Name.Location,
		}); dup {
			errs = append(errs, diag.Errorf(diag.StageSymbolResolution, diag.CodeNameDuplicate, def.Name.Location,
				"type %q redefines an existing name", lastComponent(def.Name.Name)).
				WithNote(existing.Location, "other definition here"))
		}
	}

	typeScope := NewScope(parent, def.Name.Name)
	t.types[def.Name.Name.String()] = typeScope
	if !def.Name.IsAnonymous {
		parent.Children[lastComponent(def.Name.Name)] = typeScope
	}

	for _, p := range def.Parameters {
		if existing, dup := typeScope.Insert(&Entry{
			Name: lastComponent(p.Name.Name), Visibility: Local, Target: p.Name.Name, Location: p.Name.Location,
		}); dup {
			errs = append(errs, diag.Errorf(diag.StageSymbolResolution, diag.CodeNameDuplicate, p.Name.Location,
				"parameter %q redefines an existing name", lastComponent(p.Name.Name)).
				WithNote(existing.Location, "other definition here"))
		}
	}

	switch def.DefinitionKind {
	case ir.StructureKind:
		if def.Structure != nil {
			for _, f := range def.Structure.Fields {
				errs = append(errs, t.bindField(typeScope, f)...)
			}
		}
	case ir.EnumKind:
		if def.Enum != nil {
			for _, v := range def.Enum.Values {
				if existing, dup := typeScope.Insert(&Entry{
					Name: lastComponent(v.Name.Name), Visibility: Local, Target: v.Name.Name, Location: v.Name.Location,
				}); dup {
					errs = append(errs, diag.Errorf(diag.StageSymbolResolution, diag.CodeNameDuplicate, v.Name.Location,
						"enumerator %q redefines an existing name", lastComponent(v.Name.Name)).
						WithNote(existing.Location, "other definition here"))
				}
			}
		}
	}

	for _, sub := range def.Subtypes {
		errs = append(errs, t.bindType(typeScope, sub, Searchable)...)
	}

	return errs
}

func (t *Tables) bindField(scope *Scope, f *ir.Field) diag.List {
	var errs diag.List
	name := lastComponent(f.Name.Name)
	if existing, dup := scope.Insert(&Entry{Name: name, Visibility: Local, Target: f.Name.Name, Location: f.Name.Location}); dup {
		errs = append(errs, diag.Errorf(diag.StageSymbolResolution, diag.CodeNameDuplicate, f.Name.Location,
			"field %q redefines an existing name", name).
			WithNote(existing.Location, "other definition here"))
	}
	if f.Abbreviation != "" {
		if existing, dup := scope.Insert(&Entry{Name: f.Abbreviation, Visibility: Private, Target: f.Name.Name, Location: f.Name.Location}); dup {
			errs = append(errs, diag.Errorf(diag.StageSymbolResolution, diag.CodeNameDuplicate, f.Name.Location,
				"abbreviation %q collides with an existing name", f.Abbreviation).
				WithNote(existing.Location, "other definition here"))
		}
	}
	return errs
}

func lastComponent(n ir.CanonicalName) string {
	if len(n.ObjectPath) == 0 {
		return ""
	}
	return n.ObjectPath[len(n.ObjectPath)-1]
}
