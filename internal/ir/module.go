package ir

// Import is a module-level `import "file.emb" as name` declaration.
// An empty LocalName denotes the implicitly-searched prelude.
type Import struct {
	FileName  string   `json:"file_name"`
	LocalName string   `json:"local_name,omitempty"`
	Location  Location `json:"location"`
}

func (i *Import) Kind() Kind    { return KindImport }
func (i *Import) Loc() Location { return i.Location }

// Module is one parsed .emb file's worth of IR: its module-scope
// attributes, top-level type definitions, and imports.
type Module struct {
	Attributes     []*Attribute      `json:"attribute,omitempty"`
	Types          []*TypeDefinition `json:"type,omitempty"`
	Imports        []*Import         `json:"import,omitempty"`
	SourceFileName string            `json:"source_file_name"`
}

func (m *Module) Kind() Kind    { return KindModule }
func (m *Module) Loc() Location { return Location{} }

// Ir is the whole-program intermediate representation: the main
// module plus the prelude and every transitively-imported module. By
// convention Modules[0] is the user's target module.
type Ir struct {
	Modules []*Module `json:"module"`

	// index is built lazily by Find and invalidated whenever a pass
	// might have introduced new canonical names (attribute defaulting
	// never does; only the loader populating Modules does). Unexported,
	// so it is never part of the §6 JSON wire format and is always nil
	// (hence lazily rebuilt) immediately after Unmarshal.
	index map[string]Node
}

func (ir *Ir) Kind() Kind    { return KindIr }
func (ir *Ir) Loc() Location { return Location{} }

// Main returns the user's target module, by convention Modules[0].
func (ir *Ir) Main() *Module {
	if len(ir.Modules) == 0 {
		return nil
	}
	return ir.Modules[0]
}

// InvalidateIndex discards the cached name index, forcing the next
// Find to rebuild it. Callers that add new TypeDefinitions, Fields, or
// EnumValues (e.g. a prelude loader, or inline-type hoisting) must
// call this.
func (ir *Ir) InvalidateIndex() { ir.index = nil }

func canonicalKey(name CanonicalName) string {
	return name.String()
}

// Find looks up a node by its CanonicalName. This is the single
// lookup-by-name mechanism the design notes (§9) call for in place of
// cross-tree owning pointers: a Reference never points directly at
// the TypeDefinition or Field it names, it is resolved into a
// CanonicalName and looked up here whenever a later pass needs the
// referent.
func (ir *Ir) Find(name CanonicalName) (Node, bool) {
	if ir.index == nil {
		ir.buildIndex()
	}
	n, ok := ir.index[canonicalKey(name)]
	return n, ok
}

func (ir *Ir) buildIndex() {
	ir.index = make(map[string]Node)
	for _, mod := range ir.Modules {
		for _, t := range mod.Types {
			ir.indexType(t)
		}
	}
}

func (ir *Ir) indexType(t *TypeDefinition) {
	ir.index[canonicalKey(t.Name.Name)] = t
	for _, p := range t.Parameters {
		ir.index[canonicalKey(p.Name.Name)] = p
	}
	switch t.DefinitionKind {
	case StructureKind:
		if t.Structure != nil {
			for _, f := range t.Structure.Fields {
				ir.index[canonicalKey(f.Name.Name)] = f
			}
		}
	case EnumKind:
		if t.Enum != nil {
			for _, v := range t.Enum.Values {
				ir.index[canonicalKey(v.Name.Name)] = v
			}
		}
	}
	for _, sub := range t.Subtypes {
		ir.indexType(sub)
	}
}
