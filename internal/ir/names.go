package ir

import "strings"

// CanonicalName is the globally unique identifier of any user-visible
// IR entity: the file that defines it plus its dotted path within
// that file. The prelude (built-in types such as UInt, Int, Bcd, Flag,
// Byte) uses the empty ModuleFile.
type CanonicalName struct {
	ModuleFile string   `json:"module_file,omitempty"`
	ObjectPath []string `json:"object_path"`
}

// String renders "file:a.b.c" (or just "a.b.c" for the prelude). It is
// used in diagnostics and also as a lookup key: Ir.Find's index, the
// resolver's type-scope table, and comparisons against prelude names.
func (c CanonicalName) String() string {
	path := strings.Join(c.ObjectPath, ".")
	if c.ModuleFile == "" {
		return path
	}
	return c.ModuleFile + ":" + path
}

// Equal compares two canonical names by value.
func (c CanonicalName) Equal(o CanonicalName) bool {
	if c.ModuleFile != o.ModuleFile || len(c.ObjectPath) != len(o.ObjectPath) {
		return false
	}
	for i := range c.ObjectPath {
		if c.ObjectPath[i] != o.ObjectPath[i] {
			return false
		}
	}
	return true
}

// Child returns a new CanonicalName with an extra path component.
func (c CanonicalName) Child(name string) CanonicalName {
	path := make([]string, len(c.ObjectPath)+1)
	copy(path, c.ObjectPath)
	path[len(path)-1] = name
	return CanonicalName{ModuleFile: c.ModuleFile, ObjectPath: path}
}

// NameDefinition attaches a canonical name to the node that owns it.
// IsAnonymous marks names that are hidden outside their immediate
// scope, such as the synthetic field introduced by an inline
// `struct:`/`bits:` block.
type NameDefinition struct {
	Name        CanonicalName `json:"name"`
	IsAnonymous bool          `json:"is_anonymous,omitempty"`
	Location    Location      `json:"location"`
}

// Reference carries the canonical name a use site resolves to, plus
// the path as the user actually wrote it (SourceName), which may be a
// local alias introduced by `import ... as x`. Resolution results are
// cached directly on the node: once Resolved is true, CanonicalName is
// final and every later pass may trust it without re-resolving.
type Reference struct {
	SourceName    []string      `json:"source_name"`
	CanonicalName CanonicalName `json:"canonical_name"`
	Resolved      bool          `json:"resolved,omitempty"`
	// IsLocalName marks references to a type defined inline (e.g. an
	// anonymous `struct:`/`bits:` block scoped to one field); such
	// references stop at the first scope match instead of treating a
	// same-named sibling in an outer scope as an ambiguity.
	IsLocalName bool     `json:"is_local_name,omitempty"`
	Location    Location `json:"location"`
}

func (r *Reference) Kind() Kind    { return KindReference }
func (r *Reference) Loc() Location { return r.Location }

// SourcePath joins SourceName for diagnostics, e.g. "a.b.c".
func (r *Reference) SourcePath() string {
	return strings.Join(r.SourceName, ".")
}

// FieldReference is a nonempty ordered path of References representing
// a dotted member access such as `a.b.c`. The head is resolved by the
// symbol resolver against the enclosing scope chain; every subsequent
// element is resolved by the dedicated member-access pass
// (internal/resolver.ResolveFieldPaths), which requires each
// non-terminal element to be a non-array atomic field of structure
// type.
type FieldReference struct {
	Path     []*Reference `json:"path"`
	Resolved bool         `json:"resolved,omitempty"`
	Location Location     `json:"location"`
}

func (f *FieldReference) Kind() Kind    { return KindFieldReference }
func (f *FieldReference) Loc() Location { return f.Location }

// Head is the first, resolved-by-scope element of the path.
func (f *FieldReference) Head() *Reference { return f.Path[0] }

// Tail is the dotted-member-access remainder of the path (may be
// empty for a bare, single-component reference).
func (f *FieldReference) Tail() []*Reference { return f.Path[1:] }
