// Package resolver implements symbol resolution (spec.md §4.B):
// building a scope tree mirroring the IR, then resolving every
// Reference and dotted FieldReference to a canonical name. Grounded on
// the teacher's internal/types/scope.go (a parent-chained Scope with
// Lookup), generalized with per-entry Visibility and Alias redirects.
package resolver

import "github.com/emboss-project/embossc/internal/ir"

// Visibility classifies a scope entry. Name lookup (searchChain,
// LookupLocal) does not consult it; BuildTables uses it to pick which
// entries of an anonymously imported module are merged into the
// importing module's scope (Searchable ones only).
type Visibility int

const (
	// Searchable marks names that may match an unqualified reference:
	// type names and top-level type names pulled in by an anonymous
	// import.
	Searchable Visibility = iota
	// Local marks member names: field names, parameter names, enum
	// values.
	Local
	// Private marks field abbreviations.
	Private
)

// Entry is one named thing reachable from a Scope: either a direct
// name bound to a CanonicalName, or an alias that transparently
// redirects lookups to another absolute path (used for `import "x.emb"
// as x`).
type Entry struct {
	Name       string
	Visibility Visibility
	Target     ir.CanonicalName
	IsAlias    bool
	Location   ir.Location
}

// Scope is one node of the scope tree: one per module, one per type
// definition (struct/bits/enum/external).
type Scope struct {
	Parent  *Scope
	Owner   ir.CanonicalName
	Entries map[string]*Entry
	// Children maps a local type name to its nested Scope, used to
	// walk child scopes of a matched entry for multi-component source
	// names (phase 2, step 4).
	Children map[string]*Scope
}

// NewScope creates an empty scope with the given parent and owner.
func NewScope(parent *Scope, owner ir.CanonicalName) *Scope {
	return &Scope{
		Parent:   parent,
		Owner:    owner,
		Entries:  make(map[string]*Entry),
		Children: make(map[string]*Scope),
	}
}

// Insert adds an entry, returning the pre-existing entry (and ok=true)
// if name was already bound in this scope -- callers use this to
// report "duplicate name" against the first occurrence.
func (s *Scope) Insert(e *Entry) (*Entry, bool) {
	if existing, ok := s.Entries[e.Name]; ok {
		return existing, true
	}
	s.Entries[e.Name] = e
	return nil, false
}

// LookupLocal returns the entry bound to name directly in this scope,
// without searching ancestors.
func (s *Scope) LookupLocal(name string) (*Entry, bool) {
	e, ok := s.Entries[name]
	return e, ok
}
