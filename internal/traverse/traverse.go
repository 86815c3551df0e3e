// Package traverse implements the single generic preorder walker that
// drives every semantic pass (spec.md §4.A), adapted from the teacher
// compiler's internal/ast.Walk switch-based walker and generalized the
// way spec.md asks: a pattern of node kinds that must be encountered
// nested in that order before the terminal action fires, incidental
// actions that thread context parameters down a subtree, a skip-set
// that prunes descendants entirely, and precomputed (current-kind,
// target-kind) reachability used to prune subtrees that provably
// cannot contain a pattern match.
package traverse

import "github.com/emboss-project/embossc/internal/ir"

// Params is the parameter map threaded through a traversal. Params
// maps are copy-on-write per branch: an incidental action may return a
// new Params value that overrides entries for its subtree only,
// leaving the caller's map and sibling subtrees untouched.
type Params map[string]any

// clone returns a shallow copy of p, or a fresh empty map if p is nil.
func (p Params) clone() Params {
	out := make(Params, len(p)+2)
	for k, v := range p {
		out[k] = v
	}
	return out
}

// merge returns a copy of p with overrides applied on top.
func (p Params) merge(overrides Params) Params {
	if len(overrides) == 0 {
		return p
	}
	out := p.clone()
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

const (
	// ParamIr is the whole-program IR, set before the traversal begins.
	ParamIr = "ir"
	// ParamSourceFileName is set on entering a Module.
	ParamSourceFileName = "source_file_name"
	// ParamTypeDefinition is set on entering a TypeDefinition.
	ParamTypeDefinition = "type_definition"
	// ParamField is set on entering a Field.
	ParamField = "field"
)

// Action is the terminal callback invoked at every full pattern match.
type Action func(node ir.Node, params Params)

// IncidentalAction runs whenever a node of its registered Kind is
// entered (whether or not it is part of a pattern match) and returns
// parameter overrides visible only to that node's subtree.
type IncidentalAction func(node ir.Node, params Params) Params

// Option configures a Walk call.
type Option func(*config)

type config struct {
	incidental map[ir.Kind][]IncidentalAction
	skip       map[ir.Kind]bool
	initial    Params
}

// OnEnter registers an incidental action for every node of the given
// kind encountered anywhere in the traversal (not just along pattern
// matches). The built-in incidental actions (Builtins) set
// source_file_name, type_definition, and field; ir is seeded with
// WithParams. OnEnter lets a pass add its own.
func OnEnter(kind ir.Kind, fn IncidentalAction) Option {
	return func(c *config) {
		c.incidental[kind] = append(c.incidental[kind], fn)
	}
}

// Skip prevents the walker from descending into the children of any
// node whose kind is listed; the nodes themselves are still visited
// (and may still match a pattern) but their subtrees are pruned.
func Skip(kinds ...ir.Kind) Option {
	return func(c *config) {
		for _, k := range kinds {
			c.skip[k] = true
		}
	}
}

// WithParams seeds the traversal's initial parameter map.
func WithParams(p Params) Option {
	return func(c *config) { c.initial = p }
}

// Walk drives a preorder traversal of root, invoking action at every
// node that completes pattern: pattern is an ordered (but not
// necessarily contiguous) subsequence of ancestor kinds ending at the
// node's own kind. A single-element pattern therefore matches every
// node of that kind anywhere under root.
func Walk(root ir.Node, pattern []ir.Kind, action Action, opts ...Option) {
	if len(pattern) == 0 {
		return
	}
	cfg := &config{
		incidental: make(map[ir.Kind][]IncidentalAction),
		skip:       make(map[ir.Kind]bool),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	initial := cfg.initial
	if initial == nil {
		initial = Params{}
	}
	w := &walker{cfg: cfg, pattern: pattern, action: action}
	w.visit(root, initial, 0)
}

type walker struct {
	cfg     *config
	pattern []ir.Kind
	action  Action
}

func (w *walker) visit(node ir.Node, params Params, matchIndex int) {
	if node == nil {
		return
	}
	kind := node.Kind()

	if fns, ok := w.cfg.incidental[kind]; ok {
		for _, fn := range fns {
			params = params.merge(fn(node, params))
		}
	}

	next := matchIndex
	if kind == w.pattern[matchIndex] {
		if matchIndex == len(w.pattern)-1 {
			w.action(node, params)
		} else {
			next = matchIndex + 1
		}
	}

	if w.cfg.skip[kind] {
		return
	}

	target := w.pattern[len(w.pattern)-1]
	if next < len(w.pattern) {
		target = w.pattern[next]
	}

	for _, child := range Children(node) {
		if child == nil {
			continue
		}
		if !canReach(child.Kind(), target) {
			continue
		}
		w.visit(child, params, next)
	}
}
