package traverse

import "github.com/emboss-project/embossc/internal/ir"

// schemaEdges is the static (kind -> possible child kinds) table
// matching Children's switch, used only to precompute reachability;
// it never looks at an actual node. This is the "for each
// (current-kind, target-kind) pair, the set of child fields that can
// reach the target" optimization spec.md §4.A calls for, implemented
// as a kind-level closure rather than a per-field closure (Go's lack
// of a generic node-children protocol makes a literal per-field table
// impractical; the kind-level version still prunes every subtree that
// provably cannot contain the target kind).
var schemaEdges = map[ir.Kind][]ir.Kind{
	ir.KindIr:             {ir.KindModule},
	ir.KindModule:         {ir.KindAttribute, ir.KindTypeDefinition, ir.KindImport},
	ir.KindTypeDefinition: {ir.KindAttribute, ir.KindRuntimeParameter, ir.KindStructure, ir.KindEnum, ir.KindExternal, ir.KindTypeDefinition},
	ir.KindStructure:      {ir.KindField},
	ir.KindEnum:           {ir.KindEnumValue},
	ir.KindExternal:       {ir.KindExpression},
	ir.KindEnumValue:      {ir.KindAttribute, ir.KindExpression},
	ir.KindField:          {ir.KindAttribute, ir.KindTypeRef, ir.KindExpression, ir.KindFieldLocation},
	ir.KindFieldLocation:  {ir.KindExpression},
	ir.KindTypeRef:        {ir.KindAtomicType, ir.KindArrayType, ir.KindExpression},
	ir.KindAtomicType:     {ir.KindReference, ir.KindExpression},
	ir.KindArrayType:      {ir.KindTypeRef, ir.KindExpression},
	ir.KindAttribute:      {ir.KindExpression},
	ir.KindExpression:     {ir.KindExpression, ir.KindFieldReference, ir.KindReference},
	ir.KindFieldReference: {ir.KindReference},
}

var reachMatrix map[ir.Kind]map[ir.Kind]bool

func init() {
	reachMatrix = make(map[ir.Kind]map[ir.Kind]bool)
	for from := range schemaEdges {
		reachMatrix[from] = bfsReachable(from)
	}
}

func bfsReachable(start ir.Kind) map[ir.Kind]bool {
	seen := map[ir.Kind]bool{start: true}
	queue := []ir.Kind{start}
	for len(queue) > 0 {
		k := queue[0]
		queue = queue[1:]
		for _, next := range schemaEdges[k] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}

// canReach reports whether a node of kind from could have, somewhere
// in its subtree (including itself), a node of kind target.
func canReach(from, target ir.Kind) bool {
	if from == target {
		return true
	}
	if m, ok := reachMatrix[from]; ok {
		return m[target]
	}
	return true // unknown kind: don't prune
}
