package traverse

import "github.com/emboss-project/embossc/internal/ir"

// Children enumerates the direct IR children of node in source order.
// This is the one place that understands the concrete shape of every
// IR node; every pass reaches the rest of the tree only through Walk.
func Children(node ir.Node) []ir.Node {
	switch n := node.(type) {
	case *ir.Ir:
		out := make([]ir.Node, 0, len(n.Modules))
		for _, m := range n.Modules {
			out = append(out, m)
		}
		return out

	case *ir.Module:
		var out []ir.Node
		for _, a := range n.Attributes {
			out = append(out, a)
		}
		for _, t := range n.Types {
			out = append(out, t)
		}
		for _, imp := range n.Imports {
			out = append(out, imp)
		}
		return out

	case *ir.Import:
		return nil

	case *ir.TypeDefinition:
		var out []ir.Node
		for _, a := range n.Attributes {
			out = append(out, a)
		}
		for _, p := range n.Parameters {
			out = append(out, p)
		}
		switch n.DefinitionKind {
		case ir.StructureKind:
			if n.Structure != nil {
				out = append(out, n.Structure)
			}
		case ir.EnumKind:
			if n.Enum != nil {
				out = append(out, n.Enum)
			}
		case ir.ExternalKind:
			if n.External != nil {
				out = append(out, n.External)
			}
		}
		for _, sub := range n.Subtypes {
			out = append(out, sub)
		}
		return out

	case *ir.Structure:
		var out []ir.Node
		for _, f := range n.Fields {
			out = append(out, f)
		}
		return out

	case *ir.Enum:
		var out []ir.Node
		for _, v := range n.Values {
			out = append(out, v)
		}
		return out

	case *ir.External:
		if n.StaticRequirements != nil {
			return []ir.Node{n.StaticRequirements}
		}
		return nil

	case *ir.EnumValue:
		var out []ir.Node
		for _, a := range n.Attributes {
			out = append(out, a)
		}
		if n.Value != nil {
			out = append(out, n.Value)
		}
		return out

	case *ir.RuntimeParameter:
		return nil

	case *ir.Field:
		var out []ir.Node
		for _, a := range n.Attributes {
			out = append(out, a)
		}
		if n.Type != nil {
			out = append(out, n.Type)
		}
		if n.ExistenceCondition != nil {
			out = append(out, n.ExistenceCondition)
		}
		if n.Physical != nil {
			out = append(out, n.Physical)
		}
		if n.ReadTransform != nil {
			out = append(out, n.ReadTransform)
		}
		return out

	case *ir.FieldLocation:
		var out []ir.Node
		if n.Start != nil {
			out = append(out, n.Start)
		}
		if n.Size != nil {
			out = append(out, n.Size)
		}
		return out

	case *ir.TypeRef:
		var out []ir.Node
		if n.Atomic != nil {
			out = append(out, n.Atomic)
		}
		if n.Array != nil {
			out = append(out, n.Array)
		}
		if n.SizeInBits != nil {
			out = append(out, n.SizeInBits)
		}
		return out

	case *ir.AtomicType:
		var out []ir.Node
		if n.Reference != nil {
			out = append(out, n.Reference)
		}
		for _, a := range n.RuntimeArguments {
			out = append(out, a)
		}
		return out

	case *ir.ArrayType:
		var out []ir.Node
		if n.Element != nil {
			out = append(out, n.Element)
		}
		if n.Size.Constant != nil {
			out = append(out, n.Size.Constant)
		}
		return out

	case *ir.Attribute:
		if n.Value.Expression != nil {
			return []ir.Node{n.Value.Expression}
		}
		return nil

	case *ir.Expression:
		switch v := n.Variety.(type) {
		case *ir.FunctionCall:
			out := make([]ir.Node, 0, len(v.Args))
			for _, a := range v.Args {
				out = append(out, a)
			}
			return out
		case *ir.FieldReferenceExpr:
			return []ir.Node{v.Path}
		case *ir.ConstantReferenceExpr:
			return []ir.Node{v.Reference}
		default:
			return nil
		}

	case *ir.FieldReference:
		out := make([]ir.Node, 0, len(n.Path))
		for _, r := range n.Path {
			out = append(out, r)
		}
		return out

	case *ir.Reference:
		return nil

	default:
		return nil
	}
}
