package traverse

import "github.com/emboss-project/embossc/internal/ir"

// Builtins returns the standard incidental actions spec.md §4.A
// requires of every traversal: setting source_file_name on entering a
// Module, type_definition on entering a TypeDefinition, and field on
// entering a Field. ParamIr is expected to be supplied via
// WithParams, since the root Ir node does not appear as a child of
// anything.
func Builtins() []Option {
	return []Option{
		OnEnter(ir.KindModule, func(node ir.Node, _ Params) Params {
			m := node.(*ir.Module)
			return Params{ParamSourceFileName: m.SourceFileName}
		}),
		OnEnter(ir.KindTypeDefinition, func(node ir.Node, _ Params) Params {
			return Params{ParamTypeDefinition: node.(*ir.TypeDefinition)}
		}),
		OnEnter(ir.KindField, func(node ir.Node, _ Params) Params {
			return Params{ParamField: node.(*ir.Field)}
		}),
	}
}
