// Package pipeline drives the fixed sequence of semantic passes over
// an ir.Ir: attribute normalization, symbol resolution, type
// checking, bounds inference, structural constraints, and
// write-method inference, aborting before the next stage whenever a
// stage reports any diagnostics (spec.md §4's "Failure semantics (all
// components)": "the driver aborts before the next pass"). Grounded
// on the teacher's cmd/malphas driver, which runs lexer -> parser ->
// checker -> codegen in the same abort-on-error-list style.
package pipeline

import (
	"github.com/emboss-project/embossc/internal/attributes"
	"github.com/emboss-project/embossc/internal/bounds"
	"github.com/emboss-project/embossc/internal/constraints"
	"github.com/emboss-project/embossc/internal/diag"
	"github.com/emboss-project/embossc/internal/ir"
	"github.com/emboss-project/embossc/internal/resolver"
	"github.com/emboss-project/embossc/internal/typecheck"
	"github.com/emboss-project/embossc/internal/writeinfer"
)

// Stage names one step of the pipeline, for callers that want to
// report which stage produced a given diagnostic batch.
type Stage string

const (
	StageAttributes  Stage = "attributes"
	StageSymbols     Stage = "symbols"
	StageTypeCheck   Stage = "type_check"
	StageBounds      Stage = "bounds"
	StageConstraints Stage = "constraints"
	StageWriteInfer  Stage = "write_infer"
)

// Result is what Run returns: the stage that stopped the pipeline (or
// "" if every stage completed cleanly) and its diagnostics.
type Result struct {
	Stage       Stage
	Diagnostics diag.List
}

// Run executes every semantic pass over program in pipeline order,
// stopping at the first stage that reports any diagnostics.
func Run(program *ir.Ir) Result {
	if errs := attributes.Normalize(program); len(errs) != 0 {
		return Result{Stage: StageAttributes, Diagnostics: errs}
	}

	tables, errs := resolver.BuildTables(program)
	if len(errs) != 0 {
		return Result{Stage: StageSymbols, Diagnostics: errs}
	}
	if errs := resolver.Resolve(program, tables); len(errs) != 0 {
		return Result{Stage: StageSymbols, Diagnostics: errs}
	}
	if errs := resolver.ResolveFieldPaths(program); len(errs) != 0 {
		return Result{Stage: StageSymbols, Diagnostics: errs}
	}

	if errs := typecheck.Check(program); len(errs) != 0 {
		return Result{Stage: StageTypeCheck, Diagnostics: errs}
	}

	if errs := bounds.Infer(program); len(errs) != 0 {
		return Result{Stage: StageBounds, Diagnostics: errs}
	}

	if errs := constraints.Check(program); len(errs) != 0 {
		return Result{Stage: StageConstraints, Diagnostics: errs}
	}

	if errs := writeinfer.Set(program); len(errs) != 0 {
		return Result{Stage: StageWriteInfer, Diagnostics: errs}
	}

	return Result{}
}

// Ok reports whether the pipeline completed every stage without
// diagnostics.
func (r Result) Ok() bool { return len(r.Diagnostics) == 0 }
