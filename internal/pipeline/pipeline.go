// Package pipeline ties elaborate, genconstraint, unify, and subst into the
// iterated fixpoint loop spec.md §4 describes: elaborate once, then
// repeatedly generate constraints against the current typed tree, solve
// them, and push the result back through the tree, stopping once a pass
// produces no new bindings, a pass raises a fatal diagnostic, or a
// configurable iteration cap is hit.
// Grounded on the teacher's internal/pipeline.Run: a single entry point
// returning a Result alongside any diagnostics raised along the way.
package pipeline

import (
	"fmt"

	"github.com/tensorscript/tsc/internal/constraint"
	"github.com/tensorscript/tsc/internal/diag"
	"github.com/tensorscript/tsc/internal/elaborate"
	"github.com/tensorscript/tsc/internal/genconstraint"
	"github.com/tensorscript/tsc/internal/modreg"
	"github.com/tensorscript/tsc/internal/subst"
	"github.com/tensorscript/tsc/internal/tsast"
	"github.com/tensorscript/tsc/internal/tsenv"
	"github.com/tensorscript/tsc/internal/typedterm"
	"github.com/tensorscript/tsc/internal/unify"
)

// DefaultMaxIterations is the fixpoint loop's iteration cap (spec.md §4.4):
// past this many rounds without convergence, the pass reports
// InferenceNonConvergent instead of looping forever.
const DefaultMaxIterations = 16

// Config holds the pipeline's tunables.
type Config struct {
	// MaxIterations overrides DefaultMaxIterations; 0 selects the default.
	MaxIterations int
	// Registry overrides the default built-in prelude registry, e.g. to
	// inject a project's prelude.yaml extensions (SPEC_FULL.md §A.2).
	Registry *modreg.Registry
}

// Result is everything a caller needs after running the pipeline: the fully
// substituted typed program, every diagnostic raised, and how many fixpoint
// iterations it took.
type Result struct {
	Program    *typedterm.Program
	Reports    []*diag.Report
	Iterations int
}

// Run elaborates f, then iterates constraint generation, unification, and
// substitution to a fixpoint.
func Run(cfg Config, f *tsast.File) Result {
	maxIter := cfg.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	registry := cfg.Registry
	if registry == nil {
		registry = modreg.NewWithPrelude()
	}

	env := tsenv.New(registry)
	program := elaborate.New(env).File(f)

	sink := diag.NewSink()
	iterations := 0
	converged := false
	for ; iterations < maxIter; iterations++ {
		cs := constraint.NewSet()
		gen := genconstraint.New(env, cs, sink)
		gen.Program(program)

		if cs.IsEmpty() {
			converged = true
			break
		}

		u := unify.New(sink)
		s := u.Unify(cs)
		program = subst.Program(s, program)

		if sink.HasFatal() {
			break
		}
		if len(s) == 0 {
			converged = true
			break
		}
	}

	if !converged && !sink.HasFatal() {
		sink.Add(diag.New(diag.CodeInferenceNonConvergent,
			fmt.Sprintf("type inference did not converge within %d iteration(s)", maxIter), f.Span))
	}

	return Result{Program: program, Reports: sink.Reports(), Iterations: iterations}
}
