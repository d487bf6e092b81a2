package pacont

import "github.com/nlsolve/pacont/linsolve"

// DefaultFDStep is the finite-difference step used for ∂F/∂p in the
// tangent predictor and for the period derivative in the periodic-orbit
// residual. The source this spec is drawn from hard-codes 1e-9; here it
// is a named default. Continue's ∂F/∂p step can be overridden per
// ContinuationOptions.FDStep; the periodic and fold packages use this
// constant directly.
const DefaultFDStep = 1e-9

// DefaultFoldFDStep is the finite-difference step used for the <b, w>
// row of the fold-refinement Jacobian when no second-derivative operator
// is supplied.
const DefaultFoldFDStep = 1e-8

// maxBacktrack caps the number of step halvings in Newton's line search.
const maxBacktrack = 8

// NewtonOptions configures a single Newton solve.
type NewtonOptions struct {
	// Tol is the residual-norm threshold for declaring convergence.
	Tol float64
	// MaxIter caps the number of Newton iterations.
	MaxIter int
	// Linesearch enables backtracking halving on the Newton step.
	Linesearch bool
	// Verbose logs each iteration's residual norm via the supplied
	// Logger (see Hooks.Logger / Continue).
	Verbose bool
}

// TangentAlgorithm names a tangent predictor. Continue does not read
// ContinuationOptions.TangentAlgorithm: it builds every tangent with
// BorderedTangent whatever the field holds.
type TangentAlgorithm uint8

const (
	// SecantAlgorithm uses the two-point secant tangent.
	SecantAlgorithm TangentAlgorithm = iota
	// BorderedAlgorithm solves the bordered system for an exact tangent.
	BorderedAlgorithm
)

// ContinuationOptions configures a single Continue run. It is a plain
// value type: per the teacher's own in-place mutation of a shared
// options struct being a known footgun (Design Notes §9), callers pass
// overrides explicitly rather than mutating a shared record between
// calls.
type ContinuationOptions struct {
	DSMin, DSMax, DS0 float64

	// Growth and Shrink independently scale ds after a success/failure,
	// exposed separately rather than reusing one factor squared for
	// shrink (Design Notes §9 open question, resolved in DESIGN.md).
	Growth, Shrink float64

	// Theta is the arclength-scaling weight theta in (0, 1).
	Theta float64

	PMin, PMax float64
	MaxSteps   int

	Newton NewtonOptions

	DetectFold         bool
	DoArcLengthScaling bool
	TangentAlgorithm   TangentAlgorithm

	// DesiredIter is the Newton iteration count at or below which a
	// corrector step is accepted. A corrector that converges but takes
	// more than DesiredIter iterations is rejected exactly like a
	// non-converging one: ds is shrunk and the step is retried (§4.5
	// step 3).
	DesiredIter int

	// FDStep overrides DefaultFDStep for ∂F/∂p.
	FDStep float64
}

func (o ContinuationOptions) withDefaults() ContinuationOptions {
	if o.FDStep == 0 {
		o.FDStep = DefaultFDStep
	}
	if o.DesiredIter == 0 {
		o.DesiredIter = o.Newton.MaxIter
	}
	return o
}

// Hooks carries the pluggable strategy objects for a Continue run: the
// linear solver, the norm override, the per-step finalise callback, and
// the logger. All are optional.
type Hooks struct {
	// LinearSolver is used by both Newton and the tangent predictor's
	// bordered solves. Defaults to linsolve.NewDirect().
	LinearSolver linsolve.Solver

	// NormFn overrides Vector.Norm for convergence checks.
	NormFn normFunc

	// Finalise is invoked after each accepted step with the new point,
	// its tangent, the step index, and the branch so far. Returning
	// false aborts the run cleanly: Continue returns with a nil error
	// and branch.Reason set to UserAbort.
	Finalise func(x Vector, t Tangent, step int, branch *Branch) bool

	// Logger receives structured key/value log lines when
	// NewtonOptions.Verbose is set. Nil disables logging.
	Logger Logger
}
