package pacont

import "errors"

// Error kinds surfaced by the numerical subroutines. Inside the Continue
// loop any corrector failure, whichever of these it carries, is treated
// as a step rejection; only setup failures are returned to the caller.
// The public entry points never panic for ordinary numerical trouble.
var (
	// ErrNonConvergence is returned when Newton exhausts maxIter without
	// reaching tol.
	ErrNonConvergence = errors.New("pacont: newton iteration did not converge")
	// ErrLinearSolveFailure is returned when the linear solver used
	// inside Newton fails to converge (GMRES) or the Jacobian is
	// singular (Direct).
	ErrLinearSolveFailure = errors.New("pacont: linear solve failed")
	// ErrNonFinite is returned when a NaN or Inf appears in a residual
	// or Jacobian evaluation.
	ErrNonFinite = errors.New("pacont: non-finite value encountered")
)

// Step-size-floor and user-abort termination are not reported as errors:
// per the propagation rule above, Continue always returns a non-nil
// Branch with a TerminalReason (StepSizeFloor, UserAbort, ...) and a nil
// error for this kind of ordinary termination; the error return is
// reserved for setup failures.
