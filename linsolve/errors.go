package linsolve

import "errors"

// ErrSingular is wrapped into the error returned by Direct when the
// Jacobian (or its shifted form) is singular to working precision.
var ErrSingular = errors.New("pacont/linsolve: matrix is singular")

// ErrNotConverged is wrapped into the error returned by GMRES when the
// residual does not drop below tolerance within MaxIters.
var ErrNotConverged = errors.New("pacont/linsolve: gmres did not converge")
