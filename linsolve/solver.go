package linsolve

import "github.com/nlsolve/pacont/vector"

// Solver solves J*x = b for an Operator J, and the shifted variant
// (J + sigma*I)*x = b. Direct requires a DenseOperator; GMRES works with
// any Operator. A solver never mutates b.
type Solver interface {
	// Solve returns x, whether the solve converged, and the number of
	// iterations taken (0 for Direct, meaning "not applicable").
	Solve(op Operator, b vector.Vector) (x vector.Vector, converged bool, iters int, err error)
	// SolveShifted solves (J + sigma*I)*x = b. sigma = 0 is a fast path
	// equivalent to Solve.
	SolveShifted(op Operator, b vector.Vector, sigma float64) (x vector.Vector, converged bool, iters int, err error)
}
