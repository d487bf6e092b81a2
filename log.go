package pacont

import (
	"io"

	"github.com/nlsolve/pacont/internal/pacontlog"
)

// Logger is the structured logger accepted by Hooks.Logger; it is an
// alias for go-kit/log's Logger via the internal pacontlog adapter.
type Logger = pacontlog.Logger

// NewLogfmtLogger returns a logfmt-encoded Logger writing to w.
func NewLogfmtLogger(w io.Writer) Logger {
	return pacontlog.NewLogfmtLogger(w)
}

func logNewtonIter(l Logger, iter int, residual float64, converged bool) {
	pacontlog.NewtonIteration(l, iter, residual, converged)
}

func logContinuationStep(l Logger, step int, p, ds float64, accepted bool, newtonIters int) {
	pacontlog.ContinuationStep(l, step, p, ds, accepted, newtonIters)
}

func logFoldMarker(l Logger, step int, p float64) {
	pacontlog.FoldMarker(l, step, p)
}
