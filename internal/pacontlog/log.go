// Package pacontlog adapts go-kit/log for the structured, per-iteration
// status lines Newton and Continue emit when verbose logging is
// requested. The key/value idiom (level, subsys, then the numeric
// payload) is grounded on Mission.LogStatus and OrbitEstimate's use of
// kitlog in the teacher repo.
package pacontlog

import (
	"io"

	kitlog "github.com/go-kit/kit/log"
)

// Logger is the structured logging interface pacont accepts; it is
// exactly go-kit/log's Logger so that callers can pass any existing
// kitlog.Logger straight through.
type Logger = kitlog.Logger

// NewLogfmtLogger returns a logfmt-encoded Logger writing to w, the same
// construction Mission/OrbitEstimate use for their default logger.
func NewLogfmtLogger(w io.Writer) Logger {
	return kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(w))
}

// NewtonIteration logs one Newton iteration's status.
func NewtonIteration(l Logger, iter int, residual float64, converged bool) {
	if l == nil {
		return
	}
	l.Log("level", "debug", "subsys", "newton", "iter", iter, "residual", residual, "converged", converged)
}

// ContinuationStep logs one accepted/rejected continuation step.
func ContinuationStep(l Logger, step int, p, ds float64, accepted bool, newtonIters int) {
	if l == nil {
		return
	}
	status := "rejected"
	if accepted {
		status = "accepted"
	}
	l.Log("level", "info", "subsys", "continuation", "step", step, "p", p, "ds", ds, "status", status, "newtonIters", newtonIters)
}

// FoldMarker logs a detected fold bracket.
func FoldMarker(l Logger, step int, p float64) {
	if l == nil {
		return
	}
	l.Log("level", "notice", "subsys", "continuation", "event", "fold", "step", step, "p", p)
}
