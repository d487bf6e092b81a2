package pacont

// Point is one immutable point on a branch.
type Point struct {
	X     Vector
	P     float64
	DS    float64 // arclength step that produced this point
	NormX float64 // ||x|| summary, cached at append time
}

// BifurcationKind classifies a detected bifurcation marker.
type BifurcationKind uint8

const (
	// FoldKind marks a fold (turning) point.
	FoldKind BifurcationKind = iota
	// HopfKind marks a Hopf point (detection not implemented by this
	// package; named for completeness, per spec §1 scope).
	HopfKind
	// UnknownKind marks an event whose classification was inconclusive.
	UnknownKind
)

// Marker records a detected bifurcation bracketed between two
// consecutive accepted points.
type Marker struct {
	IndexInBranch      int
	Kind               BifurcationKind
	BracketedParameter float64
}

// TerminalReason tags how a Continue run ended. The public API never
// returns an error for ordinary numerical trouble (§7); it tags the
// branch instead.
type TerminalReason uint8

const (
	// Completed means the run simply exhausted the loop body without a
	// more specific termination cause being recorded (should not occur
	// in practice; every loop exit sets a specific reason below).
	Completed TerminalReason = iota
	// DomainExit means p crossed pmin or pmax.
	DomainExit
	// StepSizeFloor means two consecutive rejections occurred with ds
	// already at dsmin.
	StepSizeFloor
	// UserAbort means the Hooks.Finalise callback returned false.
	UserAbort
	// NonFinite means a NaN/Inf was encountered during the run.
	NonFinite
	// MaxStepsReached means the accepted-step cap was hit.
	MaxStepsReached
)

func (r TerminalReason) String() string {
	switch r {
	case DomainExit:
		return "domain-exit"
	case StepSizeFloor:
		return "step-size-floor"
	case UserAbort:
		return "user-abort"
	case NonFinite:
		return "non-finite"
	case MaxStepsReached:
		return "max-steps-reached"
	default:
		return "completed"
	}
}

// Branch is the ordered sequence of accepted points plus any detected
// bifurcation markers.
type Branch struct {
	Points  []Point
	Markers []Marker
	Reason  TerminalReason
}

// Append records a new accepted point. Branch owns its points; callers
// must not mutate a Point's Vector after appending it.
func (b *Branch) Append(p Point) {
	b.Points = append(b.Points, p)
}

// Last returns the most recently appended point and true, or the zero
// Point and false if the branch is empty.
func (b *Branch) Last() (Point, bool) {
	if len(b.Points) == 0 {
		return Point{}, false
	}
	return b.Points[len(b.Points)-1], true
}
