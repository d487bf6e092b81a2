// Command pacont runs a continuation scenario from the command line.
// This is the ambient runnable driver the teacher repo always ships
// alongside its library (cmd/mission, cmd/designer, ...); it is not part
// of the pacont API surface.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	pacont "github.com/nlsolve/pacont"
	"github.com/nlsolve/pacont/internal/scenario"
	"github.com/nlsolve/pacont/linsolve"
	"github.com/nlsolve/pacont/vector"
	"gonum.org/v1/gonum/mat"
)

const defaultScenario = "~~unset~~"

var (
	scenarioPath string
	verbose      bool
)

func init() {
	flag.StringVar(&scenarioPath, "scenario", defaultScenario, "continuation scenario TOML file")
	flag.BoolVar(&verbose, "verbose", false, "log each Newton iteration and continuation step")
}

func main() {
	flag.Parse()

	opts := pacont.ContinuationOptions{
		DS0: 0.05, DSMin: 1e-6, DSMax: 0.2,
		Growth: 1.5, Shrink: 2.0, Theta: 0.5,
		PMin: -1, PMax: 4, MaxSteps: 1000,
		DetectFold: true, DoArcLengthScaling: true, DesiredIter: 3,
		Newton: pacont.NewtonOptions{Tol: 1e-10, MaxIter: 20, Linesearch: true, Verbose: verbose},
	}
	if scenarioPath != defaultScenario {
		loaded, err := scenario.Load(strings.TrimSuffix(scenarioPath, ".toml"))
		if err != nil {
			log.Fatalf("./%s.toml: %s", scenarioPath, err)
		}
		opts = loaded
		opts.Newton.Verbose = verbose
	}

	logger := pacont.NewLogfmtLogger(os.Stdout)

	// F(x, p) = x^2 - p, the §8 scalar-quadratic scenario: a fold sits at
	// p = 0, and the branch must be traced through it down to x < 0.
	f := func(x pacont.Vector, p float64) pacont.Vector {
		v := vector.AsDense(x)
		return vector.NewDense([]float64{v[0]*v[0] - p})
	}
	j := func(x pacont.Vector, p float64) linsolve.Operator {
		v := vector.AsDense(x)
		return scalarOperator{2 * v[0]}
	}

	x0 := pacont.NewDenseVector([]float64{1})

	var wg sync.WaitGroup
	ticker := time.NewTicker(50 * time.Millisecond)
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ticker.C:
				fmt.Fprintf(os.Stderr, ".")
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	branch, final, err := pacont.Continue(f, j, x0, 1, opts, pacont.Hooks{Logger: logger})
	close(done)
	wg.Wait()
	fmt.Fprintln(os.Stderr)

	if err != nil {
		log.Fatalf("continuation setup failed: %s", err)
	}

	fmt.Println("scalar quadratic: F(x,p) = x^2 - p")
	fmt.Printf("branch terminated: %s, %d points, %d markers, final x=%v\n",
		branch.Reason, len(branch.Points), len(branch.Markers), vector.AsDense(final))
	for _, m := range branch.Markers {
		fmt.Printf("  fold near p=%.6f (bracketed at branch index %d)\n", m.BracketedParameter, m.IndexInBranch)
	}

	runBratuScenario(verbose)
}

// runBratuScenario traces the §8 Bratu-like BVP, the second of the two
// end-to-end scenarios this driver demonstrates.
func runBratuScenario(verbose bool) {
	bratu := pacont.NewBratuProblem(100)
	opts := pacont.ContinuationOptions{
		DS0: 0.005, DSMin: 1e-6, DSMax: 0.05,
		Growth: 1.1, Shrink: 2, Theta: 0.91,
		PMin: -1, PMax: 4.1, MaxSteps: 4000,
		DetectFold: true, DoArcLengthScaling: true, DesiredIter: 4,
		Newton: pacont.NewtonOptions{Tol: 1e-8, MaxIter: 30, Linesearch: true, Verbose: verbose},
	}

	branch, _, err := pacont.Continue(bratu.Residual, bratu.Jacobian, bratu.Seed(), 0, opts, pacont.Hooks{})
	if err != nil {
		log.Fatalf("bratu continuation setup failed: %s", err)
	}

	fmt.Println("bratu-like BVP: Δx + p*(1+x+0.5x^2)/(1+0.01x^2) = 0, N=100")
	fmt.Printf("branch terminated: %s, %d points, %d markers\n",
		branch.Reason, len(branch.Points), len(branch.Markers))
	for _, m := range branch.Markers {
		fmt.Printf("  fold near p=%.6f (bracketed at branch index %d)\n", m.BracketedParameter, m.IndexInBranch)
	}
}

// scalarOperator is the 1x1 Jacobian of the scalar-quadratic demo.
type scalarOperator struct{ j float64 }

func (s scalarOperator) Apply(x pacont.Vector) pacont.Vector {
	v := vector.AsDense(x)
	return vector.NewDense([]float64{s.j * v[0]})
}
func (s scalarOperator) Dim() int { return 1 }

func (s scalarOperator) Dense() *mat.Dense { return mat.NewDense(1, 1, []float64{s.j}) }
