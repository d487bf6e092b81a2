// Package scenario loads a ContinuationOptions from a TOML scenario
// file, the way the teacher's cmd/mission driver loads a mission scenario
// via viper rather than flags alone.
package scenario

import (
	"fmt"
	"strings"

	pacont "github.com/nlsolve/pacont"
	"github.com/spf13/viper"
)

// Load reads path (with or without a .toml suffix) into a
// ContinuationOptions, defaulting any field the file omits.
func Load(path string) (pacont.ContinuationOptions, error) {
	v := viper.New()
	v.SetConfigName(strings.TrimSuffix(path, ".toml"))
	v.AddConfigPath(".")
	v.SetDefault("continuation.ds0", 0.1)
	v.SetDefault("continuation.dsmin", 1e-6)
	v.SetDefault("continuation.dsmax", 1.0)
	v.SetDefault("continuation.growth", 1.5)
	v.SetDefault("continuation.shrink", 2.0)
	v.SetDefault("continuation.theta", 0.5)
	v.SetDefault("continuation.pmin", -1e9)
	v.SetDefault("continuation.pmax", 1e9)
	v.SetDefault("continuation.max_steps", 1000)
	v.SetDefault("continuation.detect_fold", true)
	v.SetDefault("continuation.arclength_scaling", true)
	v.SetDefault("continuation.desired_iter", 3)
	v.SetDefault("newton.tol", 1e-10)
	v.SetDefault("newton.max_iter", 20)
	v.SetDefault("newton.linesearch", true)
	v.SetDefault("continuation.fd_step", pacont.DefaultFDStep)

	if err := v.ReadInConfig(); err != nil {
		return pacont.ContinuationOptions{}, fmt.Errorf("scenario: %s.toml: %w", path, err)
	}

	opts := pacont.ContinuationOptions{
		DS0:                v.GetFloat64("continuation.ds0"),
		DSMin:              v.GetFloat64("continuation.dsmin"),
		DSMax:              v.GetFloat64("continuation.dsmax"),
		Growth:             v.GetFloat64("continuation.growth"),
		Shrink:             v.GetFloat64("continuation.shrink"),
		Theta:              v.GetFloat64("continuation.theta"),
		PMin:               v.GetFloat64("continuation.pmin"),
		PMax:               v.GetFloat64("continuation.pmax"),
		MaxSteps:           v.GetInt("continuation.max_steps"),
		DetectFold:         v.GetBool("continuation.detect_fold"),
		DoArcLengthScaling: v.GetBool("continuation.arclength_scaling"),
		DesiredIter:        v.GetInt("continuation.desired_iter"),
		FDStep:             v.GetFloat64("continuation.fd_step"),
		Newton: pacont.NewtonOptions{
			Tol:        v.GetFloat64("newton.tol"),
			MaxIter:    v.GetInt("newton.max_iter"),
			Linesearch: v.GetBool("newton.linesearch"),
		},
	}
	return opts, nil
}
