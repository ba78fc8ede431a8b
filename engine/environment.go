// SPDX-License-Identifier: MIT

package engine

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultPrecision is the convergence threshold of iterative solvers.
	DefaultPrecision = 1e-6

	// DefaultRelative selects relative (|x'-x| <= eps·|x'|) over absolute convergence.
	DefaultRelative = true

	// DefaultMaxIterations caps the number of solver sweeps.
	DefaultMaxIterations = 100000

	// EnvPrefix prefixes the environment variables read by LoadEnvironment.
	EnvPrefix = "PROBSYNTH_"
)

// Environment controls the numerical behaviour of an engine. Results are
// accurate up to Precision under the selected convergence criterion.
type Environment struct {
	Precision     float64 `yaml:"precision" env:"PRECISION"`
	Relative      bool    `yaml:"relative" env:"RELATIVE"`
	MaxIterations int     `yaml:"maxIterations" env:"MAX_ITERATIONS"`
}

// DefaultEnvironment returns the documented defaults.
func DefaultEnvironment() Environment {
	return Environment{
		Precision:     DefaultPrecision,
		Relative:      DefaultRelative,
		MaxIterations: DefaultMaxIterations,
	}
}

// Validate checks that Precision is finite and positive and MaxIterations positive.
func (e Environment) Validate() error {
	if math.IsNaN(e.Precision) || math.IsInf(e.Precision, 0) || e.Precision <= 0 {
		return fmt.Errorf("precision %g: %w", e.Precision, ErrInvalidEnvironment)
	}
	if e.MaxIterations <= 0 {
		return fmt.Errorf("maxIterations %d: %w", e.MaxIterations, ErrInvalidEnvironment)
	}

	return nil
}

// Converged reports whether an update from old to upd is within the tolerance.
// Infinite values are converged once both sides agree.
func (e Environment) Converged(old, upd float64) bool {
	if old == upd {
		return true
	}
	diff := math.Abs(upd - old)
	if e.Relative && upd != 0 {
		return diff <= e.Precision*math.Abs(upd)
	}

	return diff <= e.Precision
}

// LoadEnvironment layers configuration sources:
// defaults ← YAML file at path (skipped when path is empty) ← PROBSYNTH_* variables.
// The result is validated.
func LoadEnvironment(path string) (Environment, error) {
	cfg := DefaultEnvironment()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Environment{}, fmt.Errorf("engine: read environment %s: %w", path, err)
		}
		if err = yaml.Unmarshal(raw, &cfg); err != nil {
			return Environment{}, fmt.Errorf("engine: parse environment %s: %w", path, errors.Join(ErrInvalidEnvironment, err))
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Environment{}, fmt.Errorf("engine: parse env: %w", errors.Join(ErrInvalidEnvironment, err))
	}
	if err := cfg.Validate(); err != nil {
		return Environment{}, fmt.Errorf("engine: %w", err)
	}

	return cfg, nil
}
