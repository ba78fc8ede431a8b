// SPDX-License-Identifier: MIT

// Package sparse: functional configuration for Builder.
//
// Design goals:
//   - Deterministic behavior: no global state.
//   - Safe by construction: WithX constructors panic only on nonsensical values
//     (programmer error); data errors are returned from AddNextValue/Build.
package sparse

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultValidateNaNInf rejects NaN/±Inf weights at ingestion.
	DefaultValidateNaNInf = true

	// DefaultCustomRowGrouping selects the trivial grouping (one row per group).
	DefaultCustomRowGrouping = false

	// DefaultRowCount and DefaultColumnCount of 0 mean "infer from entries".
	DefaultRowCount    = 0
	DefaultColumnCount = 0
)

const (
	panicNegativeDimension = "sparse: WithDimensions: rows and cols must be >= 0"
)

// Option mutates builder options. Safe to apply repeatedly.
type Option func(*Options)

// Options stores the effective builder configuration.
type Options struct {
	rows, cols     int  // declared dimensions; 0 = infer
	customGrouping bool // honor NewRowGroup boundaries
	validateNaNInf bool // reject non-finite weights
}

// WithDimensions declares the final shape. A zero value means "infer from the
// largest row/column seen". Declared dimensions smaller than the data make
// Build fail with ErrDimensionMismatch.
// Panics on negative values.
func WithDimensions(rows, cols int) Option {
	if rows < 0 || cols < 0 {
		panic(panicNegativeDimension)
	}

	return func(o *Options) {
		o.rows = rows
		o.cols = cols
	}
}

// WithCustomRowGrouping enables explicit row groups declared via NewRowGroup.
// Without it every row forms its own group.
func WithCustomRowGrouping() Option {
	return func(o *Options) { o.customGrouping = true }
}

// WithNoValidateNaNInf admits non-finite weights (use with care).
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// defaultOptions returns the documented defaults.
func defaultOptions() Options {
	return Options{
		rows:           DefaultRowCount,
		cols:           DefaultColumnCount,
		customGrouping: DefaultCustomRowGrouping,
		validateNaNInf: DefaultValidateNaNInf,
	}
}

// gatherOptions applies opts over the defaults in order.
func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
