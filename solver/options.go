// SPDX-License-Identifier: MIT

package solver

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	panicNilLogger = "solver: WithLogger: logger must not be nil"

	// DefaultNamespace prefixes all solver metric names.
	DefaultNamespace = "probsynth"
)

// Option configures a Solver.
type Option func(*options)

type options struct {
	logger     *zap.Logger
	registerer prometheus.Registerer // nil = metrics are kept but not exported
	namespace  string
}

// WithLogger sets the logger. Entries are additionally gated by SetLogLevel.
// Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic(panicNilLogger)
	}

	return func(o *options) { o.logger = l }
}

// WithRegisterer registers the solver metrics with reg.
// Registering two solvers with one registry panics (duplicate collectors).
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithNamespace overrides the metric namespace (default "probsynth").
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

func gatherOptions(opts ...Option) options {
	o := options{logger: zap.NewNop(), namespace: DefaultNamespace}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
