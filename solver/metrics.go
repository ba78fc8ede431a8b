// SPDX-License-Identifier: MIT

package solver

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics groups the solver's collectors.
type metrics struct {
	checks        *prometheus.CounterVec
	iterations    prometheus.Histogram
	endComponents prometheus.Counter
	visits        prometheus.Counter
	failures      *prometheus.CounterVec
}

func newMetrics(namespace string, reg prometheus.Registerer) *metrics {
	m := &metrics{
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "checks_total",
			Help:      "Number of verified formulas by kind and hint usage.",
		}, []string{"kind", "hinted"}),
		iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "iterations",
			Help:      "Value iteration sweeps per solved equation system.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 9),
		}),
		endComponents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "end_components_collapsed_total",
			Help:      "Maximal end components collapsed before value iteration.",
		}),
		visits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "visit_queries_total",
			Help:      "Number of expected-visiting-times computations.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "failures_total",
			Help:      "Failed engine calls by operation.",
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(m.checks, m.iterations, m.endComponents, m.visits, m.failures)
	}

	return m
}

func (m *metrics) observeCheck(kind string, hinted bool, iterations, endComponents int) {
	m.checks.WithLabelValues(kind, strconv.FormatBool(hinted)).Inc()
	m.iterations.Observe(float64(iterations))
	m.endComponents.Add(float64(endComponents))
}
