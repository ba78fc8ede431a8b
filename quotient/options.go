// SPDX-License-Identifier: MIT

package quotient

import "go.uber.org/zap"

const panicNilLogger = "quotient: WithLogger: logger must not be nil"

// Option configures a Quotient.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used for debug traces of family construction.
// Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic(panicNilLogger)
	}

	return func(o *options) { o.logger = l }
}

func gatherOptions(opts ...Option) options {
	o := options{logger: zap.NewNop()}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
