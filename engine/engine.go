// SPDX-License-Identifier: MIT

package engine

import (
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/probsynth/model"
)

// LogLevelOff is above every zap level, so no entry passes an engine gate set to it.
const LogLevelOff = zapcore.FatalLevel + 1

// Engine verifies properties of sparse models.
//
// Implementations must be safe for concurrent use as long as each call
// operates on its own CheckTask.
type Engine interface {
	// Verify computes the value of task's formula for every state of m.
	// An attached hint may speed up convergence but never changes the result
	// beyond env's tolerance.
	Verify(env Environment, m *model.Model, task *CheckTask) (*CheckResult, error)

	// ExpectedVisitingTimes returns, for every state of the DTMC m, the expected
	// number of visits when starting in initialState.
	ExpectedVisitingTimes(env Environment, m *model.Model, initialState uint64) (*CheckResult, error)

	// SetLogLevel changes the minimum level of the engine's logger.
	SetLogLevel(level zapcore.Level)
}
