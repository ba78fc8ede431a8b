// SPDX-License-Identifier: MIT

package quotient

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/probsynth/engine"
	"github.com/katalvlaran/probsynth/model"
	"github.com/katalvlaran/probsynth/synthesis"
)

// Results of one formula verified in both directions.
type Results struct {
	Primary   *engine.CheckResult
	Secondary *engine.CheckResult
}

// CheckBothDirections verifies f on m in direction d (primary) and in the
// opposite direction (secondary). The two checks run concurrently.
//
// A non-nil hints.Primary warm-starts the primary check and hints.Secondary
// the secondary one, both through synthesis.ModelCheckWithHint. Schedulers
// are produced for MDPs.
func CheckBothDirections(eng engine.Engine, env engine.Environment, m *model.Model, f engine.Formula, d engine.Direction, hints HintPair) (*Results, error) {
	var (
		res Results
		g   errgroup.Group
	)
	g.Go(func() error {
		r, err := checkDirection(eng, env, m, f, d, hints.Primary)
		res.Primary = r

		return err
	})
	g.Go(func() error {
		r, err := checkDirection(eng, env, m, f, d.Opposite(), hints.Secondary)
		res.Secondary = r

		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("CheckBothDirections(%s): %w", f, err)
	}

	return &res, nil
}

func checkDirection(eng engine.Engine, env engine.Environment, m *model.Model, f engine.Formula, d engine.Direction, hint []float64) (*engine.CheckResult, error) {
	task := engine.NewCheckTask(f, engine.WithDirection(d))
	if m != nil && !m.IsDTMC() {
		task.SetProduceSchedulers(true)
	}
	if hint == nil {
		return eng.Verify(env, m, task)
	}

	return synthesis.ModelCheckWithHint(eng, m, task, env, hint)
}
