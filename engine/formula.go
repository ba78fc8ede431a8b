package engine

import "fmt"

// FormulaKind selects the quantity computed for every state.
type FormulaKind int

const (
	// ReachabilityProbability computes P[Constraint U Target].
	ReachabilityProbability FormulaKind = iota
	// ExpectedReward computes the reward accumulated until Target is reached.
	ExpectedReward
)

// Direction is the optimization direction over nondeterministic choices.
type Direction int

const (
	// Minimize resolves nondeterminism to obtain the smallest value.
	Minimize Direction = iota
	// Maximize resolves nondeterminism to obtain the largest value.
	Maximize
)

// String returns "min" or "max".
func (d Direction) String() string {
	if d == Maximize {
		return "max"
	}

	return "min"
}

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == Maximize {
		return Minimize
	}

	return Maximize
}

// Formula is an unbounded reachability property over state labels.
//   - Target names the label of goal states (required).
//   - Constraint optionally names the label that must hold until Target
//     (ReachabilityProbability only); empty means "true".
//   - RewardModel names the reward model (ExpectedReward only).
type Formula struct {
	Kind        FormulaKind
	Target      string
	Constraint  string
	RewardModel string
}

// Probability returns P[F target].
func Probability(target string) Formula {
	return Formula{Kind: ReachabilityProbability, Target: target}
}

// Until returns P[constraint U target].
func Until(constraint, target string) Formula {
	return Formula{Kind: ReachabilityProbability, Target: target, Constraint: constraint}
}

// Reward returns R{rewardModel}[F target].
func Reward(rewardModel, target string) Formula {
	return Formula{Kind: ExpectedReward, Target: target, RewardModel: rewardModel}
}

// Validate checks that the fields required by Kind are present.
func (f Formula) Validate() error {
	if f.Target == "" {
		return fmt.Errorf("formula %v: missing target: %w", f, ErrInvalidFormula)
	}
	switch f.Kind {
	case ReachabilityProbability:
		if f.RewardModel != "" {
			return fmt.Errorf("formula %v: reward model on probability: %w", f, ErrInvalidFormula)
		}
	case ExpectedReward:
		if f.RewardModel == "" {
			return fmt.Errorf("formula %v: missing reward model: %w", f, ErrInvalidFormula)
		}
		if f.Constraint != "" {
			return fmt.Errorf("formula %v: constraint on reward: %w", f, ErrInvalidFormula)
		}
	default:
		return fmt.Errorf("formula kind %d: %w", int(f.Kind), ErrInvalidFormula)
	}

	return nil
}

// String renders the formula in PRISM-like syntax, e.g. `P=? [F "goal"]`.
func (f Formula) String() string {
	switch f.Kind {
	case ExpectedReward:
		return fmt.Sprintf("R{%q}=? [F %q]", f.RewardModel, f.Target)
	default:
		if f.Constraint != "" {
			return fmt.Sprintf("P=? [%q U %q]", f.Constraint, f.Target)
		}

		return fmt.Sprintf("P=? [F %q]", f.Target)
	}
}

// KindName returns a short label for metrics and logs.
func (f Formula) KindName() string {
	if f.Kind == ExpectedReward {
		return "reward"
	}

	return "probability"
}
