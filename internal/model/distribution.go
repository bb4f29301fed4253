package model

import (
	"fmt"
	"math"
)

// Normalization tolerance when validating a distribution's probabilities.
const probTolerance = 1e-9

// #region transition

// Transition is one weighted successor inside a distribution. Target is a
// dense state id assigned by the explorer (or a raw state index in an
// explicit model, which is the same thing there).
type Transition struct {
	Target      int
	Probability float64
}

// #endregion transition

// #region distribution

// Distribution is a single choice of a state: a probability distribution
// over successor ids, optionally tagged with an action label. The support
// slice is ordered, so iteration is deterministic under a fixed seed.
type Distribution struct {
	Label   string
	Support []Transition
}

// NewDistribution validates that the probabilities are positive and sum to
// one within tolerance.
func NewDistribution(label string, support []Transition) (Distribution, error) {
	sum := 0.0
	for _, t := range support {
		if t.Probability <= 0 {
			return Distribution{}, fmt.Errorf("distribution %q: non-positive probability %.10g to state %d", label, t.Probability, t.Target)
		}
		sum += t.Probability
	}
	if math.Abs(sum-1.0) > probTolerance {
		return Distribution{}, fmt.Errorf("distribution %q: probabilities sum to %.10g, want 1", label, sum)
	}
	return Distribution{Label: label, Support: support}, nil
}

// SumWeighted returns the expectation of f over the distribution's support.
func (d Distribution) SumWeighted(f func(successor int) float64) float64 {
	sum := 0.0
	for _, t := range d.Support {
		sum += t.Probability * f(t.Target)
	}
	return sum
}

// Contains reports whether every successor satisfies the member predicate.
func (d Distribution) Contains(member func(successor int) bool) bool {
	for _, t := range d.Support {
		if !member(t.Target) {
			return false
		}
	}
	return true
}

func (d Distribution) String() string {
	s := "{"
	for i, t := range d.Support {
		if i > 0 {
			s += " + "
		}
		s += fmt.Sprintf("%.5g:%d", t.Probability, t.Target)
	}
	return s + "}"
}

// #endregion distribution
