package reach

import (
	"fmt"
	"math/rand"

	"github.com/Vipul-Cariappa/partial-exploration/internal/model"
	"github.com/Vipul-Cariappa/partial-exploration/internal/values"
)

// #region bounded-struct

// BoundedValues indexes bounds by (state, remaining steps) for the
// finite-horizon variant. At zero remaining steps values are exact, not
// intervals to refine: ReachOne for targets, ReachZero otherwise. No
// component collapse exists here, so ids never need resolving.
type BoundedValues struct {
	kind   model.FixpointKind
	target func(id int) bool

	// bounds[state][remaining-1]; the remaining==0 layer is computed, not
	// stored.
	bounds  [][]values.Bounds
	tracked [][]bool
}

// #endregion bounded-struct

// #region constructor

// NewBoundedValues creates the step-indexed table.
func NewBoundedValues(kind model.FixpointKind, target func(int) bool) *BoundedValues {
	return &BoundedValues{kind: kind, target: target}
}

// #endregion constructor

// #region accessors

// Bounds returns the interval for a state with the given remaining steps.
func (v *BoundedValues) Bounds(state, remaining int) values.Bounds {
	if v.target(state) {
		return values.ReachOne()
	}
	if remaining <= 0 {
		// Beyond the horizon no probability can accrue.
		return values.ReachZero()
	}
	if state < len(v.tracked) && remaining-1 < len(v.tracked[state]) && v.tracked[state][remaining-1] {
		return v.bounds[state][remaining-1]
	}
	return values.Unknown()
}

// Difference returns the remaining uncertainty at (state, remaining).
func (v *BoundedValues) Difference(state, remaining int) float64 {
	return v.Bounds(state, remaining).Difference()
}

// #endregion accessors

// #region update

// Update applies the step-k aggregation against successor values at step
// k-1. Self-transitions stay included: the step index already breaks the
// self-reference, a self-loop reads the k-1 layer.
func (v *BoundedValues) Update(state, remaining int, choices []model.Distribution) {
	if remaining <= 0 {
		return
	}
	if v.kind == model.Unique && len(choices) > 1 {
		panic(fmt.Sprintf("state %d has %d choices under unique fixpoint semantics", state, len(choices)))
	}

	old := v.Bounds(state, remaining)
	if old.IsOne() || old.IsZero() {
		return
	}

	var updated values.Bounds
	switch {
	case len(choices) == 0:
		updated = values.ReachZero()
	case len(choices) == 1:
		updated = v.successorBounds(state, remaining, choices[0])
	default:
		var lower, upper float64
		if v.kind == model.Greatest {
			lower, upper = 0.0, 0.0
			for _, d := range choices {
				b := v.successorBounds(state, remaining, d)
				if b.Lower > lower {
					lower = b.Lower
				}
				if b.Upper > upper {
					upper = b.Upper
				}
			}
		} else {
			lower, upper = 1.0, 1.0
			for _, d := range choices {
				b := v.successorBounds(state, remaining, d)
				if b.Lower < lower {
					lower = b.Lower
				}
				if b.Upper < upper {
					upper = b.Upper
				}
			}
		}
		updated = values.New(lower, upper)
	}

	if !old.Contains(updated) {
		panic(fmt.Sprintf("monotonicity violated for state %d at %d steps: %s does not contain %s", state, remaining, old, updated))
	}
	v.set(state, remaining, updated)
}

// successorBounds is the plain expectation over the k-1 layer.
func (v *BoundedValues) successorBounds(state, remaining int, d model.Distribution) values.Bounds {
	lower, upper := 0.0, 0.0
	for _, t := range d.Support {
		b := v.Bounds(t.Target, remaining-1)
		lower += b.Lower * t.Probability
		upper += b.Upper * t.Probability
	}
	return values.New(lower, upper)
}

func (v *BoundedValues) set(state, remaining int, b values.Bounds) {
	for len(v.bounds) <= state {
		v.bounds = append(v.bounds, nil)
		v.tracked = append(v.tracked, nil)
	}
	for len(v.bounds[state]) < remaining {
		v.bounds[state] = append(v.bounds[state], values.Unknown())
		v.tracked[state] = append(v.tracked[state], false)
	}
	v.bounds[state][remaining-1] = b
	v.tracked[state][remaining-1] = true
}

// #endregion update

// #region sampling

// SampleNextState mirrors the unbounded heuristic but reads the successor
// layer one step below.
func (v *BoundedValues) SampleNextState(state, remaining int, choices []model.Distribution,
	rng *rand.Rand, heuristic SuccessorHeuristic, policy ChoicePolicy) int {
	if remaining <= 0 {
		return -1
	}
	var actionScore func(model.Distribution) float64
	if v.kind == model.Least {
		actionScore = func(d model.Distribution) float64 {
			return 1.0 - d.SumWeighted(func(s int) float64 { return v.Bounds(s, remaining-1).Lower })
		}
	} else {
		actionScore = func(d model.Distribution) float64 {
			return d.SumWeighted(func(s int) float64 { return v.Bounds(s, remaining-1).Upper })
		}
	}
	uncertainty := func(s int) float64 { return v.Difference(s, remaining-1) }
	return sampleNext(choices, rng, policy, heuristic, actionScore, uncertainty)
}

// #endregion sampling
