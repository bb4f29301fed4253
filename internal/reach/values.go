package reach

import (
	"fmt"
	"math/rand"

	"github.com/Vipul-Cariappa/partial-exploration/internal/model"
	"github.com/Vipul-Cariappa/partial-exploration/internal/values"
)

// #region values-struct

// Values is the explored-state table and value-update engine for unbounded
// reachability. Bounds live in a dense slice indexed by the explorer's ids,
// growing as states are discovered; absence of an entry means Unknown (or
// ReachOne for target states) and is not an error.
//
// Per state the stored interval only ever narrows. A widening update is an
// implementation defect and panics.
type Values struct {
	kind      model.FixpointKind
	target    func(id int) bool // over a state's own semantics, stable across collapse
	resolve   func(id int) int  // collapse redirection, provided by the explorer
	precision float64
	heuristic SuccessorHeuristic
	policy    ChoicePolicy

	bounds  []values.Bounds
	tracked []bool
}

// #endregion values-struct

// #region constructor

// NewValues creates the table. The resolve function follows component
// collapse redirections; before any collapse it is the identity.
func NewValues(kind model.FixpointKind, target func(int) bool, resolve func(int) int,
	precision float64, heuristic SuccessorHeuristic, policy ChoicePolicy) *Values {
	return &Values{
		kind:      kind,
		target:    target,
		resolve:   resolve,
		precision: precision,
		heuristic: heuristic,
		policy:    policy,
	}
}

// #endregion constructor

// #region accessors

// Bounds returns the current interval for a state: ReachOne for targets,
// the stored entry if tracked, Unknown otherwise.
func (v *Values) Bounds(state int) values.Bounds {
	s := v.resolve(state)
	if v.target(s) {
		return values.ReachOne()
	}
	if s < len(v.tracked) && v.tracked[s] {
		return v.bounds[s]
	}
	return values.Unknown()
}

// LowerBound is a shortcut for Bounds(state).Lower.
func (v *Values) LowerBound(state int) float64 {
	return v.Bounds(state).Lower
}

// UpperBound is a shortcut for Bounds(state).Upper.
func (v *Values) UpperBound(state int) float64 {
	return v.Bounds(state).Upper
}

// Difference returns the remaining uncertainty of a state.
func (v *Values) Difference(state int) float64 {
	return v.Bounds(state).Difference()
}

// IsSolved reports whether a state's uncertainty is below the precision.
func (v *Values) IsSolved(state int) bool {
	return v.Bounds(state).Difference() < v.precision
}

// IsSmallestFixPoint reports least-fixpoint semantics, under which only
// fully absorbing components may be collapsed.
func (v *Values) IsSmallestFixPoint() bool {
	return v.kind == model.Least
}

// Precision returns the convergence threshold of this analysis.
func (v *Values) Precision() float64 {
	return v.precision
}

// #endregion accessors

// #region update

// Update recomputes a state's bounds from its choices and stores the result.
// Fixed states ((0,0) or (1,1)) are left untouched. The new interval must be
// contained in the previous one; anything else panics.
func (v *Values) Update(state int, choices []model.Distribution) {
	s := v.resolve(state)
	if v.kind == model.Unique && len(choices) > 1 {
		panic(fmt.Sprintf("state %d has %d choices under unique fixpoint semantics", s, len(choices)))
	}

	old := v.Bounds(s)
	if old.IsOne() || old.IsZero() {
		return
	}

	var updated values.Bounds
	switch {
	case len(choices) == 0:
		// No way to progress and the state is not a target.
		updated = values.ReachZero()
	case len(choices) == 1:
		updated = v.successorBounds(s, choices[0])
	default:
		updated = v.aggregate(s, choices)
	}

	if !old.Contains(updated) {
		panic(fmt.Sprintf("monotonicity violated for state %d: %s does not contain %s", s, old, updated))
	}
	v.set(s, updated)
}

// successorBounds is the weighted sum of successor bounds, excluding
// self-transitions and renormalizing by the remaining mass. If the whole
// mass is a self-loop there is no information to gain and the state's own
// bounds come back unchanged.
func (v *Values) successorBounds(state int, d model.Distribution) values.Bounds {
	lower, upper, sum := 0.0, 0.0, 0.0
	for _, t := range d.Support {
		successor := v.resolve(t.Target)
		if successor == state {
			continue
		}
		b := v.Bounds(successor)
		sum += t.Probability
		lower += b.Lower * t.Probability
		upper += b.Upper * t.Probability
	}
	if sum == 0 {
		return v.Bounds(state)
	}
	return values.New(lower/sum, upper/sum)
}

// aggregate combines several choices. Lower and upper bounds are maximized
// (or minimized) independently across choices rather than tied to a single
// best choice; the result still over/under-approximates soundly.
func (v *Values) aggregate(state int, choices []model.Distribution) values.Bounds {
	var lower, upper float64
	if v.kind == model.Greatest {
		lower, upper = 0.0, 0.0
		for _, d := range choices {
			b := v.successorBounds(state, d)
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
			b := v.successorBounds(state, d)
			if b.Lower < lower {
				lower = b.Lower
			}
			if b.Upper < upper {
				upper = b.Upper
			}
		}
	}
	return values.New(lower, upper)
}

// set grows the dense table as needed and stores an entry.
func (v *Values) set(state int, b values.Bounds) {
	for len(v.bounds) <= state {
		v.bounds = append(v.bounds, values.Unknown())
		v.tracked = append(v.tracked, false)
	}
	v.bounds[state] = b
	v.tracked[state] = true
}

// #endregion update

// #region collapse

// Collapse removes the members' entries and installs the component's value
// on the representative: ReachOne when any member is a target, otherwise the
// update over the escaping choices. Under least-fixpoint semantics an
// escaping choice is a contract violation. Must run after the explorer has
// redirected member ids to the representative.
func (v *Values) Collapse(representative int, exits []model.Distribution, members []int) {
	if v.IsSmallestFixPoint() && len(exits) > 0 {
		panic(fmt.Sprintf("collapse of non-bottom component (representative %d, %d exits) under least fixpoint", representative, len(exits)))
	}

	anyTarget := false
	for _, m := range members {
		if v.target(m) {
			anyTarget = true
		}
		if m != representative && m < len(v.tracked) {
			v.tracked[m] = false
		}
	}

	if anyTarget {
		v.set(representative, values.ReachOne())
		return
	}
	v.Update(representative, exits)
}

// #endregion collapse

// #region sampling

// SampleNextState scores the choices by fixpoint kind, picks one by policy
// and samples a successor by heuristic weight. Returns -1 when nothing is
// worth following, which terminates the forward phase.
func (v *Values) SampleNextState(state int, choices []model.Distribution, rng *rand.Rand) int {
	var actionScore func(model.Distribution) float64
	if v.IsSmallestFixPoint() {
		actionScore = func(d model.Distribution) float64 {
			return 1.0 - d.SumWeighted(v.LowerBound)
		}
	} else {
		actionScore = func(d model.Distribution) float64 {
			return d.SumWeighted(v.UpperBound)
		}
	}
	return sampleNext(choices, rng, v.policy, v.heuristic, actionScore, v.Difference)
}

// #endregion sampling
