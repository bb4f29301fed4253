package checker

import (
	"fmt"

	"github.com/Vipul-Cariappa/partial-exploration/internal/explorer"
	"github.com/Vipul-Cariappa/partial-exploration/internal/graph"
	"github.com/Vipul-Cariappa/partial-exploration/internal/logging"
	"github.com/Vipul-Cariappa/partial-exploration/internal/model"
	"github.com/Vipul-Cariappa/partial-exploration/internal/reach"
	"github.com/Vipul-Cariappa/partial-exploration/internal/sampler"
	"github.com/Vipul-Cariappa/partial-exploration/internal/values"
)

// #region result

// Result is the interpreted outcome for one initial state of one query.
type Result struct {
	State   any           // opaque generator state
	StateID int           // dense id assigned by the explorer
	Bounds  values.Bounds // final interval
	Value   float64       // point estimate: interval midpoint
	Verdict *bool         // threshold comparison, when the query has one
}

// Solution bundles the per-initial-state results with the run's explored
// model, for snapshotting and inspection.
type Solution struct {
	Results []Result
	Explorer *explorer.Explorer
	Bounds   func(state int) values.Bounds
	Target   func(state int) bool
	Stats    sampler.Stats
}

// #endregion result

// #region solve

// Solve runs one reachability query against a generator-backed model:
// builds the explorer, picks the fixpoint kind and component analyser for
// the model class, runs the unbounded or bounded sampler, and interprets
// the bounds of every initial state.
func Solve(gen model.Generator, kind model.Kind, q Query, cfg sampler.Config, sink logging.Sink) (*Solution, error) {
	exp, err := explorer.New(gen)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Name, err)
	}

	target := func(id int) bool {
		return q.Target(exp.State(id))
	}

	fixpoint := q.Optimize
	if kind == model.Chain {
		fixpoint = model.Unique
	}

	sol := &Solution{Explorer: exp, Target: target}

	if q.Bound > 0 {
		vals := reach.NewBoundedValues(fixpoint, target)
		run := sampler.NewBounded(exp, vals, q.Bound, cfg, sink)
		if err := run.Run(); err != nil {
			return nil, fmt.Errorf("query %s: %w", q.Name, err)
		}
		sol.Bounds = run.Bounds
		sol.Stats = run.Stats()
	} else {
		vals := reach.NewValues(fixpoint, target, exp.Resolve, cfg.Precision, cfg.Heuristic, cfg.Policy)
		run := sampler.NewUnbounded(exp, vals, graph.NewAnalyser(kind), cfg, sink)
		if err := run.Run(); err != nil {
			return nil, fmt.Errorf("query %s: %w", q.Name, err)
		}
		sol.Bounds = run.Bounds
		sol.Stats = run.Stats()
	}

	for _, init := range exp.InitialStates() {
		b := sol.Bounds(exp.Resolve(init))
		r := Result{
			State:   exp.State(init),
			StateID: init,
			Bounds:  b,
			Value:   b.Average(),
		}
		if q.Threshold != nil {
			verdict := q.Threshold.Decide(b)
			r.Verdict = &verdict
		}
		sol.Results = append(sol.Results, r)
	}
	return sol, nil
}

// #endregion solve
