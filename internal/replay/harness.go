package replay

import (
	"fmt"
	"math"

	"github.com/Vipul-Cariappa/partial-exploration/internal/checker"
	"github.com/Vipul-Cariappa/partial-exploration/internal/logging"
	"github.com/Vipul-Cariappa/partial-exploration/internal/sampler"
)

// #region types

// ReplayResult captures the outcome of one replayed query.
type ReplayResult struct {
	Query    string
	Value    float64
	Expected float64
	Delta    float64
	Passed   bool
	Message  string
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	TotalQueries int
	Passed       int
	Failed       int
}

// #endregion types

// #region replay

// Replay runs every query of a fixture with the fixture's fixed seed and
// compares against the expected values. If a query has no expectation it is
// still run, reported with Passed=true and no delta. Regression primary:
// any drift in the engine's converged values shows up here.
func Replay(f Fixture, sink logging.Sink) ([]ReplayResult, ReplaySummary, error) {
	m, err := f.BuildModel()
	if err != nil {
		return nil, ReplaySummary{}, err
	}

	expected := make(map[string]FixtureExpected, len(f.Expected))
	for _, e := range f.Expected {
		expected[e.Query] = e
	}

	cfg := sampler.DefaultConfig()
	cfg.Precision = f.Precision
	cfg.Seed = f.Seed

	var results []ReplayResult
	var summary ReplaySummary

	for _, spec := range f.Queries {
		query, err := checker.BuildQuery(spec)
		if err != nil {
			return nil, summary, fmt.Errorf("query %s: %w", spec.Name, err)
		}
		sol, err := checker.Solve(m, m.Kind, query, cfg, sink)
		if err != nil {
			return nil, summary, err
		}
		if len(sol.Results) != 1 {
			return nil, summary, fmt.Errorf("query %s: fixture model must have one initial state, got %d", spec.Name, len(sol.Results))
		}
		value := sol.Results[0].Value

		r := ReplayResult{Query: spec.Name, Value: value, Passed: true}
		if e, ok := expected[spec.Name]; ok {
			tolerance := e.Tolerance
			if tolerance <= 0 {
				tolerance = 2 * f.Precision
			}
			r.Expected = e.Value
			r.Delta = math.Abs(value - e.Value)
			r.Passed = r.Delta <= tolerance
			if r.Passed {
				r.Message = fmt.Sprintf("ok: %.6g within %.2g of %.6g", value, tolerance, e.Value)
			} else {
				r.Message = fmt.Sprintf("drift: %.6g differs from %.6g by %.6g (> %.2g)", value, e.Value, r.Delta, tolerance)
			}
		} else {
			r.Message = fmt.Sprintf("no expectation, got %.6g", value)
		}

		summary.TotalQueries++
		if r.Passed {
			summary.Passed++
		} else {
			summary.Failed++
		}
		results = append(results, r)
	}
	return results, summary, nil
}

// #endregion replay
