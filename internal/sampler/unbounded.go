package sampler

import (
	"fmt"
	"math/rand"

	"github.com/Vipul-Cariappa/partial-exploration/internal/explorer"
	"github.com/Vipul-Cariappa/partial-exploration/internal/graph"
	"github.com/Vipul-Cariappa/partial-exploration/internal/logging"
	"github.com/Vipul-Cariappa/partial-exploration/internal/reach"
	"github.com/Vipul-Cariappa/partial-exploration/internal/values"
)

// #region sampler-struct

// UnboundedSampler drives precision-based reachability: repeated trajectory
// sampling with backward bound propagation, and periodic component collapse
// so that cycles cannot stall convergence. Single-threaded; one trajectory
// runs to completion before the next begins.
type UnboundedSampler struct {
	explorer *explorer.Explorer
	values   *reach.Values
	analyser graph.ComponentAnalyser
	rng      *rand.Rand
	cfg      Config
	sink     logging.Sink
	stats    Stats

	newSinceAnalysis int
}

// #endregion sampler-struct

// #region constructor

// NewUnbounded wires the sampler. The values table must have been built
// with the explorer's Resolve function.
func NewUnbounded(e *explorer.Explorer, v *reach.Values, analyser graph.ComponentAnalyser,
	cfg Config, sink logging.Sink) *UnboundedSampler {
	if sink == nil {
		sink = logging.NopSink{}
	}
	return &UnboundedSampler{
		explorer: e,
		values:   v,
		analyser: analyser,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		cfg:      cfg,
		sink:     sink,
	}
}

// #endregion constructor

// #region run

// Run issues trajectories until every initial state's uncertainty is below
// the precision. A generator expansion failure aborts with no result.
func (s *UnboundedSampler) Run() error {
	for {
		allSolved := true
		for _, init := range s.explorer.InitialStates() {
			state := s.explorer.Resolve(init)
			if s.values.IsSolved(state) {
				continue
			}
			allSolved = false

			sawLoop, err := s.trajectory(state)
			if err != nil {
				return err
			}
			s.stats.Trajectories++

			if sawLoop || s.newSinceAnalysis >= s.cfg.CollapseInterval {
				s.collapseComponents()
				s.newSinceAnalysis = 0
			}
		}
		if allSolved {
			s.sink.Eventf("SAMPLE", "converged: %d trajectories, %d states explored, %d components collapsed",
				s.stats.Trajectories, s.stats.ExploredStates, s.stats.CollapsedComponents)
			return nil
		}
	}
}

// #endregion run

// #region trajectory

// trajectory runs one forward simulation from start and propagates bounds
// backward over the recorded path. Forward phase ends at a newly discovered
// state, a state with zero remaining uncertainty, a state without choices,
// a revisit within the same trajectory, or the depth cap.
func (s *UnboundedSampler) trajectory(start int) (sawLoop bool, err error) {
	var path []int
	visited := make(map[int]bool)
	current := start

	for depth := 0; ; depth++ {
		current = s.explorer.Resolve(current)
		fresh := !s.explorer.IsExplored(current)
		choices, err := s.explorer.Explore(current)
		if err != nil {
			return false, fmt.Errorf("trajectory from %d: %w", start, err)
		}
		path = append(path, current)
		s.stats.Steps++

		if fresh {
			s.stats.ExploredStates++
			s.newSinceAnalysis++
			break
		}
		if s.values.Difference(current) == 0 {
			break
		}
		if len(choices) == 0 {
			break
		}
		if visited[current] {
			sawLoop = true
			break
		}
		visited[current] = true
		if depth >= s.cfg.MaxDepth {
			sawLoop = true
			break
		}

		next := s.values.SampleNextState(current, choices, s.rng)
		if next < 0 {
			break
		}
		current = next
	}

	// Backward phase: re-evaluate every visited state against the now
	// better-informed successors, up to and including the start.
	for i := len(path) - 1; i >= 0; i-- {
		state := s.explorer.Resolve(path[i])
		s.values.Update(state, s.explorer.Choices(state))
	}
	return sawLoop, nil
}

// #endregion trajectory

// #region collapse

// collapseComponents runs the component analyser over the explored subgraph
// and collapses every detected region. Under least-fixpoint semantics only
// fully absorbing components may go; the rest are skipped, not an error.
func (s *UnboundedSampler) collapseComponents() {
	components := s.analyser.FindComponents(s.explorer)
	for _, c := range components {
		if s.values.IsSmallestFixPoint() && len(c.Exits) > 0 {
			continue
		}
		rep := c.Representative()
		s.explorer.Collapse(rep, c.Members, c.Exits)
		s.values.Collapse(rep, c.Exits, c.Members)
		s.stats.CollapsedComponents++
		s.stats.CollapsedStates += len(c.Members) - 1
		s.sink.Eventf("COLLAPSE", "merged %d states into %d (%d exits)", len(c.Members), rep, len(c.Exits))
	}
}

// #endregion collapse

// #region results

// Bounds exposes the final interval of a state, normally an initial one.
func (s *UnboundedSampler) Bounds(state int) values.Bounds {
	return s.values.Bounds(state)
}

// Stats returns run counters.
func (s *UnboundedSampler) Stats() Stats {
	return s.stats
}

// #endregion results
