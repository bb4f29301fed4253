package sampler

import (
	"fmt"
	"math/rand"

	"github.com/Vipul-Cariappa/partial-exploration/internal/explorer"
	"github.com/Vipul-Cariappa/partial-exploration/internal/logging"
	"github.com/Vipul-Cariappa/partial-exploration/internal/model"
	"github.com/Vipul-Cariappa/partial-exploration/internal/reach"
	"github.com/Vipul-Cariappa/partial-exploration/internal/values"
)

// #region sampler-struct

// BoundedSampler is the step-indexed variant: bounds are kept per (state,
// remaining steps), values at zero remaining steps are exact, and no
// component collapse is needed — the horizon bounds every backward sweep.
type BoundedSampler struct {
	explorer *explorer.Explorer
	values   *reach.BoundedValues
	horizon  int
	rng      *rand.Rand
	cfg      Config
	sink     logging.Sink
	stats    Stats
}

// #endregion sampler-struct

// #region constructor

// NewBounded wires the finite-horizon sampler.
func NewBounded(e *explorer.Explorer, v *reach.BoundedValues, horizon int,
	cfg Config, sink logging.Sink) *BoundedSampler {
	if sink == nil {
		sink = logging.NopSink{}
	}
	return &BoundedSampler{
		explorer: e,
		values:   v,
		horizon:  horizon,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		cfg:      cfg,
		sink:     sink,
	}
}

// #endregion constructor

// #region run

// Run issues horizon-long trajectories until every initial state's
// uncertainty at the full horizon is below the precision.
func (s *BoundedSampler) Run() error {
	for {
		allSolved := true
		for _, init := range s.explorer.InitialStates() {
			if s.values.Difference(init, s.horizon) < s.cfg.Precision {
				continue
			}
			allSolved = false
			if err := s.trajectory(init); err != nil {
				return err
			}
			s.stats.Trajectories++
		}
		if allSolved {
			s.sink.Eventf("SAMPLE", "bounded run converged: %d trajectories, %d states explored",
				s.stats.Trajectories, s.stats.ExploredStates)
			return nil
		}
	}
}

// #endregion run

// #region trajectory

// trajectory walks forward for at most horizon steps, then sweeps the path
// backward updating each (state, remaining) pair against the layer below.
func (s *BoundedSampler) trajectory(start int) error {
	path := []int{start}
	current := start

	for remaining := s.horizon; remaining > 0; remaining-- {
		choices, err := s.explore(current)
		if err != nil {
			return err
		}
		if len(choices) == 0 {
			break
		}
		if s.values.Difference(current, remaining) == 0 {
			break
		}
		next := s.values.SampleNextState(current, remaining, choices, s.rng, s.cfg.Heuristic, s.cfg.Policy)
		if next < 0 {
			break
		}
		current = next
		path = append(path, current)
		s.stats.Steps++
	}

	for i := len(path) - 1; i >= 0; i-- {
		remaining := s.horizon - i
		if remaining <= 0 {
			continue
		}
		choices, err := s.explore(path[i])
		if err != nil {
			return err
		}
		s.values.Update(path[i], remaining, choices)
	}
	return nil
}

func (s *BoundedSampler) explore(state int) ([]model.Distribution, error) {
	fresh := !s.explorer.IsExplored(state)
	choices, err := s.explorer.Explore(state)
	if err != nil {
		return nil, fmt.Errorf("bounded trajectory: %w", err)
	}
	if fresh {
		s.stats.ExploredStates++
	}
	return choices, nil
}

// #endregion trajectory

// #region results

// Bounds exposes the interval of a state at the full horizon.
func (s *BoundedSampler) Bounds(state int) values.Bounds {
	return s.values.Bounds(state, s.horizon)
}

// Stats returns run counters.
func (s *BoundedSampler) Stats() Stats {
	return s.stats
}

// #endregion results
