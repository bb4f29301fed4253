package sampler

import (
	"github.com/Vipul-Cariappa/partial-exploration/internal/reach"
)

// #region config

// Config bundles the tunables of a sampling run. All randomness flows from
// a single rand.Rand seeded with Seed, so a fixed seed reproduces a fixed
// sequence of trajectories.
type Config struct {
	Precision        float64
	Heuristic        reach.SuccessorHeuristic
	Policy           reach.ChoicePolicy
	Seed             int64
	CollapseInterval int // newly explored states between component analyses
	MaxDepth         int // per-trajectory step cap
}

// DefaultConfig mirrors the defaults of the command-line boundary.
func DefaultConfig() Config {
	return Config{
		Precision:        1e-6,
		Heuristic:        reach.HeuristicWeighted,
		Policy:           reach.PolicyBestScore,
		Seed:             1,
		CollapseInterval: 64,
		MaxDepth:         4096,
	}
}

// #endregion config

// #region stats

// Stats counts what a run did, for diagnostics and the snapshot store.
type Stats struct {
	Trajectories        int
	Steps               int
	ExploredStates      int
	CollapsedComponents int
	CollapsedStates     int
}

// #endregion stats
