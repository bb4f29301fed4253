package store

import (
	"time"

	"github.com/Vipul-Cariappa/partial-exploration/internal/explorer"
	"github.com/Vipul-Cariappa/partial-exploration/internal/values"
)

// #region run-record

// RunRecord summarizes one analysis run.
type RunRecord struct {
	RunID               string
	ModelPath           string
	Property            string
	Kind                string // fixpoint kind: max | min | unique
	Precision           float64
	Trajectories        int
	ExploredStates      int
	CollapsedComponents int
	DurationMS          int64
	CreatedAt           time.Time
}

// #endregion run-record

// #region snapshot

// StateRow is one state of a persisted snapshot with its final bounds.
type StateRow struct {
	StateID    int
	IsInitial  bool
	IsTarget   bool
	IsExplored bool
	Lower      float64
	Upper      float64
}

// TransitionRow is one weighted edge of a persisted snapshot.
type TransitionRow struct {
	StateID     int
	ChoiceIdx   int
	Label       string
	SuccessorID int
	Probability float64
}

// Snapshot is the explored part of a model at the end of a run.
type Snapshot struct {
	States      []StateRow
	Transitions []TransitionRow
}

// #endregion snapshot

// #region snapshot-builder

// SnapshotFromExplorer captures every discovered state with its current
// bounds and the transitions of the explored ones. Collapsed member ids are
// folded into their representatives and do not reappear.
func SnapshotFromExplorer(exp *explorer.Explorer, bounds func(int) values.Bounds, target func(int) bool) Snapshot {
	var snap Snapshot

	initial := make(map[int]bool)
	for _, s := range exp.InitialStates() {
		initial[exp.Resolve(s)] = true
	}

	for id := 0; id < exp.NumStates(); id++ {
		if exp.Resolve(id) != id {
			continue
		}
		b := bounds(id)
		snap.States = append(snap.States, StateRow{
			StateID:    id,
			IsInitial:  initial[id],
			IsTarget:   target(id),
			IsExplored: exp.IsExplored(id),
			Lower:      b.Lower,
			Upper:      b.Upper,
		})
		if !exp.IsExplored(id) {
			continue
		}
		for c, d := range exp.Choices(id) {
			for _, t := range d.Support {
				snap.Transitions = append(snap.Transitions, TransitionRow{
					StateID:     id,
					ChoiceIdx:   c,
					Label:       d.Label,
					SuccessorID: exp.Resolve(t.Target),
					Probability: t.Probability,
				})
			}
		}
	}
	return snap
}

// #endregion snapshot-builder
